// Package app wires the analyzers into the end-to-end report pipeline.
package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chatwrapped/engine/internal/config"
	"github.com/chatwrapped/engine/internal/domain/aggregate"
	"github.com/chatwrapped/engine/internal/domain/event"
	"github.com/chatwrapped/engine/internal/domain/initiation"
	"github.com/chatwrapped/engine/internal/domain/latency"
	"github.com/chatwrapped/engine/internal/domain/merge"
	"github.com/chatwrapped/engine/internal/domain/streak"
	"github.com/chatwrapped/engine/internal/domain/timeline"
	"github.com/chatwrapped/engine/pkg/logger"
	"github.com/chatwrapped/engine/pkg/metrics"
)

// Engine runs the full analytics pipeline: normalize, analyze in parallel,
// merge across platforms, rank. It is a pure batch computation; the input
// slice is fully materialized before Run and nothing inside performs I/O.
type Engine struct {
	cfg      *config.Config
	resolver merge.Resolver
	exclude  timeline.ExcludeFunc
	logger   logger.Logger
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:     config.New(),
		exclude: timeline.DefaultExclude,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one report computation. Analyzer passes share the read-only
// normalized timelines and write disjoint outputs, so they run as parallel
// tasks joined before ranking and merging begin.
func (e *Engine) Run(ctx context.Context, events []event.MessageEvent) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	log := e.log()

	norm, err := timeline.New(
		timeline.WithWindowStart(e.cfg.WindowStart),
		timeline.WithExcludeFunc(e.exclude),
	).Normalize(ctx, events)
	if err != nil {
		return nil, err
	}
	metrics.AddEventsNormalized(norm.EligibleEvents)
	metrics.AddEventsSkipped(norm.Skipped)
	metrics.UpdateContactsTracked(len(norm.Timelines))
	metrics.UpdateContactsExcluded(norm.ExcludedContacts)
	log.Info(ctx, "normalized events",
		logger.Int("contacts", len(norm.Timelines)),
		logger.Int("eligible", norm.EligibleEvents),
		logger.Int("skipped", norm.Skipped),
	)

	var (
		replies  map[event.ContactKey]latency.Stats
		starts   map[event.ContactKey]initiation.Counts
		agg      *aggregate.Result
		strk     streak.Streak
		marathon streak.Marathon
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallelism)
	g.Go(e.timed("latency", func() error {
		var err error
		replies, err = latency.New(
			latency.WithBounds(e.cfg.MinLatencySeconds, e.cfg.MaxLatencySeconds),
		).Analyze(gctx, norm.Timelines)
		return err
	}))
	g.Go(e.timed("initiation", func() error {
		var err error
		starts, err = initiation.New(
			initiation.WithGap(e.cfg.InitiationGapSeconds),
		).Analyze(gctx, norm.Timelines)
		return err
	}))
	g.Go(e.timed("streak", func() error {
		var err error
		strk, marathon, err = streak.New().Analyze(gctx, norm.Timelines)
		return err
	}))
	g.Go(e.timed("aggregate", func() error {
		var err error
		agg, err = aggregate.New(
			aggregate.WithCutoff(e.cfg.HalfYearCutoff),
			aggregate.WithLateNightHour(e.cfg.LateNightHourEnd),
		).Analyze(gctx, norm.Timelines)
		return err
	}))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contacts := make(map[event.ContactKey]merge.ContactMetrics, len(norm.Timelines))
	for key := range norm.Timelines {
		contacts[key] = merge.ContactMetrics{
			Reply:      replies[key],
			Initiation: starts[key],
			Volume:     agg.Volumes[key],
		}
	}
	merged, err := merge.New(merge.WithResolver(e.resolver)).Merge(ctx, contacts)
	if err != nil {
		return nil, err
	}
	metrics.UpdateUnresolvedIdentities(merged.Unresolved)
	metrics.UpdateMergedPersons(len(merged.Persons))
	if merged.Unresolved > 0 {
		log.Warn(ctx, "identities left unmerged",
			logger.Int("unresolved", merged.Unresolved),
		)
	}

	report := e.buildReport(norm, merged, agg, strk, marathon)
	metrics.RecordReportRun()
	log.Info(ctx, "report computed",
		logger.Int("persons", len(merged.Persons)),
		logger.Int("unresolved", merged.Unresolved),
	)
	return report, nil
}

// timed wraps an analyzer pass with a duration observation.
func (e *Engine) timed(name string, fn func() error) func() error {
	return func() error {
		start := time.Now()
		err := fn()
		metrics.ObserveAnalyzerDuration(name, time.Since(start).Seconds())
		return err
	}
}

func (e *Engine) log() logger.Logger {
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}
	return e.logger
}
