package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/common/expfmt"

	"github.com/chatwrapped/engine/internal/app"
	"github.com/chatwrapped/engine/internal/config"
	"github.com/chatwrapped/engine/internal/domain/event"
	"github.com/chatwrapped/engine/internal/domain/merge"
	"github.com/chatwrapped/engine/pkg/logger"
	"github.com/chatwrapped/engine/pkg/metrics"
)

// Environment overrides for input sources and outputs.
const (
	eventsPathEnv     = "WRAPPED_EVENTS"
	identitiesPathEnv = "WRAPPED_IDENTITIES"
	metricsPathEnv    = "WRAPPED_METRICS"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	events, err := readEvents(eventsPath())
	if err != nil {
		log.Error(ctx, "failed to read events", logger.Error(err))
		return 1
	}
	log.Info(ctx, "loaded events", logger.Int("count", len(events)))

	opts := []app.Option{
		app.WithConfig(cfg),
		app.WithLogger(log.Named("engine")),
	}
	if path := os.Getenv(identitiesPathEnv); path != "" {
		resolver, err := readIdentities(path)
		if err != nil {
			log.Error(ctx, "failed to read identity map", logger.Error(err))
			return 1
		}
		opts = append(opts, app.WithResolver(resolver))
	}

	report, err := app.New(opts...).Run(ctx, events)
	if err != nil {
		log.Error(ctx, "report computation failed", logger.Error(err))
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error(ctx, "failed to write report", logger.Error(err))
		return 1
	}

	if path := os.Getenv(metricsPathEnv); path != "" {
		if err := writeMetrics(path); err != nil {
			log.Warn(ctx, "failed to write metrics", logger.Error(err))
		}
	}
	return 0
}

// writeMetrics dumps the run's metrics in Prometheus text exposition format.
// A batch process has no scrape endpoint, so the registry is written out once
// at exit for collection by the node textfile collector or ad hoc inspection.
func writeMetrics(path string) error {
	families, err := metrics.Registry().Gather()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// eventsPath resolves the input source: the WRAPPED_EVENTS env var, then the
// first positional argument, then stdin.
func eventsPath() string {
	if path := os.Getenv(eventsPathEnv); path != "" {
		return path
	}
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "-"
}

func readEvents(path string) ([]event.MessageEvent, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var events []event.MessageEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// readIdentities loads a JSON object mapping "platform:contact" keys to
// canonical person ids.
func readIdentities(path string) (merge.MapResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	resolver := make(merge.MapResolver, len(raw))
	for key, personID := range raw {
		platform, contactID, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		resolver[event.ContactKey{Platform: event.Platform(platform), ContactID: contactID}] = personID
	}
	return resolver, nil
}
