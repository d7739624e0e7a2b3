// Package latency computes directional reply-time statistics from adjacent
// event pairs in a contact timeline.
package latency

import (
	"context"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// Default latency bounds in seconds. Pairs outside the window are not
// meaningful responses: below the minimum they are same-burst auto-replies,
// above the maximum they are stale multi-day gaps.
const (
	DefaultMinLatency = 10
	DefaultMaxLatency = 86400
)

// Stats accumulates reply counts and latency sums for one contact. Sums are
// kept in seconds so that cross-platform merging can weight by sample count
// instead of averaging means.
type Stats struct {
	// Self: you replying to them (inbound followed by outbound).
	SelfCount      int
	SelfSumSeconds int64
	// Their: them replying to you (outbound followed by inbound).
	TheirCount      int
	TheirSumSeconds int64
}

// SelfMeanMinutes returns the mean time you take to reply, in minutes.
func (s Stats) SelfMeanMinutes() float64 {
	if s.SelfCount == 0 {
		return 0
	}
	return float64(s.SelfSumSeconds) / float64(s.SelfCount) / 60.0
}

// TheirMeanMinutes returns the mean time they take to reply, in minutes.
func (s Stats) TheirMeanMinutes() float64 {
	if s.TheirCount == 0 {
		return 0
	}
	return float64(s.TheirSumSeconds) / float64(s.TheirCount) / 60.0
}

// Add merges another accumulation into this one.
func (s *Stats) Add(o Stats) {
	s.SelfCount += o.SelfCount
	s.SelfSumSeconds += o.SelfSumSeconds
	s.TheirCount += o.TheirCount
	s.TheirSumSeconds += o.TheirSumSeconds
}

// Analyzer scans adjacent pairs in sorted timelines.
type Analyzer struct {
	minLatency int64
	maxLatency int64
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithBounds sets the inclusive latency window in seconds.
func WithBounds(minSeconds, maxSeconds int64) Option {
	return func(a *Analyzer) {
		if minSeconds >= 0 && maxSeconds > minSeconds {
			a.minLatency = minSeconds
			a.maxLatency = maxSeconds
		}
	}
}

// New creates an Analyzer with configuration options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		minLatency: DefaultMinLatency,
		maxLatency: DefaultMaxLatency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes per-contact reply statistics. A pair counts as a response
// only when the direction flips between adjacent events and the gap falls
// inside the inclusive [min, max] window.
func (a *Analyzer) Analyze(ctx context.Context, timelines map[event.ContactKey][]event.MessageEvent) (map[event.ContactKey]Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[event.ContactKey]Stats, len(timelines))
	for key, tl := range timelines {
		out[key] = a.scan(tl)
	}
	return out, nil
}

func (a *Analyzer) scan(tl []event.MessageEvent) Stats {
	var s Stats
	for i := 1; i < len(tl); i++ {
		prev, cur := tl[i-1], tl[i]
		if prev.Direction == cur.Direction {
			continue
		}
		gap := cur.Timestamp - prev.Timestamp
		if gap < a.minLatency || gap > a.maxLatency {
			continue
		}
		if cur.Direction == event.DirectionOutbound {
			s.SelfCount++
			s.SelfSumSeconds += gap
		} else {
			s.TheirCount++
			s.TheirSumSeconds += gap
		}
	}
	return s
}
