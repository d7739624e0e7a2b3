// Package initiation partitions contact timelines into conversation segments
// and attributes each segment to whoever sent its first message.
package initiation

import (
	"context"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// DefaultGap is the silence, in seconds, after which the next message starts
// a new conversation rather than continuing one. Four hours.
const DefaultGap = 14400

// Segment is a contiguous index range [Start, End] within a timeline whose
// internal gaps are all at or below the initiation gap.
type Segment struct {
	Start     int
	End       int
	Initiator event.Direction
}

// Counts tallies conversation starts per contact.
type Counts struct {
	YouStarted  int
	TheyStarted int
}

// Total returns the number of conversation segments.
func (c Counts) Total() int {
	return c.YouStarted + c.TheyStarted
}

// Score returns the share of conversations you started, in [0, 1].
func (c Counts) Score() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.YouStarted) / float64(total)
}

// Add merges another accumulation into this one.
func (c *Counts) Add(o Counts) {
	c.YouStarted += o.YouStarted
	c.TheyStarted += o.TheyStarted
}

// Segmenter splits timelines on silence gaps.
type Segmenter struct {
	gap int64
}

// Option applies a configuration option to the Segmenter.
type Option func(*Segmenter)

// WithGap sets the initiation gap in seconds.
func WithGap(seconds int64) Option {
	return func(s *Segmenter) {
		if seconds > 0 {
			s.gap = seconds
		}
	}
}

// New creates a Segmenter with configuration options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{gap: DefaultGap}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segments partitions a sorted timeline. A new segment opens at the first
// event and at any event whose gap from the previous one strictly exceeds
// the initiation gap. Every event belongs to exactly one segment; a contact
// whose only in-window message opens the window still yields one segment
// attributed to its sender.
func (s *Segmenter) Segments(tl []event.MessageEvent) []Segment {
	if len(tl) == 0 {
		return nil
	}
	segs := []Segment{{Start: 0, Initiator: tl[0].Direction}}
	for i := 1; i < len(tl); i++ {
		if tl[i].Timestamp-tl[i-1].Timestamp > s.gap {
			segs[len(segs)-1].End = i - 1
			segs = append(segs, Segment{Start: i, Initiator: tl[i].Direction})
		}
	}
	segs[len(segs)-1].End = len(tl) - 1
	return segs
}

// Analyze counts conversation starts per contact.
func (s *Segmenter) Analyze(ctx context.Context, timelines map[event.ContactKey][]event.MessageEvent) (map[event.ContactKey]Counts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[event.ContactKey]Counts, len(timelines))
	for key, tl := range timelines {
		var c Counts
		for _, seg := range s.Segments(tl) {
			if seg.Initiator == event.DirectionOutbound {
				c.YouStarted++
			} else {
				c.TheyStarted++
			}
		}
		out[key] = c
	}
	return out, nil
}
