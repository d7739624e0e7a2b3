// Package timeline turns raw per-platform event lists into per-contact
// timelines ordered by timestamp.
package timeline

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// Result holds the normalized timelines plus the bookkeeping counters the
// report surfaces. Timelines are keyed per platform: merging the same person
// across platforms happens at the metric level, never here.
type Result struct {
	Timelines map[event.ContactKey][]event.MessageEvent

	// EligibleEvents counts the one-to-one eligible events kept in timelines.
	EligibleEvents int
	// Skipped counts structurally invalid events that were dropped.
	Skipped int
	// ExcludedContacts counts contacts removed by the exclusion predicate.
	ExcludedContacts int
	// IneligibleDropped counts one-to-one events filtered out upstream.
	IneligibleDropped int
	// GroupEvents and GroupSent tally eligible group-chat traffic, and
	// GroupCounts keeps the per-group volume for the group leaderboard.
	// Groups never produce per-person metrics.
	GroupEvents int
	GroupSent   int
	GroupCounts map[event.ContactKey]int
}

// ExcludeFunc reports whether a contact identifier is a non-human sender
// (shortcodes, carrier ids) that must be excluded from per-person metrics.
type ExcludeFunc func(contactID string) bool

// Normalizer validates, filters, and orders raw events.
type Normalizer struct {
	windowStart int64
	exclude     ExcludeFunc
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		exclude: DefaultExclude,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// DefaultExclude matches numeric shortcodes (5-6 digits once +/- are
// stripped) and platform-internal urn identifiers.
func DefaultExclude(contactID string) bool {
	if strings.HasPrefix(contactID, "urn:") {
		return true
	}
	digits := strings.NewReplacer("+", "", "-", "").Replace(contactID)
	if len(digits) < 5 || len(digits) > 6 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Normalize builds one timeline per (platform, contact) from raw events.
// Invalid events are dropped and counted. The per-contact sort is stable so
// that equal timestamps keep their input order, which the pairing and
// segmentation scans rely on for deterministic adjacency.
func (n *Normalizer) Normalize(ctx context.Context, events []event.MessageEvent) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Timelines:   make(map[event.ContactKey][]event.MessageEvent),
		GroupCounts: make(map[event.ContactKey]int),
	}
	excluded := make(map[string]struct{})

	for _, e := range events {
		if err := e.Validate(n.windowStart); err != nil {
			if errors.Is(err, event.ErrInvalidEvent) {
				res.Skipped++
				continue
			}
			return nil, err
		}
		if !e.Eligible {
			if e.Arity == event.ArityOneToOne {
				res.IneligibleDropped++
			}
			continue
		}
		if e.Arity == event.ArityGroup {
			res.GroupEvents++
			res.GroupCounts[e.Key()]++
			if e.Direction == event.DirectionOutbound {
				res.GroupSent++
			}
			continue
		}
		if n.exclude != nil && n.exclude(e.ContactID) {
			excluded[e.ContactID] = struct{}{}
			continue
		}
		key := e.Key()
		res.Timelines[key] = append(res.Timelines[key], e)
		res.EligibleEvents++
	}
	res.ExcludedContacts = len(excluded)

	for key := range res.Timelines {
		tl := res.Timelines[key]
		sort.SliceStable(tl, func(i, j int) bool {
			return tl[i].Timestamp < tl[j].Timestamp
		})
	}

	return res, nil
}
