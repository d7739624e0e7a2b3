// Package aggregate computes the single-pass reductions over the eligible
// event set: totals, temporal histograms, half-year trends, and emoji
// frequencies.
package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// DefaultCutoff splits the reporting year into halves for trend detection.
const DefaultCutoff = "2025-07-01"

// Volume holds per-contact counts split by direction and by report half.
// The inbound split feeds ghosted detection; the total split feeds heating.
type Volume struct {
	Sent              int
	Received          int
	FirstHalf         int
	SecondHalf        int
	InboundFirstHalf  int
	InboundSecondHalf int
	LateNight         int
}

// Total returns the contact's full event count.
func (v Volume) Total() int {
	return v.Sent + v.Received
}

// Add merges another accumulation into this one.
func (v *Volume) Add(o Volume) {
	v.Sent += o.Sent
	v.Received += o.Received
	v.FirstHalf += o.FirstHalf
	v.SecondHalf += o.SecondHalf
	v.InboundFirstHalf += o.InboundFirstHalf
	v.InboundSecondHalf += o.InboundSecondHalf
	v.LateNight += o.LateNight
}

// Result is the output of one accumulator pass. Every field is a
// deterministic function of the full eligible event set.
type Result struct {
	TotalSent     int
	TotalReceived int

	HourHistogram    [24]int
	PeakHour         int
	WeekdayHistogram [7]int // indexed by time.Weekday
	PeakWeekday      time.Weekday

	DailyCounts     map[string]int
	BusiestDay      string
	BusiestDayCount int
	BusiestMonth    string // YYYY-MM
	ActiveDays      int
	QuietDays       int

	EmojiCounts map[string]int

	Volumes map[event.ContactKey]Volume
}

// Accumulator runs the reductions.
type Accumulator struct {
	cutoff        string // first half is strictly before this day key
	lateNightHour int    // events before this hour count as late night
}

// Option applies a configuration option to the Accumulator.
type Option func(*Accumulator)

// WithCutoff sets the half-year split day key.
func WithCutoff(day string) Option {
	return func(a *Accumulator) {
		if day != "" {
			a.cutoff = day
		}
	}
}

// WithLateNightHour sets the exclusive upper bound for late-night hours.
func WithLateNightHour(hour int) Option {
	return func(a *Accumulator) {
		if hour > 0 && hour <= 24 {
			a.lateNightHour = hour
		}
	}
}

// New creates an Accumulator with configuration options.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{
		cutoff:        DefaultCutoff,
		lateNightHour: 5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the single pass over all timelines.
func (a *Accumulator) Analyze(ctx context.Context, timelines map[event.ContactKey][]event.MessageEvent) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		DailyCounts: make(map[string]int),
		EmojiCounts: make(map[string]int),
		Volumes:     make(map[event.ContactKey]Volume, len(timelines)),
	}

	for key, tl := range timelines {
		var vol Volume
		for _, e := range tl {
			outbound := e.Direction == event.DirectionOutbound
			if outbound {
				res.TotalSent++
				vol.Sent++
				for _, tok := range e.EmojiTokens {
					res.EmojiCounts[tok]++
				}
			} else {
				res.TotalReceived++
				vol.Received++
			}

			res.HourHistogram[e.Hour]++
			if e.Hour < a.lateNightHour {
				vol.LateNight++
			}

			if e.Day != "" {
				res.DailyCounts[e.Day]++
				if d, err := event.ParseDay(e.Day); err == nil {
					res.WeekdayHistogram[d.Weekday()]++
				}
				// Day keys are ISO dates, so string order is date order.
				if e.Day < a.cutoff {
					vol.FirstHalf++
					if !outbound {
						vol.InboundFirstHalf++
					}
				} else {
					vol.SecondHalf++
					if !outbound {
						vol.InboundSecondHalf++
					}
				}
			}
		}
		res.Volumes[key] = vol
	}

	res.finishTemporal()
	return res, nil
}

// finishTemporal derives the peak buckets and daily summaries. Peak ties
// resolve to the earliest hour and earliest weekday index.
func (r *Result) finishTemporal() {
	for h := 1; h < len(r.HourHistogram); h++ {
		if r.HourHistogram[h] > r.HourHistogram[r.PeakHour] {
			r.PeakHour = h
		}
	}
	for d := 1; d < len(r.WeekdayHistogram); d++ {
		if r.WeekdayHistogram[d] > r.WeekdayHistogram[r.PeakWeekday] {
			r.PeakWeekday = time.Weekday(d)
		}
	}

	if len(r.DailyCounts) == 0 {
		return
	}

	days := make([]string, 0, len(r.DailyCounts))
	for d := range r.DailyCounts {
		days = append(days, d)
	}
	sort.Strings(days)

	monthly := make(map[string]int)
	for _, d := range days {
		c := r.DailyCounts[d]
		if c > r.BusiestDayCount {
			r.BusiestDay, r.BusiestDayCount = d, c
		}
		if len(d) >= 7 {
			monthly[d[:7]] += c
		}
	}
	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		if r.BusiestMonth == "" || monthly[m] > monthly[r.BusiestMonth] {
			r.BusiestMonth = m
		}
	}

	r.ActiveDays = len(days)
	first, err1 := event.ParseDay(days[0])
	last, err2 := event.ParseDay(days[len(days)-1])
	if err1 == nil && err2 == nil {
		span := int(last.Sub(first).Hours()/24) + 1
		r.QuietDays = span - r.ActiveDays
	}
}
