// Package streak finds the longest run of consecutive active calendar days
// and the single biggest per-contact day.
package streak

import (
	"context"
	"sort"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// Streak is the longest run of consecutive calendar days with at least one
// eligible event from any contact, in either direction.
type Streak struct {
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
	Length   int    `json:"length"`
}

// Marathon is the highest per-contact, per-day eligible message count. A
// different maximum over a different grouping than the streak.
type Marathon struct {
	Contact event.ContactKey `json:"contact"`
	Day     string           `json:"day"`
	Count   int              `json:"count"`
}

// Detector computes both records in one pass over the timelines.
type Detector struct{}

// New creates a Detector.
func New() *Detector {
	return &Detector{}
}

// Analyze returns the streak and marathon for the given timelines. Events
// without a day key contribute to neither record.
func (d *Detector) Analyze(ctx context.Context, timelines map[event.ContactKey][]event.MessageEvent) (Streak, Marathon, error) {
	if err := ctx.Err(); err != nil {
		return Streak{}, Marathon{}, err
	}

	activeDays := make(map[string]struct{})
	perContactDay := make(map[event.ContactKey]map[string]int)

	for key, tl := range timelines {
		for _, e := range tl {
			if e.Day == "" {
				continue
			}
			activeDays[e.Day] = struct{}{}
			byDay := perContactDay[key]
			if byDay == nil {
				byDay = make(map[string]int)
				perContactDay[key] = byDay
			}
			byDay[e.Day]++
		}
	}

	return longestStreak(activeDays), marathon(perContactDay), nil
}

// longestStreak scans sorted day keys and extends the current run whenever
// the next day is exactly one calendar day later.
func longestStreak(days map[string]struct{}) Streak {
	if len(days) == 0 {
		return Streak{}
	}
	keys := make([]string, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	best := Streak{StartDay: keys[0], EndDay: keys[0], Length: 1}
	runStart, runLen := 0, 1
	for i := 1; i < len(keys); i++ {
		prev, err1 := event.ParseDay(keys[i-1])
		cur, err2 := event.ParseDay(keys[i])
		if err1 == nil && err2 == nil && cur.Sub(prev).Hours() == 24 {
			runLen++
		} else {
			runStart, runLen = i, 1
		}
		if runLen > best.Length {
			best = Streak{StartDay: keys[runStart], EndDay: keys[i], Length: runLen}
		}
	}
	return best
}

// marathon picks the maximum (contact, day) count. Ties resolve to the
// earlier day, then the lexicographically smaller contact key, so the result
// is independent of map iteration order.
func marathon(perContactDay map[event.ContactKey]map[string]int) Marathon {
	var best Marathon
	for key, byDay := range perContactDay {
		for day, count := range byDay {
			if better(Marathon{Contact: key, Day: day, Count: count}, best) {
				best = Marathon{Contact: key, Day: day, Count: count}
			}
		}
	}
	return best
}

func better(a, b Marathon) bool {
	if b.Count == 0 {
		return true
	}
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	return a.Contact.String() < b.Contact.String()
}
