package app

import (
	"sort"

	"github.com/chatwrapped/engine/internal/domain/aggregate"
	"github.com/chatwrapped/engine/internal/domain/merge"
	"github.com/chatwrapped/engine/internal/domain/rank"
	"github.com/chatwrapped/engine/internal/domain/streak"
	"github.com/chatwrapped/engine/internal/domain/timeline"
)

// bucketTopK caps the reach-out / find-you buckets.
const bucketTopK = 3

// Totals summarizes the normalized input population.
type Totals struct {
	Sent              int `json:"sent"`
	Received          int `json:"received"`
	Contacts          int `json:"contacts"`
	Persons           int `json:"persons"`
	SkippedEvents     int `json:"skipped_events"`
	ExcludedContacts  int `json:"excluded_contacts"`
	IneligibleDropped int `json:"ineligible_dropped"`
	GroupEvents       int `json:"group_events"`
	GroupSent         int `json:"group_sent"`
	Groups            int `json:"groups"`
}

// Report is the engine's full output. Keys in ranked lists are canonical
// person ids when an identity resolver merged platforms, otherwise
// platform-qualified contact keys. A rendering layer external to this core
// maps them to display names. Every insight with no qualifying entry is an
// explicit empty list.
type Report struct {
	Totals Totals `json:"totals"`

	FastestYouReply   []rank.Metric `json:"fastest_you_reply"`
	FastestTheyReply  []rank.Metric `json:"fastest_they_reply"`
	YouAlwaysReachOut []rank.Metric `json:"you_always_reach_out"`
	TheyAlwaysFindYou []rank.Metric `json:"they_always_find_you"`
	TopContacts       []rank.Metric `json:"top_contacts"`
	Heating           []rank.Metric `json:"heating"`
	Ghosted           []rank.Metric `json:"ghosted"`
	BiggestFans       []rank.Metric `json:"biggest_fans"`
	MostPursued       []rank.Metric `json:"most_pursued"`
	LateNight         []rank.Metric `json:"late_night"`
	TopEmojis         []rank.Metric `json:"top_emojis"`
	GroupLeaderboard  []rank.Metric `json:"group_leaderboard"`

	Streak   streak.Streak   `json:"streak"`
	Marathon streak.Marathon `json:"marathon"`

	HourHistogram   [24]int        `json:"hour_histogram"`
	PeakHour        int            `json:"peak_hour"`
	PeakWeekday     string         `json:"peak_weekday"`
	DailyCounts     map[string]int `json:"daily_counts"`
	BusiestDay      string         `json:"busiest_day"`
	BusiestDayCount int            `json:"busiest_day_count"`
	BusiestMonth    string         `json:"busiest_month"`
	ActiveDays      int            `json:"active_days"`
	QuietDays       int            `json:"quiet_days"`

	Personality Personality `json:"personality"`

	Platforms            []string `json:"platforms"`
	UnresolvedIdentities int      `json:"unresolved_identities"`
}

func (e *Engine) buildReport(norm *timeline.Result, merged *merge.Result, agg *aggregate.Result, strk streak.Streak, marathon streak.Marathon) *Report {
	cfg := e.cfg

	var (
		selfReplies, theirReplies []rank.Metric
		reachOut, findYou         []rank.Metric
		volume                    []rank.Metric
		heating, ghosted          []rank.Metric
		fans, pursued             []rank.Metric
		lateNight                 []rank.Metric
	)

	for id, p := range merged.Persons {
		r := p.Reply
		if r.SelfCount > 0 {
			selfReplies = append(selfReplies, rank.Metric{Key: id, Score: r.SelfMeanMinutes(), SampleCount: r.SelfCount})
		}
		if r.TheirCount > 0 {
			theirReplies = append(theirReplies, rank.Metric{Key: id, Score: r.TheirMeanMinutes(), SampleCount: r.TheirCount})
		}

		c := p.Initiation
		if total := c.Total(); total > 0 {
			m := rank.Metric{Key: id, Score: c.Score(), SampleCount: total}
			if m.Score > cfg.ReachOutThreshold {
				reachOut = append(reachOut, m)
			}
			if m.Score < cfg.FindYouThreshold {
				findYou = append(findYou, m)
			}
		}

		v := p.Volume
		total := v.Total()
		if total > 0 {
			volume = append(volume, rank.Metric{Key: id, Score: float64(total), SampleCount: total})
		}
		if v.FirstHalf > cfg.HeatingMinFirstHalf && float64(v.SecondHalf) > float64(v.FirstHalf)*cfg.HeatingRatio {
			heating = append(heating, rank.Metric{Key: id, Score: float64(v.SecondHalf - v.FirstHalf), SampleCount: total})
		}
		if v.InboundFirstHalf > cfg.GhostMinBefore && v.InboundSecondHalf < cfg.GhostMaxAfter {
			ghosted = append(ghosted, rank.Metric{Key: id, Score: float64(v.InboundFirstHalf), SampleCount: v.InboundFirstHalf + v.InboundSecondHalf})
		}
		if total > cfg.FanMinTotal {
			if float64(v.Received) > float64(v.Sent)*cfg.FanRatio {
				fans = append(fans, rank.Metric{Key: id, Score: ratio(v.Received, v.Sent), SampleCount: total})
			}
			if float64(v.Sent) > float64(v.Received)*cfg.FanRatio {
				pursued = append(pursued, rank.Metric{Key: id, Score: ratio(v.Sent, v.Received), SampleCount: total})
			}
		}
		if v.LateNight > cfg.LateNightMin {
			lateNight = append(lateNight, rank.Metric{Key: id, Score: float64(v.LateNight), SampleCount: v.LateNight})
		}
	}

	emojis := make([]rank.Metric, 0, len(agg.EmojiCounts))
	for tok, count := range agg.EmojiCounts {
		emojis = append(emojis, rank.Metric{Key: tok, Score: float64(count), SampleCount: count})
	}

	groups := make([]rank.Metric, 0, len(norm.GroupCounts))
	for key, count := range norm.GroupCounts {
		groups = append(groups, rank.Metric{Key: key.String(), Score: float64(count), SampleCount: count})
	}

	// An empty report has no peaks; sentinel values keep the zero buckets
	// from reading as real activity.
	peakHour := agg.PeakHour
	peakWeekday := agg.PeakWeekday.String()
	if agg.TotalSent+agg.TotalReceived == 0 {
		peakHour = -1
		peakWeekday = ""
	}

	report := &Report{
		Totals: Totals{
			Sent:              agg.TotalSent,
			Received:          agg.TotalReceived,
			Contacts:          len(norm.Timelines),
			Persons:           len(merged.Persons),
			SkippedEvents:     norm.Skipped,
			ExcludedContacts:  norm.ExcludedContacts,
			IneligibleDropped: norm.IneligibleDropped,
			GroupEvents:       norm.GroupEvents,
			GroupSent:         norm.GroupSent,
			Groups:            len(norm.GroupCounts),
		},

		FastestYouReply:   rank.Top(selfReplies, rank.Options{MinSamples: cfg.MinReplySamples, TopK: cfg.TopK, Ascending: true}),
		FastestTheyReply:  rank.Top(theirReplies, rank.Options{MinSamples: cfg.MinReplySamples, TopK: cfg.TopK, Ascending: true}),
		YouAlwaysReachOut: rank.Top(reachOut, rank.Options{MinSamples: cfg.MinConversations, TopK: bucketTopK}),
		TheyAlwaysFindYou: rank.Top(findYou, rank.Options{MinSamples: cfg.MinConversations, TopK: bucketTopK, Ascending: true}),
		TopContacts:       rank.Top(volume, rank.Options{TopK: cfg.TopContacts}),
		Heating:           rank.Top(heating, rank.Options{TopK: cfg.TopK}),
		Ghosted:           rank.Top(ghosted, rank.Options{TopK: cfg.TopK}),
		BiggestFans:       rank.Top(fans, rank.Options{TopK: cfg.TopK}),
		MostPursued:       rank.Top(pursued, rank.Options{TopK: cfg.TopK}),
		LateNight:         rank.Top(lateNight, rank.Options{TopK: cfg.TopK}),
		TopEmojis:         rank.Top(emojis, rank.Options{TopK: cfg.TopK}),
		GroupLeaderboard:  rank.Top(groups, rank.Options{TopK: cfg.TopK}),

		Streak:   strk,
		Marathon: marathon,

		HourHistogram:   agg.HourHistogram,
		PeakHour:        peakHour,
		PeakWeekday:     peakWeekday,
		DailyCounts:     agg.DailyCounts,
		BusiestDay:      agg.BusiestDay,
		BusiestDayCount: agg.BusiestDayCount,
		BusiestMonth:    agg.BusiestMonth,
		ActiveDays:      agg.ActiveDays,
		QuietDays:       agg.QuietDays,

		Personality: classify(merged, agg),

		Platforms:            platformList(norm),
		UnresolvedIdentities: merged.Unresolved,
	}
	return report
}

func ratio(num, den int) float64 {
	if den < 1 {
		den = 1
	}
	return float64(num) / float64(den)
}

func platformList(norm *timeline.Result) []string {
	seen := make(map[string]struct{})
	for key := range norm.Timelines {
		seen[string(key.Platform)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
