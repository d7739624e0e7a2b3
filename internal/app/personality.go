package app

import (
	"github.com/chatwrapped/engine/internal/domain/aggregate"
	"github.com/chatwrapped/engine/internal/domain/merge"
)

// Personality is the archetype assigned to the year's overall behavior.
type Personality struct {
	Title    string  `json:"title"`
	Tagline  string  `json:"tagline"`
	RespMins float64 `json:"resp_mins"`
	Ratio    float64 `json:"ratio"`
	Starter  float64 `json:"starter_pct"`
}

// classify walks the archetype rules in priority order; the first matching
// rule wins. Inputs are the global aggregates: peak hour, your mean reply
// time in minutes, the sent-to-received ratio, and the share of
// conversations you started.
func classify(merged *merge.Result, agg *aggregate.Result) Personality {
	var (
		replySum   int64
		replyCount int
		youStarted int
		totalConvs int
	)
	for _, p := range merged.Persons {
		replySum += p.Reply.SelfSumSeconds
		replyCount += p.Reply.SelfCount
		youStarted += p.Initiation.YouStarted
		totalConvs += p.Initiation.Total()
	}

	var respMins float64
	if replyCount > 0 {
		respMins = float64(replySum) / float64(replyCount) / 60
	}
	ratio := float64(agg.TotalSent) / float64(agg.TotalReceived+1)
	var starter float64
	if totalConvs > 0 {
		starter = float64(youStarted) / float64(totalConvs) * 100
	}

	p := Personality{RespMins: respMins, Ratio: ratio, Starter: starter}
	switch {
	case agg.PeakHour < 5 || agg.PeakHour > 22:
		p.Title, p.Tagline = "NOCTURNAL MENACE", "terrorizes people at ungodly hours"
	case replyCount > 0 && respMins < 5:
		p.Title, p.Tagline = "TERMINALLY ONLINE", "has never touched grass"
	case respMins > 120:
		p.Title, p.Tagline = "TOO COOL TO REPLY", "leaves everyone on read"
	case agg.TotalSent+agg.TotalReceived > 0 && ratio < 0.5:
		p.Title, p.Tagline = "POPULAR (ALLEGEDLY)", "everyone wants a piece"
	case ratio > 2:
		p.Title, p.Tagline = "THE YAPPER", "carries every conversation alone"
	case starter > 65:
		p.Title, p.Tagline = "CONVERSATION STARTER", "always making the first move"
	case totalConvs > 0 && starter < 35:
		p.Title, p.Tagline = "THE WAITER", "never texts first, ever"
	default:
		p.Title, p.Tagline = "SUSPICIOUSLY NORMAL", "no notes. boring but stable."
	}
	return p
}
