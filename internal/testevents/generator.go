// Package testevents generates synthetic message timelines for load testing
// and demos. Generation is fully deterministic for a given seed.
package testevents

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/chatwrapped/engine/internal/domain/event"
)

// Contact archetypes. Each drives a different messaging pattern so the
// generated population exercises every insight bucket.
const (
	caseBalanced = iota
	caseFastFriend
	caseSlowReplier
	caseGhoster
	caseFan
	casePursuer
	caseLateNighter
	caseHeating
	archetypeCount
)

// Relative weights per archetype; balanced contacts are the most common.
var archetypeWeights = []int{4, 2, 2, 1, 1, 1, 1, 2}

var emojiPool = []string{"😂", "❤️", "🔥", "😭", "💀", "👍", "✨", "🙏"}

// Generator produces message events.
type Generator struct {
	cfg *Config
	rng *rand.Rand
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	cfg := NewConfig(opts...)
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the full synthetic event set, sorted per contact but
// interleaved globally, the way a real multi-platform export arrives.
func (g *Generator) Generate(ctx context.Context) ([]event.MessageEvent, error) {
	start, err := event.ParseDay(g.cfg.StartDay)
	if err != nil {
		return nil, fmt.Errorf("bad start day: %w", err)
	}

	var events []event.MessageEvent
	for i := 0; i < g.cfg.NumContacts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		platform := g.cfg.Platforms[g.rng.Intn(len(g.cfg.Platforms))]
		contactID := contactID(platform, i)
		archetype := g.pickArchetype()
		events = append(events, g.contactTimeline(contactID, platform, archetype, start)...)
	}
	return events, nil
}

// contactID derives a stable per-run contact identifier. SHA1-namespaced
// UUIDs keep ids deterministic across runs with the same inputs.
func contactID(platform event.Platform, index int) string {
	name := fmt.Sprintf("%s-%d", platform, index)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (g *Generator) pickArchetype() int {
	total := 0
	for _, w := range archetypeWeights {
		total += w
	}
	n := g.rng.Intn(total)
	for a, w := range archetypeWeights {
		if n < w {
			return a
		}
		n -= w
	}
	return caseBalanced
}

// contactTimeline emits one contact's events across the window. The message
// flow is a sequence of conversation bursts: an initiator opens, the pair
// exchanges a few replies with archetype-specific latencies, then silence
// until the next burst.
func (g *Generator) contactTimeline(contactID string, platform event.Platform, archetype int, start time.Time) []event.MessageEvent {
	var out []event.MessageEvent

	burstsPerWeek := 1 + g.rng.Intn(4)
	if archetype == caseFan || archetype == casePursuer || archetype == caseFastFriend {
		burstsPerWeek += 3
	}
	weeks := g.cfg.Days / 7
	cutoffWeek := weeks / 2

	for week := 0; week < weeks; week++ {
		bursts := burstsPerWeek
		switch archetype {
		case caseGhoster:
			// Inbound-heavy early, near silence late.
			if week >= cutoffWeek {
				bursts = 0
				if g.rng.Intn(8) == 0 {
					bursts = 1
				}
			}
		case caseHeating:
			if week >= cutoffWeek {
				bursts *= 3
			}
		}
		for b := 0; b < bursts; b++ {
			at := start.Add(time.Duration(week*7+g.rng.Intn(7)) * 24 * time.Hour)
			at = at.Add(time.Duration(g.burstHour(archetype)) * time.Hour)
			at = at.Add(time.Duration(g.rng.Intn(3600)) * time.Second)
			out = append(out, g.burst(contactID, platform, archetype, at)...)
		}
	}
	return out
}

func (g *Generator) burstHour(archetype int) int {
	if archetype == caseLateNighter {
		return g.rng.Intn(5)
	}
	return 8 + g.rng.Intn(15)
}

func (g *Generator) burst(contactID string, platform event.Platform, archetype int, at time.Time) []event.MessageEvent {
	youOpen := g.rng.Float64() < g.initiationBias(archetype)
	length := 2 + g.rng.Intn(6)
	switch archetype {
	case caseFan:
		length += 4 // they send extra messages per exchange
	case casePursuer:
		length += 4
	}

	var out []event.MessageEvent
	outboundTurn := youOpen
	ts := at
	for i := 0; i < length; i++ {
		dir := event.DirectionInbound
		if outboundTurn {
			dir = event.DirectionOutbound
		}
		out = append(out, g.message(contactID, platform, dir, ts))

		// Fans and pursuers double up before yielding the turn.
		doubled := (archetype == caseFan && dir == event.DirectionInbound) ||
			(archetype == casePursuer && dir == event.DirectionOutbound)
		if doubled && g.rng.Intn(2) == 0 {
			ts = ts.Add(time.Duration(2+g.rng.Intn(8)) * time.Second)
			out = append(out, g.message(contactID, platform, dir, ts))
		}

		ts = ts.Add(g.replyDelay(archetype, dir))
		outboundTurn = !outboundTurn
	}
	return out
}

func (g *Generator) initiationBias(archetype int) float64 {
	switch archetype {
	case casePursuer:
		return 0.9
	case caseFan:
		return 0.1
	default:
		return 0.5
	}
}

// replyDelay returns the gap before the next message. dir is the direction
// of the message just sent, so the delay belongs to the other side's reply.
func (g *Generator) replyDelay(archetype int, dir event.Direction) time.Duration {
	seconds := 30 + g.rng.Intn(1800)
	switch archetype {
	case caseFastFriend:
		seconds = 15 + g.rng.Intn(120)
	case caseSlowReplier:
		if dir == event.DirectionOutbound {
			// Their replies to you crawl.
			seconds = 7200 + g.rng.Intn(40000)
		}
	}
	return time.Duration(seconds) * time.Second
}

func (g *Generator) message(contactID string, platform event.Platform, dir event.Direction, ts time.Time) event.MessageEvent {
	utc := ts.UTC()
	e := event.MessageEvent{
		ContactID: contactID,
		Timestamp: utc.Unix(),
		Direction: dir,
		Platform:  platform,
		Arity:     event.ArityOneToOne,
		Eligible:  true,
		Day:       event.FormatDay(utc),
		Hour:      utc.Hour(),
	}
	if dir == event.DirectionOutbound && g.rng.Intn(4) == 0 {
		e.EmojiTokens = []string{emojiPool[g.rng.Intn(len(emojiPool))]}
	}
	return e
}
