package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chatwrapped/engine/internal/app"
	"github.com/chatwrapped/engine/internal/config"
	"github.com/chatwrapped/engine/internal/domain/event"
	"github.com/chatwrapped/engine/internal/domain/merge"
	"github.com/chatwrapped/engine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func exchange(contact string, platform event.Platform, startTS int64, day string, hour, rounds int) []event.MessageEvent {
	var out []event.MessageEvent
	ts := startTS
	for i := 0; i < rounds; i++ {
		for _, dir := range []event.Direction{event.DirectionInbound, event.DirectionOutbound} {
			out = append(out, event.MessageEvent{
				ContactID: contact,
				Timestamp: ts,
				Direction: dir,
				Platform:  platform,
				Arity:     event.ArityOneToOne,
				Eligible:  true,
				Day:       day,
				Hour:      hour,
			})
			ts += 60
		}
		ts += 30000 // silence long enough to open a new conversation
	}
	return out
}

func TestEngine_Run(t *testing.T) {
	Convey("Given an engine with default configuration", t, func() {
		ctx := context.Background()
		events := append(
			exchange("alice", "imessage", 1735700000, "2025-01-01", 10, 3),
			exchange("bob", "imessage", 1735800000, "2025-01-02", 21, 2)...,
		)

		Convey("When a report is computed", func() {
			report, err := app.New().Run(ctx, events)

			Convey("Then the totals reflect the input", func() {
				So(err, ShouldBeNil)
				So(report.Totals.Sent, ShouldEqual, 5)
				So(report.Totals.Received, ShouldEqual, 5)
				So(report.Totals.Contacts, ShouldEqual, 2)
				So(report.Totals.Persons, ShouldEqual, 2)
				So(report.Totals.SkippedEvents, ShouldEqual, 0)
			})

			Convey("And ranked lists are present even when empty", func() {
				So(report.FastestYouReply, ShouldNotBeNil)
				So(report.Ghosted, ShouldNotBeNil)
				So(report.TopEmojis, ShouldNotBeNil)
			})

			Convey("And the volume leaderboard favors the busier contact", func() {
				So(report.TopContacts, ShouldNotBeEmpty)
				So(report.TopContacts[0].Key, ShouldEqual, "imessage:alice")
			})

			Convey("And a personality is always assigned", func() {
				So(report.Personality.Title, ShouldNotBeEmpty)
			})
		})

		Convey("When the same input runs twice", func() {
			first, err1 := app.New().Run(ctx, events)
			second, err2 := app.New().Run(ctx, events)

			Convey("Then the reports are byte-identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				a, _ := json.Marshal(first)
				b, _ := json.Marshal(second)
				So(string(a), ShouldEqual, string(b))
			})
		})
	})

	Convey("Given an engine with an identity resolver", t, func() {
		ctx := context.Background()
		events := append(
			exchange("+15551234567", "imessage", 1735700000, "2025-01-01", 10, 2),
			exchange("15551234567", "whatsapp", 1735800000, "2025-01-02", 11, 2)...,
		)
		resolver := merge.MapResolver{
			{Platform: "imessage", ContactID: "+15551234567"}: "mia",
			{Platform: "whatsapp", ContactID: "15551234567"}:  "mia",
		}

		Convey("When both platforms resolve to one person", func() {
			report, err := app.New(app.WithResolver(resolver)).Run(ctx, events)

			Convey("Then the person count collapses and nothing is unresolved", func() {
				So(err, ShouldBeNil)
				So(report.Totals.Contacts, ShouldEqual, 2)
				So(report.Totals.Persons, ShouldEqual, 1)
				So(report.UnresolvedIdentities, ShouldEqual, 0)
				So(report.Platforms, ShouldResemble, []string{"imessage", "whatsapp"})
			})

			Convey("And the merged person leads the volume list", func() {
				So(report.TopContacts, ShouldNotBeEmpty)
				So(report.TopContacts[0].Key, ShouldEqual, "mia")
				So(report.TopContacts[0].SampleCount, ShouldEqual, 8)
			})
		})

		Convey("When the resolver misses one platform", func() {
			partial := merge.MapResolver{
				{Platform: "imessage", ContactID: "+15551234567"}: "mia",
			}
			report, err := app.New(app.WithResolver(partial)).Run(ctx, events)

			Convey("Then the gap is surfaced, not hidden", func() {
				So(err, ShouldBeNil)
				So(report.Totals.Persons, ShouldEqual, 2)
				So(report.UnresolvedIdentities, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an engine with a broken configuration", t, func() {
		cfg := config.New()
		cfg.TopK = 0

		Convey("When a report is requested", func() {
			_, err := app.New(app.WithConfig(cfg)).Run(context.Background(), nil)

			Convey("Then it fails fast with the config sentinel", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given a mix of direct and group traffic", t, func() {
		ctx := context.Background()
		events := exchange("alice", "imessage", 1735700000, "2025-01-01", 10, 2)
		for i := 0; i < 5; i++ {
			events = append(events, event.MessageEvent{
				ContactID: "crew",
				Timestamp: int64(1735710000 + i*60),
				Direction: event.DirectionInbound,
				Platform:  "imessage",
				Arity:     event.ArityGroup,
				Eligible:  true,
				Day:       "2025-01-01",
				Hour:      12,
			})
		}
		events = append(events, event.MessageEvent{
			ContactID: "book-club",
			Timestamp: 1735720000,
			Direction: event.DirectionOutbound,
			Platform:  "whatsapp",
			Arity:     event.ArityGroup,
			Eligible:  true,
			Day:       "2025-01-01",
			Hour:      13,
		})

		Convey("When a report is computed", func() {
			report, err := app.New().Run(ctx, events)

			Convey("Then the group leaderboard ranks groups by volume", func() {
				So(err, ShouldBeNil)
				So(report.GroupLeaderboard, ShouldHaveLength, 2)
				So(report.GroupLeaderboard[0].Key, ShouldEqual, "imessage:crew")
				So(report.GroupLeaderboard[0].SampleCount, ShouldEqual, 5)
				So(report.GroupLeaderboard[1].Key, ShouldEqual, "whatsapp:book-club")
			})

			Convey("And the totals count distinct groups without polluting person metrics", func() {
				So(report.Totals.Groups, ShouldEqual, 2)
				So(report.Totals.GroupEvents, ShouldEqual, 6)
				So(report.Totals.GroupSent, ShouldEqual, 1)
				So(report.Totals.Contacts, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty event set", t, func() {
		Convey("When a report is computed", func() {
			report, err := app.New().Run(context.Background(), nil)

			Convey("Then an empty but well-formed report comes back", func() {
				So(err, ShouldBeNil)
				So(report.Totals.Sent, ShouldEqual, 0)
				So(report.TopContacts, ShouldBeEmpty)
				So(report.GroupLeaderboard, ShouldBeEmpty)
				So(report.Streak.Length, ShouldEqual, 0)
			})

			Convey("And no peak is fabricated from the zero buckets", func() {
				So(report.PeakHour, ShouldEqual, -1)
				So(report.PeakWeekday, ShouldEqual, "")
			})
		})
	})
}
