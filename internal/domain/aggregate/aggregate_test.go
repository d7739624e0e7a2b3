package aggregate_test

import (
	"context"
	"testing"
	"time"

	"github.com/chatwrapped/engine/internal/domain/aggregate"
	"github.com/chatwrapped/engine/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

func keyOf(contact string) event.ContactKey {
	return event.ContactKey{Platform: "imessage", ContactID: contact}
}

func msg(contact, day string, hour int, dir event.Direction, emojis ...string) event.MessageEvent {
	return event.MessageEvent{
		ContactID:   contact,
		Platform:    "imessage",
		Timestamp:   1000,
		Direction:   dir,
		Day:         day,
		Hour:        hour,
		EmojiTokens: emojis,
	}
}

func TestAccumulator_Analyze(t *testing.T) {
	Convey("Given an accumulator with a mid-year cutoff", t, func() {
		ctx := context.Background()
		a := aggregate.New(aggregate.WithCutoff("2025-07-01"))

		Convey("When events straddle the cutoff", func() {
			tls := map[event.ContactKey][]event.MessageEvent{
				keyOf("alice"): {
					msg("alice", "2025-06-30", 10, event.DirectionOutbound),
					msg("alice", "2025-06-30", 11, event.DirectionInbound),
					msg("alice", "2025-07-01", 12, event.DirectionInbound),
				},
			}
			res, err := a.Analyze(ctx, tls)

			Convey("Then the halves split strictly at the cutoff day", func() {
				So(err, ShouldBeNil)
				v := res.Volumes[keyOf("alice")]
				So(v.FirstHalf, ShouldEqual, 2)
				So(v.SecondHalf, ShouldEqual, 1)
				So(v.InboundFirstHalf, ShouldEqual, 1)
				So(v.InboundSecondHalf, ShouldEqual, 1)
			})

			Convey("And direction totals follow the events", func() {
				So(res.TotalSent, ShouldEqual, 1)
				So(res.TotalReceived, ShouldEqual, 2)
				v := res.Volumes[keyOf("alice")]
				So(v.Sent, ShouldEqual, 1)
				So(v.Received, ShouldEqual, 2)
				So(v.Total(), ShouldEqual, 3)
			})
		})

		Convey("When activity clusters in one hour", func() {
			tls := map[event.ContactKey][]event.MessageEvent{
				keyOf("alice"): {
					msg("alice", "2025-03-01", 22, event.DirectionOutbound),
					msg("alice", "2025-03-01", 22, event.DirectionInbound),
					msg("alice", "2025-03-02", 9, event.DirectionOutbound),
				},
			}
			res, err := a.Analyze(ctx, tls)

			Convey("Then the histogram and peak reflect it", func() {
				So(err, ShouldBeNil)
				So(res.HourHistogram[22], ShouldEqual, 2)
				So(res.HourHistogram[9], ShouldEqual, 1)
				So(res.PeakHour, ShouldEqual, 22)
			})

			Convey("And weekday buckets follow the day keys", func() {
				// 2025-03-01 is a Saturday.
				So(res.WeekdayHistogram[time.Saturday], ShouldEqual, 2)
				So(res.WeekdayHistogram[time.Sunday], ShouldEqual, 1)
				So(res.PeakWeekday, ShouldEqual, time.Saturday)
			})
		})

		Convey("When daily volume varies", func() {
			tls := map[event.ContactKey][]event.MessageEvent{
				keyOf("alice"): {
					msg("alice", "2025-01-01", 10, event.DirectionOutbound),
					msg("alice", "2025-01-01", 10, event.DirectionOutbound),
					msg("alice", "2025-01-01", 10, event.DirectionInbound),
					msg("alice", "2025-01-04", 10, event.DirectionOutbound),
					msg("alice", "2025-02-10", 10, event.DirectionOutbound),
				},
			}
			res, err := a.Analyze(ctx, tls)

			Convey("Then the busiest day and month are found", func() {
				So(err, ShouldBeNil)
				So(res.BusiestDay, ShouldEqual, "2025-01-01")
				So(res.BusiestDayCount, ShouldEqual, 3)
				So(res.BusiestMonth, ShouldEqual, "2025-01")
			})

			Convey("And quiet days fill the span", func() {
				So(res.ActiveDays, ShouldEqual, 3)
				// Jan 1 .. Feb 10 is a 41-day span.
				So(res.QuietDays, ShouldEqual, 38)
			})

			Convey("And daily counts are exact", func() {
				So(res.DailyCounts["2025-01-01"], ShouldEqual, 3)
				So(res.DailyCounts["2025-01-04"], ShouldEqual, 1)
			})
		})

		Convey("When outbound events carry emoji tokens", func() {
			tls := map[event.ContactKey][]event.MessageEvent{
				keyOf("alice"): {
					msg("alice", "2025-01-01", 10, event.DirectionOutbound, "😂", "🔥"),
					msg("alice", "2025-01-01", 10, event.DirectionOutbound, "😂"),
					msg("alice", "2025-01-01", 10, event.DirectionInbound, "💀"),
				},
			}
			res, err := a.Analyze(ctx, tls)

			Convey("Then only your own emoji usage counts", func() {
				So(err, ShouldBeNil)
				So(res.EmojiCounts["😂"], ShouldEqual, 2)
				So(res.EmojiCounts["🔥"], ShouldEqual, 1)
				So(res.EmojiCounts, ShouldNotContainKey, "💀")
			})
		})

		Convey("When events land before the late-night hour", func() {
			tls := map[event.ContactKey][]event.MessageEvent{
				keyOf("alice"): {
					msg("alice", "2025-01-01", 2, event.DirectionOutbound),
					msg("alice", "2025-01-01", 4, event.DirectionInbound),
					msg("alice", "2025-01-01", 5, event.DirectionOutbound),
				},
			}
			res, err := a.Analyze(ctx, tls)

			Convey("Then the late-night tally excludes the boundary hour", func() {
				So(err, ShouldBeNil)
				So(res.Volumes[keyOf("alice")].LateNight, ShouldEqual, 2)
			})
		})

		Convey("When there are no events", func() {
			res, err := a.Analyze(ctx, nil)

			Convey("Then everything is a zero value", func() {
				So(err, ShouldBeNil)
				So(res.TotalSent, ShouldEqual, 0)
				So(res.BusiestDay, ShouldEqual, "")
				So(res.ActiveDays, ShouldEqual, 0)
			})
		})
	})
}

func TestVolume_Add(t *testing.T) {
	Convey("Given two per-contact volumes", t, func() {
		a := aggregate.Volume{Sent: 3, Received: 5, FirstHalf: 2, SecondHalf: 6, InboundFirstHalf: 1, InboundSecondHalf: 4, LateNight: 1}
		b := aggregate.Volume{Sent: 1, Received: 1, FirstHalf: 1, SecondHalf: 1, InboundFirstHalf: 1, InboundSecondHalf: 0, LateNight: 2}

		Convey("When merged", func() {
			a.Add(b)

			Convey("Then every counter sums", func() {
				So(a.Sent, ShouldEqual, 4)
				So(a.Received, ShouldEqual, 6)
				So(a.Total(), ShouldEqual, 10)
				So(a.FirstHalf, ShouldEqual, 3)
				So(a.SecondHalf, ShouldEqual, 7)
				So(a.InboundFirstHalf, ShouldEqual, 2)
				So(a.InboundSecondHalf, ShouldEqual, 4)
				So(a.LateNight, ShouldEqual, 3)
			})
		})
	})
}
