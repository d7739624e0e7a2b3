package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/chatwrapped/engine/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMessageEvent_Validate(t *testing.T) {
	Convey("Given a well-formed message event", t, func() {
		e := event.MessageEvent{
			ContactID: "alice",
			Timestamp: 1735689600,
			Direction: event.DirectionOutbound,
			Platform:  "imessage",
			Arity:     event.ArityOneToOne,
			Eligible:  true,
			Day:       "2025-01-01",
			Hour:      12,
		}

		Convey("Then it should validate", func() {
			So(e.Validate(0), ShouldBeNil)
		})

		Convey("When the contact id is empty", func() {
			e.ContactID = ""
			err := e.Validate(0)

			Convey("Then it should fail as an invalid event", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, event.ErrInvalidEvent), ShouldBeTrue)
			})
		})

		Convey("When the timestamp is non-positive", func() {
			e.Timestamp = 0

			Convey("Then it should fail as an invalid event", func() {
				So(errors.Is(e.Validate(0), event.ErrInvalidEvent), ShouldBeTrue)
			})
		})

		Convey("When the timestamp predates the window start", func() {
			err := e.Validate(e.Timestamp + 1)

			Convey("Then it should fail as an invalid event", func() {
				So(errors.Is(err, event.ErrInvalidEvent), ShouldBeTrue)
			})
		})

		Convey("When the direction is unknown", func() {
			e.Direction = "sideways"

			Convey("Then it should fail as an invalid event", func() {
				So(errors.Is(e.Validate(0), event.ErrInvalidEvent), ShouldBeTrue)
			})
		})

		Convey("When the day key is malformed", func() {
			e.Day = "01/01/2025"

			Convey("Then it should fail as an invalid event", func() {
				So(errors.Is(e.Validate(0), event.ErrInvalidEvent), ShouldBeTrue)
			})
		})

		Convey("When the day key is empty", func() {
			e.Day = ""

			Convey("Then it should still validate", func() {
				So(e.Validate(0), ShouldBeNil)
			})
		})

		Convey("When the hour is out of range", func() {
			e.Hour = 24

			Convey("Then it should fail as an invalid event", func() {
				So(errors.Is(e.Validate(0), event.ErrInvalidEvent), ShouldBeTrue)
			})
		})
	})
}

func TestContactKey(t *testing.T) {
	Convey("Given a contact key", t, func() {
		key := event.ContactKey{Platform: "whatsapp", ContactID: "+15551234567"}

		Convey("Then its string form is platform-qualified", func() {
			So(key.String(), ShouldEqual, "whatsapp:+15551234567")
		})

		Convey("And an event yields its own key", func() {
			e := event.MessageEvent{ContactID: "+15551234567", Platform: "whatsapp"}
			So(e.Key(), ShouldResemble, key)
		})
	})
}

func TestDayKeys(t *testing.T) {
	Convey("Given day key helpers", t, func() {
		Convey("When formatting and parsing round-trip", func() {
			day := event.FormatDay(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC))
			So(day, ShouldEqual, "2025-03-09")

			parsed, err := event.ParseDay(day)
			So(err, ShouldBeNil)
			So(parsed.Year(), ShouldEqual, 2025)
			So(parsed.Month(), ShouldEqual, time.March)
			So(parsed.Day(), ShouldEqual, 9)
		})

		Convey("Then day keys compare chronologically as strings", func() {
			So("2025-09-30" < "2025-10-01", ShouldBeTrue)
		})
	})
}
