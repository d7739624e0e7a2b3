package rank_test

import (
	"testing"

	"github.com/chatwrapped/engine/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTop(t *testing.T) {
	Convey("Given a set of metrics", t, func() {
		metrics := []rank.Metric{
			{Key: "carol", Score: 3, SampleCount: 10},
			{Key: "alice", Score: 9, SampleCount: 4},
			{Key: "bob", Score: 7, SampleCount: 20},
		}

		Convey("When ranked descending", func() {
			out := rank.Top(metrics, rank.Options{})

			Convey("Then the highest score comes first", func() {
				So(out, ShouldHaveLength, 3)
				So(out[0].Key, ShouldEqual, "alice")
				So(out[1].Key, ShouldEqual, "bob")
				So(out[2].Key, ShouldEqual, "carol")
			})
		})

		Convey("When ranked ascending", func() {
			out := rank.Top(metrics, rank.Options{Ascending: true})

			Convey("Then the lowest score comes first", func() {
				So(out[0].Key, ShouldEqual, "carol")
			})
		})

		Convey("When a minimum sample count applies", func() {
			out := rank.Top(metrics, rank.Options{MinSamples: 10})

			Convey("Then thin entries drop out", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Key, ShouldEqual, "bob")
			})
		})

		Convey("When the list is capped", func() {
			out := rank.Top(metrics, rank.Options{TopK: 1})

			Convey("Then only the leader remains", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Key, ShouldEqual, "alice")
			})
		})
	})

	Convey("Given metrics with equal scores", t, func() {
		metrics := []rank.Metric{
			{Key: "bob", Score: 5, SampleCount: 3},
			{Key: "alice", Score: 5, SampleCount: 3},
			{Key: "carol", Score: 5, SampleCount: 8},
		}

		Convey("When ranked", func() {
			out := rank.Top(metrics, rank.Options{})

			Convey("Then more evidence wins, then smaller key", func() {
				So(out[0].Key, ShouldEqual, "carol")
				So(out[1].Key, ShouldEqual, "alice")
				So(out[2].Key, ShouldEqual, "bob")
			})
		})
	})

	Convey("Given no qualifying metrics", t, func() {
		Convey("When ranked", func() {
			out := rank.Top(nil, rank.Options{TopK: 5})

			Convey("Then the result is an explicit empty list", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})
	})
}
