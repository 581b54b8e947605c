package engine_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mapinfer/engine"
	"mapinfer/trace"
)

func TestBackpropagateUpdatesVisitedBandits(t *testing.T) {
	Convey("Given a terminal state with a two-entry trace", t, func() {
		begin := engine.NewState()
		site0 := trace.SiteID{StaticID: "x", Occurrence: 0}
		site1 := trace.SiteID{StaticID: "x", Occurrence: 1}

		terminal := &engine.ProgramState{
			LogWeight: 2.0,
			Bandits:   begin.Bandits,
			Trace: trace.Trace{
				{Site: site0, Value: "a", PastReward: 0.0},
				{Site: site1, Value: "b", PastReward: 0.5},
			},
		}

		Convey("Backpropagate creates a bandit and arm at each visited site", func() {
			end := engine.Backpropagate(begin, terminal)

			b0, ok := end.Bandits.Get(site0)
			So(ok, ShouldBeTrue)
			arm0, ok := b0.Arms["a"]
			So(ok, ShouldBeTrue)
			So(arm0.Cnt, ShouldBeGreaterThanOrEqualTo, 1)
			So(arm0.Sum, ShouldEqual, 2.0) // R - pastReward = 2.0 - 0.0

			b1, ok := end.Bandits.Get(site1)
			So(ok, ShouldBeTrue)
			arm1 := b1.Arms["b"]
			So(arm1.Sum, ShouldEqual, 1.5) // 2.0 - 0.5

			Convey("The returned state has an empty trace and reset log-weight", func() {
				So(len(end.Trace), ShouldEqual, 0)
				So(end.LogWeight, ShouldEqual, 0.0)
			})
		})
	})

	Convey("Given a terminal state with a NaN log-weight", t, func() {
		begin := engine.NewState()
		begin.Bandits.GetOrCreate(trace.SiteID{StaticID: "marker"})

		terminal := &engine.ProgramState{
			LogWeight: math.NaN(),
			Bandits:   begin.Bandits,
			Trace: trace.Trace{
				{Site: trace.SiteID{StaticID: "x"}, Value: "a", PastReward: 0},
			},
		}

		Convey("Backpropagate discards the run and returns beginState unchanged", func() {
			end := engine.Backpropagate(begin, terminal)
			So(end, ShouldEqual, begin)
			_, ok := end.Bandits.Get(trace.SiteID{StaticID: "x"})
			So(ok, ShouldBeFalse)
		})
	})
}
