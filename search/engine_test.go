package search_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mapinfer/belief"
	"mapinfer/engine"
	"mapinfer/search"
	"mapinfer/trace"
)

// twoValueDist is a discrete distribution over a fixed pair of values with
// given log-densities.
type twoValueDist struct {
	values       [2]string
	logDensities [2]float64
}

func (d twoValueDist) Sample() any { return d.values[0] }

func (d twoValueDist) LogDensity(value any) float64 {
	for i, v := range d.values {
		if v == value {
			return d.logDensities[i]
		}
	}
	return math.Inf(-1)
}

func oneChoiceProgram(dist engine.Distribution) engine.Program {
	return func(state *engine.ProgramState) engine.Checkpoint {
		return engine.Sample{
			Distribution: dist,
			StaticID:     "coin",
			State:        state,
			Continuation: func(_ any, state *engine.ProgramState) engine.Checkpoint {
				return engine.Result{State: state}
			},
		}
	}
}

func TestSearchDijkstraOrder(t *testing.T) {
	Convey("Given a bandit with two known arms at the only choice site", t, func() {
		dist := twoValueDist{values: [2]string{"A", "B"}, logDensities: [2]float64{math.Log(0.7), math.Log(0.3)}}
		prog := oneChoiceProgram(dist)

		begin := engine.NewState()
		site := trace.SiteID{StaticID: "coin", Occurrence: 0}
		b := begin.Bandits.GetOrCreate(site)
		b.Arms["A"] = belief.Zero.Update(0) // mode doesn't matter under K=0
		b.Order = append(b.Order, "A")
		b.Arms["B"] = belief.Zero.Update(0)
		b.Order = append(b.Order, "B")

		Convey("With K=0 both arms tie at this depth and are discovered in insertion order", func() {
			stream := search.NewStream(prog, begin, search.Options{HeuristicDraws: 0, Rng: rand.New(rand.NewSource(1))})
			state, ok := stream.Next()
			So(ok, ShouldBeTrue)
			So(state.Trace[0].Value, ShouldEqual, "A")
			So(state.LogWeight, ShouldAlmostEqual, math.Log(0.7), 1e-9)

			Convey("The second MAP estimate is the other arm", func() {
				state2, ok := stream.Next()
				So(ok, ShouldBeTrue)
				So(state2.Trace[0].Value, ShouldEqual, "B")

				_, ok = stream.Next()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestSearchDeterministicUnderModeHeuristic(t *testing.T) {
	Convey("Given the same program and bandit table searched twice with K<0", t, func() {
		dist := twoValueDist{values: [2]string{"A", "B"}, logDensities: [2]float64{math.Log(0.5), math.Log(0.5)}}
		prog := oneChoiceProgram(dist)

		build := func() *engine.ProgramState {
			begin := engine.NewState()
			site := trace.SiteID{StaticID: "coin", Occurrence: 0}
			b := begin.Bandits.GetOrCreate(site)
			b.Arms["A"] = belief.Belief{Sum: 10, Sum2: 100, Cnt: 5}
			b.Order = append(b.Order, "A")
			b.Arms["B"] = belief.Belief{Sum: 2, Sum2: 4, Cnt: 5}
			b.Order = append(b.Order, "B")
			return begin
		}

		Convey("Repeated searches yield the same terminal sequence", func() {
			s1 := search.NewStream(prog, build(), search.Options{HeuristicDraws: -1, Rng: rand.New(rand.NewSource(9))})
			s2 := search.NewStream(prog, build(), search.Options{HeuristicDraws: -1, Rng: rand.New(rand.NewSource(9))})

			state1, _ := s1.Next()
			state2, _ := s2.Next()
			So(state1.Trace[0].Value, ShouldEqual, state2.Trace[0].Value)
		})
	})
}

func TestSearchExhaustsOnMissingBandit(t *testing.T) {
	Convey("Given a program whose choice site has no learned bandit", t, func() {
		dist := twoValueDist{values: [2]string{"A", "B"}, logDensities: [2]float64{0, 0}}
		prog := oneChoiceProgram(dist)
		begin := engine.NewState()

		Convey("The search exhausts immediately with no emitted states", func() {
			stream := search.NewStream(prog, begin, search.Options{HeuristicDraws: 0, Rng: rand.New(rand.NewSource(1))})
			_, ok := stream.Next()
			So(ok, ShouldBeFalse)
		})
	})
}
