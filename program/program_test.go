package program_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mapinfer/engine"
	"mapinfer/program"
	"mapinfer/trace"
)

func runToCompletion(prog engine.Program, state *engine.ProgramState) *engine.ProgramState {
	cp := prog(state)
	for {
		switch c := cp.(type) {
		case engine.Result:
			return c.State
		case engine.Sample:
			value := c.Distribution.Sample()
			site := c.State.Trace.NextSiteID(c.StaticID)
			pastReward := c.State.LogWeight
			c.State.AddLogWeight(c.Distribution.LogDensity(value))
			c.State.Trace = c.State.Trace.Append(trace.Entry{Site: site, Value: value, PastReward: pastReward})
			cp = c.Continuation(value, c.State)
		default:
			panic("unrecognized checkpoint")
		}
	}
}

func TestCoinFlip(t *testing.T) {
	Convey("Given the coin-flip program", t, func() {
		rng := rand.New(rand.NewSource(42))
		prog := program.CoinFlip(rng)

		Convey("it terminates with exactly one recorded choice", func() {
			state := runToCompletion(prog, engine.NewState())
			So(len(state.Trace), ShouldEqual, 1)
			So(state.Trace[0].Value, ShouldBeIn, "A", "B")
		})
	})
}

func TestTwoBinaryChoices(t *testing.T) {
	Convey("Given the two-binary-choices program", t, func() {
		rng := rand.New(rand.NewSource(42))
		prog := program.TwoBinaryChoices(rng)

		Convey("both choices at 1 yield the bonus log-weight", func() {
			state := engine.NewState()
			cp := prog(state)
			first := cp.(engine.Sample)
			cp = first.Continuation(1, first.State)
			second := cp.(engine.Sample)
			cp = second.Continuation(1, second.State)
			result := cp.(engine.Result)

			So(result.State.LogWeight, ShouldAlmostEqual, 2.0+2*math.Log(0.5), 1e-9)
		})

		Convey("any non-matching pair yields no bonus", func() {
			state := engine.NewState()
			cp := prog(state)
			first := cp.(engine.Sample)
			cp = first.Continuation(0, first.State)
			second := cp.(engine.Sample)
			cp = second.Continuation(1, second.State)
			result := cp.(engine.Result)

			So(result.State.LogWeight, ShouldAlmostEqual, 2*math.Log(0.5), 1e-9)
		})
	})
}

func TestContinuousChoice(t *testing.T) {
	Convey("Given the continuous-choice program", t, func() {
		rng := rand.New(rand.NewSource(42))
		prog := program.ContinuousChoice(rng)

		Convey("the log-weight is the negative squared distance from 3", func() {
			state := engine.NewState()
			cp := prog(state)
			s := cp.(engine.Sample)
			cp = s.Continuation(3.0, s.State)
			result := cp.(engine.Result)
			So(result.State.LogWeight, ShouldAlmostEqual, 0, 1e-9)
		})
	})
}
