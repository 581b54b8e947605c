package engine

import (
	"math/rand"

	"mapinfer/bandit"
	"mapinfer/trace"
)

// RunLearning drives program to completion in learning mode, starting from
// beginState. At each sample checkpoint it consults the
// bandit table to select (or freshly sample) a value, records the choice in
// the trace, and resumes the continuation. The loop is an explicit
// trampoline so that deeply-nested programs do not grow the Go call stack.
// The run works on a copy of beginState, so beginState itself keeps its
// log-weight and trace (the bandit table is shared).
func RunLearning(program Program, beginState *ProgramState, rng *rand.Rand) *ProgramState {
	state := &ProgramState{
		LogWeight: beginState.LogWeight,
		Bandits:   beginState.Bandits,
		Trace:     beginState.Trace,
	}
	cp := program(state)

	for {
		switch c := cp.(type) {
		case Result:
			return c.State

		case Sample:
			site := c.State.Trace.NextSiteID(c.StaticID)
			value := selectOrSample(c.State.Bandits, site, c.Distribution, rng)

			pastReward := c.State.LogWeight
			c.State.AddLogWeight(c.Distribution.LogDensity(value))
			c.State.Trace = c.State.Trace.Append(trace.Entry{
				Site:       site,
				Value:      value,
				PastReward: pastReward,
			})

			cp = c.Continuation(value, c.State)

		default:
			panic("engine: unrecognized checkpoint type")
		}
	}
}

// selectOrSample resolves the value to use at a sample checkpoint: if a
// bandit already exists at site and it selects a real arm, that arm's value
// is reused; otherwise a fresh value is drawn from the distribution's prior.
func selectOrSample(table *bandit.Table, site trace.SiteID, dist Distribution, rng *rand.Rand) any {
	if b, ok := table.Get(site); ok {
		if value, selected := b.SelectArm(rng); selected {
			return value
		}
	}
	return dist.Sample()
}
