package engine

import (
	"mapinfer/bandit"
	"mapinfer/trace"
)

// ProgramState is the opaque container threaded through a program's
// execution: the accumulated log-weight, the bandit table learned so far,
// and the trace of choices made in the current run.
type ProgramState struct {
	LogWeight float64
	Bandits   *bandit.Table
	Trace     trace.Trace
}

// NewState returns the empty state a pass begins from: no bandits, no
// trace, zero log-weight.
func NewState() *ProgramState {
	return &ProgramState{Bandits: bandit.NewTable()}
}

// AddLogWeight accumulates r into the state's log-weight.
func (s *ProgramState) AddLogWeight(r float64) {
	s.LogWeight += r
}

// Branch returns a new state with addLogWeight folded in and entry appended
// to the trace, sharing the same bandit table but leaving s itself
// unmodified. The search engine uses Branch to fan an arm's expansion out
// into one child state per arm without the children interfering with each
// other or with s.
func (s *ProgramState) Branch(addLogWeight float64, entry trace.Entry) *ProgramState {
	return &ProgramState{
		LogWeight: s.LogWeight + addLogWeight,
		Bandits:   s.Bandits,
		Trace:     s.Trace.Append(entry),
	}
}
