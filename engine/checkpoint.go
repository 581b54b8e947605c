// Package engine implements the continuation-based execution model: a
// probabilistic program is driven as a sequence of checkpoints, each either a
// Sample (pause, awaiting a chosen value) or a Result (terminal). The engine
// owns resumption and the trampoline that drives it; the program only ever
// hands back the next Checkpoint.
package engine

// Distribution is the capability set a sampled random primitive must expose:
// a way to draw a fresh value from its prior, and the log-density of any
// value under it.
type Distribution interface {
	Sample() any
	LogDensity(value any) float64
}

// Checkpoint is a suspension point of a program: either a Sample or a Result.
type Checkpoint interface {
	checkpoint()
}

// Sample is a pause awaiting a chosen value at one random-choice point.
// Continuation resumes the program with the chosen value and the (updated)
// state, producing the next checkpoint.
type Sample struct {
	Distribution Distribution
	StaticID     string
	Continuation func(value any, state *ProgramState) Checkpoint
	State        *ProgramState
}

func (Sample) checkpoint() {}

// Result is a terminal checkpoint carrying the finished program's state.
type Result struct {
	State *ProgramState
}

func (Result) checkpoint() {}

// Program is the entry point of a probabilistic program: given a starting
// state, it returns the first checkpoint. A Program is re-run from scratch
// (with a fresh or carried-forward begin_state) for each learning run or
// search traversal.
type Program func(state *ProgramState) Checkpoint
