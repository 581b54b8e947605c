package engine

import "math"

// Backpropagate distributes a terminal state's log-weight back to the
// bandits along its trace. For each visited entry, the bandit at
// that site is updated with the *future* reward from that choice's vantage
// point: the terminal log-weight minus the log-weight accumulated before the
// choice was made. It returns a fresh state carrying the updated bandit
// table forward, with an empty trace and a reset log-weight.
//
// If the terminal log-weight is NaN, the run is invalid: Backpropagate
// leaves beginState untouched and returns it unchanged, so the caller
// (orchestrate) can carry the previous begin_state forward without
// polluting any bandit with a NaN-derived reward.
func Backpropagate(beginState, terminal *ProgramState) *ProgramState {
	R := terminal.LogWeight
	if math.IsNaN(R) {
		return beginState
	}

	for _, entry := range terminal.Trace {
		b := terminal.Bandits.GetOrCreate(entry.Site)
		b.Update(entry.Value, R-entry.PastReward)
	}

	return &ProgramState{
		Bandits: terminal.Bandits,
	}
}
