// Package bandit maintains, per choice site, a posterior belief over the
// expected future reward of every value observed at that site, plus a prior
// belief for values not yet observed ("new arms").
package bandit

import (
	"math"
	"math/rand"

	"mapinfer/belief"
)

// Bandit is the ensemble of arms (observed values, each with its own belief)
// at one choice site, plus the prior belief for an unseen value.
//
// Arms is keyed by value; Order records insertion order so that SelectArm's
// tie-break rule (earliest-inserted arm wins ties) is reproducible, since Go
// map iteration order is intentionally randomized.
type Bandit struct {
	Arms         map[any]belief.Belief
	Order        []any
	NewArmBelief belief.Belief
}

// New returns a fresh bandit: no arms, an uninformative new-arm belief.
func New() *Bandit {
	return &Bandit{
		Arms:         make(map[any]belief.Belief),
		NewArmBelief: belief.Zero,
	}
}

// SelectArm samples a score from every existing arm and from the new-arm
// belief, returning the value of the highest-scoring arm. ok is false if the
// new-arm belief wins, meaning the caller should draw a fresh value from the
// distribution's prior instead.
//
// Ties are broken in favor of the earliest-inserted arm: the new-arm belief
// is the initial incumbent, so the first real arm need only match or beat it
// to take the lead, but every arm after that must strictly beat the current
// leader to displace it. A freshly created bandit (no arms) always returns
// ok=false, since the loop below never runs.
func (b *Bandit) SelectArm(rng *rand.Rand) (value any, ok bool) {
	best := b.NewArmBelief.Sample(rng)
	if math.IsNaN(best) {
		// An empty new-arm belief samples NaN; it loses to any real arm.
		best = math.Inf(-1)
	}
	leaderIsArm := false

	for _, v := range b.Order {
		score := b.Arms[v].Sample(rng)
		beatsLeader := score > best
		if !leaderIsArm {
			beatsLeader = score >= best
		}
		if beatsLeader {
			best = score
			value = v
			leaderIsArm = true
		}
	}

	return value, leaderIsArm
}

// Update folds an observed reward for value into the bandit. If value has not
// been seen before, a new arm is created from the new-arm belief's
// compressed prior, and the new-arm belief itself is updated with reward
// before the new arm absorbs it. In all cases the arm-specific belief is
// then updated with reward.
func (b *Bandit) Update(value any, reward float64) {
	arm, exists := b.Arms[value]
	if !exists {
		arm = b.NewArmBelief.AsPrior()
		b.NewArmBelief = b.NewArmBelief.Update(reward)
		b.Order = append(b.Order, value)
	}
	b.Arms[value] = arm.Update(reward)
}
