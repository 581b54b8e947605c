// Package belief implements an updatable posterior over a scalar reward.
//
// The concrete instance is the empirical-normal belief: a Belief is a
// sufficient-statistics triple (sum, sum2, cnt) over observed rewards. It
// supports sampling a normal approximation to the mean's own sampling
// distribution, compressing an informed belief into a weak prior, and
// reading off its mode.
package belief

import (
	"math"
	"math/rand"
)

// Belief is an empirical-normal posterior over a scalar reward, parameterised
// by the running sum, sum of squares, and count of observed rewards.
type Belief struct {
	Sum  float64
	Sum2 float64
	Cnt  int
}

// Zero is the uninformative empirical-normal belief (sum=0, sum2=0, cnt=0).
var Zero = Belief{}

// Update folds a new reward observation into the belief, returning the
// updated belief. Rewards must not be NaN; callers are responsible for
// filtering invalid traces before they reach a belief (see engine.Backpropagate).
func (b Belief) Update(reward float64) Belief {
	return Belief{
		Sum:  b.Sum + reward,
		Sum2: b.Sum2 + reward*reward,
		Cnt:  b.Cnt + 1,
	}
}

// Sample draws a reward estimate from a normal distribution whose mean is the
// belief's empirical mean and whose standard deviation is the standard error
// of that mean (the variance of the sample mean, not the population variance).
//
// Sampling a belief with Cnt == 0 is a programmer error by spec; it degrades
// gracefully here to NaN (0/0) rather than panicking, since Go floating point
// division already produces the right sentinel and every caller in this
// module treats NaN as "always loses" when comparing sampled scores.
func (b Belief) Sample(rng *rand.Rand) float64 {
	n := float64(b.Cnt)
	mean := b.Sum / n
	variance := b.Sum2/n - mean*mean
	if variance < 0 {
		// Empirical variance can go negative by floating-point cancellation.
		variance = 0
	}
	stderr := math.Sqrt(variance / n)
	return mean + rng.NormFloat64()*stderr
}

// AsPrior compresses an informed belief into a weak prior for seeding a new
// arm. Beliefs with Cnt <= 1 are returned unchanged (as-prior is the identity
// on beliefs that have not yet accumulated more than one observation).
func (b Belief) AsPrior() Belief {
	if b.Cnt <= 1 {
		return b
	}
	n := float64(b.Cnt)
	return Belief{
		Sum:  b.Sum / n,
		Sum2: b.Sum2 / n,
		Cnt:  1,
	}
}

// Mode returns the belief's point estimate: the empirical mean.
func (b Belief) Mode() float64 {
	return b.Sum / float64(b.Cnt)
}
