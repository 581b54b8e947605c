// Package program ships small, hand-written CPS probabilistic programs that
// exercise the engine directly, standing in for an external PPL front-end.
package program

import (
	"math"
	"math/rand"

	"mapinfer/engine"
)

// discrete is a finite-support distribution over values with fixed
// log-densities, sampled from its prior by categorical draw.
type discrete struct {
	values       []any
	logDensities []float64
	rng          *rand.Rand
}

// NewDiscrete returns a Distribution over values, whose i-th value has the
// given log-density. Densities need not sum to 1; this is a prior for
// proposing values, not a normalized model.
func NewDiscrete(rng *rand.Rand, values []any, logDensities []float64) engine.Distribution {
	return &discrete{values: values, logDensities: logDensities, rng: rng}
}

func (d *discrete) Sample() any {
	weights := make([]float64, len(d.logDensities))
	total := 0.0
	for i, ld := range d.logDensities {
		weights[i] = math.Exp(ld)
		total += weights[i]
	}
	r := d.rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return d.values[i]
		}
	}
	return d.values[len(d.values)-1]
}

func (d *discrete) LogDensity(value any) float64 {
	for i, v := range d.values {
		if v == value {
			return d.logDensities[i]
		}
	}
	return math.Inf(-1)
}

// Gaussian is a standard-normal (or shifted/scaled) prior over float64
// values.
type Gaussian struct {
	Mean, StdDev float64
	Rng          *rand.Rand
}

func (g Gaussian) Sample() any {
	return g.Mean + g.Rng.NormFloat64()*g.StdDev
}

func (g Gaussian) LogDensity(value any) float64 {
	x := value.(float64)
	z := (x - g.Mean) / g.StdDev
	return -0.5*z*z - math.Log(g.StdDev*math.Sqrt(2*math.Pi))
}

// CoinFlip is scenario S1: one choice between "A" and "B" with log-densities
// log(0.7) and log(0.3), no further weighting. MAP trace should be [A].
func CoinFlip(rng *rand.Rand) engine.Program {
	dist := NewDiscrete(rng, []any{"A", "B"}, []float64{math.Log(0.7), math.Log(0.3)})
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

// TwoBinaryChoices is scenario S2: two independent, uniform binary choices,
// followed by an observation of log-weight +2 iff both equal 1, else 0.
// MAP trace should be [1, 1] with log-weight approximately 2 - 2*log(2).
func TwoBinaryChoices(rng *rand.Rand) engine.Program {
	dist := NewDiscrete(rng, []any{0, 1}, []float64{math.Log(0.5), math.Log(0.5)})

	return func(state *engine.ProgramState) engine.Checkpoint {
		return engine.Sample{
			Distribution: dist,
			StaticID:     "bit",
			State:        state,
			Continuation: func(first any, state *engine.ProgramState) engine.Checkpoint {
				return engine.Sample{
					Distribution: dist,
					StaticID:     "bit",
					State:        state,
					Continuation: func(second any, state *engine.ProgramState) engine.Checkpoint {
						if first.(int) == 1 && second.(int) == 1 {
							state.AddLogWeight(2.0)
						}
						return engine.Result{State: state}
					},
				}
			},
		}
	}
}

// ContinuousChoice is scenario S3: one standard-normal choice x, observed
// against a quadratic log-density -(x-3)^2. MAP trace should converge to x
// near 3.
func ContinuousChoice(rng *rand.Rand) engine.Program {
	dist := Gaussian{Mean: 0, StdDev: 1, Rng: rng}

	return func(state *engine.ProgramState) engine.Checkpoint {
		return engine.Sample{
			Distribution: dist,
			StaticID:     "x",
			State:        state,
			Continuation: func(value any, state *engine.ProgramState) engine.Checkpoint {
				x := value.(float64)
				state.AddLogWeight(-(x - 3) * (x - 3))
				return engine.Result{State: state}
			},
		}
	}
}
