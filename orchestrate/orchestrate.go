// Package orchestrate implements the top-level pass/learn/search loop and
// the infer_map entry point.
package orchestrate

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"mapinfer/config"
	"mapinfer/engine"
	"mapinfer/search"
	"mapinfer/sink"
)

// Progress is the snapshot of inference state handed to a ProgressFunc:
// the pass/run indices, the current bandit table size, the best
// (highest) log-weight seen across every learning run and emitted MAP
// state so far, and the number of MAP traces emitted so far across every
// pass.
type Progress struct {
	Pass          int
	Run           int
	BanditCount   int
	BestLogWeight float64
	MapsEmitted   int
}

// ProgressFunc is called after every learning run and after every MAP
// trace emitted. It is expected to return quickly.
type ProgressFunc func(p Progress)

// Options configures one InferMap invocation. InferMap reads Infer as
// given and fills in no defaults; config.Default and
// config.InferConfig.Validate are where defaults come from.
type Options struct {
	Infer    config.InferConfig
	Sink     sink.ResultSink
	Progress ProgressFunc
	Rng      *rand.Rand
	// HeartbeatEvery, if positive, logs a heartbeat once per that
	// duration during the learning-run loop, driven by channerics'
	// ticker, mirroring the teacher's main.go ticker-driven console
	// prints.
	HeartbeatEvery time.Duration
}

// InferMap runs number_of_passes outer iterations of learn-then-search over
// program, emitting up to number_of_maps terminal states per pass to opts.Sink.
func InferMap(ctx context.Context, program engine.Program, opts Options) error {
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var ticker <-chan time.Time
	if opts.HeartbeatEvery > 0 {
		ticker = channerics.NewTicker(ctx.Done(), opts.HeartbeatEvery)
	}

	bestLogWeight := math.Inf(-1)
	mapsEmitted := 0

	for pass := 0; pass < opts.Infer.NumberOfPasses; pass++ {
		beginState := engine.NewState()

		for run := 0; run < opts.Infer.NumberOfSamples; run++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if ticker != nil {
				select {
				case <-ticker:
					log.Printf("orchestrate: pass %d run %d/%d, %d bandits, best log-weight %g",
						pass, run, opts.Infer.NumberOfSamples, beginState.Bandits.Len(), bestLogWeight)
				default:
				}
			}

			terminal := engine.RunLearning(program, beginState, rng)
			if !math.IsNaN(terminal.LogWeight) {
				beginState = engine.Backpropagate(beginState, terminal)
				if terminal.LogWeight > bestLogWeight {
					bestLogWeight = terminal.LogWeight
				}
			}
			// A NaN terminal discards the run: beginState is left as-is.

			if opts.Progress != nil {
				opts.Progress(Progress{
					Pass:          pass,
					Run:           run,
					BanditCount:   beginState.Bandits.Len(),
					BestLogWeight: bestLogWeight,
					MapsEmitted:   mapsEmitted,
				})
			}
		}

		stream := search.NewStream(program, beginState, search.Options{
			HeuristicDraws: opts.Infer.NumberOfHDraws,
			Rng:            rng,
		})

		results := ResultSet(opts.Infer)
		for i := 0; i < opts.Infer.NumberOfMaps; i++ {
			state, ok := stream.Next()
			if !ok {
				// ExhaustedSearch: end the stream early, no error surfaced.
				break
			}
			if state.LogWeight > bestLogWeight {
				bestLogWeight = state.LogWeight
			}
			mapsEmitted++
			if opts.Sink != nil {
				opts.Sink.EmitPredicts(state, sink.OutputFormat(opts.Infer.OutputFormat), results)
			}
			if opts.Progress != nil {
				opts.Progress(Progress{
					Pass:          pass,
					Run:           opts.Infer.NumberOfSamples,
					BanditCount:   beginState.Bandits.Len(),
					BestLogWeight: bestLogWeight,
					MapsEmitted:   mapsEmitted,
				})
			}
		}
	}

	return nil
}

// ResultSet converts the config's results selector into a sink.ResultSet.
func ResultSet(cfg config.InferConfig) sink.ResultSet {
	return sink.ResultSet{
		Predicts: cfg.Results.Predicts,
		Trace:    cfg.Results.Trace,
	}
}
