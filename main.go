package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"mapinfer/config"
	"mapinfer/engine"
	"mapinfer/orchestrate"
	"mapinfer/program"
	"mapinfer/progress"
	"mapinfer/sink"
)

var (
	configPath *string
	addr       *string
	progName   *string
	seed       *int64
)

func init() {
	configPath = flag.String("config", "./config.yaml", "path to the inference config file")
	addr = flag.String("addr", ":8080", "address the progress server listens on")
	progName = flag.String("program", "coinflip", "which built-in program to run: coinflip, twobit, continuous")
	seed = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()
}

func selectProgram(rng *rand.Rand) (engine.Program, error) {
	switch *progName {
	case "coinflip":
		return program.CoinFlip(rng), nil
	case "twobit":
		return program.TwoBinaryChoices(rng), nil
	case "continuous":
		return program.ContinuousChoice(rng), nil
	default:
		return nil, fmt.Errorf("main: unrecognized -program %q", *progName)
	}
}

func runApp() error {
	cfg, err := config.FromYAML(*configPath)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	prog, err := selectProgram(rng)
	if err != nil {
		return err
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	hub := progress.NewHub()
	srv := progress.NewServer(*addr, hub)

	group := make(chan error, 2)
	go func() {
		group <- srv.ListenAndServe(appCtx)
	}()

	go func() {
		opts := orchestrate.Options{
			Infer:          *cfg,
			Sink:           sink.NewConsoleSink(os.Stdout),
			Rng:            rng,
			HeartbeatEvery: 5 * time.Second,
			Progress: func(p orchestrate.Progress) {
				hub.Publish(progress.Snapshot{
					Pass:          p.Pass,
					Run:           p.Run,
					BanditCount:   p.BanditCount,
					BestLogWeight: p.BestLogWeight,
					MapsEmitted:   p.MapsEmitted,
					UpdatedAt:     time.Now(),
				})
			},
		}
		group <- orchestrate.InferMap(appCtx, prog, opts)
		appCancel()
	}()

	return <-group
}

func main() {
	if err := runApp(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
