// Command mcellcore runs a headless simulation core build from a model
// assembled in-process (§6: the parser itself is out of scope, so this
// entry point exercises the engine against a small built-in demo model
// until a BNGLFragment-backed model file is wired in).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mcellsim/mcell/config"
	"github.com/mcellsim/mcell/mcell"
	"github.com/mcellsim/mcell/modelbuilder"
	"github.com/mcellsim/mcell/reaction"
	"github.com/mcellsim/mcell/species"
)

func main() {
	iterations := flag.Int("iterations", 1000, "number of scheduler Advance cycles to run")
	seed := flag.Uint64("seed", 1, "PRNG seed")
	tau := flag.Float64("tau", 1e-6, "base simulation timestep, seconds")
	statsEvery := flag.Int("stats-every", 100, "iterations between stats log lines, 0 disables")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	os.Exit(int(run(*iterations, *seed, *tau, *statsEvery, *debug)))
}

func run(iterations int, seed uint64, tau float64, statsEvery int, debug bool) mcell.ExitCode {
	model, err := demoModel(seed, tau, statsEvery, debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return mcell.ExitCodeFor(err)
	}

	engine, err := mcell.BuildEngine(model)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return mcell.ExitCodeFor(err)
	}

	ctx := context.Background()
	for i := 0; i < iterations; i++ {
		if _, err := engine.Step(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return mcell.ExitCodeFor(err)
		}
	}

	fmt.Printf("final time=%g live=%d\n", engine.Now(), engine.LiveCount())
	return mcell.ExitOK
}

// demoModel builds a minimal release/decay model (A released into a unit
// cube, spontaneously decaying) so the binary has something to step
// through without a model-file parser.
func demoModel(seed uint64, tau float64, statsEvery int, debug bool) (*modelbuilder.Model, error) {
	a, err := species.ParseComplex("A(b)")
	if err != nil {
		return nil, err
	}

	verbosity := config.VerbosityNormal
	if debug {
		verbosity = config.VerbosityVerbose
	}

	b := modelbuilder.New().
		WithSeed(seed).
		WithTau(tau).
		WithNotifications(config.Notifications{Verbosity: verbosity, StatsEvery: statsEvery})

	b.Geometry().AddUnitCube("arena", mgl64.Vec3{0, 0, 0})
	b.AddRule(reaction.Rule{
		Name:      "decay",
		Reactants: []reaction.ReactantSlot{{Pattern: a}},
		RateFwd:   1e3,
	})
	b.AddRelease(modelbuilder.Release{Species: a, Count: 100})

	return b.Build()
}
