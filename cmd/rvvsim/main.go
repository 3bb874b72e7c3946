// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Command rvvsim runs a cycle-approximate RVV out-of-order backend
// against a program description JSON file.
package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/probeum/rvvsim/internal/loader"
	"github.com/probeum/rvvsim/internal/rvv/backend"
	"github.com/probeum/rvvsim/internal/sim/event"
	"github.com/probeum/rvvsim/internal/sim/pipeline"
	"github.com/probeum/rvvsim/internal/testscalar"
	"github.com/probeum/rvvsim/internal/tracer"
)

// runLoop adapts a program run onto the pipeline.Ticker contract so the
// event scheduler, rather than a bare for-loop, drives every cycle: each
// firing steps the scalar-interface driver, ticks the backend, and stops
// its own TickingComponent once the program has drained and the backend
// has gone idle.
type runLoop struct {
	driver *testscalar.Driver
	b      *backend.Backend
	tc     *pipeline.TickingComponent
}

func (rl *runLoop) Tick(cycle uint64) {
	rl.driver.Step()
	rl.b.Tick(cycle)
	if rl.driver.Done() && rl.b.IsIdle() {
		rl.tc.Stop()
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "rvvsim"
	app.Usage = "event-driven RVV out-of-order backend simulator"
	app.Flags = rvvsimFlags
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	programPath := ctx.String(programFlag.Name)
	if programPath == "" {
		return cli.NewExitError("--program is required", 1)
	}

	prog, err := loader.Load(programPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	enableTracing := tracingEnabled(ctx, prog)
	verbose := verboseEnabled(ctx, prog)

	var traceOut io.Writer = os.Stdout
	if enableTracing && prog.SimulationConfig.TraceOutput != "" {
		sink, err := newFileTraceSink(prog.SimulationConfig.TraceOutput)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		defer sink.Close()
		traceOut = sink
	}
	tr := tracer.New(traceOut, enableTracing, verbose)

	sched := event.New()
	cfg := backendConfig(prog)
	b := backend.New(sched, tr, cfg, prog.InitialVector)
	driver := testscalar.New(b, prog.Instructions)

	maxCycles := prog.SimulationConfig.MaxCycles
	if maxCycles == 0 {
		maxCycles = defaultMaxCycles
	}

	// Issue under the dispatch queue's own backpressure rather than all at
	// once: a program larger than the instruction queue capacity would
	// otherwise be rejected before a single cycle has run to drain it.
	rl := &runLoop{driver: driver, b: b}
	rl.tc = pipeline.NewTickingComponent(sched, 1, rl)
	rl.tc.Start(0)
	sched.RunFor(maxCycles)
	driver.Step()

	reportTraps(driver)
	return nil
}

// reportTraps prints every trap the driver recorded during the run. A
// trap is not a CLI failure: it is the scalar core's problem to act on,
// per the Scalar<->Vector Interface boundary.
func reportTraps(d *testscalar.Driver) {
	for _, inst := range d.Traps {
		fmt.Fprintf(os.Stderr, "trap: inst_id=%d pc=%#x opcode=%#x\n", inst.InstID, inst.PC, inst.Opcode)
	}
}

// defaultMaxCycles bounds a run when the program omits
// simulation_config.max_cycles, so a malformed program can't hang the CLI.
const defaultMaxCycles = 100000
