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

package main

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/probeum/rvvsim/internal/loader"
	"github.com/probeum/rvvsim/internal/rvv/backend"
)

var (
	programFlag = cli.StringFlag{
		Name:  "program",
		Usage: "Program description JSON file (required)",
	}
	traceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "Enable the line-oriented trace log",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "Verbose trace output",
	}

	rvvsimFlags = []cli.Flag{
		programFlag,
		traceFlag,
		verboseFlag,
	}
)

// backendConfig derives a backend.Config from the loaded program's
// vector_config section, falling back to backend.DefaultConfig for any
// field the program left at its zero value.
func backendConfig(p *loader.Program) backend.Config {
	cfg := backend.DefaultConfig()
	if p.VectorConfig.VLEN > 0 {
		cfg.VLENBits = p.VectorConfig.VLEN
	}
	if p.VectorConfig.VectorIssueWidth > 0 {
		cfg.MaxIssueWidth = p.VectorConfig.VectorIssueWidth
	}
	return cfg
}

// tracingEnabled reports whether tracing should be active: either CLI
// flag turns it on, the program's own simulation_config can also request
// it, and the CLI flag always wins when explicitly set.
func tracingEnabled(ctx *cli.Context, p *loader.Program) bool {
	if ctx.Bool(traceFlag.Name) {
		return true
	}
	return p.SimulationConfig.EnableTracing
}

func verboseEnabled(ctx *cli.Context, p *loader.Program) bool {
	if ctx.Bool(verboseFlag.Name) {
		return true
	}
	return p.SimulationConfig.Verbose
}
