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

// Package pipeline implements the fixed-depth staged-processor skeleton
// used by both the RVV backend pipeline and the ALU/DVU functional units.
// Stage behavior is supplied as plain functions rather than as closures
// capturing a component's `this`: a Stage is an explicit value with a
// Transform and an optional Stall predicate.
package pipeline

import "github.com/probeum/rvvsim/internal/sim/packet"

// Transform maps an input payload (nil allowed, for stage 0's
// self-generating intake) to an output payload. A nil return means the
// stage produced nothing this cycle.
type Transform func(in packet.Payload) packet.Payload

// StallPredicate reports whether a stage should hold its current payload
// for one more cycle instead of advancing it.
type StallPredicate func(payload packet.Payload) bool

// Stage describes one pipeline slot's behavior and timing.
type Stage struct {
	Name      string
	Latency   uint64
	Transform Transform
	Stall     StallPredicate
}

func defaultStall(packet.Payload) bool { return false }

func identity(p packet.Payload) packet.Payload { return p }
