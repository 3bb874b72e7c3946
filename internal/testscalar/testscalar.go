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

// Package testscalar is a minimal scalar-side consumer of iface.Backend,
// used to exercise the Scalar<->Vector Interface boundary from the other
// side: it offers instructions under backpressure, tracks the scalar
// register file as retirement writes arrive, and records surfaced traps.
// Tests and cmd/rvvsim's run loop use it; it is not a scalar frontend.
package testscalar

import (
	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/iface"
	"github.com/probeum/rvvsim/internal/rvv/isa"
)

// NumScalarRegisters mirrors xrf.NumRegisters; kept independent since a
// scalar-side consumer must not reach across the interface boundary to
// read the backend's own register file directly.
const NumScalarRegisters = 32

// Driver feeds a fixed instruction stream into an iface.Backend one
// cycle at a time, honoring GetQueueCapacity backpressure, and shadows
// every scalar-destined retirement write into its own register file.
type Driver struct {
	backend iface.Backend
	pending []isa.Instruction
	cursor  int

	scalarRegs [NumScalarRegisters]uint64
	Traps      []isa.Instruction
	Issued     int
}

// New constructs a Driver that will offer program to backend, in order,
// as capacity allows.
func New(backend iface.Backend, program []isa.Instruction) *Driver {
	return &Driver{backend: backend, pending: program}
}

// Step offers as many remaining instructions as the backend currently
// has queue capacity for, then drains retirement writes and traps.
// Returns the number of instructions newly accepted this call.
func (d *Driver) Step() int {
	accepted := 0
	for d.cursor < len(d.pending) && d.backend.GetQueueCapacity() > 0 {
		inst := d.pending[d.cursor]
		if !d.backend.IssueInstruction(inst) {
			break
		}
		d.cursor++
		d.Issued++
		accepted++
	}

	for _, w := range d.backend.GetRetireWrites() {
		if !w.ToScalar {
			continue
		}
		d.applyScalarWrite(w)
	}

	var trap isa.Instruction
	for d.backend.GetTrap(&trap) {
		d.Traps = append(d.Traps, trap)
	}

	return accepted
}

// applyScalarWrite folds a byte-enabled retirement write into the
// shadow register file, little-endian, the same convention xrf.Write
// uses for its mask argument.
func (d *Driver) applyScalarWrite(w iface.RetireWrite) {
	if w.DestReg == 0 || int(w.DestReg) >= NumScalarRegisters {
		return
	}
	reg := d.scalarRegs[w.DestReg]
	for i := 0; i < len(w.Data) && i < 8; i++ {
		enabled := len(w.ByteEnable) == 0 || (i < len(w.ByteEnable) && w.ByteEnable[i] != 0)
		if !enabled {
			continue
		}
		shift := uint(i * 8)
		mask := uint64(0xFF) << shift
		reg = (reg &^ mask) | (uint64(w.Data[i]) << shift)
	}
	d.scalarRegs[w.DestReg] = reg
}

// ReadRegister returns the shadow scalar register's current value.
func (d *Driver) ReadRegister(addr uint8) uint64 {
	if int(addr) >= NumScalarRegisters {
		return 0
	}
	return d.scalarRegs[addr]
}

// Done reports whether every instruction has been offered and accepted.
func (d *Driver) Done() bool {
	return d.cursor >= len(d.pending)
}

// SetVectorConfig issues a vset*-equivalent configuration change
// directly, the way a scalar core's vset* decode would call
// SetConfigState rather than routing through the instruction queue.
func (d *Driver) SetVectorConfig(cfg config.State) {
	d.backend.SetConfigState(cfg)
}
