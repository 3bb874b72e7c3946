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

// Package iface defines the contract the scalar frontend holds as its
// only coupling to the vector backend: instruction issue, scalar
// register access, configuration state, retirement observation, and
// trap signaling. No field access crosses this boundary directly.
package iface

import (
	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/isa"
)

// RetireWrite is one scalar-observable retirement writeback, reported by
// GetRetireWrites for the cycle it occurred in.
type RetireWrite struct {
	RobIndex   int
	DestReg    uint8
	Data       []byte
	ByteEnable []byte
	ToScalar   bool // true if this write targeted the scalar register file rather than the VRF
}

// Backend is the vector backend's side of the scalar/vector boundary.
// Every method is a contract: a backend may implement a surface-level
// operation as a stub returning its zero value where the operation
// does not apply to how that backend is wired.
type Backend interface {
	// IssueInstruction offers inst to the backend's instruction queue.
	// False means reject; the caller must retry the same instruction
	// on a later cycle.
	IssueInstruction(inst isa.Instruction) bool

	// ReadScalarRegister returns the current value of scalar register
	// addr.
	ReadScalarRegister(addr uint8) uint64

	// WriteScalarRegister stores data into scalar register addr under
	// mask (bits set in mask are written, the rest of the register is
	// preserved); mask of all-zero is treated as all-ones. Writing
	// register 0 is always a no-op.
	WriteScalarRegister(addr uint8, data, mask uint64)

	// GetConfigState returns the backend's current vtype/vl shadow.
	GetConfigState() config.State

	// SetConfigState installs cfg, as issued by a vset* instruction.
	SetConfigState(cfg config.State)

	// GetRetireWrites drains and returns the writes the backend retired
	// since the last call.
	GetRetireWrites() []RetireWrite

	// IsIdle reports whether the instruction queue, in-flight uops, and
	// ROB are all empty.
	IsIdle() bool

	// GetQueueCapacity reports the remaining slots IssueInstruction can
	// currently accept.
	GetQueueCapacity() uint32

	// GetTrap reports whether the backend has a pending asynchronous
	// trap. When true, trapInst is populated with the instruction that
	// caused it.
	GetTrap(trapInst *isa.Instruction) bool
}
