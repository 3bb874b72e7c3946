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

// Package isa holds the vector instruction and micro-op types, opcode
// categorization, and trap codes shared across the decoder, dispatch,
// execute, and retire stages.
package isa

import "github.com/probeum/rvvsim/internal/rvv/config"

// Instruction is a decoded vector instruction as handed to the backend
// across the scalar interface.
type Instruction struct {
	PC     uint64
	Opcode uint32
	Vs1    uint8
	Vs2    uint8
	Vd     uint8
	Vm     bool
	SEW    config.SEW
	LMUL   config.LMUL
	VL     uint32
	InstID uint64
}

// MicroOp is one stripmined slice of an Instruction, carrying physical
// register indices and its position within the parent's group.
type MicroOp struct {
	InstID   uint64
	UopID    uint64
	UopIndex uint32
	UopCount uint32

	PhysVs1 uint8
	PhysVs2 uint8
	PhysVd  uint8

	Vm   bool
	SEW  config.SEW
	LMUL config.LMUL
	VL   uint32

	RobIndex int32 // -1 until dispatched
	Opcode   uint32
}

// Category classifies a micro-op for the purpose of picking an execute
// latency.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryArithmetic
	CategoryLogical
	CategoryShift
	CategoryMask
	CategoryBitmanip
	CategoryCompare
	CategoryMemory
	CategoryFloat
	CategoryDivide
)

func (c Category) String() string {
	switch c {
	case CategoryArithmetic:
		return "Arithmetic"
	case CategoryLogical:
		return "Logical"
	case CategoryShift:
		return "Shift"
	case CategoryMask:
		return "Mask"
	case CategoryBitmanip:
		return "Bitmanip"
	case CategoryCompare:
		return "Compare"
	case CategoryMemory:
		return "Memory"
	case CategoryFloat:
		return "Float"
	case CategoryDivide:
		return "Divide"
	default:
		return "Unknown"
	}
}

// Categorize maps an opcode to its functional-unit category, following
// the small-internal-opcode table first and falling back to the
// funct6-over-base-opcode decoding used by full RISC-V vector encodings.
func Categorize(opcode uint32) Category {
	switch opcode {
	case 0x1, 0x5, 0x9:
		return CategoryArithmetic
	case 0x13, 0x15, 0x17:
		return CategoryLogical
	case 0x21, 0x25, 0x27:
		return CategoryShift
	}

	base := opcode & 0x7F
	switch base {
	case 0x57, 0x77, 0x37, 0x27:
		funct6 := (opcode >> 26) & 0x3F
		switch funct6 {
		case 0x00, 0x02, 0x09:
			return CategoryArithmetic
		case 0x0A, 0x0B:
			return CategoryLogical
		case 0x04, 0x05, 0x06:
			return CategoryShift
		}
		if funct6 >= 0x18 && funct6 <= 0x1F {
			return CategoryCompare
		}
	}
	return CategoryUnknown
}

// divideOpcodes are the small internal opcodes for integer divide/
// remainder, numbered in the same scheme as the arithmetic/logical/shift
// triples: {0x2,0x6,0xA} sit one past each of {0x1,0x5,0x9}.
var divideOpcodes = map[uint32]bool{0x2: true, 0x6: true, 0xA: true}

// IsDivide reports whether opcode is an integer divide/remainder
// operation, whose execute latency is governed by the EEW-indexed
// divider latency table rather than the category table.
func IsDivide(opcode uint32) bool {
	return divideOpcodes[opcode]
}

// Latency returns the category->cycles table used to size a functional
// unit's execute-stage latency.
func (c Category) Latency() int {
	switch c {
	case CategoryArithmetic, CategoryShift, CategoryMask, CategoryBitmanip:
		return 2
	case CategoryLogical, CategoryCompare:
		return 1
	case CategoryMemory:
		return 4
	case CategoryFloat:
		return 5
	default:
		return 1
	}
}

// DivideLatency returns the divider's latency in cycles for the given
// element width in bits.
func DivideLatency(eewBits uint8) int {
	switch eewBits {
	case 8:
		return 17
	case 16:
		return 33
	case 32:
		return 65
	case 64:
		return 129
	default:
		return 17
	}
}

// TrapCode enumerates the asynchronous trap conditions the backend can
// surface through the scalar interface.
type TrapCode uint8

const (
	TrapNone TrapCode = iota
	TrapIllegalInstruction
	TrapVstartVL
	TrapReservedOpcode
)

func (t TrapCode) String() string {
	switch t {
	case TrapNone:
		return "None"
	case TrapIllegalInstruction:
		return "IllegalInstruction"
	case TrapVstartVL:
		return "VstartVL"
	case TrapReservedOpcode:
		return "ReservedOpcode"
	default:
		return "Unknown"
	}
}
