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

// Package decoder implements the stateless stripmining decoder: one
// Instruction becomes LMUL micro-ops, each covering one physical register
// group, with overflowing groups silently discarded.
package decoder

import (
	"github.com/probeum/rvvsim/internal/rvv/isa"
)

// Decoder hands out globally unique uop IDs across however many
// instructions it decodes.
type Decoder struct {
	nextUopID uint64
}

// New returns a decoder whose uop IDs start at 0.
func New() *Decoder {
	return &Decoder{}
}

// Decode stripmines inst into its constituent micro-ops.
func (d *Decoder) Decode(inst isa.Instruction) []isa.MicroOp {
	mult := uint32(inst.LMUL.Multiplier())
	if mult == 1 {
		uop := d.newUop(inst, 0, 1, inst.Vs1, inst.Vs2, inst.Vd)
		return []isa.MicroOp{uop}
	}

	uops := make([]isa.MicroOp, 0, mult)
	for group := uint32(0); group < uint32(mult); group++ {
		physVs1, ok1 := groupPhys(inst.Vs1, mult, group)
		physVs2, ok2 := groupPhys(inst.Vs2, mult, group)
		physVd, ok3 := groupPhys(inst.Vd, mult, group)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		uops = append(uops, d.newUop(inst, group, mult, physVs1, physVs2, physVd))
	}
	return uops
}

// groupPhys computes phys(v) = (v/L)*L + group, reporting false if the
// result would exceed the 32-entry physical register file.
func groupPhys(logical uint8, mult uint32, group uint32) (uint8, bool) {
	base := (uint32(logical) / mult) * mult
	phys := base + group
	if phys > 31 {
		return 0, false
	}
	return uint8(phys), true
}

func (d *Decoder) newUop(inst isa.Instruction, index, count uint32, vs1, vs2, vd uint8) isa.MicroOp {
	id := d.nextUopID
	d.nextUopID++
	return isa.MicroOp{
		InstID:   inst.InstID,
		UopID:    id,
		UopIndex: index,
		UopCount: count,
		PhysVs1:  vs1,
		PhysVs2:  vs2,
		PhysVd:   vd,
		Vm:       inst.Vm,
		SEW:      inst.SEW,
		LMUL:     inst.LMUL,
		VL:       inst.VL,
		RobIndex: -1,
		Opcode:   inst.Opcode,
	}
}
