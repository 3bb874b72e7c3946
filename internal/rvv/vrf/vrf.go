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

// Package vrf implements the 32-entry vector register file, with
// byte-enable writes and dedicated mask-register (v0) accessors.
package vrf

const (
	NumRegisters = 32
	MaskRegister = 0
)

// VRF holds NumRegisters registers, each regWidth bytes wide (VLEN/8).
type VRF struct {
	regWidth int
	regs     [NumRegisters][]byte
}

// New constructs a zeroed VRF with the given per-register width in bytes.
func New(regWidth int) *VRF {
	v := &VRF{regWidth: regWidth}
	for i := range v.regs {
		v.regs[i] = make([]byte, regWidth)
	}
	return v
}

// Width returns the per-register byte width.
func (v *VRF) Width() int { return v.regWidth }

// Read returns a copy of register idx's bytes, or a zeroed vector if idx
// is out of range.
func (v *VRF) Read(idx uint8) []byte {
	out := make([]byte, v.regWidth)
	if int(idx) >= NumRegisters {
		return out
	}
	copy(out, v.regs[idx])
	return out
}

// Write stores data into register idx. byteEnable, when non-empty, is one
// entry per data byte (non-zero means write that byte); only enabled
// bytes are overwritten and the rest of the register is left unchanged.
// A data slice of the wrong length fails (returns false) rather than
// being zero-padded or truncated. idx above NumRegisters-1 is ignored.
func (v *VRF) Write(idx uint8, data []byte, byteEnable []byte) bool {
	if int(idx) >= NumRegisters {
		return false
	}
	if len(data) != v.regWidth {
		return false
	}
	if len(byteEnable) == 0 {
		copy(v.regs[idx], data)
		return true
	}
	for i := 0; i < v.regWidth; i++ {
		if i < len(byteEnable) && byteEnable[i] != 0 {
			v.regs[idx][i] = data[i]
		}
	}
	return true
}

// GetMaskRegister returns v0's bytes, the dedicated mask register.
func (v *VRF) GetMaskRegister() []byte {
	return v.Read(MaskRegister)
}

// SetMaskRegister writes v0 unconditionally (all bytes enabled).
func (v *VRF) SetMaskRegister(data []byte) bool {
	return v.Write(MaskRegister, data, nil)
}
