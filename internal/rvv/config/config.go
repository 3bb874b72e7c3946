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

// Package config holds the vector configuration state (the vtype CSR
// shadow) and its packed 32-bit encoding.
package config

// SEW identifies the selected element width.
type SEW uint8

const (
	SEW8 SEW = iota
	SEW16
	SEW32
	SEW64
)

// Bits returns the element width in bits.
func (s SEW) Bits() uint {
	return 8 << uint(s)
}

// Bits8 is Bits narrowed to uint8, the width used by wire payloads whose
// EEW field is a single byte.
func (s SEW) Bits8() uint8 {
	return uint8(s.Bits())
}

// LMUL identifies the vector length multiplier encoding.
type LMUL uint8

const (
	LMUL1 LMUL = iota
	LMUL2
	LMUL4
	LMUL8
)

// Multiplier returns the group-width multiplier this encoding represents.
func (l LMUL) Multiplier() uint {
	return 1 << uint(l)
}

// RoundingMode is the fixed-point rounding mode (xrm).
type RoundingMode uint8

const (
	RoundNearestUp RoundingMode = iota
	RoundNearestEven
	RoundDown
	RoundOddSaturate
)

// State is the vtype CSR shadow: the active vector length, start
// element, element width, length multiplier, rounding mode, and the
// mask/tail-agnostic and illegal flags.
type State struct {
	VL     uint32
	VStart uint32
	SEW    SEW
	LMUL   LMUL
	XRM    RoundingMode
	MA     bool
	TA     bool
	Vill   bool
}

// Default returns the reset configuration: SEW8, LMUL1, vl/vstart zero,
// no agnostic flags set, not illegal.
func Default() State {
	return State{SEW: SEW8, LMUL: LMUL1}
}

// VLMax returns the maximum vl for the given VLEN (in bits) under this
// state's current sew/lmul: VLEN * lmul_multiplier / sew_bits.
func (s State) VLMax(vlenBits uint) uint32 {
	return uint32((uint64(vlenBits) * uint64(s.LMUL.Multiplier())) / uint64(s.SEW.Bits()))
}

// Valid reports whether vl/vstart respect the VLEN-derived bound and the
// illegal flag is not already set.
func (s State) Valid(vlenBits uint) bool {
	if s.Vill {
		return false
	}
	if s.VL > s.VLMax(vlenBits) {
		return false
	}
	return s.VStart <= s.VL
}

// Encode packs the state into the 32-bit vtype layout:
// [vill:1][reserved:23][ma:1][ta:1][sew:3][lmul:3].
func (s State) Encode() uint32 {
	var v uint32
	v |= uint32(s.LMUL) & 0x7
	v |= (uint32(s.SEW) & 0x7) << 3
	if s.TA {
		v |= 1 << 6
	}
	if s.MA {
		v |= 1 << 7
	}
	if s.Vill {
		v |= 1 << 31
	}
	return v
}

// Decode unpacks a 32-bit vtype value, leaving VL/VStart/XRM untouched
// (vtype carries only sew/lmul/ta/ma/vill; the caller merges in the
// remaining fields it already tracks).
func Decode(v uint32, into *State) {
	into.LMUL = LMUL(v & 0x7)
	into.SEW = SEW((v >> 3) & 0x7)
	into.TA = (v>>6)&0x1 != 0
	into.MA = (v>>7)&0x1 != 0
	into.Vill = (v>>31)&0x1 != 0
}
