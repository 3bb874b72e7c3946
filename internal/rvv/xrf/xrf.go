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

// Package xrf implements the minimal scalar-register storage the vector
// backend needs on its side of the scalar/vector boundary: the few
// general-purpose registers that carry vl/vtype operands and
// scalar-to-vector move results. It does not model the scalar core's
// ALU, CSR bank, or full register file.
package xrf

const (
	NumRegisters = 32
	ZeroRegister = 0
)

// XRF holds NumRegisters 64-bit scalar registers. Register 0 is
// hardwired to zero: writes to it are silently dropped.
type XRF struct {
	regs [NumRegisters]uint64
}

// New returns a zeroed scalar register file.
func New() *XRF {
	return &XRF{}
}

// Read returns register addr's value, or zero if addr is out of range.
func (x *XRF) Read(addr uint8) uint64 {
	if int(addr) >= NumRegisters {
		return 0
	}
	return x.regs[addr]
}

// Write stores data into register addr under mask (bits set in mask are
// overwritten, the rest of the register is preserved). mask of zero is
// treated as all-ones. Writing register 0 is a no-op; addr above
// NumRegisters-1 is ignored.
func (x *XRF) Write(addr uint8, data, mask uint64) {
	if addr == ZeroRegister || int(addr) >= NumRegisters {
		return
	}
	if mask == 0 {
		mask = ^uint64(0)
	}
	x.regs[addr] = (x.regs[addr] &^ mask) | (data & mask)
}

// WriteBytes stores a little-endian byte vector (as produced by a
// ROB entry's ResultData for a scalar-destined write) into register addr
// under a per-byte enable mask, mirroring the VRF's byte-enable write
// semantics for XRF-destined retirement writes.
func (x *XRF) WriteBytes(addr uint8, data, byteEnable []byte) bool {
	if addr == ZeroRegister || int(addr) >= NumRegisters {
		return true
	}
	if len(data) == 0 || len(data) > 8 {
		return false
	}
	var mask uint64
	for i := range data {
		if len(byteEnable) == 0 || (i < len(byteEnable) && byteEnable[i] != 0) {
			mask |= 0xFF << (8 * uint(i))
		}
	}
	var value uint64
	for i, b := range data {
		value |= uint64(b) << (8 * uint(i))
	}
	x.Write(addr, value, mask)
	return true
}
