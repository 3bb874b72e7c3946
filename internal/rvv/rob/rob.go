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

// Package rob implements the reorder buffer: a fixed-capacity circular
// buffer enforcing strict in-order retirement.
package rob

import "github.com/probeum/rvvsim/internal/rvv/isa"

// DestType selects which register file an entry's writeback targets.
type DestType uint8

const (
	DestVRF DestType = iota
	DestXRF
)

// Entry is one in-flight reorder-buffer slot.
type Entry struct {
	RobIndex  int
	InstID    uint64
	UopID     uint64
	DestReg   uint8
	DestValid bool
	DestType  DestType

	ResultData []byte
	ByteEnable []byte // one entry per ResultData byte; non-zero means write that byte
	VXSat      bool

	DispatchCycle uint64
	CompleteCycle uint64
	RetireCycle   uint64

	ExecutionComplete bool
	Retired           bool
	TrapFlag          bool
	TrapCode          isa.TrapCode
}

// ROB is a circular buffer of Entry, capacity R, tracking head (oldest),
// tail (next free) and size (the only reliable occupancy signal: head
// equaling tail is ambiguous between empty and full).
type ROB struct {
	entries []Entry
	head    int
	tail    int
	size    int

	resultWidth int // VLEN/8, the fixed width of ResultData/ByteEnable
}

// New constructs an empty ROB of capacity cap, sized for resultWidth
// bytes of vector data per entry.
func New(capacity, resultWidth int) *ROB {
	return &ROB{entries: make([]Entry, capacity), resultWidth: resultWidth}
}

// Capacity returns R.
func (r *ROB) Capacity() int { return len(r.entries) }

// Size returns the current occupancy.
func (r *ROB) Size() int { return r.size }

// Full reports whether the buffer has no free slot.
func (r *ROB) Full() bool { return r.size == len(r.entries) }

// Empty reports whether the buffer holds no entries.
func (r *ROB) Empty() bool { return r.size == 0 }

// Enqueue allocates a new entry at the tail, stamped with dispatchCycle.
// Returns the allocated index and true, or (0, false) if full.
func (r *ROB) Enqueue(instID, uopID uint64, destReg uint8, destValid bool, destType DestType, dispatchCycle uint64) (int, bool) {
	if r.Full() {
		return 0, false
	}
	idx := r.tail
	r.entries[idx] = Entry{
		RobIndex:      idx,
		InstID:        instID,
		UopID:         uopID,
		DestReg:       destReg,
		DestValid:     destValid,
		DestType:      destType,
		ResultData:    make([]byte, r.resultWidth),
		ByteEnable:    make([]byte, r.resultWidth),
		DispatchCycle: dispatchCycle,
	}
	r.tail = (r.tail + 1) % len(r.entries)
	r.size++
	return idx, true
}

// occupied reports whether idx is a live slot: reachable by walking
// forward from head within the current size, mod capacity.
func (r *ROB) occupied(idx int) bool {
	if r.size == 0 || idx < 0 || idx >= len(r.entries) {
		return false
	}
	offset := idx - r.head
	if offset < 0 {
		offset += len(r.entries)
	}
	return offset < r.size
}

// MarkComplete flips execution_complete and stores the result for rob_idx.
// byteEnable of nil/empty means all-ones. Returns false if the index is
// invalid or the entry has already retired.
func (r *ROB) MarkComplete(robIdx int, data, byteEnable []byte, vxsat bool, cycle uint64) bool {
	if !r.occupied(robIdx) {
		return false
	}
	e := &r.entries[robIdx]
	if e.Retired {
		return false
	}
	if data != nil {
		copy(e.ResultData, data)
	}
	if len(byteEnable) == 0 {
		for i := range e.ByteEnable {
			e.ByteEnable[i] = 0xFF
		}
	} else {
		copy(e.ByteEnable, byteEnable)
	}
	e.VXSat = vxsat
	e.ExecutionComplete = true
	e.CompleteCycle = cycle
	return true
}

// SetTrap marks rob_idx as trapping: sets trap_flag, trap_code, and
// execution_complete (a trap is itself a form of completion).
func (r *ROB) SetTrap(robIdx int, code isa.TrapCode, cycle uint64) bool {
	if !r.occupied(robIdx) {
		return false
	}
	e := &r.entries[robIdx]
	if e.Retired {
		return false
	}
	e.TrapFlag = true
	e.TrapCode = code
	e.ExecutionComplete = true
	e.CompleteCycle = cycle
	return true
}

// GetRetireEntries walks forward from head, returning a prefix of entries
// that are all completed and not retired, stopping at the first
// incomplete or already-retired slot. Never returns more than maxCount.
func (r *ROB) GetRetireEntries(maxCount int) []Entry {
	var out []Entry
	idx := r.head
	for i := 0; i < r.size && len(out) < maxCount; i++ {
		e := r.entries[idx]
		if !e.ExecutionComplete || e.Retired {
			break
		}
		out = append(out, e)
		idx = (idx + 1) % len(r.entries)
	}
	return out
}

// Retire advances head past up to count entries, stopping at the first
// incomplete entry. Returns the number of entries actually retired.
func (r *ROB) Retire(count int, cycle uint64) int {
	retired := 0
	for retired < count && retired < r.size {
		e := &r.entries[r.head]
		if !e.ExecutionComplete {
			break
		}
		e.Retired = true
		e.RetireCycle = cycle
		r.head = (r.head + 1) % len(r.entries)
		r.size--
		retired++
	}
	return retired
}

// Peek returns a copy of the entry currently at rob_idx, for diagnostics
// and tests. ok is false if the slot is not currently live.
func (r *ROB) Peek(robIdx int) (Entry, bool) {
	if !r.occupied(robIdx) {
		return Entry{}, false
	}
	return r.entries[robIdx], true
}
