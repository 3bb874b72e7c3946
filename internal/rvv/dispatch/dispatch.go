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

// Package dispatch implements the backend's dispatch stage: instruction
// and decode queues, RAW/structural hazard detection against an active
// ROB shadow, ROB allocation, and a forwarding buffer that lets younger
// uops consume a producer's result before it retires.
package dispatch

import (
	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"

	"github.com/probeum/rvvsim/internal/rvv/decoder"
	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/rvv/rob"
)

const (
	InstructionQueueCapacity = 16
	MaxDecodePerCycle        = 6
	DefaultMaxIssueWidth     = 4
	DefaultNumReadPorts      = 8
	ForwardingBufferCapacity = 8
)

// shadowEntry mirrors one in-flight ROB entry so hazard checks never need
// to touch the ROB itself.
type shadowEntry struct {
	robIndex  int
	destReg   uint8
	dataReady bool
	instID    uint64
}

// Stats exposes the dispatch stage's per-run counters.
type Stats struct {
	Dispatched              uint64
	RAWStalls               uint64
	StructuralStalls        uint64
	ROBFullStalls           uint64
	InstructionQueueRejects uint64
}

// Stage is the dispatch stage. The backend drives it once per cycle via
// DispatchCycle; Process hands out the same dispatch results one uop per
// call.
type Stage struct {
	rob          *rob.ROB
	decoder      *decoder.Decoder
	maxIssueWidth int
	numReadPorts  int

	instrQueue []isa.Instruction
	decodeQueue []isa.MicroOp

	shadow []shadowEntry
	forward *lru.Cache

	dispatchedThisCycle []isa.MicroOp

	Stats Stats
}

// New constructs a dispatch stage backed by r for ROB allocation.
func New(r *rob.ROB, maxIssueWidth, numReadPorts int) *Stage {
	if maxIssueWidth <= 0 {
		maxIssueWidth = DefaultMaxIssueWidth
	}
	if numReadPorts <= 0 {
		numReadPorts = DefaultNumReadPorts
	}
	fwd, _ := lru.New(ForwardingBufferCapacity)
	return &Stage{
		rob:           r,
		decoder:       decoder.New(),
		maxIssueWidth: maxIssueWidth,
		numReadPorts:  numReadPorts,
		forward:       fwd,
	}
}

// QueueInstruction appends inst to the instruction queue. Returns false
// (the caller must backpressure) if the queue is already at capacity.
func (s *Stage) QueueInstruction(inst isa.Instruction) bool {
	if len(s.instrQueue) >= InstructionQueueCapacity {
		s.Stats.InstructionQueueRejects++
		return false
	}
	s.instrQueue = append(s.instrQueue, inst)
	return true
}

// QueueDepth reports the instruction queue's current occupancy.
func (s *Stage) QueueDepth() int { return len(s.instrQueue) }

// Idle reports whether the stage holds no instructions, no decoded uops,
// and has nothing dispatched-but-unreturned this cycle.
func (s *Stage) Idle() bool {
	return len(s.instrQueue) == 0 && len(s.decodeQueue) == 0 && len(s.dispatchedThisCycle) == 0
}

// Process returns the next dispatched uop, or nil if nothing was produced.
// While uops from an earlier dispatch cycle are still queued, it returns
// the oldest of them without dispatching; otherwise it runs one dispatch
// cycle first.
func (s *Stage) Process(cycle uint64) *isa.MicroOp {
	if len(s.dispatchedThisCycle) > 0 {
		u := s.dispatchedThisCycle[0]
		s.dispatchedThisCycle = s.dispatchedThisCycle[1:]
		return &u
	}

	s.decodeInstructions()
	s.dispatchLoop(cycle)

	if len(s.dispatchedThisCycle) > 0 {
		u := s.dispatchedThisCycle[0]
		s.dispatchedThisCycle = s.dispatchedThisCycle[1:]
		return &u
	}
	return nil
}

// DispatchCycle runs one full dispatch cycle (decode intake followed by
// the multi-issue dispatch loop) and returns every uop dispatched during
// it as a single batch, for callers that hand a whole cycle's worth of
// dispatched uops to execute at once rather than draining them one
// Process call at a time. Returns nil if a prior cycle's batch from
// Process is still outstanding.
func (s *Stage) DispatchCycle(cycle uint64) []isa.MicroOp {
	if len(s.dispatchedThisCycle) > 0 {
		return nil
	}
	s.decodeInstructions()
	s.dispatchLoop(cycle)
	out := s.dispatchedThisCycle
	s.dispatchedThisCycle = nil
	return out
}

func (s *Stage) decodeInstructions() {
	decoded := 0
	for decoded < MaxDecodePerCycle && len(s.instrQueue) > 0 {
		inst := s.instrQueue[0]
		s.instrQueue = s.instrQueue[1:]
		uops := s.decoder.Decode(inst)
		for _, u := range uops {
			s.decodeQueue = append(s.decodeQueue, u)
			decoded++
			if decoded >= MaxDecodePerCycle {
				break
			}
		}
	}
}

func (s *Stage) dispatchLoop(cycle uint64) {
	demand := mapset.NewSet()
	for i := 0; i < s.maxIssueWidth; i++ {
		if len(s.decodeQueue) == 0 {
			return
		}
		u := s.decodeQueue[0]

		if !s.rawForwardable(u) {
			s.Stats.RAWStalls++
			return
		}

		trial := demand.Clone()
		trial.Add(u.PhysVs1)
		trial.Add(u.PhysVs2)
		if trial.Cardinality() > s.numReadPorts {
			s.Stats.StructuralStalls++
			return
		}

		if s.rob.Full() {
			s.Stats.ROBFullStalls++
			return
		}

		idx, ok := s.rob.Enqueue(u.InstID, u.UopID, u.PhysVd, true, rob.DestVRF, cycle)
		if !ok {
			s.Stats.ROBFullStalls++
			return
		}
		u.RobIndex = int32(idx)
		s.shadow = append(s.shadow, shadowEntry{robIndex: idx, destReg: u.PhysVd, instID: u.InstID})

		demand = trial
		s.decodeQueue = s.decodeQueue[1:]
		s.dispatchedThisCycle = append(s.dispatchedThisCycle, u)
		s.Stats.Dispatched++
	}
}

// rawForwardable scans the active ROB shadow for the newest writer of
// vs1/vs2, and reports whether dispatch may proceed: either there is no
// in-flight writer, or the writer's data is ready (completed or sitting
// in the forwarding buffer).
func (s *Stage) rawForwardable(u isa.MicroOp) bool {
	for _, reg := range []uint8{u.PhysVs1, u.PhysVs2} {
		writer, found := s.newestWriterOf(reg)
		if !found {
			continue
		}
		if writer.dataReady {
			continue
		}
		if _, ok := s.forward.Get(writer.robIndex); ok {
			continue
		}
		return false
	}
	return true
}

func (s *Stage) newestWriterOf(reg uint8) (shadowEntry, bool) {
	for i := len(s.shadow) - 1; i >= 0; i-- {
		if s.shadow[i].destReg == reg {
			return s.shadow[i], true
		}
	}
	return shadowEntry{}, false
}

// UpdateRobEntry is invoked when a functional unit completes rob_idx: it
// marks the shadow entry data-ready and deposits data into the
// forwarding buffer so younger dependents can proceed before retirement.
func (s *Stage) UpdateRobEntry(robIdx int, data []byte) {
	for i := range s.shadow {
		if s.shadow[i].robIndex == robIdx {
			s.shadow[i].dataReady = true
			break
		}
	}
	s.forward.Add(robIdx, data)
}

// RetireInstruction removes robIdx's shadow entry and evicts it from the
// forwarding buffer once it has retired.
func (s *Stage) RetireInstruction(robIdx int) {
	for i := range s.shadow {
		if s.shadow[i].robIndex == robIdx {
			s.shadow = append(s.shadow[:i], s.shadow[i+1:]...)
			break
		}
	}
	s.forward.Remove(robIdx)
}
