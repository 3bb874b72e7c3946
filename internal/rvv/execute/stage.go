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

package execute

import (
	"fmt"

	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/rvv/rob"
	"github.com/probeum/rvvsim/internal/rvv/vrf"
	"github.com/probeum/rvvsim/internal/sim/packet"
	"github.com/probeum/rvvsim/internal/tracer"
)

// trapCategory reports which asynchronous trap, if any, a category carries
// instead of a computed result: an opcode that is neither a divide opcode
// nor placed by Categorize into any known functional unit is a reserved
// encoding, not a silent no-op.
func trapCategory(opcode uint32) isa.TrapCode {
	if isa.Categorize(opcode) == isa.CategoryUnknown && !isa.IsDivide(opcode) {
		return isa.TrapReservedOpcode
	}
	return isa.TrapNone
}

// OperandSource supplies a uop's register operand bytes, consulting the
// forwarding buffer ahead of committed VRF state so a dependent uop that
// was cleared to dispatch (RAW-forwardable) reads the producer's value
// even before it retires.
type OperandSource interface {
	Read(reg uint8) []byte
}

// notifier is the subset of the dispatch stage's surface the execute
// stage needs once a uop completes.
type notifier interface {
	UpdateRobEntry(robIdx int, data []byte)
}

// inflight is one uop currently occupying the execute stage.
type inflight struct {
	uop        isa.MicroOp
	operand    packet.ALUOperand
	cyclesLeft int
	trap       isa.TrapCode
}

// Stage is the backend pipeline's execute stage (stage 1): it holds each
// dispatched uop for its category's latency, then computes a real result
// and marks the ROB entry complete. The 2-cycle category bucket
// (Arithmetic/Shift/Mask/Bitmanip) is instead offered to a dedicated
// aluLane modeling that bucket as a separate functional unit wired over a
// Pipeline and a RegisterFileWire; everything else (1-cycle Logical/
// Compare, and Divide's EEW-dependent depth) stays on the countdown below.
type Stage struct {
	rob      *rob.ROB
	vrf      *vrf.VRF
	notify   notifier
	tr       *tracer.Tracer
	inFlight []*inflight
	lane     *aluLane

	lastCycle uint64

	Completed uint64
}

// New constructs an execute stage backed by r for completion and v for
// operand reads. notify is typically the dispatch stage, notified so its
// forwarding buffer and shadow entries stay current. tr may be nil, in
// which case no trace lines are emitted.
func New(r *rob.ROB, v *vrf.VRF, notify notifier, tr *tracer.Tracer) *Stage {
	s := &Stage{rob: r, vrf: v, notify: notify, tr: tr}
	s.lane = newALULane(s)
	return s
}

// Issue accepts a dispatched uop, reads its operands (the VRF value,
// overlaid with the results of completed older writers still in the ROB),
// and begins holding it for the category (or divide) latency. A trap-free,
// non-divide uop in the 2-cycle category bucket is first offered to the
// ALU lane; only when the lane's single slot is already occupied this
// cycle does it fall back to the explicit countdown, which produces
// identical completion timing either way.
func (s *Stage) Issue(u isa.MicroOp) {
	a := s.vrf.Read(u.PhysVs1)
	b := s.vrf.Read(u.PhysVs2)
	// Forwarding: each completed older writer still in the ROB layers its
	// enabled result bytes over the VRF value, oldest first, so the newest wins.
	for i, n := s.rob.Capacity()-1, s.rob.Capacity(); i >= 1; i-- {
		e, ok := s.rob.Peek(((int(u.RobIndex)-i)%n + n) % n)
		if !ok || e.UopID >= u.UopID || !e.ExecutionComplete || e.TrapFlag || !e.DestValid || e.DestType != rob.DestVRF {
			continue
		}
		for j := range e.ByteEnable {
			if e.ByteEnable[j] != 0 && e.DestReg == u.PhysVs1 && j < len(a) {
				a[j] = e.ResultData[j]
			}
			if e.ByteEnable[j] != 0 && e.DestReg == u.PhysVs2 && j < len(b) {
				b[j] = e.ResultData[j]
			}
		}
	}
	var mask []byte
	if u.Vm {
		mask = s.vrf.GetMaskRegister()
	}

	operand := packet.ALUOperand{
		RobIndex: int(u.RobIndex),
		Opcode:   u.Opcode,
		EEW:      u.SEW.Bits8(),
		A:        a,
		B:        b,
		Mask:     mask,
	}

	trap := trapCategory(u.Opcode)
	if trap == isa.TrapNone && !isa.IsDivide(u.Opcode) && routesToALULane(u.Opcode) {
		if s.lane.offer(operand, s.lastCycle) {
			return
		}
	}

	latency := isa.Categorize(u.Opcode).Latency()
	if isa.IsDivide(u.Opcode) {
		latency = isa.DivideLatency(u.SEW.Bits8())
	}

	s.inFlight = append(s.inFlight, &inflight{
		uop:        u,
		operand:    operand,
		cyclesLeft: latency,
		trap:       trap,
	})
}

// Tick ages every in-flight uop by one cycle, completing any whose
// latency has elapsed, and advances the ALU lane's Pipeline by one cycle.
func (s *Stage) Tick(cycle uint64) {
	s.lastCycle = cycle
	remaining := s.inFlight[:0]
	for _, f := range s.inFlight {
		f.cyclesLeft--
		if f.cyclesLeft > 0 {
			remaining = append(remaining, f)
			continue
		}
		if f.trap != isa.TrapNone {
			s.rob.SetTrap(int(f.uop.RobIndex), f.trap, cycle)
			if s.notify != nil {
				s.notify.UpdateRobEntry(int(f.uop.RobIndex), nil)
			}
			s.Completed++
			continue
		}

		result := Compute(f.operand)
		traceType := tracer.TypeCompute
		if isa.IsDivide(f.uop.Opcode) {
			traceType = tracer.TypeMac
		}
		s.completeAs(int(f.uop.RobIndex), result, cycle, traceType)
	}
	s.inFlight = remaining
	s.lane.tick(cycle)
}

// complete marks a lane-routed uop's ROB entry complete, tracing it as an
// ALU (COMPUTE) result. The countdown path calls completeAs directly so
// divide completions can trace as MAC instead.
func (s *Stage) complete(robIdx int, result packet.ALUResult, cycle uint64) {
	s.completeAs(robIdx, result, cycle, tracer.TypeCompute)
}

func (s *Stage) completeAs(robIdx int, result packet.ALUResult, cycle uint64, traceType tracer.Type) {
	s.rob.MarkComplete(robIdx, result.Data, result.ByteEnable, result.Saturated, cycle)
	if s.notify != nil {
		s.notify.UpdateRobEntry(robIdx, result.Data)
	}
	s.Completed++
	if s.tr != nil {
		s.tr.Emit(cycle, traceType, "execute", "complete", fmt.Sprintf("rob=%d", robIdx))
	}
}

// Idle reports whether the execute stage holds no in-flight uops and the
// ALU lane is empty.
func (s *Stage) Idle() bool { return len(s.inFlight) == 0 && s.lane.idle() }
