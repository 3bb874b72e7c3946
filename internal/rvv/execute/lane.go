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
	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/sim/packet"
	"github.com/probeum/rvvsim/internal/sim/pipeline"
	"github.com/probeum/rvvsim/internal/sim/port"
)

// routesToALULane reports whether opcode's category is modeled as the
// "separate functional unit" variant: an aluLane forwarding operands
// over a Pipeline and delivering results over a RegisterFileWire,
// rather than the explicit per-uop countdown. Only the 2-cycle category
// bucket (Arithmetic/Shift/Mask/Bitmanip) is routed: a single-stage
// Pipeline always imposes at least one full cycle between intake and
// drain, which reproduces that bucket's latency exactly (issue at cycle
// C, drain at C+1). The 1-cycle bucket (Logical/Compare) cannot be
// represented this way without shifting its completion a cycle late, so
// it stays on the countdown, and Divide's EEW-dependent depth is only
// known at Issue time, which the Pipeline's construction-time stage
// count cannot express.
func routesToALULane(opcode uint32) bool {
	switch isa.Categorize(opcode) {
	case isa.CategoryArithmetic, isa.CategoryShift, isa.CategoryMask, isa.CategoryBitmanip:
		return true
	default:
		return false
	}
}

// aluLane is the execute stage's shared single-slot ALU functional unit:
// at most one uop occupies its Pipeline stage per cycle. Operands arrive
// over a Port the Pipeline polls as its stage-0 input; the computed
// result is forwarded to the owning Stage over a RegisterFileWire,
// mirroring the addr/data register-file-write shape described for the
// vector register file's writeback path.
type aluLane struct {
	stage *Stage

	pipe *pipeline.Pipeline
	in   *port.Port

	issueIn *port.Port
	issue   *port.Connection

	wire    *port.RegisterFileWire
	srcAddr *port.Port
	srcData *port.Port
	dstAddr *port.Port
	dstData *port.Port
}

func newALULane(s *Stage) *aluLane {
	l := &aluLane{stage: s}

	l.in = port.New("execute.alu.in", port.DirIn)
	l.issueIn = port.New("execute.alu.issue", port.DirOut)
	l.issue = port.NewConnection("execute.alu.issue.conn", 0)
	l.issue.AddSource(l.issueIn)
	l.issue.AddDest(l.in)
	l.pipe = pipeline.New([]pipeline.Stage{{
		Name: "alu",
		Transform: func(in packet.Payload) packet.Payload {
			op, ok := in.(packet.ALUOperand)
			if !ok {
				return nil
			}
			return Compute(op)
		},
	}}, 1)
	l.pipe.AddInput(l.in)
	l.pipe.AddOutput(laneSink{l})

	l.srcAddr = port.New("execute.alu.wire.src.addr", port.DirOut)
	l.srcData = port.New("execute.alu.wire.src.data", port.DirOut)
	l.dstAddr = port.New("execute.alu.wire.dst.addr", port.DirIn)
	l.dstData = port.New("execute.alu.wire.dst.data", port.DirIn)
	l.wire = port.NewRegisterFileWire("execute.alu.writeback", l.srcAddr, l.srcData, nil, l.dstAddr, l.dstData, nil)

	return l
}

// offer enqueues op for this cycle's stage-0 intake. It returns false if
// the lane's single slot is already occupied (queued on the issue
// Connection, or already past it and sitting in the pipeline's own
// intake port or stage 0), in which case the caller must fall back to
// the countdown path rather than lose the uop.
func (l *aluLane) offer(op packet.ALUOperand, cycle uint64) bool {
	if l.issueIn.HasData() || l.in.HasData() || l.pipe.Occupied(0) {
		return false
	}
	l.issueIn.Write(packet.New(op, cycle))
	return true
}

// tick propagates this cycle's issued operand, if any, across the issue
// Connection into the Pipeline's intake port, then advances the Pipeline
// by one cycle. Any uop that drains this cycle is delivered synchronously
// to the Stage via laneSink.
func (l *aluLane) tick(cycle uint64) {
	l.issue.Propagate(cycle)
	l.pipe.Tick(cycle)
}

func (l *aluLane) idle() bool {
	return !l.issueIn.HasData() && !l.in.HasData() && !l.pipe.Occupied(0)
}

// laneSink adapts the Pipeline's final-stage drain into the completion
// RegisterFileWire and back out again. The wire is pumped twice: the
// first Propagate captures the beat into its buffer, the second drains
// it straight back out, so the round trip resolves within the same
// cycle it drained instead of adding a further cycle of wire latency.
type laneSink struct{ lane *aluLane }

func (w laneSink) Write(pkt packet.Packet) {
	result, ok := pkt.Payload.(packet.ALUResult)
	if !ok {
		return
	}
	cycle := pkt.Timestamp

	w.lane.srcAddr.Write(packet.New(packet.Word{Value: uint64(result.RobIndex)}, cycle))
	w.lane.srcData.Write(packet.New(result, cycle))
	w.lane.wire.Propagate(cycle)
	w.lane.wire.Propagate(cycle)

	if !w.lane.dstAddr.HasData() || !w.lane.dstData.HasData() {
		return
	}
	addr, addrOK := w.lane.dstAddr.Read().Payload.(packet.Word)
	delivered, dataOK := w.lane.dstData.Read().Payload.(packet.ALUResult)
	if !addrOK || !dataOK {
		return
	}
	w.lane.stage.complete(int(addr.Value), delivered, cycle)
}
