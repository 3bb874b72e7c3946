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

// Package backend assembles the scheduler, reorder buffer, vector
// register file, dispatch/execute/retire stages, and the scalar-register
// stub into a single runnable RVV out-of-order backend implementing
// iface.Backend.
package backend

import (
	"fmt"

	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/dispatch"
	"github.com/probeum/rvvsim/internal/rvv/execute"
	"github.com/probeum/rvvsim/internal/rvv/iface"
	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/rvv/retire"
	"github.com/probeum/rvvsim/internal/rvv/rob"
	"github.com/probeum/rvvsim/internal/rvv/vrf"
	"github.com/probeum/rvvsim/internal/rvv/xrf"
	"github.com/probeum/rvvsim/internal/sim/event"
	"github.com/probeum/rvvsim/internal/tracer"
)

// Config bundles the backend's sizing knobs.
type Config struct {
	VLENBits       int
	ROBCapacity    int
	MaxIssueWidth  int
	NumReadPorts   int
	NumRetirePorts int
}

// DefaultROBCapacity is the reorder buffer depth used when a Config
// leaves ROBCapacity unset.
const DefaultROBCapacity = 32

// DefaultVLENBits is the vector register width used when a Config leaves
// VLENBits unset.
const DefaultVLENBits = 256

// DefaultConfig returns the backend's out-of-the-box sizing.
func DefaultConfig() Config {
	return Config{
		VLENBits:       DefaultVLENBits,
		ROBCapacity:    DefaultROBCapacity,
		MaxIssueWidth:  dispatch.DefaultMaxIssueWidth,
		NumReadPorts:   dispatch.DefaultNumReadPorts,
		NumRetirePorts: retire.DefaultNumRetirePorts,
	}
}

// Backend wires the RVV pipeline's component stages to the event
// scheduler and exposes iface.Backend to the scalar frontend.
type Backend struct {
	sched *event.Scheduler
	tr    *tracer.Tracer

	cfg      config.State
	vlenBits int

	rob      *rob.ROB
	vrf      *vrf.VRF
	xrf      *xrf.XRF
	dispatch *dispatch.Stage
	execute  *execute.Stage
	retire   *retire.Stage

	instByID map[uint64]isa.Instruction

	pendingWrites []iface.RetireWrite
	trapQueue     []isa.Instruction

	lastCycle uint64
}

// New constructs a Backend bound to sched and tr, sized by cfg, with
// initial the vector configuration state in effect before the first
// vset* instruction.
func New(sched *event.Scheduler, tr *tracer.Tracer, cfg Config, initial config.State) *Backend {
	if cfg.ROBCapacity <= 0 {
		cfg.ROBCapacity = DefaultROBCapacity
	}
	if cfg.VLENBits <= 0 {
		cfg.VLENBits = DefaultVLENBits
	}
	resultWidth := cfg.VLENBits / 8

	r := rob.New(cfg.ROBCapacity, resultWidth)
	v := vrf.New(resultWidth)
	x := xrf.New()
	d := dispatch.New(r, cfg.MaxIssueWidth, cfg.NumReadPorts)
	e := execute.New(r, v, d, tr)
	rt := retire.New(r, v, x, d, cfg.NumRetirePorts, tr)

	return &Backend{
		sched:    sched,
		tr:       tr,
		cfg:      initial,
		vlenBits: cfg.VLENBits,
		rob:      r,
		vrf:      v,
		xrf:      x,
		dispatch: d,
		execute:  e,
		retire:   rt,
		instByID: make(map[uint64]isa.Instruction),
	}
}

// VRF exposes the vector register file directly, for loader-driven
// initial-state seeding and test inspection.
func (b *Backend) VRF() *vrf.VRF { return b.vrf }

// XRF exposes the scalar register stub directly, for the same reasons.
func (b *Backend) XRF() *xrf.XRF { return b.xrf }

// ROB exposes the reorder buffer for diagnostics.
func (b *Backend) ROB() *rob.ROB { return b.rob }

// VLENBits reports the vector register width this backend was sized for.
func (b *Backend) VLENBits() int { return b.vlenBits }

// Tick runs one cycle of dispatch, execute, and retire, in that order,
// matching the priority-ordered intra-cycle sequencing the scheduler
// otherwise enforces between components and connections.
func (b *Backend) Tick(cycle uint64) {
	b.lastCycle = cycle
	for _, u := range b.dispatch.DispatchCycle(cycle) {
		b.execute.Issue(u)
		if b.tr != nil {
			b.tr.Emit(cycle, tracer.TypeInstr, "dispatch", "issue", fmt.Sprintf("uop inst=%d rob=%d", u.InstID, u.RobIndex))
		}
	}
	b.execute.Tick(cycle)

	writes := b.retire.Process(cycle)
	for _, w := range writes {
		b.pendingWrites = append(b.pendingWrites, iface.RetireWrite{
			RobIndex:   w.RobIndex,
			DestReg:    w.DestReg,
			Data:       w.Data,
			ByteEnable: w.ByteEnable,
			ToScalar:   w.DestType == rob.DestXRF,
		})
		if w.TrapFlag {
			b.surfaceTrap(w.InstID)
		}
	}
}

// surfaceTrap looks the trapping entry's originating instruction up by
// InstID (tracked since IssueInstruction) and queues it for GetTrap.
func (b *Backend) surfaceTrap(instID uint64) {
	if inst, found := b.instByID[instID]; found {
		b.trapQueue = append(b.trapQueue, inst)
	}
}

// RunCycles schedules and drains exactly n self-rescheduling ticks
// starting at the scheduler's current time.
func (b *Backend) RunCycles(n uint64) {
	start := b.sched.GetCurrentTime()
	var tick event.Fn
	tick = func(s *event.Scheduler) {
		cycle := s.GetCurrentTime()
		b.Tick(cycle)
		if cycle+1 < start+n {
			s.Schedule(cycle+1, event.PriorityComponent, tick)
		}
	}
	b.sched.Schedule(start, event.PriorityComponent, tick)
	b.sched.RunFor(n)
}

// IssueInstruction implements iface.Backend.
func (b *Backend) IssueInstruction(inst isa.Instruction) bool {
	if !b.dispatch.QueueInstruction(inst) {
		if b.tr != nil {
			b.tr.Warn(b.lastCycle, tracer.TypeQueue, "dispatch", "reject", fmt.Sprintf("inst=%d queue full", inst.InstID))
		}
		return false
	}
	b.instByID[inst.InstID] = inst
	return true
}

// ReadScalarRegister implements iface.Backend.
func (b *Backend) ReadScalarRegister(addr uint8) uint64 {
	return b.xrf.Read(addr)
}

// WriteScalarRegister implements iface.Backend.
func (b *Backend) WriteScalarRegister(addr uint8, data, mask uint64) {
	b.xrf.Write(addr, data, mask)
}

// GetConfigState implements iface.Backend.
func (b *Backend) GetConfigState() config.State { return b.cfg }

// SetConfigState implements iface.Backend.
func (b *Backend) SetConfigState(cfg config.State) { b.cfg = cfg }

// GetRetireWrites implements iface.Backend, draining the accumulated
// writes since the last call.
func (b *Backend) GetRetireWrites() []iface.RetireWrite {
	out := b.pendingWrites
	b.pendingWrites = nil
	return out
}

// IsIdle implements iface.Backend.
func (b *Backend) IsIdle() bool {
	return b.dispatch.Idle() && b.execute.Idle() && b.rob.Empty()
}

// GetQueueCapacity implements iface.Backend.
func (b *Backend) GetQueueCapacity() uint32 {
	remaining := dispatch.InstructionQueueCapacity - b.dispatch.QueueDepth()
	if remaining < 0 {
		return 0
	}
	return uint32(remaining)
}

// GetTrap implements iface.Backend, dequeuing the oldest pending trap.
func (b *Backend) GetTrap(trapInst *isa.Instruction) bool {
	if len(b.trapQueue) == 0 {
		return false
	}
	*trapInst = b.trapQueue[0]
	b.trapQueue = b.trapQueue[1:]
	return true
}

var _ iface.Backend = (*Backend)(nil)
