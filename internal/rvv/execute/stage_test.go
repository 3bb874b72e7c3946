package execute

import (
	"testing"

	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/rvv/rob"
	"github.com/probeum/rvvsim/internal/rvv/vrf"
)

type fakeNotifier struct {
	calls map[int][]byte
}

func (f *fakeNotifier) UpdateRobEntry(robIdx int, data []byte) {
	if f.calls == nil {
		f.calls = map[int][]byte{}
	}
	f.calls[robIdx] = data
}

func TestIssueThenTickCompletesAfterCategoryLatency(t *testing.T) {
	r := rob.New(8, 1)
	v := vrf.New(1)
	v.Write(1, []byte{10}, nil)
	v.Write(2, []byte{5}, nil)
	notify := &fakeNotifier{}
	s := New(r, v, notify, nil)

	idx, _ := r.Enqueue(1, 1, 3, true, rob.DestVRF, 0)
	u := isa.MicroOp{InstID: 1, PhysVs1: 1, PhysVs2: 2, PhysVd: 3, SEW: config.SEW8, Opcode: 0x1, RobIndex: int32(idx)}
	s.Issue(u)

	// Arithmetic latency is 2 cycles: not complete after 1 tick.
	s.Tick(1)
	if e, _ := r.Peek(idx); e.ExecutionComplete {
		t.Fatalf("expected entry not yet complete after 1 of 2 cycles")
	}

	s.Tick(2)
	e, ok := r.Peek(idx)
	if !ok || !e.ExecutionComplete {
		t.Fatalf("expected entry complete after latency elapsed")
	}
	if e.ResultData[0] != 15 {
		t.Fatalf("got result %d, want 15 (10+5)", e.ResultData[0])
	}
	if notify.calls[idx] == nil {
		t.Fatalf("expected dispatch notifier invoked on completion")
	}
}

func TestIdleReflectsInFlightOccupancy(t *testing.T) {
	r := rob.New(8, 1)
	v := vrf.New(1)
	s := New(r, v, &fakeNotifier{}, nil)
	if !s.Idle() {
		t.Fatalf("expected fresh execute stage to be idle")
	}

	idx, _ := r.Enqueue(1, 1, 0, true, rob.DestVRF, 0)
	u := isa.MicroOp{Opcode: 0x13, SEW: config.SEW8, RobIndex: int32(idx)}
	s.Issue(u)
	if s.Idle() {
		t.Fatalf("expected execute stage non-idle with an in-flight uop")
	}
}

func TestUnrecognizedOpcodeTrapsInsteadOfComputing(t *testing.T) {
	r := rob.New(8, 1)
	v := vrf.New(1)
	notify := &fakeNotifier{}
	s := New(r, v, notify, nil)

	idx, _ := r.Enqueue(1, 1, 3, true, rob.DestVRF, 0)
	u := isa.MicroOp{InstID: 1, PhysVs1: 1, PhysVs2: 2, PhysVd: 3, SEW: config.SEW8, Opcode: 0xDEADBEEF, RobIndex: int32(idx)}
	s.Issue(u)

	s.Tick(1)
	e, ok := r.Peek(idx)
	if !ok || !e.TrapFlag || e.TrapCode != isa.TrapReservedOpcode {
		t.Fatalf("expected a reserved-opcode trap, got %+v", e)
	}
	if notify.calls[idx] != nil {
		t.Fatalf("expected no forwarded data for a trapping uop")
	}
}

func TestDivideOpcodeUsesEEWLatencyNotCategoryLatency(t *testing.T) {
	r := rob.New(8, 4)
	v := vrf.New(4)
	v.Write(1, []byte{8, 0, 0, 0}, nil)
	v.Write(2, []byte{2, 0, 0, 0}, nil)
	s := New(r, v, &fakeNotifier{}, nil)

	idx, _ := r.Enqueue(1, 1, 0, true, rob.DestVRF, 0)
	u := isa.MicroOp{PhysVs1: 1, PhysVs2: 2, Opcode: 0x2, SEW: config.SEW32, RobIndex: int32(idx)}
	s.Issue(u)

	for c := uint64(1); c < 65; c++ {
		s.Tick(c)
		if e, _ := r.Peek(idx); e.ExecutionComplete {
			t.Fatalf("divide at eew=32 should take 65 cycles, completed early at cycle %d", c)
		}
	}
	s.Tick(65)
	e, _ := r.Peek(idx)
	if !e.ExecutionComplete {
		t.Fatalf("expected divide to complete at cycle 65")
	}
}

func TestALULaneCollisionFallsBackToCountdownWithIdenticalTiming(t *testing.T) {
	r := rob.New(8, 4)
	v := vrf.New(4)
	v.Write(1, []byte{10}, nil)
	v.Write(2, []byte{5}, nil)
	v.Write(3, []byte{20}, nil)
	v.Write(4, []byte{1}, nil)
	s := New(r, v, &fakeNotifier{}, nil)

	idxA, _ := r.Enqueue(1, 1, 0, true, rob.DestVRF, 0)
	idxB, _ := r.Enqueue(2, 2, 0, true, rob.DestVRF, 0)

	uA := isa.MicroOp{PhysVs1: 1, PhysVs2: 2, Opcode: 0x1, SEW: config.SEW8, RobIndex: int32(idxA)}
	uB := isa.MicroOp{PhysVs1: 3, PhysVs2: 4, Opcode: 0x1, SEW: config.SEW8, RobIndex: int32(idxB)}
	s.Issue(uA)
	s.Issue(uB)

	s.Tick(1)
	if e, _ := r.Peek(idxA); e.ExecutionComplete {
		t.Fatalf("lane-routed uop should not complete after 1 of 2 cycles")
	}
	if e, _ := r.Peek(idxB); e.ExecutionComplete {
		t.Fatalf("countdown-fallback uop should not complete after 1 of 2 cycles")
	}

	s.Tick(2)
	eA, okA := r.Peek(idxA)
	eB, okB := r.Peek(idxB)
	if !okA || !eA.ExecutionComplete || eA.ResultData[0] != 15 {
		t.Fatalf("expected lane-routed uop complete with result 15, got %+v", eA)
	}
	if !okB || !eB.ExecutionComplete || eB.ResultData[0] != 21 {
		t.Fatalf("expected countdown-fallback uop complete with result 21, got %+v", eB)
	}
}
