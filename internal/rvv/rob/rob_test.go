package rob

import (
	"testing"

	"github.com/probeum/rvvsim/internal/rvv/isa"
)

func TestEnqueueFailsWhenFull(t *testing.T) {
	r := New(2, 4)
	if _, ok := r.Enqueue(1, 1, 0, true, DestVRF, 0); !ok {
		t.Fatalf("expected first enqueue to succeed")
	}
	if _, ok := r.Enqueue(1, 2, 0, true, DestVRF, 0); !ok {
		t.Fatalf("expected second enqueue to succeed")
	}
	if _, ok := r.Enqueue(1, 3, 0, true, DestVRF, 0); ok {
		t.Fatalf("expected third enqueue to fail, ROB at capacity")
	}
}

func TestMarkCompleteDefaultsByteEnableAllOnes(t *testing.T) {
	r := New(4, 2)
	idx, _ := r.Enqueue(1, 1, 5, true, DestVRF, 0)
	r.MarkComplete(idx, []byte{0xAB, 0xCD}, nil, false, 3)

	e, ok := r.Peek(idx)
	if !ok {
		t.Fatalf("expected entry to still be live")
	}
	if !e.ExecutionComplete {
		t.Fatalf("expected execution_complete set")
	}
	if e.ByteEnable[0] != 0xFF || e.ByteEnable[1] != 0xFF {
		t.Fatalf("expected default byte_enable all-ones, got %v", e.ByteEnable)
	}
	if e.ResultData[0] != 0xAB || e.ResultData[1] != 0xCD {
		t.Fatalf("unexpected result data %v", e.ResultData)
	}
}

func TestMarkCompleteRejectsRetiredEntry(t *testing.T) {
	r := New(4, 2)
	idx, _ := r.Enqueue(1, 1, 0, true, DestVRF, 0)
	r.MarkComplete(idx, nil, nil, false, 1)
	r.Retire(1, 2)

	if r.MarkComplete(idx, nil, nil, false, 3) {
		t.Fatalf("expected MarkComplete to fail on a retired entry")
	}
}

func TestRetireStopsAtFirstIncompleteEntry(t *testing.T) {
	r := New(4, 2)
	idx0, _ := r.Enqueue(1, 1, 0, true, DestVRF, 0)
	_, _ = r.Enqueue(1, 2, 1, true, DestVRF, 0)

	r.MarkComplete(idx0, nil, nil, false, 1)
	// second entry never completes

	n := r.Retire(2, 2)
	if n != 1 {
		t.Fatalf("expected exactly 1 retired, got %d", n)
	}
	if r.Size() != 1 {
		t.Fatalf("expected 1 entry remaining, got %d", r.Size())
	}
}

func TestGetRetireEntriesStopsAtFirstGap(t *testing.T) {
	r := New(4, 2)
	idx0, _ := r.Enqueue(1, 1, 0, true, DestVRF, 0)
	idx1, _ := r.Enqueue(1, 2, 1, true, DestVRF, 0)
	_, _ = r.Enqueue(1, 3, 2, true, DestVRF, 0)

	r.MarkComplete(idx0, nil, nil, false, 1)
	r.MarkComplete(idx1, nil, nil, false, 1)
	// third entry left incomplete

	entries := r.GetRetireEntries(4)
	if len(entries) != 2 {
		t.Fatalf("expected 2 retireable entries, got %d", len(entries))
	}
}

func TestSetTrapMarksCompleteAndFlagged(t *testing.T) {
	r := New(4, 2)
	idx, _ := r.Enqueue(1, 1, 0, true, DestVRF, 0)
	if !r.SetTrap(idx, isa.TrapIllegalInstruction, 5) {
		t.Fatalf("expected SetTrap to succeed")
	}
	e, _ := r.Peek(idx)
	if !e.ExecutionComplete || !e.TrapFlag || e.TrapCode != isa.TrapIllegalInstruction {
		t.Fatalf("unexpected trap state: %+v", e)
	}
}

func TestCircularWraparoundReusesSlots(t *testing.T) {
	r := New(2, 2)
	idx0, _ := r.Enqueue(1, 1, 0, true, DestVRF, 0)
	r.MarkComplete(idx0, nil, nil, false, 1)
	if n := r.Retire(1, 1); n != 1 {
		t.Fatalf("expected 1 retired, got %d", n)
	}

	// Two more enqueues should succeed even though tail wrapped to 0.
	if _, ok := r.Enqueue(2, 1, 0, true, DestVRF, 2); !ok {
		t.Fatalf("expected enqueue after wraparound to succeed")
	}
	if _, ok := r.Enqueue(2, 2, 1, true, DestVRF, 2); !ok {
		t.Fatalf("expected second post-wraparound enqueue to succeed")
	}
	if !r.Full() {
		t.Fatalf("expected ROB full after wraparound enqueues")
	}
}
