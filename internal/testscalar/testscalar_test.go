package testscalar

import (
	"testing"

	"github.com/probeum/rvvsim/internal/rvv/backend"
	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/isa"
	"github.com/probeum/rvvsim/internal/sim/event"
)

func newBackend() *backend.Backend {
	sched := event.New()
	cfg := backend.Config{VLENBits: 64, ROBCapacity: 16, MaxIssueWidth: 4, NumReadPorts: 8, NumRetirePorts: 4}
	return backend.New(sched, nil, cfg, config.Default())
}

func TestDriverOffersInstructionsUnderBackpressure(t *testing.T) {
	b := newBackend()
	program := make([]isa.Instruction, 0, 4)
	for i := uint64(1); i <= 4; i++ {
		program = append(program, isa.Instruction{InstID: i, Opcode: 0x13, Vs1: 1, Vs2: 2, Vd: 3, SEW: config.SEW8, LMUL: config.LMUL1})
	}
	d := New(b, program)

	accepted := d.Step()
	if accepted != 4 {
		t.Fatalf("expected all 4 instructions accepted in one Step (queue capacity is 16), got %d", accepted)
	}
	if !d.Done() {
		t.Fatalf("expected driver to be done offering instructions")
	}
}

func TestDriverShadowsScalarDestinedWrites(t *testing.T) {
	b := newBackend()
	b.VRF().Write(1, []byte{7, 0, 0, 0, 0, 0, 0, 0}, nil)
	b.VRF().Write(2, []byte{3, 0, 0, 0, 0, 0, 0, 0}, nil)

	d := New(b, []isa.Instruction{
		{InstID: 1, Opcode: 0x1, Vs1: 1, Vs2: 2, Vd: 5, SEW: config.SEW8, LMUL: config.LMUL1},
	})
	d.Step()
	b.RunCycles(4)
	d.Step()

	if got := d.ReadRegister(5); got != 0 {
		t.Fatalf("expected register 5 untouched (destination was a vector register, not scalar), got %d", got)
	}
}

func TestDriverRecordsSurfacedTraps(t *testing.T) {
	b := newBackend()
	d := New(b, []isa.Instruction{
		{InstID: 1, Opcode: 0xDEADBEEF, Vs1: 1, Vs2: 2, Vd: 5, SEW: config.SEW8, LMUL: config.LMUL1},
	})
	d.Step()
	b.RunCycles(4)
	d.Step()

	if len(d.Traps) != 1 || d.Traps[0].InstID != 1 {
		t.Fatalf("expected one trap for inst_id=1, got %+v", d.Traps)
	}
}

func TestDriverSetVectorConfigDelegatesToBackend(t *testing.T) {
	b := newBackend()
	d := New(b, nil)
	want := config.State{VL: 4, SEW: config.SEW32, LMUL: config.LMUL2}
	d.SetVectorConfig(want)
	if got := b.GetConfigState(); got != want {
		t.Fatalf("got config state %+v, want %+v", got, want)
	}
}

func TestReadRegisterOutOfRangeReturnsZero(t *testing.T) {
	d := New(newBackend(), nil)
	if got := d.ReadRegister(200); got != 0 {
		t.Fatalf("expected out-of-range register read to return 0, got %d", got)
	}
}
