package port

import (
	"testing"

	"github.com/probeum/rvvsim/internal/sim/packet"
)

func TestWriteOverwritesSilently(t *testing.T) {
	p := New("p0", DirIn)
	p.Write(packet.New(packet.Word{Value: 1}, 0))
	p.Write(packet.New(packet.Word{Value: 2}, 0))
	got := p.Read()
	if got.Payload.(packet.Word).Value != 2 {
		t.Fatalf("expected overwrite to keep latest value")
	}
}

func TestReadClearsSlot(t *testing.T) {
	p := New("p0", DirIn)
	p.Write(packet.New(packet.Word{Value: 1}, 0))
	p.Read()
	if p.HasData() {
		t.Fatalf("expected slot cleared after Read")
	}
}

func TestHasDataNonDestructive(t *testing.T) {
	p := New("p0", DirIn)
	p.Write(packet.New(packet.Word{Value: 1}, 0))
	if !p.HasData() {
		t.Fatalf("expected HasData true")
	}
	if !p.HasData() {
		t.Fatalf("HasData must not consume the packet")
	}
}

func TestConnectionPropagateStampsTimestamp(t *testing.T) {
	src := New("out", DirOut)
	dst := New("in", DirIn)
	c := NewConnection("c", 0)
	c.AddSource(src)
	c.AddDest(dst)

	src.Write(packet.New(packet.Word{Value: 5}, 0))
	c.Propagate(42)

	got := dst.Read()
	if got.Timestamp != 42 {
		t.Fatalf("expected timestamp 42, got %d", got.Timestamp)
	}
}

func TestConnectionFanOut(t *testing.T) {
	src := New("out", DirOut)
	d1, d2 := New("in1", DirIn), New("in2", DirIn)
	c := NewConnection("c", 0)
	c.AddSource(src)
	c.AddDest(d1)
	c.AddDest(d2)

	src.Write(packet.New(packet.ALUResult{Data: []byte{1, 2}}, 0))
	c.Propagate(1)

	r1 := d1.Read().Payload.(packet.ALUResult)
	r2 := d2.Read().Payload.(packet.ALUResult)
	r1.Data[0] = 99
	if r2.Data[0] == 99 {
		t.Fatalf("fan-out destinations must not share backing storage")
	}
}
