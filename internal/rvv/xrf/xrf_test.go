package xrf

import "testing"

func TestWriteRegisterZeroIsNoOp(t *testing.T) {
	x := New()
	x.Write(0, 0xDEADBEEF, 0)
	if got := x.Read(0); got != 0 {
		t.Fatalf("register 0 must stay zero, got 0x%x", got)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	x := New()
	x.Write(5, 0x1234, 0)
	if got := x.Read(5); got != 0x1234 {
		t.Fatalf("got 0x%x, want 0x1234", got)
	}
}

func TestWriteUnderMaskPreservesOtherBits(t *testing.T) {
	x := New()
	x.Write(3, 0xFFFFFFFFFFFFFFFF, 0)
	x.Write(3, 0x00, 0xFF) // clear only the low byte
	if got := x.Read(3); got != 0xFFFFFFFFFFFFFF00 {
		t.Fatalf("got 0x%x, want 0xFFFFFFFFFFFFFF00", got)
	}
}

func TestOutOfRangeAddrIgnored(t *testing.T) {
	x := New()
	x.Write(200, 7, 0)
	if got := x.Read(200); got != 0 {
		t.Fatalf("out-of-range read must be zero, got 0x%x", got)
	}
}

func TestWriteBytesRoundTrip(t *testing.T) {
	x := New()
	if ok := x.WriteBytes(9, []byte{0x11, 0x22, 0x33, 0x44}, nil); !ok {
		t.Fatalf("expected WriteBytes to succeed")
	}
	if got := x.Read(9); got != 0x44332211 {
		t.Fatalf("got 0x%x, want 0x44332211", got)
	}
}

func TestWriteBytesRejectsOversizedData(t *testing.T) {
	x := New()
	if ok := x.WriteBytes(9, make([]byte, 9), nil); ok {
		t.Fatalf("expected WriteBytes to reject data wider than a scalar register")
	}
}

func TestWriteBytesHonorsByteEnable(t *testing.T) {
	x := New()
	x.Write(2, 0xFFFFFFFF, 0xFFFFFFFF)
	x.WriteBytes(2, []byte{0xAA, 0xBB, 0, 0}, []byte{1, 0, 0, 0})
	// Only byte 0 should have changed; byte 1 keeps its prior 0xFF.
	if got := x.Read(2); got&0xFF != 0xAA || (got>>8)&0xFF != 0xFF {
		t.Fatalf("got 0x%x, want low byte 0xAA and next byte unchanged at 0xFF", got)
	}
}
