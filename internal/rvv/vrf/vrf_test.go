package vrf

import "testing"

func TestWriteThenReadRoundTrip(t *testing.T) {
	v := New(4)
	data := []byte{1, 2, 3, 4}
	if !v.Write(5, data, nil) {
		t.Fatalf("expected unconditional write to succeed")
	}
	got := v.Read(5)
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], data[i])
		}
	}
}

func TestByteEnablePreservesUnwrittenBytes(t *testing.T) {
	v := New(4)
	v.Write(2, []byte{0xAA, 0xAA, 0xAA, 0xAA}, nil)

	be := []byte{1, 0, 1, 0}
	v.Write(2, []byte{0x11, 0x22, 0x33, 0x44}, be)

	got := v.Read(2)
	want := []byte{0x11, 0xAA, 0x33, 0xAA}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got 0x%x, want 0x%x", i, got[i], want[i])
		}
	}
}

func TestWriteWrongLengthFails(t *testing.T) {
	v := New(4)
	if v.Write(0, []byte{1, 2, 3}, nil) {
		t.Fatalf("expected write of wrong-length data to fail")
	}
}

func TestMaskRegisterHelpers(t *testing.T) {
	v := New(4)
	v.SetMaskRegister([]byte{0xF0, 0x0F, 0, 0})
	got := v.GetMaskRegister()
	if got[0] != 0xF0 || got[1] != 0x0F {
		t.Fatalf("unexpected mask register contents: %v", got)
	}
	// v0 is also addressable like any other register.
	direct := v.Read(MaskRegister)
	if direct[0] != 0xF0 {
		t.Fatalf("expected direct read of register 0 to match mask helper")
	}
}

func TestOutOfRangeIndexReadsZerosAndIgnoresWrites(t *testing.T) {
	v := New(4)
	v.Write(31, []byte{1, 2, 3, 4}, nil)

	if v.Write(32, []byte{9, 9, 9, 9}, nil) {
		t.Fatalf("expected write above the last valid index to be ignored")
	}
	got := v.Read(32)
	for i, b := range got {
		if b != 0 {
			t.Fatalf("byte %d: expected zero for out-of-range read, got %d", i, b)
		}
	}
	// Neighboring valid registers must be unaffected.
	if v.Read(31)[0] != 1 {
		t.Fatalf("out-of-range access must not disturb register 31")
	}
}

func TestReadReturnsIndependentCopy(t *testing.T) {
	v := New(4)
	v.Write(1, []byte{1, 2, 3, 4}, nil)
	got := v.Read(1)
	got[0] = 99
	got2 := v.Read(1)
	if got2[0] == 99 {
		t.Fatalf("Read must return a copy, not a reference to internal storage")
	}
}
