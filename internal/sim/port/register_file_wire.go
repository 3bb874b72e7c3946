package port

import "github.com/probeum/rvvsim/internal/sim/packet"

// writeBeat is the (register-destination, value, mask) tuple a
// RegisterFileWire carries in a single beat.
type writeBeat struct {
	addr packet.Packet
	data packet.Packet
	mask packet.Packet
}

func (b writeBeat) valid() bool {
	return b.addr.Valid || b.data.Valid || b.mask.Valid
}

// RegisterFileWire is a specialized connection: it carries a
// (register-destination, value, mask) beat from a functional unit's
// three output ports into three register-file input ports (addr, data,
// mask), using a two-slot internal buffer (current, next) so a write is
// never lost when the source produces faster than the sink can consume.
type RegisterFileWire struct {
	Name string

	SrcAddr *Port
	SrcData *Port
	SrcMask *Port

	DstAddr *Port
	DstData *Port
	DstMask *Port

	current writeBeat
	next    writeBeat
	hasCur  bool
	hasNext bool
}

// NewRegisterFileWire wires a functional unit's addr/data/mask outputs to
// a register file's addr/data/mask inputs.
func NewRegisterFileWire(name string, srcAddr, srcData, srcMask, dstAddr, dstData, dstMask *Port) *RegisterFileWire {
	return &RegisterFileWire{
		Name: name, SrcAddr: srcAddr, SrcData: srcData, SrcMask: srcMask,
		DstAddr: dstAddr, DstData: dstData, DstMask: dstMask,
	}
}

// Propagate advances the two-slot buffer by one cycle: it first drains
// whatever beat is queued (current, then next) into the destination
// ports, then captures any new beat sitting on the source ports into
// whichever slot is free. A write offered while both slots are full is
// dropped (the caller backpressures upstream to avoid this; see dispatch's
// structural hazard detector for where that backpressure originates).
func (w *RegisterFileWire) Propagate(cycle uint64) {
	// Drain first: deliver whatever was captured on a prior cycle.
	if w.hasCur {
		w.deliver(w.current, cycle)
		w.hasCur = false
	}
	if w.hasNext {
		w.current = w.next
		w.hasCur = true
		w.hasNext = false
	}

	// Capture any newly offered beat.
	beat := writeBeat{}
	if w.SrcAddr != nil && w.SrcAddr.HasData() {
		beat.addr = w.SrcAddr.Read()
	}
	if w.SrcData != nil && w.SrcData.HasData() {
		beat.data = w.SrcData.Read()
	}
	if w.SrcMask != nil && w.SrcMask.HasData() {
		beat.mask = w.SrcMask.Read()
	}
	if beat.valid() {
		switch {
		case !w.hasCur:
			w.current, w.hasCur = beat, true
		case !w.hasNext:
			w.next, w.hasNext = beat, true
		default:
			// Both slots occupied: drop. This connection type only ever
			// buffers two beats at a time.
		}
	}
}

func (w *RegisterFileWire) deliver(b writeBeat, cycle uint64) {
	if b.addr.Valid && w.DstAddr != nil {
		w.DstAddr.Write(b.addr.Stamp(cycle))
	}
	if b.data.Valid && w.DstData != nil {
		w.DstData.Write(b.data.Stamp(cycle))
	}
	if b.mask.Valid && w.DstMask != nil {
		w.DstMask.Write(b.mask.Stamp(cycle))
	}
}

// Pending reports how many beats are currently buffered (0, 1, or 2).
func (w *RegisterFileWire) Pending() int {
	n := 0
	if w.hasCur {
		n++
	}
	if w.hasNext {
		n++
	}
	return n
}
