package packet

// Word carries a single 64-bit integer value between ports, e.g. the
// pipeline's stall-control port.
type Word struct {
	Value uint64
}

func (w Word) Kind() Kind  { return KindWord }
func (w Word) Clone() Payload { return Word{Value: w.Value} }

// Bool carries a single boolean flag.
type Bool struct {
	Value bool
}

func (b Bool) Kind() Kind  { return KindBool }
func (b Bool) Clone() Payload { return Bool{Value: b.Value} }

// ALUOperand carries the byte-level inputs to a functional unit: two
// operand vectors, the decoded category, element width, and the ROB
// index the result must be reported against.
type ALUOperand struct {
	RobIndex int
	Opcode   uint32
	EEW      uint8
	A, B     []byte
	Mask     []byte
}

func (a ALUOperand) Kind() Kind { return KindALUOperand }

func (a ALUOperand) Clone() Payload {
	return ALUOperand{
		RobIndex: a.RobIndex,
		Opcode:   a.Opcode,
		EEW:      a.EEW,
		A:        cloneBytes(a.A),
		B:        cloneBytes(a.B),
		Mask:     cloneBytes(a.Mask),
	}
}

// ALUResult carries a functional unit's computed result back to the
// execute stage for ROB completion.
type ALUResult struct {
	RobIndex     int
	Data         []byte
	ByteEnable   []byte
	Saturated    bool
}

func (r ALUResult) Kind() Kind { return KindALUResult }

func (r ALUResult) Clone() Payload {
	return ALUResult{
		RobIndex:   r.RobIndex,
		Data:       cloneBytes(r.Data),
		ByteEnable: cloneBytes(r.ByteEnable),
		Saturated:  r.Saturated,
	}
}

// MemRequest models a memory access issued by the (external) LSU category;
// the vector backend only needs to carry its shape through ports, not
// execute it.
type MemRequest struct {
	Addr  uint64
	Write bool
	Data  []byte
}

func (m MemRequest) Kind() Kind { return KindMemRequest }

func (m MemRequest) Clone() Payload {
	return MemRequest{Addr: m.Addr, Write: m.Write, Data: cloneBytes(m.Data)}
}

// MemResponse carries the data returned by a MemRequest.
type MemResponse struct {
	Data []byte
}

func (m MemResponse) Kind() Kind { return KindMemResponse }

func (m MemResponse) Clone() Payload {
	return MemResponse{Data: cloneBytes(m.Data)}
}

// RVVInstructionPayload carries a decoded vector instruction across a
// port, e.g. from the scalar interface into
// the dispatch stage's instruction queue.
type RVVInstructionPayload struct {
	PC      uint64
	Opcode  uint32
	VS1     uint8
	VS2     uint8
	VD      uint8
	VM      bool
	SEW     uint8
	LMUL    uint8
	VL      uint32
	InstID  uint64
}

func (i RVVInstructionPayload) Kind() Kind { return KindRVVInstruction }

func (i RVVInstructionPayload) Clone() Payload { return i }

// RVVUopPayload carries a stripmined micro-op across a port.
type RVVUopPayload struct {
	InstID    uint64
	UopID     uint64
	UopIndex  uint8
	UopCount  uint8
	Opcode    uint32
	PhysVS1   uint8
	PhysVS2   uint8
	PhysVD    uint8
	VM        bool
	SEW       uint8
	LMUL      uint8
	VL        uint32
	RobIndex  int
	HasRob    bool
}

func (u RVVUopPayload) Kind() Kind { return KindRVVUop }

func (u RVVUopPayload) Clone() Payload { return u }

// RVVBackendPayload is the richest envelope: a uop in flight through
// execute/retire, carrying an optional result and byte-enable once a
// functional unit has produced data.
type RVVBackendPayload struct {
	Uop        RVVUopPayload
	HasResult  bool
	Result     []byte
	ByteEnable []byte
}

func (b RVVBackendPayload) Kind() Kind { return KindRVVBackend }

func (b RVVBackendPayload) Clone() Payload {
	return RVVBackendPayload{
		Uop:        b.Uop,
		HasResult:  b.HasResult,
		Result:     cloneBytes(b.Result),
		ByteEnable: cloneBytes(b.ByteEnable),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
