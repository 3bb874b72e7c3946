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

// Package packet implements the envelopes that travel between ports. A
// Packet is a tagged union rather than an interface hierarchy: one Kind
// per concrete Payload, matched at consumption sites instead of relying on
// dynamic type assertions everywhere.
package packet

// Kind identifies the concrete payload carried by a Packet.
type Kind uint8

const (
	KindWord Kind = iota
	KindBool
	KindALUOperand
	KindALUResult
	KindMemRequest
	KindMemResponse
	KindRVVInstruction
	KindRVVUop
	KindRVVBackend
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "Word"
	case KindBool:
		return "Bool"
	case KindALUOperand:
		return "ALUOperand"
	case KindALUResult:
		return "ALUResult"
	case KindMemRequest:
		return "MemRequest"
	case KindMemResponse:
		return "MemResponse"
	case KindRVVInstruction:
		return "RVVInstruction"
	case KindRVVUop:
		return "RVVUop"
	case KindRVVBackend:
		return "RVVBackend"
	default:
		return "Unknown"
	}
}

// Payload is implemented by every concrete packet body. Clone must return a
// value that shares no mutable backing storage with the receiver.
type Payload interface {
	Kind() Kind
	Clone() Payload
}

// Packet is the base envelope carried through ports and connections.
// Timestamp is set to the current scheduler cycle on every delivery.
type Packet struct {
	Timestamp uint64
	Valid     bool
	Payload   Payload
}

// New wraps a payload in a valid packet stamped at the given cycle.
func New(payload Payload, cycle uint64) Packet {
	return Packet{Timestamp: cycle, Valid: true, Payload: payload}
}

// Clone deep-copies the packet, including its payload.
func (p Packet) Clone() Packet {
	out := Packet{Timestamp: p.Timestamp, Valid: p.Valid}
	if p.Payload != nil {
		out.Payload = p.Payload.Clone()
	}
	return out
}

// Stamp returns a copy of p with Timestamp set to cycle.
func (p Packet) Stamp(cycle uint64) Packet {
	p.Timestamp = cycle
	return p
}
