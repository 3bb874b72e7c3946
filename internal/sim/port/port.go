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

// Package port implements the typed data slots components expose, and the
// connections that move packets between them each cycle.
//
// Ports are owned by their component; connections hold references to
// ports only, never to the components that own them: there is no
// back-pointer from a port to its component.
package port

import "github.com/probeum/rvvsim/internal/sim/packet"

// Direction constrains how a port may be used.
type Direction uint8

const (
	DirIn Direction = iota
	DirOut
	DirBidir
)

// Port is a named single-slot holder for at most one packet.
type Port struct {
	Name string
	Dir  Direction
	slot packet.Packet
}

// New returns an empty named port.
func New(name string, dir Direction) *Port {
	return &Port{Name: name, Dir: dir}
}

// Write overwrites the port's slot, silently dropping any prior packet.
// Overwriting an occupied single-element slot is legal: a port holds at
// most one packet and the newest write always wins.
func (p *Port) Write(pkt packet.Packet) {
	p.slot = pkt
}

// Read returns the current packet and clears the slot.
func (p *Port) Read() packet.Packet {
	pkt := p.slot
	p.slot = packet.Packet{}
	return pkt
}

// HasData reports whether the slot holds a valid packet, without
// consuming it.
func (p *Port) HasData() bool {
	return p.slot.Valid
}

// Peek returns the current packet without clearing the slot.
func (p *Port) Peek() packet.Packet {
	return p.slot
}
