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

package port

import "github.com/probeum/rvvsim/internal/sim/event"

// TickingConnection self-reschedules a Connection's Propagate every
// period cycles at PriorityConnection, so a propagation always observes
// the port writes a component made earlier in the same simulated cycle.
type TickingConnection struct {
	sched   *event.Scheduler
	period  uint64
	conn    *Connection
	enabled bool
	ticks   uint64
}

// NewTickingConnection wraps conn to propagate every period cycles
// (period 0 is treated as 1) once Start is called.
func NewTickingConnection(sched *event.Scheduler, period uint64, conn *Connection) *TickingConnection {
	if period == 0 {
		period = 1
	}
	return &TickingConnection{sched: sched, period: period, conn: conn}
}

// Start enqueues the first propagation at t0.
func (c *TickingConnection) Start(t0 uint64) {
	c.enabled = true
	c.sched.Schedule(t0, event.PriorityConnection, c.fire)
}

// Stop clears the enabled flag; the next already-scheduled propagation
// returns early instead of rescheduling.
func (c *TickingConnection) Stop() { c.enabled = false }

// TickCount reports how many propagations have fired since Start.
func (c *TickingConnection) TickCount() uint64 { return c.ticks }

func (c *TickingConnection) fire(s *event.Scheduler) {
	if !c.enabled {
		return
	}
	cycle := s.GetCurrentTime()
	c.conn.Propagate(cycle)
	c.ticks++
	if c.enabled {
		s.Schedule(cycle+c.period, event.PriorityConnection, c.fire)
	}
}
