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

package pipeline

import "github.com/probeum/rvvsim/internal/sim/event"

// Ticker is invoked once per period by a TickingComponent.
type Ticker interface {
	Tick(cycle uint64)
}

// TickingComponent is a self-rescheduling wrapper around a Ticker: once
// started it enqueues its own next tick, every period cycles, at
// PriorityComponent, until Stop clears the enabled flag. A component
// that wants to stop itself mid-tick holds a reference to its own
// TickingComponent and calls Stop from within Tick.
type TickingComponent struct {
	sched   *event.Scheduler
	period  uint64
	ticker  Ticker
	enabled bool
	ticks   uint64
}

// NewTickingComponent wraps ticker to fire every period cycles (period 0
// is treated as 1) once Start is called.
func NewTickingComponent(sched *event.Scheduler, period uint64, ticker Ticker) *TickingComponent {
	if period == 0 {
		period = 1
	}
	return &TickingComponent{sched: sched, period: period, ticker: ticker}
}

// Start enqueues the first tick at t0.
func (c *TickingComponent) Start(t0 uint64) {
	c.enabled = true
	c.sched.Schedule(t0, event.PriorityComponent, c.fire)
}

// Stop clears the enabled flag; the next already-scheduled tick returns
// early instead of rescheduling.
func (c *TickingComponent) Stop() { c.enabled = false }

// TickCount reports how many ticks have fired since Start.
func (c *TickingComponent) TickCount() uint64 { return c.ticks }

func (c *TickingComponent) fire(s *event.Scheduler) {
	if !c.enabled {
		return
	}
	cycle := s.GetCurrentTime()
	c.ticker.Tick(cycle)
	c.ticks++
	if c.enabled {
		s.Schedule(cycle+c.period, event.PriorityComponent, c.fire)
	}
}
