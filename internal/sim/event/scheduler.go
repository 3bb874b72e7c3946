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

// Package event implements the simulator's discrete-event kernel: a
// single-threaded, cooperative scheduler driven by a priority-ordered
// min-heap of timestamped callbacks.
package event

import "container/heap"

// Priority orders events scheduled for the same simulated cycle. Smaller
// values run first.
type Priority int

const (
	// PriorityComponent is used by ticking components. At equal time,
	// component ticks run before connection propagations, so a component
	// that writes a port during its tick has that write observed by a
	// connection later in the same cycle.
	PriorityComponent Priority = 0
	// PriorityConnection is used by ticking connections.
	PriorityConnection Priority = 1
)

// Fn is a scheduled callback. It receives the scheduler so it can
// reschedule itself (e.g. a ticking component enqueuing its next tick).
type Fn func(s *Scheduler)

type event struct {
	time     uint64
	priority Priority
	seq      uint64 // insertion order, breaks priority ties (FIFO)
	fn       Fn
}

// eventQueue implements container/heap.Interface, min-ordered on
// (time, priority, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) {
	*q = append(*q, x.(*event))
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Scheduler is the process-wide discrete-event kernel. It is constructed
// explicitly and threaded through component constructors rather than
// referenced as an ambient singleton.
type Scheduler struct {
	queue      eventQueue
	now        uint64
	nextSeq    uint64
	totalCount uint64
}

// New returns a Scheduler with an empty queue at time 0.
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.queue)
	return s
}

// Schedule enqueues fn to run at the given absolute time and priority.
// An event scheduled for the current or a past time still executes at
// the scheduler's next step, never immediately.
func (s *Scheduler) Schedule(time uint64, priority Priority, fn Fn) {
	heap.Push(&s.queue, &event{time: time, priority: priority, seq: s.nextSeq, fn: fn})
	s.nextSeq++
	s.totalCount++
}

// ScheduleAt is an alias of Schedule using PriorityComponent, convenient
// for one-shot callbacks that are not themselves a component tick.
func (s *Scheduler) ScheduleAt(time uint64, fn Fn) {
	s.Schedule(time, PriorityComponent, fn)
}

// step pops and runs the single next-ready event, advancing the clock.
// Returns false if the queue was empty.
func (s *Scheduler) step() bool {
	if s.queue.Len() == 0 {
		return false
	}
	ev := heap.Pop(&s.queue).(*event)
	if ev.time > s.now {
		s.now = ev.time
	}
	ev.fn(s)
	return true
}

// RunFor advances the simulation by exactly n cycles of wall-clock
// scheduler time, executing every event with time < startTime+n. Pending
// events beyond that horizon remain scheduled: RunFor exits after n
// cycles even with a non-empty queue.
func (s *Scheduler) RunFor(n uint64) {
	horizon := s.now + n
	s.RunUntil(horizon)
}

// RunUntil runs events until the queue is empty or the next event's time
// is >= limit.
func (s *Scheduler) RunUntil(limit uint64) {
	for s.queue.Len() > 0 && s.queue[0].time < limit {
		s.step()
	}
	if s.now < limit {
		s.now = limit
	}
}

// Run drains the queue, executing every pending event, but never advances
// time past maxTime. Returns normally (SchedulerExhausted is not an
// error state) once the queue empties or the horizon is reached.
func (s *Scheduler) Run(maxTime uint64) {
	for s.queue.Len() > 0 && s.queue[0].time <= maxTime {
		s.step()
	}
}

// Drain runs every remaining event regardless of timestamp. Used for
// shutdown and flush.
func (s *Scheduler) Drain() int {
	n := 0
	for s.step() {
		n++
	}
	return n
}

// Reset drops all pending events and resets the clock to 0. An expansion
// used between independent test runs.
func (s *Scheduler) Reset() {
	s.queue = eventQueue{}
	heap.Init(&s.queue)
	s.now = 0
}

// GetCurrentTime returns the scheduler's current simulated cycle.
func (s *Scheduler) GetCurrentTime() uint64 { return s.now }

// GetPendingEventCount returns the number of events still in the queue.
func (s *Scheduler) GetPendingEventCount() int { return s.queue.Len() }

// GetTotalEventCount returns the number of events ever scheduled.
func (s *Scheduler) GetTotalEventCount() uint64 { return s.totalCount }
