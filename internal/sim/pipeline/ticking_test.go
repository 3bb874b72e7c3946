package pipeline

import (
	"testing"

	"github.com/probeum/rvvsim/internal/sim/event"
)

type countingTicker struct {
	cycles []uint64
	comp   *TickingComponent
	stopAt int
}

func (c *countingTicker) Tick(cycle uint64) {
	c.cycles = append(c.cycles, cycle)
	if c.stopAt > 0 && len(c.cycles) >= c.stopAt {
		c.comp.Stop()
	}
}

func TestTickingComponentFiresEveryPeriod(t *testing.T) {
	sched := event.New()
	ticker := &countingTicker{}
	comp := NewTickingComponent(sched, 2, ticker)
	ticker.comp = comp

	comp.Start(0)
	sched.RunFor(7)

	want := []uint64{0, 2, 4, 6}
	if len(ticker.cycles) != len(want) {
		t.Fatalf("got %v ticks, want %v", ticker.cycles, want)
	}
	for i, c := range want {
		if ticker.cycles[i] != c {
			t.Fatalf("tick %d fired at cycle %d, want %d", i, ticker.cycles[i], c)
		}
	}
}

func TestTickingComponentStopPreventsFurtherTicks(t *testing.T) {
	sched := event.New()
	ticker := &countingTicker{stopAt: 3}
	comp := NewTickingComponent(sched, 1, ticker)
	ticker.comp = comp

	comp.Start(0)
	sched.RunFor(10)

	if len(ticker.cycles) != 3 {
		t.Fatalf("expected exactly 3 ticks before Stop took effect, got %d", len(ticker.cycles))
	}
	if comp.TickCount() != 3 {
		t.Fatalf("TickCount() = %d, want 3", comp.TickCount())
	}
}
