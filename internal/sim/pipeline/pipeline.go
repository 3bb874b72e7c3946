package pipeline

import "github.com/probeum/rvvsim/internal/sim/packet"

// slot holds one stage's occupancy state.
type slot struct {
	occupied      bool
	payload       packet.Payload
	enteredCycle  uint64
	cyclesInStage uint64
}

// Pipeline is the fixed-depth staged-processor base shared by the RVV
// backend pipeline and its functional units. Stage transform/stall/latency
// behavior is supplied per stage at construction; Tick() runs exactly one
// cycle of the drain-before-fill algorithm.
type Pipeline struct {
	stages     []Stage
	slots      []slot
	outputs    []Writer
	inputs     []Reader
	stallPort  Reader

	stalls uint64
}

// Reader is satisfied by an input-facing port: something the pipeline can
// poll for an offered packet.
type Reader interface {
	HasData() bool
	Read() packet.Packet
}

// Writer is satisfied by an output-facing port: something the pipeline
// can hand a finished payload to.
type Writer interface {
	Write(packet.Packet)
}

// New constructs a Pipeline of len(stages) stages. defaultLatency is used
// for any Stage whose Latency is zero, so both a zero-latency direct-tick
// pipeline and a scheduler-driven multi-cycle-per-stage pipeline are
// reachable from the same implementation.
func New(stages []Stage, defaultLatency uint64) *Pipeline {
	p := &Pipeline{
		stages: make([]Stage, len(stages)),
		slots:  make([]slot, len(stages)),
	}
	for i, s := range stages {
		if s.Transform == nil {
			s.Transform = identity
		}
		if s.Stall == nil {
			s.Stall = defaultStall
		}
		if s.Latency == 0 {
			s.Latency = defaultLatency
		}
		p.stages[i] = s
	}
	return p
}

// AddOutput registers a port the pipeline writes its final-stage payload
// to every cycle that stage drains.
func (p *Pipeline) AddOutput(w Writer) { p.outputs = append(p.outputs, w) }

// AddInput registers a port the pipeline polls for stage-0 intake, in
// registration order. SetStallPort designates a separate dedicated
// control port, excluded from this list.
func (p *Pipeline) AddInput(r Reader) { p.inputs = append(p.inputs, r) }

// SetStallPort designates the dedicated stall-control port: a non-zero
// integer packet there causes the whole pipeline to skip one tick.
func (p *Pipeline) SetStallPort(r Reader) { p.stallPort = r }

// StallCount returns the number of ticks the pipeline has skipped or
// held a stage for, across its whole lifetime.
func (p *Pipeline) StallCount() uint64 { return p.stalls }

// Occupied reports whether stage i currently holds a payload.
func (p *Pipeline) Occupied(i int) bool { return p.slots[i].occupied }

// Peek returns stage i's current payload, or nil if empty.
func (p *Pipeline) Peek(i int) packet.Payload {
	if !p.slots[i].occupied {
		return nil
	}
	return p.slots[i].payload
}

// Tick runs exactly one cycle of the pipeline's stage algorithm.
func (p *Pipeline) Tick(cycle uint64) {
	if p.stallPort != nil && p.stallPort.HasData() {
		pkt := p.stallPort.Read()
		if w, ok := pkt.Payload.(packet.Word); ok && w.Value != 0 {
			p.stalls++
			return
		}
	}

	n := len(p.stages)
	if n == 0 {
		return
	}

	// 1. Age every occupied stage.
	for i := range p.slots {
		if p.slots[i].occupied {
			p.slots[i].cyclesInStage++
		}
	}

	// 2. Final stage drains to outputs.
	last := n - 1
	if p.slots[last].occupied {
		for _, w := range p.outputs {
			w.Write(packet.New(p.slots[last].payload, cycle))
		}
		p.slots[last] = slot{}
	}

	// 3. Advance stage i-1 -> i, from N-1 down to 1.
	for i := n - 1; i >= 1; i-- {
		prev := i - 1
		if !p.slots[prev].occupied || p.slots[i].occupied {
			continue
		}
		if p.slots[prev].cyclesInStage < p.stages[prev].Latency {
			p.stalls++
			continue
		}
		if p.stages[i].Stall(p.slots[prev].payload) {
			p.stalls++
			continue
		}
		out := p.stages[i].Transform(p.slots[prev].payload)
		p.slots[i] = slot{occupied: true, payload: out, enteredCycle: cycle, cyclesInStage: 0}
		p.slots[prev] = slot{}
	}

	// 4. Stage 0 intake.
	if !p.slots[0].occupied {
		var in packet.Payload
		for _, r := range p.inputs {
			if r.HasData() {
				in = r.Read().Payload
				break
			}
		}
		out := p.stages[0].Transform(in)
		if out != nil {
			p.slots[0] = slot{occupied: true, payload: out, enteredCycle: cycle, cyclesInStage: 0}
		}
	}
}

// Flush clears every stage's payload without running any transform.
func (p *Pipeline) Flush() {
	for i := range p.slots {
		p.slots[i] = slot{}
	}
}
