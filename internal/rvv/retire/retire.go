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

// Package retire implements the backend's retire stage: draining
// completed ROB entries in program order, resolving WAW collisions with
// byte-enable masking, writing back to the VRF/XRF, and truncating at
// the first trap.
package retire

import (
	"fmt"

	"github.com/probeum/rvvsim/common"
	"github.com/probeum/rvvsim/internal/rvv/rob"
	"github.com/probeum/rvvsim/internal/rvv/vrf"
	"github.com/probeum/rvvsim/internal/rvv/xrf"
	"github.com/probeum/rvvsim/internal/tracer"
)

const DefaultNumRetirePorts = 4

// WriteRequest is one resolved writeback the retire stage hands to a
// register file.
type WriteRequest struct {
	RobIndex   int
	InstID     uint64
	DestReg    uint8
	Data       []byte
	ByteEnable []byte
	DestType   rob.DestType
	TrapFlag   bool
}

// retirer is the subset of the dispatch stage's surface retirement needs
// to keep the forwarding buffer and shadow in sync.
type retirer interface {
	RetireInstruction(robIdx int)
}

// Stats exposes the retire stage's per-run counters.
type Stats struct {
	WritesThisCycle uint64
	VRFWrites       uint64
	XRFWrites       uint64
	WAWCollisions   uint64
	Traps           uint64
}

// Stage is the backend's retire stage (Pipeline stage 2).
type Stage struct {
	rob            *rob.ROB
	vrf            *vrf.VRF
	xrf            *xrf.XRF
	dispatch       retirer
	numRetirePorts int
	tr             *tracer.Tracer

	Stats Stats
}

// New constructs a retire stage draining r, writing back to v (vector
// destinations) or x (scalar destinations), and notifying dispatch once
// an entry has retired. x may be nil if the backend never produces
// scalar-destined retirement writes. tr may be nil, in which case no
// trace lines are emitted.
func New(r *rob.ROB, v *vrf.VRF, x *xrf.XRF, dispatch retirer, numRetirePorts int, tr *tracer.Tracer) *Stage {
	if numRetirePorts <= 0 {
		numRetirePorts = DefaultNumRetirePorts
	}
	return &Stage{rob: r, vrf: v, xrf: x, dispatch: dispatch, numRetirePorts: numRetirePorts, tr: tr}
}

// Process runs one cycle of retirement: pulls candidates, truncates at
// the first trap (program order), resolves WAW collisions per
// destination register, writes back, and advances the ROB head.
func (s *Stage) Process(cycle uint64) []WriteRequest {
	candidates := s.rob.GetRetireEntries(s.numRetirePorts)
	if len(candidates) == 0 {
		return nil
	}

	// Trap handling: truncate at the first trapping entry, in program
	// order, but still emit its own write.
	trapIdx := -1
	for i, e := range candidates {
		if e.TrapFlag {
			trapIdx = i
			break
		}
	}
	var trapWithoutDest *rob.Entry
	if trapIdx >= 0 {
		s.Stats.Traps++
		trapped := candidates[trapIdx]
		candidates = candidates[:trapIdx+1]
		if !trapped.DestValid {
			trapWithoutDest = &trapped
		}
	}

	groups := map[uint8][]rob.Entry{}
	order := []uint8{}
	for _, e := range candidates {
		if !e.DestValid {
			continue
		}
		if _, seen := groups[e.DestReg]; !seen {
			order = append(order, e.DestReg)
		}
		groups[e.DestReg] = append(groups[e.DestReg], e)
	}

	var writes []WriteRequest
	for _, reg := range order {
		group := groups[reg]
		resolved := resolveWAW(group)
		if len(group) > 1 {
			s.Stats.WAWCollisions += uint64(len(group) - 1)
		}
		for _, w := range resolved {
			writes = append(writes, w)
			s.Stats.WritesThisCycle++
			switch w.DestType {
			case rob.DestVRF:
				s.vrf.Write(w.DestReg, w.Data, w.ByteEnable)
				s.Stats.VRFWrites++
				if s.tr != nil {
					s.tr.Emit(cycle, tracer.TypeReg, "retire", "vrf-write", fmt.Sprintf("reg=%d rob=%d", w.DestReg, w.RobIndex))
				}
			case rob.DestXRF:
				if s.xrf != nil {
					s.xrf.WriteBytes(w.DestReg, w.Data, w.ByteEnable)
				}
				s.Stats.XRFWrites++
				if s.tr != nil {
					s.tr.Emit(cycle, tracer.TypeReg, "retire", "xrf-write", fmt.Sprintf("reg=%d rob=%d", w.DestReg, w.RobIndex))
				}
			}
		}
	}

	// A trapping entry with no destination register never enters a group
	// above, but the caller still needs to observe it (e.g. to surface the
	// trap across the scalar/vector boundary), so it rides along as a
	// data-less, write-less entry.
	if trapWithoutDest != nil {
		writes = append(writes, WriteRequest{
			RobIndex: trapWithoutDest.RobIndex,
			InstID:   trapWithoutDest.InstID,
			TrapFlag: true,
		})
	}

	processed := s.rob.Retire(len(candidates), cycle)
	for i := 0; i < processed; i++ {
		s.dispatch.RetireInstruction(candidates[i].RobIndex)
	}

	return writes
}

// resolveWAW implements the later-write-always-wins byte-enable
// resolution for N simultaneous writers (N in 2,3,4) to the same
// register, in program order e0..e(N-1): resolved from the rear forward,
// composing the "already-combined later writes" mask at each step.
func resolveWAW(group []rob.Entry) []WriteRequest {
	n := len(group)
	out := make([]WriteRequest, n)
	for i := range group {
		out[i] = WriteRequest{
			RobIndex:   group[i].RobIndex,
			InstID:     group[i].InstID,
			DestReg:    group[i].DestReg,
			Data:       group[i].ResultData,
			ByteEnable: common.CloneBytes(group[i].ByteEnable),
			DestType:   group[i].DestType,
			TrapFlag:   group[i].TrapFlag,
		}
	}
	if n < 2 {
		return out
	}

	// laterCombined starts as the youngest entry's own enable and absorbs
	// each entry's enable as we walk backward, masking every older entry's
	// enable by "anything a younger entry already claimed".
	laterCombined := common.CloneBytes(out[n-1].ByteEnable)
	for i := n - 2; i >= 0; i-- {
		out[i].ByteEnable = common.MaskAndNot(out[i].ByteEnable, laterCombined)
		laterCombined = common.MaskOr(laterCombined, group[i].ByteEnable)
	}
	return out
}
