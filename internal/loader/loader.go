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

// Package loader parses a program description JSON file into the
// configuration and memory images the simulator needs at startup: scalar
// and vector core sizing, the initial vector ConfigState, instruction and
// data memory images, and the run-loop/tracing knobs.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/probeum/rvvsim/common"
	"github.com/probeum/rvvsim/internal/rvv/config"
	"github.com/probeum/rvvsim/internal/rvv/isa"
)

// CoreConfig describes the scalar frontend's sizing. The vector backend
// does not consume these fields itself; they are carried through for a
// scalar-side consumer on the other side of the Scalar<->Vector Interface.
type CoreConfig struct {
	NumInstructionLanes int `json:"num_instruction_lanes"`
	NumRegisters        int `json:"num_registers"`
	NumReadPorts        int `json:"num_read_ports"`
	NumWritePorts       int `json:"num_write_ports"`
	ALUPeriod           int `json:"alu_period"`
	BRUPeriod           int `json:"bru_period"`
	NumBRUUnits         int `json:"num_bru_units"`
	MLUPeriod           int `json:"mlu_period"`
	DVUPeriod           int `json:"dvu_period"`
	LSUPeriod           int `json:"lsu_period"`
}

// VectorConfig sizes the RVV backend: whether it is present at all, its
// dispatch/issue width, and the vector register width in bits.
type VectorConfig struct {
	EnableRVV         bool `json:"enable_rvv"`
	VectorIssueWidth  int  `json:"vector_issue_width"`
	VLEN              int  `json:"vlen"`
}

// SimulationConfig drives the top-level run loop and tracer.
type SimulationConfig struct {
	MaxCycles     uint64 `json:"max_cycles"`
	EnableTracing bool   `json:"enable_tracing"`
	Verbose       bool   `json:"verbose"`
	TraceOutput   string `json:"trace_output"`
}

// RVVConfigJSON is the initial ConfigState in effect before the first
// vset* instruction executes.
type RVVConfigJSON struct {
	VL   uint32 `json:"vl"`
	SEW  uint8  `json:"sew"`
	LMUL uint8  `json:"lmul"`
}

// InstructionEntry is one instruction-memory slot. Binary accepts either a
// "0x..."-prefixed hex literal or a plain decimal string. An entry whose
// Type is "comment" is skipped and never reaches InstructionMemory.
type InstructionEntry struct {
	Address uint64 `json:"address"`
	Binary  string `json:"binary"`
	Type    string `json:"type,omitempty"`
}

// DataMemoryEntry seeds Values sequentially at Address, Address+4, ....
type DataMemoryEntry struct {
	Address uint64   `json:"address"`
	Values  []uint64 `json:"values"`
}

// programJSON mirrors the on-disk schema exactly; Program is the resolved
// form callers use (binary strings parsed to words, comments filtered).
type programJSON struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	CoreConfig       *CoreConfig        `json:"core_config"`
	VectorConfig     *VectorConfig      `json:"vector_config"`
	MemoryConfig     json.RawMessage    `json:"memory_config"`
	SimulationConfig *SimulationConfig  `json:"simulation_config"`
	RVVConfig        *RVVConfigJSON     `json:"rvv_config"`
	DataMemory       []DataMemoryEntry  `json:"data_memory"`
	Instructions     []InstructionEntry `json:"instructions"`
}

// Program is the parsed, ready-to-use program description.
type Program struct {
	Name        string
	Description string

	CoreConfig       CoreConfig
	VectorConfig     VectorConfig
	SimulationConfig SimulationConfig
	InitialVector    config.State

	// MemoryConfigRaw is carried through unparsed: the schema names the key
	// but does not fix its sub-keys, and nothing in this backend consumes
	// scalar data-memory sizing directly.
	MemoryConfigRaw json.RawMessage

	InstructionMemory map[uint64]uint32
	DataMemory        map[uint64]uint64

	// Instructions is InstructionMemory decoded into the vector register
	// fields the backend dispatches on, in ascending address order, each
	// assigned a unique InstID in that same order.
	Instructions []isa.Instruction
}

// decodeInstruction turns one 32-bit instruction word into an
// isa.Instruction: the word itself becomes Opcode (Categorize inspects
// its base-opcode/funct6 bits directly), and vs1/vs2/vd/vm are pulled
// from the fixed RVV register-field positions every vector instruction
// shares, regardless of the specific operation it encodes. cfg supplies
// the sew/lmul/vl in effect when the instruction was fetched.
func decodeInstruction(pc uint64, word uint32, instID uint64, cfg config.State) isa.Instruction {
	return isa.Instruction{
		PC:     pc,
		Opcode: word,
		Vs1:    uint8((word >> 15) & 0x1F),
		Vs2:    uint8((word >> 20) & 0x1F),
		Vd:     uint8((word >> 7) & 0x1F),
		Vm:     (word>>25)&0x1 == 0,
		SEW:    cfg.SEW,
		LMUL:   cfg.LMUL,
		VL:     cfg.VL,
		InstID: instID,
	}
}

// Load reads and parses path. Any failure is a ProgramLoadError: fatal at
// startup, wrapped in common.ErrProgramLoad.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProgramLoad, err)
	}
	defer f.Close()

	var raw programJSON
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProgramLoad, err)
	}
	return resolve(&raw)
}

func resolve(raw *programJSON) (*Program, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: %v", common.ErrProgramLoad, common.ValidateNil(nil, "name"))
	}

	p := &Program{
		Name:              raw.Name,
		Description:       raw.Description,
		MemoryConfigRaw:   raw.MemoryConfig,
		InstructionMemory: make(map[uint64]uint32, len(raw.Instructions)),
		DataMemory:        make(map[uint64]uint64),
	}

	if raw.CoreConfig != nil {
		p.CoreConfig = *raw.CoreConfig
	}
	if raw.VectorConfig != nil {
		p.VectorConfig = *raw.VectorConfig
	}
	if raw.SimulationConfig != nil {
		p.SimulationConfig = *raw.SimulationConfig
	}
	if raw.RVVConfig != nil {
		p.InitialVector = config.State{
			VL:   raw.RVVConfig.VL,
			SEW:  config.SEW(raw.RVVConfig.SEW),
			LMUL: config.LMUL(raw.RVVConfig.LMUL),
		}
	} else {
		p.InitialVector = config.Default()
	}

	for _, ie := range raw.Instructions {
		if ie.Type == "comment" {
			continue
		}
		word, err := parseBinary(ie.Binary)
		if err != nil {
			return nil, fmt.Errorf("%w: instruction at address %#x: %v", common.ErrProgramLoad, ie.Address, err)
		}
		p.InstructionMemory[ie.Address] = word
	}

	addrs := make([]uint64, 0, len(p.InstructionMemory))
	for addr := range p.InstructionMemory {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	p.Instructions = make([]isa.Instruction, 0, len(addrs))
	for i, addr := range addrs {
		p.Instructions = append(p.Instructions, decodeInstruction(addr, p.InstructionMemory[addr], uint64(i), p.InitialVector))
	}

	for _, dm := range raw.DataMemory {
		addr := dm.Address
		for _, v := range dm.Values {
			p.DataMemory[addr] = v
			addr += 4
		}
	}

	return p, nil
}

// parseBinary accepts a "0x"-prefixed hex literal or a plain decimal
// string and returns the 32-bit instruction word it encodes.
func parseBinary(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty binary field")
	}
	base := 10
	trimmed := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		trimmed = s[2:]
	}
	v, err := strconv.ParseUint(trimmed, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid binary literal %q: %v", s, err)
	}
	return uint32(v), nil
}
