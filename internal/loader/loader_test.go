package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/probeum/rvvsim/internal/rvv/config"
)

func writeProgram(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write test fixture: %v", err)
	}
	return path
}

const minimalProgram = `{
  "name": "smoke",
  "description": "one add",
  "vector_config": {"enable_rvv": true, "vector_issue_width": 4, "vlen": 256},
  "simulation_config": {"max_cycles": 100, "enable_tracing": false, "verbose": false},
  "rvv_config": {"vl": 8, "sew": 0, "lmul": 0},
  "data_memory": [{"address": 0, "values": [1, 2, 3]}],
  "instructions": [
    {"address": 0, "binary": "0x00000001"},
    {"address": 4, "binary": "5", "type": "comment"},
    {"address": 8, "binary": "17"}
  ]
}`

func TestLoadParsesAllTopLevelSections(t *testing.T) {
	path := writeProgram(t, minimalProgram)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "smoke" || p.Description != "one add" {
		t.Fatalf("got name/description %q/%q", p.Name, p.Description)
	}
	if !p.VectorConfig.EnableRVV || p.VectorConfig.VLEN != 256 || p.VectorConfig.VectorIssueWidth != 4 {
		t.Fatalf("got vector config %+v", p.VectorConfig)
	}
	if p.SimulationConfig.MaxCycles != 100 {
		t.Fatalf("got max_cycles %d, want 100", p.SimulationConfig.MaxCycles)
	}
	want := config.State{VL: 8, SEW: config.SEW8, LMUL: config.LMUL1}
	if p.InitialVector != want {
		t.Fatalf("got initial vector state %+v, want %+v", p.InitialVector, want)
	}
}

func TestLoadParsesHexAndDecimalBinary(t *testing.T) {
	path := writeProgram(t, minimalProgram)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.InstructionMemory[0] != 1 {
		t.Fatalf("got instruction[0]=%#x, want 1 (from 0x00000001)", p.InstructionMemory[0])
	}
	if p.InstructionMemory[8] != 17 {
		t.Fatalf("got instruction[8]=%d, want 17 (decimal)", p.InstructionMemory[8])
	}
}

func TestLoadSkipsCommentEntries(t *testing.T) {
	path := writeProgram(t, minimalProgram)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.InstructionMemory[4]; ok {
		t.Fatalf("expected comment entry at address 4 to be skipped")
	}
	if len(p.InstructionMemory) != 2 {
		t.Fatalf("expected 2 real instructions, got %d", len(p.InstructionMemory))
	}
}

func TestLoadDecodesInstructionsInAddressOrderWithFixedRegisterFields(t *testing.T) {
	// 0x02208500 encodes vs2=2 (bits 24:20), vs1=1 (bits 19:15), vd=10 (bits 11:7), vm=1 (bit 25, unmasked).
	path := writeProgram(t, `{
		"name": "decode-order",
		"rvv_config": {"vl": 4, "sew": 1, "lmul": 0},
		"instructions": [
			{"address": 8, "binary": "0x02208500"},
			{"address": 0, "binary": "0x02208500"}
		]
	}`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Instructions) != 2 {
		t.Fatalf("expected 2 decoded instructions, got %d", len(p.Instructions))
	}
	if p.Instructions[0].PC != 0 || p.Instructions[1].PC != 8 {
		t.Fatalf("expected ascending address order, got PCs %d, %d", p.Instructions[0].PC, p.Instructions[1].PC)
	}
	if p.Instructions[0].InstID != 0 || p.Instructions[1].InstID != 1 {
		t.Fatalf("expected InstIDs assigned in address order, got %d, %d", p.Instructions[0].InstID, p.Instructions[1].InstID)
	}
	first := p.Instructions[0]
	if first.Vs1 != 1 || first.Vs2 != 2 || first.Vd != 10 || first.Vm {
		t.Fatalf("got decoded fields %+v, want vs1=1 vs2=2 vd=10 vm=false (unmasked)", first)
	}
	if first.SEW != config.SEW16 || first.LMUL != config.LMUL1 || first.VL != 4 {
		t.Fatalf("expected decoded instructions to carry the program's rvv_config, got %+v", first)
	}
}

func TestLoadSeedsDataMemorySequentially(t *testing.T) {
	path := writeProgram(t, minimalProgram)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.DataMemory[0] != 1 || p.DataMemory[4] != 2 || p.DataMemory[8] != 3 {
		t.Fatalf("got data memory %+v, want sequential words at +0/+4/+8", p.DataMemory)
	}
}

func TestLoadDefaultsVectorConfigStateWhenSectionAbsent(t *testing.T) {
	path := writeProgram(t, `{"name": "no-rvv-config", "instructions": []}`)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.InitialVector != config.Default() {
		t.Fatalf("got %+v, want config.Default()", p.InitialVector)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeProgram(t, `{"name": "broken",`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := writeProgram(t, `{"instructions": []}`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected an error when name is absent")
	}
}

func TestLoadRejectsInvalidBinaryLiteral(t *testing.T) {
	path := writeProgram(t, `{"name": "bad-binary", "instructions": [{"address": 0, "binary": "not-a-number"}]}`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected an error for an unparseable binary literal")
	}
}
