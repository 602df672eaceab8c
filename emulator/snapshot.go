package emulator

import (
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/spectrum/internal"
)

// Snapshot is a point in time copy of the VM state.
type Snapshot struct {
	Pc        int           `yaml:"pc"`
	LineNo    int           `yaml:"lineno,omitempty"`
	Ticks     int           `yaml:"ticks"`
	Cond      bool          `yaml:"cond"`
	Remainder uint32        `yaml:"remainder"`
	Registers map[int]int32 `yaml:"registers,omitempty"` // Non-zero registers only.
	HeapLen   int           `yaml:"heap_len"`
	CodeLen   int           `yaml:"code_len"`
}

// Snapshot captures the current VM state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	nonzero := internal.IterSeq2Filter(emu.Registers(), func(_ int, value int32) bool {
		return value != 0
	})

	snap = Snapshot{
		Pc:        emu.Cpu.Pc,
		LineNo:    emu.LineNo(),
		Ticks:     emu.Cpu.Ticks,
		Cond:      emu.Cpu.Cond,
		Remainder: emu.Cpu.Remainder,
		Registers: maps.Collect(nonzero),
		HeapLen:   len(emu.Cpu.Heap),
		CodeLen:   len(emu.Cpu.Bytecode),
	}

	if len(snap.Registers) == 0 {
		snap.Registers = nil
	}

	return
}

// YAML renders the snapshot as a YAML document.
func (snap Snapshot) YAML() (data []byte, err error) {
	return yaml.Marshal(&snap)
}

// ParseSnapshot reads a snapshot from a YAML document.
func ParseSnapshot(data []byte) (snap Snapshot, err error) {
	err = yaml.Unmarshal(data, &snap)
	return
}
