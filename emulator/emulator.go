// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/ezrec/spectrum/cpu"
	"github.com/ezrec/spectrum/internal"
)

const (
	MAX_TICKS = 1 << 20 // Default step budget of a single Run.
)

var _emulator_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", cpu.REGISTER_COUNT),
	"CODE_SIZE":      fmt.Sprintf("%v", cpu.CODE_SIZE),
	"HEAP_LIMIT":     fmt.Sprintf("%v", cpu.HEAP_LIMIT),
	"MAX_TICKS":      fmt.Sprintf("%v", MAX_TICKS),
}

// Emulator state. CPU plus the accumulated program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Logger   *slog.Logger // Log destination; slog.Default() if nil.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of everything loaded so far.
	MaxTicks int          // Step budget of a single Run; unlimited if zero.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(),
		Program:  &cpu.Program{},
		MaxTicks: MAX_TICKS,
	}

	return
}

func (emu *Emulator) logger() *slog.Logger {
	if emu.Logger != nil {
		return emu.Logger
	}
	return slog.Default()
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	state := map[string]string{
		"PC":       strconv.Itoa(emu.Cpu.Pc),
		"LINENO":   strconv.Itoa(emu.LineNo()),
		"HEAP_LEN": strconv.Itoa(len(emu.Cpu.Heap)),
	}

	return internal.IterSeq2Concat(maps.All(_emulator_defines), maps.All(state))
}

// Registers iterates over register index and value.
func (emu *Emulator) Registers() iter.Seq2[int, int32] {
	return func(yield func(int, int32) bool) {
		for n, value := range emu.Cpu.Register {
			if !yield(n, value) {
				return
			}
		}
	}
}

// Reset clears the CPU state, the bytecode, and the program listing.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset()
	emu.Cpu.Load(nil, false)
	emu.Program = &cpu.Program{}
}

// Assemble assembles text and appends it to the loaded program.
//
// If the text has diagnostics, nothing is loaded unless partial is
// set, in which case the statements that assembled are loaded. The
// diagnostics are returned in either case.
func (emu *Emulator) Assemble(text string, partial bool) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Logger:  emu.Logger,
		Origin:  len(emu.Cpu.Bytecode),
	}

	prog, err = asm.Assemble(text)
	if err != nil && !partial {
		return
	}

	emu.Program.Extend(prog)
	emu.Cpu.Load(prog.Binary(), true)

	return
}

// LoadHex appends one raw instruction, written as four hex bytes
// separated by whitespace ("01 01 01 f4").
func (emu *Emulator) LoadHex(line string) (err error) {
	words := strings.Fields(line)
	if len(words) != cpu.CODE_SIZE {
		err = &ErrHex{Text: line, Err: ErrHexCount}
		return
	}

	var code cpu.Code
	for n, word := range words {
		var value uint64
		value, err = strconv.ParseUint(word, 16, 8)
		if err != nil || len(word) > 2 {
			err = &ErrHex{Text: word, Err: ErrHexFormat}
			return
		}
		code[n] = byte(value)
	}

	stmt := cpu.Statement{
		Pc:   len(emu.Cpu.Bytecode),
		Text: strings.Join(words, " "),
		Code: code,
	}
	emu.Program.Statements = append(emu.Program.Statements, stmt)
	emu.Cpu.Load(code.Bytes(), true)

	if emu.Verbose {
		emu.logger().Debug("hex", "pc", stmt.Pc, "code", code.String())
	}

	return
}

// LineNo returns the source line number of the opcode at the program
// counter, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Code returns the instruction code at the program counter. Bytes past
// the end of the bytecode read as zero.
func (emu *Emulator) Code() (code cpu.Code) {
	pc := emu.Cpu.Pc
	if pc < 0 || pc >= len(emu.Cpu.Bytecode) {
		return
	}

	copy(code[:], emu.Cpu.Bytecode[pc:])
	return
}

// Run executes from the current program counter, until the program
// halts, faults, runs off the end of the bytecode, or the step budget
// is spent. A spent budget returns REASON_EXHAUSTED with ErrTickLimit.
func (emu *Emulator) Run() (reason cpu.Reason, err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Cpu.Pc, Err: err}
		}
	}()

	for ticks := 0; ; ticks++ {
		if emu.MaxTicks > 0 && ticks >= emu.MaxTicks {
			reason = cpu.REASON_EXHAUSTED
			err = ErrTickLimit
			return
		}

		err = emu.Cpu.Tick()
		switch {
		case err == nil:
			continue
		case errors.Is(err, cpu.ErrExhausted):
			reason, err = cpu.REASON_EXHAUSTED, nil
		case errors.Is(err, cpu.ErrHalted):
			reason, err = cpu.REASON_HALTED, nil
		default:
			reason = cpu.REASON_FAULTED
		}

		if emu.Verbose {
			emu.logger().Debug("run", "reason", reason, "pc", emu.Cpu.Pc, "ticks", ticks+1)
		}
		return
	}
}
