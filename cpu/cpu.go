package cpu

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

const (
	HEAP_LIMIT = 16 << 20 // Default maximum heap size, in bytes.
)

// Reason is why a run stopped.
type Reason int

//go:generate go tool stringer -linecomment -type=Reason
const (
	REASON_EXHAUSTED = Reason(0) // exhausted
	REASON_HALTED    = Reason(1) // halted
	REASON_FAULTED   = Reason(2) // faulted
)

// Cpu is the execution engine state.
type Cpu struct {
	Verbose bool         // Set to enable verbose logging.
	Logger  *slog.Logger // Log destination; slog.Default() if nil.

	Register  [REGISTER_COUNT]int32 // Register bank.
	Cond      bool                  // Result of the last comparison.
	Remainder uint32                // Remainder of the last division.
	Heap      []byte                // Heap, resized by ALOC.
	Pc        int                   // Byte offset of the next opcode.
	Bytecode  []byte                // Program image.

	HeapLimit int // Maximum heap size; no limit if zero.
	Ticks     int // Executed instruction counter.
}

// NewCpu creates a new CPU with an empty program.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		HeapLimit: HEAP_LIMIT,
	}

	return
}

func (cpu *Cpu) logger() *slog.Logger {
	if cpu.Logger != nil {
		return cpu.Logger
	}
	return slog.Default()
}

// Load installs a program image. If extend is set, the image is
// appended to the current one and the program counter is untouched.
// Otherwise the image replaces the current one, and execution restarts
// at offset 0.
func (cpu *Cpu) Load(bytecode []byte, extend bool) {
	if extend {
		cpu.Bytecode = append(cpu.Bytecode, bytecode...)
		return
	}

	cpu.Bytecode = slices.Clone(bytecode)
	cpu.Pc = 0
}

// Reset the CPU state.
// - Clears the registers, flags, and heap.
// - Zeros the tick counter.
// - Rewinds the program counter. The program image is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Cond = false
	cpu.Remainder = 0
	cpu.Heap = nil
	cpu.Pc = 0
	cpu.Ticks = 0
}

// Peek returns the byte at a heap address.
func (cpu *Cpu) Peek(addr int) (value byte, err error) {
	if addr < 0 || addr >= len(cpu.Heap) {
		err = ErrHeapRange
		return
	}

	value = cpu.Heap[addr]
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "   pc: %d\n", cpu.Pc)
	fmt.Fprintf(&text, " cond: %v\n", cpu.Cond)
	fmt.Fprintf(&text, "  rem: %d\n", cpu.Remainder)
	fmt.Fprintf(&text, " heap: %d\n", len(cpu.Heap))
	for n, value := range cpu.Register {
		fmt.Fprintf(&text, "  r%02d: %d\n", n, value)
	}

	return text.String()
}

// fetch reads operand bytes following an opcode.
type fetch struct {
	bytecode []byte
	pc       int
}

func (fe *fetch) byte8() (value uint8, err error) {
	if fe.pc < 0 || fe.pc >= len(fe.bytecode) {
		err = ErrPcRange
		return
	}

	value = fe.bytecode[fe.pc]
	fe.pc++
	return
}

func (fe *fetch) word16() (value uint16, err error) {
	hi, err := fe.byte8()
	if err != nil {
		return
	}
	lo, err := fe.byte8()
	if err != nil {
		return
	}

	value = uint16(hi)<<8 | uint16(lo)
	return
}

// register reads a register index operand.
func (fe *fetch) register() (index uint8, err error) {
	index, err = fe.byte8()
	if err != nil {
		return
	}

	if int(index) >= REGISTER_COUNT {
		err = ErrRegisterRange
	}
	return
}

// registers reads consecutive register index operands.
func (fe *fetch) registers(count int) (index []uint8, err error) {
	index = make([]uint8, count)
	for n := range index {
		index[n], err = fe.register()
		if err != nil {
			return
		}
	}
	return
}

// pad skips padding bytes.
func (fe *fetch) pad(count int) (err error) {
	if fe.pc+count > len(fe.bytecode) {
		err = ErrPcRange
		return
	}

	fe.pc += count
	return
}

// Tick executes a single instruction.
//
// Returns ErrExhausted when the program counter is at or past the end
// of the bytecode, ErrHalted when a halting opcode completed, or a
// *Fault. On a fault, the program counter still addresses the faulting
// instruction and no state was modified.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Pc >= len(cpu.Bytecode) {
		err = ErrExhausted
		return
	}

	pc := cpu.Pc
	op := OP_INVALID
	if pc >= 0 {
		op = DecodeOpcode(cpu.Bytecode[pc])
	}

	defer func() {
		if err != nil && err != ErrHalted {
			err = &Fault{Pc: pc, Opcode: op, Err: err}
		}
	}()

	if pc < 0 {
		err = ErrPcRange
		return
	}

	if cpu.Verbose {
		var code Code
		copy(code[:], cpu.Bytecode[pc:])
		cpu.logger().Debug("cpu", "pc", pc, "code", code.String())
	}

	fe := &fetch{bytecode: cpu.Bytecode, pc: pc + 1}

	next_pc, err := cpu.execute(op, fe)
	if err != nil && err != ErrHalted {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// execute runs one decoded opcode, and returns the next program counter.
func (cpu *Cpu) execute(op Opcode, fe *fetch) (next_pc int, err error) {
	switch op {
	case OP_LOAD:
		var dst uint8
		var value uint16
		dst, err = fe.register()
		if err != nil {
			return
		}
		value, err = fe.word16()
		if err != nil {
			return
		}
		cpu.Register[dst] = int32(value)
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		var regs []uint8
		regs, err = fe.registers(3)
		if err != nil {
			return
		}
		err = cpu.doArith(op, cpu.Register[regs[0]], cpu.Register[regs[1]], regs[2])
		if err != nil {
			return
		}
	case OP_EQ, OP_NEQ, OP_GT, OP_GEQ, OP_LE, OP_LEQ:
		var regs []uint8
		regs, err = fe.registers(2)
		if err != nil {
			return
		}
		err = fe.pad(1)
		if err != nil {
			return
		}
		cpu.Cond = doCompare(op, cpu.Register[regs[0]], cpu.Register[regs[1]])
	case OP_JMP, OP_JMPF, OP_JMPB, OP_JEQ, OP_JNEQ:
		var r uint8
		r, err = fe.register()
		if err != nil {
			return
		}
		err = fe.pad(2)
		if err != nil {
			return
		}
		next_pc, err = cpu.doJump(op, fe.pc, int64(cpu.Register[r]))
		return
	case OP_INC, OP_DEC:
		var r uint8
		r, err = fe.register()
		if err != nil {
			return
		}
		err = fe.pad(2)
		if err != nil {
			return
		}
		if op == OP_INC {
			cpu.Register[r]++
		} else {
			cpu.Register[r]--
		}
	case OP_ALOC:
		var r uint8
		r, err = fe.register()
		if err != nil {
			return
		}
		err = fe.pad(2)
		if err != nil {
			return
		}
		err = cpu.doAlloc(int(cpu.Register[r]))
		if err != nil {
			return
		}
	case OP_HLT, OP_NOP, OP_RSHT, OP_LFST, OP_RROR, OP_LROR:
		err = fe.pad(OPERAND_BYTES)
		if err != nil {
			return
		}
		err = ErrHalted
	default:
		err = ErrOpcodeUnmapped
		return
	}

	next_pc = fe.pc
	return
}

// doArith performs an arithmetic opcode into the dst register.
// A zero divisor leaves the dst register and remainder untouched.
func (cpu *Cpu) doArith(op Opcode, a, b int32, dst uint8) (err error) {
	switch op {
	case OP_ADD:
		cpu.Register[dst] = a + b
	case OP_SUB:
		cpu.Register[dst] = a - b
	case OP_MUL:
		cpu.Register[dst] = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Remainder = uint32(a % b)
		cpu.Register[dst] = a / b
	}

	return
}

// doCompare evaluates a relational opcode.
func doCompare(op Opcode, a, b int32) (cond bool) {
	switch op {
	case OP_EQ:
		cond = a == b
	case OP_NEQ:
		cond = a != b
	case OP_GT:
		cond = a > b
	case OP_GEQ:
		cond = a >= b
	case OP_LE:
		cond = a < b
	case OP_LEQ:
		cond = a <= b
	}

	return
}

// doJump computes the program counter after a jump opcode. pc is the
// offset of the instruction following the jump.
func (cpu *Cpu) doJump(op Opcode, pc int, value int64) (next_pc int, err error) {
	target := int64(pc)

	switch op {
	case OP_JMP:
		target = value
	case OP_JMPF:
		target = int64(pc) + value
	case OP_JMPB:
		target = int64(pc) - value
		if target < 0 {
			err = ErrJumpUnderflow
			return
		}
	case OP_JEQ:
		if cpu.Cond {
			target = value
		}
	case OP_JNEQ:
		if !cpu.Cond {
			target = value
		}
	}

	if target < 0 {
		err = ErrPcRange
		return
	}

	next_pc = int(target)
	return
}

// doAlloc resizes the heap, zero filling new space.
func (cpu *Cpu) doAlloc(size int) (err error) {
	if size < 0 || (cpu.HeapLimit > 0 && size > cpu.HeapLimit) {
		err = ErrHeapRange
		return
	}

	if size <= len(cpu.Heap) {
		cpu.Heap = cpu.Heap[:size]
		return
	}

	cpu.Heap = append(cpu.Heap, make([]byte, size-len(cpu.Heap))...)
	return
}

// Run executes from the current program counter until the program
// halts, faults, or runs off the end of the bytecode.
func (cpu *Cpu) Run() (reason Reason, err error) {
	for {
		err = cpu.Tick()
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrExhausted):
			return REASON_EXHAUSTED, nil
		case errors.Is(err, ErrHalted):
			return REASON_HALTED, nil
		default:
			return REASON_FAULTED, err
		}
	}
}
