package cpu

import (
	"iter"
)

// Statement is one assembled source statement.
type Statement struct {
	LineNo int    // Source line of the opcode.
	Pc     int    // Byte offset of the code in the bytecode image.
	Text   string // Source line text.
	Code   Code
}

// Program is an ordered list of assembled statements.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int // Byte index within the statement's code.
}

// Debug finds the statement covering a program counter.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, stmt := range prog.Statements {
		if pc >= stmt.Pc && pc < stmt.Pc+CODE_SIZE {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     pc - stmt.Pc,
			}
			break
		}
	}

	return
}

// Len returns the size of the program's bytecode image.
func (prog *Program) Len() int {
	return len(prog.Statements) * CODE_SIZE
}

// Binary returns the bytecode image.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, prog.Len())
	for _, code := range prog.Codes() {
		bins = append(bins, code.Bytes()...)
	}

	return
}

// Codes iterates over the program counter and code of each statement.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for _, stmt := range prog.Statements {
			if !yield(stmt.Pc, stmt.Code) {
				return
			}
		}
	}
}

// Extend appends the statements of another program.
func (prog *Program) Extend(other *Program) {
	prog.Statements = append(prog.Statements, other.Statements...)
}

// Disassemble iterates over the offset and code of every whole
// instruction in a bytecode image. A trailing partial instruction is
// zero padded.
func Disassemble(bytecode []byte) iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for pc := 0; pc < len(bytecode); pc += CODE_SIZE {
			var code Code
			copy(code[:], bytecode[pc:])
			if !yield(pc, code) {
				return
			}
		}
	}
}
