package cpu

import (
	"cmp"
	"errors"
	"slices"

	"github.com/ezrec/spectrum/translate"
)

var f = translate.From

var (
	// Lexical errors
	ErrMalformedInteger  = errors.New(f("malformed integer"))
	ErrMalformedRegister = errors.New(f("malformed register index"))
	ErrUnknownMnemonic   = errors.New(f("unrecognized mnemonic"))

	// Parse errors
	ErrTruncated    = errors.New(f("truncated instruction"))
	ErrOperandKind  = errors.New(f("operand kind mismatch"))
	ErrStrayOperand = errors.New(f("operand without operation"))

	// Encode errors
	ErrOpcodePosition     = errors.New(f("opcode token in operand position"))
	ErrOperandUnsupported = errors.New(f("unsupported operand kind"))
	ErrOperandCount       = errors.New(f("operand count mismatch"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))

	// Runtime faults
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrRegisterRange  = errors.New(f("register index out of range"))
	ErrHeapRange      = errors.New(f("heap access out of range"))
	ErrPcRange        = errors.New(f("program counter out of range"))
	ErrJumpUnderflow  = errors.New(f("backward jump underflow"))
	ErrOpcodeUnmapped = errors.New(f("unmapped opcode"))

	// Run termination
	ErrExhausted = errors.New(f("end of bytecode"))
	ErrHalted    = errors.New(f("halted"))
)

// ErrLexical is a scanning error at a source location.
type ErrLexical struct {
	Line   int
	Column int
	Text   string
	Err    error
}

func (err *ErrLexical) Error() string {
	return f("line %d column %d '%v' %v", err.Line, err.Column, err.Text, err.Err)
}

func (err *ErrLexical) Unwrap() error {
	return err.Err
}

// Location returns the source line and column of the error.
func (err *ErrLexical) Location() (line, column int) {
	return err.Line, err.Column
}

// ErrParse is an instruction grouping error.
type ErrParse struct {
	Line     int
	Column   int
	Opcode   Opcode
	Position int       // Operand slot, starting at 0.
	Found    TokenKind // Token kind found in the slot.
	Err      error
}

func (err *ErrParse) Error() string {
	if err.Err == ErrStrayOperand {
		return f("line %d column %d %v %v", err.Line, err.Column, err.Found, err.Err)
	}
	return f("line %d column %d %v operand %d %v (found %v)", err.Line, err.Column, err.Opcode, err.Position+1, err.Err, err.Found)
}

func (err *ErrParse) Unwrap() error {
	return err.Err
}

// Location returns the source line and column of the error.
func (err *ErrParse) Location() (line, column int) {
	return err.Line, err.Column
}

// ErrEncode is an instruction encoding error.
type ErrEncode struct {
	Line     int
	Column   int
	Opcode   Opcode
	Position int // Token slot; 0 is the opcode, 1.. are the operands.
	Err      error
}

func (err *ErrEncode) Error() string {
	return f("line %d column %d %v slot %d %v", err.Line, err.Column, err.Opcode, err.Position, err.Err)
}

func (err *ErrEncode) Unwrap() error {
	return err.Err
}

// Location returns the source line and column of the error.
func (err *ErrEncode) Location() (line, column int) {
	return err.Line, err.Column
}

// Fault is a fatal runtime condition.
type Fault struct {
	Pc     int    // Offset of the faulting instruction.
	Opcode Opcode // Decoded opcode of the faulting instruction.
	Err    error
}

func (fault *Fault) Error() string {
	return f("fault at pc %d (%v) %v", fault.Pc, fault.Opcode, fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}

// located is implemented by the assembly diagnostics.
type located interface {
	Location() (line, column int)
}

// Diagnostics splits a joined assembly error into its diagnostics.
func Diagnostics(err error) (diags []error) {
	if err == nil {
		return
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	for _, e := range joined.Unwrap() {
		diags = append(diags, Diagnostics(e)...)
	}

	return
}

// sortDiagnostics orders diagnostics by source location.
func sortDiagnostics(diags []error) {
	slices.SortStableFunc(diags, func(a, b error) int {
		var la, ca, lb, cb int
		if loc, ok := a.(located); ok {
			la, ca = loc.Location()
		}
		if loc, ok := b.(located); ok {
			lb, cb = loc.Location()
		}
		if la != lb {
			return cmp.Compare(la, lb)
		}
		return cmp.Compare(ca, cb)
	})
}
