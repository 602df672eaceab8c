package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal(0, len(prog.Binary()))
}

func TestAssemblerLoad(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Assemble("LOAD $1 #500")
	assert.NoError(err)

	expected := []Statement{
		{LineNo: 1, Pc: 0, Text: "LOAD $1 #500", Code: Code{1, 1, 0x01, 0xf4}},
	}
	assert.Equal(expected, prog.Statements)
	assert.Equal([]byte{1, 1, 0x01, 0xf4}, prog.Binary())
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Origin: 8}

	program := []string{
		"LOAD $0 #10   ; dividend",
		"",
		"  LOAD $1 #3",
		"DIV $0 $1 $2",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Statement{
		{LineNo: 1, Pc: 8, Text: "LOAD $0 #10   ; dividend", Code: Code{1, 0, 0, 10}},
		{LineNo: 3, Pc: 12, Text: "LOAD $1 #3", Code: Code{1, 1, 0, 3}},
		{LineNo: 4, Pc: 16, Text: "DIV $0 $1 $2", Code: Code{5, 0, 1, 2}},
		{LineNo: 5, Pc: 20, Text: "HLT", Code: Code{0, 0, 0, 0}},
	}
	assert.Equal(expected, prog.Statements)
	assert.Equal(16, len(prog.Binary()))
	assert.Equal(16, prog.Len())
}

func TestAssemblerInstructionWidth(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	for op := OP_HLT; op < OP_INVALID; op++ {
		text := strings.Join(append([]string{op.String()}, sampleOperands(op)...), " ")
		prog, err := asm.Assemble(text + "\n" + text)
		assert.NoError(err, text)

		bins := prog.Binary()
		assert.Equal(2*CODE_SIZE, len(bins), text)
		assert.Equal(byte(op), bins[0], text)
		assert.Equal(byte(op), bins[CODE_SIZE], text)
	}
}

func TestAssemblerDiagnostics(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LOAD $1 #500",
		"LOAD $2 #abc",
		"LOAD $3 #-1",
		"ADD $1 $2",
		"LOAD $4 #7",
	}

	prog, err := asm.Assemble(strings.Join(program, "\n"))
	assert.Error(err)

	diags := Diagnostics(err)
	if assert.Equal(3, len(diags)) {
		assert.ErrorIs(diags[0], ErrMalformedInteger)
		assert.ErrorIs(diags[1], ErrImmediateRange)
		assert.ErrorIs(diags[2], ErrOperandKind)
	}

	// Valid statements still assemble, back to back.
	var lines []int
	var pcs []int
	for _, stmt := range prog.Statements {
		lines = append(lines, stmt.LineNo)
		pcs = append(pcs, stmt.Pc)
	}
	assert.Equal([]int{1, 5}, lines)
	assert.Equal([]int{0, 4}, pcs)
}

func TestAssemblerDiagnosticsContinue(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Assemble("LOAD $1 #\nLOAD $2 #7\nLOAD $3 #8")
	assert.ErrorIs(err, ErrMalformedInteger)

	if assert.Equal(2, len(prog.Statements)) {
		assert.Equal(2, prog.Statements[0].LineNo)
		assert.Equal(0, prog.Statements[0].Pc)
		assert.Equal(3, prog.Statements[1].LineNo)
		assert.Equal(4, prog.Statements[1].Pc)
	}
}
