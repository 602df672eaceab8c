package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the numeric operation code stored in byte 0 of an instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode,OperandKind
const (
	OP_HLT     = Opcode(0)  // HLT
	OP_LOAD    = Opcode(1)  // LOAD
	OP_ADD     = Opcode(2)  // ADD
	OP_SUB     = Opcode(3)  // SUB
	OP_MUL     = Opcode(4)  // MUL
	OP_DIV     = Opcode(5)  // DIV
	OP_EQ      = Opcode(6)  // EQ
	OP_NEQ     = Opcode(7)  // NEQ
	OP_GT      = Opcode(8)  // GT
	OP_GEQ     = Opcode(9)  // GEQ
	OP_LE      = Opcode(10) // LE
	OP_LEQ     = Opcode(11) // LEQ
	OP_JEQ     = Opcode(12) // JEQ
	OP_JNEQ    = Opcode(13) // JNEQ
	OP_JMP     = Opcode(14) // JMP
	OP_JMPF    = Opcode(15) // JMPF
	OP_JMPB    = Opcode(16) // JMPB
	OP_INC     = Opcode(17) // INC
	OP_DEC     = Opcode(18) // DEC
	OP_ALOC    = Opcode(19) // ALOC
	OP_RSHT    = Opcode(20) // RSHT
	OP_LFST    = Opcode(21) // LFST
	OP_RROR    = Opcode(22) // RROR
	OP_LROR    = Opcode(23) // LROR
	OP_NOP     = Opcode(24) // NOP
	OP_INVALID = Opcode(25) // INVALID
)

// OperandKind is the expected kind of one operand slot.
type OperandKind int

const (
	OPERAND_REGISTER = OperandKind(0) // register
	OPERAND_INTEGER  = OperandKind(1) // integer
)

// Width returns the number of encoded bytes used by the operand kind.
func (kind OperandKind) Width() int {
	if kind == OPERAND_INTEGER {
		return 2
	}
	return 1
}

const (
	CODE_SIZE      = 4  // Encoded instruction width, in bytes.
	OPERAND_BYTES  = 3  // Operand bytes following the opcode byte.
	REGISTER_COUNT = 32 // Size of the register file.
)

const (
	opReg = OPERAND_REGISTER
	opInt = OPERAND_INTEGER
)

// arity is the ordered operand kind list for every assigned opcode.
var arity = [OP_INVALID][]OperandKind{
	OP_HLT:  nil,
	OP_LOAD: {opReg, opInt},
	OP_ADD:  {opReg, opReg, opReg},
	OP_SUB:  {opReg, opReg, opReg},
	OP_MUL:  {opReg, opReg, opReg},
	OP_DIV:  {opReg, opReg, opReg},
	OP_EQ:   {opReg, opReg},
	OP_NEQ:  {opReg, opReg},
	OP_GT:   {opReg, opReg},
	OP_GEQ:  {opReg, opReg},
	OP_LE:   {opReg, opReg},
	OP_LEQ:  {opReg, opReg},
	OP_JEQ:  {opReg},
	OP_JNEQ: {opReg},
	OP_JMP:  {opReg},
	OP_JMPF: {opReg},
	OP_JMPB: {opReg},
	OP_INC:  {opReg},
	OP_DEC:  {opReg},
	OP_ALOC: {opReg},
	OP_RSHT: nil,
	OP_LFST: nil,
	OP_RROR: nil,
	OP_LROR: nil,
	OP_NOP:  nil,
}

// mnemonicMap maps assembly mnemonics to opcodes.
var mnemonicMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, int(OP_INVALID))
	for op := OP_HLT; op < OP_INVALID; op++ {
		mnemonics[op.String()] = op
	}
	return mnemonics
}()

// LookupMnemonic returns the opcode for an assembly mnemonic.
func LookupMnemonic(word string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[word]
	return
}

// DecodeOpcode maps a raw byte to an opcode. Bytes with no assigned
// opcode decode to OP_INVALID.
func DecodeOpcode(b byte) Opcode {
	if b >= byte(OP_INVALID) {
		return OP_INVALID
	}
	return Opcode(b)
}

// Valid returns true if the opcode has an assigned numeric code.
func (op Opcode) Valid() bool {
	return op < OP_INVALID
}

// Arity returns the ordered operand kinds of the opcode.
func (op Opcode) Arity() []OperandKind {
	if !op.Valid() {
		return nil
	}
	return arity[op]
}

// Reserved returns true for opcodes that have a numeric code but no behavior.
func (op Opcode) Reserved() bool {
	return op >= OP_RSHT && op <= OP_LROR
}

// Code is one encoded instruction.
type Code [CODE_SIZE]byte

// MakeCode creates an instruction from an opcode and raw operand bytes.
// Missing operand bytes are zero padding.
func MakeCode(op Opcode, operands ...byte) (code Code) {
	code[0] = byte(op)
	copy(code[1:], operands)
	return
}

// MakeCodeRegImm creates an instruction with a register and a 16-bit immediate.
func MakeCodeRegImm(op Opcode, r uint8, imm uint16) Code {
	return MakeCode(op, r, byte(imm>>8), byte(imm))
}

// Opcode returns the decoded opcode.
func (code Code) Opcode() Opcode {
	return DecodeOpcode(code[0])
}

// Bytes returns the wire bytes of the instruction.
func (code Code) Bytes() []byte {
	return code[:]
}

// Operands decodes the operand bytes per the opcode's arity.
// Registers decode to their index, integers to their 16-bit value.
func (code Code) Operands() (values []int) {
	n := 1
	for _, kind := range code.Opcode().Arity() {
		switch kind {
		case OPERAND_REGISTER:
			values = append(values, int(code[n]))
		case OPERAND_INTEGER:
			values = append(values, int(code[n])<<8|int(code[n+1]))
		}
		n += kind.Width()
	}
	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	op := code.Opcode()
	if !op.Valid() {
		return fmt.Sprintf("%v 0x%02x", op, code[0])
	}

	words := []string{op.String()}
	kinds := op.Arity()
	for n, value := range code.Operands() {
		switch kinds[n] {
		case OPERAND_REGISTER:
			words = append(words, fmt.Sprintf("$%d", value))
		case OPERAND_INTEGER:
			words = append(words, fmt.Sprintf("#%d", value))
		}
	}

	return strings.Join(words, " ")
}
