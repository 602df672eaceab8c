package cpu

import (
	"fmt"
)

// TokenKind is the lexical class of a token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_ERROR     = TokenKind(0) // error
	TOKEN_OPERATION = TokenKind(1) // operation
	TOKEN_REGISTER  = TokenKind(2) // register
	TOKEN_INTEGER   = TokenKind(3) // integer
	TOKEN_EOF       = TokenKind(4) // end of input
)

// Operand returns the operand kind a token kind satisfies.
func (kind TokenKind) Operand() (operand OperandKind, ok bool) {
	switch kind {
	case TOKEN_REGISTER:
		return OPERAND_REGISTER, true
	case TOKEN_INTEGER:
		return OPERAND_INTEGER, true
	}
	return
}

// Span locates a token in the source text.
type Span struct {
	Offset int // Byte offset of the first character.
	Length int // Length in bytes.
	Line   int // Line number, starting at 1.
	Column int // Column of the first character, starting at 1.
}

// Token is a single lexical unit.
type Token struct {
	Kind     TokenKind
	Opcode   Opcode // Set for TOKEN_OPERATION.
	Register uint8  // Set for TOKEN_REGISTER.
	Value    int32  // Set for TOKEN_INTEGER.
	Span
}

// String returns the source form of the token.
func (tok Token) String() string {
	switch tok.Kind {
	case TOKEN_OPERATION:
		return tok.Opcode.String()
	case TOKEN_REGISTER:
		return fmt.Sprintf("$%d", tok.Register)
	case TOKEN_INTEGER:
		return fmt.Sprintf("#%d", tok.Value)
	}
	return fmt.Sprintf("<%v>", tok.Kind)
}
