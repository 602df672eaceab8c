package cpu

// Encode converts a parsed instruction into its 4 byte form.
//
// Byte 0 is the opcode. Register operands take one byte, integer
// operands take two bytes, most significant first. Unused operand
// bytes are zero.
func Encode(inst Instruction) (code Code, err error) {
	op := inst.Opcode

	fail := func(position int, tok Token, e error) (Code, error) {
		return Code{}, &ErrEncode{
			Line:     tok.Line,
			Column:   tok.Column,
			Opcode:   op.Opcode,
			Position: position,
			Err:      e,
		}
	}

	if op.Kind != TOKEN_OPERATION {
		return fail(0, op, ErrOpcodePosition)
	}
	if !op.Opcode.Valid() {
		return fail(0, op, ErrOpcodeInvalid)
	}

	for n, tok := range inst.Operands {
		switch tok.Kind {
		case TOKEN_REGISTER, TOKEN_INTEGER:
		case TOKEN_OPERATION:
			return fail(n+1, tok, ErrOpcodePosition)
		default:
			return fail(n+1, tok, ErrOperandUnsupported)
		}
	}

	kinds := op.Opcode.Arity()
	if len(inst.Operands) != len(kinds) {
		return fail(len(inst.Operands), op, ErrOperandCount)
	}

	code[0] = byte(op.Opcode)
	n := 1
	for i, tok := range inst.Operands {
		found, _ := tok.Kind.Operand()
		if found != kinds[i] {
			return fail(i+1, tok, ErrOperandKind)
		}

		switch found {
		case OPERAND_REGISTER:
			code[n] = tok.Register
		case OPERAND_INTEGER:
			if tok.Value < 0 || tok.Value > 0xffff {
				return fail(i+1, tok, ErrImmediateRange)
			}
			code[n] = byte(tok.Value >> 8)
			code[n+1] = byte(tok.Value)
		}
		n += found.Width()
	}

	return
}
