package cpu

import (
	"errors"
	"iter"
)

// Instruction is an operation token and its operand tokens, in arity order.
type Instruction struct {
	Opcode   Token
	Operands []Token
}

// Line returns the source line of the instruction.
func (inst Instruction) Line() int {
	return inst.Opcode.Line
}

// Parse groups a token sequence into instructions.
//
// Each operation token consumes the operand tokens its opcode's arity
// requires. A malformed statement is reported and skipped; parsing
// resumes at the next operation token. All diagnostics, including the
// lexical errors in the sequence, are returned joined in source order.
func Parse(tokens iter.Seq2[Token, error]) (insts []Instruction, err error) {
	next, stop := iter.Pull2(tokens)
	defer stop()

	var errs []error
	var pending *Token
	skipping := false

	read := func() (tok Token, tok_err error, ok bool) {
		if pending != nil {
			tok, pending = *pending, nil
			return tok, nil, true
		}
		return next()
	}

	for {
		tok, tok_err, ok := read()
		if !ok {
			break
		}
		if tok_err != nil {
			errs = append(errs, tok_err)
			skipping = true
			continue
		}

		if tok.Kind == TOKEN_EOF {
			break
		}

		if tok.Kind != TOKEN_OPERATION {
			if !skipping {
				errs = append(errs, &ErrParse{
					Line:   tok.Line,
					Column: tok.Column,
					Found:  tok.Kind,
					Err:    ErrStrayOperand,
				})
				skipping = true
			}
			continue
		}

		skipping = false

		inst, inst_err := parseOperands(tok, read, &pending)
		if inst_err != nil {
			errs = append(errs, inst_err)
			skipping = true
			continue
		}

		insts = append(insts, inst)
	}

	sortDiagnostics(errs)
	err = errors.Join(errs...)
	return
}

// parseOperands consumes the operands of the operation token. An
// operation token found in an operand slot is handed back via pending.
func parseOperands(op Token, read func() (Token, error, bool), pending **Token) (inst Instruction, err error) {
	inst.Opcode = op

	for n, kind := range op.Opcode.Arity() {
		tok, tok_err, ok := read()
		if tok_err != nil {
			err = tok_err
			return
		}
		if !ok || tok.Kind == TOKEN_EOF {
			err = &ErrParse{
				Line:     op.Line,
				Column:   op.Column,
				Opcode:   op.Opcode,
				Position: n,
				Found:    TOKEN_EOF,
				Err:      ErrTruncated,
			}
			if ok {
				*pending = &tok
			}
			return
		}

		found, is_operand := tok.Kind.Operand()
		if !is_operand || found != kind {
			err = &ErrParse{
				Line:     tok.Line,
				Column:   tok.Column,
				Opcode:   op.Opcode,
				Position: n,
				Found:    tok.Kind,
				Err:      ErrOperandKind,
			}
			if tok.Kind == TOKEN_OPERATION {
				*pending = &tok
			}
			return
		}

		inst.Operands = append(inst.Operands, tok)
	}

	return
}
