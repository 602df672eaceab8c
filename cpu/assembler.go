// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Assembler translates assembly text into a Program.
type Assembler struct {
	Verbose bool         // If set, verbosely logs the assembler actions.
	Logger  *slog.Logger // Log destination; slog.Default() if nil.
	Origin  int          // Byte offset of the first assembled statement.
}

func (asm *Assembler) logger() *slog.Logger {
	if asm.Logger != nil {
		return asm.Logger
	}
	return slog.Default()
}

// Assemble runs the full lexer, parser, and encoder pipeline.
//
// The returned program holds every statement that assembled. If any
// statement failed, err joins all diagnostics in source order, and the
// program is partial. The caller decides whether a partial program is
// acceptable.
func (asm *Assembler) Assemble(text string) (prog *Program, err error) {
	lines := strings.Split(text, "\n")

	insts, err := Parse(NewLexer(text).Tokens())
	errs := Diagnostics(err)

	prog = &Program{}
	pc := asm.Origin
	for _, inst := range insts {
		code, enc_err := Encode(inst)
		if enc_err != nil {
			errs = append(errs, enc_err)
			continue
		}

		lineno := inst.Line()
		stmt := Statement{
			LineNo: lineno,
			Pc:     pc,
			Code:   code,
		}
		if lineno > 0 && lineno <= len(lines) {
			stmt.Text = strings.TrimSpace(lines[lineno-1])
		}

		if asm.Verbose {
			asm.logger().Debug("asm", "line", lineno, "pc", pc, "code", code.String())
		}

		prog.Statements = append(prog.Statements, stmt)
		pc += CODE_SIZE
	}

	sortDiagnostics(errs)
	err = errors.Join(errs...)

	return
}

// Parse reads and assembles an input stream.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	text, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return asm.Assemble(string(text))
}
