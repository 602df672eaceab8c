package emulator

import (
	"errors"

	"github.com/ezrec/spectrum/translate"
)

var f = translate.From

var (
	ErrTickLimit  = errors.New(f("step budget exhausted"))
	ErrHexCount   = errors.New(f("hex instruction must be four bytes"))
	ErrHexFormat  = errors.New(f("malformed hex byte"))
	ErrEvalResult = errors.New(f("expression has no value"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int // Source line, 0 if unknown.
	Pc     int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %d %v", err.Pc, err.Err)
	}
	return f("line %d pc %d %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrHex is a raw hex input error.
type ErrHex struct {
	Text string
	Err  error
}

func (err *ErrHex) Error() string {
	return f("'%v' %v", err.Text, err.Err)
}

func (err *ErrHex) Unwrap() error {
	return err.Err
}

// ErrEval is an expression evaluation error.
type ErrEval struct {
	Expr string
	Err  error
}

func (err *ErrEval) Error() string {
	return f("eval '%v' %v", err.Expr, err.Err)
}

func (err *ErrEval) Unwrap() error {
	return err.Err
}
