package emulator

import (
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Bindings returns the predeclared names visible to Eval.
//
//	r          list of register values
//	cond       comparison flag
//	remainder  remainder of the last division
//	pc         program counter
//	ticks      executed instruction count
//	heap       heap contents, as bytes
//	heap_len   heap size
//
// Integer defines are included under their own names.
func (emu *Emulator) Bindings() (pred starlark.StringDict) {
	regs := make([]starlark.Value, 0, len(emu.Cpu.Register))
	for _, value := range emu.Registers() {
		regs = append(regs, starlark.MakeInt64(int64(value)))
	}

	pred = starlark.StringDict{}
	for key, str := range emu.Defines() {
		value, err := strconv.Atoi(str)
		if err != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt(value)
	}

	pred["r"] = starlark.NewList(regs)
	pred["cond"] = starlark.Bool(emu.Cpu.Cond)
	pred["remainder"] = starlark.MakeUint64(uint64(emu.Cpu.Remainder))
	pred["pc"] = starlark.MakeInt(emu.Cpu.Pc)
	pred["ticks"] = starlark.MakeInt(emu.Cpu.Ticks)
	pred["heap"] = starlark.Bytes(emu.Cpu.Heap)
	pred["heap_len"] = starlark.MakeInt(len(emu.Cpu.Heap))

	pred.Freeze()

	return
}

// Eval evaluates a Starlark expression against the VM state.
// The VM is not modified.
func (emu *Emulator) Eval(expr string) (value starlark.Value, err error) {
	defer func() {
		if err != nil {
			err = &ErrEval{Expr: expr, Err: err}
		}
	}()

	thread := starlark.Thread{Name: "eval"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, emu.Bindings())
	if err != nil {
		return
	}

	value, ok := dict["rc"]
	if !ok {
		err = ErrEvalResult
		return
	}

	return
}
