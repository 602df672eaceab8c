// Package repl is the interactive shell around the emulator.
package repl

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"

	"github.com/ezrec/spectrum/cpu"
	"github.com/ezrec/spectrum/emulator"
	"github.com/ezrec/spectrum/translate"
)

var f = translate.From

var (
	ErrUnknownCommand  = errors.New(f("unknown command"))
	ErrMissingArgument = errors.New(f("missing argument"))
)

const (
	PROMPT = "[REPL]>> " // Default prompt.
)

// Shell reads lines, runs dot commands, and assembles everything else
// onto the end of the loaded program.
type Shell struct {
	Emulator    *emulator.Emulator
	Out         io.Writer // Command output.
	HexMode     bool      // If set, lines are raw hex instructions.
	Prompt      string    // Terminal prompt; PROMPT if empty.
	HistoryFile string    // Terminal history file; none if empty.
}

type command struct {
	name string
	help string
	run  func(sh *Shell, arg string) (quit bool, err error)
}

var commands []command

func init() {
	commands = []command{
		{".help", "list all commands", (*Shell).doHelp},
		{".quit", "exit the shell", (*Shell).doQuit},
		{".program", "display the loaded bytecode", (*Shell).doProgram},
		{".registers", "display the registers", (*Shell).doRegisters},
		{".flags", "display the comparison flag, remainder and pc", (*Shell).doFlags},
		{".heap", "display the heap", (*Shell).doHeap},
		{".input_mode", "switch input between INSTRUCTION and HEX", (*Shell).doInputMode},
		{".state", "display a YAML snapshot of the machine", (*Shell).doState},
		{".eval", "evaluate an expression against the machine (.eval r[1] + r[2])", (*Shell).doEval},
		{".reset", "clear the machine and the program", (*Shell).doReset},
	}
}

// NewShell creates a shell writing to out.
func NewShell(emu *emulator.Emulator, out io.Writer) (sh *Shell) {
	sh = &Shell{
		Emulator: emu,
		Out:      out,
	}

	return
}

func (sh *Shell) prompt() string {
	if len(sh.Prompt) == 0 {
		return PROMPT
	}
	return sh.Prompt
}

func (sh *Shell) inputMode() string {
	if sh.HexMode {
		return "HEX"
	}
	return "INSTRUCTION"
}

// Execute handles a single input line.
func (sh *Shell) Execute(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	if line[0] == '.' {
		name, arg, _ := strings.Cut(line, " ")
		for _, cmd := range commands {
			if cmd.name == name {
				return cmd.run(sh, strings.TrimSpace(arg))
			}
		}
		err = fmt.Errorf("%w: %v", ErrUnknownCommand, name)
		return
	}

	emu := sh.Emulator
	if sh.HexMode {
		err = emu.LoadHex(line)
	} else {
		_, err = emu.Assemble(line, false)
	}
	if err != nil {
		return
	}

	reason, err := emu.Run()
	switch reason {
	case cpu.REASON_HALTED:
		fmt.Fprintf(sh.Out, "%v at pc %d\n", reason, emu.Cpu.Pc)
	case cpu.REASON_FAULTED:
		// Step over the faulting instruction, so later lines still run.
		var fault *cpu.Fault
		if errors.As(err, &fault) {
			emu.Cpu.Pc = fault.Pc + cpu.CODE_SIZE
			fmt.Fprintf(sh.Out, "%v at pc %d, resuming at pc %d\n", reason, fault.Pc, emu.Cpu.Pc)
		}
	}

	return
}

// Report writes an error, one line per diagnostic.
func (sh *Shell) Report(err error) {
	for _, diag := range cpu.Diagnostics(err) {
		fmt.Fprintf(sh.Out, "error: %v\n", diag)
	}
}

func (sh *Shell) doHelp(arg string) (quit bool, err error) {
	for _, cmd := range commands {
		fmt.Fprintf(sh.Out, "%-12s %v\n", cmd.name, cmd.help)
	}
	return
}

func (sh *Shell) doQuit(arg string) (quit bool, err error) {
	quit = true
	return
}

func (sh *Shell) doProgram(arg string) (quit bool, err error) {
	emu := sh.Emulator
	for pc, code := range cpu.Disassemble(emu.Cpu.Bytecode) {
		raw := code.Bytes()
		fmt.Fprintf(sh.Out, "%04x: %02x %02x %02x %02x  %v", pc, raw[0], raw[1], raw[2], raw[3], code)
		if dbg := emu.Program.Debug(pc); dbg.Statement != nil && dbg.LineNo > 0 {
			fmt.Fprintf(sh.Out, "  ; line %d", dbg.LineNo)
		}
		fmt.Fprintln(sh.Out)
	}
	return
}

func (sh *Shell) doRegisters(arg string) (quit bool, err error) {
	for n, value := range sh.Emulator.Registers() {
		fmt.Fprintf(sh.Out, "$%-2d %11d", n, value)
		if n%4 == 3 {
			fmt.Fprintln(sh.Out)
		} else {
			fmt.Fprint(sh.Out, "  ")
		}
	}
	return
}

func (sh *Shell) doFlags(arg string) (quit bool, err error) {
	vm := sh.Emulator.Cpu
	fmt.Fprintf(sh.Out, "cond: %v\n", vm.Cond)
	fmt.Fprintf(sh.Out, "remainder: %d\n", vm.Remainder)
	fmt.Fprintf(sh.Out, "pc: %d\n", vm.Pc)
	fmt.Fprintf(sh.Out, "ticks: %d\n", vm.Ticks)
	return
}

func (sh *Shell) doHeap(arg string) (quit bool, err error) {
	heap := sh.Emulator.Cpu.Heap
	fmt.Fprintf(sh.Out, "heap: %d bytes\n", len(heap))
	fmt.Fprint(sh.Out, hex.Dump(heap))
	return
}

func (sh *Shell) doInputMode(arg string) (quit bool, err error) {
	from := sh.inputMode()
	sh.HexMode = !sh.HexMode
	fmt.Fprintf(sh.Out, "switching input from %v to %v\n", from, sh.inputMode())
	if sh.HexMode {
		fmt.Fprintln(sh.Out, "format is '00 00 00 00'")
	}
	return
}

func (sh *Shell) doState(arg string) (quit bool, err error) {
	data, err := sh.Emulator.Snapshot().YAML()
	if err != nil {
		return
	}
	_, err = sh.Out.Write(data)
	return
}

func (sh *Shell) doEval(arg string) (quit bool, err error) {
	if len(arg) == 0 {
		err = fmt.Errorf("%w: .eval EXPR", ErrMissingArgument)
		return
	}

	value, err := sh.Emulator.Eval(arg)
	if err != nil {
		return
	}
	fmt.Fprintln(sh.Out, value.String())
	return
}

func (sh *Shell) doReset(arg string) (quit bool, err error) {
	sh.Emulator.Reset()
	fmt.Fprintln(sh.Out, "reset")
	return
}

// Run reads and executes lines from in until it is exhausted, a .quit
// command, or ctx is done. A terminal gets line editing and history.
func (sh *Shell) Run(ctx context.Context, in io.Reader) (err error) {
	if file, ok := in.(*os.File); ok {
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return sh.runTerminal(ctx)
		}
	}

	return sh.runScanner(ctx, in)
}

func (sh *Shell) runScanner(ctx context.Context, in io.Reader) (err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err = ctx.Err(); err != nil {
			return
		}

		quit, exec_err := sh.Execute(scanner.Text())
		if exec_err != nil {
			sh.Report(exec_err)
		}
		if quit {
			return
		}
	}

	err = scanner.Err()
	return
}

func (sh *Shell) runTerminal(ctx context.Context) (err error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      sh.prompt(),
		HistoryFile: sh.HistoryFile,
	})
	if err != nil {
		return
	}
	defer rl.Close()

	stop := context.AfterFunc(ctx, func() {
		rl.Close()
	})
	defer stop()

	for {
		line, rl_err := rl.Readline()
		if errors.Is(rl_err, readline.ErrInterrupt) && len(line) != 0 {
			continue
		}
		if rl_err != nil { // Ctrl-C or Ctrl-D
			err = ctx.Err()
			return
		}

		quit, exec_err := sh.Execute(line)
		if exec_err != nil {
			sh.Report(exec_err)
		}
		if quit {
			return
		}
	}
}
