package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/spectrum/cpu"
	"github.com/ezrec/spectrum/emulator"
)

func newShell() (sh *Shell, out *bytes.Buffer) {
	out = &bytes.Buffer{}
	sh = NewShell(emulator.NewEmulator(), out)
	return
}

func TestShellAssemble(t *testing.T) {
	assert := assert.New(t)

	sh, out := newShell()

	quit, err := sh.Execute("LOAD $1 #500")
	assert.NoError(err)
	assert.False(quit)
	assert.Equal(int32(500), sh.Emulator.Cpu.Register[1])

	quit, err = sh.Execute("  ")
	assert.NoError(err)
	assert.False(quit)

	_, err = sh.Execute("HLT")
	assert.NoError(err)
	assert.Equal("halted at pc 8\n", out.String())

	_, err = sh.Execute("LOAD $1 #x")
	assert.ErrorIs(err, cpu.ErrMalformedInteger)
	assert.Equal(8, len(sh.Emulator.Cpu.Bytecode))
}

func TestShellFault(t *testing.T) {
	assert := assert.New(t)

	sh, out := newShell()

	_, err := sh.Execute("DIV $1 $2 $3")
	assert.ErrorIs(err, cpu.ErrDivideByZero)
	assert.Equal("faulted at pc 0, resuming at pc 4\n", out.String())
	assert.Equal(4, sh.Emulator.Cpu.Pc)

	out.Reset()
	sh.Report(err)
	assert.True(strings.HasPrefix(out.String(), "error: "))

	// Later lines still run.
	_, err = sh.Execute("LOAD $5 #7")
	assert.NoError(err)
	assert.Equal(int32(7), sh.Emulator.Cpu.Register[5])

	_, err = sh.Execute("LOAD $2 #1")
	assert.NoError(err)
	assert.Equal(int32(1), sh.Emulator.Cpu.Register[2])
	assert.Equal(12, sh.Emulator.Cpu.Pc)

	// A repeated fault is skipped the same way.
	_, err = sh.Execute("DIV $1 $3 $4")
	assert.ErrorIs(err, cpu.ErrDivideByZero)
	_, err = sh.Execute("INC $5")
	assert.NoError(err)
	assert.Equal(int32(8), sh.Emulator.Cpu.Register[5])
	assert.Equal(20, sh.Emulator.Cpu.Pc)
}

func TestShellHexMode(t *testing.T) {
	assert := assert.New(t)

	sh, out := newShell()

	_, err := sh.Execute(".input_mode")
	assert.NoError(err)
	assert.True(sh.HexMode)
	assert.Contains(out.String(), "from INSTRUCTION to HEX")

	_, err = sh.Execute("01 02 00 07")
	assert.NoError(err)
	assert.Equal(int32(7), sh.Emulator.Cpu.Register[2])

	_, err = sh.Execute("LOAD $1 #1")
	assert.ErrorIs(err, emulator.ErrHexCount)

	_, err = sh.Execute(".input_mode")
	assert.NoError(err)
	assert.False(sh.HexMode)
	assert.Contains(out.String(), "from HEX to INSTRUCTION")
}

func TestShellCommands(t *testing.T) {
	assert := assert.New(t)

	sh, out := newShell()
	_, err := sh.Execute("LOAD $1 #500")
	assert.NoError(err)
	_, err = sh.Execute("LOAD $2 #4")
	assert.NoError(err)
	_, err = sh.Execute("ALOC $2")
	assert.NoError(err)

	table := [](struct {
		line     string
		contains []string
	}){
		{".help", []string{".help", ".quit", ".program", ".registers", ".input_mode", ".eval"}},
		{".program", []string{"0000: 01 01 01 f4  LOAD $1 #500  ; line 1\n", "0008: 13 02 00 00  ALOC $2"}},
		{".registers", []string{"$1          500", "$2            4"}},
		{".flags", []string{"cond: false\n", "pc: 12\n", "ticks: 3\n"}},
		{".heap", []string{"heap: 4 bytes\n", "00 00 00 00"}},
		{".state", []string{"pc: 12\n", "heap_len: 4\n"}},
		{".eval r[1] + r[2]", []string{"504\n"}},
	}

	for _, entry := range table {
		out.Reset()
		quit, err := sh.Execute(entry.line)
		assert.NoError(err, entry.line)
		assert.False(quit, entry.line)
		for _, text := range entry.contains {
			assert.Contains(out.String(), text, entry.line)
		}
	}

	_, err = sh.Execute(".eval")
	assert.ErrorIs(err, ErrMissingArgument)

	_, err = sh.Execute(".bogus")
	assert.ErrorIs(err, ErrUnknownCommand)

	_, err = sh.Execute(".reset")
	assert.NoError(err)
	assert.Equal(0, len(sh.Emulator.Cpu.Bytecode))
	assert.Equal(int32(0), sh.Emulator.Cpu.Register[1])

	quit, err := sh.Execute(".quit")
	assert.NoError(err)
	assert.True(quit)
}

func TestShellRun(t *testing.T) {
	assert := assert.New(t)

	sh, out := newShell()

	input := strings.Join([]string{
		"LOAD $1 #5",
		"FOO",
		".eval r[1]",
		".quit",
		"LOAD $2 #1",
	}, "\n")

	err := sh.Run(context.Background(), strings.NewReader(input))
	assert.NoError(err)
	assert.Contains(out.String(), "error: ")
	assert.Contains(out.String(), "5\n")
	assert.Equal(int32(0), sh.Emulator.Cpu.Register[2])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sh.Run(ctx, strings.NewReader("LOAD $2 #1\n"))
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(int32(0), sh.Emulator.Cpu.Register[2])
}
