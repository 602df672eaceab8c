package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/spectrum/emulator"
)

func writeSource(t *testing.T, text string) (path string) {
	path = filepath.Join(t.TempDir(), "prog.asm")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return
}

func TestRunFile(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "LOAD $0 #6\nLOAD $1 #7\nMUL $0 $1 $2\nHLT\n")

	out := &bytes.Buffer{}
	emu := emulator.NewEmulator()
	code := runFile(emu, path, true, out)
	assert.Equal(0, code)
	assert.Equal(int32(42), emu.Cpu.Register[2])
	assert.Contains(out.String(), "pc: 16\n")
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRunFileStateWrite(t *testing.T) {
	assert := assert.New(t)

	path := writeSource(t, "LOAD $0 #6\n")

	code := runFile(emulator.NewEmulator(), path, true, failWriter{})
	assert.Equal(EXIT_FAULT, code)

	code = runFile(emulator.NewEmulator(), path, false, failWriter{})
	assert.Equal(0, code)
}

func TestRunFileErrors(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}

	code := runFile(emulator.NewEmulator(), writeSource(t, "LOAD $0 #x\n"), false, out)
	assert.Equal(EXIT_ASSEMBLE, code)

	code = runFile(emulator.NewEmulator(), filepath.Join(t.TempDir(), "missing.asm"), false, out)
	assert.Equal(EXIT_ASSEMBLE, code)

	code = runFile(emulator.NewEmulator(), writeSource(t, "DIV $0 $1 $2\n"), false, out)
	assert.Equal(EXIT_FAULT, code)

	emu := emulator.NewEmulator()
	emu.MaxTicks = 10
	code = runFile(emu, writeSource(t, "JMP $0\n"), false, out)
	assert.Equal(EXIT_FAULT, code)
	assert.Equal(0, out.Len())
}

func TestNewLogger(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "spectrum.log")
	text := &bytes.Buffer{}

	logger, closer, err := newLogger(text, slog.LevelInfo, path)
	assert.NoError(err)

	logger.Debug("hidden")
	logger.Info("shown", "pc", 4)
	assert.NoError(closer.Close())

	assert.Contains(text.String(), "msg=shown pc=4")
	assert.NotContains(text.String(), "hidden")

	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(data), `"msg":"shown"`)
	assert.Contains(string(data), `"pc":4`)

	_, closer, err = newLogger(text, slog.LevelInfo, "")
	assert.NoError(err)
	assert.NoError(closer.Close())
}
