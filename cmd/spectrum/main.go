// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ezrec/spectrum/config"
	"github.com/ezrec/spectrum/cpu"
	"github.com/ezrec/spectrum/emulator"
	"github.com/ezrec/spectrum/repl"
)

const (
	EXIT_ASSEMBLE = 1 // Assembly diagnostics.
	EXIT_FAULT    = 2 // Runtime fault or step budget.
)

func main() {
	var configFile string
	var maxTicks int
	var hexMode bool
	var state bool
	var verbose bool
	var logLevel string
	var logFile string

	flag.StringVar(&configFile, "c", config.FILENAME, "Configuration file")
	flag.IntVar(&maxTicks, "t", -1, "Step budget per run (0 is unlimited)")
	flag.BoolVar(&hexMode, "x", false, "Start the shell in hex input mode")
	flag.BoolVar(&state, "s", false, "Print the machine state after running a file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "JSON log file")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	// Flags override the configuration.
	if maxTicks >= 0 {
		cfg.VM.MaxTicks = maxTicks
	}
	if verbose {
		cfg.VM.Verbose = true
		cfg.Log.Level = "debug"
	}
	if len(logLevel) != 0 {
		cfg.Log.Level = logLevel
	}
	if len(logFile) != 0 {
		cfg.Log.File = logFile
	}
	if hexMode {
		cfg.Repl.HexMode = true
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}

	logger, closer, err := newLogger(os.Stderr, level, cfg.Log.File)
	if err != nil {
		log.Fatalf("%v: %v", cfg.Log.File, err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	emu := emulator.NewEmulator()
	emu.Verbose = cfg.VM.Verbose
	emu.Logger = logger
	emu.MaxTicks = cfg.VM.MaxTicks
	emu.Cpu.HeapLimit = cfg.VM.HeapLimit

	if flag.NArg() == 1 {
		code := runFile(emu, flag.Arg(0), state, os.Stdout)
		closer.Close()
		os.Exit(code)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := repl.NewShell(emu, os.Stdout)
	sh.HexMode = cfg.Repl.HexMode
	sh.Prompt = cfg.Repl.Prompt
	sh.HistoryFile = cfg.Repl.HistoryFile

	fmt.Println("Entering SPECTRUM")
	err = sh.Run(ctx, os.Stdin)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shell", "error", err)
	}
	fmt.Println("Shutting down SPECTRUM")
}

// runFile assembles and runs a source file, and returns the exit code.
func runFile(emu *emulator.Emulator, path string, state bool, out io.Writer) (code int) {
	text, err := os.ReadFile(path)
	if err != nil {
		slog.Error("read", "path", path, "error", err)
		return EXIT_ASSEMBLE
	}

	_, err = emu.Assemble(string(text), false)
	if err != nil {
		for _, diag := range cpu.Diagnostics(err) {
			fmt.Fprintf(os.Stderr, "%v: %v\n", path, diag)
		}
		return EXIT_ASSEMBLE
	}

	reason, err := emu.Run()
	slog.Debug("run", "path", path, "reason", reason, "ticks", emu.Cpu.Ticks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", path, err)
		code = EXIT_FAULT
	}

	if state {
		data, yaml_err := emu.Snapshot().YAML()
		if yaml_err != nil {
			slog.Error("state", "error", yaml_err)
			return EXIT_FAULT
		}
		_, err = out.Write(data)
		if err != nil {
			slog.Error("state", "error", err)
			return EXIT_FAULT
		}
	}

	return
}
