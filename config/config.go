// Package config handles the spectrum.toml configuration file.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/spectrum/cpu"
	"github.com/ezrec/spectrum/emulator"
	"github.com/ezrec/spectrum/translate"
)

var f = translate.From

const (
	FILENAME = "spectrum.toml" // Default configuration file name.
)

var (
	ErrUnknownKey = errors.New(f("unknown configuration key"))
	ErrLogLevel   = errors.New(f("unknown log level"))
	ErrNegative   = errors.New(f("value must not be negative"))
)

// ErrConfig is a configuration file error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Config is the spectrum.toml configuration.
type Config struct {
	VM   VM   `toml:"vm"`
	Repl Repl `toml:"repl"`
	Log  Log  `toml:"log"`

	// Path is the file the configuration was loaded from (set at load time).
	Path string `toml:"-"`
}

// VM configures the execution engine.
type VM struct {
	MaxTicks  int  `toml:"max_ticks"`  // Step budget per run; 0 is unlimited.
	HeapLimit int  `toml:"heap_limit"` // Maximum heap size in bytes.
	Verbose   bool `toml:"verbose"`    // Trace every instruction.
}

// Repl configures the interactive shell.
type Repl struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
	HexMode     bool   `toml:"hex_mode"` // Start in hex input mode.
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"` // debug, info, warn or error.
	File  string `toml:"file"`  // Optional JSON log file.
}

// Default returns the configuration used when no file is present.
func Default() (cfg *Config) {
	cfg = &Config{
		VM: VM{
			MaxTicks:  emulator.MAX_TICKS,
			HeapLimit: cpu.HEAP_LIMIT,
		},
		Repl: Repl{
			Prompt: "[REPL]>> ",
		},
		Log: Log{
			Level: "info",
		},
	}

	return
}

// Parse decodes configuration text over the defaults.
func Parse(text string) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.Decode(text, cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		err = &ErrConfig{Path: strings.Join(keys, ", "), Err: ErrUnknownKey}
		return
	}

	err = cfg.validate()
	return
}

// validate checks value ranges that decoding can not.
func (cfg *Config) validate() (err error) {
	if cfg.VM.MaxTicks < 0 {
		err = &ErrConfig{Path: "vm.max_ticks", Err: ErrNegative}
		return
	}
	if cfg.VM.HeapLimit < 0 {
		err = &ErrConfig{Path: "vm.heap_limit", Err: ErrNegative}
		return
	}

	_, err = cfg.Level()
	return
}

// Load reads a configuration file. A missing file yields Default().
func Load(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		err = nil
		return
	}
	if err != nil {
		return
	}

	cfg, err = Parse(string(data))
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	cfg.Path = path
	return
}

// Level returns the configured log level.
func (cfg *Config) Level() (level slog.Level, err error) {
	if len(cfg.Log.Level) == 0 {
		level = slog.LevelInfo
		return
	}

	if level.UnmarshalText([]byte(cfg.Log.Level)) != nil {
		err = &ErrConfig{Path: "log.level", Err: ErrLogLevel}
	}
	return
}
