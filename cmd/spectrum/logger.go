package main

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger fans records out to a text handler on w, and, when path is
// set, to a JSON handler appending to that file.
func newLogger(w io.Writer, level slog.Leveler, path string) (logger *slog.Logger, closer io.Closer, err error) {
	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		}),
	}

	closer = io.NopCloser(nil)
	if len(path) != 0 {
		var file *os.File
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		closer = file
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: level,
		}))
	}

	logger = slog.New(slogmulti.Fanout(handlers...))
	return
}
