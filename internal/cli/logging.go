package cli

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w at debug level, or a discarding
// logger when verbose is off.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
