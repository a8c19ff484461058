// Package log provides the logging infrastructure for somascope.
//
// Loggers are plain *slog.Logger values, injected through constructors rather
// than pulled from globals. Components add their own context via
// logger.With("component", ...). Tests use NewNop or capture output with
// NewWithWriter.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger is a type alias for *slog.Logger so components can declare the
// dependency without importing log/slog themselves.
type Logger = *slog.Logger

// Config defines logger construction options.
type Config struct {
	// Level sets the minimum log level. Default: slog.LevelInfo.
	Level slog.Level

	// JSON enables JSON output instead of text.
	JSON bool

	// AddSource attaches source file/line to each record.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w. Used by tests to capture
// output in a buffer.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewNop creates a logger that discards everything. Test use only; wiring it
// into production code silently loses logs.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
