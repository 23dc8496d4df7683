// Package logging provides structured logging setup for the sync core.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds a slog.Logger writing to out with the requested minimum
// level ("DEBUG", "INFO", "WARN", "ERROR") and format ("TEXT" or "JSON").
// Unknown values fall back to INFO / TEXT.
func Setup(out io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToUpper(format) == "JSON" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// Default returns an INFO-level text logger on stderr. Library entry
// points use it when the host does not inject its own logger.
func Default() *slog.Logger {
	return Setup(os.Stderr, "INFO", "TEXT")
}
