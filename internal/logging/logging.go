// Package logging provides logger construction and diagnostic formatting helpers.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New creates a deterministic text logger at the provided level.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return NewWithFormat(w, level, "text")
}

// NewWithFormat creates a text or JSON logger at the provided level.
func NewWithFormat(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Diagnostic renders a file-scoped failure as "<message> (<identity>) // <error>".
func Diagnostic(message, identity string, err error) string {
	if identity == "" {
		return fmt.Sprintf("%s // %v", message, err)
	}
	return fmt.Sprintf("%s (%s) // %v", message, identity, err)
}
