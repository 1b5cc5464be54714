package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel maps debug|info|warn|error to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// NewLogger builds a text or json slog logger writing to w.
// Components add their own "component" attribute.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (available: text, json)", format)
	}
	return slog.New(handler), nil
}

// DiscardLogger drops everything; used by tests and library callers
// that do not care about logs.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
