package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Format selects the log output encoding.
type Format string

const (
	// HumanFormat writes LineHandler lines.
	HumanFormat Format = "human"
	// JSONFormat writes one JSON object per record.
	JSONFormat Format = "json"
)

// levelOff is above every standard level.
const levelOff = slog.Level(100)

// New returns a logger writing to w in the given format.
func New(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if format == JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(NewLineHandler(w, opts))
}

// NewDiscardLogger returns a logger that drops everything. Used by tests and
// by components built without an explicit logger.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewLineHandler(io.Discard, &slog.HandlerOptions{Level: levelOff}))
}

// LevelFromString parses debug, info, warn or error. Anything else is info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity maps -q and repeated -v flags to a level.
// Without flags the configured level wins, so ok is false.
func LevelFromVerbosity(verbosity int, quiet bool) (level slog.Level, ok bool) {
	switch {
	case quiet:
		return levelOff, true
	case verbosity == 1:
		return slog.LevelInfo, true
	case verbosity >= 2:
		return slog.LevelDebug, true
	default:
		return slog.LevelWarn, false
	}
}
