// Package logging builds the slog loggers used across the service.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// DebugEnabled reports whether COURSE_DEBUG is set, which forces debug level
func DebugEnabled() bool {
	return os.Getenv("COURSE_DEBUG") != ""
}

// ParseLevel maps a configured level name onto a slog.Level. Unknown names
// fall back to INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger. format is "json" or "text".
// COURSE_DEBUG forces debug level regardless of levelStr.
func New(w io.Writer, levelStr, format string) *slog.Logger {
	level := ParseLevel(levelStr)
	if DebugEnabled() {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
