// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvLevel  = "WAYFIND_LOG_LEVEL"
	EnvFormat = "WAYFIND_LOG_FORMAT"

	// FileName is the log file written while the TUI owns the terminal.
	FileName = "wayfind.log"
)

// ParseLevel maps debug|info|warn|error onto a slog level, falling back to def.
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// Setup builds a logger writing to w, installs it as the slog default and
// returns it. format "json" selects the JSON handler; anything else is text.
func Setup(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// FromEnv is Setup with level and format taken from WAYFIND_LOG_LEVEL and
// WAYFIND_LOG_FORMAT.
func FromEnv(w io.Writer, def slog.Level) *slog.Logger {
	return Setup(w, ParseLevel(os.Getenv(EnvLevel), def), os.Getenv(EnvFormat))
}

// OpenFile opens (appending) the log file in dir.
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
