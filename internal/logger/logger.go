package logger

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog logger. Debug level is opt-in
// via flag or the FERRY_DEBUG environment variable.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || os.Getenv("FERRY_DEBUG") != "" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}
