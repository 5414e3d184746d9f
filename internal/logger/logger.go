// Package logger builds the service's slog logger. Output goes to stdout
// unless a log file is configured, in which case it is rotated by lumberjack.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"funstar-catalog/internal/config"
)

// New creates a *slog.Logger from the log configuration.
func New(cfg config.LogConfig) *slog.Logger {
	return slog.New(NewHandler(cfg, output(cfg)))
}

// NewHandler creates the slog handler for cfg writing to w.
func NewHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel maps "debug", "warn" and "error" to slog levels; anything else is info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func output(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    100,
		MaxAge:     30,
		MaxBackups: 3,
		Compress:   true,
		LocalTime:  true,
	}
}
