// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/revatlas/revatlas/pkg/config"
)

// LogFile is the path of the log file inside logDir.
func LogFile(logDir string) string {
	return filepath.Join(logDir, config.AppName+".log")
}

// Init sets the default slog logger. With the "file" destination the
// log goes to LogFile(logDir); keep=false truncates it first, which
// happens once per process before the config is read.
func Init(logDir string, cfg config.LogConfig, keep bool) error {
	w, err := open(logDir, cfg.Destination, keep)
	if err != nil {
		return err
	}
	slog.SetDefault(New(w, cfg))
	return nil
}

func open(logDir, dest string, keep bool) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
	default:
		return os.Stderr, nil
	}

	path := LogFile(logDir)
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if keep {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, CreateLogFileError(path, err)
	}
	return f, nil
}

// New creates a logger writing to w with the level and format of cfg.
// Unknown formats fall back to JSON.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text", "tint":
		// tint is rendered as plain text for now
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
// Invalid levels default to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
