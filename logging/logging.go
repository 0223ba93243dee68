// Package logging wraps log/slog the way the rest of the simulator
// expects: JSON records, rotated and optionally compressed on disk via
// lumberjack, one Logger per subsystem so every record carries a
// "component" field without callers having to repeat it.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a component-scoped structured logger.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New creates a Logger for the named component ("store", "radar",
// "analyzer", "relay", "operator", "scheduler", "registry", ...). dir is
// the log directory; an empty dir defaults to "atc-sim-logs" in the
// current working directory.
func New(component string, level string, dir string) *Logger {
	if dir == "" {
		dir = "atc-sim-logs"
	}

	w := &lumberjack.Logger{
		Filename: filepath.Join(dir, component+".slog"),
		MaxSize:  32, // MB
		MaxAge:   14,
		Compress: true,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
		// use default
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{
		Logger:  slog.New(h).With(slog.String("component", component)),
		LogFile: w.Filename,
		Start:   time.Now(),
	}
}

// Warnf and Errorf give printf-style shorthands for call sites that
// build a message rather than structured attributes.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}
