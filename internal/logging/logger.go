// Package logging provides structured logging for codeslots.
// Records are JSON lines written to a size-rotated file so they never
// interfere with the terminal UI; command-line runs can mirror them to
// stderr as text.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Options configures a Logger
type Options struct {
	// Enabled turns the rotating log file on
	Enabled bool
	// Level is the minimum level recorded, see the Level* constants
	Level string
	// File is the path of the log file
	File string
	// MaxSizeMB rotates the file after this many megabytes
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept
	MaxBackups int
	// Mirror, when set, also receives records as human readable text
	Mirror io.Writer
}

// Logger is a slog.Logger that owns its output file.
type Logger struct {
	*slog.Logger
	rotator *lumberjack.Logger
}

// New builds a Logger from opts. With neither a file nor a mirror the
// returned logger discards everything.
func New(opts Options) (*Logger, error) {
	level := parseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	var rotator *lumberjack.Logger

	if opts.Enabled && opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, handlerOpts))
	}

	if opts.Mirror != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Mirror, handlerOpts))
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = slogmulti.Fanout(handlers...)
	}

	return &Logger{
		Logger:  slog.New(handler),
		rotator: rotator,
	}, nil
}

// Nop returns a Logger that discards all records.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// Close flushes and closes the log file. It is a no-op for loggers
// without a file.
func (l *Logger) Close() error {
	if l == nil || l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
