package logging

import (
	"context"
	"io"
	"strings"
)

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the upper-case level name
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level name, case-insensitively.
// Unknown names fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger defines the interface for logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs an info message
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger with additional fields
	WithFields(fields Fields) Logger

	// Close flushes and closes the logger
	Close() error
}

// Options selects a logger implementation
type Options struct {
	// File enables file logging when set
	File string
	// Format is "json" or "text"
	Format string
	// Level is the minimum level name
	Level string
	// Console, when non-nil and File is empty, receives log lines instead
	Console io.Writer
}

// New returns a file logger, a console logger or a NullLogger, in that order
// of preference
func New(opts Options) (Logger, error) {
	format := Format(opts.Format)
	if format != FormatJSON {
		format = FormatText
	}
	level := ParseLevel(opts.Level)

	switch {
	case opts.File != "":
		return NewFileLogger(FileLoggerConfig{
			Path:       opts.File,
			Format:     format,
			Level:      level,
			MaxSize:    DefaultMaxSize,
			MaxBackups: DefaultMaxBackups,
		})
	case opts.Console != nil:
		return NewWriterLogger(opts.Console, format, level), nil
	default:
		return NewNullLogger(), nil
	}
}
