package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestFileLogger(t *testing.T, config FileLoggerConfig) (*FileLogger, string) {
	t.Helper()
	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "test.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, config.Path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "compass.log")

	logger, _ := newTestFileLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText})
	defer logger.Close()

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file was not created: %v", err)
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	tests := []struct {
		level   Level
		present []string
		absent  []string
	}{
		{DebugLevel, []string{"debug message", "info message", "warn message", "error message"}, nil},
		{InfoLevel, []string{"info message", "warn message", "error message"}, []string{"debug message"}},
		{ErrorLevel, []string{"error message"}, []string{"debug message", "info message", "warn message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			logger, path := newTestFileLogger(t, FileLoggerConfig{Format: FormatText, Level: tt.level})
			ctx := context.Background()

			logger.Debug(ctx, "debug message", nil)
			logger.Info(ctx, "info message", nil)
			logger.Warn(ctx, "warn message", nil)
			logger.Error(ctx, "error message", nil, nil)
			logger.Close()

			content := readLog(t, path)
			for _, s := range tt.present {
				if !strings.Contains(content, s) {
					t.Errorf("%q should be logged at %s", s, tt.level)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(content, s) {
					t.Errorf("%q should be filtered at %s", s, tt.level)
				}
			}
		})
	}
}

func TestWriterLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)
	logger.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC) }

	logger.Warn(context.Background(), "Content comparison failed", Fields{"path": "src/a.go", "reason": "x", "attempt": 1})

	want := "2026-03-01T12:30:00.000Z [WARN] Content comparison failed attempt=1 path=src/a.go reason=x\n"
	if buf.String() != want {
		t.Errorf("line = %q, want %q", buf.String(), want)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, path := newTestFileLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	logger.Error(context.Background(), "Hash failed", errors.New("permission denied"), Fields{"path": "a.txt", "count": 42})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, path)), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v", err)
	}

	checks := map[string]interface{}{
		"level":   "ERROR",
		"message": "Hash failed",
		"error":   "permission denied",
		"path":    "a.txt",
		"count":   float64(42),
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s = %v, want %v", k, entry[k], want)
		}
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp should be present")
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, path := newTestFileLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})
	ctx := context.Background()

	scoped := logger.WithFields(Fields{"component": "tree"})
	scoped.Info(ctx, "scoped", Fields{"path": "a"})
	logger.Info(ctx, "plain", nil)
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var scopedEntry, plainEntry map[string]interface{}
	json.Unmarshal([]byte(lines[0]), &scopedEntry)
	json.Unmarshal([]byte(lines[1]), &plainEntry)

	if scopedEntry["component"] != "tree" || scopedEntry["path"] != "a" {
		t.Errorf("scoped entry = %v", scopedEntry)
	}
	if _, ok := plainEntry["component"]; ok {
		t.Error("WithFields must not leak fields into the parent logger")
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logger, path := newTestFileLogger(t, FileLoggerConfig{
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		logger.Info(ctx, "This message is long enough to push the log over its size limit", nil)
	}
	logger.Close()

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should exist after rotation: %v", filepath.Base(p), err)
		}
	}
	if _, err := os.Stat(path + ".3"); err == nil {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, path := newTestFileLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			scoped := logger.WithFields(Fields{"worker": id})
			for j := 0; j < 100; j++ {
				scoped.Info(ctx, "classified", Fields{"iteration": j})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 1000 {
		t.Errorf("expected 1000 log lines, got %d", len(lines))
	}
}

func TestNew(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		logger, err := New(Options{File: path, Format: "json", Level: "debug"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		logger.Debug(context.Background(), "hello", nil)
		logger.Close()

		if !strings.Contains(readLog(t, path), `"message":"hello"`) {
			t.Error("file logger did not write the debug entry")
		}
	})

	t.Run("Console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Console: &buf, Level: "warn"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		logger.Info(context.Background(), "quiet", nil)
		logger.Warn(context.Background(), "loud", nil)

		if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "[WARN] loud") {
			t.Errorf("console output = %q", buf.String())
		}
	})

	t.Run("Null", func(t *testing.T) {
		logger, err := New(Options{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, ok := logger.(*NullLogger); !ok {
			t.Errorf("New() = %T, want *NullLogger", logger)
		}
	})

	t.Run("BadPath", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		os.WriteFile(blocker, nil, 0644)

		if _, err := New(Options{File: filepath.Join(blocker, "x.log")}); err == nil {
			t.Error("New() should fail when the log directory cannot be created")
		}
	})
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	if logger.WithFields(Fields{"key": "value"}) == nil {
		t.Error("WithFields should return a logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{" error ", ErrorLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
