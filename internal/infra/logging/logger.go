// Package logging provides file-based logging for timegrid.
// Entries are appended to .timegrid/logs/timegrid.log and can be mirrored
// to a slog.Logger (stderr in the CLI).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/timegrid/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes categorized entries to the log file.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file    *os.File
	mirror  *slog.Logger
	now     func() time.Time
	dataDir string
	mu      sync.Mutex
	level   slog.Level
}

// New creates a new Logger that writes below dataDir.
// If dataDir is empty, file output is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir: dataDir,
		level:   level,
		now:     time.Now,
	}
}

// SetMirror forwards every accepted entry to m as well.
func (l *Logger) SetMirror(m *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = m
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureFile opens or returns the log file. Caller holds l.mu.
func (l *Logger) ensureFile() (*os.File, error) {
	if l.file != nil {
		return l.file, nil
	}

	path := domain.GlobalLogPath(l.dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	return f, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// formatLog formats a log entry.
// Format: [2026-10-14 09:32:51] [INFO] [task-abc] [category] message
func formatLog(t time.Time, level slog.Level, taskID, category, msg string) string {
	scope := "global"
	if taskID != "" {
		scope = "task-" + taskID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID, category, msg string) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mirror != nil {
		attrs := []any{"category", category}
		if taskID != "" {
			attrs = append(attrs, "task", taskID)
		}
		l.mirror.Log(context.Background(), level, msg, attrs...)
	}

	if l.dataDir == "" {
		return
	}
	if f, err := l.ensureFile(); err == nil {
		_, _ = io.WriteString(f, formatLog(l.now(), level, taskID, category, msg))
	}
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
