// Package logger writes the lets debug log.
//
// Records go to a text file under the XDG state directory. In verbose mode
// the level drops to debug and records are mirrored to stderr.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

var (
	mu         sync.Mutex
	levelVar   = new(slog.LevelVar)
	slogLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile    *os.File
)

// DefaultPath is where the log lives unless Init is given another path.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "lets", "lets.log")
}

// Init opens the log file at path. When verbose is set the level is debug
// and every record is also written to stderr.
func Init(path string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	if verbose {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}

	var sinks []io.Writer
	if verbose {
		sinks = append(sinks, os.Stderr)
	}

	var openErr error
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			openErr = fmt.Errorf("creating log directory: %w", err)
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			openErr = fmt.Errorf("opening log file %s: %w", path, err)
		} else {
			logFile = f
			sinks = append(sinks, f)
		}
	}

	var w io.Writer = io.Discard
	if len(sinks) > 0 {
		w = io.MultiWriter(sinks...)
	}
	slogLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
	return openErr
}

func logWithLevel(level slog.Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if !slogLogger.Enabled(context.Background(), level) {
		return
	}
	slogLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func Debug(format string, args ...interface{}) {
	logWithLevel(slog.LevelDebug, format, args...)
}

// Info logs at info level.
func Info(format string, args ...interface{}) {
	logWithLevel(slog.LevelInfo, format, args...)
}

// Warn logs at warn level.
func Warn(format string, args ...interface{}) {
	logWithLevel(slog.LevelWarn, format, args...)
}

// Error logs at error level.
func Error(format string, args ...interface{}) {
	logWithLevel(slog.LevelError, format, args...)
}

// Close flushes and closes the log file. Later calls log nowhere.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	slogLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func closeLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
