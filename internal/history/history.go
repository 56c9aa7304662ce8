// Package history keeps an append-only log of the workspaces lets creates
// and removes.
package history

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// EventType represents what happened to a workspace.
type EventType string

const (
	// EventCreated indicates a worktree and session were set up.
	EventCreated EventType = "created"
	// EventRemoved indicates a worktree was removed through lets.
	EventRemoved EventType = "removed"
)

const lockTimeout = 5 * time.Second

// Event is one history entry, stored as a JSON line.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Repo      string    `json:"repo"`
	Branch    string    `json:"branch"`
	Path      string    `json:"path"`
	Launcher  string    `json:"launcher,omitempty"`
	Task      string    `json:"task,omitempty"`
}

// Log appends events to a file shared by every lets process.
type Log struct {
	path string
}

// DefaultPath returns $XDG_STATE_HOME/lets/history.log.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "lets", "history.log")
}

// NewLog returns a Log writing to path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append stamps e with an id and time (when unset) and writes it under
// an exclusive lock.
func (l *Log) Append(e Event) (Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return e, fmt.Errorf("creating history directory: %w", err)
	}

	lock := flock.New(l.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return e, fmt.Errorf("acquiring history lock: %w", err)
	}
	if !locked {
		return e, fmt.Errorf("acquiring history lock: timed out")
	}
	defer func() { _ = lock.Unlock() }()

	line, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("encoding event: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return e, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return e, fmt.Errorf("writing history: %w", err)
	}
	return e, nil
}

// Read returns every event in file order. Malformed lines are skipped.
func (l *Log) Read() ([]Event, error) {
	content, err := os.ReadFile(l.path) //nolint:gosec // G304: path is the history location
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var events []Event
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, sc.Err()
}

// Tail returns the last n events matching f. n <= 0 means all of them.
func (l *Log) Tail(n int, f Filter) ([]Event, error) {
	events, err := l.Read()
	if err != nil {
		return nil, err
	}
	events = FilterEvents(events, f)
	if n <= 0 || len(events) <= n {
		return events, nil
	}
	return events[len(events)-n:], nil
}

// Filter selects events. Zero fields match everything.
type Filter struct {
	Type  EventType
	Repo  string
	Since time.Time
}

// FilterEvents applies f to events.
func FilterEvents(events []Event, f Filter) []Event {
	var result []Event
	for _, e := range events {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Repo != "" && e.Repo != f.Repo {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FormatLine renders e for `lets history`.
// Format: 2025-12-26 15:30:45 [created] lets/fix-auth (multiplexer) "Fix auth"
func FormatLine(e Event) string {
	ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%s [%s] %s/%s", ts, e.Type, e.Repo, e.Branch)
	if e.Launcher != "" {
		line += fmt.Sprintf(" (%s)", e.Launcher)
	}
	if e.Task != "" {
		line += fmt.Sprintf(" %q", truncate(e.Task, 50))
	}
	return line
}

// truncate shortens s to maxLen runes, ending in "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
