// Package launcher opens a prepared worktree in a multiplexer session or a
// new terminal window, running an editor and the AI tool side by side.
package launcher

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/suggest"
	"github.com/letsdev/lets/internal/util"
)

// ID names a registered launcher.
type ID string

const (
	Multiplexer    ID = "multiplexer"
	TerminalWindow ID = "terminal-window"
)

// Preference is the fallback order used by SelectBest.
var Preference = []ID{Multiplexer, TerminalWindow}

// aliases maps accepted spellings, including the older config values, to ids.
var aliases = map[string]ID{
	"multiplexer":     Multiplexer,
	"tmux":            Multiplexer,
	"terminal-window": TerminalWindow,
	"terminal":        TerminalWindow,
}

// Normalize maps a user-supplied name to its ID.
func Normalize(name string) (ID, bool) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Launcher sets up and hands over a workspace for one worktree.
type Launcher interface {
	// IsAvailable reports whether the launcher's tools exist on this host.
	IsAvailable() bool
	// Setup creates the session or windows. It reports false when a
	// required step failed; the worktree is left in place either way.
	Setup(path, branch, task, aiTool string) bool
	// Instructions are printed in the summary after Setup.
	Instructions(path, branch string) []string
	// HandleAttachment moves the user into the workspace when applicable.
	HandleAttachment(path, branch string)
}

// AICommand builds the shell command that starts aiTool on task. The task is
// single-quoted with each embedded quote written as '\''.
func AICommand(aiTool, task string) string {
	escaped := strings.ReplaceAll(task, "'", `'\''`)
	return fmt.Sprintf("%s --dangerously-skip-permissions '%s'", aiTool, escaped)
}

// UnknownLauncherError is returned for ids outside the registry.
type UnknownLauncherError struct {
	ID          string
	Valid       []ID
	Suggestions []string
}

func (e *UnknownLauncherError) Error() string {
	valid := make([]string, len(e.Valid))
	for i, id := range e.Valid {
		valid[i] = string(id)
	}
	return suggest.FormatSuggestion("launcher", e.ID, e.Suggestions,
		"Valid launchers: "+strings.Join(valid, ", "))
}

// Env carries the collaborators every launcher needs.
type Env struct {
	Runner   util.Runner
	Prompter prompt.Prompter
	Out      io.Writer
	Getenv   func(string) string
	GOOS     string
	// RepoName seeds the multiplexer status colour.
	RepoName string
}

func (e Env) withDefaults() Env {
	if e.Runner == nil {
		e.Runner = util.NewExecRunner()
	}
	if e.Prompter == nil {
		e.Prompter = prompt.NewTerminal()
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Getenv == nil {
		e.Getenv = os.Getenv
	}
	if e.GOOS == "" {
		e.GOOS = runtime.GOOS
	}
	return e
}
