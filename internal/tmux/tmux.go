// Package tmux drives the tmux server for workspace sessions.
package tmux

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/letsdev/lets/internal/util"
)

// DefaultPaneBaseIndex is tmux's own default for pane-base-index.
const DefaultPaneBaseIndex = 0

// Tmux wraps tmux invocations through a Runner.
type Tmux struct {
	runner util.Runner
}

// NewTmux returns a Tmux that runs commands through r.
func NewTmux(r util.Runner) *Tmux {
	return &Tmux{runner: r}
}

func (t *Tmux) run(args ...string) error {
	return t.runner.Run("", "tmux", args...)
}

// IsAvailable reports whether the tmux binary is on PATH.
func (t *Tmux) IsAvailable() bool {
	return util.Which(t.runner, "tmux")
}

// WindowTarget returns "session:window".
func WindowTarget(session, window string) string {
	return fmt.Sprintf("%s:%s", session, window)
}

// PaneTarget returns "session:window.pane".
func PaneTarget(session, window string, pane int) string {
	return fmt.Sprintf("%s:%s.%d", session, window, pane)
}

// PaneBaseIndex reads the global pane-base-index option. The output looks
// like "pane-base-index 1"; anything unparseable yields the tmux default.
func (t *Tmux) PaneBaseIndex() int {
	out, err := t.runner.Output("", "tmux", "show-option", "-g", "pane-base-index")
	if err != nil {
		return DefaultPaneBaseIndex
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return DefaultPaneBaseIndex
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return DefaultPaneBaseIndex
	}
	return n
}

// HasSession reports whether session exists. Any error counts as absent.
func (t *Tmux) HasSession(session string) bool {
	return t.run("has-session", "-t", session) == nil
}

// NewSession creates a detached session whose first window is named window.
func (t *Tmux) NewSession(session, window, dir string) error {
	return t.run("new-session", "-d", "-s", session, "-n", window, "-c", dir)
}

// NewWindow appends a window to an existing session.
func (t *Tmux) NewWindow(session, window, dir string) error {
	return t.run("new-window", "-t", session+":", "-n", window, "-c", dir)
}

// SplitHorizontal splits target into left and right panes.
func (t *Tmux) SplitHorizontal(target, dir string) error {
	return t.run("split-window", "-t", target, "-h", "-c", dir)
}

// SendKeys types keys into target and presses Enter.
func (t *Tmux) SendKeys(target, keys string) error {
	return t.run("send-keys", "-t", target, keys, "Enter")
}

// SelectPane focuses target.
func (t *Tmux) SelectPane(target string) error {
	return t.run("select-pane", "-t", target)
}

// ApplyTheme colours the session's status bar.
func (t *Tmux) ApplyTheme(session string, theme Theme) error {
	return t.run("set-option", "-t", session, "status-style", theme.Style())
}

// SwitchClient moves the current client to target. Used from inside tmux.
func (t *Tmux) SwitchClient(target string) error {
	return t.run("switch-client", "-t", target)
}

// Attach attaches the terminal to session and selects window.
func (t *Tmux) Attach(session, window string) error {
	return t.runner.Interactive("", "tmux", "attach", "-t", session, ";", "select-window", "-t", window)
}
