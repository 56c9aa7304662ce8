package launcher

import (
	"fmt"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/tmux"
)

// DefaultEditor runs in the left pane when neither the settings nor
// $EDITOR name one.
const DefaultEditor = "vim"

// TmuxLauncher opens a window in a tmux session split into an editor pane
// (left) and an AI tool pane (right).
type TmuxLauncher struct {
	settings config.Settings
	env      Env
	tmux     *tmux.Tmux
}

// NewTmuxLauncher returns the multiplexer launcher.
func NewTmuxLauncher(s config.Settings, env Env) *TmuxLauncher {
	env = env.withDefaults()
	return &TmuxLauncher{settings: s, env: env, tmux: tmux.NewTmux(env.Runner)}
}

func (l *TmuxLauncher) session() string {
	return l.settings.Launchers.Tmux.Session
}

func (l *TmuxLauncher) editor() string {
	if l.settings.EditorCommand != "" {
		return l.settings.EditorCommand
	}
	if e := l.env.Getenv("EDITOR"); e != "" {
		return e
	}
	return DefaultEditor
}

func (l *TmuxLauncher) IsAvailable() bool {
	return l.tmux.IsAvailable()
}

// Setup runs: pane-base-index query, session or window creation, horizontal
// split, editor in the left pane, AI command in the right pane, then focus
// on the right pane. Focus and status colour are best effort.
func (l *TmuxLauncher) Setup(path, branch, task, aiTool string) bool {
	out := l.env.Out
	if !l.IsAvailable() {
		style.FprintError(out, "tmux is not installed")
		return false
	}

	session := l.session()
	window := branch
	base := l.tmux.PaneBaseIndex()
	left, right := base, base+1

	if l.tmux.HasSession(session) {
		style.FprintSuccess(out, "Using existing tmux session: %s", session)
		style.FprintSuccess(out, "Creating tmux window: %s", window)
		if err := l.tmux.NewWindow(session, window, path); err != nil {
			style.FprintError(out, "Failed to create tmux window: %v", err)
			return false
		}
	} else {
		style.FprintSuccess(out, "Creating tmux session: %s", session)
		if err := l.tmux.NewSession(session, window, path); err != nil {
			style.FprintError(out, "Failed to create tmux session: %v", err)
			return false
		}
		if l.env.RepoName != "" {
			if err := l.tmux.ApplyTheme(session, tmux.AssignTheme(l.env.RepoName)); err != nil {
				logger.Debug("tmux theme for %s: %v", session, err)
			}
		}
	}

	style.FprintSuccess(out, "Creating split panes: editor (left) and %s (right)", aiTool)
	if err := l.tmux.SplitHorizontal(tmux.WindowTarget(session, window), path); err != nil {
		style.FprintError(out, "Failed to split window: %v", err)
		return false
	}

	if err := l.tmux.SendKeys(tmux.PaneTarget(session, window, left), l.editor()); err != nil {
		style.FprintError(out, "Failed to start editor: %v", err)
		return false
	}

	if err := l.tmux.SendKeys(tmux.PaneTarget(session, window, right), AICommand(aiTool, task)); err != nil {
		style.FprintError(out, "Failed to start %s: %v", aiTool, err)
		return false
	}

	if err := l.tmux.SelectPane(tmux.PaneTarget(session, window, right)); err != nil {
		logger.Debug("select-pane %s: %v", tmux.PaneTarget(session, window, right), err)
	}

	logger.Info("tmux workspace ready: %s", tmux.WindowTarget(session, window))
	return true
}

func (l *TmuxLauncher) Instructions(path, branch string) []string {
	session := l.session()
	return []string{
		"To attach to the session:",
		style.Command.Render(fmt.Sprintf("  tmux attach -t %s", session)),
		"",
		"To go directly to this window:",
		style.Command.Render(fmt.Sprintf("  tmux attach -t %s \\; select-window -t %s", session, branch)),
		"",
		"Split panes: Editor (left) | AI tool (right)",
		"Switch between panes: Ctrl+b then arrow keys",
	}
}

// HandleAttachment switches the current client when already inside tmux,
// otherwise offers to attach. Nothing happens when auto-attach is off.
func (l *TmuxLauncher) HandleAttachment(path, branch string) {
	if !l.settings.Launchers.Tmux.AutoAttach {
		return
	}

	out := l.env.Out
	session := l.session()
	fmt.Fprintln(out)

	if l.env.Getenv("TMUX") != "" {
		style.FprintWarning(out, "Already inside tmux session")
		ok, err := l.env.Prompter.Confirm("Switch to workspace window?", true)
		if err != nil || !ok {
			return
		}
		if err := l.tmux.SwitchClient(tmux.WindowTarget(session, branch)); err != nil {
			style.FprintError(out, "Failed to switch window: %v", err)
		}
		return
	}

	ok, err := l.env.Prompter.Confirm("Attach to tmux session now?", true)
	if err != nil || !ok {
		return
	}
	if err := l.tmux.Attach(session, branch); err != nil {
		logger.Warn("tmux attach %s: %v", session, err)
	}
}
