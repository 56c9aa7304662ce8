package launcher

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/util"
)

// DetectedEditors are checked in order when no editor is configured.
var DetectedEditors = []string{"code", "cursor", "subl", "atom", "zed"}

// TerminalLauncher opens a new terminal window running the AI tool and
// launches a GUI editor on the worktree.
type TerminalLauncher struct {
	settings config.Settings
	env      Env
}

// NewTerminalLauncher returns the terminal-window launcher.
func NewTerminalLauncher(s config.Settings, env Env) *TerminalLauncher {
	return &TerminalLauncher{settings: s, env: env.withDefaults()}
}

func (l *TerminalLauncher) has(name string) bool {
	return util.Which(l.env.Runner, name)
}

// customTerminal returns the configured terminal argv, or nil when unset or
// unparseable.
func (l *TerminalLauncher) customTerminal() []string {
	tc := strings.TrimSpace(l.settings.Launchers.Terminal.TerminalCommand)
	if tc == "" {
		return nil
	}
	argv, err := shellquote.Split(tc)
	if err != nil || len(argv) == 0 {
		logger.Warn("ignoring terminal_command %q: %v", tc, err)
		return nil
	}
	return argv
}

func isPOSIX(goos string) bool {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos", "aix":
		return true
	}
	return false
}

func (l *TerminalLauncher) IsAvailable() bool {
	if argv := l.customTerminal(); argv != nil && l.has(argv[0]) {
		return true
	}
	switch {
	case l.env.GOOS == "windows":
		return true
	case l.env.GOOS == "darwin":
		return l.has("open")
	case isPOSIX(l.env.GOOS):
		return l.has("gnome-terminal") || l.has("xterm")
	}
	return false
}

// Setup opens one terminal window at path running the AI command, then the
// editor.
func (l *TerminalLauncher) Setup(path, branch, task, aiTool string) bool {
	out := l.env.Out
	if !l.IsAvailable() {
		style.FprintError(out, "Terminal launcher is not available")
		return false
	}

	style.FprintSuccess(out, "Launching terminal in %s", path)

	if err := l.openTerminal(path, AICommand(aiTool, task)); err != nil {
		style.FprintError(out, "Failed to launch terminal: %v", err)
		return false
	}

	l.openEditor(path)
	return true
}

func (l *TerminalLauncher) openTerminal(path, command string) error {
	r := l.env.Runner
	quotedPath := shellquote.Join(path)

	if argv := l.customTerminal(); argv != nil && l.has(argv[0]) {
		args := append(argv[1:len(argv):len(argv)], "-e", "bash", "-c",
			fmt.Sprintf("cd %s && %s; exec bash", quotedPath, command))
		return r.Start(path, argv[0], args...)
	}

	switch {
	case l.env.GOOS == "darwin":
		script := fmt.Sprintf("tell application \"Terminal\"\n"+
			"    do script \"%s\"\n"+
			"    activate\n"+
			"end tell", appleScriptEscape(fmt.Sprintf("cd %s && %s", quotedPath, command)))
		return r.Run("", "osascript", "-e", script)

	case l.env.GOOS == "windows":
		if l.has("wt") {
			return r.Start(path, "wt", "new-tab", "--startingDirectory", path, "cmd", "/k", command)
		}
		return r.Start(path, "cmd", "/c", "start", "cmd", "/k", fmt.Sprintf(`cd /d "%s" && %s`, path, command))

	case isPOSIX(l.env.GOOS):
		if l.has("gnome-terminal") {
			return r.Run(path, "gnome-terminal", "--working-directory", path, "--",
				"bash", "-c", command+"; exec bash")
		}
		if l.has("xterm") {
			return r.Start(path, "xterm", "-e", "bash", "-c",
				fmt.Sprintf("cd %s && %s; exec bash", quotedPath, command))
		}
		return fmt.Errorf("no terminal emulator found")
	}

	logger.Warn("terminal launcher: unsupported platform %s", l.env.GOOS)
	return nil
}

// appleScriptEscape quotes s for use inside an AppleScript string literal.
func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func (l *TerminalLauncher) editorCommand() string {
	if l.settings.EditorCommand != "" {
		return l.settings.EditorCommand
	}
	for _, e := range DetectedEditors {
		if l.has(e) {
			return e
		}
	}
	return ""
}

func (l *TerminalLauncher) openEditor(path string) {
	out := l.env.Out
	editor := l.editorCommand()
	if editor == "" {
		style.FprintInfo(out, "No editor configured. You can open your preferred editor manually.")
		return
	}

	argv, err := shellquote.Split(editor)
	if err != nil || len(argv) == 0 {
		style.FprintWarning(out, "Failed to open %s", editor)
		return
	}

	style.FprintSuccess(out, "Opening %s in %s", editor, path)
	if err := l.env.Runner.Start(path, argv[0], append(argv[1:], path)...); err != nil {
		logger.Warn("editor %s: %v", editor, err)
		style.FprintWarning(out, "Failed to open %s", editor)
	}
}

func (l *TerminalLauncher) Instructions(path, branch string) []string {
	return []string{
		"Terminal should have opened automatically with your AI tool running.",
		"Your editor should also have opened automatically.",
		"",
		"If needed, you can access your workspace at:",
		style.Command.Render("  cd " + path),
	}
}

// HandleAttachment is a no-op: the windows opened during Setup are the
// workspace.
func (l *TerminalLauncher) HandleAttachment(path, branch string) {}
