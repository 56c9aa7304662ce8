// Package wizard walks a new user through the lets settings.
package wizard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/launcher"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/util"
)

// Wizard asks the setup questions through a Prompter.
type Wizard struct {
	prompt prompt.Prompter
	out    io.Writer
	runner util.Runner
	getenv func(string) string
	// DefaultWorktreeBase is shown as the default worktree directory.
	DefaultWorktreeBase string
}

// New returns a Wizard. A nil getenv means os.Getenv.
func New(p prompt.Prompter, out io.Writer, r util.Runner, getenv func(string) string) *Wizard {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Wizard{
		prompt:              p,
		out:                 out,
		runner:              r,
		getenv:              getenv,
		DefaultWorktreeBase: config.DefaultWorktreeBase(),
	}
}

// Run asks all six steps and returns the resulting settings. It does not
// save them. A prompt error (such as closed stdin) aborts the wizard.
func (w *Wizard) Run() (config.Settings, error) {
	s := config.Defaults()

	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "Welcome to lets!")
	style.FprintInfo(w.out, "Let's set up your configuration.")
	fmt.Fprintln(w.out)

	steps := []func(*config.Settings) error{
		w.launcherStep,
		w.aiToolStep,
		w.editorStep,
		w.worktreeStep,
		w.envFilesStep,
		w.gitStep,
	}
	for _, step := range steps {
		if err := step(&s); err != nil {
			return config.Settings{}, fmt.Errorf("setup aborted: %w", err)
		}
	}

	w.summary(s)
	return s, nil
}

func (w *Wizard) exists(command string) bool {
	fields := strings.Fields(command)
	return len(fields) > 0 && util.Which(w.runner, fields[0])
}

func (w *Wizard) launcherStep(s *config.Settings) error {
	style.FprintInfo(w.out, "[1/6] Workspace Launcher")
	fmt.Fprintln(w.out, "Choose how you want to launch your development environments:")
	fmt.Fprintln(w.out, "  1. multiplexer - tmux session with editor and AI panes (recommended)")
	fmt.Fprintln(w.out, "  2. terminal-window - new terminal window (simpler, works everywhere)")
	fmt.Fprintln(w.out)

	choice, err := w.prompt.Choice("Select launcher", []string{"1", "2"}, "1")
	if err != nil {
		return err
	}

	if choice == "1" {
		s.Launcher = string(launcher.Multiplexer)
		style.FprintSuccess(w.out, "Selected: %s", s.Launcher)
		fmt.Fprintln(w.out)
		style.FprintInfo(w.out, "tmux session configuration:")

		session, err := w.prompt.Text("Default tmux session name", s.Launchers.Tmux.Session)
		if err != nil {
			return err
		}
		s.Launchers.Tmux.Session = session

		attach, err := w.prompt.Confirm("Auto-attach to tmux session after setup?", true)
		if err != nil {
			return err
		}
		s.Launchers.Tmux.AutoAttach = attach
		return nil
	}

	s.Launcher = string(launcher.TerminalWindow)
	style.FprintSuccess(w.out, "Selected: %s", s.Launcher)
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "Terminal command (leave empty for auto-detection):")

	cmd, err := w.prompt.Text("Custom terminal command", "")
	if err != nil {
		return err
	}
	switch {
	case cmd == "":
	case w.exists(cmd):
		s.Launchers.Terminal.TerminalCommand = cmd
	default:
		style.FprintWarning(w.out, "Command '%s' not found, using auto-detection", cmd)
	}
	return nil
}

func (w *Wizard) aiToolStep(s *config.Settings) error {
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "[2/6] AI Tool")
	fmt.Fprintln(w.out, "Choose your AI assistant for generating branch names:")
	fmt.Fprintln(w.out, "Examples: claude, chatgpt, copilot")

	tool, err := w.prompt.Text("AI tool command", s.AITool)
	if err != nil {
		return err
	}
	s.AITool = tool
	if w.exists(tool) {
		style.FprintSuccess(w.out, "AI tool set to: %s", tool)
	} else {
		style.FprintWarning(w.out, "Command '%s' not found, but will use it anyway", tool)
	}
	return nil
}

func (w *Wizard) editorStep(s *config.Settings) error {
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "[3/6] Editor")

	detected := w.getenv("EDITOR")
	if detected == "" {
		style.FprintInfo(w.out, "No editor detected in $EDITOR environment variable")
		editor, err := w.prompt.Text("Enter your preferred editor command (or leave empty)", "")
		if err != nil {
			return err
		}
		if editor != "" {
			s.EditorCommand = editor
			style.FprintSuccess(w.out, "Editor set to: %s", editor)
		}
		return nil
	}

	style.FprintInfo(w.out, "Detected editor from $EDITOR: %s", detected)
	use, err := w.prompt.Confirm("Use this editor?", true)
	if err != nil {
		return err
	}
	if use {
		s.EditorCommand = detected
		style.FprintSuccess(w.out, "Using editor: %s", detected)
		return nil
	}

	editor, err := w.prompt.Text("Enter your preferred editor command", "")
	if err != nil {
		return err
	}
	if editor == "" {
		return nil
	}
	s.EditorCommand = editor
	if w.exists(editor) {
		style.FprintSuccess(w.out, "Editor set to: %s", editor)
	} else {
		style.FprintWarning(w.out, "Editor '%s' not found, but will use it anyway", editor)
	}
	return nil
}

func (w *Wizard) worktreeStep(s *config.Settings) error {
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "[4/6] Worktree Storage")
	fmt.Fprintf(w.out, "Default worktree directory: %s\n", w.DefaultWorktreeBase)

	useDefault, err := w.prompt.Confirm("Use default directory?", true)
	if err != nil {
		return err
	}
	if useDefault {
		style.FprintSuccess(w.out, "Using default directory: %s", w.DefaultWorktreeBase)
		return nil
	}

	dir, err := w.prompt.Text("Enter custom worktree directory", "")
	if err != nil {
		return err
	}
	if dir == "" {
		style.FprintInfo(w.out, "Using default directory")
		return nil
	}
	dir = expandHome(dir)

	parent := filepath.Dir(dir)
	if _, statErr := os.Stat(parent); statErr != nil {
		create, err := w.prompt.Confirm(fmt.Sprintf("Create directory %s?", parent), true)
		if err != nil {
			return err
		}
		if !create {
			style.FprintInfo(w.out, "Using default directory")
			return nil
		}
	}
	s.WorktreeBaseDir = dir
	style.FprintSuccess(w.out, "Worktree directory set to: %s", dir)
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (w *Wizard) envFilesStep(s *config.Settings) error {
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "[5/6] Environment Files")
	fmt.Fprintln(w.out, "Configure automatic copying of environment files to new worktrees.")

	copyEnv, err := w.prompt.Confirm("Copy environment files to new worktrees?", true)
	if err != nil {
		return err
	}
	s.CopyEnvFiles = copyEnv
	if !copyEnv {
		style.FprintSuccess(w.out, "Environment file copying disabled")
		return nil
	}

	defaults := strings.Join(config.DefaultEnvFilePatterns, ", ")
	fmt.Fprintf(w.out, "Default environment files: %s\n", defaults)
	useDefaults, err := w.prompt.Confirm("Use default file patterns?", true)
	if err != nil {
		return err
	}
	if useDefaults {
		style.FprintSuccess(w.out, "Using default environment file patterns")
		return nil
	}

	input, err := w.prompt.Text("Enter comma-separated file patterns", strings.Join(config.DefaultEnvFilePatterns, ","))
	if err != nil {
		return err
	}
	s.EnvFilePatterns = SplitPatterns(input)
	style.FprintSuccess(w.out, "Environment file patterns: %s", strings.Join(s.EnvFilePatterns, ", "))
	return nil
}

// SplitPatterns splits a comma-separated list, dropping empty entries.
func SplitPatterns(input string) []string {
	var patterns []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func (w *Wizard) gitStep(s *config.Settings) error {
	fmt.Fprintln(w.out)
	style.FprintInfo(w.out, "[6/6] Git Configuration")
	fmt.Fprintln(w.out, "Configure default base branch for new worktrees.")

	auto, err := w.prompt.Confirm("Auto-detect base branch (main/master)?", true)
	if err != nil {
		return err
	}
	if auto {
		style.FprintSuccess(w.out, "Using auto-detection for base branch")
		return nil
	}

	base, err := w.prompt.Text("Default base branch", "main")
	if err != nil {
		return err
	}
	s.DefaultBaseBranch = base
	style.FprintSuccess(w.out, "Default base branch: %s", base)
	return nil
}

func (w *Wizard) summary(s config.Settings) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, rule)
	style.FprintSuccess(w.out, "Configuration Complete!")
	fmt.Fprintln(w.out, rule)
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Summary of your settings:")
	fmt.Fprintf(w.out, "  Launcher: %s\n", s.Launcher)
	fmt.Fprintf(w.out, "  AI Tool: %s\n", s.AITool)
	if s.EditorCommand != "" {
		fmt.Fprintf(w.out, "  Editor: %s\n", s.EditorCommand)
	}
	if s.Launcher == string(launcher.Multiplexer) {
		fmt.Fprintf(w.out, "  Tmux Session: %s\n", s.Launchers.Tmux.Session)
		fmt.Fprintf(w.out, "  Auto-attach: %t\n", s.Launchers.Tmux.AutoAttach)
	}
	copyEnv := "No"
	if s.CopyEnvFiles {
		copyEnv = "Yes"
	}
	fmt.Fprintf(w.out, "  Environment Files: %s\n", copyEnv)
	if s.CopyEnvFiles {
		fmt.Fprintf(w.out, "  File Patterns: %s\n", strings.Join(s.EnvFilePatterns, ", "))
	}
	fmt.Fprintln(w.out)
}
