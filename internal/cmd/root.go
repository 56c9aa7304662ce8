// Package cmd implements the lets command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/history"
	"github.com/letsdev/lets/internal/launcher"
	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/ui"
	"github.com/letsdev/lets/internal/util"
	"github.com/letsdev/lets/internal/wizard"
	"github.com/letsdev/lets/internal/workspace"
)

// Command groups
const (
	GroupWorkspace = "workspace"
	GroupConfig    = "config"
	GroupDiag      = "diag"
)

// exitInterrupted is the shell convention for a process stopped by SIGINT.
const exitInterrupted = 130

// Collaborators, replaced in tests.
var (
	newRunner   = func() util.Runner { return util.NewExecRunner() }
	newPrompter = func() prompt.Prompter { return prompt.NewTerminal() }
	configPath  = config.DefaultPath
	historyPath = history.DefaultPath
)

// runFlags are the flags of the main `lets TASK` command.
type runFlags struct {
	session     string
	branch      string
	baseBranch  string
	aiTool      string
	launcher    string
	attach      bool
	noAttach    bool
	copyEnv     bool
	noCopyEnv   bool
	envFiles    []string
	force       bool
	verbose     bool
	dryRun      bool
	worktreeDir string
	setup       bool
}

var rootFlags runFlags

var rootCmd = &cobra.Command{
	Use:   "lets [TASK]",
	Short: "Create an AI-assisted development workspace for a task",
	Long: `lets creates an isolated git worktree for a task, names its branch with
your AI tool, and opens the worktree in a tmux session or a new terminal
window with your editor and the AI tool side by side.

Command-line flags override the configuration file only when given.`,
	Example: `  lets "Fix authentication bug in issue #234"
  lets "Implement dark mode" --session frontend
  lets "Refactor database layer" --branch db-refactor
  lets "Debug performance issue" --no-attach
  lets "Emergency hotfix" --force
  lets "Major refactor" --dry-run
  lets --setup`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorkspace, Title: "Workspaces:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
	addRunFlags(rootCmd.Flags(), &rootFlags)
}

// addRunFlags registers the main command's flags on fs.
func addRunFlags(fs *pflag.FlagSet, f *runFlags) {
	fs.StringVarP(&f.session, "session", "s", "dev", "tmux session name (multiplexer launcher only)")
	fs.StringVarP(&f.branch, "branch", "b", "", "Override branch name (default: auto-generated)")
	fs.StringVar(&f.baseBranch, "base-branch", "", "Base branch for the worktree (default: auto-detect)")
	fs.StringVar(&f.aiTool, "ai-tool", "claude", "AI tool command to use")
	fs.StringVar(&f.launcher, "launcher", "", "Launcher to use (multiplexer, terminal-window)")
	fs.BoolVar(&f.attach, "attach", true, "Attach to the workspace after setup")
	fs.BoolVar(&f.noAttach, "no-attach", false, "Do not attach to the workspace after setup")
	fs.BoolVar(&f.copyEnv, "copy-env", true, "Copy env files to the new worktree")
	fs.BoolVar(&f.noCopyEnv, "no-copy-env", false, "Do not copy env files")
	fs.StringSliceVar(&f.envFiles, "env-files", append([]string(nil), config.DefaultEnvFilePatterns...), "Env file patterns to copy (repeatable)")
	fs.BoolVarP(&f.force, "force", "f", false, "Remove an existing worktree directory without prompting")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Show verbose output")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Show what would be done without doing it")
	fs.StringVar(&f.worktreeDir, "worktree-dir", "", "Base directory for worktrees")
	fs.BoolVar(&f.setup, "setup", false, "Run the interactive setup wizard")
}

// buildRequest merges flags over settings. A flag only wins when it was
// given on the command line.
func buildRequest(fs *pflag.FlagSet, f *runFlags, s config.Settings, task string) workspace.Request {
	req := workspace.Request{
		Task:        task,
		Branch:      f.branch,
		BaseBranch:  f.baseBranch,
		Launcher:    f.launcher,
		Session:     s.Launchers.Tmux.Session,
		AITool:      s.AITool,
		CopyEnv:     s.CopyEnvFiles,
		EnvFiles:    s.EnvFilePatterns,
		Force:       f.force,
		WorktreeDir: f.worktreeDir,
		Attach:      s.Launchers.Tmux.AutoAttach,
		DryRun:      f.dryRun,
		Verbose:     f.verbose,
	}

	if fs.Changed("session") || req.Session == "" {
		req.Session = f.session
	}
	if fs.Changed("ai-tool") || req.AITool == "" {
		req.AITool = f.aiTool
	}
	if fs.Changed("env-files") {
		req.EnvFiles = f.envFiles
	}
	if fs.Changed("attach") {
		req.Attach = f.attach
	}
	if fs.Changed("no-attach") && f.noAttach {
		req.Attach = false
	}
	if fs.Changed("copy-env") {
		req.CopyEnv = f.copyEnv
	}
	if fs.Changed("no-copy-env") && f.noCopyEnv {
		req.CopyEnv = false
	}
	return req
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ui.InitTheme()
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(versionTemplate())

	err := rootCmd.Execute()
	logger.Close()
	return exitCode(rootCmd.OutOrStdout(), err)
}

func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if code, ok := IsSilentExit(err); ok {
		return code
	}
	if errors.Is(err, ui.ErrInterrupted) {
		style.FprintWarning(w, "Interrupted")
		return exitInterrupted
	}
	style.FprintError(w, "%v", err)
	return 1
}

func runRoot(cmd *cobra.Command, args []string) error {
	f := &rootFlags
	out := cmd.OutOrStdout()

	ui.DisableSpinner(f.verbose)
	if err := logger.Init(logger.DefaultPath(), f.verbose); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	logger.Debug("lets %s", strings.Join(os.Args[1:], " "))

	p := newPrompter()
	r := newRunner()
	path := configPath()

	if f.setup {
		return runSetup(out, p, r, path)
	}

	wizardRan, err := firstRun(out, p, r, path)
	if err != nil {
		return err
	}
	if wizardRan {
		cont, err := p.Confirm("Continue with current task?", true)
		if err != nil || !cont {
			style.FprintInfo(out, "Setup complete. Run 'lets --help' for usage information.")
			return nil
		}
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		style.FprintError(out, "TASK argument is required (unless using --setup)")
		fmt.Fprintln(out, "Run 'lets --help' for usage information")
		return NewSilentExit(1)
	}

	s, err := config.Load(path)
	if err != nil {
		return err
	}
	req := buildRequest(cmd.Flags(), f, s, args[0])

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	o := workspace.New(workspace.Options{
		Settings: s,
		Runner:   r,
		Prompter: p,
		Out:      out,
		Cwd:      cwd,
		History:  history.NewLog(historyPath()),
	})
	if _, err := o.Run(req); err != nil {
		return reportRunError(out, err)
	}
	return nil
}

// reportRunError prints launcher errors with their alternatives and turns
// every failure into exit code 1.
func reportRunError(w io.Writer, err error) error {
	var unavailable *workspace.UnavailableLauncherError
	if errors.As(err, &unavailable) {
		style.FprintError(w, "Launcher '%s' is not available", unavailable.ID)
		style.FprintInfo(w, "Available launchers: %s", joinIDs(unavailable.Available))
		return NewSilentExit(1)
	}
	var unknown *launcher.UnknownLauncherError
	if errors.As(err, &unknown) {
		style.FprintError(w, "%s", unknown.Error())
		return NewSilentExit(1)
	}
	return err
}

func joinIDs(ids []launcher.ID) string {
	if len(ids) == 0 {
		return "(none)"
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

// firstRun runs the wizard and saves its result when no settings file
// exists yet.
func firstRun(out io.Writer, p prompt.Prompter, r util.Runner, path string) (bool, error) {
	if config.Exists(path) {
		return false, nil
	}
	style.FprintInfo(out, "No configuration found. Running first-time setup...")
	if err := runWizard(out, p, r, path); err != nil {
		return false, err
	}
	fmt.Fprintln(out)
	return true, nil
}

// runSetup handles --setup, asking before overwriting existing settings.
func runSetup(out io.Writer, p prompt.Prompter, r util.Runner, path string) error {
	if config.Exists(path) {
		style.FprintWarning(out, "Configuration file already exists.")
		again, err := p.Confirm("Do you want to reconfigure?", false)
		if err != nil || !again {
			style.FprintInfo(out, "Setup cancelled.")
			return nil
		}
	}
	return runWizard(out, p, r, path)
}

func runWizard(out io.Writer, p prompt.Prompter, r util.Runner, path string) error {
	s, err := wizard.New(p, out, r, nil).Run()
	if err != nil {
		return err
	}
	if err := config.Save(path, s); err != nil {
		return err
	}
	fmt.Fprintln(out)
	style.FprintSuccess(out, "Setup complete!")
	style.FprintInfo(out, "Configuration saved to: %s", path)
	style.FprintInfo(out, "You can edit this file anytime to customize settings.")
	return nil
}
