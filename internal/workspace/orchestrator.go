package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/letsdev/lets/internal/branch"
	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/git"
	"github.com/letsdev/lets/internal/history"
	"github.com/letsdev/lets/internal/launcher"
	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/ui"
	"github.com/letsdev/lets/internal/util"
)

// ErrNotRepository is returned when the working directory is not inside a
// git repository.
var ErrNotRepository = git.ErrNotRepository

// Options are the collaborators an Orchestrator works with. Zero values are
// replaced by the real process environment.
type Options struct {
	Settings config.Settings
	Runner   util.Runner
	Prompter prompt.Prompter
	Out      io.Writer
	Getenv   func(string) string
	GOOS     string
	Now      func() time.Time
	// Cwd is where the repository is looked up and env files are copied from.
	Cwd string
	// History receives an event per created worktree; nil disables it.
	History *history.Log
}

// Orchestrator turns a Request into a worktree plus a launched workspace.
type Orchestrator struct {
	opts Options
}

// New returns an Orchestrator using opts.
func New(opts Options) *Orchestrator {
	if opts.Runner == nil {
		opts.Runner = util.NewExecRunner()
	}
	if opts.Prompter == nil {
		opts.Prompter = prompt.NewTerminal()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{opts: opts}
}

func (o *Orchestrator) out() io.Writer { return o.opts.Out }

func (o *Orchestrator) cwd() (string, error) {
	if o.opts.Cwd != "" {
		return o.opts.Cwd, nil
	}
	return os.Getwd()
}

// Run executes the whole workflow for req. With req.DryRun set it stops
// after printing what would happen.
func (o *Orchestrator) Run(req Request) (*Record, error) {
	out := o.out()
	if req.DryRun {
		style.FprintWarning(out, "DRY RUN MODE - No changes will be made")
	}

	cwd, err := o.cwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	g := git.NewGit(o.opts.Runner, cwd)
	root, err := g.RepoRoot()
	if err != nil {
		return nil, err
	}
	if _, err := g.CurrentBranch(); err != nil {
		return nil, fmt.Errorf("getting current branch: %w", err)
	}
	repo := filepath.Base(root)
	logger.Debug("repository %s at %s", repo, root)

	style.FprintInfo(out, "Task: %s", req.Task)

	name := req.Branch
	if name == "" {
		name, err = branch.NewNamer(o.opts.Runner, out, o.opts.Now, req.Verbose).FromTask(req.Task, req.AITool)
		if err != nil {
			return nil, err
		}
	}
	resolved := branch.NewResolver(g, o.opts.Prompter, out, o.opts.Now).Resolve(name)
	style.FprintInfo(out, "Branch name: %s", resolved.Name)
	if resolved.Existing {
		style.FprintInfo(out, "Using existing branch")
	}

	reg := o.registry(req, repo)
	id, err := o.selectLauncher(reg, req)
	if err != nil {
		return nil, err
	}
	style.FprintInfo(out, "Using launcher: %s", id)

	base, err := config.ResolveWorktreeBase(req.WorktreeDir, o.opts.Settings.WorktreeBaseDir)
	if err != nil {
		return nil, err
	}
	rec := &Record{
		Repo:     repo,
		Branch:   resolved.Name,
		Existing: resolved.Existing,
		Launcher: id,
		Path:     WorktreePath(base, repo, resolved.Name),
	}
	if err := checkContained(base, repo, rec.Path); err != nil {
		return nil, err
	}

	if req.DryRun {
		rec.DryRun = true
		rec.BaseBranch = o.detectBaseBranch(g, req.BaseBranch)
		style.FprintInfo(out, "Would create worktree at: %s", rec.Path)
		style.FprintInfo(out, "Would use base branch: %s", rec.BaseBranch)
		style.FprintInfo(out, "Would use launcher: %s", id)
		style.FprintInfo(out, "Would run: %s", launcher.AICommand(req.AITool, req.Task))
		return rec, nil
	}

	if err := os.MkdirAll(filepath.Join(base, repo), 0755); err != nil {
		return nil, fmt.Errorf("creating worktree directory: %w", err)
	}
	if _, err := os.Stat(rec.Path); err == nil {
		if err := o.handleExisting(g, rec, base, req.Force); err != nil {
			return nil, err
		}
	}

	rec.BaseBranch = o.detectBaseBranch(g, req.BaseBranch)
	if err := o.createWorktree(g, rec); err != nil {
		return nil, err
	}

	if req.CopyEnv {
		o.copyEnv(cwd, rec.Path, req.EnvFiles)
	}

	l, err := reg.Get(string(id))
	if err != nil {
		return nil, err
	}
	rec.LauncherReady = l.Setup(rec.Path, rec.Branch, req.Task, req.AITool)
	if !rec.LauncherReady {
		style.FprintWarning(out, "%s setup failed, but worktree was created successfully", id)
	}

	o.recordHistory(rec, req.Task)
	o.printSummary(l, rec)
	l.HandleAttachment(rec.Path, rec.Branch)
	return rec, nil
}

// registry builds launchers whose multiplexer settings carry this run's
// session and attach choice.
func (o *Orchestrator) registry(req Request, repo string) *launcher.Registry {
	s := o.opts.Settings
	if req.Session != "" {
		s.Launchers.Tmux.Session = req.Session
	}
	s.Launchers.Tmux.AutoAttach = req.Attach
	return launcher.NewRegistry(s, launcher.Env{
		Runner:   o.opts.Runner,
		Prompter: o.opts.Prompter,
		Out:      o.opts.Out,
		Getenv:   o.opts.Getenv,
		GOOS:     o.opts.GOOS,
		RepoName: repo,
	})
}

// selectLauncher applies the selection policy: an explicit launcher must be
// known and available; a configured one must be available when known and
// falls back to the best available one when it is not.
func (o *Orchestrator) selectLauncher(reg *launcher.Registry, req Request) (launcher.ID, error) {
	if req.Launcher != "" {
		id, err := reg.Resolve(req.Launcher)
		if err != nil {
			return "", err
		}
		if !reg.IsAvailable(id) {
			return "", &UnavailableLauncherError{ID: id, Available: reg.Available()}
		}
		return id, nil
	}

	configured := o.opts.Settings.Launcher
	if configured != "" {
		id, err := reg.Resolve(configured)
		if err == nil {
			if !reg.IsAvailable(id) {
				return "", &UnavailableLauncherError{ID: id, Available: reg.Available()}
			}
			return id, nil
		}
		style.FprintWarning(o.out(), "Unknown launcher '%s' in configuration, picking one automatically", configured)
	}

	id := reg.SelectBest(launcher.Multiplexer)
	if !reg.IsAvailable(id) {
		return "", &UnavailableLauncherError{ID: id, Available: reg.Available()}
	}
	return id, nil
}

func checkContained(base, repo, path string) error {
	parent := filepath.Join(base, repo)
	rel, err := filepath.Rel(parent, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("worktree path %s is outside %s", path, parent)
	}
	return nil
}

// handleExisting clears or sidesteps a directory already at rec.Path.
func (o *Orchestrator) handleExisting(g *git.Git, rec *Record, base string, force bool) error {
	out := o.out()
	if force {
		style.FprintWarning(out, "Force removing existing directory: %s", rec.Path)
		return o.removeExisting(g, rec.Path)
	}

	style.FprintError(out, "Directory already exists: %s", rec.Path)
	remove, err := o.opts.Prompter.Confirm("Remove existing directory and continue?", false)
	if err != nil {
		logger.Debug("confirm failed: %v", err)
		remove = false
	}
	if remove {
		return o.removeExisting(g, rec.Path)
	}

	alt := fmt.Sprintf("%s-%s", rec.Branch, o.opts.Now().UTC().Format("150405"))
	// An existing branch keeps its name; only its directory moves.
	if !rec.Existing {
		rec.Branch = alt
	}
	rec.Path = WorktreePath(base, rec.Repo, alt)
	style.FprintInfo(out, "Using alternative: %s", alt)
	return nil
}

func (o *Orchestrator) removeExisting(g *git.Git, path string) error {
	if err := g.WorktreeRemove(path, true); err != nil {
		logger.Debug("worktree remove %s: %v", path, err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// BaseCandidates are tried in order when no usable base branch was given.
var BaseCandidates = []string{"origin/main", "origin/master", "main", "master"}

func (o *Orchestrator) detectBaseBranch(g *git.Git, explicit string) string {
	candidate := explicit
	if candidate == "" {
		candidate = o.opts.Settings.DefaultBaseBranch
	}
	if candidate != "" {
		if g.RefExists(candidate) {
			return candidate
		}
		style.FprintWarning(o.out(), "Branch '%s' not found, trying defaults...", candidate)
	}
	for _, b := range BaseCandidates {
		if g.RefExists(b) {
			return b
		}
	}
	style.FprintWarning(o.out(), "Using HEAD as base branch")
	return "HEAD"
}

func (o *Orchestrator) createWorktree(g *git.Git, rec *Record) error {
	if err := ui.Spin("Fetching latest changes...", func() error {
		return g.Fetch("origin")
	}); err != nil {
		if errors.Is(err, ui.ErrInterrupted) {
			return err
		}
		logger.Warn("fetch origin: %v", err)
	}

	var err error
	if rec.Existing {
		err = ui.Spin(fmt.Sprintf("Creating worktree from branch '%s'...", rec.Branch), func() error {
			return g.WorktreeAdd(rec.Path, rec.Branch)
		})
	} else {
		err = ui.Spin(fmt.Sprintf("Creating worktree with new branch '%s'...", rec.Branch), func() error {
			return g.WorktreeAddNewBranch(rec.Path, rec.Branch, rec.BaseBranch)
		})
	}
	if err != nil {
		if errors.Is(err, ui.ErrInterrupted) {
			return err
		}
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("branch '%s' already exists: %w", rec.Branch, err)
		}
		return fmt.Errorf("failed to create worktree: %w", err)
	}

	if !rec.Existing {
		o.setUpstream(g.At(rec.Path), rec.Branch)
	}
	return nil
}

// setUpstream publishes a new branch, falling back to local tracking when
// the push is rejected or there is no remote.
func (o *Orchestrator) setUpstream(g *git.Git, name string) {
	err := g.PushSetUpstream(name)
	if err == nil {
		return
	}
	logger.Warn("push --set-upstream %s: %v", name, err)
	style.FprintWarning(o.out(), "Could not push '%s' to origin, setting up local tracking", name)
	if err := g.SetUpstreamToMain(name); err != nil {
		logger.Warn("set upstream for %s: %v", name, err)
	}
}

func (o *Orchestrator) copyEnv(src, dest string, patterns []string) {
	copied, err := CopyEnvFiles(src, dest, patterns)
	for _, name := range copied {
		style.FprintInfo(o.out(), "Copied %s to new worktree", name)
	}
	if err != nil {
		style.FprintWarning(o.out(), "Some env files could not be copied: %v", err)
	}
}

func (o *Orchestrator) recordHistory(rec *Record, task string) {
	if o.opts.History == nil {
		return
	}
	if _, err := o.opts.History.Append(history.Event{
		Type:     history.EventCreated,
		Repo:     rec.Repo,
		Branch:   rec.Branch,
		Path:     rec.Path,
		Launcher: string(rec.Launcher),
		Task:     task,
	}); err != nil {
		logger.Warn("recording history: %v", err)
	}
}

func (o *Orchestrator) printSummary(l launcher.Launcher, rec *Record) {
	out := o.out()
	fmt.Fprintln(out)
	style.FprintSuccess(out, "Workspace ready!")
	fmt.Fprintln(out)
	style.FprintInfo(out, "Worktree: %s", rec.Path)
	style.FprintInfo(out, "Branch: %s", rec.Branch)
	style.FprintInfo(out, "Launcher: %s", rec.Launcher)

	if lines := l.Instructions(rec.Path, rec.Branch); len(lines) > 0 {
		fmt.Fprintln(out)
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "When you're done, remove the worktree:")
	fmt.Fprintln(out, style.Command.Render("  git worktree remove "+rec.Path))
}

// IsNotRepository reports whether err means the cwd is outside a repo.
func IsNotRepository(err error) bool {
	return errors.Is(err, ErrNotRepository)
}
