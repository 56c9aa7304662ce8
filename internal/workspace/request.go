// Package workspace sequences the git, file and launcher steps that turn a
// task description into a ready-to-use worktree.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/letsdev/lets/internal/launcher"
)

// Request is everything one invocation asks for. Callers build it once and
// never modify it afterwards.
type Request struct {
	Task string
	// Branch overrides AI branch naming when set.
	Branch string
	// BaseBranch is tried before auto-detection when set.
	BaseBranch string
	// Launcher is an explicit launcher choice; empty means use settings.
	Launcher string
	Session  string
	AITool   string
	CopyEnv  bool
	EnvFiles []string
	Force    bool
	// WorktreeDir overrides the configured worktree root.
	WorktreeDir string
	Attach      bool
	DryRun      bool
	Verbose     bool
}

// Record describes a worktree created (or, for dry runs, planned).
type Record struct {
	Path       string
	Repo       string
	Branch     string
	BaseBranch string
	Existing   bool
	Launcher   launcher.ID
	// LauncherReady is false when the launcher's Setup failed.
	LauncherReady bool
	DryRun        bool
}

// WorktreePath joins base, repo and branch.
func WorktreePath(base, repo, branch string) string {
	return filepath.Join(base, repo, branch)
}

// UnavailableLauncherError reports a known launcher that cannot run here.
type UnavailableLauncherError struct {
	ID        launcher.ID
	Available []launcher.ID
}

func (e *UnavailableLauncherError) Error() string {
	return fmt.Sprintf("launcher '%s' is not available", e.ID)
}
