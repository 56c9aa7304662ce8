// Package git wraps the git operations lets needs for worktree management.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/letsdev/lets/internal/util"
)

// ErrNotRepository is returned when the working directory is outside a git
// work tree.
var ErrNotRepository = errors.New("not in a git repository")

// Git runs git commands in a fixed working directory.
type Git struct {
	runner util.Runner
	dir    string
}

// NewGit returns a Git for dir. An empty dir means the process working
// directory.
func NewGit(r util.Runner, dir string) *Git {
	return &Git{runner: r, dir: dir}
}

// Dir returns the directory commands run in.
func (g *Git) Dir() string {
	return g.dir
}

// At returns a Git for another directory sharing the same runner.
func (g *Git) At(dir string) *Git {
	return NewGit(g.runner, dir)
}

func (g *Git) output(args ...string) (string, error) {
	return g.runner.Output(g.dir, "git", args...)
}

func (g *Git) run(args ...string) error {
	return g.runner.Run(g.dir, "git", args...)
}

// RepoRoot returns the top-level directory of the current work tree.
func (g *Git) RepoRoot() (string, error) {
	root, err := g.output("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	if root == "" {
		return "", fmt.Errorf("failed to get repository root")
	}
	return root, nil
}

// CurrentBranch returns the checked-out branch, or "" on a detached HEAD.
func (g *Git) CurrentBranch() (string, error) {
	branch, err := g.output("branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return branch, nil
}

// RefExists reports whether ref resolves. Any failure counts as absent.
func (g *Git) RefExists(ref string) bool {
	_, err := g.output("rev-parse", "--verify", ref)
	return err == nil
}

// BranchExists checks the local branch first, then origin/<name>.
func (g *Git) BranchExists(name string) bool {
	return g.RefExists(name) || g.RefExists("origin/"+name)
}

// Fetch fetches from remote.
func (g *Git) Fetch(remote string) error {
	return g.run("fetch", remote)
}

// WorktreeAdd checks out an existing branch into a new worktree at path.
func (g *Git) WorktreeAdd(path, branch string) error {
	return g.run("worktree", "add", path, branch)
}

// WorktreeAddNewBranch creates branch from base and checks it out at path.
func (g *Git) WorktreeAddNewBranch(path, branch, base string) error {
	return g.run("worktree", "add", "-b", branch, path, base)
}

// WorktreeRemove removes the worktree at path.
func (g *Git) WorktreeRemove(path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	return g.run(args...)
}

// PushSetUpstream publishes branch to origin and tracks it.
func (g *Git) PushSetUpstream(branch string) error {
	return g.run("push", "--set-upstream", "origin", branch)
}

// SetUpstreamToMain tracks origin/main without pushing.
func (g *Git) SetUpstreamToMain(branch string) error {
	return g.run("branch", "--set-upstream-to=origin/main", branch)
}

// GitStatus is a parsed `git status --porcelain`.
type GitStatus struct {
	Clean     bool
	Modified  []string
	Added     []string
	Deleted   []string
	Untracked []string
}

// Uncommitted counts every changed or untracked path.
func (s *GitStatus) Uncommitted() int {
	return len(s.Modified) + len(s.Added) + len(s.Deleted) + len(s.Untracked)
}

// Status returns the working tree status. Porcelain v2 is used because its
// lines never start with whitespace, which output trimming would eat.
func (g *Git) Status() (*GitStatus, error) {
	out, err := g.output("status", "--porcelain=v2")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

func parseStatus(out string) *GitStatus {
	status := &GitStatus{Clean: true}
	for _, line := range strings.Split(out, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var code, file string
		switch line[0] {
		case '?':
			status.Clean = false
			status.Untracked = append(status.Untracked, strings.TrimPrefix(line, "? "))
			continue
		case '1', 'u':
			// 1 XY sub mH mI mW hH hI path
			parts := strings.SplitN(line, " ", 9)
			if len(parts) < 9 {
				continue
			}
			code, file = parts[1], parts[8]
		case '2':
			// 2 XY sub mH mI mW hH hI Xscore path<TAB>orig
			parts := strings.SplitN(line, " ", 10)
			if len(parts) < 10 {
				continue
			}
			code, file = parts[1], strings.SplitN(parts[9], "\t", 2)[0]
		default:
			continue
		}

		status.Clean = false
		switch {
		case strings.Contains(code, "A"):
			status.Added = append(status.Added, file)
		case strings.Contains(code, "D"):
			status.Deleted = append(status.Deleted, file)
		default:
			status.Modified = append(status.Modified, file)
		}
	}
	return status
}
