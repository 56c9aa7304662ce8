package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/letsdev/lets/internal/git"
	"github.com/letsdev/lets/internal/util"
)

// Entry is one worktree found under a repository's worktree directory.
type Entry struct {
	Branch string
	Path   string
	// Status is "clean", "N uncommitted" or "error".
	Status string
}

// List finds the worktrees under <base>/<repo>/ and summarises their git
// status. A directory is a worktree when it contains a .git entry; branch
// names with slashes are found at any depth. A missing directory yields no
// entries.
func List(r util.Runner, base, repo string) ([]Entry, error) {
	root := filepath.Join(base, repo)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if _, err := os.Lstat(filepath.Join(path, ".git")); err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		entries = append(entries, Entry{
			Branch: filepath.ToSlash(rel),
			Path:   path,
			Status: statusSummary(git.NewGit(r, path)),
		})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Branch < entries[j].Branch })
	return entries, nil
}

func statusSummary(g *git.Git) string {
	st, err := g.Status()
	if err != nil {
		return "error"
	}
	if st.Clean {
		return "clean"
	}
	return fmt.Sprintf("%d uncommitted", st.Uncommitted())
}

// Remove deletes the worktree for name under <base>/<repo>/ and returns its
// path. Without force git refuses to drop a worktree with local changes.
func Remove(g *git.Git, base, repo, name string, force bool) (string, error) {
	path := WorktreePath(base, repo, name)
	if err := checkContained(base, repo, path); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no worktree for '%s' at %s", name, path)
	}
	if err := g.WorktreeRemove(path, force); err != nil {
		return "", fmt.Errorf("removing worktree: %w", err)
	}
	return path, nil
}
