package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/letsdev/lets/internal/git"
	"github.com/letsdev/lets/internal/testutil"
)

func makeWorktree(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, ".git"), []byte("gitdir: /src/myrepo/.git/worktrees/x\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "myrepo")
	makeWorktree(t, filepath.Join(root, "fix-bug"))
	makeWorktree(t, filepath.Join(root, "feature", "login"))
	makeWorktree(t, filepath.Join(root, "broken"))
	if err := os.MkdirAll(filepath.Join(root, "not-a-worktree"), 0755); err != nil {
		t.Fatal(err)
	}

	r := testutil.NewFakeRunner().
		On("git status --porcelain=v2", "", nil)
	dirty := &dirRunner{FakeRunner: r, byDir: map[string]string{
		filepath.Join(root, "feature", "login"): "1 .M N... 100644 100644 100644 abc abc main.go\n? notes.txt",
	}, failing: filepath.Join(root, "broken")}

	entries, err := List(dirty, base, "myrepo")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Branch + "=" + e.Status
	}
	want := "broken=error,feature/login=2 uncommitted,fix-bug=clean"
	if strings.Join(got, ",") != want {
		t.Errorf("entries = %v, want %s", got, want)
	}
}

func TestList_MissingDirectory(t *testing.T) {
	entries, err := List(testutil.NewFakeRunner(), t.TempDir(), "nothing")
	if err != nil || entries != nil {
		t.Errorf("List = (%v, %v), want (nil, nil)", entries, err)
	}
}

func TestRemove(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "myrepo", "fix-bug")
	makeWorktree(t, path)
	r := testutil.NewFakeRunner()

	got, err := Remove(git.NewGit(r, "/src/myrepo"), base, "myrepo", "fix-bug", false)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if !r.Ran("git worktree remove " + path) {
		t.Errorf("calls: %v", r.Lines())
	}

	if _, err := Remove(git.NewGit(r, "/src/myrepo"), base, "myrepo", "missing", false); err == nil {
		t.Error("expected error for a missing worktree")
	}
	if _, err := Remove(git.NewGit(r, "/src/myrepo"), base, "myrepo", "../..", true); err == nil {
		t.Error("expected error for a path outside the repo directory")
	}
}

// dirRunner answers git status per working directory.
type dirRunner struct {
	*testutil.FakeRunner
	byDir   map[string]string
	failing string
}

func (d *dirRunner) Output(workDir, cmd string, args ...string) (string, error) {
	if workDir == d.failing {
		return "", errors.New("fatal: not a git repository")
	}
	if out, ok := d.byDir[workDir]; ok {
		return out, nil
	}
	return d.FakeRunner.Output(workDir, cmd, args...)
}
