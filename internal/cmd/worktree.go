package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/git"
	"github.com/letsdev/lets/internal/history"
	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/util"
	"github.com/letsdev/lets/internal/workspace"
)

var worktreeCmd = &cobra.Command{
	Use:     "worktree",
	GroupID: GroupWorkspace,
	Short:   "List and remove lets worktrees of the current repository",
	RunE:    requireSubcommand,
}

var worktreeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List worktrees created for the current repository",
	Long: `List the worktrees lets created for the current repository, with a
git status summary for each.

Example output:
  Worktrees for myrepo:

    BRANCH          PATH                                             STATUS
    fix-login-bug   ~/.local/share/lets/worktrees/myrepo/fix-login-bug  clean
    add-dark-mode   ~/.local/share/lets/worktrees/myrepo/add-dark-mode  2 uncommitted`,
	Args: cobra.NoArgs,
	RunE: runWorktreeList,
}

// Worktree remove command flags
var (
	worktreeRemoveForce bool
)

var worktreeRemoveCmd = &cobra.Command{
	Use:   "remove <branch>",
	Short: "Remove a worktree created by lets",
	Long: `Remove the worktree lets created for a branch of the current repository.

Worktrees with uncommitted changes are refused unless --force is used.
The branch itself is kept.

Examples:
  lets worktree remove fix-login-bug
  lets worktree remove fix-login-bug --force`,
	Args: cobra.ExactArgs(1),
	RunE: runWorktreeRemove,
}

var worktreeDirFlag string

func init() {
	worktreeCmd.PersistentFlags().StringVar(&worktreeDirFlag, "worktree-dir", "", "Base directory for worktrees")
	worktreeRemoveCmd.Flags().BoolVarP(&worktreeRemoveForce, "force", "f", false, "Force remove even with uncommitted changes")
	worktreeCmd.AddCommand(worktreeListCmd, worktreeRemoveCmd)
	rootCmd.AddCommand(worktreeCmd)
}

// currentRepo returns git for the repository containing the cwd, its name
// and the worktree base directory.
func currentRepo(r util.Runner) (*git.Git, string, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", "", err
	}
	g := git.NewGit(r, cwd)
	root, err := g.RepoRoot()
	if err != nil {
		return nil, "", "", err
	}

	s, err := config.Load(configPath())
	if err != nil {
		return nil, "", "", err
	}
	base, err := config.ResolveWorktreeBase(worktreeDirFlag, s.WorktreeBaseDir)
	if err != nil {
		return nil, "", "", err
	}
	return g.At(root), filepath.Base(root), base, nil
}

func runWorktreeList(cmd *cobra.Command, args []string) error {
	r := newRunner()
	_, repo, base, err := currentRepo(r)
	if err != nil {
		return err
	}

	entries, err := workspace.List(r, base, repo)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Worktrees for %s:\n\n", repo)
	if len(entries) == 0 {
		fmt.Fprintf(out, "  (none)\n")
		fmt.Fprintf(out, "\nCreate one with: lets \"<task>\"\n")
		return nil
	}
	tbl := style.NewTable(
		style.Column{Name: "BRANCH", Width: 30},
		style.Column{Name: "PATH", Width: 60},
		style.Column{Name: "STATUS", Width: 16},
	)
	for _, e := range entries {
		tbl.AddRow(e.Branch, displayPath(e.Path), e.Status)
	}
	fmt.Fprint(out, tbl.Render())
	return nil
}

// displayPath abbreviates the home directory to ~.
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return "~/" + filepath.ToSlash(rel)
	}
	return path
}

func runWorktreeRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	r := newRunner()
	g, repo, base, err := currentRepo(r)
	if err != nil {
		return err
	}

	// Dirty worktrees need --force.
	if !worktreeRemoveForce {
		path := workspace.WorktreePath(base, repo, name)
		if st, err := g.At(path).Status(); err == nil && !st.Clean {
			return fmt.Errorf("worktree has %d uncommitted - use --force to remove anyway", st.Uncommitted())
		}
	}

	path, err := workspace.Remove(g, base, repo, name, worktreeRemoveForce)
	if err != nil {
		return err
	}

	log := history.NewLog(historyPath())
	if _, err := log.Append(history.Event{
		Type:   history.EventRemoved,
		Repo:   repo,
		Branch: name,
		Path:   path,
	}); err != nil {
		logger.Warn("recording history: %v", err)
	}

	style.FprintSuccess(cmd.OutOrStdout(), "Removed worktree at %s", path)
	return nil
}
