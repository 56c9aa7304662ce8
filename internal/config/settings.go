// Package config loads and saves the lets settings document.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/letsdev/lets/internal/util"
)

// ErrNotFound indicates the settings file does not exist.
var ErrNotFound = errors.New("config not found")

const saveLockTimeout = 5 * time.Second

// Settings is the TOML document at $XDG_CONFIG_HOME/lets/config.toml.
type Settings struct {
	// Launcher is the default launcher id ("multiplexer", "terminal-window",
	// or the legacy "tmux" / "terminal").
	Launcher string `toml:"launcher"`

	// AITool is the command used for branch naming and inside the workspace.
	AITool string `toml:"ai_tool"`

	// EditorCommand overrides $EDITOR and editor auto-detection.
	EditorCommand string `toml:"editor_command"`

	// WorktreeBaseDir overrides the XDG data directory for worktrees.
	WorktreeBaseDir string `toml:"worktree_base_dir"`

	CopyEnvFiles    bool     `toml:"copy_env_files"`
	EnvFilePatterns []string `toml:"env_file_patterns"`

	// DefaultBaseBranch is tried before auto-detection when set.
	DefaultBaseBranch string `toml:"default_base_branch"`

	Launchers LauncherSettings `toml:"launchers"`
}

// LauncherSettings holds per-launcher sections.
type LauncherSettings struct {
	Tmux     TmuxSettings     `toml:"tmux"`
	Terminal TerminalSettings `toml:"terminal"`
}

// TmuxSettings configures the multiplexer launcher.
type TmuxSettings struct {
	Session    string `toml:"session"`
	AutoAttach bool   `toml:"auto_attach"`
}

// TerminalSettings configures the terminal-window launcher.
type TerminalSettings struct {
	// TerminalCommand replaces terminal detection when non-empty.
	TerminalCommand string `toml:"terminal_command"`
}

// DefaultEnvFilePatterns are copied into new worktrees unless overridden.
var DefaultEnvFilePatterns = []string{".env", ".env.local", ".env.development"}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Launcher:        "multiplexer",
		AITool:          "claude",
		CopyEnvFiles:    true,
		EnvFilePatterns: append([]string(nil), DefaultEnvFilePatterns...),
		Launchers: LauncherSettings{
			Tmux: TmuxSettings{
				Session:    "dev",
				AutoAttach: true,
			},
		},
	}
}

// DefaultPath returns the settings file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "lets", "config.toml")
}

// DefaultWorktreeBase is where worktrees go when nothing overrides it.
func DefaultWorktreeBase() string {
	return filepath.Join(xdg.DataHome, "lets", "worktrees")
}

// Exists reports whether a settings file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadFile decodes path over Defaults without applying environment
// overrides. A missing file returns the defaults and ErrNotFound.
func LoadFile(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the settings location
	if err != nil {
		if os.IsNotExist(err) {
			return s, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return s, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), &s); err != nil {
		return Defaults(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return s, nil
}

// Load returns the effective settings: defaults, then the file at path,
// then LETS_* environment variables. A missing file is not an error.
func Load(path string) (Settings, error) {
	s, err := LoadFile(path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s, err
	}
	if err := ApplyEnv(&s, os.LookupEnv); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes s to path under an exclusive file lock.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), saveLockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring config lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquiring config lock: timed out")
	}
	defer func() { _ = lock.Unlock() }()

	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Encode renders s as TOML.
func Encode(s Settings) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyEnv overlays LETS_* variables onto s. lookup is os.LookupEnv in
// production.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"LETS_LAUNCHER", &s.Launcher},
		{"LETS_AI_TOOL", &s.AITool},
		{"LETS_EDITOR_COMMAND", &s.EditorCommand},
		{"LETS_WORKTREE_BASE_DIR", &s.WorktreeBaseDir},
		{"LETS_DEFAULT_BASE_BRANCH", &s.DefaultBaseBranch},
	}
	for _, e := range strs {
		if v, ok := lookup(e.key); ok {
			*e.dst = v
		}
	}

	if v, ok := lookup("LETS_COPY_ENV_FILES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LETS_COPY_ENV_FILES: invalid boolean %q", v)
		}
		s.CopyEnvFiles = b
	}
	return nil
}

// ResolveWorktreeBase picks the worktree root: the --worktree-dir override,
// then the configured directory, then $LETS_WORKTREE_DIR, then the XDG
// data directory. Explicit paths are expanded and made absolute.
func ResolveWorktreeBase(override, configured string) (string, error) {
	for _, dir := range []string{override, configured, os.Getenv("LETS_WORKTREE_DIR")} {
		if dir == "" {
			continue
		}
		return expandPath(dir)
	}
	return DefaultWorktreeBase(), nil
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}
