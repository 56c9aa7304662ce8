package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Launcher != "multiplexer" {
		t.Errorf("Launcher = %q, want multiplexer", s.Launcher)
	}
	if s.AITool != "claude" {
		t.Errorf("AITool = %q, want claude", s.AITool)
	}
	if !s.CopyEnvFiles {
		t.Error("CopyEnvFiles should default to true")
	}
	if !reflect.DeepEqual(s.EnvFilePatterns, []string{".env", ".env.local", ".env.development"}) {
		t.Errorf("EnvFilePatterns = %v", s.EnvFilePatterns)
	}
	if s.Launchers.Tmux.Session != "dev" || !s.Launchers.Tmux.AutoAttach {
		t.Errorf("Tmux = %+v", s.Launchers.Tmux)
	}

	// Mutating one copy must not leak into the next.
	s.EnvFilePatterns[0] = ".changed"
	if Defaults().EnvFilePatterns[0] != ".env" {
		t.Error("Defaults() shares the pattern slice")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	s, err := LoadFile(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadFile() error = %v, want ErrNotFound", err)
	}
	if !reflect.DeepEqual(s, Defaults()) {
		t.Errorf("LoadFile() = %+v, want defaults", s)
	}
}

func TestLoadFile_PartialDocumentKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `launcher = "terminal"
ai_tool = "aider"

[launchers.terminal]
terminal_command = "alacritty"
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Launcher != "terminal" || s.AITool != "aider" {
		t.Errorf("got launcher=%q ai_tool=%q", s.Launcher, s.AITool)
	}
	if s.Launchers.Terminal.TerminalCommand != "alacritty" {
		t.Errorf("TerminalCommand = %q", s.Launchers.Terminal.TerminalCommand)
	}
	if s.Launchers.Tmux.Session != "dev" {
		t.Errorf("Tmux.Session = %q, want default dev", s.Launchers.Tmux.Session)
	}
	if !s.CopyEnvFiles {
		t.Error("CopyEnvFiles lost its default")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("launcher = [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("LoadFile() error = %v, want parse error", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Defaults()
	want.Launcher = "terminal-window"
	want.EditorCommand = "code"
	want.EnvFilePatterns = []string{".env", "config/*.local"}
	want.Launchers.Tmux.AutoAttach = false

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !Exists(path) {
		t.Fatal("Exists() = false after Save")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestEncodeUsesSnakeCaseKeys(t *testing.T) {
	data, err := Encode(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, key := range []string{"ai_tool", "copy_env_files", "[launchers.tmux]", "auto_attach"} {
		if !strings.Contains(out, key) {
			t.Errorf("encoded config missing %q:\n%s", key, out)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LETS_LAUNCHER":       "terminal",
		"LETS_AI_TOOL":        "aider",
		"LETS_COPY_ENV_FILES": "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	s := Defaults()
	if err := ApplyEnv(&s, lookup); err != nil {
		t.Fatal(err)
	}
	if s.Launcher != "terminal" || s.AITool != "aider" || s.CopyEnvFiles {
		t.Errorf("ApplyEnv() = %+v", s)
	}
	if s.EditorCommand != "" {
		t.Errorf("EditorCommand = %q, want untouched", s.EditorCommand)
	}

	env["LETS_COPY_ENV_FILES"] = "sometimes"
	if err := ApplyEnv(&s, lookup); err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`ai_tool = "aider"`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LETS_AI_TOOL", "codex")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.AITool != "codex" {
		t.Errorf("AITool = %q, want codex", s.AITool)
	}
}

func TestResolveWorktreeBase(t *testing.T) {
	t.Setenv("LETS_WORKTREE_DIR", "")
	tmp := t.TempDir()

	got, err := ResolveWorktreeBase(tmp, "/ignored")
	if err != nil || got != tmp {
		t.Errorf("override: got (%q, %v), want %q", got, err, tmp)
	}

	got, _ = ResolveWorktreeBase("", tmp)
	if got != tmp {
		t.Errorf("configured: got %q, want %q", got, tmp)
	}

	envDir := filepath.Join(tmp, "from-env")
	t.Setenv("LETS_WORKTREE_DIR", envDir)
	got, _ = ResolveWorktreeBase("", "")
	if got != envDir {
		t.Errorf("env: got %q, want %q", got, envDir)
	}

	t.Setenv("LETS_WORKTREE_DIR", "")
	got, _ = ResolveWorktreeBase("", "")
	if got != DefaultWorktreeBase() {
		t.Errorf("default: got %q, want %q", got, DefaultWorktreeBase())
	}
}

func TestResolveWorktreeBase_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ResolveWorktreeBase("~/worktrees", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "worktrees") {
		t.Errorf("got %q", got)
	}
}
