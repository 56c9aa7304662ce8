package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/launcher"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/testutil"
)

func TestShowConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	var out bytes.Buffer
	if err := showConfig(&out, path); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "No configuration file found. Using defaults.") || !strings.Contains(got, `launcher = "multiplexer"`) {
		t.Errorf("output:\n%s", got)
	}

	if err := os.WriteFile(path, []byte("ai_tool = \"codex\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := showConfig(&out, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Current configuration:\nai_tool = \"codex\"") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestSetLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("terminal-window is always available on windows")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	r := testutil.NewFakeRunner().Install("tmux")

	var out bytes.Buffer
	if err := setLauncher(&out, r, path, "tmux"); err != nil {
		t.Fatalf("setLauncher: %v", err)
	}
	s, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Launcher != "multiplexer" {
		t.Errorf("Launcher = %q, want multiplexer", s.Launcher)
	}

	out.Reset()
	err = setLauncher(&out, r, path, "terminal")
	if code, ok := IsSilentExit(err); !ok || code != 1 {
		t.Fatalf("err = %v, want silent exit 1", err)
	}
	if !strings.Contains(out.String(), "not available on this system") {
		t.Errorf("output:\n%s", out.String())
	}
	if s, _ := config.LoadFile(path); s.Launcher != "multiplexer" {
		t.Errorf("unavailable launcher was saved: %q", s.Launcher)
	}

	var unknown *launcher.UnknownLauncherError
	if err := setLauncher(&out, r, path, "screen"); !errors.As(err, &unknown) {
		t.Errorf("err = %v, want UnknownLauncherError", err)
	}
}

func TestListLaunchers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var out bytes.Buffer
	if err := listLaunchers(&out, testutil.NewFakeRunner().Install("tmux"), path); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "✓ multiplexer (default)") {
		t.Errorf("output:\n%s", got)
	}
	if !strings.Contains(got, "terminal-window") {
		t.Errorf("terminal-window missing:\n%s", got)
	}
}

func TestResetConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("ai_tool = \"codex\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := resetConfig(&bytes.Buffer{}, &prompt.Scripted{Confirms: []bool{false}}, path); err != nil {
		t.Fatal(err)
	}
	if s, _ := config.LoadFile(path); s.AITool != "codex" {
		t.Error("declined reset changed the file")
	}

	var out bytes.Buffer
	if err := resetConfig(&out, &prompt.Scripted{Confirms: []bool{true}}, path); err != nil {
		t.Fatal(err)
	}
	if s, _ := config.LoadFile(path); s.AITool != "claude" {
		t.Errorf("AITool = %q after reset", s.AITool)
	}
	if !strings.Contains(out.String(), "Configuration reset to defaults") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestEditConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	r := testutil.NewFakeRunner()
	if err := editConfig(&out, r, path, "nano"); err != nil {
		t.Fatal(err)
	}
	if !config.Exists(path) {
		t.Error("edit did not create a default config")
	}
	if !strings.Contains(out.String(), "Editor not found: nano") {
		t.Errorf("output:\n%s", out.String())
	}

	r.Install("vi")
	if err := editConfig(&bytes.Buffer{}, r, path, ""); err != nil {
		t.Fatal(err)
	}
	calls := r.Find("vi " + path)
	if len(calls) != 1 || calls[0].Mode != "interactive" {
		t.Errorf("editor calls = %+v", calls)
	}
}
