package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestIsTerminal(t *testing.T) {
	// The result depends on the test environment; it must not panic.
	_ = IsTerminal()
}

func TestShouldUseColor_NO_COLOR(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Error("ShouldUseColor() should return false when NO_COLOR is set")
	}
}

func TestShouldUseColor_NO_COLOR_AnyValue(t *testing.T) {
	// NO_COLOR with any value (even "0") should disable color
	t.Setenv("NO_COLOR", "0")
	if ShouldUseColor() {
		t.Error("ShouldUseColor() should return false when NO_COLOR is set to any value")
	}
}

func TestShouldUseColor_CLICOLOR_0(t *testing.T) {
	t.Setenv("CLICOLOR", "0")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should win over CLICOLOR_FORCE")
	}
}

func TestShouldUseColor_CLICOLOR_FORCE(t *testing.T) {
	t.Setenv("CLICOLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	// NO_COLOR must be absent for this test, t.Setenv cannot unset.
	if _, set := lookupNoColor(); set {
		t.Skip("NO_COLOR set in environment")
	}
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE should enable color without a TTY")
	}
}

func TestResolveThemeMode(t *testing.T) {
	tests := []struct {
		in   string
		want ThemeMode
	}{
		{"dark", ThemeModeDark},
		{"LIGHT", ThemeModeLight},
		{"auto", ThemeModeAuto},
		{"", ThemeModeAuto},
		{"neon", ThemeModeAuto},
	}
	for _, tt := range tests {
		if got := resolveThemeMode(tt.in); got != tt.want {
			t.Errorf("resolveThemeMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasDarkBackground_ForcedModes(t *testing.T) {
	t.Setenv("LETS_THEME", "dark")
	InitTheme()
	if !HasDarkBackground() {
		t.Error("LETS_THEME=dark should force a dark background")
	}

	t.Setenv("LETS_THEME", "light")
	InitTheme()
	if HasDarkBackground() {
		t.Error("LETS_THEME=light should force a light background")
	}
}

func TestSpin_NoTTYRunsDirectly(t *testing.T) {
	called := false
	want := errors.New("fetch failed")
	err := Spin("Fetching latest changes...", func() error {
		called = true
		return want
	})
	if !called {
		t.Fatal("Spin did not call fn")
	}
	if !errors.Is(err, want) {
		t.Errorf("Spin() = %v, want %v", err, want)
	}
}

func TestSpin_Disabled(t *testing.T) {
	DisableSpinner(true)
	defer DisableSpinner(false)

	if spinnerEnabled() {
		t.Error("spinner should be disabled")
	}
	if err := Spin("x", func() error { return nil }); err != nil {
		t.Errorf("Spin() = %v", err)
	}
}

func TestSpinResult(t *testing.T) {
	fetchErr := errors.New("fetch failed")
	tests := []struct {
		name   string
		runErr error
		fnErr  error
		want   error
	}{
		{"interrupt wins over success", tea.ErrInterrupted, nil, ErrInterrupted},
		{"interrupt wins over fn error", tea.ErrInterrupted, fetchErr, ErrInterrupted},
		{"fn error", nil, fetchErr, fetchErr},
		{"success", nil, nil, nil},
		{"program failure keeps fn result", errors.New("no tty"), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spinResult(tt.runErr, tt.fnErr); !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("spinResult() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpinnerModel_CtrlCInterrupts(t *testing.T) {
	m := newSpinnerModel("Fetching latest changes...")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Ctrl+C returned no command")
	}
	if _, ok := cmd().(tea.InterruptMsg); !ok {
		t.Errorf("Ctrl+C command produced %T, want tea.InterruptMsg", cmd())
	}
	if next.View() != "" {
		t.Errorf("View() after Ctrl+C = %q, want empty", next.View())
	}
}

func TestRenderers(t *testing.T) {
	for name, render := range map[string]func(string) string{
		"muted":   RenderMuted,
		"accent":  RenderAccent,
		"command": RenderCommand,
	} {
		if got := render("tmux attach -t dev"); got == "" {
			t.Errorf("%s renderer returned empty string", name)
		}
	}
}
