package launcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/letsdev/lets/internal/config"
	"github.com/letsdev/lets/internal/testutil"
)

func tmuxSettings() config.Settings {
	s := config.Defaults()
	s.Launchers.Tmux.Session = "work"
	return s
}

func TestTmuxSetup_NewSession(t *testing.T) {
	r := testutil.NewFakeRunner().Install("tmux").
		On("tmux show-option -g pane-base-index", "pane-base-index 1", nil).
		On("tmux has-session", "", errors.New("can't find session"))
	env, out, _ := newEnv(r, "linux", map[string]string{"EDITOR": "nvim"})
	env.RepoName = "lets"

	l := NewTmuxLauncher(tmuxSettings(), env)
	if !l.Setup("/wt/lets/fix-auth", "fix-auth", "Fix 'auth' issue", "claude") {
		t.Fatalf("Setup() = false\n%s", out.String())
	}

	want := []string{
		"tmux show-option -g pane-base-index",
		"tmux has-session -t work",
		"tmux new-session -d -s work -n fix-auth -c /wt/lets/fix-auth",
		"tmux set-option -t work status-style",
		"tmux split-window -t work:fix-auth -h -c /wt/lets/fix-auth",
		"tmux send-keys -t work:fix-auth.1 nvim Enter",
		`tmux send-keys -t work:fix-auth.2 claude --dangerously-skip-permissions 'Fix '\''auth'\'' issue' Enter`,
		"tmux select-pane -t work:fix-auth.2",
	}
	got := r.Lines()
	if len(got) != len(want) {
		t.Fatalf("calls:\n%s", strings.Join(got, "\n"))
	}
	for i := range want {
		if !strings.HasPrefix(got[i], want[i]) {
			t.Errorf("call %d = %q, want prefix %q", i, got[i], want[i])
		}
	}
	if !strings.Contains(out.String(), "Creating tmux session: work") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTmuxSetup_ExistingSession(t *testing.T) {
	r := testutil.NewFakeRunner().Install("tmux")
	env, out, _ := newEnv(r, "linux", nil)

	l := NewTmuxLauncher(tmuxSettings(), env)
	if !l.Setup("/wt", "fix", "task", "claude") {
		t.Fatal("Setup() = false")
	}

	if !r.Ran("tmux new-window -t work: -n fix -c /wt") {
		t.Errorf("new-window not run:\n%s", strings.Join(r.Lines(), "\n"))
	}
	if r.Ran("tmux new-session") || r.Ran("tmux set-option") {
		t.Error("existing session must not be recreated or recoloured")
	}
	// Default pane-base-index 0 and the vim fallback editor.
	if !r.Ran("tmux send-keys -t work:fix.0 vim Enter") {
		t.Errorf("editor not started in pane 0:\n%s", strings.Join(r.Lines(), "\n"))
	}
	if !strings.Contains(out.String(), "Using existing tmux session: work") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTmuxSetup_EditorFromSettings(t *testing.T) {
	r := testutil.NewFakeRunner().Install("tmux")
	env, _, _ := newEnv(r, "linux", map[string]string{"EDITOR": "nano"})
	s := tmuxSettings()
	s.EditorCommand = "hx"

	NewTmuxLauncher(s, env).Setup("/wt", "fix", "task", "claude")
	if !r.Ran("tmux send-keys -t work:fix.0 hx Enter") {
		t.Errorf("configured editor not used:\n%s", strings.Join(r.Lines(), "\n"))
	}
}

func TestTmuxSetup_Failures(t *testing.T) {
	tests := []struct {
		name    string
		failing string
	}{
		{"new window", "tmux new-window"},
		{"split", "tmux split-window"},
		{"editor", "tmux send-keys -t work:fix.0"},
		{"ai tool", "tmux send-keys -t work:fix.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.NewFakeRunner().Install("tmux").On(tt.failing, "", errors.New("boom"))
			env, _, _ := newEnv(r, "linux", nil)

			if NewTmuxLauncher(tmuxSettings(), env).Setup("/wt", "fix", "task", "claude") {
				t.Error("Setup() = true, want false")
			}
			if r.Ran("tmux select-pane") {
				t.Error("select-pane should not run after a failed step")
			}
		})
	}
}

func TestTmuxSetup_SelectPaneBestEffort(t *testing.T) {
	r := testutil.NewFakeRunner().Install("tmux").On("tmux select-pane", "", errors.New("no pane"))
	env, _, _ := newEnv(r, "linux", nil)

	if !NewTmuxLauncher(tmuxSettings(), env).Setup("/wt", "fix", "task", "claude") {
		t.Error("Setup() = false, want true when only select-pane fails")
	}
}

func TestTmuxSetup_NotInstalled(t *testing.T) {
	r := testutil.NewFakeRunner()
	env, out, _ := newEnv(r, "linux", nil)

	if NewTmuxLauncher(tmuxSettings(), env).Setup("/wt", "fix", "task", "claude") {
		t.Error("Setup() = true without tmux")
	}
	if len(r.Calls) != 0 {
		t.Errorf("ran %v", r.Lines())
	}
	if !strings.Contains(out.String(), "tmux is not installed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTmuxInstructions(t *testing.T) {
	env, _, _ := newEnv(testutil.NewFakeRunner(), "linux", nil)
	lines := strings.Join(NewTmuxLauncher(tmuxSettings(), env).Instructions("/wt", "fix"), "\n")

	for _, want := range []string{"tmux attach -t work", `tmux attach -t work \; select-window -t fix`} {
		if !strings.Contains(lines, want) {
			t.Errorf("instructions missing %q:\n%s", want, lines)
		}
	}
}

func TestTmuxHandleAttachment(t *testing.T) {
	tests := []struct {
		name       string
		autoAttach bool
		insideTmux bool
		confirm    []bool
		wantCall   string
		wantAsked  int
	}{
		{"auto attach off", false, false, nil, "", 0},
		{"attach outside tmux", true, false, []bool{true}, "tmux attach -t work ; select-window -t fix", 1},
		{"declined attach", true, false, []bool{false}, "", 1},
		{"switch inside tmux", true, true, []bool{true}, "tmux switch-client -t work:fix", 1},
		{"declined switch", true, true, []bool{false}, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]string{}
			if tt.insideTmux {
				vars["TMUX"] = "/tmp/tmux-1000/default,1234,0"
			}
			r := testutil.NewFakeRunner().Install("tmux")
			env, _, p := newEnv(r, "linux", vars)
			p.Confirms = tt.confirm

			s := tmuxSettings()
			s.Launchers.Tmux.AutoAttach = tt.autoAttach
			NewTmuxLauncher(s, env).HandleAttachment("/wt", "fix")

			if len(p.Asked) != tt.wantAsked {
				t.Errorf("asked %v", p.Asked)
			}
			if tt.wantCall == "" {
				if len(r.Calls) != 0 {
					t.Errorf("unexpected calls %v", r.Lines())
				}
				return
			}
			if !r.Ran(tt.wantCall) {
				t.Errorf("calls = %v, want %q", r.Lines(), tt.wantCall)
			}
		})
	}
}

func TestTmuxHandleAttachment_SwitchError(t *testing.T) {
	r := testutil.NewFakeRunner().Install("tmux").On("tmux switch-client", "", errors.New("no current client"))
	env, out, p := newEnv(r, "linux", map[string]string{"TMUX": "1"})
	p.Confirms = []bool{true}

	NewTmuxLauncher(tmuxSettings(), env).HandleAttachment("/wt", "fix")
	if !strings.Contains(out.String(), "Failed to switch window: no current client") {
		t.Errorf("output = %q", out.String())
	}
}
