package tmux

import "testing"

func TestAssignTheme_Deterministic(t *testing.T) {
	theme1 := AssignTheme("lets")
	theme2 := AssignTheme("lets")

	if theme1.Name != theme2.Name {
		t.Errorf("AssignTheme not deterministic: got %s and %s for same input", theme1.Name, theme2.Name)
	}
}

func TestAssignTheme_Distribution(t *testing.T) {
	repos := []string{"lets", "beads", "myproject", "frontend", "backend", "api", "web", "mobile"}
	themes := make(map[string]int)

	for _, repo := range repos {
		themes[AssignTheme(repo).Name]++
	}

	// We should have at least 4 different themes for 8 repositories
	if len(themes) < 4 {
		t.Errorf("Poor distribution: only %d different themes for %d repos", len(themes), len(repos))
	}
}

func TestThemeStyle(t *testing.T) {
	theme := Theme{Name: "test", BG: "#1e3a5f", FG: "#e0e0e0"}
	want := "bg=#1e3a5f,fg=#e0e0e0"

	if got := theme.Style(); got != want {
		t.Errorf("Theme.Style() = %q, want %q", got, want)
	}
}
