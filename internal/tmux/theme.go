package tmux

import (
	"fmt"
	"hash/fnv"
)

// Theme represents a tmux status bar color scheme.
type Theme struct {
	Name string // Human-readable name
	BG   string // Background color (hex or tmux color name)
	FG   string // Foreground color (hex or tmux color name)
}

// DefaultPalette is the set of status bar themes handed out per repository.
// Each theme has good contrast and is visually distinct from others.
var DefaultPalette = []Theme{
	{Name: "ocean", BG: "#1e3a5f", FG: "#e0e0e0"},    // Deep blue
	{Name: "forest", BG: "#2d5a3d", FG: "#e0e0e0"},   // Forest green
	{Name: "rust", BG: "#8b4513", FG: "#f5f5dc"},     // Rust/brown
	{Name: "plum", BG: "#4a3050", FG: "#e0e0e0"},     // Purple
	{Name: "slate", BG: "#4a5568", FG: "#e0e0e0"},    // Slate gray
	{Name: "ember", BG: "#b33a00", FG: "#f5f5dc"},    // Burnt orange
	{Name: "midnight", BG: "#1a1a2e", FG: "#c0c0c0"}, // Dark blue-black
	{Name: "wine", BG: "#722f37", FG: "#f5f5dc"},     // Burgundy
	{Name: "teal", BG: "#0d5c63", FG: "#e0e0e0"},     // Teal
	{Name: "copper", BG: "#6d4c41", FG: "#f5f5dc"},   // Warm brown
}

// AssignTheme picks a theme for a repository based on its name.
// Uses consistent hashing so the same repository always gets the same color.
func AssignTheme(repoName string) Theme {
	h := fnv.New32a()
	_, _ = h.Write([]byte(repoName))
	return DefaultPalette[h.Sum32()%uint32(len(DefaultPalette))]
}

// Style returns the tmux status-style string for this theme.
func (t Theme) Style() string {
	return fmt.Sprintf("bg=%s,fg=%s", t.BG, t.FG)
}
