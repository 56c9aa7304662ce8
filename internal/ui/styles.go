// Package ui provides terminal styling for lets output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if !ShouldUseColor() {
		// disable colors when not appropriate (non-TTY, NO_COLOR, etc.)
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// ApplyThemeMode applies the theme mode settings to lipgloss.
func ApplyThemeMode() {
	if !ShouldUseColor() {
		return
	}
	lipgloss.SetHasDarkBackground(HasDarkBackground())
}

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	// ColorCommand marks text meant to be copied into a shell.
	ColorCommand = lipgloss.AdaptiveColor{
		Light: "#4cbf99", // ayu light cyan
		Dark:  "#95e6cb", // ayu dark cyan
	}
)

var (
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	CommandStyle = lipgloss.NewStyle().Foreground(ColorCommand)
)

// Status icons. Small Unicode symbols, not emoji.
const (
	IconPass  = "✓"
	IconWarn  = "!"
	IconFail  = "✗"
	IconArrow = "→"
)

func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCommand styles a shell command the user is expected to copy.
func RenderCommand(s string) string {
	return CommandStyle.Render(s)
}
