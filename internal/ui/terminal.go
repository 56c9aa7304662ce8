package ui

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ThemeMode represents the CLI color scheme mode.
type ThemeMode string

const (
	// ThemeModeAuto lets the terminal background guide color selection.
	ThemeModeAuto ThemeMode = "auto"
	// ThemeModeDark forces dark mode colors (light text on dark background).
	ThemeModeDark ThemeMode = "dark"
	// ThemeModeLight forces light mode colors (dark text on light background).
	ThemeModeLight ThemeMode = "light"
)

var themeMode = ThemeModeAuto

// InitTheme reads LETS_THEME and resolves whether the background is dark.
func InitTheme() {
	themeMode = resolveThemeMode(os.Getenv("LETS_THEME"))
	ApplyThemeMode()
}

func resolveThemeMode(envTheme string) ThemeMode {
	switch strings.ToLower(envTheme) {
	case "dark":
		return ThemeModeDark
	case "light":
		return ThemeModeLight
	default:
		return ThemeModeAuto
	}
}

// HasDarkBackground returns true if we're displaying on a dark background.
func HasDarkBackground() bool {
	switch themeMode {
	case ThemeModeDark:
		return true
	case ThemeModeLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// IsTerminal returns true if stdout is connected to a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be used.
// Respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE conventions.
func ShouldUseColor() bool {
	// NO_COLOR takes precedence - any value disables color
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	// CLICOLOR_FORCE enables color even in non-TTY
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}

	return IsTerminal()
}
