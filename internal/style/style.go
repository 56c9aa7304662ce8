// Package style provides consistent terminal styling using Lipgloss.
// Uses the Ayu theme colors from internal/ui for semantic consistency.
package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/letsdev/lets/internal/ui"
)

var (
	// Success style for positive outcomes (green)
	Success = lipgloss.NewStyle().
		Foreground(ui.ColorPass).
		Bold(true)

	// Warning style for cautionary messages (yellow)
	Warning = lipgloss.NewStyle().
		Foreground(ui.ColorWarn).
		Bold(true)

	// Error style for failures (red)
	Error = lipgloss.NewStyle().
		Foreground(ui.ColorFail).
		Bold(true)

	// Info style for informational messages (blue)
	Info = lipgloss.NewStyle().
		Foreground(ui.ColorAccent)

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(ui.ColorMuted)

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// Command style for copy-paste hints (cyan)
	Command = lipgloss.NewStyle().
		Foreground(ui.ColorCommand)
)

// FprintSuccess writes "✓ msg" to w.
func FprintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Success.Render(ui.IconPass+" "+fmt.Sprintf(format, args...)))
}

// FprintError writes "✗ msg" to w.
func FprintError(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Error.Render(ui.IconFail+" "+fmt.Sprintf(format, args...)))
}

// FprintInfo writes "→ msg" to w.
func FprintInfo(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Info.Render(ui.IconArrow+" "+fmt.Sprintf(format, args...)))
}

// FprintWarning writes "! msg" to w.
func FprintWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Warning.Render(ui.IconWarn+" "+fmt.Sprintf(format, args...)))
}
