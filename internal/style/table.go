package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column with name and width.
type Column struct {
	Name  string
	Width int
	Align Alignment
	Style lipgloss.Style
}

// Alignment specifies column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// tableIndent prefixes every table line.
const tableIndent = "  "

// Table renders a bold header, a dim rule and aligned rows.
type Table struct {
	columns     []Column
	rows        [][]string
	headerStyle lipgloss.Style
}

// NewTable creates a new table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{
		columns:     columns,
		headerStyle: Bold,
	}
}

// AddRow adds a row of values to the table.
func (t *Table) AddRow(values ...string) *Table {
	// Pad with empty strings if needed
	for len(values) < len(t.columns) {
		values = append(values, "")
	}
	t.rows = append(t.rows, values)
	return t
}

// Render returns the formatted table string.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var sb strings.Builder

	// Render header
	sb.WriteString(tableIndent)
	for i, col := range t.columns {
		text := t.headerStyle.Render(col.Name)
		sb.WriteString(t.pad(text, col.Name, col.Width, col.Align))
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")

	// Render separator
	sb.WriteString(tableIndent)
	totalWidth := 0
	for i, col := range t.columns {
		totalWidth += col.Width
		if i < len(t.columns)-1 {
			totalWidth++ // space between columns
		}
	}
	sb.WriteString(Dim.Render(strings.Repeat("─", totalWidth)))
	sb.WriteString("\n")

	// Render rows
	for _, row := range t.rows {
		sb.WriteString(tableIndent)
		for i, col := range t.columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			plainVal := stripAnsi(val)
			if len(plainVal) > col.Width && col.Width > 3 {
				plainVal = plainVal[:col.Width-3] + "..."
				val = plainVal
			}
			// Apply column style if set
			if col.Style.Value() != "" {
				val = col.Style.Render(val)
			}
			sb.WriteString(t.pad(val, plainVal, col.Width, col.Align))
			if i < len(t.columns)-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// pad pads text to width, accounting for ANSI escape sequences.
// styledText is the text with ANSI codes, plainText is without.
func (t *Table) pad(styledText, plainText string, width int, align Alignment) string {
	plainLen := len(plainText)
	if plainLen >= width {
		return styledText
	}

	padding := width - plainLen

	switch align {
	case AlignRight:
		return strings.Repeat(" ", padding) + styledText
	case AlignCenter:
		left := padding / 2
		right := padding - left
		return strings.Repeat(" ", left) + styledText + strings.Repeat(" ", right)
	default: // AlignLeft
		return styledText + strings.Repeat(" ", padding)
	}
}

// stripAnsi removes ANSI escape sequences from a string.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}
	return result.String()
}
