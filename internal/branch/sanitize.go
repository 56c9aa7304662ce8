package branch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxLength bounds generated branch names.
	MaxLength = 50
	// MinLength is the shortest generated name accepted from the AI tool.
	MinLength = 3
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize lowercases s, folds accented letters to ASCII, drops every rune
// outside [a-z0-9-] and truncates to MaxLength.
func Sanitize(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
		if b.Len() == MaxLength {
			break
		}
	}
	return b.String()
}
