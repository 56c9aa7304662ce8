// Package suggest builds "did you mean" hints for mistyped names.
package suggest

import (
	"sort"
	"strings"
)

// Score weights. A shared prefix counts most since names are usually
// typed from the start.
const (
	exactScore     = 1000
	prefixWeight   = 20
	containsWeight = 15
	distanceWeight = 5
)

// FindSimilar returns up to maxResults candidates resembling target, best
// first. Equal scores are ordered by name. Matching ignores case.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if len(candidates) == 0 || maxResults <= 0 {
		return nil
	}
	target = strings.ToLower(strings.TrimSpace(target))

	type scored struct {
		name  string
		score int
	}
	var found []scored
	for _, c := range candidates {
		if s := score(target, strings.ToLower(c)); s > 0 {
			found = append(found, scored{c, s})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].name < found[j].name
	})

	if len(found) > maxResults {
		found = found[:maxResults]
	}
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

func score(a, b string) int {
	if a == b {
		return exactScore
	}

	s := commonPrefixLength(a, b) * prefixWeight
	if a != "" && (strings.Contains(b, a) || strings.Contains(a, b)) {
		s += min(len(a), len(b)) * containsWeight
	}

	// Only near misses count: at most half the longer name may differ.
	longest := max(len(a), len(b))
	if d := levenshteinDistance(a, b); d <= longest/2 {
		s += (longest - d) * distanceWeight
	}
	return s
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// levenshteinDistance is the byte-wise edit distance, using two rows.
func levenshteinDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// FormatSuggestion renders "unknown <entity> '<name>'", the suggestions as
// a "Did you mean?" list, then hint on its own line.
func FormatSuggestion(entity, name string, suggestions []string, hint string) string {
	var sb strings.Builder
	sb.WriteString("unknown " + entity + " '" + name + "'")

	if len(suggestions) > 0 {
		sb.WriteString("\n\n  Did you mean?\n")
		for _, s := range suggestions {
			sb.WriteString("    • " + s + "\n")
		}
	}
	if hint != "" {
		sb.WriteString("\n  " + hint)
	}
	return sb.String()
}
