package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/letsdev/lets/internal/util"
)

// CopyEnvFiles copies files matching patterns from src into dest, keeping
// their relative paths, modes and timestamps. Patterns are filepath.Match
// globs relative to src; a plain name matches only itself. Missing files are
// skipped. It returns the relative names copied, sorted, and any per-file
// failures joined together.
func CopyEnvFiles(src, dest string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var errs []error

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(src, pattern))
		if err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", pattern, err))
			continue
		}
		for _, m := range matches {
			rel, err := filepath.Rel(src, m)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			if seen[rel] {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}

			target := filepath.Join(dest, rel)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", rel, err))
				continue
			}
			if err := util.CopyFilePreserving(m, target); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", rel, err))
				continue
			}
			seen[rel] = true
		}
	}

	copied := make([]string, 0, len(seen))
	for rel := range seen {
		copied = append(copied, rel)
	}
	sort.Strings(copied)
	return copied, errors.Join(errs...)
}
