// Package util provides process and filesystem helpers shared by lets.
package util

import (
	"os"
)

// AtomicWriteFile writes data to a file atomically.
// It first writes to a temporary file next to path, then renames it over
// the target, so readers never observe a partially written config.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile := path + ".tmp"

	if err := os.WriteFile(tmpFile, data, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}

	return nil
}
