//go:build !windows

package util

import (
	"os/exec"
)

// CopyFilePreserving copies a single file using cp -p, which keeps the
// mode and timestamps of the source.
func CopyFilePreserving(src, dest string) error {
	cmd := exec.Command("cp", "-p", src, dest)
	return cmd.Run()
}
