package main

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
)

// TestCrossPlatformBuild compiles the binary for every platform a launcher
// supports. The file copy helper has separate windows and unix builds, so a
// missing stub only shows up here.
func TestCrossPlatformBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cross-platform build test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}
	if os.Getenv("CI") == "" && runtime.GOOS != "darwin" && runtime.GOOS != "linux" {
		t.Skip("skipping cross-platform build test on unsupported platform")
	}

	platforms := []struct {
		goos   string
		goarch string
	}{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
		{"freebsd", "amd64"},
	}

	for _, p := range platforms {
		t.Run(p.goos+"_"+p.goarch, func(t *testing.T) {
			t.Parallel()

			cmd := exec.Command("go", "build", "-o", os.DevNull, ".")
			cmd.Env = append(os.Environ(),
				"GOOS="+p.goos,
				"GOARCH="+p.goarch,
				"CGO_ENABLED=0",
			)

			output, err := cmd.CombinedOutput()
			if err != nil {
				t.Errorf("build failed for %s/%s:\n%s", p.goos, p.goarch, string(output))
			}
		})
	}
}
