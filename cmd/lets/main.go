// lets creates per-task git worktrees and opens them with an editor and an
// AI tool side by side.
package main

import (
	"os"

	"github.com/letsdev/lets/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
