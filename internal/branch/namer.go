package branch

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/style"
	"github.com/letsdev/lets/internal/ui"
	"github.com/letsdev/lets/internal/util"
)

var issueRef = regexp.MustCompile(`#(\d+)`)

// Namer derives a branch name from a task description.
type Namer struct {
	runner  util.Runner
	out     io.Writer
	now     func() time.Time
	verbose bool
}

// NewNamer returns a Namer that asks the AI tool through r.
func NewNamer(r util.Runner, out io.Writer, now func() time.Time, verbose bool) *Namer {
	if now == nil {
		now = time.Now
	}
	if out == nil {
		out = io.Discard
	}
	return &Namer{runner: r, out: out, now: now, verbose: verbose}
}

// NamingPrompt is the instruction sent to the AI tool.
func NamingPrompt(task string) string {
	return "Based on this task, generate a short, descriptive git branch name " +
		"(lowercase, hyphen-separated, max 30 chars, no spaces or special chars " +
		"except hyphens). Only output the branch name, nothing else. Task: " + task
}

// FromTask asks aiTool for a name and falls back to issue-<n> when the task
// mentions #<n>, then to task-<YYYYMMDD-HHMMSS>. The only error is
// ui.ErrInterrupted.
func (n *Namer) FromTask(task, aiTool string) (string, error) {
	name, err := n.ask(task, aiTool)
	if err != nil {
		return "", err
	}
	if name != "" {
		return name, nil
	}

	if m := issueRef.FindStringSubmatch(task); m != nil {
		return "issue-" + m[1], nil
	}

	return "task-" + n.now().UTC().Format("20060102-150405"), nil
}

func (n *Namer) ask(task, aiTool string) (string, error) {
	label := fmt.Sprintf("Asking %s for branch name...", aiTool)

	var out string
	run := func() error {
		var err error
		out, err = n.runner.Output("", aiTool, "-p", NamingPrompt(task))
		return err
	}

	var err error
	if n.verbose {
		style.FprintInfo(n.out, "%s", label)
		err = run()
	} else {
		err = ui.Spin(label, run)
	}
	if errors.Is(err, ui.ErrInterrupted) {
		return "", err
	}
	if err != nil {
		logger.Warn("branch naming via %s failed: %v", aiTool, err)
		if n.verbose {
			style.FprintWarning(n.out, "AI generation failed: %v", err)
		}
		return "", nil
	}

	return FromAIOutput(out), nil
}

// FromAIOutput takes the last line of the tool's reply and sanitizes it.
// It returns "" when fewer than MinLength characters survive.
func FromAIOutput(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	name := Sanitize(lines[len(lines)-1])
	if len(name) < MinLength {
		return ""
	}
	return name
}
