// Package testutil provides scripted collaborators for unit tests.
package testutil

import (
	"os/exec"
	"strings"
	"sync"
)

// Call is one recorded command invocation.
type Call struct {
	Mode string // "output", "run", "interactive" or "start"
	Dir  string
	Argv []string
}

// Line returns the call's argv joined with spaces.
func (c Call) Line() string {
	return strings.Join(c.Argv, " ")
}

type response struct {
	tokens []string
	out    string
	err    error
}

// FakeRunner is a util.Runner that records calls and answers from a script.
//
// Responses are matched token-wise against the start of argv; the longest
// matching rule wins. Unmatched commands succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []response
	installed map[string]bool
	Calls     []Call
}

// NewFakeRunner returns an empty FakeRunner with nothing on PATH.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{installed: make(map[string]bool)}
}

// On scripts the result for commands whose argv starts with cmdline's fields.
func (f *FakeRunner) On(cmdline, out string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{tokens: strings.Fields(cmdline), out: out, err: err})
	return f
}

// Install marks binaries as present for LookPath.
func (f *FakeRunner) Install(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.installed[n] = true
	}
	return f
}

// Uninstall removes binaries from the fake PATH.
func (f *FakeRunner) Uninstall(names ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		delete(f.installed, n)
	}
	return f
}

func (f *FakeRunner) record(mode, dir, cmd string, args []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	argv := append([]string{cmd}, args...)
	f.Calls = append(f.Calls, Call{Mode: mode, Dir: dir, Argv: argv})

	best := -1
	for i, r := range f.responses {
		if !hasPrefix(argv, r.tokens) {
			continue
		}
		if best < 0 || len(r.tokens) >= len(f.responses[best].tokens) {
			best = i
		}
	}
	if best < 0 {
		return "", nil
	}
	return f.responses[best].out, f.responses[best].err
}

func hasPrefix(argv, tokens []string) bool {
	if len(tokens) > len(argv) {
		return false
	}
	for i, tok := range tokens {
		if argv[i] != tok {
			return false
		}
	}
	return true
}

func (f *FakeRunner) Output(workDir, cmd string, args ...string) (string, error) {
	out, err := f.record("output", workDir, cmd, args)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (f *FakeRunner) Run(workDir, cmd string, args ...string) error {
	_, err := f.record("run", workDir, cmd, args)
	return err
}

func (f *FakeRunner) Interactive(workDir, cmd string, args ...string) error {
	_, err := f.record("interactive", workDir, cmd, args)
	return err
}

func (f *FakeRunner) Start(workDir, cmd string, args ...string) error {
	_, err := f.record("start", workDir, cmd, args)
	return err
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", exec.ErrNotFound
}

// Lines returns every recorded call as a space-joined command line.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.Line()
	}
	return lines
}

// Ran reports whether any call's argv starts with cmdline's fields.
func (f *FakeRunner) Ran(cmdline string) bool {
	return len(f.Find(cmdline)) > 0
}

// Find returns the calls whose argv starts with cmdline's fields.
func (f *FakeRunner) Find(cmdline string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens := strings.Fields(cmdline)
	var found []Call
	for _, c := range f.Calls {
		if hasPrefix(c.Argv, tokens) {
			found = append(found, c)
		}
	}
	return found
}

// Count returns how many calls match cmdline.
func (f *FakeRunner) Count(cmdline string) int {
	return len(f.Find(cmdline))
}
