package util

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/letsdev/lets/internal/logger"
)

// Runner executes external tools. Every git, tmux, terminal and editor
// invocation goes through a Runner so it can be scripted in tests.
type Runner interface {
	// Output runs the command and returns trimmed stdout.
	Output(workDir, cmd string, args ...string) (string, error)
	// Run runs the command, discarding stdout.
	Run(workDir, cmd string, args ...string) error
	// Interactive runs the command attached to the current terminal.
	Interactive(workDir, cmd string, args ...string) error
	// Start launches the command without waiting for it to exit.
	Start(workDir, cmd string, args ...string) error
	// LookPath reports where a binary lives on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (ExecRunner) Output(workDir, cmd string, args ...string) (string, error) {
	return ExecWithOutput(workDir, cmd, args...)
}

func (ExecRunner) Run(workDir, cmd string, args ...string) error {
	return ExecRun(workDir, cmd, args...)
}

func (ExecRunner) Interactive(workDir, cmd string, args ...string) error {
	logger.Debug("exec (interactive): %s %s", cmd, strings.Join(args, " "))
	c := exec.Command(cmd, args...) //nolint:gosec // G204: callers validate args
	c.Dir = workDir
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func (ExecRunner) Start(workDir, cmd string, args ...string) error {
	logger.Debug("exec (detached): %s %s", cmd, strings.Join(args, " "))
	c := exec.Command(cmd, args...) //nolint:gosec // G204: callers validate args
	c.Dir = workDir
	if err := c.Start(); err != nil {
		return err
	}
	return c.Process.Release()
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ExecWithOutput runs a command in the specified directory and returns stdout.
// If the command fails, stderr content is included in the error message.
func ExecWithOutput(workDir, cmd string, args ...string) (string, error) {
	c := exec.Command(cmd, args...) //nolint:gosec // G204: callers validate args
	c.Dir = workDir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	logger.Debug("exec: %s %s (err=%v)", cmd, strings.Join(args, " "), err)
	if err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return "", fmt.Errorf("%s", errMsg)
		}
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ExecRun runs a command in the specified directory.
// If the command fails, stderr content is included in the error message.
func ExecRun(workDir, cmd string, args ...string) error {
	c := exec.Command(cmd, args...) //nolint:gosec // G204: callers validate args
	c.Dir = workDir

	var stderr bytes.Buffer
	c.Stderr = &stderr

	err := c.Run()
	logger.Debug("exec: %s %s (err=%v)", cmd, strings.Join(args, " "), err)
	if err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg != "" {
			return fmt.Errorf("%s", errMsg)
		}
		return err
	}

	return nil
}

// Which reports whether name resolves on PATH through r.
func Which(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
