// Package prompt asks the user questions on the terminal.
//
// Resolver, launcher and wizard code depend on the Prompter interface so
// tests can drive them with a Scripted answer list.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter is the interactive capability used across lets.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string, def bool) (bool, error)
	// Text asks for a free-form answer; an empty reply yields def.
	Text(question, def string) (string, error)
	// Choice asks the user to pick one of options; an empty reply yields def.
	Choice(question string, options []string, def string) (string, error)
}

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input available")

// Terminal reads answers line by line from an input stream.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Terminal bound to stdin and stdout.
func NewTerminal() *Terminal {
	return NewTerminalFrom(os.Stdin, os.Stdout)
}

// NewTerminalFrom returns a Terminal reading from in and writing to out.
func NewTerminalFrom(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm prints "question [y/N]: " and loops until it gets a yes or no.
func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.out, "%s [%s]: ", question, hint)
		line, err := t.readLine()
		if err != nil {
			fmt.Fprintln(t.out)
			return def, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Error: invalid input")
	}
}

// Text prints "question [def]: " and returns the reply.
func (t *Terminal) Text(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	line, err := t.readLine()
	if err != nil {
		fmt.Fprintln(t.out)
		return def, err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Choice prints "question (a, b) [def]: " and loops until a listed option
// is entered.
func (t *Terminal) Choice(question string, options []string, def string) (string, error) {
	for {
		fmt.Fprintf(t.out, "%s (%s) [%s]: ", question, strings.Join(options, ", "), def)
		line, err := t.readLine()
		if err != nil {
			fmt.Fprintln(t.out)
			return def, err
		}
		if line == "" {
			return def, nil
		}
		for _, opt := range options {
			if strings.EqualFold(opt, line) {
				return opt, nil
			}
		}
		fmt.Fprintf(t.out, "Error: %s is not one of %s.\n", line, strings.Join(options, ", "))
	}
}
