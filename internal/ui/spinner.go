package ui

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned by Spin when the user pressed Ctrl+C or the
// process got SIGINT while the spinner was showing.
var ErrInterrupted = errors.New("interrupted")

var (
	spinnerMu       sync.Mutex
	spinnerDisabled bool
)

// DisableSpinner turns Spin into a plain call. Verbose mode uses this so
// debug output is not interleaved with spinner frames.
func DisableSpinner(disabled bool) {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()
	spinnerDisabled = disabled
}

func spinnerEnabled() bool {
	spinnerMu.Lock()
	defer spinnerMu.Unlock()
	return !spinnerDisabled && IsTerminal()
}

type doneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = AccentStyle
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Interrupt
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// Spin shows label next to a spinner while fn runs and returns fn's error.
// Without a TTY, or when disabled, fn runs directly. The program traps
// SIGINT while it runs, so an interrupt comes back as ErrInterrupted once
// fn has returned.
func Spin(label string, fn func() error) error {
	if !spinnerEnabled() {
		return fn()
	}

	p := tea.NewProgram(newSpinnerModel(label),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
	)

	var fnErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		fnErr = fn()
		p.Send(doneMsg{err: fnErr})
	}()

	_, runErr := p.Run()
	<-finished
	return spinResult(runErr, fnErr)
}

func spinResult(runErr, fnErr error) error {
	if errors.Is(runErr, tea.ErrInterrupted) {
		return ErrInterrupted
	}
	return fnErr
}
