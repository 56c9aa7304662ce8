// Package branch picks the branch a new workspace is created on.
package branch

import (
	"fmt"
	"io"
	"time"

	"github.com/letsdev/lets/internal/logger"
	"github.com/letsdev/lets/internal/prompt"
	"github.com/letsdev/lets/internal/style"
)

// MaxIncrement is the highest numeric suffix tried before falling back to
// a full timestamp.
const MaxIncrement = 99

// RefChecker reports whether a branch exists locally or on origin.
type RefChecker interface {
	BranchExists(name string) bool
}

// Resolved is the outcome of conflict resolution.
type Resolved struct {
	Name     string
	Existing bool // check out the existing branch instead of creating one
}

// Resolver turns a desired branch name into one that is safe to create.
type Resolver struct {
	refs   RefChecker
	prompt prompt.Prompter
	out    io.Writer
	now    func() time.Time
}

// NewResolver returns a Resolver. out receives progress lines; now is the
// clock used for timestamp suffixes (nil means time.Now).
func NewResolver(refs RefChecker, p prompt.Prompter, out io.Writer, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	if out == nil {
		out = io.Discard
	}
	return &Resolver{refs: refs, prompt: p, out: out, now: now}
}

// Exists reports whether name is taken locally or on origin.
func (r *Resolver) Exists(name string) bool {
	return r.refs.BranchExists(name)
}

// Resolve returns desired unchanged when it is free. When it is taken the
// user may reuse it; otherwise the first free candidate of desired-HHMMSS,
// desired-1 .. desired-99 is returned, and desired-YYYYMMDD-HHMMSS when all
// of those are taken. Resolve never fails: a prompt error counts as "no".
func (r *Resolver) Resolve(desired string) Resolved {
	if !r.Exists(desired) {
		return Resolved{Name: desired}
	}

	style.FprintWarning(r.out, "Branch '%s' already exists", desired)

	reuse, err := r.prompt.Confirm("Use existing branch?", false)
	if err != nil {
		logger.Debug("branch reuse prompt failed: %v", err)
		reuse = false
	}
	if reuse {
		return Resolved{Name: desired, Existing: true}
	}

	style.FprintInfo(r.out, "Generating new branch name...")

	for _, candidate := range r.candidates(desired) {
		if !r.Exists(candidate) {
			return Resolved{Name: candidate}
		}
	}

	return Resolved{Name: fmt.Sprintf("%s-%s", desired, r.now().UTC().Format("20060102-150405"))}
}

func (r *Resolver) candidates(desired string) []string {
	out := make([]string, 0, MaxIncrement+1)
	out = append(out, fmt.Sprintf("%s-%s", desired, r.now().UTC().Format("150405")))
	for i := 1; i <= MaxIncrement; i++ {
		out = append(out, fmt.Sprintf("%s-%d", desired, i))
	}
	return out
}
