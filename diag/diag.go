// Package diag is the decompiler's side channel for informational tracing:
// jumps, returns, loop-recovery outcomes, and lossy-mode substitutions.
// None of it is part of the formal decompiled output; it exists purely to
// help a reader understand what the VM conjectured.
package diag

import (
	"fmt"
	"io"
	"os"
)

// Sink is a verbosity-gated diagnostic writer, mirroring the teacher's
// debug bool field on its own VM.
type Sink struct {
	w       io.Writer
	verbose bool
}

// New returns a Sink writing to os.Stderr.
func New(verbose bool) *Sink {
	return &Sink{w: os.Stderr, verbose: verbose}
}

// NewTo returns a Sink writing to an arbitrary writer, for tests.
func NewTo(w io.Writer, verbose bool) *Sink {
	return &Sink{w: w, verbose: verbose}
}

// Tracef writes a jump/return/loop-recovery trace line, only when verbose.
func (s *Sink) Tracef(format string, args ...any) {
	if s == nil || !s.verbose {
		return
	}
	fmt.Fprintf(s.w, ">> "+format+"\n", args...)
}

// Warnf writes a lossy-mode substitution notice. Always emitted, since it
// records output the reader should know was conjectured, not a verbose-only
// trace.
func (s *Sink) Warnf(format string, args ...any) {
	if s == nil {
		return
	}
	fmt.Fprintf(s.w, "💥 "+format+"\n", args...)
}
