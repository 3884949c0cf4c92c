package forward

import (
	"errors"
	"fmt"
)

var (
	// ErrHandleNotProduced is returned when a pass reads a handle that no
	// earlier pass writes.
	ErrHandleNotProduced = errors.New("forward: handle read before it is produced")

	// ErrConflictingPresent is returned when a sequence both post-processes
	// to the camera target and blits to it.
	ErrConflictingPresent = errors.New("forward: transparent post-process and final blit in one sequence")
)

// OrderError reports a pass that consumes a handle too early.
type OrderError struct {
	Index  int
	Pass   string
	Handle Handle
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("forward: pass %d (%s) reads %s before any pass writes it", e.Index, e.Pass, e.Handle)
}

// Unwrap returns ErrHandleNotProduced.
func (e *OrderError) Unwrap() error { return ErrHandleNotProduced }

// Validate checks the ordering invariant: every handle a pass reads is
// the camera target or was written by an earlier pass. It also rejects
// sequences that present the frame twice.
//
// A failure is a defect in sequence construction or in an extension
// provider, not a runtime condition.
func (s *Sequence) Validate() error {
	produced := make(map[int32]bool)
	present := 0

	for i := range s.Passes {
		p := &s.Passes[i]
		for _, in := range p.Inputs {
			if in.IsCameraTarget() || produced[in.ID()] {
				continue
			}
			return &OrderError{Index: i, Pass: p.Name, Handle: in}
		}
		for _, out := range p.Outputs {
			produced[out.ID()] = true
		}
		if p.Kind == PassTransparentPostProcess || p.Kind == PassFinalBlit {
			present++
		}
	}

	if present > 1 {
		return ErrConflictingPresent
	}
	return nil
}
