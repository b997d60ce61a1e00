package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSurface is reported by a controller started without a drawable surface.
	ErrNoSurface = errors.New("engine: drawing surface unavailable")

	// ErrNoLab is reported by a controller started with a nil lab.
	ErrNoLab = errors.New("engine: no lab")

	// ErrRenderFault marks a panic raised while updating or rendering a frame.
	ErrRenderFault = errors.New("engine: render fault")
)

// FrameError records the frame on which the loop halted.
type FrameError struct {
	Frame   int
	Elapsed time.Duration
	Cause   any
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s at frame %d (%v): %v", e.Wrapped, e.Frame, e.Elapsed, e.Cause)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
