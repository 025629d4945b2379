package layer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownActivation is returned when an activation name cannot be resolved.
	ErrUnknownActivation = errors.New("unknown activation")

	// ErrDegenerateReservoir is returned when the sampled recurrent matrix has
	// zero spectral radius and cannot be rescaled.
	ErrDegenerateReservoir = errors.New("degenerate reservoir: zero spectral radius")

	// ErrUnreachableReservoir is returned when no reservoir node receives input.
	ErrUnreachableReservoir = errors.New("unreachable reservoir: no node receives input")
)

// ShapeError reports a mismatch between a declared shape and the shape
// actually seen, either on incoming data or between adjacent layers.
type ShapeError struct {
	Axis      string
	Want, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch on %s: want %d, got %d", e.Axis, e.Want, e.Got)
}
