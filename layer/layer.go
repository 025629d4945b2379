// Package layer provides the building blocks of a reservoir computing
// pipeline: an input adapter, random reservoir layers and a readout holder.
//
// All batches flowing between layers are rank-3 float64 tensors shaped
// (batch, time, channels).
package layer

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Shape describes the per-sequence shape a layer consumes or produces.
// A zero TimeSteps or Channels leaves that axis unconstrained.
type Shape struct {
	TimeSteps int
	Channels  int
}

// Layer is the common contract of everything that can sit in a pipeline.
type Layer interface {
	Name() string
	InputShape() Shape
	OutputShape() Shape
}

// StatesCollector is the capability contract of reservoir variants: drive
// the internal dynamics with a batch of input sequences and hand back every
// state visited, shaped (batch, time, nodes). Any topology satisfying this
// can be chained in a model.
type StatesCollector interface {
	Layer
	CollectStates(x *tensor.Dense) (*tensor.Dense, error)
}

// CheckBatch validates that x is a rank-3 float64 tensor compatible with s.
func CheckBatch(x *tensor.Dense, s Shape) error {
	if x == nil {
		return &ShapeError{Axis: "rank", Want: 3, Got: 0}
	}
	if x.Dtype() != tensor.Float64 {
		return errors.Errorf("unsupported dtype %v, want %v", x.Dtype(), tensor.Float64)
	}
	shp := x.Shape()
	if len(shp) != 3 {
		return &ShapeError{Axis: "rank", Want: 3, Got: len(shp)}
	}
	if s.TimeSteps > 0 && shp[1] != s.TimeSteps {
		return &ShapeError{Axis: "time", Want: s.TimeSteps, Got: shp[1]}
	}
	if s.Channels > 0 && shp[2] != s.Channels {
		return &ShapeError{Axis: "channels", Want: s.Channels, Got: shp[2]}
	}
	return nil
}
