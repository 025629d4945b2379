package layer

import (
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// ReadoutLayer declares the output shape of a model and owns the trained
// readout weights. The weights are nil until a fit and are replaced
// wholesale on refit, so a concurrent reader sees either the old or the new
// matrix, never a partial write.
type ReadoutLayer struct {
	shape   Shape
	weights atomic.Pointer[mat.Dense]
}

// NewReadout returns a readout layer producing shape-shaped predictions.
func NewReadout(shape Shape) *ReadoutLayer {
	return &ReadoutLayer{shape: shape}
}

func (l *ReadoutLayer) Name() string { return "readout" }

// InputShape is unconstrained: the readout learns its map from whatever
// feature dimensionality the preceding layer produces.
func (l *ReadoutLayer) InputShape() Shape { return Shape{} }

func (l *ReadoutLayer) OutputShape() Shape { return l.shape }

// Weights returns the trained readout matrix, or nil before any fit. The
// returned matrix must be treated as read-only.
func (l *ReadoutLayer) Weights() *mat.Dense { return l.weights.Load() }

// SetWeights installs w as the new readout map, replacing any previous one.
func (l *ReadoutLayer) SetWeights(w *mat.Dense) { l.weights.Store(w) }
