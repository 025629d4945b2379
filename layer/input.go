package layer

import "gorgonia.org/tensor"

// InputLayer declares the shape of raw batches entering a model. It performs
// no computation.
type InputLayer struct {
	shape Shape
}

// NewInput returns an input layer expecting shape-compatible batches.
func NewInput(shape Shape) *InputLayer {
	return &InputLayer{shape: shape}
}

func (l *InputLayer) Name() string { return "input" }

func (l *InputLayer) InputShape() Shape { return l.shape }

func (l *InputLayer) OutputShape() Shape { return l.shape }

// Validate checks a raw batch against the declared shape.
func (l *InputLayer) Validate(x *tensor.Dense) error {
	return CheckBatch(x, l.shape)
}
