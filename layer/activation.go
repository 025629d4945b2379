package layer

import (
	"math"

	"github.com/pkg/errors"
)

// Activation is a pure elementwise function identified by name.
type Activation struct {
	Name string
	F    func(float64) float64
}

// Apply applies the activation to xs in place.
func (a Activation) Apply(xs []float64) {
	for i, x := range xs {
		xs[i] = a.F(x)
	}
}

func identity(x float64) float64 { return x }

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

var activations = map[string]Activation{
	"identity": {Name: "identity", F: identity},
	"linear":   {Name: "linear", F: identity},
	"tanh":     {Name: "tanh", F: math.Tanh},
	"sigmoid":  {Name: "sigmoid", F: sigmoid},
	"relu":     {Name: "relu", F: relu},
}

// ResolveActivation maps a symbolic name to its elementwise function. It
// returns an error wrapping ErrUnknownActivation for unrecognized names.
func ResolveActivation(name string) (Activation, error) {
	a, ok := activations[name]
	if !ok {
		return Activation{}, errors.Wrap(ErrUnknownActivation, name)
	}
	return a, nil
}
