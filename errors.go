package reservoir

import "github.com/pkg/errors"

var (
	// ErrNotFitted is returned by Predict and Evaluate before any successful Fit.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrUnsupportedOptimizer is returned by Compile for optimizers other than
	// "ridge".
	ErrUnsupportedOptimizer = errors.New("unsupported optimizer")

	// ErrUnknownMetric is returned when a metric name cannot be resolved.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrNotCompiled is returned by Fit, Predict and Evaluate on a Model that
	// was never compiled.
	ErrNotCompiled = errors.New("model is not compiled")
)
