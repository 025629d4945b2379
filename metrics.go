package reservoir

import (
	"math"

	"github.com/pkg/errors"
)

// Metric reduces matched prediction and target data to one scalar, averaged
// over batch, time and output channels alike.
type Metric func(pred, want []float64) float64

// MSE is the mean squared error.
func MSE(pred, want []float64) float64 {
	var sum float64
	for i := range pred {
		d := pred[i] - want[i]
		sum += d * d
	}
	return sum / float64(len(pred))
}

// MAE is the mean absolute error.
func MAE(pred, want []float64) float64 {
	var sum float64
	for i := range pred {
		sum += math.Abs(pred[i] - want[i])
	}
	return sum / float64(len(pred))
}

// RMSE is the root mean squared error.
func RMSE(pred, want []float64) float64 {
	return math.Sqrt(MSE(pred, want))
}

// R2 is the coefficient of determination. Zero-variance targets score 0
// unless matched exactly, in which case they score 1.
func R2(pred, want []float64) float64 {
	var mean float64
	for _, w := range want {
		mean += w
	}
	mean /= float64(len(want))

	var ssRes, ssTot float64
	for i := range want {
		d := pred[i] - want[i]
		ssRes += d * d
		t := want[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

var knownMetrics = map[string]Metric{
	"mse":  MSE,
	"mae":  MAE,
	"rmse": RMSE,
	"r2":   R2,
}

// ResolveMetric maps a symbolic name to its reduction. It returns an error
// wrapping ErrUnknownMetric for unrecognized names.
func ResolveMetric(name string) (Metric, error) {
	m, ok := knownMetrics[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownMetric, name)
	}
	return m, nil
}
