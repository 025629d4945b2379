package reservoir

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMetricReductions(t *testing.T) {
	assert := assert.New(t)
	pred := []float64{1, 2, 3, 4}
	want := []float64{1, 1, 5, 2}
	// diffs: 0, 1, -2, 2

	assert.InDelta(9.0/4, MSE(pred, want), 1e-15)
	assert.InDelta(5.0/4, MAE(pred, want), 1e-15)
	assert.InDelta(math.Sqrt(9.0/4), RMSE(pred, want), 1e-15)
}

func TestR2(t *testing.T) {
	assert := assert.New(t)
	want := []float64{1, 2, 3, 4}

	assert.InDelta(1.0, R2(want, want), 1e-15)

	mean := []float64{2.5, 2.5, 2.5, 2.5}
	assert.InDelta(0.0, R2(mean, want), 1e-15)

	flat := []float64{3, 3, 3}
	assert.Equal(1.0, R2(flat, flat))
	assert.Equal(0.0, R2([]float64{1, 2, 3}, flat))
}

func TestResolveMetric(t *testing.T) {
	for _, name := range []string{"mse", "mae", "rmse", "r2"} {
		if _, err := ResolveMetric(name); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	_, err := ResolveMetric("accuracy")
	assert.True(t, errors.Is(err, ErrUnknownMetric), "got %v", err)
}
