package ridge

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// well-conditioned feature matrix with a deterministic fill
func testPhi(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = math.Sin(float64(3*i+1)) + 0.1*float64(i%cols)
	}
	return mat.NewDense(rows, cols, data)
}

func TestFitRecoversKnownWeights(t *testing.T) {
	// Targets constructed from known weights and noiseless features must be
	// recovered as alpha tends to zero.
	phi := testPhi(60, 4)
	want := mat.NewDense(4, 2, []float64{
		1.5, -0.5,
		0.0, 2.0,
		-1.0, 0.25,
		3.0, 1.0,
	})
	var y mat.Dense
	y.Mul(phi, want)

	got, err := Fit(phi, &y, 1e-12)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	r, c := got.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-6, "weight (%d,%d)", i, j)
		}
	}
}

func TestFitRegularizationShrinks(t *testing.T) {
	phi := testPhi(40, 3)
	w := mat.NewDense(3, 1, []float64{2, -3, 1})
	var y mat.Dense
	y.Mul(phi, w)

	small, err := Fit(phi, &y, 1e-10)
	require.NoError(t, err)
	large, err := Fit(phi, &y, 1e4)
	require.NoError(t, err)

	norm := func(m *mat.Dense) float64 { return mat.Norm(m, 2) }
	assert.Less(t, norm(large), norm(small), "heavy regularization must shrink the solution")
}

func TestFitCollinearFeatures(t *testing.T) {
	// Duplicated columns make PhiᵀPhi singular without regularization; a
	// positive alpha must still give a finite solution.
	base := testPhi(30, 2)
	data := make([]float64, 30*4)
	for i := 0; i < 30; i++ {
		r := base.RawRowView(i)
		copy(data[i*4:], []float64{r[0], r[1], r[0], r[1]})
	}
	phi := mat.NewDense(30, 4, data)
	y := mat.NewDense(30, 1, nil)
	for i := 0; i < 30; i++ {
		y.Set(i, 0, base.At(i, 0)-base.At(i, 1))
	}

	w, err := Fit(phi, y, 1e-6)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	r, _ := w.Dims()
	for i := 0; i < r; i++ {
		assert.False(t, math.IsNaN(w.At(i, 0)), "weight %d is NaN", i)
		assert.False(t, math.IsInf(w.At(i, 0), 0), "weight %d is Inf", i)
	}
}

func TestFitSingular(t *testing.T) {
	phi := mat.NewDense(10, 3, nil) // all zeros
	y := mat.NewDense(10, 1, nil)

	_, err := Fit(phi, y, 0)
	assert.True(t, errors.Is(err, ErrSingular), "got %v", err)
}

func TestFitArgumentErrors(t *testing.T) {
	phi := testPhi(10, 2)
	y := mat.NewDense(10, 1, nil)

	_, err := Fit(phi, y, -1)
	assert.Error(t, err)

	short := mat.NewDense(9, 1, nil)
	_, err = Fit(phi, short, 1e-6)
	assert.Error(t, err)
}
