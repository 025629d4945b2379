package layer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestInitWeightsDeterminism(t *testing.T) {
	conf := WeightsConfig{FractionInput: 0.5, SpectralRadius: 0.9, Sparsity: 0.9, Seed: 1337}

	a1, b1, err := initWeights(50, 3, conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	a2, b2, err := initWeights(50, 3, conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	assert := assert.New(t)
	assert.True(mat.Equal(a1, a2), "same seed must yield the same recurrent matrix")
	assert.True(mat.Equal(b1, b2), "same seed must yield the same input projection")
}

func TestInitWeightsSpectralRadius(t *testing.T) {
	for _, want := range []float64{0.5, 0.9, 1.2} {
		conf := WeightsConfig{FractionInput: 0.5, SpectralRadius: want, Sparsity: 0.9, Seed: 7}
		wRes, _, err := initWeights(80, 2, conf)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		got, err := spectralRadius(wRes)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		assert.InDelta(t, want, got, 1e-8, "requested radius %g", want)
	}
}

func TestInitWeightsSparsity(t *testing.T) {
	conf := WeightsConfig{FractionInput: 1, SpectralRadius: 0.9, Sparsity: 0.8, Seed: 99}
	wRes, _, err := initWeights(100, 1, conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	var zeros int
	for i := 0; i < 100; i++ {
		for _, v := range wRes.RawRowView(i) {
			if v == 0 {
				zeros++
			}
		}
	}
	// 10000 Bernoulli(0.8) draws; allow generous slack
	assert.InDelta(t, 8000, zeros, 300)
}

func TestInitWeightsDegenerate(t *testing.T) {
	// Sparsity 1 zeroes every recurrent entry, so the rescale must refuse
	// rather than divide by zero.
	conf := WeightsConfig{FractionInput: 0.5, SpectralRadius: 0.9, Sparsity: 1.0, Seed: 5}
	_, _, err := initWeights(10, 1, conf)
	assert.True(t, errors.Is(err, ErrDegenerateReservoir), "got %v", err)
}

func TestInitWeightsUnreachable(t *testing.T) {
	conf := WeightsConfig{FractionInput: 0, SpectralRadius: 0.9, Sparsity: 0.5, Seed: 5}
	_, _, err := initWeights(10, 1, conf)
	assert.True(t, errors.Is(err, ErrUnreachableReservoir), "got %v", err)
}

func TestInitWeightsInputFraction(t *testing.T) {
	conf := WeightsConfig{FractionInput: 0.5, SpectralRadius: 0.9, Sparsity: 0.9, Seed: 21}
	_, wIn, err := initWeights(200, 4, conf)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	var connected int
	for i := 0; i < 200; i++ {
		row := wIn.RawRowView(i)
		nonzero := false
		for _, v := range row {
			if v != 0 {
				nonzero = true
			}
		}
		if nonzero {
			connected++
			continue
		}
		for _, v := range row {
			assert.Equal(t, 0.0, v, "unconnected node %d must have a zero row", i)
		}
	}
	assert.InDelta(t, 100, connected, 40)
}
