package reservoir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestDesignMatrix(t *testing.T) {
	states := tensor.New(tensor.WithShape(2, 2, 3), tensor.WithBacking([]float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}))

	phi := designMatrix(states, nil, false)
	r, c := phi.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)
	assert.Equal(t, []float64{1, 2, 3, 1}, phi.RawRowView(0))
	assert.Equal(t, []float64{10, 11, 12, 1}, phi.RawRowView(3))
}

func TestDesignMatrixIncludeInput(t *testing.T) {
	states := tensor.New(tensor.WithShape(1, 2, 2), tensor.WithBacking([]float64{
		1, 2, 3, 4,
	}))
	raw := tensor.New(tensor.WithShape(1, 2, 1), tensor.WithBacking([]float64{
		0.5, -0.5,
	}))

	phi := designMatrix(states, raw, true)
	r, c := phi.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 4, c)
	assert.Equal(t, []float64{1, 2, 0.5, 1}, phi.RawRowView(0))
	assert.Equal(t, []float64{3, 4, -0.5, 1}, phi.RawRowView(1))
}

func TestFlattenTargets(t *testing.T) {
	y := tensor.New(tensor.WithShape(2, 3, 2), tensor.WithBacking([]float64{
		0, 1, 2, 3, 4, 5,
		6, 7, 8, 9, 10, 11,
	}))

	m := flattenTargets(y)
	r, c := m.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 2, c)
	assert.Equal(t, []float64{0, 1}, m.RawRowView(0))
	assert.Equal(t, []float64{10, 11}, m.RawRowView(5))
}
