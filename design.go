package reservoir

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// designMatrix flattens collected states shaped (batch, time, nodes) into
// the ridge design matrix Φ shaped (batch·time, nodes[+channels]+1). Every
// row carries the state at one time step of one batch element, optionally
// followed by the raw input channels at that step, and a trailing bias term.
// Row order is batch-major and matches flattenTargets.
func designMatrix(states, raw *tensor.Dense, includeInput bool) *mat.Dense {
	shp := states.Shape()
	b, t, n := shp[0], shp[1], shp[2]
	rows := b * t
	cols := n + 1

	var xs []float64
	var c int
	if includeInput {
		c = raw.Shape()[2]
		cols += c
		xs = raw.Data().([]float64)
	}

	ss := states.Data().([]float64)
	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		off := r * cols
		copy(data[off:off+n], ss[r*n:(r+1)*n])
		if includeInput {
			copy(data[off+n:off+n+c], xs[r*c:(r+1)*c])
		}
		data[off+cols-1] = 1
	}
	return mat.NewDense(rows, cols, data)
}

// flattenTargets reshapes a (batch, time, channels) target tensor into a
// (batch·time, channels) matrix sharing the tensor's backing array.
func flattenTargets(y *tensor.Dense) *mat.Dense {
	shp := y.Shape()
	return mat.NewDense(shp[0]*shp[1], shp[2], y.Data().([]float64))
}
