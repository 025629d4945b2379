package layer

import (
	"math/cmplx"
	"time"

	rng "github.com/leesper/go_rng"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Rescaling a matrix whose spectral radius is below this is treated as a
// division by zero.
const minSpectralRadius = 1e-12

// WeightsConfig controls the sampling of a reservoir's weight matrices.
type WeightsConfig struct {
	FractionInput  float64 // probability that a node is wired to the input
	SpectralRadius float64 // largest eigenvalue magnitude of the recurrent matrix after rescale
	Sparsity       float64 // fraction of recurrent entries forced to zero
	Seed           int64   // deterministic sampling when > 0
}

// initWeights samples the recurrent matrix wRes (nodes × nodes) and the
// input projection wIn (nodes × nIn). Recurrent entries are drawn uniformly
// from (-1, 1), masked to the requested sparsity and rescaled so the largest
// eigenvalue magnitude equals conf.SpectralRadius. Each node is connected to
// all input channels with probability conf.FractionInput; unconnected nodes
// get a zero row.
func initWeights(nodes, nIn int, conf WeightsConfig) (wRes, wIn *mat.Dense, err error) {
	seed := conf.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	uni := rng.NewUniformGenerator(seed)

	res := make([]float64, nodes*nodes)
	for i := range res {
		if uni.Float64() >= conf.Sparsity {
			res[i] = uni.Float64Range(-1, 1)
		}
	}
	wRes = mat.NewDense(nodes, nodes, res)

	radius, err := spectralRadius(wRes)
	if err != nil {
		return nil, nil, errors.Wrap(ErrDegenerateReservoir, err.Error())
	}
	if radius < minSpectralRadius {
		return nil, nil, errors.Wrapf(ErrDegenerateReservoir, "sampled radius %g with sparsity %g", radius, conf.Sparsity)
	}
	wRes.Scale(conf.SpectralRadius/radius, wRes)

	in := make([]float64, nodes*nIn)
	var connected bool
	for node := 0; node < nodes; node++ {
		if uni.Float64() >= conf.FractionInput {
			continue
		}
		connected = true
		for j := 0; j < nIn; j++ {
			in[node*nIn+j] = uni.Float64Range(-1, 1)
		}
	}
	if !connected {
		return nil, nil, errors.Wrapf(ErrUnreachableReservoir, "fraction_input %g over %d nodes", conf.FractionInput, nodes)
	}
	wIn = mat.NewDense(nodes, nIn, in)
	return wRes, wIn, nil
}

// spectralRadius returns the largest eigenvalue magnitude of m.
func spectralRadius(m *mat.Dense) (float64, error) {
	var eig mat.Eigen
	if !eig.Factorize(m, mat.EigenNone) {
		return 0, errors.New("eigendecomposition failed")
	}
	var radius float64
	for _, v := range eig.Values(nil) {
		if r := cmplx.Abs(v); r > radius {
			radius = r
		}
	}
	return radius, nil
}
