package layer

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// ReservoirConfig configures a RandomReservoirLayer.
type ReservoirConfig struct {
	Nodes          int
	Activation     string
	FractionInput  float64
	LeakageRate    float64
	SpectralRadius float64
	Sparsity       float64
	Seed           int64 // deterministic weight sampling when > 0
}

// DefaultReservoirConf returns the standard echo-state configuration for a
// reservoir of the given size: a sparse tanh reservoir just inside the
// echo-state regime, without leaky integration.
func DefaultReservoirConf(nodes int) ReservoirConfig {
	return ReservoirConfig{
		Nodes:          nodes,
		Activation:     "tanh",
		FractionInput:  0.5,
		LeakageRate:    1.0,
		SpectralRadius: 0.9,
		Sparsity:       0.9,
	}
}

func (conf ReservoirConfig) IsValid() bool {
	return conf.Nodes >= 1 &&
		conf.FractionInput > 0 && conf.FractionInput <= 1 &&
		conf.LeakageRate > 0 && conf.LeakageRate <= 1 &&
		conf.SpectralRadius > 0 &&
		conf.Sparsity >= 0 && conf.Sparsity < 1
}

// RandomReservoirLayer is an echo-state reservoir with uniformly sampled
// sparse recurrent weights. The weight matrices are fixed at construction,
// never trained, and shared read-only across batch workers.
type RandomReservoirLayer struct {
	conf ReservoirConfig
	in   Shape

	wRes *mat.Dense
	wIn  *mat.Dense
	act  Activation
}

// NewRandomReservoir samples and scales the weight matrices for a reservoir
// consuming in-shaped sequences.
func NewRandomReservoir(in Shape, conf ReservoirConfig) (*RandomReservoirLayer, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid reservoir config %+v", conf)
	}
	if in.Channels < 1 {
		return nil, &ShapeError{Axis: "channels", Want: 1, Got: in.Channels}
	}
	act, err := ResolveActivation(conf.Activation)
	if err != nil {
		return nil, err
	}
	wRes, wIn, err := initWeights(conf.Nodes, in.Channels, WeightsConfig{
		FractionInput:  conf.FractionInput,
		SpectralRadius: conf.SpectralRadius,
		Sparsity:       conf.Sparsity,
		Seed:           conf.Seed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing reservoir weights")
	}
	return &RandomReservoirLayer{conf: conf, in: in, wRes: wRes, wIn: wIn, act: act}, nil
}

// RestoreRandomReservoir rebuilds a reservoir from previously sampled weight
// matrices, without resampling. Used when loading persisted models.
func RestoreRandomReservoir(in Shape, conf ReservoirConfig, wRes, wIn *mat.Dense) (*RandomReservoirLayer, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid reservoir config %+v", conf)
	}
	act, err := ResolveActivation(conf.Activation)
	if err != nil {
		return nil, err
	}
	if r, c := wRes.Dims(); r != conf.Nodes || c != conf.Nodes {
		return nil, &ShapeError{Axis: "recurrent", Want: conf.Nodes, Got: r}
	}
	if r, c := wIn.Dims(); r != conf.Nodes || c != in.Channels {
		return nil, &ShapeError{Axis: "input projection", Want: in.Channels, Got: c}
	}
	return &RandomReservoirLayer{conf: conf, in: in, wRes: wRes, wIn: wIn, act: act}, nil
}

func (l *RandomReservoirLayer) Name() string { return "reservoir.random" }

func (l *RandomReservoirLayer) InputShape() Shape { return l.in }

func (l *RandomReservoirLayer) OutputShape() Shape {
	return Shape{TimeSteps: l.in.TimeSteps, Channels: l.conf.Nodes}
}

// Conf returns the configuration the layer was built with.
func (l *RandomReservoirLayer) Conf() ReservoirConfig { return l.conf }

// WRes returns the recurrent weight matrix. Read-only.
func (l *RandomReservoirLayer) WRes() *mat.Dense { return l.wRes }

// WIn returns the input projection matrix. Read-only.
func (l *RandomReservoirLayer) WIn() *mat.Dense { return l.wIn }

// Step advances the reservoir one time step with the leaky-integrator
// update
//
//	dst = (1-a)·prev + a·act(WRes·prev + WIn·in)
//
// where a is the leakage rate. dst may alias prev.
func (l *RandomReservoirLayer) Step(prev, in, dst *mat.VecDense) {
	var z, zi mat.VecDense
	z.MulVec(l.wRes, prev)
	zi.MulVec(l.wIn, in)
	z.AddVec(&z, &zi)
	raw := z.RawVector().Data
	l.act.Apply(raw)

	a := l.conf.LeakageRate
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, (1-a)*prev.AtVec(i)+a*raw[i])
	}
}

// CollectStates drives the reservoir with every sequence in x and returns
// one state vector per time step, shaped (batch, time, nodes). The state is
// reset to zero at the start of each sequence. Time steps within a sequence
// are strictly sequential; batch elements are independent and fan out to a
// bounded worker pool, each worker owning its own state vector.
func (l *RandomReservoirLayer) CollectStates(x *tensor.Dense) (*tensor.Dense, error) {
	if err := CheckBatch(x, l.in); err != nil {
		return nil, errors.Wrap(err, l.Name())
	}
	shp := x.Shape()
	b, t, c := shp[0], shp[1], shp[2]
	nodes := l.conf.Nodes
	xs := x.Data().([]float64)
	out := make([]float64, b*t*nodes)

	workers := runtime.NumCPU()
	if workers > b {
		workers = b
	}
	seqs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := mat.NewVecDense(nodes, nil)
			in := mat.NewVecDense(c, nil)
			for bi := range seqs {
				state.Zero()
				for ti := 0; ti < t; ti++ {
					row := (bi*t + ti)
					copy(in.RawVector().Data, xs[row*c:(row+1)*c])
					l.Step(state, in, state)
					copy(out[row*nodes:(row+1)*nodes], state.RawVector().Data)
				}
			}
		}()
	}
	for bi := 0; bi < b; bi++ {
		seqs <- bi
	}
	close(seqs)
	wg.Wait()

	return tensor.New(tensor.WithShape(b, t, nodes), tensor.WithBacking(out)), nil
}
