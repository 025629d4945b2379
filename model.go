package reservoir

import (
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/gorgonia/reservoir/layer"
	"github.com/gorgonia/reservoir/ridge"
)

const defaultRidgeAlpha = 1e-6

// Model is an ordered pipeline of layers: an input adapter, one or more
// reservoir layers chained by their collected states, and a readout. It is
// the composable counterpart of ReservoirComputer.
//
// A Model must be compiled before fitting. Fit calls are serialized; the
// trained readout is swapped in wholesale, so Predict may run concurrently
// with a Fit and will see either the old or the new weights.
type Model struct {
	layers  []layer.Layer
	readout *layer.ReadoutLayer

	compiled bool
	metrics  []string

	// RidgeAlpha is the L2 regularization strength handed to the readout
	// trainer. Strictly positive values keep the normal equations well
	// conditioned when nodes outnumber samples.
	RidgeAlpha float64

	// IncludeInput appends the raw input channels to the design matrix
	// alongside the collected states.
	IncludeInput bool

	mu sync.Mutex // serializes Fit
}

// NewModel returns an empty pipeline with default ridge regularization.
func NewModel() *Model {
	return &Model{RidgeAlpha: defaultRidgeAlpha}
}

// Add appends l to the pipeline after validating that its declared input
// shape is compatible with the previous layer's output shape. On failure the
// pipeline is left unchanged.
func (m *Model) Add(l layer.Layer) error {
	if l == nil {
		return errors.New("nil layer")
	}
	if len(m.layers) > 0 {
		prev := m.layers[len(m.layers)-1].OutputShape()
		in := l.InputShape()
		if in.Channels > 0 && prev.Channels > 0 && in.Channels != prev.Channels {
			return errors.Wrapf(
				&layer.ShapeError{Axis: "channels", Want: prev.Channels, Got: in.Channels},
				"adding layer %s", l.Name())
		}
		if in.TimeSteps > 0 && prev.TimeSteps > 0 && in.TimeSteps != prev.TimeSteps {
			return errors.Wrapf(
				&layer.ShapeError{Axis: "time", Want: prev.TimeSteps, Got: in.TimeSteps},
				"adding layer %s", l.Name())
		}
	}
	if ro, ok := l.(*layer.ReadoutLayer); ok {
		if m.readout != nil {
			return errors.Errorf("pipeline already has a readout layer, cannot add %s", l.Name())
		}
		m.readout = ro
	}
	m.layers = append(m.layers, l)
	return nil
}

// Compile records the training strategy and the metric set used by Evaluate.
// Only the "ridge" optimizer is supported; unknown optimizers fail with
// ErrUnsupportedOptimizer, unknown metrics with ErrUnknownMetric. The
// pipeline must contain at least one states-collecting layer and end in a
// readout.
func (m *Model) Compile(optimizer string, metrics []string) error {
	if optimizer != "ridge" {
		return errors.Wrap(ErrUnsupportedOptimizer, optimizer)
	}
	for _, name := range metrics {
		if _, err := ResolveMetric(name); err != nil {
			return err
		}
	}
	if m.readout == nil {
		return errors.New("pipeline has no readout layer")
	}
	if m.layers[len(m.layers)-1] != layer.Layer(m.readout) {
		return errors.New("readout must be the last layer")
	}
	var collectors int
	for _, l := range m.layers {
		if _, ok := l.(layer.StatesCollector); ok {
			collectors++
		}
	}
	if collectors == 0 {
		return errors.New("pipeline has no reservoir layer")
	}
	m.metrics = append([]string(nil), metrics...)
	m.compiled = true
	return nil
}

// forward runs x through every layer up to the readout and returns the final
// collected states.
func (m *Model) forward(x *tensor.Dense) (*tensor.Dense, error) {
	cur := x
	for _, l := range m.layers {
		switch t := l.(type) {
		case *layer.InputLayer:
			if err := t.Validate(cur); err != nil {
				return nil, errors.Wrap(err, l.Name())
			}
		case layer.StatesCollector:
			var err error
			if cur, err = t.CollectStates(cur); err != nil {
				return nil, err
			}
		case *layer.ReadoutLayer:
			// terminal, applied by the caller
		default:
			return nil, errors.Errorf("layer %s neither validates nor collects states", l.Name())
		}
	}
	return cur, nil
}

func (m *Model) checkPair(x, y *tensor.Dense) error {
	if err := layer.CheckBatch(x, layer.Shape{}); err != nil {
		return errors.Wrap(err, "input batch")
	}
	want := layer.Shape{Channels: m.readout.OutputShape().Channels}
	if err := layer.CheckBatch(y, want); err != nil {
		return errors.Wrap(err, "target batch")
	}
	xs, ys := x.Shape(), y.Shape()
	if xs[0] != ys[0] {
		return errors.Wrap(&layer.ShapeError{Axis: "batch", Want: xs[0], Got: ys[0]}, "target batch")
	}
	if xs[1] != ys[1] {
		return errors.Wrap(&layer.ShapeError{Axis: "time", Want: xs[1], Got: ys[1]}, "target batch")
	}
	return nil
}

// Fit runs X through the pipeline, assembles the design matrix from the
// final collected states and trains the readout on y by ridge regression.
// Refitting replaces the readout weights outright.
func (m *Model) Fit(X, y *tensor.Dense) error {
	if !m.compiled {
		return ErrNotCompiled
	}
	if err := m.checkPair(X, y); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	states, err := m.forward(X)
	if err != nil {
		return errors.Wrap(err, "forward pass")
	}
	phi := designMatrix(states, X, m.IncludeInput)
	w, err := ridge.Fit(phi, flattenTargets(y), m.RidgeAlpha)
	if err != nil {
		return errors.Wrap(err, "training readout")
	}
	m.readout.SetWeights(w)
	return nil
}

// Predict runs X through the pipeline and applies the trained readout,
// returning predictions shaped (batch, time, outputs). It fails with
// ErrNotFitted before the first successful Fit.
func (m *Model) Predict(X *tensor.Dense) (*tensor.Dense, error) {
	if !m.compiled {
		return nil, ErrNotCompiled
	}
	w := m.readout.Weights()
	if w == nil {
		return nil, ErrNotFitted
	}
	if err := layer.CheckBatch(X, layer.Shape{}); err != nil {
		return nil, errors.Wrap(err, "input batch")
	}

	states, err := m.forward(X)
	if err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}
	phi := designMatrix(states, X, m.IncludeInput)

	var out mat.Dense
	out.Mul(phi, w)

	shp := X.Shape()
	b, t := shp[0], shp[1]
	_, o := w.Dims()
	data := make([]float64, b*t*o)
	for r := 0; r < b*t; r++ {
		copy(data[r*o:(r+1)*o], out.RawRowView(r))
	}
	return tensor.New(tensor.WithShape(b, t, o), tensor.WithBacking(data)), nil
}

// Evaluate predicts X and reduces each metric against y. With no explicit
// metrics the compiled metric set is used. Every metric reduces to a single
// scalar averaged over batch, time and output channels.
func (m *Model) Evaluate(X, y *tensor.Dense, metrics ...string) (map[string]float64, error) {
	if len(metrics) == 0 {
		metrics = m.metrics
	}
	fns := make([]Metric, len(metrics))
	for i, name := range metrics {
		fn, err := ResolveMetric(name)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}

	pred, err := m.Predict(X)
	if err != nil {
		return nil, err
	}
	if err := m.checkPair(X, y); err != nil {
		return nil, err
	}

	ps := pred.Data().([]float64)
	ws := y.Data().([]float64)
	scores := make(map[string]float64, len(metrics))
	for i, name := range metrics {
		scores[name] = fns[i](ps, ws)
	}
	return scores, nil
}
