// Package reservoir implements reservoir computing: sequence-to-sequence
// predictors built from a fixed, randomly initialized recurrent system (the
// reservoir) driven by the input, with a linear readout trained in closed
// form by ridge regression.
//
// ReservoirComputer is the low-friction entry point, a preconfigured
// input → random reservoir → readout pipeline. Model composes arbitrary
// reservoir variants by hand.
//
// All data moves as rank-3 float64 *tensor.Dense values shaped
// (batch, time, channels).
package reservoir

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"

	"github.com/gorgonia/reservoir/layer"
)

// ReservoirComputer is the predefined model: an input layer, one random
// reservoir and a trained linear readout behind Fit, Predict and Evaluate.
type ReservoirComputer struct {
	conf    Config
	in, out layer.Shape

	model *Model
	res   *layer.RandomReservoirLayer

	log *logrus.Logger
}

// New constructs a ReservoirComputer consuming in-shaped batches and
// producing out-shaped predictions. The reservoir weights are sampled here
// and never change afterwards.
func New(in, out layer.Shape, conf Config) (*ReservoirComputer, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid config %+v", conf)
	}
	res, err := layer.NewRandomReservoir(in, conf.reservoirConf())
	if err != nil {
		return nil, err
	}
	m, err := assemble(in, out, conf, res)
	if err != nil {
		return nil, err
	}
	return &ReservoirComputer{
		conf:  conf,
		in:    in,
		out:   out,
		model: m,
		res:   res,
		log:   quietLogger(),
	}, nil
}

// assemble wires a sampled reservoir into a compiled three-layer pipeline.
func assemble(in, out layer.Shape, conf Config, res *layer.RandomReservoirLayer) (*Model, error) {
	m := NewModel()
	m.RidgeAlpha = conf.RidgeAlpha
	m.IncludeInput = conf.IncludeInput
	for _, l := range []layer.Layer{layer.NewInput(in), res, layer.NewReadout(out)} {
		if err := m.Add(l); err != nil {
			return nil, err
		}
	}
	metrics := conf.Metrics
	if len(metrics) == 0 {
		metrics = []string{"mse"}
	}
	if err := m.Compile("ridge", metrics); err != nil {
		return nil, err
	}
	return m, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger replaces the model's logger. Nil is ignored.
func (rc *ReservoirComputer) SetLogger(l *logrus.Logger) {
	if l != nil {
		rc.log = l
	}
}

// Conf returns the configuration the model was built with.
func (rc *ReservoirComputer) Conf() Config { return rc.conf }

// Reservoir returns the internal reservoir layer. Read-only.
func (rc *ReservoirComputer) Reservoir() *layer.RandomReservoirLayer { return rc.res }

// Fit trains the readout to map X onto y.
func (rc *ReservoirComputer) Fit(X, y *tensor.Dense) error {
	if err := rc.model.Fit(X, y); err != nil {
		return err
	}
	rc.log.WithFields(logrus.Fields{
		"nodes":   rc.conf.Nodes,
		"batches": X.Shape()[0],
		"time":    X.Shape()[1],
	}).Debug("readout fitted")
	return nil
}

// Predict maps X through the reservoir and the trained readout, returning
// predictions shaped (batch, time, outputs). It fails with ErrNotFitted
// before the first Fit.
func (rc *ReservoirComputer) Predict(X *tensor.Dense) (*tensor.Dense, error) {
	return rc.model.Predict(X)
}

// Evaluate predicts X and reduces each metric against y. With no explicit
// metrics the configured metric set is used; each metric is a single scalar
// averaged over batch, time and output channels.
func (rc *ReservoirComputer) Evaluate(X, y *tensor.Dense, metrics ...string) (map[string]float64, error) {
	return rc.model.Evaluate(X, y, metrics...)
}
