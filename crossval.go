package reservoir

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"

	"github.com/gorgonia/reservoir/layer"
)

// Predictor is the contract the cross-validation harness drives. Both
// ReservoirComputer and Model satisfy it.
type Predictor interface {
	Fit(X, y *tensor.Dense) error
	Predict(X *tensor.Dense) (*tensor.Dense, error)
	Evaluate(X, y *tensor.Dense, metrics ...string) (map[string]float64, error)
}

// KFoldCrossValidate splits the batch axis into k contiguous folds, fits a
// fresh model from factory on the remainder of each fold and evaluates it on
// the held-out fold. It returns the per-fold scores. The logger may be nil.
func KFoldCrossValidate(factory func() (Predictor, error), X, y *tensor.Dense, k int, metrics []string, log *logrus.Logger) (*Statistics, error) {
	if err := layer.CheckBatch(X, layer.Shape{}); err != nil {
		return nil, errors.Wrap(err, "input batch")
	}
	if err := layer.CheckBatch(y, layer.Shape{}); err != nil {
		return nil, errors.Wrap(err, "target batch")
	}
	nb := X.Shape()[0]
	if k < 2 || k > nb {
		return nil, errors.Errorf("k must be in [2, %d], got %d", nb, k)
	}
	for _, name := range metrics {
		if _, err := ResolveMetric(name); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = quietLogger()
	}

	stats := makeStatistics(metrics)
	for fold := 0; fold < k; fold++ {
		lo, hi := fold*nb/k, (fold+1)*nb/k

		trainX := selectBatches(X, lo, hi, false)
		trainY := selectBatches(y, lo, hi, false)
		testX := selectBatches(X, lo, hi, true)
		testY := selectBatches(y, lo, hi, true)

		model, err := factory()
		if err != nil {
			return nil, errors.Wrapf(err, "constructing model for fold %d", fold)
		}
		if err := model.Fit(trainX, trainY); err != nil {
			return nil, errors.Wrapf(err, "fitting fold %d", fold)
		}
		scores, err := model.Evaluate(testX, testY, metrics...)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating fold %d", fold)
		}
		stats.update(fold, scores)

		fields := logrus.Fields{"fold": fold, "train": nb - (hi - lo), "test": hi - lo}
		for name, v := range scores {
			fields[name] = v
		}
		log.WithFields(fields).Info("fold evaluated")
	}
	return stats, nil
}

// selectBatches copies the batch elements of x with index in [lo, hi) when
// inside is true, or everything else when false.
func selectBatches(x *tensor.Dense, lo, hi int, inside bool) *tensor.Dense {
	shp := x.Shape()
	b, t, c := shp[0], shp[1], shp[2]
	xs := x.Data().([]float64)
	seq := t * c

	var data []float64
	n := 0
	for bi := 0; bi < b; bi++ {
		if (bi >= lo && bi < hi) == inside {
			data = append(data, xs[bi*seq:(bi+1)*seq]...)
			n++
		}
	}
	return tensor.New(tensor.WithShape(n, t, c), tensor.WithBacking(data))
}
