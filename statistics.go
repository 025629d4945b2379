package reservoir

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics accumulates per-fold cross-validation scores.
type Statistics struct {
	Metrics []string
	Folds   []int
	Scores  map[string][]float64 // metric name → score per fold
}

func makeStatistics(metrics []string) *Statistics {
	return &Statistics{
		Metrics: append([]string(nil), metrics...),
		Scores:  make(map[string][]float64, len(metrics)),
	}
}

func (s *Statistics) update(fold int, scores map[string]float64) {
	s.Folds = append(s.Folds, fold)
	for _, m := range s.Metrics {
		s.Scores[m] = append(s.Scores[m], scores[m])
	}
}

// Mean returns the across-fold mean of a metric, or NaN-free 0 when the
// metric was never recorded.
func (s *Statistics) Mean(metric string) float64 {
	scores := s.Scores[metric]
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// Dump writes the per-fold scores to filename as CSV, one row per fold.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"fold"}, s.Metrics...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, fold := range s.Folds {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(fold))
		for _, m := range s.Metrics {
			record = append(record, strconv.FormatFloat(s.Scores[m][i], 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
