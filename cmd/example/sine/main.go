// Command sine fits a small echo-state network on the classic
// phase-shift-and-scale task: x(t) = sin(πt) onto y(t) = 2·cos(πt).
package main

import (
	"log"
	"math"

	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"

	"github.com/gorgonia/reservoir"
	"github.com/gorgonia/reservoir/layer"
)

func main() {
	const (
		steps = 300
		dt    = 0.02 // 100 steps per period of sin(πt)
	)
	xs := make([]float64, steps)
	ys := make([]float64, steps)
	for i := range xs {
		t := dt * float64(i)
		xs[i] = math.Sin(math.Pi * t)
		ys[i] = 2 * math.Cos(math.Pi*t)
	}
	X := tensor.New(tensor.WithShape(1, steps, 1), tensor.WithBacking(xs))
	Y := tensor.New(tensor.WithShape(1, steps, 1), tensor.WithBacking(ys))

	conf := reservoir.DefaultConf(200)
	conf.Seed = 42

	rc, err := reservoir.New(layer.Shape{Channels: 1}, layer.Shape{Channels: 1}, conf)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	rc.SetLogger(logrus.StandardLogger())

	if err := rc.Fit(X, Y); err != nil {
		log.Fatalf("%+v", err)
	}
	scores, err := rc.Evaluate(X, Y, "mse", "mae", "r2")
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("mse=%.6f mae=%.6f r2=%.6f", scores["mse"], scores["mae"], scores["r2"])
}
