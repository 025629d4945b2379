package reservoir

import "github.com/gorgonia/reservoir/layer"

// Config configures the predefined ReservoirComputer model.
type Config struct {
	Nodes          int
	Activation     string
	LeakageRate    float64
	SpectralRadius float64
	FractionInput  float64
	Sparsity       float64
	RidgeAlpha     float64
	Seed           int64 // deterministic weight sampling when > 0

	// IncludeInput feeds the raw input channels to the readout alongside the
	// collected states.
	IncludeInput bool

	// Metrics is the metric set used by Evaluate when no explicit override
	// is given.
	Metrics []string
}

// DefaultConf returns the standard configuration for a reservoir of the
// given size.
func DefaultConf(nodes int) Config {
	return Config{
		Nodes:          nodes,
		Activation:     "tanh",
		LeakageRate:    1.0,
		SpectralRadius: 0.9,
		FractionInput:  0.5,
		Sparsity:       0.9,
		RidgeAlpha:     defaultRidgeAlpha,
		Metrics:        []string{"mse"},
	}
}

func (conf Config) IsValid() bool {
	return conf.reservoirConf().IsValid() && conf.RidgeAlpha >= 0
}

func (conf Config) reservoirConf() layer.ReservoirConfig {
	return layer.ReservoirConfig{
		Nodes:          conf.Nodes,
		Activation:     conf.Activation,
		FractionInput:  conf.FractionInput,
		LeakageRate:    conf.LeakageRate,
		SpectralRadius: conf.SpectralRadius,
		Sparsity:       conf.Sparsity,
		Seed:           conf.Seed,
	}
}
