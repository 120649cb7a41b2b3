// Package report drives the full analysis: load and clean the county table,
// plot descriptive figures, tune penalized regression and classification
// models by cross-validated grid search, and print ranked results.
package report

import (
	"github.com/spf13/viper"

	"github.com/voteworks/electnet/pkg/errors"
)

// Config collects every knob of the analysis. Values come from flags, the
// environment, or a config file through viper; Defaults documents the
// canonical run.
type Config struct {
	DataPath string

	Seed  int64
	Folds int

	PenaltyMin   float64
	PenaltyMax   float64
	PenaltyCount int
	MixtureStep  float64

	// HoldoutFrac is the share of rows held out for final evaluation.
	// Zero scores the final models on their own training rows instead.
	HoldoutFrac float64

	// ThresholdedAUC computes ROC AUC from rounded class predictions
	// instead of probabilities. Off unless explicitly requested; turning
	// it on emits a methodology warning.
	ThresholdedAUC bool

	PlotDir string
	TopN    int
}

// SetDefaults registers the canonical analysis parameters on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data", "election.csv")
	v.SetDefault("seed", 42)
	v.SetDefault("folds", 5)
	v.SetDefault("penalty-min", 1e-2)
	v.SetDefault("penalty-max", 1e5)
	v.SetDefault("penalty-count", 1000)
	v.SetDefault("mixture-step", 0.05)
	v.SetDefault("holdout", 0.2)
	v.SetDefault("thresholded-auc", false)
	v.SetDefault("plot-dir", "plots")
	v.SetDefault("top-n", 5)
}

// FromViper materializes and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DataPath:       v.GetString("data"),
		Seed:           v.GetInt64("seed"),
		Folds:          v.GetInt("folds"),
		PenaltyMin:     v.GetFloat64("penalty-min"),
		PenaltyMax:     v.GetFloat64("penalty-max"),
		PenaltyCount:   v.GetInt("penalty-count"),
		MixtureStep:    v.GetFloat64("mixture-step"),
		HoldoutFrac:    v.GetFloat64("holdout"),
		ThresholdedAUC: v.GetBool("thresholded-auc"),
		PlotDir:        v.GetString("plot-dir"),
		TopN:           v.GetInt("top-n"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.DataPath == "":
		return errors.NewValueError("Config", "data path is required")
	case c.Folds < 2:
		return errors.NewValueError("Config", "folds must be at least 2")
	case c.PenaltyMin <= 0 || c.PenaltyMax <= c.PenaltyMin:
		return errors.NewValueError("Config", "penalty range must satisfy 0 < min < max")
	case c.PenaltyCount < 2:
		return errors.NewValueError("Config", "penalty count must be at least 2")
	case c.MixtureStep <= 0 || c.MixtureStep > 1:
		return errors.NewValueError("Config", "mixture step must be in (0, 1]")
	case c.HoldoutFrac < 0 || c.HoldoutFrac >= 1:
		return errors.NewValueError("Config", "holdout fraction must be in [0, 1)")
	case c.TopN < 1:
		return errors.NewValueError("Config", "top-n must be positive")
	}
	return nil
}
