package gbdt

import (
	"github.com/YuminosukeSato/goboost/pkg/errors"
)

// Params contains the boosting hyperparameters. All fields are fixed once
// Fit starts.
type Params struct {
	// NEstimators is the number of boosting rounds (trees). Must be >= 1.
	NEstimators int `json:"n_estimators"`
	// LearningRate scales each tree's contribution, typically in (0, 1].
	LearningRate float64 `json:"learning_rate"`
	// MaxDepth bounds tree depth in edges from the root. 0 means every
	// tree is a single leaf.
	MaxDepth int `json:"max_depth"`
	// MinSampleSplit is the minimum number of samples a node needs to be
	// considered for splitting. Must be >= 1.
	MinSampleSplit int `json:"min_sample_split"`
	// RegLambda is the L2 regularization on leaf scores. Must be >= 0.
	RegLambda float64 `json:"reg_lambda"`
	// Gamma is the minimum gain required to accept a split. Must be >= 0.
	// Negative gamma is rejected: the search signals "no useful split"
	// with gain 0, which only folds into the gain <= gamma stop when
	// gamma is non-negative.
	Gamma float64 `json:"gamma"`
	// Loss selects the built-in loss function: "mse", "log" or "huber".
	// A custom Loss can be attached with GBDT.WithLoss after construction.
	Loss string `json:"loss"`
	// Verbosity > 0 enables per-round progress logging.
	Verbosity int `json:"verbosity"`
}

// DefaultParams returns the default hyperparameters: 100 rounds of depth-3
// trees with learning rate 0.1, lambda 1 and squared-error loss.
func DefaultParams() Params {
	return Params{
		NEstimators:    100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSampleSplit: 10,
		RegLambda:      1.0,
		Gamma:          0.0,
		Loss:           "mse",
	}
}

// withDefaults fills the fields whose zero value is never a usable setting.
// MaxDepth, RegLambda and Gamma are left alone: zero is meaningful for all
// three.
func (p Params) withDefaults() Params {
	if p.NEstimators == 0 {
		p.NEstimators = 100
	}
	if p.LearningRate == 0 {
		p.LearningRate = 0.1
	}
	if p.MinSampleSplit == 0 {
		p.MinSampleSplit = 10
	}
	if p.Loss == "" {
		p.Loss = "mse"
	}
	return p
}

// Validate checks the documented bounds on every hyperparameter. It runs
// once at construction time so no failure can surface mid-recursion.
func (p Params) Validate() error {
	if p.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be >= 1", p.NEstimators)
	}
	if p.LearningRate <= 0 {
		return errors.NewValidationError("learning_rate", "must be > 0", p.LearningRate)
	}
	if p.MaxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be >= 0", p.MaxDepth)
	}
	if p.MinSampleSplit < 1 {
		return errors.NewValidationError("min_sample_split", "must be >= 1", p.MinSampleSplit)
	}
	if p.RegLambda < 0 {
		return errors.NewValidationError("reg_lambda", "must be >= 0", p.RegLambda)
	}
	if p.Gamma < 0 {
		return errors.NewValidationError("gamma", "must be >= 0", p.Gamma)
	}
	return nil
}
