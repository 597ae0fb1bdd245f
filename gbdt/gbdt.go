// Package gbdt implements gradient-boosted decision trees trained by exact
// greedy split search on second-order gradient statistics. Each boosting
// round fits one regression tree to the gradients and hessians of the loss
// at the current raw scores, then folds the learning-rate-scaled tree
// predictions into the running score.
//
// Inputs are assumed finite: behavior on NaN or Inf feature values is
// undefined. Callers who need a guard can pre-validate with the helpers in
// pkg/errors.
package gbdt

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/goboost/core/model"
	"github.com/YuminosukeSato/goboost/pkg/errors"
	"github.com/YuminosukeSato/goboost/pkg/log"
)

// GBDT is a gradient-boosted decision tree ensemble for regression and
// binary classification. It implements model.Fitter and model.Predictor.
type GBDT struct {
	model.BaseEstimator

	params Params
	loss   Loss

	trees      []*tree
	scoreStart float64
	nFeatures  int

	trainLoss  []float64
	importance []float64

	logger log.Logger
}

var (
	_ model.Fitter    = (*GBDT)(nil)
	_ model.Predictor = (*GBDT)(nil)
)

// NewGBDT creates an ensemble from the given hyperparameters. Zero values
// for n_estimators, learning_rate, min_sample_split and loss fall back to
// the defaults; all bounds are validated here so Fit never fails on
// configuration.
func NewGBDT(p Params) (*GBDT, error) {
	p = p.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	loss, err := LossByName(p.Loss)
	if err != nil {
		return nil, err
	}
	return &GBDT{
		params: p,
		loss:   loss,
		logger: log.GetLoggerWithName("gbdt.ensemble"),
	}, nil
}

// WithLoss replaces the loss function with a custom implementation. Call
// before Fit.
func (gb *GBDT) WithLoss(l Loss) *GBDT {
	gb.loss = l
	return gb
}

// Params returns the hyperparameters the ensemble was constructed with.
func (gb *GBDT) Params() Params {
	return gb.params
}

// Fit trains the ensemble. X is n_samples x n_features, y is n_samples x 1.
// The initial score is the mean of the targets; each round fits a fresh
// tree (full MaxDepth budget) to the current gradients and hessians and
// accumulates LearningRate times its predictions into the running score.
// Tree order is significant and reproducible: refitting on the same data
// yields the same ensemble.
func (gb *GBDT) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 {
		return errors.Wrap(errors.ErrEmptyData, "GBDT.Fit")
	}
	xd := toDense(X)

	yRows, yCols := y.Dims()
	if yCols != 1 {
		return errors.NewDimensionError("GBDT.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return errors.NewDimensionError("GBDT.Fit", rows, yRows, 0)
	}

	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		targets[i] = y.At(i, 0)
	}

	gb.Reset()
	gb.trees = gb.trees[:0]
	gb.trainLoss = gb.trainLoss[:0]
	gb.importance = make([]float64, cols)
	gb.nFeatures = cols
	gb.scoreStart = stat.Mean(targets, nil)

	score := make([]float64, rows)
	for i := range score {
		score[i] = gb.scoreStart
	}
	g := make([]float64, rows)
	h := make([]float64, rows)

	if gb.params.Verbosity > 0 {
		gb.logger.Info("training started",
			"loss", gb.loss.Name(),
			"rounds", gb.params.NEstimators,
			"samples", rows,
			"features", cols)
	}

	for round := 0; round < gb.params.NEstimators; round++ {
		for i := range targets {
			g[i] = gb.loss.Gradient(targets[i], score[i])
			h[i] = gb.loss.Hessian(targets[i], score[i])
		}

		tr := newTree(gb.params)
		tr.fit(xd, g, h)
		gb.trees = append(gb.trees, tr)

		pred := tr.predict(xd)
		for i := range score {
			score[i] += gb.params.LearningRate * pred[i]
		}
		for j, gain := range tr.gainByFeature {
			gb.importance[j] += gain
		}

		var sum float64
		for i := range targets {
			sum += gb.loss.Value(targets[i], score[i])
		}
		gb.trainLoss = append(gb.trainLoss, sum/float64(rows))

		if gb.params.Verbosity > 0 && round%10 == 0 {
			gb.logger.Debug("training progress",
				"round", round,
				"train_loss", gb.trainLoss[round])
		}
	}

	gb.SetFitted()
	return nil
}

// PredictRaw returns the raw additive scores, one per input row: the start
// score plus the learning-rate-scaled sum of every tree's prediction, in
// fitting order, with no link applied.
func (gb *GBDT) PredictRaw(X mat.Matrix) (*mat.Dense, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GBDT", "PredictRaw")
	}

	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "GBDT.PredictRaw")
	}
	if cols != gb.nFeatures {
		return nil, errors.NewDimensionError("GBDT.PredictRaw", gb.nFeatures, cols, 1)
	}
	xd := toDense(X)

	score := make([]float64, rows)
	for i := range score {
		score[i] = gb.scoreStart
	}
	for _, tr := range gb.trees {
		pred := tr.predict(xd)
		for i := range score {
			score[i] += gb.params.LearningRate * pred[i]
		}
	}
	return mat.NewDense(rows, 1, score), nil
}

// Predict returns one prediction per input row in input order, applying the
// loss's link function to the raw scores. It is a pure function of the
// fitted state.
func (gb *GBDT) Predict(X mat.Matrix) (mat.Matrix, error) {
	raw, err := gb.PredictRaw(X)
	if err != nil {
		return nil, err
	}
	rows, _ := raw.Dims()
	for i := 0; i < rows; i++ {
		raw.Set(i, 0, gb.loss.Link(raw.At(i, 0)))
	}
	return raw, nil
}

// NTrees returns the number of fitted trees.
func (gb *GBDT) NTrees() int {
	return len(gb.trees)
}

// TrainLossHistory returns the mean training loss recorded after each
// boosting round of the last Fit.
func (gb *GBDT) TrainLossHistory() []float64 {
	out := make([]float64, len(gb.trainLoss))
	copy(out, gb.trainLoss)
	return out
}

// FeatureImportance returns the total split gain accumulated per feature
// across all trees of the last Fit.
func (gb *GBDT) FeatureImportance() ([]float64, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GBDT", "FeatureImportance")
	}
	out := make([]float64, len(gb.importance))
	copy(out, gb.importance)
	return out, nil
}

// toDense converts any mat.Matrix into a *mat.Dense without copying when
// the input already is one.
func toDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}
