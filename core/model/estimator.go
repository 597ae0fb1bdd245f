package model

import "gonum.org/v1/gonum/mat"

// Fitter is a model that can be trained on a sample matrix and targets.
type Fitter interface {
	// Fit trains the model. X is n_samples x n_features, y is n_samples x 1.
	Fit(X, y mat.Matrix) error
}

// Predictor is a fitted model that can score new samples.
type Predictor interface {
	// Predict returns one prediction per input row, in input order.
	Predict(X mat.Matrix) (mat.Matrix, error)
}
