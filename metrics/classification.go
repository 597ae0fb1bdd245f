package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goboost/pkg/errors"
)

// Accuracy computes the fraction of correct binary predictions. Predicted
// probabilities are thresholded at 0.5; true labels are expected in {0, 1}.
func Accuracy(yTrue, yProb *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "Accuracy")
	}
	if yProb.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yProb.Len(), 0)
	}

	var correct int
	for i := 0; i < n; i++ {
		pred := 0.0
		if yProb.AtVec(i) >= 0.5 {
			pred = 1.0
		}
		if pred == yTrue.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// LogLoss computes the mean binary cross-entropy of predicted
// probabilities. Probabilities are clipped away from 0 and 1 so a single
// confident mistake stays finite.
func LogLoss(yTrue, yProb *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "LogLoss")
	}
	if yProb.Len() != n {
		return 0, errors.NewDimensionError("LogLoss", n, yProb.Len(), 0)
	}

	const eps = 1e-15
	var sum float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yProb.AtVec(i), eps), 1-eps)
		t := yTrue.AtVec(i)
		sum += -t*math.Log(p) - (1-t)*math.Log(1-p)
	}
	return sum / float64(n), nil
}
