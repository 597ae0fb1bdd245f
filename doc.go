// Package goboost provides a from-scratch gradient-boosted decision tree
// (GBDT) trainer and predictor for Go.
//
// Trees are grown by exact greedy search: every feature and every candidate
// threshold between consecutive distinct values is evaluated on second-order
// (Newton) gradient statistics, and leaf scores are the closed-form optimum
// -G/(H+lambda) under the local quadratic approximation of the loss.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/goboost/gbdt"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{1, 1, 10, 10})
//
//	    model, err := gbdt.NewGBDT(gbdt.DefaultParams())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(pred))
//	}
//
// # Packages
//
//   - gbdt: the boosting ensemble, tree construction and loss functions
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R², accuracy, log loss)
//   - core/model: estimator interfaces and fitted-state tracking
//   - core/parallel: chunked fan-out helpers used for per-feature split
//     search and batch prediction
//   - pkg/errors: structured error types with stack traces
//   - pkg/log: structured logging for training progress
package goboost
