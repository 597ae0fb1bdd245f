package gbdt

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goboost/pkg/errors"
)

func TestNewGBDTDefaults(t *testing.T) {
	gb, err := NewGBDT(Params{})
	if err != nil {
		t.Fatalf("NewGBDT with zero params failed: %v", err)
	}
	p := gb.Params()
	if p.NEstimators != 100 || p.LearningRate != 0.1 || p.MinSampleSplit != 10 || p.Loss != "mse" {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestNewGBDTValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative n_estimators", func(p *Params) { p.NEstimators = -1 }},
		{"negative learning_rate", func(p *Params) { p.LearningRate = -0.1 }},
		{"negative max_depth", func(p *Params) { p.MaxDepth = -1 }},
		{"negative min_sample_split", func(p *Params) { p.MinSampleSplit = -2 }},
		{"negative reg_lambda", func(p *Params) { p.RegLambda = -1 }},
		{"negative gamma", func(p *Params) { p.Gamma = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if _, err := NewGBDT(p); err == nil {
				t.Error("expected a validation error")
			} else {
				var ve *errors.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected *ValidationError, got %v", err)
				}
			}
		})
	}

	if _, err := NewGBDT(Params{Loss: "no_such_loss"}); err == nil {
		t.Error("expected an error for unknown loss")
	}
}

// TestGBDTSingleTreeScenario pins the exact arithmetic of one boosting
// round: with targets {1,1,10,10} the start score is 5.5, the gradients
// are {4.5,4.5,-4.5,-4.5}, the only worthwhile cut is 2.5, and with
// lambda=1 the leaves score -3 and +3.
func TestGBDTSingleTreeScenario(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 1, 10, 10})

	gb, err := NewGBDT(Params{
		NEstimators:    1,
		LearningRate:   1,
		MaxDepth:       1,
		MinSampleSplit: 1,
		RegLambda:      1,
		Gamma:          0,
		Loss:           "mse",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := gb.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	if gb.NTrees() != 1 {
		t.Fatalf("NTrees = %d, want 1", gb.NTrees())
	}
	root := gb.trees[0].root
	if root.leaf {
		t.Fatal("expected a split at the root")
	}
	if root.feature != 0 || root.threshold != 2.5 {
		t.Errorf("root split = (feature %d, threshold %v), want (0, 2.5)", root.feature, root.threshold)
	}

	pred, err := gb.Predict(mat.NewDense(2, 1, []float64{1, 4}))
	if err != nil {
		t.Fatal(err)
	}
	// 5.5 - 3 and 5.5 + 3: pulled toward 1 and 10 from the mean.
	if got := pred.At(0, 0); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("prediction for x=1: %v, want 2.5", got)
	}
	if got := pred.At(1, 0); math.Abs(got-8.5) > 1e-12 {
		t.Errorf("prediction for x=4: %v, want 8.5", got)
	}
}

func TestGBDTPredictIdempotent(t *testing.T) {
	X, y := regressionData(60)
	gb := mustFit(t, X, y, Params{NEstimators: 5, MaxDepth: 3, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.3, Loss: "mse"})

	p1, err := gb.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := gb.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(p1, p2) {
		t.Error("two Predict calls on the same fitted model differ")
	}
}

func TestGBDTReproducibleFit(t *testing.T) {
	X, y := regressionData(60)
	p := Params{NEstimators: 8, MaxDepth: 3, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.2, Loss: "mse"}

	a := mustFit(t, X, y, p)
	b := mustFit(t, X, y, p)

	pa, _ := a.Predict(X)
	pb, _ := b.Predict(X)
	if !mat.Equal(pa, pb) {
		t.Error("two fits on the same data produced different ensembles")
	}
}

func TestGBDTTrainLossMonotone(t *testing.T) {
	X, y := regressionData(80)
	gb := mustFit(t, X, y, Params{NEstimators: 20, MaxDepth: 3, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.1, Loss: "mse"})

	hist := gb.TrainLossHistory()
	if len(hist) != 20 {
		t.Fatalf("history length = %d, want 20", len(hist))
	}
	for k := 0; k+1 < 10; k++ {
		if hist[k+1] > hist[k]+1e-12 {
			t.Errorf("training loss rose at round %d: %v -> %v", k, hist[k], hist[k+1])
		}
	}
}

func TestGBDTConstantTargets(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i*i))
		y.Set(i, 0, 7)
	}

	gb := mustFit(t, X, y, Params{NEstimators: 5, MaxDepth: 3, MinSampleSplit: 1, RegLambda: 0, LearningRate: 0.5, Loss: "mse"})

	for i, tr := range gb.trees {
		if !tr.root.leaf {
			t.Errorf("round %d: constant targets must produce a single-leaf tree", i)
		}
	}
	pred, err := gb.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if got := pred.At(i, 0); math.Abs(got-7) > 1e-9 {
			t.Errorf("prediction = %v, want 7", got)
		}
	}
}

func TestGBDTLogisticClassification(t *testing.T) {
	// One separable feature: class 0 below 0.5, class 1 above.
	n := 40
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		X.Set(i, 0, x)
		if x >= 0.5 {
			y.Set(i, 0, 1)
		}
	}

	gb := mustFit(t, X, y, Params{NEstimators: 30, MaxDepth: 2, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.3, Loss: "log"})

	pred, err := gb.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		p := pred.At(i, 0)
		if p < 0 || p > 1 {
			t.Fatalf("probability out of range: %v", p)
		}
		want := y.At(i, 0)
		if (p >= 0.5) != (want == 1) {
			t.Errorf("sample %d: probability %v on wrong side for class %v", i, p, want)
		}
	}
}

func TestGBDTFitShapeErrors(t *testing.T) {
	X := mat.NewDense(4, 2, nil)

	gb, _ := NewGBDT(DefaultParams())
	err := gb.Fit(X, mat.NewDense(3, 1, nil))
	var de *errors.DimensionError
	if !errors.As(err, &de) || de.Axis != 0 {
		t.Errorf("row mismatch: expected *DimensionError on axis 0, got %v", err)
	}

	err = gb.Fit(X, mat.NewDense(4, 2, nil))
	if !errors.As(err, &de) || de.Axis != 1 {
		t.Errorf("wide target: expected *DimensionError on axis 1, got %v", err)
	}
}

func TestGBDTEmptyInput(t *testing.T) {
	gb, _ := NewGBDT(DefaultParams())
	if err := gb.Fit(emptyMatrix{}, mat.NewDense(1, 1, nil)); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
}

func TestGBDTPredictBeforeFit(t *testing.T) {
	gb, _ := NewGBDT(DefaultParams())
	_, err := gb.Predict(mat.NewDense(1, 1, []float64{1}))
	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Errorf("expected *NotFittedError, got %v", err)
	}
}

func TestGBDTPredictFeatureMismatch(t *testing.T) {
	X, y := regressionData(30)
	gb := mustFit(t, X, y, Params{NEstimators: 2, MaxDepth: 2, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.5, Loss: "mse"})

	_, err := gb.Predict(mat.NewDense(3, 5, nil))
	var de *errors.DimensionError
	if !errors.As(err, &de) || de.Axis != 1 {
		t.Errorf("expected *DimensionError on axis 1, got %v", err)
	}
}

func TestGBDTFeatureImportance(t *testing.T) {
	// Feature 0 carries all the signal; feature 1 is constant.
	n := 30
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, 3)
		y.Set(i, 0, float64(i)*2)
	}

	gb := mustFit(t, X, y, Params{NEstimators: 5, MaxDepth: 3, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.3, Loss: "mse"})

	imp, err := gb.FeatureImportance()
	if err != nil {
		t.Fatal(err)
	}
	if imp[0] <= 0 {
		t.Errorf("informative feature has no importance: %v", imp)
	}
	if imp[1] != 0 {
		t.Errorf("constant feature has importance: %v", imp)
	}

	unfitted, _ := NewGBDT(DefaultParams())
	if _, err := unfitted.FeatureImportance(); err == nil {
		t.Error("expected error before Fit")
	}
}

func TestGBDTWithCustomLoss(t *testing.T) {
	X, y := regressionData(40)

	gb, err := NewGBDT(Params{NEstimators: 3, MaxDepth: 2, MinSampleSplit: 2, RegLambda: 1, LearningRate: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	gb.WithLoss(&scaledMSE{})
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("fit with custom loss failed: %v", err)
	}
	if gb.NTrees() != 3 {
		t.Errorf("NTrees = %d, want 3", gb.NTrees())
	}
}

// scaledMSE is a user-defined loss exercising the pluggable Loss contract.
type scaledMSE struct{}

func (scaledMSE) Link(score float64) float64             { return score }
func (scaledMSE) Gradient(target, score float64) float64 { return 2 * (score - target) }
func (scaledMSE) Hessian(target, score float64) float64  { return 2 }
func (scaledMSE) Value(target, score float64) float64    { return (score - target) * (score - target) }
func (scaledMSE) Name() string                           { return "scaled_mse" }

// emptyMatrix reports zero rows without allocating a zero-size Dense,
// which gonum forbids.
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 1 }
func (emptyMatrix) At(i, j int) float64 { return 0 }
func (emptyMatrix) T() mat.Matrix       { return emptyMatrix{} }

func regressionData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1 := float64(i) / 10.0
		x2 := float64(i%10) / 5.0
		X.Set(i, 0, x1)
		X.Set(i, 1, x2)
		y.Set(i, 0, 2*x1+3*x2+0.1*(float64(i%3)-1))
	}
	return X, y
}

func mustFit(t *testing.T, X, y mat.Matrix, p Params) *GBDT {
	t.Helper()
	gb, err := NewGBDT(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := gb.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	return gb
}
