package gbdt

import (
	"math"

	"github.com/YuminosukeSato/goboost/pkg/errors"
)

// Loss supplies per-sample derivatives of the training objective with
// respect to the raw additive score, plus the link function that maps raw
// scores into the loss's native prediction space. All methods are pure and
// applied elementwise.
type Loss interface {
	// Link maps a raw score to a prediction (identity for squared error,
	// sigmoid for logistic).
	Link(score float64) float64

	// Gradient is the first derivative of the loss at the current score.
	Gradient(target, score float64) float64

	// Hessian is the second derivative of the loss at the current score.
	Hessian(target, score float64) float64

	// Value is the loss itself, used for training-loss reporting.
	Value(target, score float64) float64

	// Name returns the canonical name of the loss.
	Name() string
}

// MSELoss is the squared-error loss for regression. The link is identity.
type MSELoss struct{}

// NewMSELoss returns the squared-error loss.
func NewMSELoss() *MSELoss { return &MSELoss{} }

func (l *MSELoss) Link(score float64) float64 { return score }

func (l *MSELoss) Gradient(target, score float64) float64 { return score - target }

func (l *MSELoss) Hessian(target, score float64) float64 { return 1.0 }

func (l *MSELoss) Value(target, score float64) float64 {
	diff := score - target
	return 0.5 * diff * diff
}

func (l *MSELoss) Name() string { return "mse" }

// LogisticLoss is the binary log loss. The link is the sigmoid, so Predict
// returns probabilities; targets are expected in {0, 1}.
type LogisticLoss struct{}

// NewLogisticLoss returns the binary log loss.
func NewLogisticLoss() *LogisticLoss { return &LogisticLoss{} }

func (l *LogisticLoss) Link(score float64) float64 { return sigmoid(score) }

func (l *LogisticLoss) Gradient(target, score float64) float64 {
	return sigmoid(score) - target
}

func (l *LogisticLoss) Hessian(target, score float64) float64 {
	p := sigmoid(score)
	return p * (1 - p)
}

func (l *LogisticLoss) Value(target, score float64) float64 {
	// Numerically stable -t*log(p) - (1-t)*log(1-p) written on the raw
	// score: log(1+exp(-|s|)) + max(s,0) - t*s.
	return math.Log1p(math.Exp(-math.Abs(score))) + math.Max(score, 0) - target*score
}

func (l *LogisticLoss) Name() string { return "log" }

// HuberLoss is a robust regression loss: quadratic within Delta of the
// target and linear beyond it. The link is identity.
type HuberLoss struct {
	Delta float64
}

// NewHuberLoss returns a Huber loss with the given transition point.
// Non-positive delta falls back to 1.
func NewHuberLoss(delta float64) *HuberLoss {
	if delta <= 0 {
		delta = 1.0
	}
	return &HuberLoss{Delta: delta}
}

func (l *HuberLoss) Link(score float64) float64 { return score }

func (l *HuberLoss) Gradient(target, score float64) float64 {
	diff := score - target
	if math.Abs(diff) <= l.Delta {
		return diff
	}
	if diff > 0 {
		return l.Delta
	}
	return -l.Delta
}

func (l *HuberLoss) Hessian(target, score float64) float64 {
	if math.Abs(score-target) <= l.Delta {
		return 1.0
	}
	// Outside the quadratic region the true second derivative is zero;
	// a small positive value keeps leaf scores finite.
	return 1e-7
}

func (l *HuberLoss) Value(target, score float64) float64 {
	diff := score - target
	absDiff := math.Abs(diff)
	if absDiff <= l.Delta {
		return 0.5 * diff * diff
	}
	return l.Delta * (absDiff - 0.5*l.Delta)
}

func (l *HuberLoss) Name() string { return "huber" }

// LossByName resolves a built-in loss from its name.
func LossByName(name string) (Loss, error) {
	switch name {
	case "mse", "l2", "regression", "mean_squared_error":
		return NewMSELoss(), nil
	case "log", "logistic", "binary", "binary_logloss":
		return NewLogisticLoss(), nil
	case "huber":
		return NewHuberLoss(1.0), nil
	default:
		return nil, errors.NewValueError("LossByName", "unknown loss: "+name)
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
