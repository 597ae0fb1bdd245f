package gbdt

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goboost/core/parallel"
)

// Feature counts below this are scanned sequentially; the goroutine
// overhead dominates otherwise.
const minParallelFeatures = 8

// leafScore returns the closed-form Newton-step optimum for a leaf,
// -G/(H+lambda), given the gradient and hessian values of the samples that
// reach it.
func leafScore(g, h []float64, lambda float64) float64 {
	var sumG, sumH float64
	for i := range g {
		sumG += g[i]
		sumH += h[i]
	}
	return -sumG / (sumH + lambda)
}

// leafLoss returns the minimized objective value at a leaf with no further
// splitting, -0.5*G^2/(H+lambda).
func leafLoss(g, h []float64, lambda float64) float64 {
	var sumG, sumH float64
	for i := range g {
		sumG += g[i]
		sumH += h[i]
	}
	return -0.5 * sumG * sumG / (sumH + lambda)
}

// splitGain partitions samples by feature[i] < threshold and returns the
// loss reduction originalLoss - leftLoss - rightLoss. Because leafLoss is
// the minimum over each side, the gain is non-negative for any threshold
// strictly between two observed values.
func splitGain(originalLoss float64, feature, g, h []float64, threshold, lambda float64) float64 {
	var leftG, leftH, rightG, rightH float64
	for i := range feature {
		if feature[i] < threshold {
			leftG += g[i]
			leftH += h[i]
		} else {
			rightG += g[i]
			rightH += h[i]
		}
	}
	leftLoss := -0.5 * leftG * leftG / (leftH + lambda)
	rightLoss := -0.5 * rightG * rightG / (rightH + lambda)
	return originalLoss - leftLoss - rightLoss
}

// findThreshold scans one feature column for the gain-maximizing split
// threshold. Candidates are the midpoints between consecutive distinct
// values. The best gain starts at 0 and is only replaced by a strictly
// greater one, so ties keep the smallest threshold, and a column that
// cannot improve on the unsplit leaf (constant column, constant gradient)
// returns ok=false with gain 0. That zero is the "no useful split" signal;
// there is no separate constant-column check anywhere.
func findThreshold(g, h, feature []float64, lambda float64) (threshold, gain float64, ok bool) {
	loss := leafLoss(g, h, lambda)
	unique := uniqueSorted(feature)
	for i := 1; i < len(unique); i++ {
		candidate := (unique[i-1] + unique[i]) / 2
		if gn := splitGain(loss, feature, g, h, candidate, lambda); gn > gain {
			threshold = candidate
			gain = gn
			ok = true
		}
	}
	return threshold, gain, ok
}

// splitCandidate is the result of scanning one feature column.
type splitCandidate struct {
	feature   int
	threshold float64
	gain      float64
	ok        bool
}

// findBestSplit runs findThreshold on every feature column of X restricted
// to indices, and returns the globally gain-maximizing candidate. g and h
// are aligned with indices. Columns are scanned concurrently into a
// per-feature slot, then reduced sequentially in ascending feature order
// with a strict > comparison, so the lowest feature index wins ties no
// matter how the goroutines are scheduled.
func findBestSplit(X *mat.Dense, indices []int, g, h []float64, lambda float64) splitCandidate {
	_, cols := X.Dims()
	results := make([]splitCandidate, cols)

	parallel.ParallelizeWithThreshold(cols, minParallelFeatures, func(start, end int) {
		column := make([]float64, len(indices))
		for j := start; j < end; j++ {
			for i, idx := range indices {
				column[i] = X.At(idx, j)
			}
			t, gn, ok := findThreshold(g, h, column, lambda)
			results[j] = splitCandidate{feature: j, threshold: t, gain: gn, ok: ok}
		}
	})

	best := splitCandidate{}
	for j := range results {
		if results[j].ok && results[j].gain > best.gain {
			best = results[j]
		}
	}
	return best
}

// uniqueSorted returns the sorted distinct values of a column.
func uniqueSorted(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	unique := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != unique[len(unique)-1] {
			unique = append(unique, v)
		}
	}
	return unique
}
