package gbdt

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/goboost/core/parallel"
)

// Row counts below this are predicted sequentially.
const minParallelRows = 256

// node is one vertex of a fitted decision tree. A leaf holds only a score;
// an internal node holds a split and owns exactly two children.
type node struct {
	leaf      bool
	score     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

// tree is a single regression tree fit to gradient/hessian statistics. It
// is the building block of the boosting ensemble.
type tree struct {
	maxDepth       int
	minSampleSplit int
	regLambda      float64
	gamma          float64

	root *node

	// gainByFeature accumulates the gain of every accepted split, keyed
	// by feature index. Fed into the ensemble's feature importance.
	gainByFeature []float64
}

func newTree(p Params) *tree {
	return &tree{
		maxDepth:       p.MaxDepth,
		minSampleSplit: p.MinSampleSplit,
		regLambda:      p.RegLambda,
		gamma:          p.Gamma,
	}
}

// fit grows the tree on the full sample matrix with per-sample gradients
// and hessians. Inputs are validated by the ensemble before this is called.
func (t *tree) fit(X *mat.Dense, g, h []float64) {
	rows, cols := X.Dims()
	t.gainByFeature = make([]float64, cols)

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(X, indices, g, h, t.maxDepth)
}

// build recursively partitions the sample subset given by indices. g and h
// are aligned with indices and re-sliced in lockstep at every split. The
// node becomes a leaf when the depth budget is exhausted, the subset is too
// small to split, or the best achievable gain does not exceed gamma. The
// gain check also covers constant targets and constant features: both drive
// the best gain to exactly 0, which never exceeds a non-negative gamma.
func (t *tree) build(X *mat.Dense, indices []int, g, h []float64, depth int) *node {
	if depth == 0 || len(indices) < t.minSampleSplit {
		return &node{leaf: true, score: leafScore(g, h, t.regLambda)}
	}

	best := findBestSplit(X, indices, g, h, t.regLambda)
	if best.gain <= t.gamma {
		return &node{leaf: true, score: leafScore(g, h, t.regLambda)}
	}

	t.gainByFeature[best.feature] += best.gain

	// The threshold is a midpoint strictly between two observed values,
	// so both sides are guaranteed non-empty.
	var leftIdx, rightIdx []int
	var leftG, leftH, rightG, rightH []float64
	for i, idx := range indices {
		if X.At(idx, best.feature) < best.threshold {
			leftIdx = append(leftIdx, idx)
			leftG = append(leftG, g[i])
			leftH = append(leftH, h[i])
		} else {
			rightIdx = append(rightIdx, idx)
			rightG = append(rightG, g[i])
			rightH = append(rightH, h[i])
		}
	}

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.build(X, leftIdx, leftG, leftH, depth-1),
		right:     t.build(X, rightIdx, rightG, rightH, depth-1),
	}
}

// predictRow walks from the root to a leaf: left when the split feature's
// value is below the threshold, right otherwise.
func (t *tree) predictRow(row []float64) float64 {
	n := t.root
	for !n.leaf {
		if row[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.score
}

// predict scores every row of X independently, in input order. Rows have no
// data dependency on each other, so they fan out across workers writing
// into disjoint slots.
func (t *tree) predict(X *mat.Dense) []float64 {
	rows, cols := X.Dims()
	out := make([]float64, rows)

	parallel.ParallelizeWithThreshold(rows, minParallelRows, func(start, end int) {
		row := make([]float64, cols)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			out[i] = t.predictRow(row)
		}
	})
	return out
}

// depth returns the number of edges on the longest root-to-leaf path.
func (t *tree) depth() int {
	return nodeDepth(t.root)
}

func nodeDepth(n *node) int {
	if n == nil || n.leaf {
		return 0
	}
	left := nodeDepth(n.left)
	right := nodeDepth(n.right)
	if left > right {
		return left + 1
	}
	return right + 1
}
