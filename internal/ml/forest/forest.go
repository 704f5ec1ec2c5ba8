// Package forest implements a regression random forest used to predict
// achievable per-corner lap-time improvement.
package forest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// Forest is a bagged ensemble of regression trees. Fit trains trees
// concurrently on bootstrap samples; predictions average tree outputs.
// A fixed seed makes training fully reproducible.
type Forest struct {
	nEstimators         int
	maxDepth            int
	minSamplesSplit     int
	minSamplesLeaf      int
	maxFeatures         int
	minImpurityDecrease float64
	bootstrap           bool
	seed                int64
	workers             int
	featureNames        []string

	trees      []*regTree
	importance []float64 // normalized to sum to 1
}

// New creates a Forest with sensible defaults.
func New(opts ...Option) *Forest {
	f := &Forest{
		nEstimators:     defaultEstimators,
		maxDepth:        defaultMaxDepth,
		minSamplesSplit: defaultMinSamplesSplit,
		minSamplesLeaf:  defaultMinSamplesLeaf,
		maxFeatures:     0,
		bootstrap:       true,
		seed:            defaultSeed,
		workers:         runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Trained reports whether Fit has completed successfully.
func (f *Forest) Trained() bool { return len(f.trees) > 0 }

// Trees returns the number of fitted trees.
func (f *Forest) Trees() int { return len(f.trees) }

// Fit trains the forest. X is row-major (n rows, p features), y the target.
// Honors ctx: a cancelled context aborts between tree fits.
func (f *Forest) Fit(ctx context.Context, X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return ErrEmptyInput
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, n, len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(X[i]), p)
		}
	}
	if n < f.minSamplesSplit {
		return fmt.Errorf("%w: %d rows", ErrTooFewRows, n)
	}
	if constantTarget(y) {
		return ErrDegenerateTarget
	}

	trees := make([]*regTree, f.nEstimators)
	sem := make(chan struct{}, f.workerCount())
	var wg sync.WaitGroup

	for i := 0; i < f.nEstimators; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return fmt.Errorf("training aborted: %w", err)
		}
		sem <- struct{}{}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			// Per-tree RNG keeps bootstrap sampling deterministic and
			// contention-free.
			treeRand := rand.New(rand.NewSource(f.seed + int64(idx))) //nolint:gosec // reproducible sampling

			sample := make([]int, n)
			for j := 0; j < n; j++ {
				if f.bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := &regTree{
				maxDepth:            f.maxDepth,
				minSamplesSplit:     f.minSamplesSplit,
				minSamplesLeaf:      f.minSamplesLeaf,
				maxFeatures:         f.maxFeatures,
				minImpurityDecrease: f.minImpurityDecrease,
				seed:                f.seed + int64(idx),
			}
			tree.fit(X, y, sample)
			trees[idx] = tree
		}(i)
	}
	wg.Wait()

	f.trees = trees
	f.accumulateImportance(p)
	return nil
}

// Predict returns the forest's estimate for one row.
func (f *Forest) Predict(x []float64) (float64, error) {
	if !f.Trained() {
		return 0, ErrNotTrained
	}
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees)), nil
}

// PredictBatch returns estimates for every row of X.
func (f *Forest) PredictBatch(X [][]float64) ([]float64, error) {
	if !f.Trained() {
		return nil, ErrNotTrained
	}
	out := make([]float64, len(X))
	for i, x := range X {
		v, err := f.Predict(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Importance returns normalized per-feature importance, aligned with the
// configured feature names when present.
func (f *Forest) Importance() ([]string, []float64) {
	names := f.featureNames
	if names == nil {
		names = make([]string, len(f.importance))
		for i := range names {
			names[i] = fmt.Sprintf("feature_%d", i)
		}
	}
	return names, f.importance
}

// Evaluate computes R² and mean absolute error on a holdout set.
func (f *Forest) Evaluate(X [][]float64, y []float64) (r2, mae float64, err error) {
	if !f.Trained() {
		return 0, 0, ErrNotTrained
	}
	if len(X) == 0 || len(X) != len(y) {
		return 0, 0, ErrDimensionMismatch
	}

	preds, err := f.PredictBatch(X)
	if err != nil {
		return 0, 0, err
	}

	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(len(y))

	ssRes, ssTot, absSum := 0.0, 0.0, 0.0
	for i := range y {
		d := y[i] - preds[i]
		ssRes += d * d
		t := y[i] - meanY
		ssTot += t * t
		absSum += math.Abs(d)
	}
	mae = absSum / float64(len(y))
	if ssTot == 0 {
		return 0, mae, nil
	}
	return 1 - ssRes/ssTot, mae, nil
}

func (f *Forest) workerCount() int {
	if f.workers > 0 {
		return f.workers
	}
	return runtime.NumCPU()
}

// accumulateImportance sums per-tree impurity decreases and normalizes.
func (f *Forest) accumulateImportance(p int) {
	total := make([]float64, p)
	sum := 0.0
	for _, t := range f.trees {
		for j, v := range t.importance {
			total[j] += v
			sum += v
		}
	}
	if sum > 0 {
		for j := range total {
			total[j] /= sum
		}
	}
	f.importance = total
}

func constantTarget(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}
