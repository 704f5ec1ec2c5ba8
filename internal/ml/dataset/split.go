// Package dataset provides deterministic train/test partitioning for
// model training.
package dataset

import (
	"fmt"
	"math/rand"
)

// Split holds one train/test partition of a feature matrix and target.
type Split struct {
	XTrain [][]float64
	XTest  [][]float64
	YTrain []float64
	YTest  []float64
}

// TrainTestSplit shuffles rows with the given seed and carves off
// testRatio of them as the holdout set. The same seed always yields the
// same partition.
func TrainTestSplit(X [][]float64, y []float64, testRatio float64, seed int64) (*Split, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, n, len(y))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("%w: test ratio %.3f", ErrInvalidRatio, testRatio)
	}

	nTest := int(float64(n) * testRatio)
	if nTest == 0 || nTest == n {
		return nil, fmt.Errorf("%w: %d rows at ratio %.3f", ErrTooFewRows, n, testRatio)
	}

	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible shuffling
	indices := rnd.Perm(n)

	s := &Split{
		XTrain: make([][]float64, 0, n-nTest),
		XTest:  make([][]float64, 0, nTest),
		YTrain: make([]float64, 0, n-nTest),
		YTest:  make([]float64, 0, nTest),
	}
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, y[idx])
		} else {
			s.XTrain = append(s.XTrain, X[idx])
			s.YTrain = append(s.YTrain, y[idx])
		}
	}
	return s, nil
}
