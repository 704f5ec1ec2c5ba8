// Package cluster groups drivers into driving-style clusters with
// k-means over per-driver aggregate features.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// KMeans partitions rows into k clusters. Centroid seeding follows
// k-means++ with a fixed RNG seed, so the same input always produces
// the same clustering.
type KMeans struct {
	k       int
	maxIter int
	seed    int64
	workers int

	centroids [][]float64
	inertia   float64
}

// New creates a KMeans model.
func New(opts ...Option) *KMeans {
	m := &KMeans{
		k:       defaultK,
		maxIter: defaultMaxIter,
		seed:    defaultSeed,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Centroids returns the fitted cluster centers.
func (m *KMeans) Centroids() [][]float64 { return m.centroids }

// Inertia returns the summed squared distance of every row to its
// nearest centroid after the last Fit.
func (m *KMeans) Inertia() float64 { return m.inertia }

// Fit runs Lloyd's algorithm until convergence or maxIter and returns
// the final cluster assignment for every row.
func (m *KMeans) Fit(X [][]float64) ([]int, error) {
	n := len(X)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(X[i]), p)
		}
	}
	if n < m.k {
		return nil, fmt.Errorf("%w: %d rows for k=%d", ErrTooFewRows, n, m.k)
	}

	rnd := rand.New(rand.NewSource(m.seed)) //nolint:gosec // reproducible seeding
	m.centroids = m.initCentroids(X, rnd)

	assign := make([]int, n)
	for it := 0; it < m.maxIter; it++ {
		changed := m.assignRows(X, assign)

		sums := make([][]float64, m.k)
		counts := make([]int, m.k)
		for k := 0; k < m.k; k++ {
			sums[k] = make([]float64, p)
		}
		m.inertia = 0
		for i, k := range assign {
			counts[k]++
			for j := 0; j < p; j++ {
				sums[k][j] += X[i][j]
			}
			m.inertia += euclidSquared(X[i], m.centroids[k])
		}
		for k := 0; k < m.k; k++ {
			if counts[k] == 0 {
				continue
			}
			for j := 0; j < p; j++ {
				m.centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed {
			break
		}
	}
	return assign, nil
}

// Predict assigns each row of X to its nearest fitted centroid.
func (m *KMeans) Predict(X [][]float64) ([]int, error) {
	if len(m.centroids) == 0 {
		return nil, ErrNotFitted
	}
	if len(X) == 0 {
		return nil, ErrEmptyInput
	}
	if len(X[0]) != len(m.centroids[0]) {
		return nil, fmt.Errorf("%w: %d features, centroids have %d", ErrDimensionMismatch, len(X[0]), len(m.centroids[0]))
	}
	assign := make([]int, len(X))
	m.assignRows(X, assign)
	return assign, nil
}

// assignRows writes the nearest-centroid index for every row into
// assign, chunked across workers, and reports whether any assignment
// changed.
func (m *KMeans) assignRows(X [][]float64, assign []int) bool {
	n := len(X)
	workers := m.workers
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (n + workers - 1) / workers

	var changed atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, n)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				best, bestDist := -1, math.MaxFloat64
				for k := range m.centroids {
					if d := euclidSquared(X[i], m.centroids[k]); d < bestDist {
						bestDist = d
						best = k
					}
				}
				if assign[i] != best {
					changed.Store(true)
				}
				assign[i] = best
			}
		}(start, end)
	}
	wg.Wait()
	return changed.Load()
}

// initCentroids picks k starting centers with k-means++ weighting.
func (m *KMeans) initCentroids(X [][]float64, rnd *rand.Rand) [][]float64 {
	n := len(X)
	centroids := make([][]float64, 0, m.k)
	centroids = append(centroids, append([]float64(nil), X[rnd.Intn(n)]...))

	for len(centroids) < m.k {
		distSq := make([]float64, n)
		total := 0.0
		for i, x := range X {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := euclidSquared(x, c); d < minDist {
					minDist = d
				}
			}
			distSq[i] = minDist
			total += minDist
		}

		// All remaining points coincide with chosen centers.
		if total == 0 {
			centroids = append(centroids, append([]float64(nil), X[rnd.Intn(n)]...))
			continue
		}

		r := rnd.Float64() * total
		cumulative := 0.0
		for i, d := range distSq {
			cumulative += d
			if cumulative >= r {
				centroids = append(centroids, append([]float64(nil), X[i]...))
				break
			}
		}
	}
	return centroids
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
