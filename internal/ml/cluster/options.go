package cluster

const (
	defaultK       = 3
	defaultMaxIter = 100
	defaultSeed    = 42
)

// Option applies a configuration option to the KMeans model.
type Option func(*KMeans)

// WithK sets the number of clusters.
func WithK(k int) Option {
	return func(m *KMeans) {
		if k > 0 {
			m.k = k
		}
	}
}

// WithMaxIterations caps the number of Lloyd iterations.
func WithMaxIterations(n int) Option {
	return func(m *KMeans) {
		if n > 0 {
			m.maxIter = n
		}
	}
}

// WithSeed fixes the RNG seed for reproducible centroid seeding.
func WithSeed(seed int64) Option {
	return func(m *KMeans) { m.seed = seed }
}

// WithWorkers caps goroutines used in the assignment step.
func WithWorkers(n int) Option {
	return func(m *KMeans) {
		if n > 0 {
			m.workers = n
		}
	}
}
