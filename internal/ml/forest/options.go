package forest

// Forest defaults.
const (
	defaultEstimators      = 100
	defaultMaxDepth        = 0 // unlimited
	defaultMinSamplesSplit = 2
	defaultMinSamplesLeaf  = 1
	defaultSeed            = 42
)

// Option applies a configuration option to the Forest.
type Option func(*Forest)

// WithEstimators sets the number of trees.
func WithEstimators(n int) Option {
	return func(f *Forest) {
		if n > 0 {
			f.nEstimators = n
		}
	}
}

// WithMaxDepth limits tree depth; 0 means no limit.
func WithMaxDepth(d int) Option {
	return func(f *Forest) {
		if d >= 0 {
			f.maxDepth = d
		}
	}
}

// WithMinSamplesSplit sets the minimum samples to attempt a split.
func WithMinSamplesSplit(n int) Option {
	return func(f *Forest) {
		if n > 1 {
			f.minSamplesSplit = n
		}
	}
}

// WithMinSamplesLeaf sets the minimum samples required in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(f *Forest) {
		if n > 0 {
			f.minSamplesLeaf = n
		}
	}
}

// WithMaxFeatures sets the number of features sampled per split; 0 means all.
func WithMaxFeatures(k int) Option {
	return func(f *Forest) {
		if k >= 0 {
			f.maxFeatures = k
		}
	}
}

// WithMinImpurityDecrease sets the minimal SSE reduction to accept a split.
func WithMinImpurityDecrease(v float64) Option {
	return func(f *Forest) {
		if v >= 0 {
			f.minImpurityDecrease = v
		}
	}
}

// WithBootstrap toggles bootstrap sampling.
func WithBootstrap(b bool) Option {
	return func(f *Forest) { f.bootstrap = b }
}

// WithSeed fixes the RNG seed for reproducible training.
func WithSeed(seed int64) Option {
	return func(f *Forest) { f.seed = seed }
}

// WithWorkers caps concurrent tree fits; 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(f *Forest) {
		if n >= 0 {
			f.workers = n
		}
	}
}

// WithFeatureNames attaches names used in importance reporting.
func WithFeatureNames(names []string) Option {
	return func(f *Forest) {
		f.featureNames = append([]string(nil), names...)
	}
}
