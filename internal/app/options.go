package service

import (
	"github.com/grcup/apexcoach/internal/adapters/repository"
	"github.com/grcup/apexcoach/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath sets the corner-feature CSV location.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithTracks sets the championship circuit set.
func WithTracks(tracks []string) Option {
	return func(s *Service) {
		if len(tracks) > 0 {
			s.tracks = tracks
		}
	}
}

// WithStrictTracks fails the load on unknown tracks instead of skipping.
func WithStrictTracks(strict bool) Option {
	return func(s *Service) { s.strictTracks = strict }
}

// WithForestTrees sets the ensemble size.
func WithForestTrees(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.forestTrees = n
		}
	}
}

// WithForestMaxDepth limits tree depth; 0 means no limit.
func WithForestMaxDepth(d int) Option {
	return func(s *Service) {
		if d >= 0 {
			s.forestMaxDepth = d
		}
	}
}

// WithForestMinSplit sets the minimum samples to attempt a split.
func WithForestMinSplit(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.forestMinSplit = n
		}
	}
}

// WithForestMaxFeatures sets features sampled per split; 0 means all.
func WithForestMaxFeatures(k int) Option {
	return func(s *Service) {
		if k >= 0 {
			s.forestMaxFeatures = k
		}
	}
}

// WithForestSeed fixes the RNG seed used for splitting, training and
// clustering.
func WithForestSeed(seed int64) Option {
	return func(s *Service) { s.forestSeed = seed }
}

// WithForestWorkers caps concurrent tree fits.
func WithForestWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.forestWorkers = n
		}
	}
}

// WithTestRatio sets the holdout fraction for model evaluation.
func WithTestRatio(r float64) Option {
	return func(s *Service) {
		if r > 0 && r < 1 {
			s.testRatio = r
		}
	}
}

// WithClusterK sets the number of driver style clusters.
func WithClusterK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.clusterK = k
		}
	}
}

// WithClusterMaxIterations caps kmeans iterations.
func WithClusterMaxIterations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.clusterMaxIter = n
		}
	}
}

// WithMinCornersForCoaching sets the smallest comparable-corner count a
// driver needs before opportunities are computed.
func WithMinCornersForCoaching(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minCorners = n
		}
	}
}

// WithMaxOpportunities caps the coaching list per driver.
func WithMaxOpportunities(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOpportunities = n
		}
	}
}

// WithMaxCompareDrivers caps multi-driver comparison requests.
func WithMaxCompareDrivers(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.maxCompareDrivers = n
		}
	}
}

// WithStore sets a custom snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
