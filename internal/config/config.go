// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors are wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8077".
	Addr string `koanf:"addr"`

	// DatasetPath points at the corner-feature CSV.
	DatasetPath string `koanf:"dataset_path"`

	// Tracks is the championship circuit set. Rows for tracks outside this
	// list are never merged into aggregates.
	Tracks []string `koanf:"tracks"`

	// StrictTracks fails the load on an unknown track instead of skipping.
	StrictTracks bool `koanf:"strict_tracks"`

	// Forest hyperparameters.
	ForestTrees      int     `koanf:"forest_trees"`
	ForestMaxDepth   int     `koanf:"forest_max_depth"`
	ForestMinSplit   int     `koanf:"forest_min_split"`
	ForestMaxFeature int     `koanf:"forest_max_features"`
	ForestSeed       int64   `koanf:"forest_seed"`
	TestRatio        float64 `koanf:"test_ratio"`

	// ForestWorkers caps concurrent tree fits; 0 means GOMAXPROCS.
	ForestWorkers int `koanf:"forest_workers"`

	// ClusterK sets the number of driver style clusters.
	ClusterK       int `koanf:"cluster_k"`
	ClusterMaxIter int `koanf:"cluster_max_iter"`

	// MinCornersForCoaching is the smallest number of comparable corners a
	// driver needs before opportunities are computed.
	MinCornersForCoaching int `koanf:"min_corners_for_coaching"`

	// MaxOpportunities caps the coaching list per driver.
	MaxOpportunities int `koanf:"max_opportunities"`

	// MaxCompareDrivers caps GET /api/compare.
	MaxCompareDrivers int `koanf:"max_compare_drivers"`
}

// DefaultTracks is the 7-circuit championship calendar.
func DefaultTracks() []string {
	return []string{
		"Sebring",
		"Sonoma",
		"Barber",
		"Indianapolis",
		"VIR",
		"Road America",
		"COTA",
	}
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8077",
		DatasetPath:           "data/master_corner_features.csv",
		Tracks:                DefaultTracks(),
		StrictTracks:          false,
		ForestTrees:           200,
		ForestMaxDepth:        12,
		ForestMinSplit:        4,
		ForestMaxFeature:      0,
		ForestSeed:            42,
		ForestWorkers:         runtime.NumCPU(),
		TestRatio:             0.2,
		ClusterK:              3,
		ClusterMaxIter:        100,
		MinCornersForCoaching: 3,
		MaxOpportunities:      3,
		MaxCompareDrivers:     5,
	}
}
