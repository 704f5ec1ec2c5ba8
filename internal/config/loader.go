package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if APEX_CONFIG is set
//  3. env (prefix APEX_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("APEX_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: APEX_ADDR, APEX_DATASET_PATH, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("APEX_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "apex_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetPath == "":
		return fmt.Errorf("%w: dataset_path must not be empty", ErrInvalidConfig)
	case len(c.Tracks) == 0:
		return fmt.Errorf("%w: tracks must not be empty", ErrInvalidConfig)
	case c.ForestTrees < 1:
		return fmt.Errorf("%w: forest_trees must be positive", ErrInvalidConfig)
	case c.TestRatio <= 0 || c.TestRatio >= 1:
		return fmt.Errorf("%w: test_ratio must be in (0,1)", ErrInvalidConfig)
	case c.ClusterK < 1:
		return fmt.Errorf("%w: cluster_k must be positive", ErrInvalidConfig)
	case c.MaxOpportunities < 1:
		return fmt.Errorf("%w: max_opportunities must be positive", ErrInvalidConfig)
	case c.MaxCompareDrivers < 2:
		return fmt.Errorf("%w: max_compare_drivers must be at least 2", ErrInvalidConfig)
	}
	return nil
}
