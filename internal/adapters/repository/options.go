package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMetricsEnabled toggles dataset gauge updates on Publish.
func WithMetricsEnabled(enabled bool) Option {
	return func(s *MemStore) { s.metricsEnabled = enabled }
}
