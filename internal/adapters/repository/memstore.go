package repository

import (
	"context"
	"sync"

	"github.com/grcup/apexcoach/pkg/metrics"
)

// MemStore is the in-memory Store implementation. Publish swaps the
// snapshot pointer under a write lock, so readers never observe a
// half-built season.
type MemStore struct {
	mu       sync.RWMutex
	snapshot *Snapshot

	metricsEnabled bool
}

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{metricsEnabled: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish installs a new snapshot and refreshes dataset gauges.
func (s *MemStore) Publish(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	if s.metricsEnabled {
		metrics.UpdateDatasetFootprint(len(snap.Records), snap.DriverCount(), len(snap.Tracks()))
		metrics.RecordSkippedRows(snap.Skipped)
	}
	return nil
}

// Snapshot returns the current snapshot.
func (s *MemStore) Snapshot(_ context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return s.snapshot, nil
}
