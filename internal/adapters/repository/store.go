// Package repository holds the season snapshot the service reads from.
package repository

import "context"

// Store provides atomic access to the current season snapshot. Readers
// always see a fully built snapshot; Publish swaps the whole thing.
type Store interface {
	// Publish installs a new snapshot. A nil snapshot is rejected.
	Publish(ctx context.Context, s *Snapshot) error

	// Snapshot returns the current snapshot.
	// Returns ErrNoSnapshot before the first Publish.
	Snapshot(ctx context.Context) (*Snapshot, error)
}
