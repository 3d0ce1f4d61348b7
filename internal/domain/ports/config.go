package ports

import "github.com/brianly1003/autosort/internal/config"

// ConfigStore supplies immutable configuration snapshots and persists
// updated ones. Callers never mutate a snapshot they received; they build a
// modified copy and Persist it.
type ConfigStore interface {
	// Snapshot returns the latest configuration.
	Snapshot() *config.Snapshot

	// Persist stores snap and makes it the latest snapshot.
	Persist(snap *config.Snapshot) error

	// Update applies fn to the latest snapshot and persists the result as
	// one step, so concurrent writers never overwrite each other. A nil
	// result or the unchanged input skips the write.
	Update(fn func(*config.Snapshot) *config.Snapshot) error
}
