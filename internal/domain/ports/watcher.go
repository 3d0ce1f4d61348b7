package ports

import "context"

// FileWatcher defines the contract for a single-directory file system watch.
type FileWatcher interface {
	// Start begins watching the configured directory.
	Start(ctx context.Context) error

	// Stop terminates watching and waits for in-flight work to finish.
	Stop() error

	// IsRunning returns true if the watcher is active.
	IsRunning() bool
}
