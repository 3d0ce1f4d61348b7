package ports

import "github.com/brianly1003/autosort/internal/domain/events"

// Notifier receives the signals external collaborators observe.
type Notifier interface {
	// MonitoringStatusChanged is called once per actual start/stop transition.
	MonitoringStatusChanged(monitoring bool, sourceFolder, sessionID string)

	// FileClassified is called for every successfully relocated file.
	FileClassified(outcome events.ClassificationOutcome, sessionID string)

	// FileFailed is called once for every file that could not be relocated.
	FileFailed(path string, err error, sessionID string)
}
