package events

// ClassificationOutcome describes one successfully relocated file.
type ClassificationOutcome struct {
	SourcePath   string `json:"source_path"`
	FinalPath    string `json:"final_path"`
	TargetFolder string `json:"target_folder"`
	Category     string `json:"category"`
}

// MonitoringStatusPayload is the payload for monitoring_status_changed events.
type MonitoringStatusPayload struct {
	Monitoring   bool   `json:"monitoring"`
	SourceFolder string `json:"source_folder,omitempty"`
}

// FileClassifiedPayload is the payload for file_classified events.
type FileClassifiedPayload struct {
	ClassificationOutcome
	Notify bool `json:"notify"`
}

// FileFailedPayload is the payload for file_failed events.
type FileFailedPayload struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMonitoringStatusEvent creates a new monitoring_status_changed event.
func NewMonitoringStatusEvent(monitoring bool, sourceFolder, sessionID string) *BaseEvent {
	return NewEventWithSession(EventTypeMonitoringStatusChanged, MonitoringStatusPayload{
		Monitoring:   monitoring,
		SourceFolder: sourceFolder,
	}, sessionID)
}

// NewFileClassifiedEvent creates a new file_classified event.
func NewFileClassifiedEvent(outcome ClassificationOutcome, notify bool, sessionID string) *BaseEvent {
	return NewEventWithSession(EventTypeFileClassified, FileClassifiedPayload{
		ClassificationOutcome: outcome,
		Notify:                notify,
	}, sessionID)
}

// NewFileFailedEvent creates a new file_failed event.
func NewFileFailedEvent(path, code, message, sessionID string) *BaseEvent {
	return NewEventWithSession(EventTypeFileFailed, FileFailedPayload{
		Path:    path,
		Code:    code,
		Message: message,
	}, sessionID)
}
