package hub

import (
	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
)

// Notifier implements ports.Notifier by publishing events to a hub.
type Notifier struct {
	hub   ports.EventHub
	store ports.ConfigStore
}

// NewNotifier creates a notifier publishing to hub. The show_notifications
// setting is read from store for every classified file.
func NewNotifier(hub ports.EventHub, store ports.ConfigStore) *Notifier {
	return &Notifier{hub: hub, store: store}
}

func (n *Notifier) MonitoringStatusChanged(monitoring bool, sourceFolder, sessionID string) {
	n.hub.Publish(events.NewMonitoringStatusEvent(monitoring, sourceFolder, sessionID))
}

func (n *Notifier) FileClassified(outcome events.ClassificationOutcome, sessionID string) {
	notify := n.store == nil || n.store.Snapshot().ShowNotifications()
	n.hub.Publish(events.NewFileClassifiedEvent(outcome, notify, sessionID))
}

func (n *Notifier) FileFailed(path string, err error, sessionID string) {
	n.hub.Publish(events.NewFileFailedEvent(path, domain.ErrorCode(err), err.Error(), sessionID))
}

var _ ports.Notifier = (*Notifier)(nil)

// NewLogSubscriber returns a subscriber that writes user-facing events to
// logger. Classified files marked for notification are logged at info so
// they show up in the default console output.
func NewLogSubscriber(logger zerolog.Logger) *FuncSubscriber {
	return NewFuncSubscriber("log", func(e events.Event) error {
		base, ok := e.(*events.BaseEvent)
		if !ok {
			logger.Debug().Str("event_type", string(e.Type())).Msg("event")
			return nil
		}

		switch p := base.Payload.(type) {
		case events.MonitoringStatusPayload:
			logger.Info().
				Bool("monitoring", p.Monitoring).
				Str("folder", p.SourceFolder).
				Msg("monitoring status changed")
		case events.FileClassifiedPayload:
			ev := logger.Debug()
			if p.Notify {
				ev = logger.Info()
			}
			ev.Str("file", p.SourcePath).
				Str("category", p.Category).
				Str("destination", p.FinalPath).
				Msg("sorted")
		case events.FileFailedPayload:
			logger.Debug().Str("file", p.Path).Str("code", p.Code).Msg(p.Message)
		default:
			logger.Trace().Str("event_type", string(base.Type())).Msg("event")
		}
		return nil
	})
}
