// Package testutil provides shared test doubles for autosort tests.
package testutil

import (
	"sync"
	"time"

	"github.com/brianly1003/autosort/internal/config"
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
)

// MockSubscriber implements ports.Subscriber for testing.
type MockSubscriber struct {
	id      string
	mu      sync.Mutex
	events  []events.Event
	closed  bool
	sendErr error
	done    chan struct{}
}

// NewMockSubscriber creates a new mock subscriber.
func NewMockSubscriber(id string) *MockSubscriber {
	return &MockSubscriber{id: id, done: make(chan struct{})}
}

// ID returns the subscriber ID.
func (m *MockSubscriber) ID() string {
	return m.id
}

// Send records the event and returns any configured error.
func (m *MockSubscriber) Send(e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.events = append(m.events, e)
	return nil
}

// Close marks the subscriber as closed.
func (m *MockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// Done returns a channel that's closed when the subscriber is done.
func (m *MockSubscriber) Done() <-chan struct{} {
	return m.done
}

// Events returns all received events.
func (m *MockSubscriber) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events...)
}

// EventCount returns the number of received events.
func (m *MockSubscriber) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// IsClosed returns whether the subscriber was closed.
func (m *MockSubscriber) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetSendError configures an error to return on Send.
func (m *MockSubscriber) SetSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

var _ ports.Subscriber = (*MockSubscriber)(nil)

// MockEventHub implements ports.EventHub by recording published events.
type MockEventHub struct {
	mu          sync.Mutex
	events      []events.Event
	subscribers []ports.Subscriber
}

// NewMockEventHub creates a new mock event hub.
func NewMockEventHub() *MockEventHub {
	return &MockEventHub{}
}

func (m *MockEventHub) Start() error { return nil }
func (m *MockEventHub) Stop() error  { return nil }

// Publish records the event.
func (m *MockEventHub) Publish(e events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Subscribe records the subscriber.
func (m *MockEventHub) Subscribe(sub ports.Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, sub)
}

// Unsubscribe removes a subscriber by ID.
func (m *MockEventHub) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sub := range m.subscribers {
		if sub.ID() == id {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of subscribers.
func (m *MockEventHub) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// PublishedEvents returns all published events.
func (m *MockEventHub) PublishedEvents() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events...)
}

var _ ports.EventHub = (*MockEventHub)(nil)

// StatusChange is one recorded MonitoringStatusChanged call.
type StatusChange struct {
	Monitoring   bool
	SourceFolder string
	SessionID    string
}

// Failure is one recorded FileFailed call.
type Failure struct {
	Path      string
	Err       error
	SessionID string
}

// RecordingNotifier implements ports.Notifier by recording every call.
type RecordingNotifier struct {
	mu         sync.Mutex
	statuses   []StatusChange
	classified []events.ClassificationOutcome
	failures   []Failure
}

// NewRecordingNotifier creates an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) MonitoringStatusChanged(monitoring bool, sourceFolder, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, StatusChange{Monitoring: monitoring, SourceFolder: sourceFolder, SessionID: sessionID})
}

func (r *RecordingNotifier) FileClassified(outcome events.ClassificationOutcome, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classified = append(r.classified, outcome)
}

func (r *RecordingNotifier) FileFailed(path string, err error, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{Path: path, Err: err, SessionID: sessionID})
}

// Statuses returns the recorded status changes.
func (r *RecordingNotifier) Statuses() []StatusChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StatusChange(nil), r.statuses...)
}

// Classified returns the recorded outcomes.
func (r *RecordingNotifier) Classified() []events.ClassificationOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.ClassificationOutcome(nil), r.classified...)
}

// Failures returns the recorded failures.
func (r *RecordingNotifier) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

var _ ports.Notifier = (*RecordingNotifier)(nil)

// NewMemoryStore returns a memory-only config store seeded with defaults and
// then adjusted by each option.
func NewMemoryStore(opts ...func(*config.Config)) *config.Store {
	cfg := config.Default("")
	cfg.Watcher.SettleMS = 20
	cfg.Watcher.StopGraceMS = 2000
	for _, opt := range opts {
		opt(cfg)
	}
	return config.NewStore(cfg, "")
}

// Eventually polls cond until it returns true or timeout elapses.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}
