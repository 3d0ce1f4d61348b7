package hub

import (
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
	"github.com/brianly1003/autosort/internal/sync"
)

// FilteredSubscriber wraps a subscriber and forwards only selected event
// types. With no types selected every event is forwarded.
type FilteredSubscriber struct {
	inner ports.Subscriber
	mu    sync.RWMutex
	types map[events.EventType]bool
}

// NewFilteredSubscriber wraps inner, forwarding only the given types.
func NewFilteredSubscriber(inner ports.Subscriber, types ...events.EventType) *FilteredSubscriber {
	f := &FilteredSubscriber{inner: inner, types: make(map[events.EventType]bool)}
	for _, t := range types {
		f.types[t] = true
	}
	return f
}

func (f *FilteredSubscriber) ID() string            { return f.inner.ID() }
func (f *FilteredSubscriber) Close() error          { return f.inner.Close() }
func (f *FilteredSubscriber) Done() <-chan struct{} { return f.inner.Done() }

// Send forwards event when it passes the filter.
func (f *FilteredSubscriber) Send(event events.Event) error {
	if !f.Accepts(event.Type()) {
		return nil
	}
	return f.inner.Send(event)
}

// Accepts reports whether events of type t are forwarded.
func (f *FilteredSubscriber) Accepts(t events.EventType) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.types) == 0 || f.types[t]
}

// SetTypes replaces the selected types. No types means all.
func (f *FilteredSubscriber) SetTypes(types ...events.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = make(map[events.EventType]bool, len(types))
	for _, t := range types {
		f.types[t] = true
	}
}
