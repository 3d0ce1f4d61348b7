package hub

import (
	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/sync"
)

// ChannelSubscriber delivers events on a buffered channel. A reader that
// falls behind is dropped by the hub.
type ChannelSubscriber struct {
	id     string
	mu     sync.Mutex
	send   chan events.Event
	done   chan struct{}
	closed bool
}

// NewChannelSubscriber creates a new channel-based subscriber.
func NewChannelSubscriber(id string, bufferSize int) *ChannelSubscriber {
	return &ChannelSubscriber{
		id:   id,
		send: make(chan events.Event, bufferSize),
		done: make(chan struct{}),
	}
}

func (s *ChannelSubscriber) ID() string { return s.id }

// Send queues the event without blocking.
func (s *ChannelSubscriber) Send(event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSubscriberClosed
	}
	select {
	case s.send <- event:
		return nil
	default:
		return domain.ErrSubscriberClosed
	}
}

// Close closes the subscriber; Events is closed too.
func (s *ChannelSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	close(s.send)
	return nil
}

func (s *ChannelSubscriber) Done() <-chan struct{} { return s.done }

// Events returns the channel to receive events from.
func (s *ChannelSubscriber) Events() <-chan events.Event { return s.send }

// FuncSubscriber calls fn synchronously for every event. It backs the log
// and history subscribers.
type FuncSubscriber struct {
	id     string
	fn     func(events.Event) error
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// NewFuncSubscriber creates a subscriber around fn.
func NewFuncSubscriber(id string, fn func(events.Event) error) *FuncSubscriber {
	return &FuncSubscriber{id: id, fn: fn, done: make(chan struct{})}
}

func (s *FuncSubscriber) ID() string { return s.id }

// Send calls fn. Errors from fn are returned to the hub, which drops the
// subscriber.
func (s *FuncSubscriber) Send(event events.Event) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return domain.ErrSubscriberClosed
	}
	return s.fn(event)
}

func (s *FuncSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}

func (s *FuncSubscriber) Done() <-chan struct{} { return s.done }
