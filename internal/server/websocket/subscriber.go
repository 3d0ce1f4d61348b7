package websocket

import (
	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/events"
)

// ClientSubscriber wraps a WebSocket client as an EventHub subscriber.
type ClientSubscriber struct {
	client *Client
}

// NewClientSubscriber creates a subscriber from a WebSocket client.
func NewClientSubscriber(client *Client) *ClientSubscriber {
	return &ClientSubscriber{client: client}
}

func (s *ClientSubscriber) ID() string { return s.client.ID() }

// Send serializes event and queues it. A closed or lagging client reports
// ErrSubscriberClosed so the hub drops it.
func (s *ClientSubscriber) Send(event events.Event) error {
	if s.client.IsClosed() {
		return domain.ErrSubscriberClosed
	}
	data, err := event.ToJSON()
	if err != nil {
		return err
	}
	if !s.client.Send(data) {
		return domain.ErrSubscriberClosed
	}
	return nil
}

func (s *ClientSubscriber) Close() error {
	s.client.Close()
	return nil
}

func (s *ClientSubscriber) Done() <-chan struct{} { return s.client.Done() }
