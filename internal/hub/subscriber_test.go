package hub

import (
	"errors"
	"testing"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/testutil"
)

func TestChannelSubscriber(t *testing.T) {
	sub := NewChannelSubscriber("c", 1)

	if err := sub.Send(events.NewHeartbeatEvent(1, true, 0)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := sub.Send(events.NewHeartbeatEvent(2, true, 0)); !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() on full buffer error = %v, want ErrSubscriberClosed", err)
	}

	got := <-sub.Events()
	if got.Type() != events.EventTypeHeartbeat {
		t.Errorf("event type = %s, want heartbeat", got.Type())
	}

	_ = sub.Close()
	_ = sub.Close()
	if _, ok := <-sub.Events(); ok {
		t.Error("Events() should be closed after Close")
	}
	if err := sub.Send(events.NewHeartbeatEvent(3, true, 0)); !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() after Close error = %v, want ErrSubscriberClosed", err)
	}
}

func TestFuncSubscriber(t *testing.T) {
	var seen []events.EventType
	sub := NewFuncSubscriber("f", func(e events.Event) error {
		seen = append(seen, e.Type())
		return nil
	})

	_ = sub.Send(events.NewErrorEvent("X", "y"))
	_ = sub.Close()
	if err := sub.Send(events.NewErrorEvent("X", "y")); !errors.Is(err, domain.ErrSubscriberClosed) {
		t.Errorf("Send() after Close error = %v, want ErrSubscriberClosed", err)
	}
	if len(seen) != 1 {
		t.Errorf("calls = %d, want 1", len(seen))
	}
}

func TestFilteredSubscriber(t *testing.T) {
	inner := testutil.NewMockSubscriber("inner")
	f := NewFilteredSubscriber(inner, events.EventTypeFileClassified)

	_ = f.Send(events.NewHeartbeatEvent(1, true, 0))
	_ = f.Send(events.NewFileClassifiedEvent(events.ClassificationOutcome{SourcePath: "/in/a"}, true, "s"))
	if inner.EventCount() != 1 {
		t.Fatalf("forwarded = %d, want 1", inner.EventCount())
	}

	f.SetTypes()
	if !f.Accepts(events.EventTypeHeartbeat) {
		t.Error("empty filter should accept every type")
	}
	if f.ID() != "inner" {
		t.Errorf("ID() = %q, want inner", f.ID())
	}
}
