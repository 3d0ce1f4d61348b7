package hub

import (
	"errors"
	"testing"
	"time"

	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/testutil"
)

func waitForCount(t *testing.T, sub *testutil.MockSubscriber, want int) {
	t.Helper()
	if !testutil.Eventually(time.Second, func() bool { return sub.EventCount() >= want }) {
		t.Fatalf("EventCount() = %d, want %d", sub.EventCount(), want)
	}
}

func TestHub_StartStop(t *testing.T) {
	h := New()

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !h.IsRunning() {
		t.Error("hub should be running after Start()")
	}
	if err := h.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	sub := testutil.NewMockSubscriber("s")
	h.Subscribe(sub)

	if err := h.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if h.IsRunning() {
		t.Error("hub should not be running after Stop()")
	}
	if !sub.IsClosed() {
		t.Error("subscriber should be closed on Stop()")
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}

	late := testutil.NewMockSubscriber("late")
	h.Subscribe(late)
	if !late.IsClosed() {
		t.Error("subscribing to a stopped hub should close the subscriber")
	}
}

func TestHub_PublishFansOut(t *testing.T) {
	h := New()
	_ = h.Start()
	defer func() { _ = h.Stop() }()

	a := testutil.NewMockSubscriber("a")
	b := testutil.NewMockSubscriber("b")
	h.Subscribe(a)
	h.Subscribe(b)
	if h.SubscriberCount() != 2 {
		t.Fatalf("SubscriberCount() = %d, want 2", h.SubscriberCount())
	}

	h.Publish(events.NewMonitoringStatusEvent(true, "/in", "s1"))

	waitForCount(t, a, 1)
	waitForCount(t, b, 1)
	if got := a.Events()[0].Type(); got != events.EventTypeMonitoringStatusChanged {
		t.Errorf("event type = %s, want %s", got, events.EventTypeMonitoringStatusChanged)
	}
}

func TestHub_FailingSubscriberIsDropped(t *testing.T) {
	h := New()
	_ = h.Start()
	defer func() { _ = h.Stop() }()

	bad := testutil.NewMockSubscriber("bad")
	bad.SetSendError(errors.New("gone"))
	good := testutil.NewMockSubscriber("good")
	h.Subscribe(bad)
	h.Subscribe(good)

	h.Publish(events.NewHeartbeatEvent(1, false, time.Second))
	waitForCount(t, good, 1)

	if !testutil.Eventually(time.Second, func() bool { return h.SubscriberCount() == 1 }) {
		t.Fatalf("SubscriberCount() = %d, want 1", h.SubscriberCount())
	}
	if !bad.IsClosed() {
		t.Error("failing subscriber should be closed")
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	h := New()
	sub := testutil.NewMockSubscriber("s")
	h.Subscribe(sub)
	h.Unsubscribe("s")
	h.Unsubscribe("missing")

	if h.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", h.SubscriberCount())
	}
	if !sub.IsClosed() {
		t.Error("unsubscribed subscriber should be closed")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := New()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			h.Publish(events.NewHeartbeatEvent(int64(i), false, 0))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
