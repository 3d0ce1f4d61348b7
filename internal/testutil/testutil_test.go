package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/brianly1003/autosort/internal/config"
	"github.com/brianly1003/autosort/internal/domain/events"
)

func TestMockSubscriber_SendAndClose(t *testing.T) {
	sub := NewMockSubscriber("test-sub")

	if err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if sub.EventCount() != 1 {
		t.Errorf("EventCount() = %d, want 1", sub.EventCount())
	}

	sendErr := errors.New("send failed")
	sub.SetSendError(sendErr)
	if err := sub.Send(events.NewEvent(events.EventTypeHeartbeat, nil)); err != sendErr {
		t.Errorf("Send() error = %v, want %v", err, sendErr)
	}

	_ = sub.Close()
	_ = sub.Close()
	if !sub.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	select {
	case <-sub.Done():
	default:
		t.Error("Done() not closed after Close")
	}
}

func TestRecordingNotifier(t *testing.T) {
	r := NewRecordingNotifier()
	r.MonitoringStatusChanged(true, "/in", "s1")
	r.FileClassified(events.ClassificationOutcome{SourcePath: "/in/a.pdf"}, "s1")
	r.FileFailed("/in/b.iso", errors.New("boom"), "s1")

	if got := r.Statuses(); len(got) != 1 || !got[0].Monitoring || got[0].SessionID != "s1" {
		t.Errorf("Statuses() = %+v", got)
	}
	if got := r.Classified(); len(got) != 1 || got[0].SourcePath != "/in/a.pdf" {
		t.Errorf("Classified() = %+v", got)
	}
	if got := r.Failures(); len(got) != 1 || got[0].Path != "/in/b.iso" {
		t.Errorf("Failures() = %+v", got)
	}
}

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore(func(c *config.Config) { c.SourceFolder = "/in" })

	if store.Path() != "" {
		t.Errorf("Path() = %q, want empty", store.Path())
	}
	if store.Snapshot().SourceFolder() != "/in" {
		t.Errorf("SourceFolder() = %q, want /in", store.Snapshot().SourceFolder())
	}
	if store.Snapshot().SettleDelay() != 20*time.Millisecond {
		t.Errorf("SettleDelay() = %v, want 20ms", store.Snapshot().SettleDelay())
	}
}

func TestEventually(t *testing.T) {
	n := 0
	if !Eventually(time.Second, func() bool { n++; return n >= 3 }) {
		t.Error("Eventually() = false, want true")
	}
	if Eventually(20*time.Millisecond, func() bool { return false }) {
		t.Error("Eventually() = true, want false")
	}
}
