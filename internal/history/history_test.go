package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianly1003/autosort/internal/domain/events"
)

func openTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"), maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t, 0)

	require.NoError(t, s.Record(Entry{Status: StatusClassified, SourcePath: "/in/a.pdf", FinalPath: "/out/Documents/a.pdf", Category: "Documents"}))
	require.NoError(t, s.Record(Entry{Status: StatusFailed, SourcePath: "/in/b.iso", Code: "CLASSIFICATION_UNRESOLVED", Message: "no rule"}))

	entries, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/in/b.iso", entries[0].SourcePath, "newest first")
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "Documents", entries[1].Category)
	assert.False(t, entries[1].Time.IsZero())

	entries, err = s.Recent(1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLastClassified(t *testing.T) {
	s := openTestStore(t, 0)

	last, err := s.LastClassified()
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, s.Record(Entry{Status: StatusClassified, SourcePath: "/in/a.pdf"}))
	require.NoError(t, s.Record(Entry{Status: StatusFailed, SourcePath: "/in/b.iso"}))

	last, err = s.LastClassified()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "/in/a.pdf", last.SourcePath)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(Entry{Status: StatusClassified, SourcePath: filepath.Join("/in", string(rune('a'+i)))}))
	}

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, filepath.Join("/in", "e"), entries[0].SourcePath)
	assert.Equal(t, filepath.Join("/in", "c"), entries[2].SourcePath)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Record(Entry{Status: StatusClassified, SourcePath: "/in/a.pdf", Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}))
	require.NoError(t, s.Close())

	s, err = Open(path, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Time.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)), "time = %v", entries[0].Time)
}

func TestSubscriberRecordsOutcomes(t *testing.T) {
	s := openTestStore(t, 0)
	sub := s.Subscriber()

	require.NoError(t, sub.Send(events.NewFileClassifiedEvent(events.ClassificationOutcome{
		SourcePath: "/in/a.pdf", FinalPath: "/out/a.pdf", TargetFolder: "/out", Category: "Documents",
	}, true, "s1")))
	require.NoError(t, sub.Send(events.NewFileFailedEvent("/in/b.iso", "MOVE_FAILED", "boom", "s1")))
	require.NoError(t, sub.Send(events.NewMonitoringStatusEvent(true, "/in", "s1")))

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "MOVE_FAILED", entries[0].Code)
	assert.Equal(t, "s1", entries[0].SessionID)
	assert.Equal(t, "/out/a.pdf", entries[1].FinalPath)
}
