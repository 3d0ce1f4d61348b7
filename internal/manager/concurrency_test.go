package manager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianly1003/autosort/internal/config"
	"github.com/brianly1003/autosort/internal/domain/rules"
	"github.com/brianly1003/autosort/internal/testutil"
)

// editingStore runs edit once, right after the nth Snapshot call returns
// its value to the caller.
type editingStore struct {
	*config.Store
	nth   int32
	calls atomic.Int32
	edit  func()
}

func (s *editingStore) Snapshot() *config.Snapshot {
	snap := s.Store.Snapshot()
	if s.calls.Add(1) == s.nth {
		s.edit()
	}
	return snap
}

func TestToggleKeepsRuleAddedMidway(t *testing.T) {
	source := t.TempDir()
	inner := testutil.NewMemoryStore(withSource(source))
	before := inner.Snapshot().RuleSet().Len()

	store := &editingStore{Store: inner, nth: 2}
	store.edit = func() {
		require.NoError(t, inner.AddRule(rules.Rule{Extensions: []string{".epub"}, Category: "Books"}))
	}
	m := New(store, testutil.NewRecordingNotifier(), zerolog.Nop())
	t.Cleanup(func() { _ = m.Close() })

	// Toggle reads once to pick the direction; the edit lands after the
	// second read, taken inside the locked section.
	on, err := m.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, on)

	snap := inner.Snapshot()
	assert.True(t, snap.IsMonitoring())
	assert.Equal(t, before+1, snap.RuleSet().Len(), "rule edit must survive the intent write")

	_, err = m.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, inner.Snapshot().IsMonitoring())
	assert.Equal(t, before+1, inner.Snapshot().RuleSet().Len())
}

func TestConcurrentCallersKeepOneSession(t *testing.T) {
	source := t.TempDir()
	m, _, notifier := newTestManager(t, withSource(source))
	ctx := context.Background()

	const workers = 8
	const rounds = 10
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				switch (w + i) % 4 {
				case 0:
					_, _ = m.Toggle(ctx)
				case 1:
					_ = m.Setup(ctx)
				case 2:
					_ = m.Start(ctx)
				case 3:
					_ = m.Stop()
				}
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, m.Stop())
	assert.False(t, m.IsMonitoring())

	statuses := notifier.Statuses()
	require.NotEmpty(t, statuses)
	for i, st := range statuses {
		// Alternation means a new session is never announced while
		// another one is still running.
		assert.Equal(t, i%2 == 0, st.Monitoring, "status %d out of order", i)
		if !st.Monitoring {
			assert.Equal(t, statuses[i-1].SessionID, st.SessionID, "stop %d must close the session it follows", i)
		}
	}
	assert.False(t, statuses[len(statuses)-1].Monitoring)
}
