// Package manager owns the persisted monitoring intent and the single
// Monitor session that reflects it.
package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/config"
	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/ports"
	"github.com/brianly1003/autosort/internal/monitor"
	"github.com/brianly1003/autosort/internal/pathutil"
	"github.com/brianly1003/autosort/internal/sync"
)

// Status describes the current monitoring state.
type Status struct {
	Monitoring   bool   `json:"monitoring"`
	Intent       bool   `json:"intent"`
	SessionID    string `json:"session_id,omitempty"`
	SourceFolder string `json:"source_folder"`
}

// Manager turns monitoring on and off, persisting the user's intent and
// announcing every actual transition exactly once.
type Manager struct {
	store    ports.ConfigStore
	notifier ports.Notifier
	monitor  *monitor.Monitor
	logger   zerolog.Logger

	// mu serializes every session replacement.
	mu sync.Mutex
}

// New creates a manager. The notifier receives status transitions as well
// as the per-file outcomes of every session the manager starts.
func New(store ports.ConfigStore, notifier ports.Notifier, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		monitor:  monitor.New(store, notifier, logger),
		logger:   logger.With().Str("component", "manager").Logger(),
	}
}

// Setup replaces any running session with one matching the persisted
// configuration. It is called after the source folder or rules change.
func (m *Manager) Setup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stopLocked(); err != nil {
		return err
	}

	snap := m.store.Snapshot()
	if !snap.IsMonitoring() {
		return nil
	}
	if !pathutil.IsExistingDir(snap.SourceFolder()) {
		m.logger.Warn().
			Str("folder", snap.SourceFolder()).
			Msg("monitoring enabled but source folder is not a directory")
		return nil
	}
	return m.startLocked(ctx, snap.SourceFolder())
}

// RestoreState starts monitoring at process start when the persisted intent
// is on and the source folder is valid. Otherwise it stays idle.
func (m *Manager) RestoreState(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.Snapshot()
	if !snap.IsMonitoring() || m.monitor.IsRunning() {
		return nil
	}
	if !pathutil.IsExistingDir(snap.SourceFolder()) {
		m.logger.Warn().
			Str("folder", snap.SourceFolder()).
			Msg("not restoring monitoring: source folder is not a directory")
		return nil
	}
	return m.startLocked(ctx, snap.SourceFolder())
}

// Toggle flips the persisted intent and returns the new state. Turning on
// requires a valid source folder; otherwise nothing changes.
func (m *Manager) Toggle(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	on := !m.store.Snapshot().IsMonitoring()
	if err := m.setLocked(ctx, on); err != nil {
		return !on, err
	}
	return on, nil
}

// Start turns monitoring on and persists the intent. Already on is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(ctx, true)
}

// Stop turns monitoring off and persists the intent. Already off is a no-op.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(context.Background(), false)
}

// Close stops any session without touching the persisted intent, so the
// next RestoreState resumes where the process left off.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// IsMonitoring reports whether a session is running.
func (m *Manager) IsMonitoring() bool {
	return m.monitor.IsRunning()
}

// Status returns the current state.
func (m *Manager) Status() Status {
	snap := m.store.Snapshot()
	st := Status{
		Monitoring:   m.monitor.IsRunning(),
		Intent:       snap.IsMonitoring(),
		SessionID:    m.monitor.SessionID(),
		SourceFolder: snap.SourceFolder(),
	}
	if folder := m.monitor.SourceFolder(); folder != "" {
		st.SourceFolder = folder
	}
	return st
}

func (m *Manager) setLocked(ctx context.Context, on bool) error {
	snap := m.store.Snapshot()

	if on {
		folder := snap.SourceFolder()
		if !pathutil.IsExistingDir(folder) {
			return fmt.Errorf("%q: %w", folder, domain.ErrInvalidSourceFolder)
		}
		wasOn := snap.IsMonitoring()
		if wasOn && m.monitor.IsRunning() {
			return nil
		}
		if err := m.persistIntent(true); err != nil {
			return err
		}
		if err := m.startLocked(ctx, folder); err != nil {
			if !wasOn {
				_ = m.persistIntent(false)
			}
			return err
		}
		return nil
	}

	if err := m.persistIntent(false); err != nil {
		return err
	}
	return m.stopLocked()
}

// persistIntent writes is_monitoring on top of the latest snapshot, so a
// rule or folder edit made since setLocked read its snapshot survives.
func (m *Manager) persistIntent(on bool) error {
	err := m.store.Update(func(cur *config.Snapshot) *config.Snapshot {
		if cur.IsMonitoring() == on {
			return nil
		}
		return cur.WithMonitoring(on)
	})
	if err != nil {
		return fmt.Errorf("persist monitoring intent: %w", err)
	}
	return nil
}

func (m *Manager) startLocked(ctx context.Context, folder string) error {
	err := m.monitor.Start(ctx, folder)
	if errors.Is(err, domain.ErrAlreadyRunning) {
		return nil
	}
	if err != nil {
		return err
	}
	m.notifier.MonitoringStatusChanged(true, m.monitor.SourceFolder(), m.monitor.SessionID())
	return nil
}

func (m *Manager) stopLocked() error {
	if !m.monitor.IsRunning() {
		// A previous Stop may have timed out; retry it quietly.
		return m.monitor.Stop()
	}
	folder := m.monitor.SourceFolder()
	id := m.monitor.SessionID()
	// On a timeout the watch is already closed, so the transition is
	// announced either way.
	err := m.monitor.Stop()
	m.notifier.MonitoringStatusChanged(false, folder, id)
	return err
}
