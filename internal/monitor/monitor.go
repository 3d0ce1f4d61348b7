// Package monitor runs one watch session over a source folder: it settles
// new files, classifies them, and moves them to their destination.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/adapters/mover"
	"github.com/brianly1003/autosort/internal/adapters/watcher"
	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
	"github.com/brianly1003/autosort/internal/domain/rules"
	"github.com/brianly1003/autosort/internal/pathutil"
	"github.com/brianly1003/autosort/internal/sync"
)

// session is one running watch over a folder.
type session struct {
	id        string
	folder    string
	ctx       context.Context
	cancel    context.CancelFunc
	watcher   ports.FileWatcher
	debouncer *watcher.Debouncer
	stopping  bool
}

// Monitor owns at most one watch session.
type Monitor struct {
	store    ports.ConfigStore
	notifier ports.Notifier
	logger   zerolog.Logger

	mu      sync.Mutex
	session *session
}

// New creates an idle monitor. Every processed file reads a fresh snapshot
// from store.
func New(store ports.ConfigStore, notifier ports.Notifier, logger zerolog.Logger) *Monitor {
	return &Monitor{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "monitor").Logger(),
	}
}

// Start begins watching folder. The session outlives ctx's cancellation;
// only Stop ends it.
func (m *Monitor) Start(ctx context.Context, folder string) error {
	if !pathutil.IsExistingDir(folder) {
		return fmt.Errorf("%q: %w", folder, domain.ErrInvalidSourceFolder)
	}
	folder, err := filepath.Abs(folder)
	if err != nil {
		return fmt.Errorf("%q: %w", folder, domain.ErrInvalidSourceFolder)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		if !m.session.stopping {
			return domain.ErrAlreadyRunning
		}
		// A previous Stop timed out; finish it before starting over.
		if err := m.stopLocked(); err != nil {
			return err
		}
	}

	snap := m.store.Snapshot()
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{
		id:     uuid.New().String(),
		folder: folder,
		ctx:    sessCtx,
		cancel: cancel,
	}

	logger := m.logger.With().Str("session_id", s.id).Logger()
	transient := watcher.NewTransientFilter(snap.TransientExtensions())
	s.debouncer = watcher.NewDebouncer(snap.SettleDelay(), transient, func(path string) {
		m.process(s, path)
	}, logger)
	s.watcher = watcher.NewWatcher(folder, transient, s.debouncer, logger)

	if err := s.watcher.Start(sessCtx); err != nil {
		cancel()
		_ = s.debouncer.Stop(snap.StopGrace())
		return fmt.Errorf("watch %s: %w", folder, err)
	}

	m.session = s
	m.logger.Info().
		Str("session_id", s.id).
		Str("folder", folder).
		Dur("settle", snap.SettleDelay()).
		Msg("monitoring started")
	return nil
}

// Stop ends the session and waits for in-flight files, bounded by the
// configured grace period. No file is moved after Stop returns nil. On
// domain.ErrCancellationTimeout the session is kept so Stop can be retried.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Monitor) stopLocked() error {
	s := m.session
	if s == nil {
		return nil
	}

	s.stopping = true
	s.cancel()
	if err := s.watcher.Stop(); err != nil {
		m.logger.Warn().Err(err).Str("session_id", s.id).Msg("closing fsnotify watcher")
	}
	if err := s.debouncer.Stop(m.store.Snapshot().StopGrace()); err != nil {
		m.logger.Error().Err(err).Str("session_id", s.id).Msg("monitor did not stop cleanly")
		return err
	}

	m.session = nil
	m.logger.Info().Str("session_id", s.id).Str("folder", s.folder).Msg("monitoring stopped")
	return nil
}

// IsRunning reports whether a session is actively watching.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && !m.session.stopping
}

// SessionID returns the running session's id, or "".
func (m *Monitor) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.stopping {
		return ""
	}
	return m.session.id
}

// SourceFolder returns the folder being watched, or "".
func (m *Monitor) SourceFolder() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.stopping {
		return ""
	}
	return m.session.folder
}

// process classifies and moves one settled file. Failures are reported and
// never escape.
func (m *Monitor) process(s *session, path string) {
	snap := m.store.Snapshot()

	dest, err := rules.ClassifyPath(path, snap.RuleSet())
	if err == nil && pathutil.SameDir(dest.Folder, s.folder) {
		err = fmt.Errorf("destination %s is the watched folder: %w", dest.Folder, domain.ErrClassificationUnresolved)
	}
	if err != nil {
		m.report(s, path, err)
		return
	}

	res, err := mover.Resolve(dest.Folder, filepath.Base(path))
	if err != nil {
		m.report(s, path, err)
		return
	}

	final, err := mover.Move(s.ctx, path, res)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			m.logger.Debug().Str("session_id", s.id).Str("path", path).Msg("move skipped: monitor stopping")
			return
		}
		m.report(s, path, err)
		return
	}

	outcome := events.ClassificationOutcome{
		SourcePath:   path,
		FinalPath:    final,
		TargetFolder: dest.Folder,
		Category:     dest.Category,
	}
	m.logger.Info().
		Str("session_id", s.id).
		Str("source", path).
		Str("destination", final).
		Str("category", dest.Category).
		Msg("file classified")
	m.notifier.FileClassified(outcome, s.id)
}

func (m *Monitor) report(s *session, path string, err error) {
	var ev *zerolog.Event
	switch {
	case errors.Is(err, domain.ErrTransientArtifact):
		ev = m.logger.Debug()
	case errors.Is(err, domain.ErrClassificationUnresolved):
		ev = m.logger.Warn()
	default:
		ev = m.logger.Error()
	}
	ev.Err(err).
		Str("session_id", s.id).
		Str("path", path).
		Str("code", domain.ErrorCode(err)).
		Msg("file not classified")

	m.notifier.FileFailed(path, err, s.id)
}
