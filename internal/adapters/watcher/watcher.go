// Package watcher implements the single-directory file system watcher using
// fsnotify and the settle/verify debouncer that sits behind it.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/sync"
)

// renameWindow bounds how long a transient rename waits for its Create.
const renameWindow = time.Second

// pendingRename tracks a partial file that was renamed; fsnotify reports the
// old name and the new name as two separate events.
type pendingRename struct {
	oldPath   string
	timestamp time.Time
}

// Watcher implements ports.FileWatcher for one directory, non-recursively.
type Watcher struct {
	root      string
	transient *TransientFilter
	handler   Handler
	logger    zerolog.Logger

	mu      sync.RWMutex
	watcher *fsnotify.Watcher
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// Accessed only from the event loop.
	pending *pendingRename
}

// NewWatcher creates a watcher for root that reports to handler.
func NewWatcher(root string, transient *TransientFilter, handler Handler, logger zerolog.Logger) *Watcher {
	return &Watcher{
		root:      filepath.Clean(root),
		transient: transient,
		handler:   handler,
		logger:    logger,
	}
}

// Start begins watching the directory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.root); err != nil {
		_ = fw.Close()
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.watcher = fw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.eventLoop(loopCtx, fw, w.done)

	w.logger.Info().Str("path", w.root).Msg("file watcher started")
	return nil
}

// Stop closes the fsnotify watch and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	err := w.watcher.Close()
	done := w.done
	w.watcher = nil
	w.mu.Unlock()

	<-done
	w.logger.Info().Str("path", w.root).Msg("file watcher stopped")
	return err
}

// IsRunning returns true if the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(event, time.Now())

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("path", w.root).Msg("watcher error")
		}
	}
}

// handleEvent translates one fsnotify event into a Handler call.
func (w *Watcher) handleEvent(event fsnotify.Event, now time.Time) {
	path := event.Name

	// Non-recursive: only direct children of root count.
	if filepath.Dir(path) != w.root {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if pending := w.pending; pending != nil {
			w.pending = nil
			if now.Sub(pending.timestamp) < renameWindow {
				w.handler.Renamed(pending.oldPath, path)
				return
			}
		}
		w.handler.Created(path)

	case event.Has(fsnotify.Rename):
		// Only partial files are paired with the Create that follows. Other
		// renames, including our own moves out of the folder, are dropped.
		if !w.transient.IsTransient(path) {
			return
		}
		w.pending = &pendingRename{oldPath: path, timestamp: now}
		w.logger.Debug().Str("old_path", path).Msg("tracking pending rename")
	}
}
