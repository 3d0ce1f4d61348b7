package watcher

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/sync"
)

// Handler receives the raw notifications the Watcher translates from
// fsnotify.
type Handler interface {
	Created(path string)
	Renamed(oldPath, newPath string)
}

type pendingPath struct {
	timer *time.Timer
}

// Debouncer waits for a file to settle before forwarding it. Each path has
// its own timer; repeated notifications for a pending path reset it, so a
// file is forwarded once per burst.
type Debouncer struct {
	settle    time.Duration
	transient *TransientFilter
	forward   func(path string)
	logger    zerolog.Logger

	mu      sync.Mutex
	pending map[string]*pendingPath
	stopped bool

	// inflight counts scheduled timers plus running forwards.
	inflight sync.WaitGroup
}

// NewDebouncer creates a debouncer that calls forward with every path that
// still exists as a regular file after the settle delay.
func NewDebouncer(settle time.Duration, transient *TransientFilter, forward func(path string), logger zerolog.Logger) *Debouncer {
	return &Debouncer{
		settle:    settle,
		transient: transient,
		forward:   forward,
		logger:    logger,
		pending:   make(map[string]*pendingPath),
	}
}

// Created handles a newly created path.
func (d *Debouncer) Created(path string) {
	if d.transient.IsTransient(path) {
		d.logger.Debug().Str("path", path).Msg("ignoring transient file")
		return
	}
	d.schedule(path)
}

// Renamed handles a rename inside the watched folder. Only a partial file
// being renamed to its final name is of interest.
func (d *Debouncer) Renamed(oldPath, newPath string) {
	if !d.transient.IsTransient(oldPath) || d.transient.IsTransient(newPath) {
		return
	}
	d.logger.Debug().Str("old_path", oldPath).Str("path", newPath).Msg("download completed")
	d.schedule(newPath)
}

func (d *Debouncer) schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(d.settle)
		return
	}

	// Either nothing is pending or the old timer already fired; in the
	// latter case fire sees it was superseded and skips the forward.
	p := &pendingPath{}
	d.inflight.Add(1)
	p.timer = time.AfterFunc(d.settle, func() { d.fire(path, p) })
	d.pending[path] = p
}

func (d *Debouncer) fire(path string, p *pendingPath) {
	defer d.inflight.Done()

	d.mu.Lock()
	current := d.pending[path] == p
	if current {
		delete(d.pending, path)
	}
	stopped := d.stopped
	d.mu.Unlock()

	if !current || stopped {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		d.logger.Debug().
			Err(domain.ErrTransientArtifact).
			Str("path", path).
			Msg("file vanished before settling")
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	d.forward(path)
}

// Pending returns the number of paths waiting to settle.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels pending timers and waits up to grace for forwards already
// running. It returns domain.ErrCancellationTimeout if they do not finish.
// Nothing is forwarded once Stop has been called.
func (d *Debouncer) Stop(grace time.Duration) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for path, p := range d.pending {
			if p.timer.Stop() {
				d.inflight.Done()
			}
			delete(d.pending, path)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(grace):
		return domain.ErrCancellationTimeout
	}
}
