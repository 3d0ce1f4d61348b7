// Package app orchestrates all components of autosort.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brianly1003/autosort/internal/config"
	"github.com/brianly1003/autosort/internal/history"
	"github.com/brianly1003/autosort/internal/hub"
	"github.com/brianly1003/autosort/internal/logging"
	"github.com/brianly1003/autosort/internal/manager"
	"github.com/brianly1003/autosort/internal/pathutil"
	httpserver "github.com/brianly1003/autosort/internal/server/http"
	"github.com/brianly1003/autosort/internal/sync"
)

// shutdownTimeout bounds how long the control server waits for requests.
const shutdownTimeout = 5 * time.Second

// App wires the config store, event hub, monitoring manager, history and
// control server together.
type App struct {
	store   *config.Store
	logs    *logging.Logging
	version string

	hub        *hub.Hub
	manager    *manager.Manager
	history    *history.Store
	httpServer *httpserver.Server

	mu      sync.Mutex
	running bool
}

// New creates an App around store. logs supplies the process loggers.
func New(store *config.Store, logs *logging.Logging, version string) *App {
	h := hub.New()
	notifier := hub.NewNotifier(h, store)
	return &App{
		store:   store,
		logs:    logs,
		version: version,
		hub:     h,
		manager: manager.New(store, notifier, logs.Component("monitor")),
	}
}

// Manager returns the monitoring manager.
func (a *App) Manager() *manager.Manager {
	return a.manager
}

// Hub returns the event hub.
func (a *App) Hub() *hub.Hub {
	return a.hub
}

// ServerAddr returns the control server address, or "" when disabled.
func (a *App) ServerAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.httpServer == nil {
		return ""
	}
	return a.httpServer.Addr()
}

// Start brings every component up, restores the persisted monitoring state
// and blocks until ctx is cancelled, then shuts down.
func (a *App) Start(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		a.shutdown()
		return err
	}
	<-ctx.Done()
	a.shutdown()
	return nil
}

func (a *App) start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("application is already running")
	}
	a.running = true

	if err := a.hub.Start(); err != nil {
		return fmt.Errorf("failed to start event hub: %w", err)
	}
	a.hub.Subscribe(hub.NewLogSubscriber(a.logs.Component("events")))

	cfg := a.store.Snapshot().Config()

	if cfg.History.Enabled {
		hist, err := history.Open(cfg.History.Path, cfg.History.MaxEntries)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.History.Path).Msg("history disabled: failed to open database")
		} else {
			a.history = hist
			a.hub.Subscribe(hist.Subscriber())
			log.Info().Str("path", hist.Path()).Msg("classification history enabled")
		}
	}

	if cfg.Server.Enabled {
		var reader httpserver.HistoryReader
		if a.history != nil {
			reader = a.history
		}
		a.httpServer = httpserver.NewServer(cfg.Server.Host, cfg.Server.Port,
			a.manager, a.store, reader, a.hub, a.logs.Slog)
		if err := a.httpServer.Start(); err != nil {
			a.httpServer = nil
			return fmt.Errorf("failed to start control server: %w", err)
		}
	}

	if err := a.restore(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("failed to restore monitoring state")
	}

	a.store.Watch(func(snap *config.Snapshot) {
		if ctx.Err() != nil {
			return
		}
		a.applyReload(ctx, snap)
	})

	log.Info().
		Str("version", a.version).
		Str("config", a.store.Path()).
		Str("source_folder", cfg.SourceFolder).
		Bool("monitoring", a.manager.IsMonitoring()).
		Msg("autosort started")
	return nil
}

// restore resumes the persisted intent; auto_start turns monitoring on
// regardless of it.
func (a *App) restore(ctx context.Context, cfg *config.Config) error {
	if cfg.AutoStart && !cfg.IsMonitoring {
		return a.manager.Start(ctx)
	}
	return a.manager.RestoreState(ctx)
}

// applyReload restarts monitoring when an edited config file changes the
// intent or the source folder. Rule edits need nothing: every file reads the
// current snapshot.
func (a *App) applyReload(ctx context.Context, snap *config.Snapshot) {
	st := a.manager.Status()
	if snap.IsMonitoring() == st.Monitoring &&
		(!st.Monitoring || pathutil.SameDir(snap.SourceFolder(), st.SourceFolder)) {
		return
	}
	if err := a.manager.Setup(ctx); err != nil {
		log.Error().Err(err).Msg("failed to apply reloaded config")
	}
}

func (a *App) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false

	log.Info().Msg("shutting down...")

	if err := a.manager.Close(); err != nil {
		log.Error().Err(err).Msg("error stopping monitor")
	}

	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.httpServer.Stop(ctx); err != nil {
			log.Error().Err(err).Msg("error stopping control server")
		}
		cancel()
	}

	if err := a.hub.Stop(); err != nil {
		log.Error().Err(err).Msg("error stopping event hub")
	}

	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Error().Err(err).Msg("error closing history")
		}
	}
}
