// Package http implements the local control API for autosort.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/domain/ports"
	"github.com/brianly1003/autosort/internal/history"
	"github.com/brianly1003/autosort/internal/manager"
	"github.com/brianly1003/autosort/internal/server/websocket"
)

// heartbeatInterval is how often a heartbeat event is published.
const heartbeatInterval = 30 * time.Second

// Controller is the monitoring control surface the API exposes.
type Controller interface {
	Toggle(ctx context.Context) (bool, error)
	Start(ctx context.Context) error
	Stop() error
	Status() manager.Status
}

// HistoryReader reads recorded outcomes.
type HistoryReader interface {
	Recent(limit int) ([]history.Entry, error)
	LastClassified() (*history.Entry, error)
}

// Server is the control HTTP server.
type Server struct {
	addr       string
	controller Controller
	store      ports.ConfigStore
	history    HistoryReader
	hub        ports.EventHub
	logger     *slog.Logger

	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
	started    time.Time
	heartbeat  atomic.Int64
	done       chan struct{}
}

// NewServer creates a control server. history may be nil when history is
// disabled.
func NewServer(host string, port int, controller Controller, store ports.ConfigStore,
	hist HistoryReader, hub ports.EventHub, logger *slog.Logger) *Server {
	s := &Server{
		addr:       net.JoinHostPort(host, fmt.Sprint(port)),
		controller: controller,
		store:      store,
		history:    hist,
		hub:        hub,
		logger:     logger,
		done:       make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/monitoring/toggle", s.handleToggle).Methods("POST")
	api.HandleFunc("/monitoring/start", s.handleStart).Methods("POST")
	api.HandleFunc("/monitoring/stop", s.handleStop).Methods("POST")
	api.HandleFunc("/rules", s.handleRules).Methods("GET")
	api.HandleFunc("/classify", s.handleClassify).Methods("GET")
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/history/last", s.handleHistoryLast).Methods("GET")

	router.Handle("/ws", websocket.NewHandler(s.hub))

	router.Use(s.loggingMiddleware)
	return router
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.started = time.Now()

	// No read/write timeouts: they would cut long-lived websocket streams.
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("control server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server error", "error", err)
		}
	}()
	go s.heartbeatLoop()

	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to ctx for open requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	close(s.done)
	s.logger.Info("stopping control server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			seq := s.heartbeat.Add(1)
			s.hub.Publish(events.NewHeartbeatEvent(seq, s.controller.Status().Monitoring, time.Since(s.started)))
		}
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start))
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, ErrorResponse{Code: code, Error: message})
}
