package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/domain/rules"
	"github.com/brianly1003/autosort/internal/history"
)

// maxHistoryLimit caps GET /api/history.
const maxHistoryLimit = 1000

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "autosort",
		"timestamp": time.Now().Unix(),
	})
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.controller.Status())
}

// handleToggle handles POST /api/monitoring/toggle
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	on, err := s.controller.Toggle(r.Context())
	if err != nil {
		s.respondControlError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"monitoring": on})
}

// handleStart handles POST /api/monitoring/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Start(r.Context()); err != nil {
		s.respondControlError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.controller.Status())
}

// handleStop handles POST /api/monitoring/stop
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Stop(); err != nil {
		s.respondControlError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) respondControlError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidSourceFolder):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCancellationTimeout):
		status = http.StatusGatewayTimeout
	}
	s.respondError(w, status, domain.ErrorCode(err), err.Error())
}

// handleRules handles GET /api/rules
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rs := s.store.Snapshot().RuleSet()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"default_target_folder": rs.DefaultTargetFolder(),
		"rules":                 rs.Rules(),
	})
}

// handleClassify handles GET /api/classify?name=<file name>
// It reports where the file would go without touching the filesystem.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.respondError(w, http.StatusBadRequest, "", "name query parameter is required")
		return
	}

	ext := rules.ExtensionOf(name)
	dest, err := rules.ClassifyPath(name, s.store.Snapshot().RuleSet())
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, domain.ErrorCode(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      name,
		"extension": ext,
		"folder":    dest.Folder,
		"category":  dest.Category,
		"matched":   dest.Matched,
		"path":      filepath.Join(dest.Folder, filepath.Base(name)),
	})
}

// handleHistory handles GET /api/history?limit=N
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusServiceUnavailable, "", "history is disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "", "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.history.Recent(limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, domain.ErrCodeInternalError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// handleHistoryLast handles GET /api/history/last
func (s *Server) handleHistoryLast(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusServiceUnavailable, "", "history is disabled")
		return
	}

	entry, err := s.history.LastClassified()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, domain.ErrCodeInternalError, err.Error())
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, "", "no file has been classified yet")
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}
