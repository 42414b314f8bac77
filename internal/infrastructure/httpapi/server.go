// Package httpapi exposes the import status and manual trigger over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"NewsImporter/internal/domain"
)

// ImportController is the slice of the scheduler the API needs.
type ImportController interface {
	TriggerManual(ctx context.Context) *domain.ImportResult
	Status() (*domain.ImportResult, bool)
}

// Server serves the operational endpoints next to the scheduler.
type Server struct {
	imports ImportController
	logger  *slog.Logger
}

// NewServer builds the API surface around the import controller.
func NewServer(imports ImportController, logger *slog.Logger) *Server {
	return &Server{imports: imports, logger: logger}
}

// Router assembles the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/import/status", s.handleStatus)
	r.Post("/import/trigger", s.handleTrigger)

	return r
}

type statusResponse struct {
	LastResult *domain.ImportResult `json:"lastResult"`
	IsRunning  bool                 `json:"isRunning"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	last, running := s.imports.Status()
	s.writeJSON(w, http.StatusOK, statusResponse{LastResult: last, IsRunning: running})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := s.imports.TriggerManual(r.Context())
	if result == nil {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "import already in progress"})
		return
	}

	if s.logger != nil {
		s.logger.Info("manual import finished",
			"new", result.NewArticles,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.logger != nil {
		s.logger.Error("write response", "error", err)
	}
}
