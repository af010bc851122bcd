// Package api implements the HTTP surface: one universal input
// endpoint plus entry listing and health.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daybook-ai/daybook/internal/auth"
	"github.com/daybook-ai/daybook/internal/config"
	"github.com/daybook-ai/daybook/internal/pipeline"
	"github.com/daybook-ai/daybook/internal/store"
	"github.com/daybook-ai/daybook/internal/transcribe"
)

// InputProcessor runs one classified batch. The concrete implementation
// is the pipeline; tests substitute stubs.
type InputProcessor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Server is the HTTP API server.
type Server struct {
	cfg         config.ListenConfig
	processor   InputProcessor
	auth        *auth.Authenticator
	transcriber transcribe.Transcriber // nil disables audio/video input
	store       *store.Store
	logger      *slog.Logger
	server      *http.Server
}

// NewServer creates the API server. A nil transcriber rejects audio and
// video uploads with a clear error instead of failing mid-request.
func NewServer(cfg config.ListenConfig, processor InputProcessor, authenticator *auth.Authenticator, transcriber transcribe.Transcriber, st *store.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:         cfg,
		processor:   processor,
		auth:        authenticator,
		transcriber: transcriber,
		store:       st,
		logger:      logger,
	}
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  2 * time.Minute, // Large audio uploads
		WriteTimeout: 2 * time.Minute,
	}

	s.logger.Info("starting API server", "address", s.cfg.Address, "port", s.cfg.Port)
	return s.server.ListenAndServe()
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/v1/input", s.requireUser(s.handleInput))
	mux.HandleFunc("GET /api/v1/entries", s.requireUser(s.handleEntries))

	return s.withLogging(mux)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, user *store.User)

// requireUser authenticates the X-API-Key header.
func (s *Server) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Authenticate(r.Context(), r.Header.Get("X-API-Key"))
		if errors.Is(err, auth.ErrInvalidKey) {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key", s.logger)
			return
		}
		if err != nil {
			s.logger.Error("authentication lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "authentication failed", s.logger)
			return
		}
		next(w, r, user)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"}, s.logger)
}

type entryResponse struct {
	ID          int64  `json:"id"`
	InputKind   string `json:"input_kind"`
	Title       string `json:"title"`
	Module      string `json:"module"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request, user *store.User) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be 1-500", s.logger)
			return
		}
		limit = n
	}

	entries, err := s.store.RecentEntries(user.ID, limit)
	if err != nil {
		s.logger.Error("entries query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "query failed", s.logger)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:          e.ID,
			InputKind:   e.InputKind,
			Title:       e.Title,
			Module:      e.Module,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string, logger *slog.Logger) {
	writeJSON(w, status, map[string]string{"detail": detail}, logger)
}
