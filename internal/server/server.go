// Package server exposes the engine over HTTP: bulk gazette ingestion,
// spreadsheet-vs-gazette verification, and canonical record CRUD.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/ingest"
	"github.com/joseph-ayodele/gazette-tracker/internal/repository"
	"github.com/joseph-ayodele/gazette-tracker/internal/verify"
)

// maxUploadBytes caps one multipart request (PDF batches can be large scans).
const maxUploadBytes = 64 << 20

type Server struct {
	ingest  *ingest.Service
	verify  *verify.Service
	records repository.RecordRepository
	logger  *slog.Logger
}

func New(ing *ingest.Service, ver *verify.Service, records repository.RecordRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{ingest: ing, verify: ver, records: records, logger: logger}
}

// Router wires all routes with the standard middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/records", func(r chi.Router) {
		r.Post("/bulk-upload", s.handleBulkUpload)
		r.Post("/verify", s.handleVerify)
		r.Post("/", s.handleCreateRecord)
		r.Get("/", s.handleListRecords)
		r.Get("/{seqNo}", s.handleGetRecord)
		r.Patch("/{seqNo}", s.handleUpdateRecord)
		r.Delete("/{seqNo}", s.handleDeleteRecord)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}
