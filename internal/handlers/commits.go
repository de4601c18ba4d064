package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/services"
)

// CommitService is the controller behind the commit API.
// *services.VoiceCommitService satisfies it.
type CommitService interface {
	Submit(ctx context.Context, transcript string) (services.ActionResult, error)
	Record(ctx context.Context) (services.ActionResult, error)
	Regenerate(ctx context.Context, id string) (services.ActionResult, error)
	Delete(ctx context.Context, id string) (services.ActionResult, error)
	Search(ctx context.Context, query string) ([]models.CommitRecord, error)
	Export(ctx context.Context) ([]byte, models.Notification, error)
}

// CommitsHandler serves /api/commits
type CommitsHandler struct {
	service CommitService
	logger  *slog.Logger
}

// NewCommitsHandler creates a new commits handler
func NewCommitsHandler(service CommitService, logger *slog.Logger) *CommitsHandler {
	return &CommitsHandler{service: service, logger: logger}
}

// Mount registers the commit routes on r
func (h *CommitsHandler) Mount(r chi.Router) {
	r.Get("/", h.ListCommits)
	r.Post("/", h.CreateCommit)
	r.Post("/record", h.RecordCommit)
	r.Get("/export", h.ExportCommits)
	r.Post("/{id}/regenerate", h.RegenerateCommit)
	r.Delete("/{id}", h.DeleteCommit)
}

// =============================================================================
// Request / Response Types
// =============================================================================

// CreateCommitRequest is the body of POST /api/commits
type CreateCommitRequest struct {
	Transcript string `json:"transcript"`
}

// ListCommitsResponse is the body of GET /api/commits
type ListCommitsResponse struct {
	Commits []models.CommitRecord `json:"commits"`
}

// ToastResponse carries only a notification
type ToastResponse struct {
	Toast models.Notification `json:"toast"`
}

// =============================================================================
// Handlers
// =============================================================================

// ListCommits handles GET /api/commits?q=
func (h *CommitsHandler) ListCommits(w http.ResponseWriter, r *http.Request) {
	commits, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list commits", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to retrieve commits")
		return
	}
	if commits == nil {
		commits = []models.CommitRecord{}
	}
	writeJSON(w, http.StatusOK, ListCommitsResponse{Commits: commits})
}

// CreateCommit handles POST /api/commits
func (h *CommitsHandler) CreateCommit(w http.ResponseWriter, r *http.Request) {
	var req CreateCommitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), req.Transcript)
	h.writeResult(w, http.StatusCreated, result, err)
}

// RecordCommit handles POST /api/commits/record
func (h *CommitsHandler) RecordCommit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Record(r.Context())
	h.writeResult(w, http.StatusCreated, result, err)
}

// RegenerateCommit handles POST /api/commits/{id}/regenerate
func (h *CommitsHandler) RegenerateCommit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Regenerate(r.Context(), chi.URLParam(r, "id"))
	h.writeResult(w, http.StatusOK, result, err)
}

// DeleteCommit handles DELETE /api/commits/{id}
func (h *CommitsHandler) DeleteCommit(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ToastResponse{Toast: result.Toast})
		return
	}
	writeJSON(w, http.StatusOK, ToastResponse{Toast: result.Toast})
}

// ExportCommits handles GET /api/commits/export
func (h *CommitsHandler) ExportCommits(w http.ResponseWriter, r *http.Request) {
	data, toast, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ToastResponse{Toast: toast})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// writeResult maps a controller outcome to a status code
func (h *CommitsHandler) writeResult(w http.ResponseWriter, okStatus int, result services.ActionResult, err error) {
	switch {
	case err == nil:
		writeJSON(w, okStatus, result)
	case errors.Is(err, services.ErrEmptyTranscript):
		writeError(w, http.StatusBadRequest, "transcript is required")
	case errors.Is(err, services.ErrGenerationInFlight):
		writeJSON(w, http.StatusConflict, result)
	default:
		writeJSON(w, http.StatusInternalServerError, result)
	}
}
