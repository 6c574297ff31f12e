package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/api/shared"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/go-chi/chi/v5"
)

// PartnerSearchService is the service surface used by PartnerHandler.
type PartnerSearchService interface {
	SubmitSearch(ctx context.Context, owner, credential string) (string, error)
	GetStatus(ctx context.Context, id, owner string) task.Record
}

// PartnerHandler handles partner catalog lookups.
type PartnerHandler struct {
	searches PartnerSearchService
	logger   *slog.Logger
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(searches PartnerSearchService, logger *slog.Logger) *PartnerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartnerHandler{
		searches: searches,
		logger:   logger.With("component", "partner_handler"),
	}
}

// SubmitSearch handles POST /partners/searches. The product group is fixed
// by configuration, so the request has no body.
func (h *PartnerHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := h.searches.SubmitSearch(r.Context(), owner, owner)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "partner lookup accepted",
		"task_id", taskID,
		"trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitSearchResponse{
		Status: "accepted",
		TaskID: taskID,
	})
}

// GetTask handles GET /partners/tasks/{taskID}.
func (h *PartnerHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.searches.GetStatus(r.Context(), taskID, owner))
}
