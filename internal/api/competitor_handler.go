package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/api/shared"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/go-chi/chi/v5"
)

// CompetitorSearchService is the service surface used by CompetitorHandler.
type CompetitorSearchService interface {
	SubmitSearch(ctx context.Context, owner, credential, productGroupID string) (string, error)
	GetStatus(ctx context.Context, id, owner string) task.Record
	ProductGroups(ctx context.Context, credential string) ([]domain.ProductFolder, error)
}

// CompetitorHandler handles competitor search requests.
type CompetitorHandler struct {
	searches CompetitorSearchService
	logger   *slog.Logger
}

// NewCompetitorHandler creates a new CompetitorHandler
func NewCompetitorHandler(searches CompetitorSearchService, logger *slog.Logger) *CompetitorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompetitorHandler{
		searches: searches,
		logger:   logger.With("component", "competitor_handler"),
	}
}

// SubmitSearch handles POST /competitors/searches. The search runs in the
// background; the response only carries its task id.
func (h *CompetitorHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitSearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	taskID, err := h.searches.SubmitSearch(r.Context(), owner, owner, req.ProductGroupID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "search accepted",
		"task_id", taskID,
		"trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitSearchResponse{
		Status: "accepted",
		TaskID: taskID,
	})
}

// GetTask handles GET /competitors/tasks/{taskID}. Unknown ids, including
// ids owned by other callers, report the not_found status with 200.
func (h *CompetitorHandler) GetTask(w http.ResponseWriter, r *http.Request) {
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

// ListGroups handles GET /competitors/groups.
func (h *CompetitorHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	groups, err := h.searches.ProductGroups(r.Context(), owner)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = []domain.ProductFolder{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductGroupsResponse{Groups: groups})
}
