package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/api/shared"
	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/domain"
)

// DemandService is the service surface used by DemandHandler.
type DemandService interface {
	ImportDemand(ctx context.Context, credential string, rows []domain.ImportRow) (*demand.Result, error)
}

// DemandHandler handles demand import requests.
type DemandHandler struct {
	demands DemandService
	logger  *slog.Logger
}

// NewDemandHandler creates a new DemandHandler
func NewDemandHandler(demands DemandService, logger *slog.Logger) *DemandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemandHandler{
		demands: demands,
		logger:  logger.With("component", "demand_handler"),
	}
}

// CreateDemand handles POST /demands.
func (h *DemandHandler) CreateDemand(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateDemandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.demands.ImportDemand(r.Context(), owner, req.Rows)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "demand imported",
		"demand_id", result.Demand.ID,
		"trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}
