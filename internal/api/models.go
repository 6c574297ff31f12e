package api

import (
	"github.com/apridachin/girya-storekeeper/internal/domain"
)

// SubmitSearchRequest defines the payload for starting a competitor search.
type SubmitSearchRequest struct {
	ProductGroupID string `json:"product_group_id" validate:"required"`
}

// SubmitSearchResponse acknowledges a search running in the background.
type SubmitSearchResponse struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// CreateDemandRequest defines the payload for the demand import endpoint.
// Row validation happens per row in the demand service so that invalid rows
// are reported back instead of rejecting the request.
type CreateDemandRequest struct {
	Rows []domain.ImportRow `json:"rows" validate:"required,min=1"`
}

// ProductGroupsResponse lists warehouse product folders.
type ProductGroupsResponse struct {
	Groups []domain.ProductFolder `json:"groups"`
}
