package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/task"
)

// ErrPartnerGroupMissing is returned when no partner product group is configured.
var ErrPartnerGroupMissing = errors.New("partner product group is not configured")

// PartnerSearchService runs partner catalog lookups over the configured
// product group. Records share the registry and runner of competitor
// searches and follow the same lifecycle.
type PartnerSearchService struct {
	searches *CompetitorSearchService
	groupID  string
}

// NewPartnerSearchService creates a PartnerSearchService. factory must
// build partner tasks, e.g. task.NewPartnerSearchTaskFactory.
func NewPartnerSearchService(
	registry *task.Registry,
	runner TaskRunner,
	factory CompetitorSearchTaskFactory,
	warehouses WarehouseSource,
	groupID string,
	logger *slog.Logger,
) (*PartnerSearchService, error) {
	if groupID == "" {
		return nil, NewServiceError("create_service", "partner group is required", ErrPartnerGroupMissing)
	}
	searches, err := NewCompetitorSearchService(registry, runner, factory, warehouses, logger)
	if err != nil {
		return nil, err
	}
	searches.logger = logger.With("component", "partner_search_service")
	return &PartnerSearchService{searches: searches, groupID: groupID}, nil
}

// SubmitSearch starts a partner lookup for owner and returns its task id.
// A running lookup of the same owner is coalesced.
func (s *PartnerSearchService) SubmitSearch(ctx context.Context, owner, credential string) (string, error) {
	return s.searches.SubmitSearch(ctx, owner, credential, s.groupID)
}

// GetStatus returns the owner's task record with the same read-once
// semantics as CompetitorSearchService.GetStatus.
func (s *PartnerSearchService) GetStatus(ctx context.Context, id, owner string) task.Record {
	return s.searches.GetStatus(ctx, id, owner)
}

// GroupID returns the product group the lookups cover.
func (s *PartnerSearchService) GroupID() string {
	return s.groupID
}
