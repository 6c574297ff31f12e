package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/domain"
)

// DemandImporter creates a draft demand from purchase rows.
type DemandImporter interface {
	CreateDemand(ctx context.Context, wh demand.Warehouse, rows []domain.ImportRow) (*demand.Result, error)
}

// DemandService imports purchase rows with the caller's warehouse credential.
type DemandService struct {
	importer   DemandImporter
	warehouses WarehouseSource
	logger     *slog.Logger
}

// NewDemandService creates a new DemandService.
func NewDemandService(importer DemandImporter, warehouses WarehouseSource, logger *slog.Logger) (*DemandService, error) {
	if importer == nil {
		return nil, NewServiceError("create_service", "importer cannot be nil", ErrNilDependency)
	}
	if warehouses == nil {
		return nil, NewServiceError("create_service", "warehouse source cannot be nil", ErrNilDependency)
	}
	if logger == nil {
		return nil, NewServiceError("create_service", "logger cannot be nil", ErrNilDependency)
	}
	return &DemandService{
		importer:   importer,
		warehouses: warehouses,
		logger:     logger.With("component", "demand_service"),
	}, nil
}

// ImportDemand matches rows against the warehouse catalog and creates a
// draft demand. demand.ErrNoValidRows and demand.ErrNothingToImport are
// returned as they are.
func (s *DemandService) ImportDemand(ctx context.Context, credential string, rows []domain.ImportRow) (*demand.Result, error) {
	wh, err := s.warehouses.ClientFor(credential)
	if err != nil {
		return nil, NewServiceError("import_demand", "failed to create warehouse client", err)
	}

	result, err := s.importer.CreateDemand(ctx, wh, rows)
	if err != nil {
		forgetRejected(s.warehouses, credential, err)
		if errors.Is(err, demand.ErrNoValidRows) || errors.Is(err, demand.ErrNothingToImport) {
			s.logger.InfoContext(ctx, "nothing to import", "error", err)
			return nil, err
		}
		return nil, NewServiceError("import_demand", "failed to create demand", err)
	}
	return result, nil
}
