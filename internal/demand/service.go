package demand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
)

var (
	// ErrNoValidRows is returned when every submitted row fails validation.
	ErrNoValidRows = errors.New("no valid rows to import")

	// ErrNothingToImport is returned when no valid row matched a catalog product.
	ErrNothingToImport = errors.New("no rows matched warehouse products")
)

// Warehouse is the subset of the warehouse client used for imports.
type Warehouse interface {
	SearchProducts(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error)
	CreateDemand(
		ctx context.Context,
		organizationID, counterpartyID, storeID string,
		products []domain.Product,
	) (*domain.Demand, error)
}

// Target names the warehouse entities a demand is created against.
type Target struct {
	OrganizationID string
	CounterpartyID string
	StoreID        string
}

// Result partitions the submitted rows. Every input row lands in exactly one
// of the row slices.
type Result struct {
	Demand        *domain.Demand     `json:"demand"`
	ProcessedRows []domain.ImportRow `json:"processed_rows"`
	NotFoundRows  []domain.ImportRow `json:"not_found_rows"`
	UnmatchedRows []domain.ImportRow `json:"unmatched_rows"`
	InvalidRows   []domain.ImportRow `json:"invalid_rows"`
}

// Service imports purchase rows as draft demands.
type Service struct {
	target Target
	logger *slog.Logger
}

// NewService creates a demand import service.
func NewService(target Target, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if target.OrganizationID == "" || target.CounterpartyID == "" || target.StoreID == "" {
		return nil, errors.New("organization, counterparty and store IDs are required")
	}
	return &Service{target: target, logger: logger.With("component", "demand")}, nil
}

// CreateDemand validates rows, looks their products up in the warehouse,
// matches them by serial number and creates a draft demand from the matches.
func (s *Service) CreateDemand(ctx context.Context, wh Warehouse, rows []domain.ImportRow) (*Result, error) {
	s.logger.InfoContext(ctx, "start creating demand", "row_count", len(rows))

	valid, invalid := domain.SplitValidRows(rows)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: %d rows submitted, %d invalid", ErrNoValidRows, len(rows), len(invalid))
	}

	names := make([]string, 0, len(valid))
	for _, row := range valid {
		names = append(names, row.ProductName)
	}
	search, err := wh.SearchProducts(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to search warehouse products: %w", err)
	}

	notFoundNames := make(map[string]struct{}, len(search.NotFound))
	for _, name := range search.NotFound {
		notFoundNames[name] = struct{}{}
	}

	var notFound, searchable []domain.ImportRow
	for _, row := range valid {
		if _, missing := notFoundNames[row.ProductName]; missing {
			notFound = append(notFound, row)
			continue
		}
		searchable = append(searchable, row)
	}

	matched, processed, unmatched := match(searchable, search.Products)
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %d not found, %d unmatched", ErrNothingToImport, len(notFound), len(unmatched))
	}

	demand, err := wh.CreateDemand(ctx, s.target.OrganizationID, s.target.CounterpartyID, s.target.StoreID, matched)
	if err != nil {
		return nil, fmt.Errorf("failed to create demand: %w", err)
	}

	s.logger.InfoContext(ctx, "demand created",
		"demand_id", demand.ID,
		"processed", len(processed),
		"not_found", len(notFound),
		"unmatched", len(unmatched),
		"invalid", len(invalid))

	return &Result{
		Demand:        demand,
		ProcessedRows: nonNil(processed),
		NotFoundRows:  nonNil(notFound),
		UnmatchedRows: nonNil(unmatched),
		InvalidRows:   nonNil(invalid),
	}, nil
}

func nonNil(rows []domain.ImportRow) []domain.ImportRow {
	if rows == nil {
		return []domain.ImportRow{}
	}
	return rows
}
