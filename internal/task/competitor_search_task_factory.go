package task

import (
	"errors"
	"log/slog"
)

// CompetitorSearchTaskFactory creates CompetitorSearchTask instances that
// share one competitor searcher and read stock from the main store.
type CompetitorSearchTaskFactory struct {
	kind        searchKind
	searcher    CompetitorSearcher
	mainStoreID string
	logger      *slog.Logger
}

// NewCompetitorSearchTaskFactory creates a new factory
func NewCompetitorSearchTaskFactory(
	searcher CompetitorSearcher,
	mainStoreID string,
	logger *slog.Logger,
) (*CompetitorSearchTaskFactory, error) {
	return newSearchTaskFactory(competitorKind, searcher, mainStoreID, logger)
}

// NewPartnerSearchTaskFactory creates a factory for partner lookups.
func NewPartnerSearchTaskFactory(
	searcher CompetitorSearcher,
	mainStoreID string,
	logger *slog.Logger,
) (*CompetitorSearchTaskFactory, error) {
	return newSearchTaskFactory(partnerKind, searcher, mainStoreID, logger)
}

func newSearchTaskFactory(
	kind searchKind,
	searcher CompetitorSearcher,
	mainStoreID string,
	logger *slog.Logger,
) (*CompetitorSearchTaskFactory, error) {
	if searcher == nil {
		return nil, ErrNilSearcher
	}
	if mainStoreID == "" {
		return nil, errors.New("main store ID cannot be empty")
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &CompetitorSearchTaskFactory{
		kind:        kind,
		searcher:    searcher,
		mainStoreID: mainStoreID,
		logger:      logger,
	}, nil
}

// CreateTask creates a search over productGroupID for owner, reading stock through stock.
func (f *CompetitorSearchTaskFactory) CreateTask(owner, productGroupID string, stock StockSource) (Task, error) {
	t, err := newSearchTask(f.kind, owner, productGroupID, f.mainStoreID, stock, f.searcher, f.logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}
