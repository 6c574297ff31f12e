package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Common errors
var (
	ErrNilStockSource = errors.New("stock source cannot be nil")
	ErrNilSearcher    = errors.New("competitor searcher cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
)

// StockSource reads warehouse stock for a product group.
type StockSource interface {
	SearchStock(ctx context.Context, storeID, productGroupID string) (*warehouse.StockReport, error)
}

// CompetitorSearcher finds the competitor product for a stock item name.
// Errors matching competitors.ErrSearchFailed are per-item and non-fatal.
type CompetitorSearcher interface {
	Search(ctx context.Context, query string) (*domain.CompetitorProduct, error)
}

// searchKind tells the sites a stock search can compare against apart.
type searchKind struct {
	taskType string
	idPrefix string
}

var (
	competitorKind = searchKind{taskType: TypeCompetitorSearch, idPrefix: "competitors_search_"}
	partnerKind    = searchKind{taskType: TypePartnerSearch, idPrefix: "partners_search_"}
)

// CompetitorSearchID is the registry id of a search over productGroupID.
// Resubmitting the same group yields the same id.
func CompetitorSearchID(productGroupID string) string {
	return competitorKind.idPrefix + productGroupID
}

// PartnerSearchID is the registry id of a partner lookup over productGroupID.
func PartnerSearchID(productGroupID string) string {
	return partnerKind.idPrefix + productGroupID
}

// CompetitorSearchTask compares the stock of one product group with the
// competitor or partner site, one item at a time.
type CompetitorSearchTask struct {
	kind           searchKind
	id             string
	owner          string
	productGroupID string
	storeID        string
	stock          StockSource
	searcher       CompetitorSearcher
	logger         *slog.Logger
}

// NewCompetitorSearchTask creates a competitor search task
func NewCompetitorSearchTask(
	owner, productGroupID, storeID string,
	stock StockSource,
	searcher CompetitorSearcher,
	logger *slog.Logger,
) (*CompetitorSearchTask, error) {
	return newSearchTask(competitorKind, owner, productGroupID, storeID, stock, searcher, logger)
}

// NewPartnerSearchTask creates a task that looks stock up on the partner site.
func NewPartnerSearchTask(
	owner, productGroupID, storeID string,
	stock StockSource,
	searcher CompetitorSearcher,
	logger *slog.Logger,
) (*CompetitorSearchTask, error) {
	return newSearchTask(partnerKind, owner, productGroupID, storeID, stock, searcher, logger)
}

func newSearchTask(
	kind searchKind,
	owner, productGroupID, storeID string,
	stock StockSource,
	searcher CompetitorSearcher,
	logger *slog.Logger,
) (*CompetitorSearchTask, error) {
	if productGroupID == "" {
		return nil, domain.ErrEmptyProductGroupID
	}
	if stock == nil {
		return nil, ErrNilStockSource
	}
	if searcher == nil {
		return nil, ErrNilSearcher
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	id := kind.idPrefix + productGroupID
	return &CompetitorSearchTask{
		kind:           kind,
		id:             id,
		owner:          owner,
		productGroupID: productGroupID,
		storeID:        storeID,
		stock:          stock,
		searcher:       searcher,
		logger: logger.With(
			"task_id", id,
			"run_id", uuid.NewString(),
			"product_group_id", productGroupID,
		),
	}, nil
}

// ID returns the task's registry id
func (t *CompetitorSearchTask) ID() string {
	return t.id
}

// Owner returns the principal the task runs for
func (t *CompetitorSearchTask) Owner() string {
	return t.owner
}

// Type returns the task type identifier
func (t *CompetitorSearchTask) Type() string {
	return t.kind.taskType
}

// Execute fetches the group's stock and looks every item up on the
// competitor or partner site. An item whose search fails softly is kept without a
// match; any other error aborts the run.
func (t *CompetitorSearchTask) Execute(ctx context.Context) (any, error) {
	report, err := t.stock.SearchStock(ctx, t.storeID, t.productGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch warehouse stock: %w", err)
	}

	t.logger.InfoContext(ctx, "start processing stock items", "total_items", len(report.Rows))

	rows := make([]domain.StockRow, 0, len(report.Rows))
	for _, item := range report.Rows {
		row, err := t.searchItem(ctx, item).Get()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	result := domain.NewStockSearchResult(rows)
	t.logger.InfoContext(ctx, "stock search completed", "processed_items", result.Size)
	return result, nil
}

// searchItem looks one stock item up. A soft search failure is an Ok
// unmatched row; only errors that must abort the run are Err.
func (t *CompetitorSearchTask) searchItem(ctx context.Context, item domain.StockItem) mo.Result[domain.StockRow] {
	t.logger.DebugContext(ctx, "searching for product", "product_name", item.Name)

	product, err := t.searcher.Search(ctx, item.Name)
	switch {
	case err == nil && product == nil:
		return mo.Ok(domain.NewUnmatchedStockRow(item))
	case err == nil:
		return mo.Ok(domain.NewMatchedStockRow(item, *product))
	case errors.Is(err, competitors.ErrSearchFailed):
		t.logger.DebugContext(ctx, "no match", "product_name", item.Name, "error", err)
		return mo.Ok(domain.NewUnmatchedStockRow(item))
	default:
		return mo.Err[domain.StockRow](fmt.Errorf("search for %q: %w", item.Name, err))
	}
}
