package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/task"
)

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue without blocking
	Submit(ctx context.Context, task task.Task) error
}

// CompetitorSearchTaskFactory creates search tasks bound to a stock source.
type CompetitorSearchTaskFactory interface {
	CreateTask(owner, productGroupID string, stock task.StockSource) (task.Task, error)
}

// CompetitorSearchService starts competitor searches in the background and
// reports their state to the owner that started them.
type CompetitorSearchService struct {
	registry   *task.Registry
	runner     TaskRunner
	factory    CompetitorSearchTaskFactory
	warehouses WarehouseSource
	now        func() time.Time
	logger     *slog.Logger
}

// NewCompetitorSearchService creates a new CompetitorSearchService.
// It returns an error if any of the required dependencies are nil.
func NewCompetitorSearchService(
	registry *task.Registry,
	runner TaskRunner,
	factory CompetitorSearchTaskFactory,
	warehouses WarehouseSource,
	logger *slog.Logger,
) (*CompetitorSearchService, error) {
	switch {
	case registry == nil:
		return nil, NewServiceError("create_service", "registry cannot be nil", ErrNilDependency)
	case runner == nil:
		return nil, NewServiceError("create_service", "runner cannot be nil", ErrNilDependency)
	case factory == nil:
		return nil, NewServiceError("create_service", "task factory cannot be nil", ErrNilDependency)
	case warehouses == nil:
		return nil, NewServiceError("create_service", "warehouse source cannot be nil", ErrNilDependency)
	case logger == nil:
		return nil, NewServiceError("create_service", "logger cannot be nil", ErrNilDependency)
	}

	return &CompetitorSearchService{
		registry:   registry,
		runner:     runner,
		factory:    factory,
		warehouses: warehouses,
		now:        time.Now,
		logger:     logger.With("component", "competitor_search_service"),
	}, nil
}

// SubmitSearch starts a competitor search over productGroupID for owner and
// returns its task id without waiting for it.
//
// Parameters:
//   - owner: the principal the record is scoped to
//   - credential: the warehouse token the pipeline reads stock with
//   - productGroupID: the warehouse product folder to compare
//
// Returns:
//   - The task id. When owner already has a running search for the group,
//     the id of that search is returned and nothing new is started.
//   - ErrQueueFull when the runner is saturated; no record is kept.
func (s *CompetitorSearchService) SubmitSearch(
	ctx context.Context,
	owner, credential, productGroupID string,
) (string, error) {
	if productGroupID == "" {
		return "", domain.ErrEmptyProductGroupID
	}

	wh, err := s.warehouses.ClientFor(credential)
	if err != nil {
		return "", NewServiceError("submit_search", "failed to create warehouse client", err)
	}
	stock := rejectionAwareStock{StockSource: wh, warehouses: s.warehouses, credential: credential}

	searchTask, err := s.factory.CreateTask(owner, productGroupID, stock)
	if err != nil {
		return "", NewServiceError("submit_search", "failed to create search task", err)
	}
	id := searchTask.ID()

	if _, started := s.registry.Begin(id, owner, s.now()); !started {
		s.logger.InfoContext(ctx, "search already running",
			"task_id", id,
			"product_group_id", productGroupID)
		return id, nil
	}

	if err := s.runner.Submit(ctx, searchTask); err != nil {
		s.registry.Remove(id, owner)
		s.logger.ErrorContext(ctx, "failed to submit search task",
			"error", err,
			"task_id", id)
		return "", NewServiceError("submit_search", "failed to submit search task", err)
	}

	s.logger.InfoContext(ctx, "search submitted",
		"task_id", id,
		"product_group_id", productGroupID)
	return id, nil
}

// GetStatus returns the owner's task record. A terminal record is evicted by
// the read that returns it. Misses, including records of other owners,
// yield the synthetic not-found record.
func (s *CompetitorSearchService) GetStatus(ctx context.Context, id, owner string) task.Record {
	record, ok := s.registry.Observe(id, owner)
	if !ok {
		s.logger.DebugContext(ctx, "task not found", "task_id", id)
		return task.NotFound()
	}
	return *record
}

// ProductGroups lists the warehouse product folders visible to credential.
func (s *CompetitorSearchService) ProductGroups(ctx context.Context, credential string) ([]domain.ProductFolder, error) {
	wh, err := s.warehouses.ClientFor(credential)
	if err != nil {
		return nil, NewServiceError("product_groups", "failed to create warehouse client", err)
	}

	groups, err := wh.ProductGroups(ctx)
	if err != nil {
		forgetRejected(s.warehouses, credential, err)
		return nil, NewServiceError("product_groups", "failed to list product groups", err)
	}
	return groups, nil
}
