// Package app wires the configured components shared by the server and the
// CLI: the extraction client, the competitor and partner searchers, the task
// registry and runner, and the services on top of them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/extraction"
	"github.com/apridachin/girya-storekeeper/internal/partners"
	"github.com/apridachin/girya-storekeeper/internal/platform/browser"
	"github.com/apridachin/girya-storekeeper/internal/platform/llm"
	"github.com/apridachin/girya-storekeeper/internal/service"
	"github.com/apridachin/girya-storekeeper/internal/task"
)

// Components holds the long-lived dependencies of one process.
type Components struct {
	Registry   *task.Registry
	Runner     *task.Runner
	Searcher   *competitors.Searcher
	Warehouses *service.WarehousePool
	Searches   *service.CompetitorSearchService
	// Partners is nil unless the partner lookup is configured.
	Partners *service.PartnerSearchService
	Demands  *service.DemandService
	logger   *slog.Logger
}

// Overrides replaces external dependencies, mainly in tests.
type Overrides struct {
	Completer extraction.Completer
	Driver    competitors.Driver
}

// New builds all components from cfg and starts the task runner.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, overrides Overrides) (*Components, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	completer := overrides.Completer
	if completer == nil {
		var err error
		completer, err = llm.NewCompleter(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM completer: %w", err)
		}
	}
	logger.Info("LLM completer initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	extractor, err := extraction.NewClient(completer, logger, cfg.LLM.Timeout())
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction client: %w", err)
	}

	driver := overrides.Driver
	if driver == nil {
		driver = browser.NewDriver(logger, browser.Options{
			Headless:       cfg.Competitors.Headless,
			ExecutablePath: cfg.Competitors.ExecutablePath,
		})
	}

	searcher, err := competitors.NewSearcher(driver, extractor, logger, competitors.Options{
		BaseURL:          cfg.Competitors.BaseURL,
		ResultsSelector:  cfg.Competitors.ResultsSelector,
		ProductsSelector: cfg.Competitors.ProductsSelector,
		SelectorTimeout:  cfg.Competitors.SelectorTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create competitor searcher: %w", err)
	}

	warehouses, err := service.NewWarehousePool(cfg.Warehouse, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse pool: %w", err)
	}

	factory, err := task.NewCompetitorSearchTaskFactory(searcher, cfg.Warehouse.MainStoreID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create search task factory: %w", err)
	}

	registry := task.NewRegistry()
	runner := task.NewRunner(registry, task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
		TaskTimeout: time.Duration(cfg.Task.TimeoutMinutes) * time.Minute,
	}, logger)

	searches, err := service.NewCompetitorSearchService(registry, runner, factory, warehouses, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create competitor search service: %w", err)
	}

	var partnerSearches *service.PartnerSearchService
	if cfg.PartnerLookupEnabled() {
		partnerSearches, err = newPartnerSearches(cfg, registry, runner, warehouses, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("partner lookup enabled", "product_group_id", cfg.Warehouse.PartnerGroupID)
	}

	importer, err := demand.NewService(demand.Target{
		OrganizationID: cfg.Warehouse.OrganizationID,
		CounterpartyID: cfg.Warehouse.CounterpartyID,
		StoreID:        cfg.Warehouse.StoreID,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create demand importer: %w", err)
	}

	demands, err := service.NewDemandService(importer, warehouses, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create demand service: %w", err)
	}

	runner.Start()
	logger.Info("task runner started",
		"worker_count", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)

	return &Components{
		Registry:   registry,
		Runner:     runner,
		Searcher:   searcher,
		Warehouses: warehouses,
		Searches:   searches,
		Partners:   partnerSearches,
		Demands:    demands,
		logger:     logger,
	}, nil
}

func newPartnerSearches(
	cfg *config.Config,
	registry *task.Registry,
	runner *task.Runner,
	warehouses *service.WarehousePool,
	logger *slog.Logger,
) (*service.PartnerSearchService, error) {
	timeout := cfg.Partners.Timeout()
	if timeout <= 0 {
		timeout = partners.DefaultTimeout
	}
	searcher, err := partners.NewSearcher(cfg.Partners.BaseURL, logger,
		partners.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to create partner searcher: %w", err)
	}

	factory, err := task.NewPartnerSearchTaskFactory(searcher, cfg.Warehouse.MainStoreID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create partner task factory: %w", err)
	}

	searches, err := service.NewPartnerSearchService(registry, runner, factory, warehouses,
		cfg.Warehouse.PartnerGroupID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create partner search service: %w", err)
	}
	return searches, nil
}

// Close stops the runner, cancelling running searches, and shuts the
// browser down.
func (c *Components) Close() {
	c.Runner.Stop()
	if err := c.Searcher.Close(); err != nil {
		c.logger.Error("failed to close browser", "error", err)
	}
}
