package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apridachin/girya-storekeeper/internal/api"
	wiring "github.com/apridachin/girya-storekeeper/internal/app"
	"github.com/apridachin/girya-storekeeper/internal/config"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Service interfaces consumed by the handlers
	searchService api.CompetitorSearchService
	demandService api.DemandService
	// partnerService is nil when the partner lookup is not configured
	partnerService api.PartnerSearchService

	// cleanupFn releases the runner and the browser
	cleanupFn func()
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	components, err := wiring.New(ctx, cfg, logger, wiring.Overrides{})
	if err != nil {
		return nil, fmt.Errorf("failed to wire components: %w", err)
	}

	logger.Info("Application initialized successfully")
	return fromComponents(cfg, logger, components), nil
}

// fromComponents builds the application around wired components.
func fromComponents(cfg *config.Config, logger *slog.Logger, components *wiring.Components) *application {
	app := &application{
		config:        cfg,
		logger:        logger,
		searchService: components.Searches,
		demandService: components.Demands,
		cleanupFn:     components.Close,
	}
	if components.Partners != nil {
		app.partnerService = components.Partners
	}
	return app
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cleanupFn != nil {
		app.cleanupFn()
	}
	app.logger.Info("Application resources released")
}
