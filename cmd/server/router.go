package main

import (
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/api"
	apiMiddleware "github.com/apridachin/girya-storekeeper/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	competitorHandler := api.NewCompetitorHandler(app.searchService, app.logger)
	demandHandler := api.NewDemandHandler(app.demandService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiMiddleware.BearerAuth)

		// Competitor price comparison
		r.Post("/competitors/searches", competitorHandler.SubmitSearch)
		r.Get("/competitors/tasks/{taskID}", competitorHandler.GetTask)
		r.Get("/competitors/groups", competitorHandler.ListGroups)

		// Partner catalog lookup
		if app.partnerService != nil {
			partnerHandler := api.NewPartnerHandler(app.partnerService, app.logger)
			r.Post("/partners/searches", partnerHandler.SubmitSearch)
			r.Get("/partners/tasks/{taskID}", partnerHandler.GetTask)
		}

		// Purchase import
		r.Post("/demands", demandHandler.CreateDemand)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
