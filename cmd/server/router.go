package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/vitals/internal/api"
	apiMiddleware "github.com/phrazzld/vitals/internal/api/middleware"
	"github.com/phrazzld/vitals/internal/api/shared"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	handlers := api.Handlers{
		Nutrients:   api.NewNutrientHandler(app.tracker, app.clock, app.logger),
		Evaluations: api.NewEvaluationHandler(app.goals, app.detector, app.clock, app.logger),
		Users:       api.NewUserHandler(app.tracker, app.clock, app.logger),
	}
	r.Route("/api", handlers.Mount)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Version: version})
	})

	return r
}
