package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/gemini-proxy/internal/api"
	apiMiddleware "github.com/phrazzld/gemini-proxy/internal/api/middleware"
)

// corsOptions builds the cross-origin policy from the configured origins.
func (app *application) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   app.config.Server.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "x-api-key"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		// Preflight requests reach the OPTIONS route, which answers 204.
		OptionsPassthrough: true,
	}
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)
	r.Use(cors.Handler(app.corsOptions()))
	r.Use(middleware.RequestSize(app.config.Server.MaxBodyBytes))

	healthHandler := api.NewHealthHandler(
		app.generationService.Configured(),
		app.generationService.DefaultModel(),
	)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)

	r.Get(apiMiddleware.HealthPath, healthHandler.Health)
	if app.config.Server.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Options("/generate", generationHandler.Preflight)
		r.With(app.authGate.Authenticate).Post("/generate", generationHandler.Generate)
	})

	return r
}
