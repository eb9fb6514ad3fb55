package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/gemini-proxy/internal/api/middleware"
	"github.com/phrazzld/gemini-proxy/internal/config"
	"github.com/phrazzld/gemini-proxy/internal/generation"
	"github.com/phrazzld/gemini-proxy/internal/platform/gemini"
	"github.com/phrazzld/gemini-proxy/internal/platform/metrics"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	metrics           *metrics.Metrics
	authGate          *middleware.AuthGate
	generationService *generation.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. The Gemini provider is only created when an API key is
// configured; without one the server still starts and reports the missing key
// on /health and on every generation request.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	var provider generation.Provider
	if cfg.LLM.APIKeyConfigured() {
		p, err := gemini.NewProvider(ctx, logger.With("component", "gemini_provider"), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini provider: %w", err)
		}
		provider = p
		logger.Info("Gemini provider initialized", "default_model", cfg.LLM.DefaultModel)
	} else {
		logger.Warn("GOOGLE_API_KEY is not set; generation requests will fail")
	}

	return buildApplication(cfg, logger, provider)
}

// buildApplication wires the application around an already constructed
// provider, which may be nil.
func buildApplication(cfg *config.Config, logger *slog.Logger, provider generation.Provider) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		metrics:  metrics.New(),
		authGate: middleware.NewAuthGate(cfg.Auth, logger),
	}

	var err error
	app.generationService, err = generation.NewService(
		provider,
		cfg.LLM.DefaultModel,
		logger.With("component", "generation_service"),
		generation.WithObserver(app.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation service: %w", err)
	}

	if !app.authGate.Enabled() {
		logger.Warn("INTERNAL_API_KEY is not set; /api/generate is unauthenticated")
	}

	return app, nil
}
