package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/halcyard/authgw/internal/config"
	"github.com/halcyard/authgw/internal/metrics"
	"github.com/halcyard/authgw/internal/platform/gotrue"
	"github.com/halcyard/authgw/internal/service/auth"
)

// application holds the long-lived dependencies shared by every request:
// configuration, the base logger, the metrics registry, and the delegation
// service. It is constructed once at startup and carries no per-request
// state.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	metrics     *metrics.Metrics
	authService auth.AuthService
}

// newApplication creates and wires the application dependencies in order:
// the provider client first, then the delegation service built on it.
// Returns the initialized application or an error naming the dependency
// that failed.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	providerClient, err := gotrue.NewClient(logger, cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider client: %w", err)
	}
	logger.Info("Provider client initialized", "provider_url", cfg.Provider.URL)

	authService := auth.NewAuthService(providerClient, logger)
	logger.Info("Auth service initialized")

	return &application{
		config:      cfg,
		logger:      logger,
		metrics:     metrics.New(),
		authService: authService,
	}, nil
}

// Run builds the router and serves HTTP until a shutdown signal arrives
// or the context is canceled.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	return app.startHTTPServer(ctx, router)
}
