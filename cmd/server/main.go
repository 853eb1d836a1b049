// Package main implements the entry point for the authgw server,
// a stateless HTTP façade that delegates signup, login, logout, and
// email verification to a GoTrue-compatible identity provider.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/halcyard/authgw/internal/config"
	"github.com/halcyard/authgw/internal/platform/logger"
	"github.com/joho/godotenv"
)

// main initializes configuration and logging, wires the application
// dependencies, and runs the HTTP server until shutdown.
func main() {
	// A .env file is a local development convenience; deployed
	// environments configure the process directly.
	_ = godotenv.Load()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server terminated: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and builds the
// application dependency graph. Returns the ready-to-run application
// or any initialization error.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	// Log configuration details using structured logging
	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"provider_url", cfg.Provider.URL,
		"site_url", cfg.Provider.SiteURL)

	// The provider key is a credential; record only its presence.
	if cfg.Provider.Key != "" {
		slog.Debug("Provider configuration", "key_present", true)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return app, nil
}
