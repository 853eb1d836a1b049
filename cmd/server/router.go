package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/halcyard/authgw/internal/api"
	apiMiddleware "github.com/halcyard/authgw/internal/api/middleware"
	"github.com/halcyard/authgw/internal/api/shared"
)

// rootMessage answers probes of the service root.
const rootMessage = "Auth gateway is running"

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware. CORS runs ahead of tracing and metrics so
	// preflight requests are answered without being traced or counted.
	// Recovery runs after both so a panicking handler still produces a
	// counted, trace-tagged 500.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Origin"},
		ExposedHeaders: []string{"X-Trace-Id"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(app.metrics.Middleware)
	r.Use(apiMiddleware.RecoveryMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.authService, app.config.Provider.SiteURL)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"message": rootMessage,
		})
	})

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/resend-verification", authHandler.ResendVerification)
		r.Get("/me", authHandler.Me)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Get("/metrics", app.metrics.Handler().ServeHTTP)

	return r
}
