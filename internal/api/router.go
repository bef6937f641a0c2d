package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ofelia/internal/api/handler"
	"github.com/mcoot/ofelia/internal/api/middleware"
	"github.com/mcoot/ofelia/internal/metrics"
	basemiddleware "github.com/mcoot/ofelia/internal/middleware"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/services/resolver"
	"github.com/mcoot/ofelia/internal/services/wizard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	AuthService *auth.Service
	Resolver    *resolver.Service
	Wizard      *wizard.Service
	Presenter   *presenter.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	resolveHandler := handler.NewResolveHandler(cfg.Resolver)
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.Presenter, cfg.Wizard)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, cfg.Metrics)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(basemiddleware.Metrics(cfg.Metrics))

	// Public routes
	api.HandleFunc("/resolve/{id}", resolveHandler.Resolve).Methods(http.MethodGet)
	api.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", sessionHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/registrations", profileHandler.Register).Methods(http.MethodPost)

	// Profile reads show the edit affordance to the owner
	profiles := api.PathPrefix("/profiles").Subrouter()
	profiles.Handle("/{id}", optionalAuthMiddleware(http.HandlerFunc(profileHandler.Get))).Methods(http.MethodGet)
	profiles.Handle("/{id}", authMiddleware(http.HandlerFunc(profileHandler.Update))).Methods(http.MethodPut)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
