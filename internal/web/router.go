package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ofelia/internal/metrics"
	basemiddleware "github.com/mcoot/ofelia/internal/middleware"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/services/resolver"
	"github.com/mcoot/ofelia/internal/services/wizard"
	"github.com/mcoot/ofelia/internal/web/handler"
	"github.com/mcoot/ofelia/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
	AuthService      *auth.Service
	Resolver         *resolver.Service
	Wizard           *wizard.Service
	Presenter        *presenter.Service
	Brand            string
	StaticDir        string // Path to static files directory
	CSRFKey          []byte // 32 bytes; empty disables CSRF protection
	CSRFSecure       bool
	CSRFTrustedHosts []string
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	brand := cfg.Brand
	if brand == "" {
		brand = "Ofelia"
	}

	// Create middleware
	loggingMiddleware := basemiddleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, cfg.Metrics, brand)
	metricsMiddleware := basemiddleware.Metrics(cfg.Metrics)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.OptionalAuth(cfg.AuthService)
	csrfMiddleware := middleware.CSRF(cfg.CSRFKey, cfg.CSRFSecure, cfg.CSRFTrustedHosts)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Resolver, brand, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, brand, cfg.Logger)
	registerHandler := handler.NewRegisterHandler(cfg.Wizard, brand, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.Presenter, brand, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Pages. No route requires a login; the session only unlocks editing.
	pages := r.NewRoute().Subrouter()
	pages.Use(csrfMiddleware)
	pages.Use(flashMiddleware)
	pages.Use(authMiddleware)

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/login", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/search", homeHandler.Search).Methods(http.MethodPost)

	pages.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	pages.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	pages.HandleFunc("/register", registerHandler.Start).Methods(http.MethodGet)
	pages.HandleFunc("/register", registerHandler.Submit).Methods(http.MethodPost)

	pages.HandleFunc("/profile", profileHandler.View).Methods(http.MethodGet)

	r.NotFoundHandler = flashMiddleware(authMiddleware(handler.NotFound(brand, cfg.Logger)))

	return r
}
