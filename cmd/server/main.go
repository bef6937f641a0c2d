package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/ofelia/internal/api"
	"github.com/mcoot/ofelia/internal/factory"
	"github.com/mcoot/ofelia/internal/logging"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/presenter"
	redisstorage "github.com/mcoot/ofelia/internal/storage/redis"
	"github.com/mcoot/ofelia/internal/web"
)

// How often expired sessions and abandoned wizard drafts are dropped
const cleanupInterval = 10 * time.Minute

func main() {
	logger := logging.New(os.Stdout, os.Getenv("LOG_FORMAT"), logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(logger *slog.Logger) error {
	cfg, err := appConfig(logger)
	if err != nil {
		return err
	}

	csrfKey, err := parseCSRFKey(os.Getenv("CSRF_KEY"))
	if err != nil {
		return fmt.Errorf("invalid CSRF_KEY, expected 64 hex characters: %w", err)
	}
	if csrfKey == nil {
		logger.Warn("CSRF_KEY not set, form CSRF protection disabled")
	}

	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q", port)
		}
		serverConfig.Port = p
	}

	app, err := factory.New(cfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Metrics:     app.Metrics,
		AuthService: app.AuthService,
		Resolver:    app.ResolverService,
		Wizard:      app.WizardService,
		Presenter:   app.PresenterService,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		Metrics:          app.Metrics,
		AuthService:      app.AuthService,
		Resolver:         app.ResolverService,
		Wizard:           app.WizardService,
		Presenter:        app.PresenterService,
		Brand:            cfg.PresenterConfig.Brand,
		StaticDir:        findStaticDir(),
		CSRFKey:          csrfKey,
		CSRFSecure:       os.Getenv("CSRF_SECURE") == "true",
		CSRFTrustedHosts: splitList(os.Getenv("CSRF_TRUSTED_ORIGINS")),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, app)

	logger.Info("server starting",
		slog.String("addr", serverConfig.Addr()),
		slog.String("storage", cfg.StorageType),
	)
	return server.Run(ctx)
}

func runCleanup(ctx context.Context, app *factory.App) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.AuthService.CleanExpiredSessions()
			app.WizardService.CleanExpiredDrafts()
		}
	}
}

// appConfig reads the application settings from the environment.
// Records go to a bolt file unless STORAGE_TYPE says otherwise.
func appConfig(logger *slog.Logger) (factory.Config, error) {
	cfg := factory.Config{
		Logger:            logger,
		StorageType:       getEnvOrDefault("STORAGE_TYPE", factory.StorageTypeBolt),
		BoltPath:          getEnvOrDefault("BOLT_PATH", "data/ofelia.db"),
		AuthorizedIDsFile: os.Getenv("AUTHORIZED_IDS_FILE"),
		PresenterConfig:   presenter.Config{Brand: os.Getenv("BRAND_NAME")},
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid SESSION_TTL %q", ttl)
		}
		cfg.AuthConfig = auth.Config{SessionDuration: d}
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.BoltPath), 0o755); err != nil {
			return cfg, fmt.Errorf("create data directory: %w", err)
		}
	}
	return cfg, nil
}

// parseCSRFKey decodes a hex key; empty input disables CSRF protection
func parseCSRFKey(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, hex.ErrLength
	}
	return key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// findStaticDir returns the static files directory, or "" when there is none
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
