package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/ofelia/internal/authz"
	"github.com/mcoot/ofelia/internal/dependencies/clock"
	"github.com/mcoot/ofelia/internal/dependencies/random"
	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/services/resolver"
	"github.com/mcoot/ofelia/internal/services/wizard"
	"github.com/mcoot/ofelia/internal/storage"
	boltstorage "github.com/mcoot/ofelia/internal/storage/bolt"
	"github.com/mcoot/ofelia/internal/storage/memory"
	redisstorage "github.com/mcoot/ofelia/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeBolt   = "bolt"
)

// kvBackend is a storage backend the App owns and must close
type kvBackend interface {
	storage.KV
	io.Closer
}

// App contains all wired application components
type App struct {
	// Storage
	KV    storage.KV
	Store storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Policy authz.Policy

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Services
	ResolverService  *resolver.Service
	AuthService      *auth.Service
	WizardService    *wizard.Service
	PresenterService *presenter.Service

	backend kvBackend
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// WizardConfig holds draft lifetime and photo limits (optional)
	WizardConfig wizard.Config
	// PresenterConfig holds profile page wording (optional)
	PresenterConfig presenter.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "bolt")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BoltPath is the database file (required if StorageType is "bolt")
	BoltPath string
	// AuthorizedIDsFile overrides the built-in authorization list (optional)
	AuthorizedIDsFile string
	// Registry receives the application metrics (optional)
	// If nil, a fresh registry is created
	Registry *prometheus.Registry
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var policy authz.Policy = authz.Default()
	if cfg.AuthorizedIDsFile != "" {
		list, err := authz.LoadFile(cfg.AuthorizedIDsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded authorization list",
			slog.String("path", cfg.AuthorizedIDsFile),
			slog.Int("ids", list.Len()),
		)
		policy = list
	}

	// Create storage based on type
	var backend kvBackend
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		backend = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		backend = redisStore
	case StorageTypeBolt:
		if cfg.BoltPath == "" {
			return nil, errors.New("BoltPath required when StorageType is bolt")
		}
		boltStore, err := boltstorage.New(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		backend = boltStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'bolt'", storageType)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	deps := dependencies{
		backend:  backend,
		policy:   policy,
		clock:    clock.New(),
		random:   random.New(),
		registry: registry,
		logger:   logger,
	}
	return newWithDependencies(deps, cfg), nil
}

type dependencies struct {
	backend  kvBackend
	policy   authz.Policy
	clock    clock.Clock
	random   random.Random
	registry *prometheus.Registry
	logger   *slog.Logger
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies, cfg Config) *App {
	store := storage.NewRecords(deps.backend)
	m := metrics.New(deps.registry)

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	// Create services
	resolverService := resolver.New(deps.policy, store, m, deps.logger)
	authService := auth.New(store, deps.clock, authCfg, m, deps.logger)
	wizardService := wizard.New(deps.policy, store, deps.clock, deps.random, cfg.WizardConfig, m, deps.logger)
	presenterService := presenter.New(store, cfg.PresenterConfig)

	return &App{
		KV:               deps.backend,
		Store:            store,
		Clock:            deps.clock,
		Random:           deps.random,
		Policy:           deps.policy,
		Registry:         deps.registry,
		Metrics:          m,
		ResolverService:  resolverService,
		AuthService:      authService,
		WizardService:    wizardService,
		PresenterService: presenterService,
		backend:          deps.backend,
	}
}
