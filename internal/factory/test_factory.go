package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/ofelia/internal/authz"
	"github.com/mcoot/ofelia/internal/dependencies/mocks"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	deps := dependencies{
		backend:  store,
		policy:   authz.Default(),
		clock:    mockClock,
		random:   mockRandom,
		registry: prometheus.NewRegistry(),
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	app := newWithDependencies(deps, Config{})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}

// SeedOwner stores a profile and a credential for id, as if registered earlier
func (t *TestApp) SeedOwner(id model.BraceletID, username, password string, profile model.Profile) error {
	ctx := context.Background()
	if err := t.Store.SaveProfile(ctx, id, &profile); err != nil {
		return err
	}
	return t.Store.CreateCredential(ctx, username, model.Credential{Password: password, ID: id})
}
