package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/ofelia/internal/authz"
	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

// Kind is where a resolved ID sends the visitor
type Kind string

const (
	KindRejected Kind = "rejected"
	KindLogin    Kind = "login"
	KindRegister Kind = "register"
	KindProfile  Kind = "profile"
)

// Outcome is the result of resolving a candidate ID
type Outcome struct {
	Kind Kind
	ID   model.BraceletID
}

// Location returns the navigation target for the outcome.
// Rejected outcomes stay on the login page.
func (o Outcome) Location() string {
	switch o.Kind {
	case KindRegister:
		return model.RegisterPath(o.ID)
	case KindProfile:
		return model.ProfilePath(o.ID)
	default:
		return model.LoginPath()
	}
}

// Service routes scanned or typed bracelet IDs
type Service struct {
	policy  authz.Policy
	storage storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new resolver Service
func New(policy authz.Policy, storage storage.Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		policy:  policy,
		storage: storage,
		metrics: m,
		logger:  logger,
	}
}

// Resolve decides where a candidate ID leads. QR scans and the manual search
// box both call this, so the same ID always yields the same outcome.
// It only reads the profile store.
func (s *Service) Resolve(ctx context.Context, candidate string) (Outcome, error) {
	id := model.BraceletID(strings.TrimSpace(candidate))

	if id == "" {
		s.metrics.ObserveResolution(string(KindLogin))
		return Outcome{Kind: KindLogin}, nil
	}

	if !s.policy.Allowed(id) {
		s.logger.Info("rejected bracelet id", slog.String("bracelet_id", string(id)))
		s.metrics.ObserveResolution(string(KindRejected))
		return Outcome{Kind: KindRejected, ID: id}, nil
	}

	exists, err := s.storage.ProfileExists(ctx, id)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Kind: KindRegister, ID: id}
	if exists {
		outcome.Kind = KindProfile
	}

	s.metrics.ObserveResolution(string(outcome.Kind))
	return outcome, nil
}
