package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/ofelia/internal/dependencies/clock"
	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
)

// Session records which bracelet owner is logged in for one browsing session
type Session struct {
	Token      string
	BraceletID model.BraceletID
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Service checks credentials and holds the session table.
// Sessions are kept in memory only and never persisted.
type Service struct {
	storage storage.Store
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Store, clock clock.Clock, cfg Config, m *metrics.Metrics, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		metrics:         m,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Login checks a username and password and opens a session for the owning
// bracelet. The username is trimmed; the password is compared exactly.
// Unknown users and wrong passwords both yield model.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	var missing []*model.FieldError
	if username == "" {
		missing = append(missing, model.MissingField("username", "Username is required"))
	}
	if password == "" {
		missing = append(missing, model.MissingField("password", "Password is required"))
	}
	if len(missing) > 0 {
		s.metrics.ObserveLogin("missing")
		return nil, &model.ValidationError{Fields: missing}
	}

	cred, err := s.storage.GetCredential(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrCredentialNotFound) {
			s.metrics.ObserveLogin("invalid")
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if cred.Password != password {
		s.metrics.ObserveLogin("invalid")
		return nil, model.ErrInvalidCredentials
	}

	s.metrics.ObserveLogin("ok")
	s.logger.Info("owner logged in", slog.String("bracelet_id", string(cred.ID)))
	return s.createSession(cred.ID), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if clock.Expired(s.clock, session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Owner returns the bracelet the token is logged in as, or "" if none
func (s *Service) Owner(token string) model.BraceletID {
	if token == "" {
		return ""
	}
	session, err := s.ValidateSession(token)
	if err != nil {
		return ""
	}
	return session.BraceletID
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// createSession creates a new session for a bracelet owner
func (s *Service) createSession(id model.BraceletID) *Session {
	now := s.clock.Now()

	session := &Session{
		Token:      uuid.NewString(),
		BraceletID: id,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
