package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/ofelia/internal/authz"
	"github.com/mcoot/ofelia/internal/dependencies/clock"
	"github.com/mcoot/ofelia/internal/dependencies/random"
	"github.com/mcoot/ofelia/internal/metrics"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

const (
	// DraftTokenLength is the length of generated draft tokens
	DraftTokenLength = 24
	// DraftTokenAlphabet is the characters used in draft tokens
	DraftTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	maxTokenAttempts = 8
)

// ErrDraftNotFound is returned for an unknown or expired draft token
var ErrDraftNotFound = errors.New("registration draft not found or expired")

// Config holds configuration for the wizard service
type Config struct {
	DraftTTL      time.Duration
	MaxPhotoBytes int64
}

// DefaultConfig returns default wizard configuration
func DefaultConfig() Config {
	return Config{
		DraftTTL:      time.Hour,
		MaxPhotoBytes: DefaultMaxPhotoBytes,
	}
}

// draft is one in-progress wizard, held in memory until submit or exit
type draft struct {
	mu        sync.Mutex
	state     State
	owner     model.BraceletID
	expiresAt time.Time
}

// Service runs registration and edit wizards and commits their results
type Service struct {
	policy  authz.Policy
	storage storage.Store
	machine *Machine
	clock   clock.Clock
	random  random.Random
	cfg     Config
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu     sync.Mutex
	drafts map[string]*draft
}

// New creates a new wizard Service
func New(
	policy authz.Policy,
	storage storage.Store,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.DraftTTL == 0 {
		cfg.DraftTTL = defaults.DraftTTL
	}
	if cfg.MaxPhotoBytes == 0 {
		cfg.MaxPhotoBytes = defaults.MaxPhotoBytes
	}
	return &Service{
		policy:  policy,
		storage: storage,
		machine: NewMachine(storage),
		clock:   clock,
		random:  random,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
		drafts:  make(map[string]*draft),
	}
}

// Begin opens a wizard for id and returns its draft token and first state.
// Create mode refuses ids that already have a profile. Edit mode needs the
// session owner to be id and a stored profile to pre-fill from; without one
// it fails with model.ErrOrphanProfile so the caller can start a create.
func (s *Service) Begin(ctx context.Context, id model.BraceletID, edit bool, owner model.BraceletID) (string, State, error) {
	if id == "" {
		return "", State{}, model.ErrMissingContextID
	}
	if !s.policy.Allowed(id) {
		return "", State{}, model.ErrRejectedID
	}

	var st State
	if edit {
		if owner != id {
			return "", State{}, model.ErrNotOwner
		}
		stored, err := s.storage.GetProfile(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrProfileNotFound) {
				return "", State{}, model.ErrOrphanProfile
			}
			return "", State{}, err
		}
		st = NewEdit(id, *stored)
	} else {
		exists, err := s.storage.ProfileExists(ctx, id)
		if err != nil {
			return "", State{}, err
		}
		if exists {
			return "", State{}, model.ErrProfileExists
		}
		st = NewCreate(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.newToken()
	if err != nil {
		return "", State{}, err
	}
	s.drafts[token] = &draft{
		state:     st,
		owner:     owner,
		expiresAt: s.clock.Now().Add(s.cfg.DraftTTL),
	}

	return token, st, nil
}

// Draft returns the current state of an open wizard
func (s *Service) Draft(token string) (State, error) {
	d, err := s.lookup(token)
	if err != nil {
		return State{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, nil
}

// Apply feeds events to an open wizard. When the wizard reaches Submitted the
// record is committed and the draft closed; Exited closes it without writing.
// On a gate failure the edits are kept and the step is unchanged.
func (s *Service) Apply(ctx context.Context, token string, owner model.BraceletID, events ...Event) (State, error) {
	d, err := s.lookup(token)
	if err != nil {
		return State{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.Mode == ModeEdit && owner != d.owner {
		return d.state, model.ErrNotOwner
	}

	from := d.state.Step
	st, err := s.machine.Apply(ctx, d.state, events...)
	d.state = st
	if err != nil {
		s.metrics.ObserveWizardStep(string(st.Step), "rejected")
		return st, err
	}
	if st.Step != from {
		s.metrics.ObserveWizardStep(string(st.Step), "ok")
	}

	switch st.Step {
	case StepSubmitted:
		if err := s.commit(ctx, st); err != nil {
			d.state, err = s.recover(st, err)
			return d.state, err
		}
		s.close(token)
		s.metrics.IncrementProfilesWritten(string(st.Mode))
		s.logger.Info("profile committed",
			slog.String("bracelet_id", string(st.ID)),
			slog.String("mode", string(st.Mode)),
		)
	case StepExited:
		s.close(token)
	}

	return st, nil
}

// Discard closes a draft without writing anything
func (s *Service) Discard(token string) {
	s.close(token)
}

// EncodePhoto converts an uploaded image using the configured size limit
func (s *Service) EncodePhoto(r io.Reader) (string, error) {
	return EncodePhoto(r, s.cfg.MaxPhotoBytes)
}

// DecodePhoto validates a data URI photo using the configured size limit
func (s *Service) DecodePhoto(uri string) (string, error) {
	return DecodePhoto(uri, s.cfg.MaxPhotoBytes)
}

// CleanExpiredDrafts removes abandoned drafts (call periodically)
func (s *Service) CleanExpiredDrafts() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, d := range s.drafts {
		if now.After(d.expiresAt) {
			delete(s.drafts, token)
		}
	}
}

// commit writes the finished record. In create mode the credential is
// inserted first so a username race fails before anything else is written;
// if the profile write then fails the credential is removed again.
func (s *Service) commit(ctx context.Context, st State) error {
	profile := st.Profile

	if st.Mode == ModeEdit {
		return s.storage.SaveProfile(ctx, st.ID, &profile)
	}

	exists, err := s.storage.ProfileExists(ctx, st.ID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrProfileExists
	}

	cred := model.Credential{Password: st.Account.Password, ID: st.ID}
	if err := s.storage.CreateCredential(ctx, st.Account.Username, cred); err != nil {
		return err
	}

	if err := s.storage.SaveProfile(ctx, st.ID, &profile); err != nil {
		if rmErr := s.storage.RemoveCredential(ctx, st.Account.Username); rmErr != nil {
			s.logger.Error("failed to roll back credential",
				slog.String("bracelet_id", string(st.ID)),
				slog.String("error", rmErr.Error()),
			)
		}
		return fmt.Errorf("save profile %s: %w", st.ID, err)
	}

	return nil
}

// recover picks the step to resume from after a failed commit. A username
// taken since the Account step was passed is reported against that field.
func (s *Service) recover(st State, err error) (State, error) {
	s.logger.Warn("profile commit failed",
		slog.String("bracelet_id", string(st.ID)),
		slog.String("error", err.Error()),
	)

	if errors.Is(err, model.ErrDuplicateUsername) {
		st.Step = StepAccount
		return st, &model.ValidationError{Fields: []*model.FieldError{{
			Field:   "username",
			Message: "That username is already taken, please choose another",
			Err:     model.ErrDuplicateUsername,
		}}}
	}

	st.Step = StepReview
	return st, err
}

func (s *Service) lookup(token string) (*draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[token]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if clock.Expired(s.clock, d.expiresAt) {
		delete(s.drafts, token)
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *Service) close(token string) {
	s.mu.Lock()
	delete(s.drafts, token)
	s.mu.Unlock()
}

// newToken picks an unused draft token. Callers hold s.mu.
func (s *Service) newToken() (string, error) {
	for range maxTokenAttempts {
		token, err := s.random.String(DraftTokenLength, DraftTokenAlphabet)
		if err != nil {
			return "", fmt.Errorf("draft token: %w", err)
		}
		if _, exists := s.drafts[token]; !exists && token != "" {
			return token, nil
		}
	}
	return "", errors.New("could not allocate a draft token")
}
