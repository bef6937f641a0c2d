package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mcoot/ofelia/internal/model"
)

// Records implements Store on top of any KV backend.
// Profiles live one per key; credentials share a single map-valued key.
type Records struct {
	kv KV

	// guards read-modify-write of the credential map
	credMu sync.Mutex
}

// NewRecords creates a Records store over the given backend
func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// Ensure Records implements the interface
var _ Store = (*Records)(nil)

// Profile operations

func (r *Records) GetProfile(ctx context.Context, id model.BraceletID) (*model.Profile, error) {
	data, err := r.kv.Get(ctx, ProfileKey(id))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return &profile, nil
}

func (r *Records) SaveProfile(ctx context.Context, id model.BraceletID, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, ProfileKey(id), data)
}

func (r *Records) ProfileExists(ctx context.Context, id model.BraceletID) (bool, error) {
	_, err := r.kv.Get(ctx, ProfileKey(id))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Credential operations

func (r *Records) GetCredential(ctx context.Context, username string) (*model.Credential, error) {
	creds, err := r.credentials(ctx)
	if err != nil {
		return nil, err
	}
	cred, ok := creds[username]
	if !ok {
		return nil, model.ErrCredentialNotFound
	}
	return &cred, nil
}

func (r *Records) UsernameTaken(ctx context.Context, username string) (bool, error) {
	creds, err := r.credentials(ctx)
	if err != nil {
		return false, err
	}
	_, ok := creds[username]
	return ok, nil
}

// CreateCredential inserts a credential, failing if the username is already taken
func (r *Records) CreateCredential(ctx context.Context, username string, cred model.Credential) error {
	r.credMu.Lock()
	defer r.credMu.Unlock()

	creds, err := r.credentials(ctx)
	if err != nil {
		return err
	}
	if _, ok := creds[username]; ok {
		return model.ErrDuplicateUsername
	}
	creds[username] = cred
	return r.saveCredentials(ctx, creds)
}

// RemoveCredential deletes a credential; removing an unknown username is a no-op
func (r *Records) RemoveCredential(ctx context.Context, username string) error {
	r.credMu.Lock()
	defer r.credMu.Unlock()

	creds, err := r.credentials(ctx)
	if err != nil {
		return err
	}
	if _, ok := creds[username]; !ok {
		return nil
	}
	delete(creds, username)
	return r.saveCredentials(ctx, creds)
}

func (r *Records) credentials(ctx context.Context) (map[string]model.Credential, error) {
	data, err := r.kv.Get(ctx, CredentialsKey())
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return make(map[string]model.Credential), nil
		}
		return nil, err
	}

	creds := make(map[string]model.Credential)
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if creds == nil {
		creds = make(map[string]model.Credential)
	}
	return creds, nil
}

func (r *Records) saveCredentials(ctx context.Context, creds map[string]model.Credential) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, CredentialsKey(), data)
}
