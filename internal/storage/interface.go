package storage

import (
	"context"
	"errors"

	"github.com/mcoot/ofelia/internal/model"
)

// ErrKeyNotFound is returned by KV.Get when no value is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// KV is the key-value capability each backend provides.
// Values are opaque serialized records; writes are atomic per key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store defines the typed record operations the services depend on
type Store interface {
	// Profile operations
	GetProfile(ctx context.Context, id model.BraceletID) (*model.Profile, error)
	SaveProfile(ctx context.Context, id model.BraceletID, profile *model.Profile) error
	ProfileExists(ctx context.Context, id model.BraceletID) (bool, error)

	// Credential operations
	GetCredential(ctx context.Context, username string) (*model.Credential, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	CreateCredential(ctx context.Context, username string, cred model.Credential) error
	RemoveCredential(ctx context.Context, username string) error
}
