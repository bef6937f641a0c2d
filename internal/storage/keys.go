package storage

import "github.com/mcoot/ofelia/internal/model"

// Key layout of the persisted namespaces

const (
	profileKeyPrefix = "profile:"
	credentialsKey   = "auth-users"
)

// ProfileKey returns the key holding the profile for a bracelet
func ProfileKey(id model.BraceletID) string {
	return profileKeyPrefix + string(id)
}

// CredentialsKey returns the key holding the username -> credential map
func CredentialsKey() string {
	return credentialsKey
}
