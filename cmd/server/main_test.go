package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ofelia/internal/factory"
	"github.com/mcoot/ofelia/internal/testutil"
)

func TestAppConfigDefaultsToBolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ofelia.db")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("BOLT_PATH", path)

	cfg, err := appConfig(testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, factory.StorageTypeBolt, cfg.StorageType)
	assert.Equal(t, path, cfg.BoltPath)
	assert.DirExists(t, filepath.Dir(path))
}

func TestAppConfigMemoryOnRequest(t *testing.T) {
	t.Setenv("STORAGE_TYPE", factory.StorageTypeMemory)

	cfg, err := appConfig(testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
}

func TestAppConfigRedisNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_TYPE", factory.StorageTypeRedis)
	t.Setenv("REDIS_URL", "")

	_, err := appConfig(testutil.NopLogger())
	assert.Error(t, err)
}

func TestAppConfigSessionTTL(t *testing.T) {
	t.Setenv("STORAGE_TYPE", factory.StorageTypeMemory)

	t.Setenv("SESSION_TTL", "90m")
	cfg, err := appConfig(testutil.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.AuthConfig.SessionDuration)

	t.Setenv("SESSION_TTL", "-1h")
	_, err = appConfig(testutil.NopLogger())
	assert.Error(t, err)
}

func TestParseCSRFKey(t *testing.T) {
	key, err := parseCSRFKey("")
	require.NoError(t, err)
	assert.Nil(t, key)

	_, err = parseCSRFKey("abcd")
	assert.Error(t, err)

	key, err = parseCSRFKey("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
