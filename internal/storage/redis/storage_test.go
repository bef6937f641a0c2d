package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSetAndGet() {
	err := s.storage.Set(s.ctx, "profile:DD2349X66", []byte(`{"firstName":"Ana"}`))
	s.Require().NoError(err)

	value, err := s.storage.Get(s.ctx, "profile:DD2349X66")
	s.Require().NoError(err)
	s.Equal(`{"firstName":"Ana"}`, string(value))
}

func (s *StorageSuite) TestGetNotFound() {
	_, err := s.storage.Get(s.ctx, "nonexistent")
	s.ErrorIs(err, storage.ErrKeyNotFound)
}

func (s *StorageSuite) TestKeysArePrefixed() {
	_ = s.storage.Set(s.ctx, "auth-users", []byte(`{}`))

	s.True(s.mini.Exists("ofelia:auth-users"))
	s.False(s.mini.Exists("auth-users"))
}

func (s *StorageSuite) TestEmptyPrefixUsesRawKeys() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = ""
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	raw := NewWithClient(client, cfg)
	defer func() { _ = raw.Close() }()

	_ = raw.Set(s.ctx, "profile:OF6233Q81", []byte(`{}`))

	s.True(s.mini.Exists("profile:OF6233Q81"))
}

func (s *StorageSuite) TestRecordsHaveNoTTL() {
	_ = s.storage.Set(s.ctx, "profile:DD2349X66", []byte(`{}`))

	s.Equal(time.Duration(0), s.mini.TTL("ofelia:profile:DD2349X66"))
}

func (s *StorageSuite) TestRecordsRoundTrip() {
	records := storage.NewRecords(s.storage)
	profile := &model.Profile{
		FirstName:          "Ana",
		LastName:           "García",
		PrimaryContactName: "Luis",
		PrimaryPhone:       "600111222",
		Photo:              "data:image/png;base64,AAAA",
	}

	s.Require().NoError(records.SaveProfile(s.ctx, "DD2349X66", profile))
	s.Require().NoError(records.CreateCredential(s.ctx, "ana", model.Credential{Password: "pw", ID: "DD2349X66"}))

	stored, err := records.GetProfile(s.ctx, "DD2349X66")
	s.Require().NoError(err)
	s.Equal(profile, stored)

	err = records.CreateCredential(s.ctx, "ana", model.Credential{Password: "other", ID: "OF6233Q81"})
	s.ErrorIs(err, model.ErrDuplicateUsername)
}

func (s *StorageSuite) TestNewConnectsByURL() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.NoError(store.Ping(s.ctx))
}

func (s *StorageSuite) TestNewFailsWhenUnreachable() {
	addr := s.mini.Addr()
	s.mini.Close()

	cfg := DefaultConfig()
	cfg.URL = "redis://" + addr
	cfg.ConnectTimeout = 200 * time.Millisecond
	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"
	_, err := New(cfg)
	s.Error(err)
}
