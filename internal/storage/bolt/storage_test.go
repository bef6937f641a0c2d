package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "ofelia.db")
	st, err := New(s.path)
	s.Require().NoError(err)
	s.storage = st
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
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

func (s *StorageSuite) TestDataSurvivesReopen() {
	records := storage.NewRecords(s.storage)
	s.Require().NoError(records.CreateCredential(s.ctx, "ana", model.Credential{Password: "pw", ID: "DD2349X66"}))
	s.Require().NoError(s.storage.Close())

	reopened, err := New(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	cred, err := storage.NewRecords(reopened).GetCredential(s.ctx, "ana")
	s.Require().NoError(err)
	s.Equal(model.BraceletID("DD2349X66"), cred.ID)
}
