package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
	"github.com/mcoot/ofelia/internal/storage/memory"
)

type RecordsSuite struct {
	suite.Suite
	kv      *memory.Storage
	records *storage.Records
	ctx     context.Context
}

func TestRecordsSuite(t *testing.T) {
	suite.Run(t, new(RecordsSuite))
}

func (s *RecordsSuite) SetupTest() {
	s.kv = memory.New()
	s.records = storage.NewRecords(s.kv)
	s.ctx = context.Background()
}

func testProfile() *model.Profile {
	return &model.Profile{
		FirstName:          "Ana",
		LastName:           "García",
		PrimaryContactName: "Luis",
		PrimaryPhone:       "+34 600 111 222",
		Photo:              "data:image/png;base64,iVBORw0KGgo=",
	}
}

// Profile tests

func (s *RecordsSuite) TestSaveAndGetProfile() {
	err := s.records.SaveProfile(s.ctx, "DD2349X66", testProfile())
	s.Require().NoError(err)

	profile, err := s.records.GetProfile(s.ctx, "DD2349X66")
	s.Require().NoError(err)
	s.Equal(testProfile(), profile)
}

func (s *RecordsSuite) TestProfileStoredUnderPrefixedKey() {
	_ = s.records.SaveProfile(s.ctx, "DD2349X66", testProfile())

	s.Contains(s.kv.Keys(), "profile:DD2349X66")
}

func (s *RecordsSuite) TestGetProfileNotFound() {
	_, err := s.records.GetProfile(s.ctx, "OF6233Q81")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *RecordsSuite) TestSaveProfileReplacesWholeRecord() {
	original := testProfile()
	original.Email = "ana@example.com"
	_ = s.records.SaveProfile(s.ctx, "DD2349X66", original)

	replacement := testProfile()
	_ = s.records.SaveProfile(s.ctx, "DD2349X66", replacement)

	profile, err := s.records.GetProfile(s.ctx, "DD2349X66")
	s.Require().NoError(err)
	s.Empty(profile.Email)
}

func (s *RecordsSuite) TestProfileExists() {
	exists, err := s.records.ProfileExists(s.ctx, "DD2349X66")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.records.SaveProfile(s.ctx, "DD2349X66", testProfile())

	exists, err = s.records.ProfileExists(s.ctx, "DD2349X66")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RecordsSuite) TestGetProfileCorruptRecord() {
	_ = s.kv.Set(s.ctx, storage.ProfileKey("DD2349X66"), []byte("{not json"))

	_, err := s.records.GetProfile(s.ctx, "DD2349X66")
	s.Error(err)
	s.False(errors.Is(err, model.ErrProfileNotFound))
}

// Credential tests

func (s *RecordsSuite) TestCreateAndGetCredential() {
	err := s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "secret", ID: "DD2349X66"})
	s.Require().NoError(err)

	cred, err := s.records.GetCredential(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("secret", cred.Password)
	s.Equal(model.BraceletID("DD2349X66"), cred.ID)
}

func (s *RecordsSuite) TestCredentialsShareOneKey() {
	_ = s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "a", ID: "DD2349X66"})
	_ = s.records.CreateCredential(s.ctx, "bob", model.Credential{Password: "b", ID: "OF6233Q81"})

	s.ElementsMatch([]string{"auth-users"}, s.kv.Keys())

	raw, err := s.kv.Get(s.ctx, storage.CredentialsKey())
	s.Require().NoError(err)
	s.JSONEq(`{"alice":{"password":"a","id":"DD2349X66"},"bob":{"password":"b","id":"OF6233Q81"}}`, string(raw))
}

func (s *RecordsSuite) TestCreateCredentialRejectsDuplicate() {
	_ = s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "a", ID: "DD2349X66"})

	err := s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "b", ID: "OF6233Q81"})
	s.ErrorIs(err, model.ErrDuplicateUsername)

	cred, _ := s.records.GetCredential(s.ctx, "alice")
	s.Equal(model.BraceletID("DD2349X66"), cred.ID)
}

func (s *RecordsSuite) TestUsernamesAreCaseSensitive() {
	_ = s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "a", ID: "DD2349X66"})

	taken, err := s.records.UsernameTaken(s.ctx, "Alice")
	s.Require().NoError(err)
	s.False(taken)

	taken, err = s.records.UsernameTaken(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(taken)
}

func (s *RecordsSuite) TestGetCredentialNotFound() {
	_, err := s.records.GetCredential(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *RecordsSuite) TestRemoveCredential() {
	_ = s.records.CreateCredential(s.ctx, "alice", model.Credential{Password: "a", ID: "DD2349X66"})

	err := s.records.RemoveCredential(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.records.GetCredential(s.ctx, "alice")
	s.ErrorIs(err, model.ErrCredentialNotFound)
}

func (s *RecordsSuite) TestRemoveUnknownCredentialIsNoop() {
	s.NoError(s.records.RemoveCredential(s.ctx, "nobody"))
}
