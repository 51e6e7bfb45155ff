package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/auth"
	"github.com/justsurfingit/application-tracker/internal/database/dbtest"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/models"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

func TestSignupLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour))

	tok, err := s.Signup(ctx, &dtos.Credentials{Email: "Ada@Example.com ", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	id, err := s.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)

	me, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Nil(t, me.FullName)

	_, err = s.Signup(ctx, &dtos.Credentials{Email: "ada@example.com", Password: "other"})
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "User already exists")

	_, err = s.Login(ctx, &dtos.Credentials{Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = s.Login(ctx, &dtos.Credentials{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperr.IsUnauthorized(err))
	_, err = s.Login(ctx, &dtos.Credentials{Email: "nobody@example.com", Password: "hunter22"})
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	s := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour))

	tok, err := s.Signup(ctx, &dtos.Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, db.Where("email = ?", "ada@example.com").Delete(&models.User{}).Error)

	_, err = s.Authenticate(ctx, tok.AccessToken)
	require.True(t, apperr.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "User not found")

	_, err = s.Authenticate(ctx, "garbage")
	assert.True(t, apperr.IsUnauthorized(err))
}

func newProfileService(t *testing.T) (*ProfileService, *ResumeService) {
	t.Helper()
	db := dbtest.New(t)
	store, err := storage.New(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)
	return NewProfileService(db, store, logging.Discard()), NewResumeService(db, store, logging.Discard(), 1<<20)
}

func TestProfileReplaceAndPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newProfileService(t)
	u := dbtest.User(t, s.DB, "ada@example.com")

	phone := "+254700000000"
	got, err := s.ReplaceProfile(ctx, u.ID, &dtos.ProfileReplaceRequest{FullName: "  Ada Lovelace ", PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *got.FullName)
	assert.Equal(t, phone, *got.PhoneNumber)

	_, err = s.ReplaceProfile(ctx, u.ID, &dtos.ProfileReplaceRequest{FullName: "A"})
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "at least 2 characters")
	_, err = s.ReplaceProfile(ctx, u.ID, &dtos.ProfileReplaceRequest{FullName: "   "})
	assert.Contains(t, err.Error(), "Full name is required")

	got, err = s.PatchProfile(ctx, u.ID, &dtos.ProfilePatchRequest{Headline: dtos.Some("Engineer"), PhoneNumber: dtos.Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *got.FullName)
	assert.Equal(t, "Engineer", *got.Headline)
	assert.Nil(t, got.PhoneNumber)

	_, err = s.PatchProfile(ctx, u.ID, &dtos.ProfilePatchRequest{FullName: dtos.Some(" ")})
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "Full name cannot be empty")

	_, err = s.GetProfile(ctx, 9999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	ctx := context.Background()
	s, resumes := newProfileService(t)
	u := dbtest.User(t, s.DB, "ada@example.com")
	keep := dbtest.User(t, s.DB, "keep@example.com")

	r, err := resumes.Upload(ctx, u.ID, "cv.docx", bytes.NewReader(docxBytes(t, "hi")), nil)
	require.NoError(t, err)
	j := dbtest.Job(t, s.DB, u.ID, "Acme", "Engineer")
	dbtest.Application(t, s.DB, u.ID, j.ID, models.StatusApplied)
	dbtest.Job(t, s.DB, keep.ID, "Globex", "SRE")

	require.NoError(t, s.DeleteAccount(ctx, u.ID))

	for _, m := range []any{&models.Job{}, &models.Application{}, &models.Resume{}, &models.Activity{}} {
		var n int64
		require.NoError(t, s.DB.Model(m).Where("user_id = ?", u.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	var kept int64
	require.NoError(t, s.DB.Model(&models.Job{}).Where("user_id = ?", keep.ID).Count(&kept).Error)
	assert.EqualValues(t, 1, kept)

	exists, err := afero.Exists(s.Store.Fs(), r.FilePath)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.True(t, apperr.IsNotFound(s.DeleteAccount(ctx, u.ID)))
}

func TestActivityListIsNewestFirstAndClamped(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	u := dbtest.User(t, db, "ada@example.com")
	jobs := NewJobService(db)
	for _, title := range []string{"one", "two", "three"} {
		_, err := jobs.CreateJob(ctx, u.ID, &dtos.JobCreationRequest{Title: title, Company: "Acme"})
		require.NoError(t, err)
	}

	s := NewActivityService(db)
	rows, err := s.List(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Greater(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, ActivityJobAdded, rows[0].Action)
	assert.JSONEq(t, `{"title":"three","company":"Acme"}`, string(rows[0].Details))

	rows, err = s.List(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
