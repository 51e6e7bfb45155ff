// Package dbtest opens throwaway SQLite databases with the production schema
// and seeds the rows most tests start from.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/justsurfingit/application-tracker/internal/database"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/models"
)

// New returns a migrated database in t.TempDir with foreign keys enforced.
// A single connection keeps SQLite writers from tripping over each other.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tracker.db") + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(logging.Discard(), 0))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func User(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Job(t testing.TB, db *gorm.DB, userID uint, company, title string) *models.Job {
	t.Helper()
	j := &models.Job{
		UserID:  userID,
		Title:   title,
		Company: company,
		Source:  models.DefaultJobSource,
	}
	require.NoError(t, db.Create(j).Error)
	return j
}

func Resume(t testing.TB, db *gorm.DB, userID uint, filename string) *models.Resume {
	t.Helper()
	r := &models.Resume{
		UserID:   userID,
		Filename: filename,
		FilePath: fmt.Sprintf("uploads/%d_%s", userID, filename),
		FileType: "pdf",
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func Application(t testing.TB, db *gorm.DB, userID, jobID uint, status models.ApplicationStatus) *models.Application {
	t.Helper()
	a := &models.Application{UserID: userID, JobID: jobID, Status: status}
	require.NoError(t, db.Create(a).Error)
	return a
}
