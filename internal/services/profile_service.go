package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/models"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

type ProfileService struct {
	DB    *gorm.DB
	Store *storage.Store
	Log   *slog.Logger
}

func NewProfileService(db *gorm.DB, store *storage.Store, log *slog.Logger) *ProfileService {
	return &ProfileService{DB: db, Store: store, Log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, lookupErr(err, "User")
	}
	return &u, nil
}

// ReplaceProfile overwrites every profile field; absent optional fields
// become NULL.
func (s *ProfileService) ReplaceProfile(ctx context.Context, userID uint, req *dtos.ProfileReplaceRequest) (*models.User, error) {
	name := strings.TrimSpace(req.FullName)
	switch {
	case name == "":
		return nil, apperr.Invalid("full_name", "Full name is required")
	case utf8.RuneCountInString(name) < 2:
		return nil, apperr.Invalid("full_name", "Full name must be at least 2 characters")
	}
	return s.mutate(ctx, userID, func(u *models.User) error {
		u.FullName = &name
		u.PhoneNumber = trimmed(req.PhoneNumber)
		u.Location = trimmed(req.Location)
		u.Headline = trimmed(req.Headline)
		return nil
	})
}

func (s *ProfileService) PatchProfile(ctx context.Context, userID uint, req *dtos.ProfilePatchRequest) (*models.User, error) {
	return s.mutate(ctx, userID, func(u *models.User) error {
		if req.FullName.Set {
			name := strings.TrimSpace(req.FullName.Value)
			if name == "" {
				return apperr.Invalid("full_name", "Full name cannot be empty")
			}
			u.FullName = &name
		}
		if req.PhoneNumber.Set {
			u.PhoneNumber = trimmed(req.PhoneNumber.Ptr())
		}
		if req.Location.Set {
			u.Location = trimmed(req.Location.Ptr())
		}
		if req.Headline.Set {
			u.Headline = trimmed(req.Headline.Ptr())
		}
		return nil
	})
}

func (s *ProfileService) mutate(ctx context.Context, userID uint, fn func(*models.User) error) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, userID).Error; err != nil {
			return lookupErr(err, "User")
		}
		if err := fn(&u); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&u).Error; err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteAccount removes the user and everything they own, then the stored
// resume files.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	var paths []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return lookupErr(err, "User")
		}
		if err := tx.Model(&models.Resume{}).Where("user_id = ?", userID).Pluck("file_path", &paths).Error; err != nil {
			return fmt.Errorf("list resume files: %w", err)
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range paths {
		if err := s.Store.Remove(p); err != nil {
			s.Log.WarnContext(ctx, "could not remove resume file", "path", p, "error", err)
		}
	}
	s.Log.InfoContext(ctx, "account deleted", "user_id", userID, "files", len(paths))
	return nil
}
