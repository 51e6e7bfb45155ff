package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/application-tracker/internal/models"
)

const (
	ActivityJobAdded           = "job_added"
	ActivityJobUpdated         = "job_updated"
	ActivityJobDeleted         = "job_deleted"
	ActivityApplicationCreated = "application_created"
	ActivityStatusChanged      = "application_status_changed"
	ActivityApplicationDeleted = "application_deleted"
	ActivityOfferCreated       = "offer_created"
	ActivityResumeUploaded     = "resume_uploaded"
	ActivityResumeDeleted      = "resume_deleted"

	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type ActivityService struct {
	DB *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{DB: db}
}

// List returns the newest entries first. limit is clamped to
// [1, MaxActivityLimit]; zero means DefaultActivityLimit.
func (s *ActivityService) List(ctx context.Context, userID uint, limit int) ([]models.Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	var rows []models.Activity
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return rows, nil
}
