package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/models"
)

type InterviewService struct {
	DB *gorm.DB
}

func NewInterviewService(db *gorm.DB) *InterviewService {
	return &InterviewService{DB: db}
}

func (s *InterviewService) CreateInterview(ctx context.Context, userID uint, req *dtos.InterviewCreationRequest) (*models.Interview, error) {
	if req.Date.IsZero() {
		return nil, apperr.Invalid("date", "is required")
	}
	iv := &models.Interview{
		UserID:        userID,
		ApplicationID: req.ApplicationID,
		Date:          req.Date.Time,
		Time:          strings.TrimSpace(req.Time),
		Type:          strings.TrimSpace(req.Type),
		Interviewer:   req.Interviewer,
		Location:      req.Location,
		Notes:         req.Notes,
		PrepChecklist: req.PrepChecklist,
		Reminders:     true,
	}
	if iv.Type == "" {
		iv.Type = models.DefaultInterviewType
	}
	if req.Reminders != nil {
		iv.Reminders = *req.Reminders
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedApplication(tx, userID, req.ApplicationID); err != nil {
			return err
		}
		if err := tx.Create(iv).Error; err != nil {
			return fmt.Errorf("create interview: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *InterviewService) ListInterviews(ctx context.Context, userID uint) ([]models.Interview, error) {
	var out []models.Interview
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return out, nil
}

func (s *InterviewService) GetInterview(ctx context.Context, id, userID uint) (*models.Interview, error) {
	return ownedInterview(s.DB.WithContext(ctx), userID, id)
}

func ownedInterview(tx *gorm.DB, userID, id uint) (*models.Interview, error) {
	var iv models.Interview
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&iv).Error; err != nil {
		return nil, lookupErr(err, "Interview")
	}
	return &iv, nil
}

func (s *InterviewService) UpdateInterview(ctx context.Context, id, userID uint, req *dtos.InterviewUpdateRequest) (*models.Interview, error) {
	var iv *models.Interview
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if iv, err = ownedInterview(tx, userID, id); err != nil {
			return err
		}
		if req.Date.Present() {
			iv.Date = req.Date.Value.Time
		}
		if req.Time.Set {
			iv.Time = req.Time.Value
		}
		if req.Type.Present() {
			iv.Type = req.Type.Value
		}
		if req.Interviewer.Set {
			iv.Interviewer = req.Interviewer.Ptr()
		}
		if req.Location.Set {
			iv.Location = req.Location.Ptr()
		}
		if req.Notes.Set {
			iv.Notes = req.Notes.Ptr()
		}
		if req.PrepChecklist.Set {
			iv.PrepChecklist = req.PrepChecklist.Ptr()
		}
		if req.Reminders.Present() {
			iv.Reminders = req.Reminders.Value
		}
		if err := tx.Omit(clause.Associations).Save(iv).Error; err != nil {
			return fmt.Errorf("save interview: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *InterviewService) DeleteInterview(ctx context.Context, id, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := ownedInterview(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Interview{}, iv.ID).Error; err != nil {
			return fmt.Errorf("delete interview: %w", err)
		}
		return nil
	})
}
