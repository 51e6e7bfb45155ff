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

type DeadlineService struct {
	DB *gorm.DB
}

func NewDeadlineService(db *gorm.DB) *DeadlineService {
	return &DeadlineService{DB: db}
}

func (s *DeadlineService) CreateDeadline(ctx context.Context, userID uint, req *dtos.DeadlineCreationRequest) (*models.Deadline, error) {
	if req.DueDate.IsZero() {
		return nil, apperr.Invalid("due_date", "is required")
	}
	d := &models.Deadline{
		UserID:        userID,
		ApplicationID: req.ApplicationID,
		Title:         strings.TrimSpace(req.Title),
		DueDate:       req.DueDate.Time,
		Type:          strings.TrimSpace(req.Type),
		Priority:      strings.ToLower(strings.TrimSpace(req.Priority)),
		Notes:         req.Notes,
	}
	if d.Title == "" {
		return nil, apperr.Invalid("title", "is required")
	}
	if d.Type == "" {
		d.Type = models.DefaultDeadlineType
	}
	if d.Priority == "" {
		d.Priority = models.DefaultDeadlinePrio
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedApplication(tx, userID, req.ApplicationID); err != nil {
			return err
		}
		if err := tx.Create(d).Error; err != nil {
			return fmt.Errorf("create deadline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDeadlines returns the soonest deadline first.
func (s *DeadlineService) ListDeadlines(ctx context.Context, userID uint) ([]models.Deadline, error) {
	var out []models.Deadline
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	return out, nil
}

func ownedDeadline(tx *gorm.DB, userID, id uint) (*models.Deadline, error) {
	var d models.Deadline
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&d).Error; err != nil {
		return nil, lookupErr(err, "Deadline")
	}
	return &d, nil
}

func (s *DeadlineService) UpdateDeadline(ctx context.Context, id, userID uint, req *dtos.DeadlineUpdateRequest) (*models.Deadline, error) {
	var d *models.Deadline
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if d, err = ownedDeadline(tx, userID, id); err != nil {
			return err
		}
		if req.Title.Present() {
			if d.Title = strings.TrimSpace(req.Title.Value); d.Title == "" {
				return apperr.Invalid("title", "must not be empty")
			}
		}
		if req.DueDate.Present() {
			d.DueDate = req.DueDate.Value.Time
		}
		if req.Type.Present() {
			d.Type = req.Type.Value
		}
		if req.Priority.Present() {
			d.Priority = strings.ToLower(req.Priority.Value)
		}
		if req.Completed.Present() {
			d.Completed = req.Completed.Value
		}
		if req.Notes.Set {
			d.Notes = req.Notes.Ptr()
		}
		if err := tx.Omit(clause.Associations).Save(d).Error; err != nil {
			return fmt.Errorf("save deadline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeadlineService) DeleteDeadline(ctx context.Context, id, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := ownedDeadline(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Deadline{}, d.ID).Error; err != nil {
			return fmt.Errorf("delete deadline: %w", err)
		}
		return nil
	})
}
