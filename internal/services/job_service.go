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

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

func (s *JobService) CreateJob(ctx context.Context, userID uint, req *dtos.JobCreationRequest) (*models.Job, error) {
	job := &models.Job{
		UserID:         userID,
		Title:          strings.TrimSpace(req.Title),
		Company:        strings.TrimSpace(req.Company),
		Description:    req.Description,
		Location:       req.Location,
		SalaryRange:    req.SalaryRange,
		ApplyURL:       req.ApplyURL,
		ParsedSkills:   req.ParsedSkills,
		SeniorityLevel: req.SeniorityLevel,
		Source:         strings.TrimSpace(req.Source),
	}
	if job.Title == "" || job.Company == "" {
		return nil, apperr.Invalid("title", "title and company are required")
	}
	if job.Source == "" {
		job.Source = models.DefaultJobSource
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		return recordActivity(tx, userID, ActivityJobAdded, "job", job.ID,
			map[string]any{"title": job.Title, "company": job.Company})
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, userID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, jobID, userID uint) (*models.Job, error) {
	return ownedJob(s.DB.WithContext(ctx), userID, jobID)
}

func (s *JobService) UpdateJob(ctx context.Context, jobID, userID uint, req *dtos.JobUpdateRequest) (*models.Job, error) {
	var job *models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if job, err = ownedJob(tx, userID, jobID); err != nil {
			return err
		}

		// title, company and source are NOT NULL; a null leaves them alone.
		if req.Title.Present() {
			if job.Title = strings.TrimSpace(req.Title.Value); job.Title == "" {
				return apperr.Invalid("title", "must not be empty")
			}
		}
		if req.Company.Present() {
			if job.Company = strings.TrimSpace(req.Company.Value); job.Company == "" {
				return apperr.Invalid("company", "must not be empty")
			}
		}
		if req.Source.Present() {
			job.Source = req.Source.Value
		}
		if req.Description.Set {
			job.Description = req.Description.Value
		}
		if req.Location.Set {
			job.Location = req.Location.Ptr()
		}
		if req.SalaryRange.Set {
			job.SalaryRange = req.SalaryRange.Ptr()
		}
		if req.ApplyURL.Set {
			job.ApplyURL = req.ApplyURL.Ptr()
		}
		if req.ParsedSkills.Set {
			job.ParsedSkills = req.ParsedSkills.Ptr()
		}
		if req.SeniorityLevel.Set {
			job.SeniorityLevel = req.SeniorityLevel.Ptr()
		}

		if err := tx.Omit(clause.Associations).Save(job).Error; err != nil {
			return fmt.Errorf("save job: %w", err)
		}
		return recordActivity(tx, userID, ActivityJobUpdated, "job", job.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob removes the job and, through the foreign key, every
// application filed against it.
func (s *JobService) DeleteJob(ctx context.Context, jobID, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := ownedJob(tx, userID, jobID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Job{}, job.ID).Error; err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		return recordActivity(tx, userID, ActivityJobDeleted, "job", job.ID,
			map[string]any{"title": job.Title, "company": job.Company})
	})
}
