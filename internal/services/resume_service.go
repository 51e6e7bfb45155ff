package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/models"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

// ExtractedTextLimit caps how much resume text is kept on the row.
const ExtractedTextLimit = 1000

var resumeTypes = map[string]bool{"pdf": true, "docx": true}

type ResumeService struct {
	DB       *gorm.DB
	Store    *storage.Store
	Log      *slog.Logger
	MaxBytes int64
}

func NewResumeService(db *gorm.DB, store *storage.Store, log *slog.Logger, maxBytes int64) *ResumeService {
	return &ResumeService{DB: db, Store: store, Log: log, MaxBytes: maxBytes}
}

// Upload stores the file under a path unique to this upload, keeps the first
// ExtractedTextLimit characters of its text and records the row. A file
// whose text cannot be read is still accepted, with no extracted text.
func (s *ResumeService) Upload(ctx context.Context, userID uint, filename string, r io.Reader, tags *string) (*models.Resume, error) {
	name := storage.SafeName(filename)
	if name == "" {
		return nil, apperr.Invalid("file", "No filename")
	}
	ext := storage.Ext(name)
	if !resumeTypes[ext] {
		return nil, apperr.Invalid("file", "Only PDF and DOCX supported")
	}

	p := s.Store.PathFor(userID, name)
	size, err := s.Store.Save(p, r, s.MaxBytes)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, apperr.Invalid("file", fmt.Sprintf("File exceeds %d MB limit", s.MaxBytes>>20))
	}
	if err != nil {
		return nil, fmt.Errorf("store resume: %w", err)
	}

	resume := &models.Resume{
		UserID:   userID,
		Filename: name,
		FilePath: p,
		FileType: ext,
		FileSize: &size,
		Tags:     tags,
	}
	if text, err := s.Store.ExtractText(p, ext); err != nil {
		s.Log.WarnContext(ctx, "resume text extraction failed", "filename", name, "error", err)
	} else {
		text = storage.Truncate(text, ExtractedTextLimit)
		resume.ExtractedText = &text
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resume).Error; err != nil {
			return fmt.Errorf("create resume: %w", err)
		}
		return recordActivity(tx, userID, ActivityResumeUploaded, "resume", resume.ID,
			map[string]any{"filename": name})
	})
	if err != nil {
		s.removeFile(ctx, p)
		return nil, err
	}
	return resume, nil
}

func (s *ResumeService) ListResumes(ctx context.Context, userID uint) ([]models.Resume, error) {
	var resumes []models.Resume
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC, id DESC").
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return resumes, nil
}

// UpdateTags replaces the tag string; nil clears it.
func (s *ResumeService) UpdateTags(ctx context.Context, resumeID, userID uint, tags *string) (*models.Resume, error) {
	var resume *models.Resume
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if resume, err = ownedResume(tx, userID, resumeID); err != nil {
			return err
		}
		resume.Tags = tags
		if err := tx.Omit(clause.Associations).Save(resume).Error; err != nil {
			return fmt.Errorf("save resume: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resume, nil
}

// DeleteResume drops the row, detaching any applications that used it, and
// then removes the stored file. A file that cannot be removed is logged.
func (s *ResumeService) DeleteResume(ctx context.Context, resumeID, userID uint) error {
	var resume *models.Resume
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if resume, err = ownedResume(tx, userID, resumeID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Resume{}, resume.ID).Error; err != nil {
			return fmt.Errorf("delete resume: %w", err)
		}
		return recordActivity(tx, userID, ActivityResumeDeleted, "resume", resume.ID,
			map[string]any{"filename": resume.Filename})
	})
	if err != nil {
		return err
	}
	s.removeFile(ctx, resume.FilePath)
	return nil
}

func (s *ResumeService) removeFile(ctx context.Context, p string) {
	if err := s.Store.Remove(p); err != nil {
		s.Log.WarnContext(ctx, "could not remove resume file", "path", p, "error", err)
	}
}
