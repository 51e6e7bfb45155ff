package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/models"
)

// lookupErr turns a missing row into apperr.NotFound for entity and wraps
// anything else.
func lookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return fmt.Errorf("load %s: %w", strings.ToLower(entity), err)
}

// writeErr maps a unique-key violation to a Conflict.
func writeErr(err error, entity, reason string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(entity, reason)
	}
	return fmt.Errorf("save %s: %w", strings.ToLower(entity), err)
}

// Every lookup below is scoped by owner; a row owned by someone else is
// reported exactly like a missing one.

func ownedJob(tx *gorm.DB, userID, jobID uint) (*models.Job, error) {
	var job models.Job
	if err := tx.Where("id = ? AND user_id = ?", jobID, userID).First(&job).Error; err != nil {
		return nil, lookupErr(err, "Job")
	}
	return &job, nil
}

func ownedResume(tx *gorm.DB, userID, resumeID uint) (*models.Resume, error) {
	var r models.Resume
	if err := tx.Where("id = ? AND user_id = ?", resumeID, userID).First(&r).Error; err != nil {
		return nil, lookupErr(err, "Resume")
	}
	return &r, nil
}

func ownedApplication(tx *gorm.DB, userID, appID uint) (*models.Application, error) {
	var a models.Application
	if err := tx.Where("id = ? AND user_id = ?", appID, userID).First(&a).Error; err != nil {
		return nil, lookupErr(err, "Application")
	}
	return &a, nil
}

// clocked makes gorm's created_at/updated_at follow the service clock, so
// they agree with the lifecycle dates stamped in the same write.
func clocked(tx *gorm.DB, now func() time.Time) *gorm.DB {
	return tx.Session(&gorm.Session{NowFunc: now})
}

// recordActivity appends to the audit log inside the caller's transaction.
func recordActivity(tx *gorm.DB, userID uint, action, entityType string, entityID uint, details any) error {
	row := models.Activity{
		UserID:     userID,
		Action:     action,
		EntityType: &entityType,
		EntityID:   &entityID,
	}
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode activity details: %w", err)
		}
		row.Details = datatypes.JSON(b)
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("record activity %s: %w", action, err)
	}
	return nil
}

// serializeOpaque stores list-like fields (benefits, negotiation history)
// as text. A JSON string is taken as already serialized; any other JSON
// value is compacted and stored as its JSON text.
func serializeOpaque(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
