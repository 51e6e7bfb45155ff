package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/lifecycle"
	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/models"
)

// ApplicationService owns the application status lifecycle, including the
// Offer that entering the offer stage produces.
type ApplicationService struct {
	DB      *gorm.DB
	Log     *slog.Logger
	Metrics *metrics.Metrics
	now     func() time.Time
}

func NewApplicationService(db *gorm.DB, log *slog.Logger, m *metrics.Metrics) *ApplicationService {
	return &ApplicationService{
		DB:      db,
		Log:     log,
		Metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ApplicationService) CreateApplication(ctx context.Context, userID uint, req *dtos.ApplicationCreationRequest) (*dtos.ApplicationResponse, error) {
	status := models.StatusSaved
	if strings.TrimSpace(req.Status) != "" {
		st, err := models.ParseApplicationStatus(req.Status)
		if err != nil {
			return nil, apperr.Invalid("status", err.Error())
		}
		status = st
	}

	var (
		app          models.Application
		job          *models.Job
		offerCreated bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = clocked(tx, s.now)
		var err error
		if job, err = ownedJob(tx, userID, req.JobID); err != nil {
			return err
		}
		if req.ResumeID != nil {
			if _, err := ownedResume(tx, userID, *req.ResumeID); err != nil {
				return err
			}
		}

		now := s.now()
		app = models.Application{
			UserID:   userID,
			JobID:    job.ID,
			ResumeID: req.ResumeID,
			Status:   status,
			Notes:    req.Notes,
		}
		dates := lifecycle.Dates{}
		lifecycle.Stamp(status, &dates, now)
		app.AppliedDate, app.InterviewDate, app.RejectedDate = dates.Applied, dates.Interview, dates.Rejected

		if err := tx.Create(&app).Error; err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		if (lifecycle.Transition{To: status}).EntersOffer() {
			if offerCreated, err = s.upsertOffer(ctx, tx, &app, job, req.OfferDetails, now); err != nil {
				return err
			}
		}
		return recordActivity(tx, userID, ActivityApplicationCreated, "application", app.ID,
			map[string]any{"job_id": app.JobID, "status": app.Status})
	})
	if err != nil {
		return nil, err
	}

	if offerCreated {
		s.Metrics.OfferCreated("lifecycle")
	}
	return respond(&app, job), nil
}

// UpdateApplication applies a partial patch to one of the owner's
// applications. Status changes stamp the matching lifecycle date the first
// time it is reached, and entering "offer" creates or updates the linked
// Offer in the same transaction.
func (s *ApplicationService) UpdateApplication(ctx context.Context, appID, userID uint, patch *dtos.ApplicationPatch) (*dtos.ApplicationResponse, error) {
	var (
		app          *models.Application
		job          *models.Job
		tr           lifecycle.Transition
		offerCreated bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = clocked(tx, s.now)
		var err error
		if app, err = ownedApplication(tx, userID, appID); err != nil {
			return err
		}

		tr = lifecycle.Transition{From: app.Status, To: app.Status}
		if patch.Status.Set {
			if patch.Status.Null {
				return apperr.Invalid("status", "must not be null")
			}
			st, err := models.ParseApplicationStatus(patch.Status.Value)
			if err != nil {
				return apperr.Invalid("status", err.Error())
			}
			tr.To = st
		}

		if patch.ResumeID.Present() {
			if _, err := ownedResume(tx, userID, patch.ResumeID.Value); err != nil {
				return err
			}
		}

		if job, err = findJob(tx, userID, app.JobID); err != nil {
			return err
		}
		upsert := tr.UpsertsOffer(patch.OfferDetails.Any())
		if upsert && job == nil {
			return apperr.NotFound("Job")
		}

		now := s.now()
		applyPatch(app, patch)
		app.Status = tr.To
		if patch.Status.Set {
			dates := lifecycle.Dates{Applied: app.AppliedDate, Interview: app.InterviewDate, Rejected: app.RejectedDate}
			lifecycle.Stamp(tr.To, &dates, now)
			app.AppliedDate, app.InterviewDate, app.RejectedDate = dates.Applied, dates.Interview, dates.Rejected
		}

		if err := tx.Omit(clause.Associations).Save(app).Error; err != nil {
			return fmt.Errorf("save application: %w", err)
		}

		if upsert {
			if offerCreated, err = s.upsertOffer(ctx, tx, app, job, patch.OfferDetails, now); err != nil {
				return err
			}
		}

		if tr.Changed() {
			return recordActivity(tx, userID, ActivityStatusChanged, "application", app.ID,
				map[string]any{"old_status": tr.From, "new_status": tr.To})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tr.Changed() {
		s.Metrics.Transition(string(tr.From), string(tr.To))
		s.Log.InfoContext(ctx, "application status changed",
			"application_id", app.ID, "from", tr.From, "to", tr.To)
	}
	if offerCreated {
		s.Metrics.OfferCreated("lifecycle")
	}
	return respond(app, job), nil
}

// upsertOffer creates the application's Offer from the Job and the supplied
// details, or applies the supplied details to the existing one. It reports
// whether a row was created.
func (s *ApplicationService) upsertOffer(ctx context.Context, tx *gorm.DB, app *models.Application, job *models.Job, d dtos.OfferDetails, now time.Time) (bool, error) {
	var offer models.Offer
	err := tx.Where("application_id = ?", app.ID).First(&offer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		offer = newOffer(app, job, now)
		if err := applyOfferDetails(ctx, s.Log, &offer, d); err != nil {
			return false, err
		}
		if err := tx.Create(&offer).Error; err != nil {
			return false, writeErr(err, "Offer", "application already has an offer")
		}
		if err := recordActivity(tx, app.UserID, ActivityOfferCreated, "offer", offer.ID,
			map[string]any{"application_id": app.ID, "source": "lifecycle"}); err != nil {
			return false, err
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("load offer: %w", err)
	}

	if err := applyOfferDetails(ctx, s.Log, &offer, d); err != nil {
		return false, err
	}
	if err := tx.Omit(clause.Associations).Save(&offer).Error; err != nil {
		return false, fmt.Errorf("save offer: %w", err)
	}
	return false, nil
}

func newOffer(app *models.Application, job *models.Job, now time.Time) models.Offer {
	return models.Offer{
		UserID:          app.UserID,
		ApplicationID:   app.ID,
		CompanyName:     job.Company,
		Position:        job.Title,
		Currency:        models.DefaultCurrency,
		SalaryFrequency: models.DefaultSalaryFrequency,
		StartDate:       toDate(now),
		OfferDate:       toDate(now),
		Deadline:        now,
		Status:          models.OfferPending,
	}
}

// applyOfferDetails copies the present fields of d onto o. A null on a
// required column is ignored; a null on an optional column clears it.
// Benefits that cannot be serialized are logged and left unchanged.
func applyOfferDetails(ctx context.Context, log *slog.Logger, o *models.Offer, d dtos.OfferDetails) error {
	if d.OfferSalary.Present() {
		if d.OfferSalary.Value.IsNegative() {
			return apperr.Invalid("offer_salary", "must not be negative")
		}
		o.Salary = d.OfferSalary.Value
	}
	if d.OfferCurrency.Present() {
		c, err := models.ParseCurrency(d.OfferCurrency.Value)
		if err != nil {
			return apperr.Invalid("offer_currency", err.Error())
		}
		o.Currency = c
	}
	if d.OfferSalaryFrequency.Present() {
		f, err := models.ParseSalaryFrequency(d.OfferSalaryFrequency.Value)
		if err != nil {
			return apperr.Invalid("offer_salary_frequency", err.Error())
		}
		o.SalaryFrequency = f
	}
	if d.OfferPositionType.Set {
		o.PositionType = d.OfferPositionType.Ptr()
	}
	if d.OfferLocation.Set {
		o.Location = d.OfferLocation.Ptr()
	}
	if d.OfferStartDate.Present() {
		o.StartDate = toDate(d.OfferStartDate.Value.Time)
	}
	if d.OfferDeadline.Present() {
		o.Deadline = d.OfferDeadline.Value.Time
	}
	if d.OfferBenefits.Set {
		if d.OfferBenefits.Null {
			o.Benefits = nil
		} else if b, err := serializeOpaque(d.OfferBenefits.Value); err != nil {
			log.WarnContext(ctx, "offer benefits not serializable, keeping previous value",
				"application_id", o.ApplicationID, "error", err)
		} else {
			o.Benefits = &b
		}
	}
	if d.OfferNotes.Set {
		o.Notes = d.OfferNotes.Ptr()
	}
	return nil
}

func applyPatch(app *models.Application, p *dtos.ApplicationPatch) {
	if p.AppliedDate.Set {
		app.AppliedDate = timePtr(p.AppliedDate)
	}
	if p.InterviewDate.Set {
		app.InterviewDate = timePtr(p.InterviewDate)
	}
	if p.RejectedDate.Set {
		app.RejectedDate = timePtr(p.RejectedDate)
	}
	if p.RejectionReason.Set {
		app.RejectionReason = p.RejectionReason.Ptr()
	}
	if p.ResumeID.Set {
		app.ResumeID = p.ResumeID.Ptr()
	}
	if p.Notes.Set {
		app.Notes = p.Notes.Ptr()
	}
}

func timePtr(o dtos.Optional[dtos.FlexTime]) *time.Time {
	if !o.Present() {
		return nil
	}
	t := o.Value.Time
	return &t
}

// findJob is ownedJob without the NotFound: a vanished job only matters
// when an Offer has to be built from it.
func findJob(tx *gorm.DB, userID, jobID uint) (*models.Job, error) {
	job, err := ownedJob(tx, userID, jobID)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	return job, err
}

func respond(app *models.Application, job *models.Job) *dtos.ApplicationResponse {
	r := &dtos.ApplicationResponse{Application: *app}
	if job != nil {
		r.CompanyName = &job.Company
		r.JobTitle = &job.Title
	}
	return r
}

func (s *ApplicationService) ListApplications(ctx context.Context, userID uint) ([]*dtos.ApplicationResponse, error) {
	db := s.DB.WithContext(ctx)

	var apps []models.Application
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	jobs := make(map[uint]*models.Job)
	if len(apps) > 0 {
		ids := make([]uint, 0, len(apps))
		for _, a := range apps {
			ids = append(ids, a.JobID)
		}
		var rows []models.Job
		if err := db.Where("id IN ? AND user_id = ?", ids, userID).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load jobs: %w", err)
		}
		for i := range rows {
			jobs[rows[i].ID] = &rows[i]
		}
	}

	out := make([]*dtos.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, respond(&apps[i], jobs[apps[i].JobID]))
	}
	return out, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, appID, userID uint) (*dtos.ApplicationResponse, error) {
	db := s.DB.WithContext(ctx)
	app, err := ownedApplication(db, userID, appID)
	if err != nil {
		return nil, err
	}
	job, err := findJob(db, userID, app.JobID)
	if err != nil {
		return nil, err
	}
	return respond(app, job), nil
}

// DeleteApplication removes the application; its interviews, offer and
// deadlines go with it through the foreign keys.
func (s *ApplicationService) DeleteApplication(ctx context.Context, appID, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		app, err := ownedApplication(tx, userID, appID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Application{}, app.ID).Error; err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		return recordActivity(tx, userID, ActivityApplicationDeleted, "application", app.ID,
			map[string]any{"job_id": app.JobID})
	})
}

func (s *ApplicationService) Stats(ctx context.Context, userID uint) (*dtos.ApplicationStats, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}

	stats := &dtos.ApplicationStats{ByStatus: make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))}
	for _, st := range models.ApplicationStatuses {
		stats.ByStatus[st] = 0
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.Total += r.Count
	}
	return stats, nil
}
