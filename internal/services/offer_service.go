package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/models"
)

// OfferService is direct CRUD over offers, used for corrections and
// negotiation updates after an offer exists.
type OfferService struct {
	DB      *gorm.DB
	Log     *slog.Logger
	Metrics *metrics.Metrics
	now     func() time.Time
}

func NewOfferService(db *gorm.DB, log *slog.Logger, m *metrics.Metrics) *OfferService {
	return &OfferService{
		DB:      db,
		Log:     log,
		Metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *OfferService) CreateOffer(ctx context.Context, userID uint, req *dtos.OfferCreationRequest) (*models.Offer, error) {
	now := s.now()
	offer := models.Offer{
		UserID:          userID,
		ApplicationID:   req.ApplicationID,
		CompanyName:     strings.TrimSpace(req.CompanyName),
		Position:        strings.TrimSpace(req.Position),
		Salary:          req.Salary,
		Currency:        models.DefaultCurrency,
		SalaryFrequency: models.DefaultSalaryFrequency,
		PositionType:    req.PositionType,
		Location:        req.Location,
		StartDate:       toDate(now),
		OfferDate:       toDate(now),
		Deadline:        now,
		Notes:           req.Notes,
		Status:          models.OfferPending,
	}
	if offer.CompanyName == "" || offer.Position == "" {
		return nil, apperr.Invalid("company_name", "company_name and position are required")
	}
	if req.Salary.IsNegative() {
		return nil, apperr.Invalid("salary", "must not be negative")
	}

	var err error
	if req.Currency != "" {
		if offer.Currency, err = models.ParseCurrency(req.Currency); err != nil {
			return nil, apperr.Invalid("currency", err.Error())
		}
	}
	if req.SalaryFrequency != "" {
		if offer.SalaryFrequency, err = models.ParseSalaryFrequency(req.SalaryFrequency); err != nil {
			return nil, apperr.Invalid("salary_frequency", err.Error())
		}
	}
	if req.Status != "" {
		if offer.Status, err = models.ParseOfferStatus(req.Status); err != nil {
			return nil, apperr.Invalid("status", err.Error())
		}
	}
	if req.StartDate != nil {
		offer.StartDate = toDate(req.StartDate.Time)
	}
	if req.OfferDate != nil {
		offer.OfferDate = toDate(req.OfferDate.Time)
	}
	if req.Deadline != nil {
		offer.Deadline = req.Deadline.Time
	}
	if offer.Benefits, err = opaqueField("benefits", req.Benefits); err != nil {
		return nil, err
	}
	if offer.NegotiationHistory, err = opaqueField("negotiation_history", req.NegotiationHistory); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = clocked(tx, s.now)
		if _, err := ownedApplication(tx, userID, req.ApplicationID); err != nil {
			return err
		}
		if err := tx.Create(&offer).Error; err != nil {
			return writeErr(err, "Offer", "application already has an offer")
		}
		return recordActivity(tx, userID, ActivityOfferCreated, "offer", offer.ID,
			map[string]any{"application_id": offer.ApplicationID, "source": "direct"})
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.OfferCreated("direct")
	return &offer, nil
}

func opaqueField(field string, raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	v, err := serializeOpaque(raw)
	if err != nil {
		return nil, apperr.Invalid(field, "must be JSON")
	}
	return &v, nil
}

func (s *OfferService) ListOffers(ctx context.Context, userID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// ListByApplication checks the application belongs to the caller before
// listing, so a foreign application id reads as NotFound, not as empty.
func (s *OfferService) ListByApplication(ctx context.Context, userID, appID uint) ([]models.Offer, error) {
	db := s.DB.WithContext(ctx)
	if _, err := ownedApplication(db, userID, appID); err != nil {
		return nil, err
	}
	var offers []models.Offer
	err := db.Where("application_id = ? AND user_id = ?", appID, userID).
		Order("created_at DESC, id DESC").
		Find(&offers).Error
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

func (s *OfferService) GetOffer(ctx context.Context, offerID, userID uint) (*models.Offer, error) {
	return ownedOffer(s.DB.WithContext(ctx), userID, offerID)
}

func ownedOffer(tx *gorm.DB, userID, offerID uint) (*models.Offer, error) {
	var o models.Offer
	if err := tx.Where("id = ? AND user_id = ?", offerID, userID).First(&o).Error; err != nil {
		return nil, lookupErr(err, "Offer")
	}
	return &o, nil
}

func (s *OfferService) UpdateOffer(ctx context.Context, offerID, userID uint, req *dtos.OfferUpdateRequest) (*models.Offer, error) {
	var offer *models.Offer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = clocked(tx, s.now)
		var err error
		if offer, err = ownedOffer(tx, userID, offerID); err != nil {
			return err
		}
		if err := applyOfferUpdate(offer, req); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(offer).Error; err != nil {
			return fmt.Errorf("save offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

func applyOfferUpdate(o *models.Offer, req *dtos.OfferUpdateRequest) error {
	var err error
	if req.CompanyName.Present() {
		o.CompanyName = req.CompanyName.Value
	}
	if req.Position.Present() {
		o.Position = req.Position.Value
	}
	if req.Salary.Present() {
		if req.Salary.Value.IsNegative() {
			return apperr.Invalid("salary", "must not be negative")
		}
		o.Salary = req.Salary.Value
	}
	if req.Currency.Present() {
		if o.Currency, err = models.ParseCurrency(req.Currency.Value); err != nil {
			return apperr.Invalid("currency", err.Error())
		}
	}
	if req.SalaryFrequency.Present() {
		if o.SalaryFrequency, err = models.ParseSalaryFrequency(req.SalaryFrequency.Value); err != nil {
			return apperr.Invalid("salary_frequency", err.Error())
		}
	}
	if req.Status.Present() {
		if o.Status, err = models.ParseOfferStatus(req.Status.Value); err != nil {
			return apperr.Invalid("status", err.Error())
		}
	}
	if req.PositionType.Set {
		o.PositionType = req.PositionType.Ptr()
	}
	if req.Location.Set {
		o.Location = req.Location.Ptr()
	}
	if req.StartDate.Present() {
		o.StartDate = toDate(req.StartDate.Value.Time)
	}
	if req.OfferDate.Present() {
		o.OfferDate = toDate(req.OfferDate.Value.Time)
	}
	if req.Deadline.Present() {
		o.Deadline = req.Deadline.Value.Time
	}
	if req.Notes.Set {
		o.Notes = req.Notes.Ptr()
	}
	if req.Benefits.Set {
		if o.Benefits, err = opaqueField("benefits", req.Benefits.Value); err != nil {
			return err
		}
	}
	if req.NegotiationHistory.Set {
		if o.NegotiationHistory, err = opaqueField("negotiation_history", req.NegotiationHistory.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *OfferService) DeleteOffer(ctx context.Context, offerID, userID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer, err := ownedOffer(tx, userID, offerID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Offer{}, offer.ID).Error; err != nil {
			return fmt.Errorf("delete offer: %w", err)
		}
		return nil
	})
}
