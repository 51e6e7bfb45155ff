package dtos

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/justsurfingit/application-tracker/internal/models"
)

type ApplicationCreationRequest struct {
	JobID    uint    `json:"job_id" binding:"required"`
	Status   string  `json:"status"` // Defaults to "saved" if empty
	ResumeID *uint   `json:"resume_id"`
	Notes    *string `json:"notes"`

	// Only read when Status is "offer".
	OfferDetails
}

// ApplicationPatch is a partial update. Omitted keys keep the stored value;
// an explicit null clears a nullable column.
type ApplicationPatch struct {
	Status          Optional[string]   `json:"status"`
	AppliedDate     Optional[FlexTime] `json:"applied_date"`
	InterviewDate   Optional[FlexTime] `json:"interview_date"`
	RejectedDate    Optional[FlexTime] `json:"rejected_date"`
	RejectionReason Optional[string]   `json:"rejection_reason"`
	ResumeID        Optional[uint]     `json:"resume_id"`
	Notes           Optional[string]   `json:"notes"`

	OfferDetails
}

// OfferDetails ride along on application writes and feed the Offer that a
// transition into "offer" creates or updates.
type OfferDetails struct {
	OfferSalary          Optional[decimal.Decimal] `json:"offer_salary"`
	OfferCurrency        Optional[string]          `json:"offer_currency"`
	OfferSalaryFrequency Optional[string]          `json:"offer_salary_frequency"`
	OfferPositionType    Optional[string]          `json:"offer_position_type"`
	OfferLocation        Optional[string]          `json:"offer_location"`
	OfferStartDate       Optional[FlexTime]        `json:"offer_start_date"`
	OfferDeadline        Optional[FlexTime]        `json:"offer_deadline"`
	OfferBenefits        Optional[json.RawMessage] `json:"offer_benefits"`
	OfferNotes           Optional[string]          `json:"offer_notes"`
}

// Any reports whether at least one offer field was sent.
func (d OfferDetails) Any() bool {
	return d.OfferSalary.Set || d.OfferCurrency.Set || d.OfferSalaryFrequency.Set ||
		d.OfferPositionType.Set || d.OfferLocation.Set || d.OfferStartDate.Set ||
		d.OfferDeadline.Set || d.OfferBenefits.Set || d.OfferNotes.Set
}

// ApplicationResponse is an Application joined with its Job for display.
type ApplicationResponse struct {
	models.Application
	CompanyName *string `json:"company_name"`
	JobTitle    *string `json:"job_title"`
}

type ApplicationStats struct {
	Total    int64                              `json:"total"`
	ByStatus map[models.ApplicationStatus]int64 `json:"by_status"`
}
