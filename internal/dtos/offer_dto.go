package dtos

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type OfferCreationRequest struct {
	ApplicationID uint            `json:"application_id" binding:"required"`
	CompanyName   string          `json:"company_name" binding:"required"`
	Position      string          `json:"position" binding:"required"`
	Salary        decimal.Decimal `json:"salary"`

	// Defaults: currency KES, frequency monthly, status pending,
	// start/offer date today, deadline now.
	Currency           string          `json:"currency"`
	SalaryFrequency    string          `json:"salary_frequency"`
	PositionType       *string         `json:"position_type"`
	Location           *string         `json:"location"`
	StartDate          *FlexTime       `json:"start_date"`
	OfferDate          *FlexTime       `json:"offer_date"`
	Deadline           *FlexTime       `json:"deadline"`
	Benefits           json.RawMessage `json:"benefits"`
	Notes              *string         `json:"notes"`
	Status             string          `json:"status"`
	NegotiationHistory json.RawMessage `json:"negotiation_history"`
}

type OfferUpdateRequest struct {
	CompanyName        Optional[string]          `json:"company_name"`
	Position           Optional[string]          `json:"position"`
	Salary             Optional[decimal.Decimal] `json:"salary"`
	Currency           Optional[string]          `json:"currency"`
	SalaryFrequency    Optional[string]          `json:"salary_frequency"`
	PositionType       Optional[string]          `json:"position_type"`
	Location           Optional[string]          `json:"location"`
	StartDate          Optional[FlexTime]        `json:"start_date"`
	OfferDate          Optional[FlexTime]        `json:"offer_date"`
	Deadline           Optional[FlexTime]        `json:"deadline"`
	Benefits           Optional[json.RawMessage] `json:"benefits"`
	Notes              Optional[string]          `json:"notes"`
	Status             Optional[string]          `json:"status"`
	NegotiationHistory Optional[json.RawMessage] `json:"negotiation_history"`
}
