package models

import (
	"fmt"
	"strings"
)

// ApplicationStatus is the lifecycle state of an Application, stored lowercase.
type ApplicationStatus string

const (
	StatusSaved     ApplicationStatus = "saved"
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in lifecycle order.
var ApplicationStatuses = []ApplicationStatus{
	StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected,
}

// ParseApplicationStatus accepts any casing ("Applied", "APPLIED") and
// returns the canonical lowercase status.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ApplicationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

type OfferStatus string

const (
	OfferPending     OfferStatus = "pending"
	OfferAccepted    OfferStatus = "accepted"
	OfferRejected    OfferStatus = "rejected"
	OfferNegotiating OfferStatus = "negotiating"
)

func ParseOfferStatus(s string) (OfferStatus, error) {
	st := OfferStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OfferPending, OfferAccepted, OfferRejected, OfferNegotiating:
		return st, nil
	}
	return "", fmt.Errorf("unknown offer status %q", s)
}

const (
	DefaultCurrency        = "KES"
	DefaultSalaryFrequency = "monthly"
	DefaultJobSource       = "manual_paste"
	DefaultInterviewType   = "phone"
	DefaultDeadlineType    = "response"
	DefaultDeadlinePrio    = "medium"
)

// Currencies are the ISO codes an Offer may carry.
var Currencies = []string{"KES", "USD", "EUR", "GBP", "ZAR", "NGN", "UGX", "TZS"}

func ParseCurrency(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	// Older records spell the shilling "Kshs".
	if c == "KSHS" || c == "KSH" {
		c = "KES"
	}
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

func ParseSalaryFrequency(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	switch f {
	case "hourly", "monthly", "annual":
		return f, nil
	}
	return "", fmt.Errorf("unsupported salary frequency %q", s)
}
