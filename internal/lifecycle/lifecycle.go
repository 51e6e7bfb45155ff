// Package lifecycle holds the pure rules of the application status machine:
// which date a status stamps and when a transition must upsert an Offer.
// Nothing here touches storage, so the rules can be tested in isolation.
package lifecycle

import (
	"time"

	"github.com/justsurfingit/application-tracker/internal/models"
)

// Transition is one status change. From is the stored status before the
// update; To is the requested status, or From when the patch omits it.
type Transition struct {
	From models.ApplicationStatus
	To   models.ApplicationStatus
}

// Changed reports whether the status actually moves.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// EntersOffer is true on the first step into the offer stage.
func (t Transition) EntersOffer() bool {
	return t.To == models.StatusOffer && t.From != models.StatusOffer
}

// UpsertsOffer decides whether the Offer side effect runs. Entering offer
// always does. Staying in offer does only when the caller sent offer details,
// so those details land on the existing Offer instead of being dropped.
// Leaving offer never does.
func (t Transition) UpsertsOffer(hasOfferDetails bool) bool {
	if t.EntersOffer() {
		return true
	}
	return t.To == models.StatusOffer && t.From == models.StatusOffer && hasOfferDetails
}

// Dates are the write-once lifecycle timestamps of an Application.
type Dates struct {
	Applied   *time.Time
	Interview *time.Time
	Rejected  *time.Time
}

// Stamp fills the date that belongs to status when it is still unset.
// Dates already set are left alone; statuses without a date are no-ops.
func Stamp(status models.ApplicationStatus, d *Dates, now time.Time) {
	var slot **time.Time
	switch status {
	case models.StatusApplied:
		slot = &d.Applied
	case models.StatusInterview:
		slot = &d.Interview
	case models.StatusRejected:
		slot = &d.Rejected
	default:
		return
	}
	if *slot == nil {
		t := now
		*slot = &t
	}
}
