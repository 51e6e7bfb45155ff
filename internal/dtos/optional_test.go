package dtos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationPatchDistinguishesOmittedFromNull(t *testing.T) {
	var p ApplicationPatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Applied","notes":null}`), &p))

	assert.True(t, p.Status.Present())
	assert.Equal(t, "Applied", p.Status.Value)

	assert.True(t, p.Notes.Set)
	assert.True(t, p.Notes.Null)
	assert.Nil(t, p.Notes.Ptr())

	assert.False(t, p.RejectionReason.Set)
	assert.False(t, p.AppliedDate.Set)
	assert.False(t, p.Any())
}

func TestOfferDetailsDecode(t *testing.T) {
	var p ApplicationPatch
	body := `{
		"status": "offer",
		"offer_salary": 150000,
		"offer_currency": "USD",
		"offer_start_date": "2026-05-01",
		"offer_benefits": ["Health insurance"]
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.True(t, p.Any())
	assert.True(t, p.OfferSalary.Value.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, "USD", p.OfferCurrency.Value)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), p.OfferStartDate.Value.Time)
	assert.JSONEq(t, `["Health insurance"]`, string(p.OfferBenefits.Value))
}

func TestApplicationCreationRequestCarriesOfferDetails(t *testing.T) {
	var r ApplicationCreationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"job_id":3,"status":"offer","offer_salary":"90000.50"}`), &r))
	assert.Equal(t, uint(3), r.JobID)
	assert.True(t, r.OfferSalary.Value.Equal(decimal.RequireFromString("90000.50")))
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2026-01-15T10:30:00Z",
		"2026-01-15T10:30:00+03:00",
		"2026-01-15T10:30:00",
		"2026-01-15 10:30:00",
		"2026-01-15",
	} {
		_, err := ParseTime(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseTime("next tuesday")
	assert.Error(t, err)

	var bad ApplicationPatch
	assert.Error(t, json.Unmarshal([]byte(`{"applied_date":"yesterday"}`), &bad))
}
