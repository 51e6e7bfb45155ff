package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationStatus(t *testing.T) {
	for in, want := range map[string]ApplicationStatus{
		"Applied":   StatusApplied,
		"INTERVIEW": StatusInterview,
		" offer ":   StatusOffer,
		"rejected":  StatusRejected,
		"Saved":     StatusSaved,
	} {
		got, err := ParseApplicationStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseApplicationStatus("ghosted")
	assert.Error(t, err)
	_, err = ParseApplicationStatus("")
	assert.Error(t, err)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", c)

	c, err = ParseCurrency("Kshs")
	require.NoError(t, err)
	assert.Equal(t, "KES", c)

	_, err = ParseCurrency("BTC")
	assert.Error(t, err)
}

func TestParseSalaryFrequencyAndOfferStatus(t *testing.T) {
	f, err := ParseSalaryFrequency("Annual")
	require.NoError(t, err)
	assert.Equal(t, "annual", f)
	_, err = ParseSalaryFrequency("weekly")
	assert.Error(t, err)

	s, err := ParseOfferStatus("Negotiating")
	require.NoError(t, err)
	assert.Equal(t, OfferNegotiating, s)
	_, err = ParseOfferStatus("maybe")
	assert.Error(t, err)
}

func TestOfferSalaryEncodesAsNumber(t *testing.T) {
	b, err := json.Marshal(Offer{Salary: decimal.NewFromInt(150000)})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, float64(150000), raw["salary"])
}
