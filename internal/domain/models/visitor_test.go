package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	for input, want := range map[string]PaymentMethod{
		"cash":             PaymentCash,
		"Dinheiro":         PaymentCash,
		" PIX ":            PaymentPix,
		"instant-transfer": PaymentPix,
	} {
		got, err := ParsePaymentMethod(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParsePaymentMethod("card")
	assert.Error(t, err)
}

func TestPaymentLabelRoundTrip(t *testing.T) {
	for _, method := range []PaymentMethod{PaymentCash, PaymentPix} {
		got, err := ParsePaymentMethod(method.Label())
		require.NoError(t, err)
		assert.Equal(t, method, got)
	}
}

func TestTouchesDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	today := time.Date(2026, 10, 16, 9, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	assert.True(t, VisitorRecord{EntryTimestamp: today}.TouchesDay(today))
	assert.False(t, VisitorRecord{EntryTimestamp: yesterday}.TouchesDay(today))

	exit := today.Add(time.Hour)
	assert.True(t, VisitorRecord{EntryTimestamp: yesterday, ExitTimestamp: &exit}.TouchesDay(today))

	// 01:00 UTC on the 17th is still the 16th in BRT.
	late := time.Date(2026, 10, 17, 1, 0, 0, 0, time.UTC)
	assert.True(t, VisitorRecord{EntryTimestamp: late}.TouchesDay(today))
}

func TestTimestampFormatting(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2026, 10, 16, 12, 30, 5, 0, time.UTC)

	text := FormatTimestamp(ts, loc)
	assert.Equal(t, "2026-10-16 09:30:05", text)

	parsed, err := ParseTimestamp(text, loc)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))

	_, err = ParseTimestamp("16/10/2026", loc)
	assert.Error(t, err)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Missing: []string{"name", "vehicle_plate"}}
	assert.Equal(t, "missing required fields: name, vehicle_plate", err.Error())

	err = &ValidationError{Invalid: []string{"companion_count"}}
	assert.Equal(t, "invalid fields: companion_count", err.Error())
}

func TestPaymentMethodUnmarshalJSON(t *testing.T) {
	var d Draft
	require.NoError(t, json.Unmarshal([]byte(`{"payment_method":"Pix"}`), &d))
	assert.Equal(t, PaymentPix, d.PaymentMethod)

	require.NoError(t, json.Unmarshal([]byte(`{"payment_method":"card"}`), &d))
	assert.Equal(t, PaymentMethod("card"), d.PaymentMethod)

	assert.Error(t, json.Unmarshal([]byte(`{"payment_method":3}`), &d))
}
