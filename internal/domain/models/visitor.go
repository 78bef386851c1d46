package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the text form entry and exit times are persisted with.
// Times are local to the operator and carry no zone marker.
const TimestampLayout = "2006-01-02 15:04:05"

// PaymentMethod enumerates how a visitor settled the entry fee.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
)

// Label returns the value written to the store for the payment method.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentPix:
		return "Pix"
	case PaymentCash:
		return "Dinheiro"
	default:
		return string(p)
	}
}

// ParsePaymentMethod accepts both the API names and the stored labels.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "cash", "dinheiro":
		return PaymentCash, nil
	case "pix", "instant-transfer":
		return PaymentPix, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", value)
	}
}

// UnmarshalJSON accepts any spelling ParsePaymentMethod knows. Unknown values
// are kept so validation can report them.
func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if method, err := ParsePaymentMethod(raw); err == nil {
		*p = method
		return nil
	}
	*p = PaymentMethod(raw)
	return nil
}

// VisitorRecord is one check-in row of the register.
type VisitorRecord struct {
	ID             string          `json:"id"`
	Row            int             `json:"row"`
	Name           string          `json:"name"`
	DocumentNumber string          `json:"document_number"`
	VehiclePlate   string          `json:"vehicle_plate"`
	CompanionCount int             `json:"companion_count"`
	ChildCount     int             `json:"child_count"`
	PostalCode     string          `json:"postal_code,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	EntryTimestamp time.Time       `json:"entry_timestamp"`
	ExitTimestamp  *time.Time      `json:"exit_timestamp"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Notes          string          `json:"notes,omitempty"`
}

// Open reports whether the visitor has not checked out yet.
func (r VisitorRecord) Open() bool {
	return r.ExitTimestamp == nil
}

// TouchesDay reports whether the entry or the exit falls on the calendar day of
// day, evaluated in day's location.
func (r VisitorRecord) TouchesDay(day time.Time) bool {
	if SameDay(r.EntryTimestamp, day) {
		return true
	}
	return r.ExitTimestamp != nil && SameDay(*r.ExitTimestamp, day)
}

// SameDay compares calendar dates in the location of b.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatTimestamp renders t in loc using TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a persisted timestamp as local time in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(TimestampLayout, strings.TrimSpace(value), loc)
}
