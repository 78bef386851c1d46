package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary aggregates the check-ins of one calendar day.
type DailySummary struct {
	Date            time.Time                         `json:"date"`
	Visits          int                               `json:"visits"`
	BilledPersons   int                               `json:"billed_persons"`
	ExemptChildren  int                               `json:"exempt_children"`
	Revenue         decimal.Decimal                   `json:"revenue"`
	RevenueByMethod map[PaymentMethod]decimal.Decimal `json:"revenue_by_method"`
	OpenRecords     int                               `json:"open_records"`
	CreatedAt       time.Time                         `json:"created_at"`
}
