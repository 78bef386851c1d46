package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
)

const dateLayout = "2006-01-02"

// Service aggregates the register into daily closing summaries.
type Service struct {
	store  repository.RecordStore
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store repository.RecordStore, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, logger: logger, now: time.Now}
}

// Summarize aggregates the check-ins whose entry falls on day. Open records
// count every visitor of that day still without an exit time.
func (s *Service) Summarize(ctx context.Context, day time.Time) (models.DailySummary, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("load visitor records: %w", err)
	}

	day = day.In(s.loc)
	summary := models.DailySummary{
		Date:            time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc),
		Revenue:         decimal.Zero,
		RevenueByMethod: map[models.PaymentMethod]decimal.Decimal{},
		CreatedAt:       s.now(),
	}

	for _, rec := range records {
		if !models.SameDay(rec.EntryTimestamp, day) {
			continue
		}

		summary.Visits++
		summary.BilledPersons += 1 + rec.CompanionCount
		summary.ExemptChildren += rec.ChildCount
		summary.Revenue = summary.Revenue.Add(rec.AmountPaid)

		method := rec.PaymentMethod
		if method == "" {
			method = models.PaymentCash
		}
		current, ok := summary.RevenueByMethod[method]
		if !ok {
			current = decimal.Zero
		}
		summary.RevenueByMethod[method] = current.Add(rec.AmountPaid)

		if rec.Open() {
			summary.OpenRecords++
		}
	}

	s.logger.Debug("daily summary computed",
		zap.String("date", summary.Date.Format(dateLayout)),
		zap.Int("visits", summary.Visits),
		zap.String("revenue", summary.Revenue.String()))

	return summary, nil
}

// FormatSummary renders the summary as a short text message.
func FormatSummary(summary models.DailySummary) string {
	if summary.Visits == 0 {
		return fmt.Sprintf("Closing %s: no visitors registered.", summary.Date.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Closing %s: %d check-ins, %d paying persons, %d exempt children.\n",
		summary.Date.Format(dateLayout), summary.Visits, summary.BilledPersons, summary.ExemptChildren)
	fmt.Fprintf(&b, "Revenue R$ %s", summary.Revenue.StringFixed(2))

	for _, method := range []models.PaymentMethod{models.PaymentCash, models.PaymentPix} {
		if amount, ok := summary.RevenueByMethod[method]; ok {
			fmt.Fprintf(&b, " | %s R$ %s", method.Label(), amount.StringFixed(2))
		}
	}

	if summary.OpenRecords > 0 {
		fmt.Fprintf(&b, "\nStill inside: %d.", summary.OpenRecords)
	}
	return b.String()
}
