// Package checkout records departures against the latest open visitor record.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
	"github.com/mamadbah2/portaria/internal/service/session"
)

// Overview is the exit view: today's records and the documents still inside.
type Overview struct {
	Date       string                 `json:"date"`
	Candidates []string               `json:"candidates"`
	Records    []models.VisitorRecord `json:"records"`
}

// Service implements the check-out flow.
type Service struct {
	store  repository.RecordStore
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires the check-out flow. loc defines the operator's calendar day.
func NewService(store repository.RecordStore, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, logger: logger, now: time.Now}
}

// Location is the timezone defining the operator's day.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today reads the store and keeps the records entering or leaving today. The
// candidates are the distinct document numbers of the open ones, in sheet order.
func (s *Service) Today(ctx context.Context) (Overview, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.Error("failed to read visitor records", zap.Error(err))
		return Overview{}, err
	}

	today := s.now().In(s.loc)
	overview := Overview{
		Date:       today.Format("2006-01-02"),
		Candidates: []string{},
		Records:    []models.VisitorRecord{},
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if !rec.TouchesDay(today) {
			continue
		}
		overview.Records = append(overview.Records, rec)

		if !rec.Open() || rec.DocumentNumber == "" {
			continue
		}
		if _, ok := seen[rec.DocumentNumber]; ok {
			continue
		}
		seen[rec.DocumentNumber] = struct{}{}
		overview.Candidates = append(overview.Candidates, rec.DocumentNumber)
	}

	return overview, nil
}

// Checkout writes the current time into the exit column of the latest open
// record of documentNumber, searching the whole store. It requires a logged-in
// session and returns the updated record.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, documentNumber string) (models.VisitorRecord, error) {
	if sess == nil || !sess.LoggedIn {
		return models.VisitorRecord{}, models.ErrNotLoggedIn
	}

	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return models.VisitorRecord{}, &models.ValidationError{Missing: []string{"document_number"}}
	}

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.Error("failed to read visitor records", zap.Error(err))
		return models.VisitorRecord{}, err
	}

	target, ok := LatestOpen(records, documentNumber)
	if !ok {
		s.logger.Warn("no open record for checkout", zap.String("document_number", documentNumber))
		return models.VisitorRecord{}, fmt.Errorf("%w: %s", models.ErrNotFound, documentNumber)
	}

	exit := s.now().In(s.loc).Truncate(time.Second)
	value := models.FormatTimestamp(exit, s.loc)

	if target.ID != "" {
		err = s.store.UpdateByID(ctx, target.ID, repository.ColumnExitTimestamp, value)
	} else {
		err = s.store.UpdateCell(ctx, target.Row, repository.ColumnExitTimestamp, value)
	}
	if err != nil {
		s.logger.Error("failed to write exit time",
			zap.Error(err),
			zap.String("document_number", documentNumber),
			zap.Int("row", target.Row))
		return models.VisitorRecord{}, err
	}

	target.ExitTimestamp = &exit
	s.logger.Info("visitor checked out",
		zap.String("document_number", documentNumber),
		zap.String("record_id", target.ID),
		zap.Int("row", target.Row))

	return target, nil
}

// LatestOpen picks the open record of documentNumber with the latest entry
// time. Ties go to the record further down the sheet.
func LatestOpen(records []models.VisitorRecord, documentNumber string) (models.VisitorRecord, bool) {
	var (
		best  models.VisitorRecord
		found bool
	)
	for _, rec := range records {
		if rec.DocumentNumber != documentNumber || !rec.Open() {
			continue
		}
		if !found || !rec.EntryTimestamp.Before(best.EntryTimestamp) {
			best = rec
			found = true
		}
	}
	return best, found
}
