// Package memory keeps the visitor register in process. It backs local
// development and the service tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
)

// Store is an in-memory RecordStore. Row 1 mirrors the legacy sheet layout: it
// holds the header labels plus the singleton credential pair.
type Store struct {
	mu           sync.RWMutex
	records      []models.VisitorRecord
	username     string
	passwordHash string
	loc          *time.Location
	writes       int
	failWrites   bool
}

var _ repository.RecordStore = (*Store)(nil)

// New builds an empty store whose timestamps are interpreted in loc.
func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{loc: loc}
}

// SetCredentials stores the username and password digest checked by the auth gate.
func (s *Store) SetCredentials(username, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.passwordHash = passwordHash
}

// WriteCount returns the number of successful AppendRow, UpdateCell and
// UpdateByID calls.
func (s *Store) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// SetFailWrites makes every following write fail with ErrStoreWrite, or
// restores normal writes.
func (s *Store) SetFailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Seed appends records without counting them as writes.
func (s *Store) Seed(records ...models.VisitorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.appendLocked(rec)
	}
}

// ReadAll returns a copy of every record in insertion order.
func (s *Store) ReadAll(_ context.Context) ([]models.VisitorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VisitorRecord, len(s.records))
	for i, rec := range s.records {
		out[i] = cloneRecord(rec)
	}
	return out, nil
}

// AppendRow adds one record after the existing ones.
func (s *Store) AppendRow(_ context.Context, record models.VisitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return fmt.Errorf("%w: append rejected", models.ErrStoreWrite)
	}
	s.appendLocked(record)
	s.writes++
	return nil
}

// UpdateCell writes value into one column of the record at the given sheet row.
func (s *Store) UpdateCell(_ context.Context, row int, column repository.Column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return fmt.Errorf("%w: update rejected", models.ErrStoreWrite)
	}
	idx := row - repository.FirstDataRow
	if idx < 0 || idx >= len(s.records) {
		return fmt.Errorf("%w: row %d out of range", models.ErrStoreWrite, row)
	}
	if err := s.setLocked(idx, column, value); err != nil {
		return err
	}
	s.writes++
	return nil
}

// UpdateByID writes value into one column of the record carrying id.
func (s *Store) UpdateByID(_ context.Context, id string, column repository.Column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites {
		return fmt.Errorf("%w: update rejected", models.ErrStoreWrite)
	}
	for i := range s.records {
		if id != "" && s.records[i].ID == id {
			if err := s.setLocked(i, column, value); err != nil {
				return err
			}
			s.writes++
			return nil
		}
	}
	return fmt.Errorf("%w: record %s", models.ErrNotFound, id)
}

// ReadCell reads one cell. Row 1 returns header labels, or the credentials for
// the username and password_hash columns.
func (s *Store) ReadCell(_ context.Context, row int, column repository.Column) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row == 1 {
		switch column {
		case repository.ColumnUsername:
			return s.username, nil
		case repository.ColumnPasswordHash:
			return s.passwordHash, nil
		}
		if label, ok := repository.ColumnHeaders[column]; ok {
			return label, nil
		}
		return "", fmt.Errorf("%w: unknown column %s", models.ErrStoreRead, column)
	}

	idx := row - repository.FirstDataRow
	if idx < 0 || idx >= len(s.records) {
		return "", nil
	}
	return s.getLocked(idx, column)
}

func (s *Store) appendLocked(record models.VisitorRecord) {
	record = cloneRecord(record)
	record.Row = len(s.records) + repository.FirstDataRow
	s.records = append(s.records, record)
}

func (s *Store) setLocked(idx int, column repository.Column, value string) error {
	rec := &s.records[idx]
	switch column {
	case repository.ColumnExitTimestamp:
		if value == "" {
			rec.ExitTimestamp = nil
			return nil
		}
		ts, err := models.ParseTimestamp(value, s.loc)
		if err != nil {
			return fmt.Errorf("%w: %w", models.ErrStoreWrite, err)
		}
		rec.ExitTimestamp = &ts
	case repository.ColumnNotes:
		rec.Notes = value
	case repository.ColumnVehiclePlate:
		rec.VehiclePlate = value
	case repository.ColumnPhone:
		rec.Phone = value
	case repository.ColumnPostalCode:
		rec.PostalCode = value
	default:
		return fmt.Errorf("%w: column %s is not writable", models.ErrStoreWrite, column)
	}
	return nil
}

func (s *Store) getLocked(idx int, column repository.Column) (string, error) {
	rec := s.records[idx]
	switch column {
	case repository.ColumnName:
		return rec.Name, nil
	case repository.ColumnDocumentNumber:
		return rec.DocumentNumber, nil
	case repository.ColumnVehiclePlate:
		return rec.VehiclePlate, nil
	case repository.ColumnCompanionCount:
		return strconv.Itoa(rec.CompanionCount), nil
	case repository.ColumnChildCount:
		return strconv.Itoa(rec.ChildCount), nil
	case repository.ColumnPostalCode:
		return rec.PostalCode, nil
	case repository.ColumnPhone:
		return rec.Phone, nil
	case repository.ColumnEntryTimestamp:
		return models.FormatTimestamp(rec.EntryTimestamp, s.loc), nil
	case repository.ColumnExitTimestamp:
		if rec.ExitTimestamp == nil {
			return "", nil
		}
		return models.FormatTimestamp(*rec.ExitTimestamp, s.loc), nil
	case repository.ColumnAmountPaid:
		return rec.AmountPaid.String(), nil
	case repository.ColumnPaymentMethod:
		return rec.PaymentMethod.Label(), nil
	case repository.ColumnNotes:
		return rec.Notes, nil
	case repository.ColumnID:
		return rec.ID, nil
	default:
		return "", fmt.Errorf("%w: unknown column %s", models.ErrStoreRead, column)
	}
}

func cloneRecord(rec models.VisitorRecord) models.VisitorRecord {
	if rec.ExitTimestamp != nil {
		exit := *rec.ExitTimestamp
		rec.ExitTimestamp = &exit
	}
	return rec
}
