package checkin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/fee"
	"github.com/mamadbah2/portaria/internal/domain/identity"
	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
	"github.com/mamadbah2/portaria/internal/service/session"
)

// Receipt is what the operator relays to the visitor after a check-in.
type Receipt struct {
	RecordID       string          `json:"record_id"`
	Name           string          `json:"name"`
	DocumentNumber string          `json:"document_number"`
	Fee            decimal.Decimal `json:"fee"`
	ChildrenExempt int             `json:"children_exempt"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentKey     string          `json:"payment_key"`
}

// Options configures the check-in flow.
type Options struct {
	Location    *time.Location
	PaymentKey  string
	PhoneRegion string
}

// Service validates drafts and appends visitor records.
type Service struct {
	store    repository.RecordStore
	validate *validator.Validate
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the check-in flow.
func NewService(store repository.RecordStore, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Service{
		store:    store,
		validate: validate,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates the session draft, appends one record and resets the draft.
// On any failure the draft is left untouched so the operator can retry.
func (s *Service) Submit(ctx context.Context, sess *session.Session) (Receipt, error) {
	draft := sess.Draft
	if err := s.Validate(draft); err != nil {
		s.logger.Warn("check-in rejected", zap.Error(err))
		return Receipt{}, err
	}

	record := s.buildRecord(draft)
	if err := s.store.AppendRow(ctx, record); err != nil {
		s.logger.Error("failed to append visitor record", zap.Error(err), zap.String("record_id", record.ID))
		return Receipt{}, err
	}

	sess.ResetDraft()

	s.logger.Info("visitor checked in",
		zap.String("record_id", record.ID),
		zap.String("document_number", record.DocumentNumber),
		zap.String("fee", record.AmountPaid.String()),
		zap.Int("children_exempt", record.ChildCount))

	return Receipt{
		RecordID:       record.ID,
		Name:           record.Name,
		DocumentNumber: record.DocumentNumber,
		Fee:            record.AmountPaid,
		ChildrenExempt: record.ChildCount,
		PaymentMethod:  record.PaymentMethod.Label(),
		PaymentKey:     s.opts.PaymentKey,
	}, nil
}

// Validate reports missing required fields and out of range values as a
// *models.ValidationError.
func (s *Service) Validate(draft models.Draft) error {
	err := s.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &models.ValidationError{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			verr.Missing = append(verr.Missing, fe.Field())
		} else {
			verr.Invalid = append(verr.Invalid, fe.Field())
		}
	}
	return verr
}

func (s *Service) buildRecord(draft models.Draft) models.VisitorRecord {
	entry := s.now().In(s.opts.Location).Truncate(time.Second)

	return models.VisitorRecord{
		ID:             uuid.NewString(),
		Name:           identity.FormatDisplayName(draft.Name),
		DocumentNumber: identity.FormatDocumentNumber(draft.DocumentNumber),
		VehiclePlate:   draft.VehiclePlate,
		CompanionCount: draft.CompanionCount,
		ChildCount:     draft.ChildCount,
		PostalCode:     draft.PostalCode,
		Phone:          s.normalizePhone(draft.Phone),
		EntryTimestamp: entry,
		ExitTimestamp:  nil,
		AmountPaid:     fee.Compute(draft.CompanionCount),
		PaymentMethod:  draft.PaymentMethod,
		Notes:          draft.Notes,
	}
}

// normalizePhone formats numbers that parse for the configured region as
// E.164 and keeps anything else as typed.
func (s *Service) normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || s.opts.PhoneRegion == "" {
		return raw
	}

	num, err := libphonenumber.Parse(raw, s.opts.PhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
