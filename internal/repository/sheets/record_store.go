package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
)

// credentialColumns maps the singleton credential pair to row 1 cells.
var credentialColumns = map[repository.Column]string{
	repository.ColumnUsername:     "B",
	repository.ColumnPasswordHash: "C",
}

// RecordStore implements repository.RecordStore on one tab of a spreadsheet.
// Row 1 is the header; columns follow repository.VisitorColumns.
type RecordStore struct {
	repo   Repository
	title  string
	loc    *time.Location
	logger *zap.Logger
}

var _ repository.RecordStore = (*RecordStore)(nil)

// NewRecordStore opens the visitor tab. An empty sheetTitle selects the first
// tab of the spreadsheet.
func NewRecordStore(ctx context.Context, repo Repository, sheetTitle string, loc *time.Location, logger *zap.Logger) (*RecordStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	title, err := resolveTitle(ctx, repo, sheetTitle)
	if err != nil {
		return nil, err
	}

	logger.Info("visitor sheet opened", zap.String("sheet", title))
	return &RecordStore{repo: repo, title: title, loc: loc, logger: logger}, nil
}

// Title returns the tab the store reads and writes.
func (s *RecordStore) Title() string {
	return s.title
}

// ReadAll decodes every data row below the header in sheet order.
func (s *RecordStore) ReadAll(ctx context.Context) ([]models.VisitorRecord, error) {
	rows, err := s.repo.ReadRange(ctx, a1(s.title, "A:"+lastVisitorColumn()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreRead, err)
	}

	records := make([]models.VisitorRecord, 0, len(rows))
	for i, row := range rows {
		sheetRow := i + 1
		if sheetRow < repository.FirstDataRow || blank(row) {
			continue
		}

		record, err := s.decodeRow(row, sheetRow)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// AppendRow writes record as a new row after the existing data.
func (s *RecordStore) AppendRow(ctx context.Context, record models.VisitorRecord) error {
	if err := s.repo.WriteRow(ctx, a1(s.title, "A:"+lastVisitorColumn()), s.encodeRecord(record)); err != nil {
		return fmt.Errorf("%w: %w", models.ErrStoreWrite, err)
	}
	return nil
}

// UpdateCell writes one cell of a data row addressed by its sheet position.
func (s *RecordStore) UpdateCell(ctx context.Context, row int, column repository.Column, value string) error {
	letter, ok := visitorColumnLetter(column)
	if !ok {
		return fmt.Errorf("%w: unknown column %s", models.ErrStoreWrite, column)
	}
	if row < repository.FirstDataRow {
		return fmt.Errorf("%w: row %d out of range", models.ErrStoreWrite, row)
	}

	rows, err := s.repo.ReadRange(ctx, a1(s.title, "A:"+lastVisitorColumn()))
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStoreWrite, err)
	}
	if row > len(rows) {
		return fmt.Errorf("%w: row %d out of range (last row %d)", models.ErrStoreWrite, row, len(rows))
	}

	return s.writeCell(ctx, letter, row, value)
}

// UpdateByID locates the row whose ID column equals id at write time and
// writes one cell of it.
func (s *RecordStore) UpdateByID(ctx context.Context, id string, column repository.Column, value string) error {
	letter, ok := visitorColumnLetter(column)
	if !ok {
		return fmt.Errorf("%w: unknown column %s", models.ErrStoreWrite, column)
	}
	if id == "" {
		return fmt.Errorf("%w: empty record id", models.ErrNotFound)
	}

	idLetter, _ := visitorColumnLetter(repository.ColumnID)
	ids, err := s.repo.ReadRange(ctx, a1(s.title, idLetter+":"+idLetter))
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrStoreRead, err)
	}

	for i, cells := range ids {
		sheetRow := i + 1
		if sheetRow < repository.FirstDataRow || len(cells) == 0 {
			continue
		}
		if cellString(cells, 0) == id {
			return s.writeCell(ctx, letter, sheetRow, value)
		}
	}

	return fmt.Errorf("%w: record %s", models.ErrNotFound, id)
}

// ReadCell reads one cell of the visitor tab.
func (s *RecordStore) ReadCell(ctx context.Context, row int, column repository.Column) (string, error) {
	letter, ok := visitorColumnLetter(column)
	if !ok {
		return "", fmt.Errorf("%w: unknown column %s", models.ErrStoreRead, column)
	}
	return readCell(ctx, s.repo, s.title, letter, row)
}

func (s *RecordStore) writeCell(ctx context.Context, letter string, row int, value string) error {
	cell := a1(s.title, letter+strconv.Itoa(row))
	if err := s.repo.UpdateRange(ctx, cell, []interface{}{value}); err != nil {
		return fmt.Errorf("%w: %w", models.ErrStoreWrite, err)
	}
	s.logger.Debug("cell written", zap.String("cell", cell))
	return nil
}

func (s *RecordStore) encodeRecord(r models.VisitorRecord) []interface{} {
	exit := ""
	if r.ExitTimestamp != nil {
		exit = models.FormatTimestamp(*r.ExitTimestamp, s.loc)
	}

	return []interface{}{
		r.Name,
		r.DocumentNumber,
		r.VehiclePlate,
		r.CompanionCount,
		r.ChildCount,
		r.PostalCode,
		r.Phone,
		models.FormatTimestamp(r.EntryTimestamp, s.loc),
		exit,
		r.AmountPaid.String(),
		r.PaymentMethod.Label(),
		r.Notes,
		r.ID,
	}
}

func (s *RecordStore) decodeRow(row []interface{}, sheetRow int) (models.VisitorRecord, error) {
	if len(row) < repository.RequiredColumns {
		return models.VisitorRecord{}, fmt.Errorf("%w: row %d has %d columns, expected at least %d",
			models.ErrStoreRead, sheetRow, len(row), repository.RequiredColumns)
	}

	entry, err := models.ParseTimestamp(cellString(row, 7), s.loc)
	if err != nil {
		return models.VisitorRecord{}, fmt.Errorf("%w: row %d entry time: %w", models.ErrStoreRead, sheetRow, err)
	}

	record := models.VisitorRecord{
		Row:            sheetRow,
		Name:           cellString(row, 0),
		DocumentNumber: cellString(row, 1),
		VehiclePlate:   cellString(row, 2),
		CompanionCount: s.parseCount(row, 3, sheetRow),
		ChildCount:     s.parseCount(row, 4, sheetRow),
		PostalCode:     cellString(row, 5),
		Phone:          cellString(row, 6),
		EntryTimestamp: entry,
		AmountPaid:     s.parseAmount(row, 9, sheetRow),
		Notes:          cellString(row, 11),
		ID:             cellString(row, 12),
	}

	if raw := cellString(row, 8); raw != "" {
		exit, err := models.ParseTimestamp(raw, s.loc)
		if err != nil {
			return models.VisitorRecord{}, fmt.Errorf("%w: row %d exit time: %w", models.ErrStoreRead, sheetRow, err)
		}
		record.ExitTimestamp = &exit
	}

	if raw := cellString(row, 10); raw != "" {
		method, err := models.ParsePaymentMethod(raw)
		if err != nil {
			s.logger.Debug("keeping unknown payment method", zap.Int("row", sheetRow), zap.String("value", raw))
			method = models.PaymentMethod(raw)
		}
		record.PaymentMethod = method
	}

	return record, nil
}

func (s *RecordStore) parseCount(row []interface{}, idx, sheetRow int) int {
	raw := cellString(row, idx)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Debug("skip invalid count", zap.Int("row", sheetRow), zap.String("value", raw), zap.Error(err))
		return 0
	}
	return n
}

func (s *RecordStore) parseAmount(row []interface{}, idx, sheetRow int) decimal.Decimal {
	raw := cellString(row, idx)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		s.logger.Debug("skip invalid amount", zap.Int("row", sheetRow), zap.String("value", raw), zap.Error(err))
		return decimal.Zero
	}
	return amount
}

// CredentialTable reads the singleton username and password digest from row 1
// of a dedicated tab (columns B and C).
type CredentialTable struct {
	repo  Repository
	title string
}

var _ repository.CellReader = (*CredentialTable)(nil)

// NewCredentialTable opens the credentials tab.
func NewCredentialTable(ctx context.Context, repo Repository, sheetTitle string) (*CredentialTable, error) {
	title, err := resolveTitle(ctx, repo, sheetTitle)
	if err != nil {
		return nil, err
	}
	return &CredentialTable{repo: repo, title: title}, nil
}

// ReadCell reads the username or password_hash cell of the given row.
func (t *CredentialTable) ReadCell(ctx context.Context, row int, column repository.Column) (string, error) {
	letter, ok := credentialColumns[column]
	if !ok {
		return "", fmt.Errorf("%w: unknown credential column %s", models.ErrStoreRead, column)
	}
	return readCell(ctx, t.repo, t.title, letter, row)
}

func resolveTitle(ctx context.Context, repo Repository, want string) (string, error) {
	titles, err := repo.SheetTitles(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	if len(titles) == 0 {
		return "", fmt.Errorf("%w: spreadsheet has no sheets", models.ErrStoreUnavailable)
	}
	if want == "" {
		return titles[0], nil
	}
	for _, title := range titles {
		if title == want {
			return title, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q not found", models.ErrStoreUnavailable, want)
}

func readCell(ctx context.Context, repo Repository, title, letter string, row int) (string, error) {
	if row < 1 {
		return "", fmt.Errorf("%w: row %d out of range", models.ErrStoreRead, row)
	}

	values, err := repo.ReadRange(ctx, a1(title, letter+strconv.Itoa(row)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrStoreRead, err)
	}
	if len(values) == 0 {
		return "", nil
	}
	return cellString(values[0], 0), nil
}

// a1 builds an A1 range on a quoted sheet title.
func a1(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}

func visitorColumnLetter(column repository.Column) (string, bool) {
	for i, c := range repository.VisitorColumns {
		if c == column {
			return string(rune('A' + i)), true
		}
	}
	return "", false
}

func lastVisitorColumn() string {
	return string(rune('A' + len(repository.VisitorColumns) - 1))
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func blank(row []interface{}) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}
