// Package export renders register records as spreadsheet downloads.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
)

// SheetName is the tab written by WriteXLSX.
const SheetName = "Registros"

// WriteXLSX writes records to w as an xlsx workbook with the register's header
// row and column order. Timestamps are rendered in loc.
func WriteXLSX(w io.Writer, records []models.VisitorRecord, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, column := range repository.VisitorColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, repository.ColumnHeaders[column]); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	for i, rec := range records {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := rowValues(rec, loc)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowValues(rec models.VisitorRecord, loc *time.Location) []interface{} {
	exit := ""
	if rec.ExitTimestamp != nil {
		exit = models.FormatTimestamp(*rec.ExitTimestamp, loc)
	}

	return []interface{}{
		rec.Name,
		rec.DocumentNumber,
		rec.VehiclePlate,
		rec.CompanionCount,
		rec.ChildCount,
		rec.PostalCode,
		rec.Phone,
		models.FormatTimestamp(rec.EntryTimestamp, loc),
		exit,
		rec.AmountPaid.InexactFloat64(),
		rec.PaymentMethod.Label(),
		rec.Notes,
		rec.ID,
	}
}
