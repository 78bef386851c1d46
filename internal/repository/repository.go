// Package repository declares the record store contract shared by the Google
// Sheets adapter and the in-memory store.
package repository

import (
	"context"

	"github.com/mamadbah2/portaria/internal/domain/models"
)

// Column addresses one cell of a row by name rather than by letter.
type Column string

const (
	ColumnName           Column = "name"
	ColumnDocumentNumber Column = "document_number"
	ColumnVehiclePlate   Column = "vehicle_plate"
	ColumnCompanionCount Column = "companion_count"
	ColumnChildCount     Column = "child_count"
	ColumnPostalCode     Column = "postal_code"
	ColumnPhone          Column = "phone"
	ColumnEntryTimestamp Column = "entry_timestamp"
	ColumnExitTimestamp  Column = "exit_timestamp"
	ColumnAmountPaid     Column = "amount_paid"
	ColumnPaymentMethod  Column = "payment_method"
	ColumnNotes          Column = "notes"
	ColumnID             Column = "id"

	ColumnUsername     Column = "username"
	ColumnPasswordHash Column = "password_hash"
)

// VisitorColumns lists the visitor sheet columns in sheet order.
var VisitorColumns = []Column{
	ColumnName,
	ColumnDocumentNumber,
	ColumnVehiclePlate,
	ColumnCompanionCount,
	ColumnChildCount,
	ColumnPostalCode,
	ColumnPhone,
	ColumnEntryTimestamp,
	ColumnExitTimestamp,
	ColumnAmountPaid,
	ColumnPaymentMethod,
	ColumnNotes,
	ColumnID,
}

// ColumnHeaders are the labels of the header row of the visitor sheet.
var ColumnHeaders = map[Column]string{
	ColumnName:           "Nome",
	ColumnDocumentNumber: "CPF",
	ColumnVehiclePlate:   "Placa",
	ColumnCompanionCount: "Acompanhantes",
	ColumnChildCount:     "Crianças",
	ColumnPostalCode:     "CEP",
	ColumnPhone:          "Telefone",
	ColumnEntryTimestamp: "Horário de Entrada",
	ColumnExitTimestamp:  "Horário de Saída",
	ColumnAmountPaid:     "Valor Pago",
	ColumnPaymentMethod:  "Tipo de Pagamento",
	ColumnNotes:          "Observações",
	ColumnID:             "ID",
}

// RequiredColumns is the number of leading columns every data row must carry
// (Name through EntryTimestamp).
const RequiredColumns = 8

// FirstDataRow is the 1-based row of the first visitor; row 1 is the header.
const FirstDataRow = 2

// CellReader reads a single cell. The auth gate reads credentials through it.
type CellReader interface {
	ReadCell(ctx context.Context, row int, column Column) (string, error)
}

// RecordStore is the only contact point with the visitor register.
//
// Rows are addressed 1-based as in the sheet. Records are append-only; the
// only mutation flows perform is writing the exit time.
type RecordStore interface {
	CellReader
	ReadAll(ctx context.Context) ([]models.VisitorRecord, error)
	AppendRow(ctx context.Context, record models.VisitorRecord) error
	UpdateCell(ctx context.Context, row int, column Column, value string) error
	UpdateByID(ctx context.Context, id string, column Column, value string) error
}
