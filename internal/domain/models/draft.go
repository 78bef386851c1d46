package models

// Draft holds the check-in form values of one operator session until they are
// submitted.
type Draft struct {
	Name           string        `json:"name" validate:"required"`
	DocumentNumber string        `json:"document_number" validate:"required"`
	VehiclePlate   string        `json:"vehicle_plate" validate:"required"`
	CompanionCount int           `json:"companion_count" validate:"min=0"`
	ChildCount     int           `json:"child_count" validate:"min=0"`
	PaymentMethod  PaymentMethod `json:"payment_method" validate:"oneof=cash pix"`
	PostalCode     string        `json:"postal_code"`
	Phone          string        `json:"phone"`
	Notes          string        `json:"notes"`
}

// NewDraft returns the empty form: blank text, zero counts, cash payment.
func NewDraft() Draft {
	return Draft{PaymentMethod: PaymentCash}
}
