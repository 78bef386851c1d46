// Package fee prices a visit from the composition of the party.
package fee

import "github.com/shopspring/decimal"

// UnitPrice is charged for the main visitor and each companion. Children aged
// nine or less are counted apart and enter free.
var UnitPrice = decimal.NewFromInt(15)

// Compute returns (1 + companions) * UnitPrice. Children are never billed, so
// the child count is not an input. Negative counts are rejected upstream.
func Compute(companions int) decimal.Decimal {
	return UnitPrice.Mul(decimal.NewFromInt(int64(1 + companions)))
}
