// Package money holds the decimal rules shared by wallet, price and sale amounts.
package money

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

// Scale is the number of fractional digits stored for every amount.
const Scale = 2

// Max is the largest value a numeric(12,2) column holds.
var Max = decimal.RequireFromString("9999999999.99")

// ValidatePositive rejects zero, negative, over-precise or out-of-range amounts.
func ValidatePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return pkgerrors.Validation(field, "must be greater than 0")
	}
	if !amount.Equal(amount.Round(Scale)) {
		return pkgerrors.Validation(field, "must have at most 2 decimal places")
	}
	if amount.GreaterThan(Max) {
		return pkgerrors.Validation(field, "must be at most "+Max.StringFixed(Scale))
	}
	return nil
}

// FitsColumn reports whether amount can be stored without overflowing.
func FitsColumn(amount decimal.Decimal) bool {
	return !amount.GreaterThan(Max)
}

// Total returns unit × quantity rounded to the stored scale.
func Total(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(Scale)
}
