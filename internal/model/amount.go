package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept on every amount.
const Precision int32 = 8

// DateFormat is the ledger and report date layout.
const DateFormat = "01/02/2006"

// Tolerance is the largest difference treated as equal between two volumes.
var Tolerance = decimal.New(1, -Precision)

// Round rounds d to Precision fractional digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// NearlyEqual reports whether a and b differ by at most Tolerance.
func NearlyEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// DeriveVolume computes a leg volume as fiatValue / price.
func DeriveVolume(fiatValue, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price %s for fiat value %s", ErrMissingPrice, price, fiatValue)
	}
	return Round(fiatValue.Div(price)), nil
}

// roundWhole rounds to whole fiat units, half to even.
func roundWhole(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(0)
}
