package money

import "github.com/shopspring/decimal"

// Amounts are carried as decimals at full precision; rounding to currency
// precision happens only when a value crosses a presentation or recording
// boundary.

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat converts operator-entered amounts (weights, tendered cash).
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Display formats an amount with fixed 2-decimal currency notation.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}
