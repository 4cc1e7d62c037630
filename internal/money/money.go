// internal/money/money.go

// Package money centralizes fixed-point handling of currency amounts.
// All amounts are shopspring decimals with two-digit precision; derived
// values are rounded half-up so no binary floating-point error can leak
// into persisted balances.
package money

import "github.com/shopspring/decimal"

// Policy-level bounds for a single transfer. These are independent of any
// per-wallet limit.
var (
	MinTransferAmount = decimal.RequireFromString("0.01")
	MaxTransferAmount = decimal.RequireFromString("10000.00")
)

// MustParse converts a decimal string literal to an amount, panicking on
// malformed input. Intended for constants and test fixtures only.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Round normalizes an amount to two decimal places, rounding half away
// from zero (half-up for the non-negative amounts used throughout).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Clamp bounds d to the inclusive range [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
