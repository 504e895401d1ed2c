// Package mathutil provides common decimal utility functions.
package mathutil

import (
	"github.com/iwvelando/buy-vs-rent/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	twelve            = decimal.NewFromInt(constants.MonthsPerYear)
	hundred           = decimal.NewFromInt(constants.BasisPointsPerPercent)
	currencyTolerance = decimal.RequireFromString(constants.CurrencyTolerance)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves are rounded away from zero.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// RoundRate rounds a rate for presentation.
func RoundRate(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.RatePlaces)
}

// Precise rounds a value to the internal working precision. It is used after
// divisions that would otherwise not terminate.
func Precise(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.InternalPlaces)
}

// Div divides at the internal working precision.
func Div(num, den decimal.Decimal) decimal.Decimal {
	return num.DivRound(den, constants.InternalPlaces)
}

// MonthlyRate converts an annual fractional rate into its monthly share.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return Div(annualRate, twelve)
}

// BasisPointsToPercent converts basis points into percentage points.
func BasisPointsToPercent(bp decimal.Decimal) decimal.Decimal {
	return bp.Div(hundred)
}

// PercentToBasisPoints converts percentage points into basis points.
func PercentToBasisPoints(pp decimal.Decimal) decimal.Decimal {
	return pp.Mul(hundred)
}

// PercentToFraction converts a rate quoted in percent into a fraction.
func PercentToFraction(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// PowInt raises base to a non-negative integer power by repeated squaring,
// keeping the internal working precision at every step.
func PowInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	if exp <= 0 {
		return result
	}
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = Precise(result.Mul(b))
		}
		exp >>= 1
		if exp > 0 {
			b = Precise(b.Mul(b))
		}
	}
	return result
}

// Compound returns value × (1 + rate)^periods.
func Compound(value, rate decimal.Decimal, periods int) decimal.Decimal {
	return Precise(value.Mul(PowInt(decimal.NewFromInt(1).Add(rate), periods)))
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(currencyTolerance)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// WithinCent checks if two values are within one cent of each other
func WithinCent(val1, val2 decimal.Decimal) bool {
	return WithinTolerance(val1, val2, currencyTolerance)
}

// Min returns the minimum of two values
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the maximum of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Float converts a value to float64 after rounding it to currency precision.
// Only used at display boundaries.
func Float(val decimal.Decimal) float64 {
	return Round(val).InexactFloat64()
}
