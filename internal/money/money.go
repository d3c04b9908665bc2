package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// ParseMinor converts a decimal string into minor units (cents).
// Amounts carry at most two decimal places.
func ParseMinor(input string) (int64, error) {
	parsed, err := decimal.NewFromString(input)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if parsed.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	return parsed.Shift(2).IntPart(), nil
}

// FormatMinor renders minor units as a two-decimal string, e.g. 10500 -> "105.00".
func FormatMinor(value int64) string {
	return FromMinor(value).StringFixed(2)
}

// FromMinor lifts minor units into a major-unit decimal amount.
func FromMinor(value int64) decimal.Decimal {
	return decimal.NewFromInt(value).Shift(-2)
}

// ToMinor rounds a major-unit decimal amount to minor units, half away
// from zero. Derived posting amounts are each rounded independently
// through this helper.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
