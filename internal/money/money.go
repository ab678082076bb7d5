// Package money converts between decimal amount strings and the integer
// cents stored in the database.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalid is returned for amounts that do not parse as a decimal.
	ErrInvalid = errors.New("invalid amount")

	// ErrPrecision is returned for amounts with sub-cent digits.
	ErrPrecision = errors.New("amount has more than 2 decimal places")

	// ErrTooLarge is returned for amounts at or above Max.
	ErrTooLarge = errors.New("amount too large")
)

// Max bounds every amount the ledger accepts (exclusive).
var Max = decimal.NewFromInt(10_000_000)

// Parse converts a decimal string such as "12.34" into cents.
// Negative amounts parse; callers decide whether they are acceptable.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts d into cents.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("%w: %s", ErrPrecision, d.String())
	}
	if d.Abs().GreaterThanOrEqual(Max) {
		return 0, fmt.Errorf("%w: %s", ErrTooLarge, d.String())
	}
	return d.Shift(2).IntPart(), nil
}

// Decimal returns cents as a decimal amount.
func Decimal(cents int64) decimal.Decimal { return decimal.New(cents, -2) }

// Format renders cents with exactly two decimals, e.g. 1234 -> "12.34".
func Format(cents int64) string { return Decimal(cents).StringFixed(2) }
