package ledger

import (
	"errors"
	"fmt"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"
	"finance-ledger/internal/money"

	"gorm.io/gorm"
)

// Error taxonomy. Every failure returned by the service wraps one of these.
var (
	// ErrNotFound covers missing entities and entities of another owner.
	ErrNotFound = errors.New("not found")
	// ErrAccountNotFound is the NotFound raised for a missing payment account.
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	// ErrValidation covers unparseable or out-of-range input.
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyPaid       = errors.New("bill already paid")
	ErrInvalidFrequency  = datecycle.ErrInvalidFrequency
	// ErrDuplicateName is returned when a per-owner uniqueness rule is broken.
	ErrDuplicateName = errors.New("duplicate name")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

// translate maps store errors onto the taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// parseAmount parses a money string; allowZero admits 0.00.
func parseAmount(field, s string, allowZero bool) (int64, error) {
	cents, err := money.Parse(s)
	if err != nil {
		return 0, invalid("%s: %v", field, err)
	}
	if cents < 0 || (cents == 0 && !allowZero) {
		if allowZero {
			return 0, invalid("%s must not be negative", field)
		}
		return 0, invalid("%s must be positive", field)
	}
	return cents, nil
}

func parseDate(field, s string) (datecycle.Date, error) {
	d, err := datecycle.Parse(s)
	if err != nil {
		return datecycle.Date{}, invalid("%s: %v", field, err)
	}
	return d, nil
}

func parseKind(s string) (string, error) {
	switch s {
	case models.TypeIncome, models.TypeExpense:
		return s, nil
	}
	return "", invalid("type must be income or expense, got %q", s)
}
