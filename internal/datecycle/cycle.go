package datecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFrequency is returned for frequency strings outside the known set.
var ErrInvalidFrequency = errors.New("invalid frequency")

// Frequency is the spacing between two occurrences of a recurring bill.
type Frequency string

const (
	Monthly      Frequency = "monthly"
	Weekly       Frequency = "weekly"
	Yearly       Frequency = "yearly"
	Installments Frequency = "installments" // spaced monthly
)

// ParseFrequency normalizes s and checks it is a known frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Monthly, Weekly, Yearly, Installments:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// NextDate returns the date index whole periods after anchor.
//
// Month and year steps keep the anchor's day of month, clamped to the last
// day of the target month when that day does not exist there: an anchor on
// the 31st lands on the 30th in April and on the 28th or 29th in February.
func NextDate(anchor Date, freq Frequency, index int) (Date, error) {
	switch freq {
	case Weekly:
		return anchor.AddDays(7 * index), nil
	case Monthly, Installments:
		return clampedMonth(anchor, index), nil
	case Yearly:
		return clampedMonth(anchor, 12*index), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(freq))
}

func clampedMonth(anchor Date, months int) Date {
	// normalize year/month first, with day 1 so no overflow into the next month
	first := New(anchor.y, anchor.m+time.Month(months), 1)
	day := anchor.d
	if last := daysIn(first.y, first.m); day > last {
		day = last
	}
	return Date{first.y, first.m, day}
}
