// Package calendar provides the calendar date used throughout the ledger.
//
// A Date has day precision and no time zone. The zero Date represents an
// unset date; it sorts before every real date and formats as an empty string.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the sortable text form dates are persisted in.
const Layout = "2006-01-02"

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD).
type Date struct {
	time.Time
}

// New returns the date for the given year, month and day. Out of range
// values are normalized the way time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a date in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %q", s)
	}
	return Date{t}, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for constant input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current local date.
func Today() Date {
	return FromTime(time.Now())
}

// IsValid reports whether the date is set.
func (d Date) IsValid() bool {
	return !d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if !d.IsValid() {
		return ""
	}
	return d.Format(Layout)
}

// Equal reports whether both dates name the same day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// Compare returns -1, 0 or 1 depending on the order of d and o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n months later on the given day of month,
// clamped to the length of the target month.
func (d Date) AddMonths(n int, day int) Date {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return New(first.Year(), first.Month(), clampDay(first.Year(), first.Month(), day))
}

// AddYears returns the date n years later on the given month and day,
// clamped to the length of the target month (29 February in non-leap years).
func (d Date) AddYears(n int, month time.Month, day int) Date {
	year := d.Year() + n
	return New(year, month, clampDay(year, month, day))
}

// DaysInMonth returns the number of days in the month of the given year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, day int) int {
	if n := DaysInMonth(year, month); day > n {
		return n
	}
	if day < 1 {
		return 1
	}
	return day
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is the zero
// date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
