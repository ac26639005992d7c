package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical text form of a Date. It is zero padded so that
// lexicographic order matches calendar order.
const DateLayout = "2006/01/02"

// Date is a calendar day with no time-of-day component. Week keys are Dates
// that fall on a Monday.
type Date struct {
	t time.Time
}

// NewDate returns the Date for the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day (in the timestamp's own location)
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day in local time
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in either "2006/01/02" or "2006-01-02" form
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}

	layout := DateLayout
	if strings.Contains(s, "-") {
		layout = "2006-01-02"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	return DateOf(t), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as "2006/01/02". The zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Time returns the date as a UTC midnight timestamp
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other
func (d Date) Compare(other Date) int {
	return d.t.Compare(other.t)
}

// AddDays returns the date n days later (or earlier when n is negative)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddWeeks returns the date n weeks later (or earlier when n is negative)
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// Monday returns the Monday of the ISO week containing the date. This is the
// week key used throughout the schedule.
func (d Date) Monday() Date {
	// time.Weekday has Sunday as 0; shift so Monday is 0
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// IsMonday reports whether the date is already a week key
func (d Date) IsMonday() bool {
	return d.t.Weekday() == time.Monday
}

// WeeksUntil returns the number of whole weeks from d to other
func (d Date) WeeksUntil(other Date) int {
	days := int(other.t.Sub(d.t).Hours() / 24)
	return days / 7
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
