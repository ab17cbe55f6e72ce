package domain

import (
	"fmt"
	"time"
)

// Date is a plain calendar date with no time-of-day or timezone component.
// All date arithmetic happens in the calendar, so two Dates compare equal
// regardless of where they were produced.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateLayout is the canonical wire format for dates. It is the only date
// serialization the query language and the Harvest API adapter understand.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf extracts the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return DateOf(now)
}

// String formats the date in canonical zero-padded form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// time anchors the date at midnight UTC. UTC avoids DST gaps so AddDays
// always moves by whole calendar days.
func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool { return d.time().Before(o.time()) }

// After reports whether d falls strictly after o.
func (d Date) After(o Date) bool { return d.time().After(o.time()) }

// DaysUntil returns the number of calendar days from d to o
// (negative when o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.time().Sub(d.time()) / (24 * time.Hour))
}

// StartOfWeek returns the Monday of the ISO week containing d.
// If d is a Sunday, that Monday is six days earlier.
func (d Date) StartOfWeek() Date {
	wd := int(d.time().Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDays(-(wd - 1))
}

// StartOfMonth returns the first day of the month containing d.
func (d Date) StartOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of the month containing d.
func (d Date) EndOfMonth() Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC)
	return DateOf(first.AddDate(0, 1, -1))
}
