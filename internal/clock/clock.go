// Package clock provides the "current date" used by the aggregator and the
// life-score engine, so callers can pin "today" in tests.
package clock

import "time"

// DateLayout is the calendar-date format used for every date field.
const DateLayout = "2006-01-02"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock in the server's local time zone.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// FixedDate returns a Fixed clock at noon local time on the given YYYY-MM-DD date.
// It panics on a malformed date; intended for tests and tooling.
func FixedDate(date string) Fixed {
	d, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		panic("clock: bad date " + date)
	}
	return Fixed(d.Add(12 * time.Hour))
}

// Today formats the clock's current calendar date as YYYY-MM-DD.
// A nil clock falls back to System.
func Today(c Clock) string {
	if c == nil {
		c = System{}
	}
	return c.Now().Format(DateLayout)
}
