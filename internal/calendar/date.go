// Package calendar provides the simulation's ISO calendar date and the
// fixed month/day ranges that define transfer windows.
package calendar

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	t time.Time
}

// New returns the date for the given year, month and day, normalized the
// way time.Date normalizes (e.g. Feb 30 becomes Mar 2).
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse reads an ISO date (YYYY-MM-DD).
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int               { return d.t.Year() }
func (d Date) Month() time.Month       { return d.t.Month() }
func (d Date) Day() int                { return d.t.Day() }
func (d Date) Weekday() time.Weekday   { return d.t.Weekday() }
func (d Date) YearDay() int            { return d.t.YearDay() }
func (d Date) IsZero() bool            { return d.t.IsZero() }
func (d Date) AddDays(n int) Date      { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddYears(n int) Date     { return Date{t: d.t.AddDate(n, 0, 0)} }
func (d Date) Before(o Date) bool      { return d.t.Before(o.t) }
func (d Date) After(o Date) bool       { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool       { return d.t.Equal(o.t) }
func (d Date) String() string          { return d.t.Format(layout) }
func (d Date) OnOrBefore(o Date) bool  { return !d.t.After(o.t) }

// DaysUntil returns the whole days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// MonthKey identifies the calendar month, e.g. "2025-08". Used to bucket
// monthly statistics and awards.
func (d Date) MonthKey() string {
	return d.t.Format("2006-01")
}

// Ordinal is the number of days since 1970-01-01. Stable across runs, so it
// can seed deterministic per-day noise.
func (d Date) Ordinal() int64 {
	return d.t.Unix() / 86400
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	if d.t.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.t.Format(layout)), nil
}

// UnmarshalText decodes YYYY-MM-DD; the empty string is the zero date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
