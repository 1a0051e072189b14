package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when year, month and day do not form a calendar date.
var ErrInvalidDate = errors.New("invalid calendar date")

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day or a location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, rejecting values such as month 13 or February 30.
func NewDate(year, month, day int) (Date, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar date of the clock reading now.
func Today(now time.Time) Date {
	return DateOf(now.Local())
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// Sub returns d - other in whole days. It works on Unix seconds because a
// time.Duration cannot span the full 1..9999 year range.
func (d Date) Sub(other Date) int {
	return int((d.midnight().Unix() - other.midnight().Unix()) / secondsPerDay)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
