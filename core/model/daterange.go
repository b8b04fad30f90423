package model

import (
	"fmt"
	"time"
)

// DateRange is an inclusive "MM-DD" range within a year. A Begin after End
// wraps over the new year.
type DateRange struct {
	Begin string `json:"begin" yaml:"begin"`
	End   string `json:"end" yaml:"end"`
}

// DaySpan is a DateRange resolved to day indices of a calendar.
type DaySpan struct {
	First, Last int
}

// Contains reports whether the day index falls inside the span.
func (s DaySpan) Contains(day int) bool {
	if s.First <= s.Last {
		return day >= s.First && day <= s.Last
	}
	return day >= s.First || day <= s.Last
}

// Resolve maps the range onto the calendar year. Errors are reported as
// ConfigurationError against field.
func (r DateRange) Resolve(cal Calendar, field string) (DaySpan, error) {
	first, err := cal.parseMonthDay(r.Begin)
	if err != nil {
		return DaySpan{}, &ConfigurationError{Field: field + ".begin", Reason: err.Error()}
	}
	last, err := cal.parseMonthDay(r.End)
	if err != nil {
		return DaySpan{}, &ConfigurationError{Field: field + ".end", Reason: err.Error()}
	}
	return DaySpan{First: first, Last: last}, nil
}

// parseMonthDay resolves "MM-DD" in the calendar year. Feb 29 falls back to
// Feb 28 outside leap years.
func (c Calendar) parseMonthDay(v string) (int, error) {
	t, err := time.Parse("01-02", v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a MM-DD date", v)
	}
	d := c.DayOfYear(t.Month(), t.Day())
	if d < 0 && t.Month() == time.February && t.Day() == 29 {
		d = c.DayOfYear(time.February, 28)
	}
	if d < 0 {
		return 0, fmt.Errorf("%q does not exist in %d", v, c.Year)
	}
	return d, nil
}
