package model

import (
	"fmt"
	"time"
)

const (
	// MinutesPerDay is the length of one simulated day.
	MinutesPerDay = 24 * 60
	// MarkovMinutes is the width of one Markov step.
	MarkovMinutes = 15
	// MarkovStepsPerDay is the number of Markov steps in a day.
	MarkovStepsPerDay = MinutesPerDay / MarkovMinutes
)

var allowedSteps = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 10: true, 12: true, 15: true, 20: true, 30: true, 60: true}

// Calendar describes the simulated year and its output resolution.
type Calendar struct {
	Year           int
	MinutesPerStep int
	days           int
	start          time.Time
}

// NewCalendar returns a calendar for the full given year. minutesPerStep
// must divide an hour.
func NewCalendar(year, minutesPerStep int) (Calendar, error) {
	if !allowedSteps[minutesPerStep] {
		return Calendar{}, &ConfigurationError{Field: "generation.minutes_per_step", Reason: fmt.Sprintf("%d does not divide an hour", minutesPerStep)}
	}
	if year < 1 {
		return Calendar{}, &ConfigurationError{Field: "generation.year", Reason: "must be positive"}
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return Calendar{Year: year, MinutesPerStep: minutesPerStep, days: days, start: start}, nil
}

// Days returns the number of days in the year.
func (c Calendar) Days() int { return c.days }

// StepsPerDay returns the number of output steps per day.
func (c Calendar) StepsPerDay() int { return MinutesPerDay / c.MinutesPerStep }

// Steps returns the length of every output series.
func (c Calendar) Steps() int { return c.days * c.StepsPerDay() }

// Minutes returns the number of minutes in the year.
func (c Calendar) Minutes() int { return c.days * MinutesPerDay }

// MarkovSteps returns the length of an occupant state sequence.
func (c Calendar) MarkovSteps() int { return c.days * MarkovStepsPerDay }

// Date returns the calendar date of a zero-based day index.
func (c Calendar) Date(day int) time.Time { return c.start.AddDate(0, 0, day) }

// DayType returns Weekend on Saturdays and Sundays.
func (c Calendar) DayType(day int) DayType {
	switch c.Date(day).Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	}
	return Weekday
}

// Month returns the zero-based month of a day index.
func (c Calendar) Month(day int) int { return int(c.Date(day).Month()) - 1 }

// DayOfYear returns the day index of a month/day pair, or -1 when the date
// does not exist in this year.
func (c Calendar) DayOfYear(month time.Month, dayOfMonth int) int {
	t := time.Date(c.Year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Year() != c.Year {
		return -1
	}
	return t.YearDay() - 1
}

// StepTime returns the wall-clock start of an output step.
func (c Calendar) StepTime(step int) time.Time {
	return c.start.Add(time.Duration(step*c.MinutesPerStep) * time.Minute)
}
