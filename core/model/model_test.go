package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarLeapYear(t *testing.T) {
	c, err := NewCalendar(2024, 60)
	require.NoError(t, err)
	assert.Equal(t, 366, c.Days())
	assert.Equal(t, 24, c.StepsPerDay())
	assert.Equal(t, 366*24, c.Steps())
	assert.Equal(t, 366*96, c.MarkovSteps())

	c, err = NewCalendar(2007, 10)
	require.NoError(t, err)
	assert.Equal(t, 365, c.Days())
	assert.Equal(t, 144, c.StepsPerDay())
}

func TestCalendarRejectsUnevenStep(t *testing.T) {
	_, err := NewCalendar(2007, 7)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "generation.minutes_per_step", cerr.Field)
}

func TestCalendarDayType(t *testing.T) {
	// 2007-01-01 was a Monday.
	c, err := NewCalendar(2007, 60)
	require.NoError(t, err)
	assert.Equal(t, Weekday, c.DayType(0))
	assert.Equal(t, Weekend, c.DayType(5))
	assert.Equal(t, Weekend, c.DayType(6))
	assert.Equal(t, Weekday, c.DayType(7))
	assert.Equal(t, 1, c.Month(31))
	assert.Equal(t, 59, c.DayOfYear(time.March, 1))
	assert.Equal(t, -1, c.DayOfYear(time.February, 29))
}

func TestStateOneHot(t *testing.T) {
	for s := StateSleeping; s <= StateIdle; s++ {
		v := s.OneHot()
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		assert.Equal(t, 1.0, sum, s.String())
		assert.Equal(t, 1.0, v[s])
	}
	assert.True(t, StateCooking.HasDwell())
	assert.False(t, StateIdle.HasDwell())
	assert.Equal(t, Evening, BucketForHour(16))
	assert.Equal(t, Midday, BucketForHour(8))
	assert.Equal(t, Morning, BucketForHour(7))
}

func TestScheduleSetAndFreeze(t *testing.T) {
	s := NewSchedule(3)
	require.NoError(t, s.Set(ColumnVacancy, []float64{0, 0, 1}))
	require.NoError(t, s.Set(ColumnOccupants, []float64{1, 1, 1}))
	require.Error(t, s.Set(ColumnSleeping, []float64{1}))
	assert.Equal(t, []string{ColumnOccupants, ColumnVacancy}, s.Names())

	s.Freeze()
	assert.Error(t, s.Set(ColumnSleeping, []float64{1, 1, 1}))
}

func TestResolveColumns(t *testing.T) {
	s := NewSchedule(1)
	require.NoError(t, s.Set(ColumnOccupants, []float64{1}))
	require.NoError(t, s.Set(ColumnHeatingSetpoint, []float64{68}))

	names, err := ResolveColumns(s, []string{ColumnHeatingSetpoint, ColumnOccupants})
	require.NoError(t, err)
	assert.Equal(t, []string{ColumnHeatingSetpoint, ColumnOccupants}, names)

	_, err = ResolveColumns(s, []string{"garage"})
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))

	_, err = ResolveColumns(s, []string{ColumnDishwasher})
	require.Error(t, err)
}

func TestAnyInCountIn(t *testing.T) {
	occ := []Occupant{
		NewOccupant(0, []State{StateIdle, StateShower}),
		NewOccupant(1, []State{StateShower, StateShower}),
	}
	assert.True(t, AnyIn(occ, StateShower, 0))
	assert.Equal(t, 2, CountIn(occ, StateShower, 1))
	assert.Equal(t, 0, CountIn(occ, StateAbsent, 1))
}
