package activity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occsched/core/model"
)

func constOccupant(s model.State, n int) model.Occupant {
	states := make([]model.State, n)
	for i := range states {
		states[i] = s
	}
	return model.NewOccupant(0, states)
}

func TestAggregateZeroOccupants(t *testing.T) {
	f := Aggregate(nil, 96)
	require.Equal(t, 96, f.Len())
	for i := 0; i < f.Len(); i++ {
		for _, v := range [][]float64{f.Sleep, f.Away, f.Idle, f.Active, f.Present} {
			assert.False(t, math.IsNaN(v[i]))
			assert.Zero(t, v[i])
		}
	}
}

func TestAggregateFractions(t *testing.T) {
	occ := []model.Occupant{
		constOccupant(model.StateSleeping, 4),
		constOccupant(model.StateAbsent, 4),
		constOccupant(model.StateIdle, 4),
		constOccupant(model.StateCooking, 4),
	}
	f := Aggregate(occ, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.25, f.Sleep[i])
		assert.Equal(t, 0.25, f.Away[i])
		assert.Equal(t, 0.25, f.Idle[i])
		assert.Equal(t, 0.5, f.Active[i])
		assert.Equal(t, 0.75, f.Present[i])
		assert.LessOrEqual(t, f.Sleep[i]+f.Away[i], 1.0)
	}
}

func TestModulateBounds(t *testing.T) {
	cal, err := model.NewCalendar(2010, 60)
	require.NoError(t, err)
	active := make([]float64, cal.MarkovSteps())
	for i := range active {
		active[i] = float64(i%4) / 3
	}
	out := Modulate(DefaultTemplates()[model.ColumnLightingInterior], cal, active)
	require.Len(t, out, cal.Steps())
	maxV := 0.0
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		maxV = math.Max(maxV, v)
	}
	assert.Equal(t, 1.0, maxV)
}

func TestModulateNeverBelowDailyMinimum(t *testing.T) {
	cal, err := model.NewCalendar(2010, 15)
	require.NoError(t, err)
	var tpl Template
	for h := 0; h < 24; h++ {
		tpl.Weekday[h] = float64(h + 1)
		tpl.Weekend[h] = float64(h + 1)
	}
	for m := range tpl.Monthly {
		tpl.Monthly[m] = 1
	}
	out := Modulate(tpl, cal, make([]float64, cal.MarkovSteps()))
	// Nobody active: every step sits at the day minimum, which is the peak.
	for _, v := range out {
		assert.Equal(t, 1.0, v)
	}
}

func TestResampleAveragesQuarters(t *testing.T) {
	cal, err := model.NewCalendar(2010, 30)
	require.NoError(t, err)
	v := make([]float64, cal.MarkovSteps())
	v[0], v[1] = 1, 0
	out := Resample(v, cal)
	require.Len(t, out, cal.Steps())
	assert.Equal(t, 0.5, out[0])
}

func TestBuildRejectsUnknownColumn(t *testing.T) {
	cal, err := model.NewCalendar(2010, 60)
	require.NoError(t, err)
	_, err = Templates{"attic_fan": {}}.Build(cal, make([]float64, cal.MarkovSteps()))
	var cerr *model.ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}
