package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/core/resources"
)

type eventMap map[string]*resources.EventDistribution

func (m eventMap) Event(a string) (*resources.EventDistribution, bool) {
	e, ok := m[a]
	return e, ok
}

func fakeEvents() eventMap {
	power := []resources.PowerSample{{Steps: 4, EnergyKWh: 1}}
	water := func(name string) *resources.EventDistribution {
		return &resources.EventDistribution{
			Activity:        name,
			DurationMinutes: []float64{1.5, 3},
			DurationProbs:   []float64{0.5, 0.5},
			ClusterSizes:    []int{1, 2},
			ClusterProbs:    []float64{0.5, 0.5},
			PowerSamples:    power,
		}
	}
	return eventMap{
		resources.ActivitySink:          water(resources.ActivitySink),
		resources.ActivityShower:        water(resources.ActivityShower),
		resources.ActivityDishwasher:    water(resources.ActivityDishwasher),
		resources.ActivityClothesWasher: water(resources.ActivityClothesWasher),
		resources.ActivityClothesDryer:  {Activity: resources.ActivityClothesDryer, PowerSamples: power},
		resources.ActivityCooking:       {Activity: resources.ActivityCooking, PowerSamples: power},
	}
}

func testCalendar(t *testing.T) model.Calendar {
	t.Helper()
	cal, err := model.NewCalendar(2007, 60)
	require.NoError(t, err)
	return cal
}

func occupantWith(cal model.Calendar, fill func(step int) model.State) model.Occupant {
	states := make([]model.State, cal.MarkovSteps())
	for i := range states {
		states[i] = fill(i)
	}
	return model.NewOccupant(0, states)
}

func TestMissingDistributionIsFatal(t *testing.T) {
	events := fakeEvents()
	delete(events, resources.ActivityCooking)
	_, err := NewSynthesizer(testCalendar(t), events, Shifts{}, DefaultParams(), nil)
	var rf *model.ResourceFormatError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, resources.ActivityCooking, rf.Path)
}

func TestEventOverflowingYearIsTruncated(t *testing.T) {
	cal := testCalendar(t)
	events := fakeEvents()
	events[resources.ActivitySink].DurationMinutes = []float64{1e5}
	events[resources.ActivitySink].DurationProbs = []float64{1}
	params := DefaultParams()
	params.OffsetMinutes = 0
	params.Sink = ClusterParams{ClustersPerYear: float64(cal.Days()), Base: 1, Flow: Flow{Mean: 1, Min: 1}}
	params.Sink.Onset[23] = 1
	syn, err := NewSynthesizer(cal, events, Shifts{}, params, nil)
	require.NoError(t, err)

	occ := []model.Occupant{occupantWith(cal, func(int) model.State { return model.StateIdle })}
	out, counts, err := syn.Synthesize(UseSink, occ, random.New(3))
	require.NoError(t, err)
	sink := out[SeriesSink]
	require.Len(t, sink, cal.Minutes())
	assert.Positive(t, sink[len(sink)-1])
	assert.GreaterOrEqual(t, counts[SeriesSink], cal.Days())
}

func TestShowerOnsetsYieldOneEventEach(t *testing.T) {
	cal := testCalendar(t)
	params := DefaultParams()
	params.Shower.BathRatio = 0
	syn, err := NewSynthesizer(cal, fakeEvents(), Shifts{}, params, nil)
	require.NoError(t, err)
	// Two-step shower at 7:00 every day.
	occ := []model.Occupant{occupantWith(cal, func(i int) model.State {
		if s := i % model.MarkovStepsPerDay; s == 28 || s == 29 {
			return model.StateShower
		}
		return model.StateIdle
	})}
	_, counts, err := syn.Synthesize(UseShowerBath, occ, random.New(1))
	require.NoError(t, err)
	assert.Equal(t, cal.Days(), counts[SeriesShower])
	assert.Zero(t, counts[SeriesBath])
}

func TestApplianceGuardNeedsRestSlot(t *testing.T) {
	cal := testCalendar(t)
	syn, err := NewSynthesizer(cal, fakeEvents(), Shifts{}, DefaultParams(), nil)
	require.NoError(t, err)
	// Dishwashing on steps 0-9 and 11 of the year only.
	occ := []model.Occupant{occupantWith(cal, func(i int) model.State {
		if i < 10 || i == 11 {
			return model.StateDishwashing
		}
		return model.StateIdle
	})}
	_, counts, err := syn.Synthesize(UseDishwasherPower, occ, random.New(1))
	require.NoError(t, err)
	assert.Equal(t, 2, counts[SeriesDishwasherPower])
}

func TestDryerFollowsWasher(t *testing.T) {
	cal := testCalendar(t)
	syn, err := NewSynthesizer(cal, fakeEvents(), Shifts{}, DefaultParams(), nil)
	require.NoError(t, err)
	occ := []model.Occupant{occupantWith(cal, func(i int) model.State {
		if i%model.MarkovStepsPerDay == 40 {
			return model.StateLaundry
		}
		return model.StateIdle
	})}
	_, counts, err := syn.Synthesize(UseLaundryPower, occ, random.New(1))
	require.NoError(t, err)
	assert.Equal(t, cal.Days(), counts[SeriesClothesWasherPower])
	assert.Equal(t, counts[SeriesClothesWasherPower], counts[SeriesClothesDryerPower])
}

func TestDailyClustersKeepsYearlyTotal(t *testing.T) {
	total := 0
	for d := 0; d < 365; d++ {
		total += dailyClusters(0.3, d)
	}
	assert.Equal(t, 109, total)
}

func synthesizeAll(t *testing.T, seed uint64) *Output {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, resources.WriteSynthetic(dir, resources.SyntheticOptions{}))
	tables, err := resources.NewStore(dir).LoadTables(4)
	require.NoError(t, err)
	cal := testCalendar(t)
	syn, err := NewSynthesizer(cal, tables, Shifts{}, DefaultParams(), nil)
	require.NoError(t, err)
	occ := []model.Occupant{
		occupantWith(cal, func(i int) model.State { return model.State(i / 3 % model.NumStates) }),
		occupantWith(cal, func(i int) model.State { return model.State(i / 5 % model.NumStates) }),
	}
	out, err := syn.SynthesizeAll(occ, random.New(seed))
	require.NoError(t, err)
	return out
}

func TestSynthesizeAllColumnsNormalized(t *testing.T) {
	out := synthesizeAll(t, 11)
	cal := testCalendar(t)
	for name, v := range out.Columns {
		require.Len(t, v, cal.Steps(), name)
		peak := floats.Max(v)
		assert.True(t, peak == 1 || peak == 0, "%s peak %g", name, peak)
		assert.GreaterOrEqual(t, floats.Min(v), 0.0, name)
	}
	assert.Positive(t, out.Events[SeriesSink])
}

func TestSynthesizeAllDeterministic(t *testing.T) {
	a := synthesizeAll(t, 5)
	b := synthesizeAll(t, 5)
	assert.Equal(t, a.Columns, b.Columns)
	assert.Equal(t, a.Events, b.Events)
}

func TestParamsValidate(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	p.Shower.BathRatio = 2
	var cerr *model.ConfigurationError
	assert.ErrorAs(t, p.Validate(), &cerr)
}

func TestParamsRejectNegativeFlow(t *testing.T) {
	cases := map[string]struct {
		flow  Flow
		field string
	}{
		"mean": {Flow{Mean: -1, Std: 0, Min: 0}, "fixtures.sink.flow.mean"},
		"min":  {Flow{Mean: 1, Std: 0, Min: -2}, "fixtures.sink.flow.min"},
		"both": {Flow{Mean: -1, Std: 0, Min: -2}, "fixtures.sink.flow.mean"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			p.Sink.Flow = tc.flow
			var cerr *model.ConfigurationError
			require.ErrorAs(t, p.Validate(), &cerr)
			assert.Equal(t, tc.field, cerr.Field)
		})
	}

	p := DefaultParams()
	p.Shower.BathDuration = Flow{Mean: 5, Std: 1, Min: -1}
	var cerr *model.ConfigurationError
	require.ErrorAs(t, p.Validate(), &cerr)
	assert.Equal(t, "fixtures.shower.bath_duration.min", cerr.Field)
}
