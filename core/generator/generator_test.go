package generator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/setpoint"
	"github.com/kilianp07/occsched/internal/eventbus"
)

func loadTables(t *testing.T) *resources.Tables {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, resources.WriteSynthetic(dir, resources.SyntheticOptions{}))
	tables, err := resources.NewStore(dir).LoadTables(4)
	require.NoError(t, err)
	return tables
}

func newGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	if opts.Year == 0 {
		opts.Year = 2007
	}
	if opts.MinutesPerStep == 0 {
		opts.MinutesPerStep = 60
	}
	g, err := New(loadTables(t), opts, nil)
	require.NoError(t, err)
	return g
}

func building(seed uint64, occupants int) Building {
	full := &model.DateRange{Begin: "01-01", End: "12-31"}
	return Building{
		ID:        "b1",
		Seed:      seed,
		Occupants: occupants,
		StateCode: "NY",
		HVAC: setpoint.Config{
			Heating: setpoint.ModeConfig{WeekdayBase: 68, WeekendBase: 68, Offset: 4, WeekdayStrategy: setpoint.StrategyNightSetback, WeekendStrategy: setpoint.StrategyNone, Season: full},
			Cooling: setpoint.ModeConfig{WeekdayBase: 78, WeekendBase: 78, Offset: 2, WeekdayStrategy: setpoint.StrategyDaySetup, WeekendStrategy: setpoint.StrategyNone, Season: full},
			Shift:   setpoint.AutoShift,
		},
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newGenerator(t, Options{})
	a, err := g.Generate(context.Background(), building(42, 3))
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), building(42, 3))
	require.NoError(t, err)
	require.Equal(t, a.Schedule.Names(), b.Schedule.Names())
	for _, name := range a.Schedule.Names() {
		va, _ := a.Schedule.Get(name)
		vb, _ := b.Schedule.Get(name)
		for i := range va {
			require.Equal(t, math.Float64bits(va[i]), math.Float64bits(vb[i]), "%s[%d]", name, i)
		}
	}
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	g := newGenerator(t, Options{})
	a, err := g.Generate(context.Background(), building(1, 2))
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), building(2, 2))
	require.NoError(t, err)
	va, _ := a.Schedule.Get(model.ColumnHotWaterFixtures)
	vb, _ := b.Schedule.Get(model.ColumnHotWaterFixtures)
	assert.NotEqual(t, va, vb)
}

func TestGenerateScheduleInvariants(t *testing.T) {
	g := newGenerator(t, Options{Debug: true})
	res, err := g.Generate(context.Background(), building(7, 4))
	require.NoError(t, err)
	s := res.Schedule
	assert.True(t, s.Frozen())
	assert.Equal(t, g.Calendar().Steps(), s.Steps())
	assert.True(t, s.Has(model.ColumnSleeping))
	for _, name := range s.Names() {
		col, _ := model.LookupColumn(name)
		if col.Setpoint {
			continue
		}
		v, _ := s.Get(name)
		peak := 0.0
		for _, x := range v {
			require.False(t, math.IsNaN(x), name)
			require.GreaterOrEqual(t, x, 0.0, name)
			peak = math.Max(peak, x)
		}
		assert.True(t, peak == 1 || peak == 0, "%s peak %g", name, peak)
	}
	heat, _ := s.Get(model.ColumnHeatingSetpoint)
	cool, _ := s.Get(model.ColumnCoolingSetpoint)
	for i := range heat {
		require.LessOrEqual(t, heat[i], cool[i])
	}
	assert.Len(t, res.Occupants, 4)
	total := 0
	for _, n := range res.Stats.Clusters {
		total += n
	}
	assert.Equal(t, 4, total)
}

func TestGenerateZeroOccupants(t *testing.T) {
	g := newGenerator(t, Options{})
	res, err := g.Generate(context.Background(), building(3, 0))
	require.NoError(t, err)
	occ, ok := res.Schedule.Get(model.ColumnOccupants)
	require.True(t, ok)
	for _, v := range occ {
		require.Zero(t, v)
	}
	dhw, _ := res.Schedule.Get(model.ColumnHotWaterFixtures)
	for _, v := range dhw {
		require.False(t, math.IsNaN(v))
	}
}

func TestGenerateVacancyColumn(t *testing.T) {
	g := newGenerator(t, Options{})
	b := building(3, 1)
	b.Vacancy = &model.DateRange{Begin: "12-30", End: "01-01"}
	res, err := g.Generate(context.Background(), b)
	require.NoError(t, err)
	v, ok := res.Schedule.Get(model.ColumnVacancy)
	require.True(t, ok)
	spd := g.Calendar().StepsPerDay()
	assert.Equal(t, 1.0, v[0])
	assert.Equal(t, 0.0, v[spd])
	assert.Equal(t, 1.0, v[len(v)-1])
}

func TestGenerateRejectsBadConfigurationBeforeSimulating(t *testing.T) {
	g := newGenerator(t, Options{})
	bus := eventbus.NewTyped[Progress]()
	g.WithProgress(bus)
	ch := bus.Subscribe()

	b := building(1, 2)
	b.HVAC.Cooling.Season = &model.DateRange{Begin: "06-01", End: "08-31"}
	b.HVAC.Heating.Season = &model.DateRange{Begin: "10-01", End: "03-31"}
	_, err := g.Generate(context.Background(), b)
	var cerr *model.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	select {
	case p := <-ch:
		t.Fatalf("unexpected progress %v", p)
	default:
	}

	b = building(1, 2)
	b.StateCode = "ZZ"
	_, err = g.Generate(context.Background(), b)
	var rf *model.ResourceFormatError
	assert.ErrorAs(t, err, &rf)
}

func TestGenerateCancelled(t *testing.T) {
	g := newGenerator(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := g.Generate(ctx, building(1, 1))
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGeneratePublishesStages(t *testing.T) {
	g := newGenerator(t, Options{})
	bus := eventbus.NewTyped[Progress]()
	g.WithProgress(bus)
	ch := bus.Subscribe()
	res, err := g.Generate(context.Background(), building(9, 1))
	require.NoError(t, err)
	bus.Close()
	var stages []Stage
	for p := range ch {
		assert.Equal(t, res.RunID, p.RunID)
		stages = append(stages, p.Stage)
	}
	assert.Equal(t, []Stage{StageValidated, StageMarkov, StageActivity, StageFixtures, StageSetpoints, StageCompleted}, stages)
}

func TestNewRejectsMissingClusterTables(t *testing.T) {
	_, err := New(loadTables(t), Options{Year: 2007, MinutesPerStep: 60, ClusterProbabilities: []float64{0.2, 0.2, 0.2, 0.2, 0.2}}, nil)
	var cerr *model.ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}
