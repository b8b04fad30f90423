// Package generator orchestrates one building's schedule generation: the
// Markov simulation, the activity aggregation, the event synthesis and the
// setpoint builder, all drawing from a single seeded stream.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/occsched/core/activity"
	"github.com/kilianp07/occsched/core/fixtures"
	"github.com/kilianp07/occsched/core/markov"
	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/series"
	"github.com/kilianp07/occsched/core/setpoint"
	"github.com/kilianp07/occsched/infra/logger"
	"github.com/kilianp07/occsched/internal/eventbus"
)

// Options configure every run of a Generator.
type Options struct {
	Year           int
	MinutesPerStep int
	// ClusterProbabilities defaults to markov.DefaultClusterProbabilities.
	ClusterProbabilities []float64
	// Debug adds the sleeping column.
	Debug bool
}

// Stage names a generation step reported on the progress bus.
type Stage string

const (
	StageValidated Stage = "validated"
	StageMarkov    Stage = "markov"
	StageActivity  Stage = "activity"
	StageFixtures  Stage = "fixtures"
	StageSetpoints Stage = "setpoints"
	StageCompleted Stage = "completed"
	StageAbandoned Stage = "abandoned"
)

// Progress is published after each stage.
type Progress struct {
	RunID    string
	Building string
	Stage    Stage
	Elapsed  time.Duration
}

// Stats summarize a run.
type Stats struct {
	Duration time.Duration
	// Clusters counts occupants per occupancy-type cluster.
	Clusters map[int]int
	// Events counts synthesized events per minute series.
	Events           map[string]int
	SetpointShift    int
	SetpointAdjusted int
}

// Result is a complete, frozen schedule with its diagnostics.
type Result struct {
	RunID       string
	Building    string
	Seed        uint64
	Calendar    model.Calendar
	Schedule    *model.Schedule
	Diagnostics []model.Diagnostic
	Occupants   []model.Occupant
	Stats       Stats
}

// Generator produces schedules from a shared, read-only table set. It is
// safe to call Generate from several goroutines.
type Generator struct {
	tables *resources.Tables
	cal    model.Calendar
	opts   Options
	sim    *markov.Simulator
	log    logger.Logger
	bus    *eventbus.TypedBus[Progress]
}

// New validates the options against the loaded tables.
func New(tables *resources.Tables, opts Options, log logger.Logger) (*Generator, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	cal, err := model.NewCalendar(opts.Year, opts.MinutesPerStep)
	if err != nil {
		return nil, err
	}
	sim, err := markov.NewSimulator(cal, opts.ClusterProbabilities, log)
	if err != nil {
		return nil, err
	}
	for c := 0; c < sim.Clusters(); c++ {
		if _, ok := tables.Markov(c); !ok {
			return nil, &model.ConfigurationError{
				Field:  "generation.cluster_probabilities",
				Reason: fmt.Sprintf("cluster %d has no Markov tables", c),
			}
		}
	}
	return &Generator{tables: tables, cal: cal, opts: opts, sim: sim, log: log}, nil
}

// WithProgress publishes stage progress on bus.
func (g *Generator) WithProgress(bus *eventbus.TypedBus[Progress]) *Generator {
	g.bus = bus
	return g
}

// Calendar returns the calendar of every run.
func (g *Generator) Calendar() model.Calendar { return g.cal }

// run carries the per-building state of one Generate call.
type run struct {
	id    string
	b     Building
	start time.Time
	rng   *random.Stream
	syn   *fixtures.Synthesizer
	sp    *setpoint.Builder
	tpl   activity.Templates
	vac   *model.DaySpan
	sched *model.Schedule
	res   *Result
}

// Generate builds the schedule of one building. Configuration is checked
// before any draw; ctx is checked between stages and a cancelled run
// returns no schedule.
func (g *Generator) Generate(ctx context.Context, b Building) (*Result, error) {
	r, err := g.prepare(b)
	if err != nil {
		return nil, err
	}
	g.publish(r, StageValidated)
	stages := []struct {
		stage Stage
		fn    func(*run) error
	}{
		{StageMarkov, g.simulate},
		{StageActivity, g.aggregate},
		{StageFixtures, g.synthesize},
		{StageSetpoints, g.setpoints},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			g.publish(r, StageAbandoned)
			return nil, err
		}
		if err := s.fn(r); err != nil {
			return nil, fmt.Errorf("building %s: %s: %w", b.ID, s.stage, err)
		}
		g.publish(r, s.stage)
	}
	if r.vac != nil {
		if err := r.sched.Set(model.ColumnVacancy, g.vacancy(*r.vac)); err != nil {
			return nil, err
		}
	}
	r.sched.Freeze()
	r.res.Schedule = r.sched
	r.res.Stats.Duration = time.Since(r.start)
	g.publish(r, StageCompleted)
	g.log.Infof("building %s generated: %d occupants, %d columns, %d diagnostics in %s",
		b.ID, b.Occupants, len(r.sched.Names()), len(r.res.Diagnostics), r.res.Stats.Duration)
	return r.res, nil
}

// prepare resolves every configuration-dependent collaborator so that all
// fatal configuration and resource errors surface before simulation.
func (g *Generator) prepare(b Building) (*run, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	weekday, err := g.tables.MonthlyShift(model.Weekday, b.StateCode)
	if err != nil {
		return nil, err
	}
	weekend, err := g.tables.MonthlyShift(model.Weekend, b.StateCode)
	if err != nil {
		return nil, err
	}
	params := fixtures.DefaultParams()
	if b.Fixtures != nil {
		params = *b.Fixtures
	}
	syn, err := fixtures.NewSynthesizer(g.cal, g.tables, fixtures.Shifts{Weekday: weekday, Weekend: weekend}, params, g.log)
	if err != nil {
		return nil, err
	}
	sp, err := setpoint.NewBuilder(g.cal, b.HVAC, g.log)
	if err != nil {
		return nil, err
	}
	tpl := activity.DefaultTemplates().Merge(b.Templates)
	for name, t := range tpl {
		if err := t.Validate(name); err != nil {
			return nil, err
		}
	}
	r := &run{
		id:    uuid.NewString(),
		b:     b,
		start: time.Now(),
		rng:   random.New(b.Seed),
		syn:   syn,
		sp:    sp,
		tpl:   tpl,
		sched: model.NewSchedule(g.cal.Steps()),
	}
	if b.Vacancy != nil {
		span, err := b.Vacancy.Resolve(g.cal, "building.vacancy")
		if err != nil {
			return nil, err
		}
		r.vac = &span
	}
	r.res = &Result{
		RunID:    r.id,
		Building: b.ID,
		Seed:     b.Seed,
		Calendar: g.cal,
		Stats:    Stats{Clusters: map[int]int{}},
	}
	return r, nil
}

func (g *Generator) simulate(r *run) error {
	occ, err := g.sim.Simulate(r.b.Occupants, g.tables, r.rng)
	if err != nil {
		return err
	}
	for _, o := range occ {
		r.res.Stats.Clusters[o.Cluster]++
	}
	r.res.Occupants = occ
	return nil
}

func (g *Generator) aggregate(r *run) error {
	fr := activity.Aggregate(r.res.Occupants, g.cal.MarkovSteps())
	cols, err := r.tpl.Build(g.cal, fr.Active)
	if err != nil {
		return err
	}
	cols[model.ColumnOccupants] = series.Normalize(activity.Resample(fr.Present, g.cal))
	if g.opts.Debug {
		cols[model.ColumnSleeping] = series.Normalize(activity.Resample(fr.Sleep, g.cal))
	}
	return setAll(r.sched, cols)
}

func (g *Generator) synthesize(r *run) error {
	out, err := r.syn.SynthesizeAll(r.res.Occupants, r.rng)
	if err != nil {
		return err
	}
	r.res.Stats.Events = out.Events
	return setAll(r.sched, out.Columns)
}

func (g *Generator) setpoints(r *run) error {
	res, err := r.sp.Build(r.rng)
	if err != nil {
		return err
	}
	r.res.Stats.SetpointShift = res.Shift
	r.res.Stats.SetpointAdjusted = res.Adjusted
	r.res.Diagnostics = append(r.res.Diagnostics, res.Diagnostics...)
	if err := r.sched.Set(model.ColumnHeatingSetpoint, res.Heating); err != nil {
		return err
	}
	return r.sched.Set(model.ColumnCoolingSetpoint, res.Cooling)
}

// vacancy is 1 on every step of a vacant day.
func (g *Generator) vacancy(span model.DaySpan) []float64 {
	out := make([]float64, g.cal.Steps())
	spd := g.cal.StepsPerDay()
	for d := 0; d < g.cal.Days(); d++ {
		if span.Contains(d) {
			series.Fill(out, d*spd, spd, 1)
		}
	}
	return out
}

func (g *Generator) publish(r *run, stage Stage) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(Progress{RunID: r.id, Building: r.b.ID, Stage: stage, Elapsed: time.Since(r.start)})
}

// setAll stores columns in canonical order so errors are reproducible.
func setAll(s *model.Schedule, cols map[string][]float64) error {
	for _, c := range model.Columns {
		v, ok := cols[c.Name]
		if !ok {
			continue
		}
		if err := s.Set(c.Name, v); err != nil {
			return err
		}
	}
	return nil
}
