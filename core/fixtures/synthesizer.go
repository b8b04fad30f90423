// Package fixtures synthesizes minute-resolution water-fixture and
// appliance events gated by occupant activity, and reduces them to
// peak-normalized schedule columns.
package fixtures

import (
	"fmt"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/series"
	"github.com/kilianp07/occsched/infra/logger"
)

// EndUse identifies one synthesis pass.
type EndUse string

const (
	UseSink               EndUse = "sink"
	UseShowerBath         EndUse = "shower_bath"
	UseDishwasherWater    EndUse = "dishwasher_water"
	UseClothesWasherWater EndUse = "clothes_washer_water"
	UseDishwasherPower    EndUse = "dishwasher_power"
	UseLaundryPower       EndUse = "laundry_power"
	UseCookingPower       EndUse = "cooking_power"
)

// Order is the sequence in which end uses consume the random stream.
var Order = []EndUse{
	UseSink,
	UseShowerBath,
	UseDishwasherWater,
	UseClothesWasherWater,
	UseDishwasherPower,
	UseLaundryPower,
	UseCookingPower,
}

// Minute-series names produced by Synthesize.
const (
	SeriesSink               = "sink"
	SeriesShower             = "shower"
	SeriesBath               = "bath"
	SeriesDishwasherWater    = "dishwasher_water"
	SeriesClothesWasherWater = "clothes_washer_water"
	SeriesDishwasherPower    = "dishwasher_power"
	SeriesClothesWasherPower = "clothes_washer_power"
	SeriesClothesDryerPower  = "clothes_dryer_power"
	SeriesCookingPower       = "cooking_power"
)

// EventSource resolves event tables by activity name.
type EventSource interface {
	Event(activity string) (*resources.EventDistribution, bool)
}

// Shifts are the weekday and weekend monthly shifts of the building's region.
type Shifts struct {
	Weekday resources.MonthlyShift
	Weekend resources.MonthlyShift
}

// Synthesizer generates end-use series for one building.
type Synthesizer struct {
	cal    model.Calendar
	params Params
	shifts Shifts
	log    logger.Logger

	sink          *resources.EventDistribution
	shower        *resources.EventDistribution
	dishwasher    *resources.EventDistribution
	clothesWasher *resources.EventDistribution
	clothesDryer  *resources.EventDistribution
	cooking       *resources.EventDistribution
}

// requirement names the tables an activity must provide.
type requirement struct {
	activity string
	dst      **resources.EventDistribution
	check    func(*resources.EventDistribution) bool
	what     string
}

// NewSynthesizer resolves every table the end uses need up front so a
// missing one fails before any simulation.
func NewSynthesizer(cal model.Calendar, src EventSource, shifts Shifts, params Params, log logger.Logger) (*Synthesizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Synthesizer{cal: cal, params: params, shifts: shifts, log: log}
	clusters := func(e *resources.EventDistribution) bool { return e.HasDurations() && e.HasClusterSizes() }
	durations := func(e *resources.EventDistribution) bool { return e.HasDurations() }
	power := func(e *resources.EventDistribution) bool { return e.HasPowerSamples() }
	reqs := []requirement{
		{resources.ActivitySink, &s.sink, clusters, "event durations and cluster sizes"},
		{resources.ActivityShower, &s.shower, durations, "event durations"},
		{resources.ActivityDishwasher, &s.dishwasher, func(e *resources.EventDistribution) bool { return clusters(e) && power(e) }, "event durations, cluster sizes and power samples"},
		{resources.ActivityClothesWasher, &s.clothesWasher, func(e *resources.EventDistribution) bool { return clusters(e) && power(e) }, "event durations, cluster sizes and power samples"},
		{resources.ActivityClothesDryer, &s.clothesDryer, power, "power samples"},
		{resources.ActivityCooking, &s.cooking, power, "power samples"},
	}
	for _, r := range reqs {
		e, ok := src.Event(r.activity)
		if !ok || !r.check(e) {
			return nil, &model.ResourceFormatError{Path: r.activity, Reason: "missing " + r.what}
		}
		*r.dst = e
	}
	return s, nil
}

// Output is the result of SynthesizeAll.
type Output struct {
	// Columns are peak-normalized at the calendar step.
	Columns map[string][]float64
	// Events counts generated events per minute series.
	Events map[string]int
}

// Synthesize runs one end use and returns its minute series after the
// random offset and the monthly shift, with the number of events written.
func (s *Synthesizer) Synthesize(use EndUse, occupants []model.Occupant, rng *random.Stream) (map[string][]float64, map[string]int, error) {
	p := newPass(s, occupants, rng)
	switch use {
	case UseSink:
		p.cluster(SeriesSink, s.sink, s.params.Sink, p.gate(notAsleepOrAway))
	case UseShowerBath:
		p.showerBath()
	case UseDishwasherWater:
		p.cluster(SeriesDishwasherWater, s.dishwasher, s.params.DishwasherWater, p.gate(inState(model.StateDishwashing)))
	case UseClothesWasherWater:
		p.cluster(SeriesClothesWasherWater, s.clothesWasher, s.params.ClothesWasherWater, p.gate(inState(model.StateLaundry)))
	case UseDishwasherPower:
		p.appliance(SeriesDishwasherPower, s.dishwasher, model.StateDishwashing, nil)
	case UseLaundryPower:
		p.appliance(SeriesClothesWasherPower, s.clothesWasher, model.StateLaundry, &follower{name: SeriesClothesDryerPower, dist: s.clothesDryer, gap: s.params.DryerGapMinutes})
	case UseCookingPower:
		p.appliance(SeriesCookingPower, s.cooking, model.StateCooking, nil)
	default:
		return nil, nil, fmt.Errorf("unknown end use %q", use)
	}
	return p.finish(), p.events, nil
}

// SynthesizeAll runs every end use in Order and builds the schedule columns.
func (s *Synthesizer) SynthesizeAll(occupants []model.Occupant, rng *random.Stream) (*Output, error) {
	minutes := make(map[string][]float64)
	events := make(map[string]int)
	for _, use := range Order {
		out, counts, err := s.Synthesize(use, occupants, rng)
		if err != nil {
			return nil, err
		}
		for k, v := range out {
			minutes[k] = v
		}
		for k, v := range counts {
			events[k] = v
		}
	}
	step := func(name string) []float64 {
		return series.Normalize(series.Aggregate(minutes[name], s.cal.MinutesPerStep))
	}
	cols := map[string][]float64{
		model.ColumnHotWaterFixtures:      series.Normalize(series.Sum(step(SeriesShower), step(SeriesSink), step(SeriesBath))),
		model.ColumnHotWaterDishwasher:    step(SeriesDishwasherWater),
		model.ColumnHotWaterClothesWasher: step(SeriesClothesWasherWater),
		model.ColumnDishwasher:            step(SeriesDishwasherPower),
		model.ColumnClothesWasher:         step(SeriesClothesWasherPower),
		model.ColumnClothesDryer:          step(SeriesClothesDryerPower),
		model.ColumnCookingRange:          step(SeriesCookingPower),
	}
	s.log.Debugw("end uses synthesized", map[string]any{"events": events})
	return &Output{Columns: cols, Events: events}, nil
}
