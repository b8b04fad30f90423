package fixtures

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/series"
)

// pass accumulates the minute series of one end use.
type pass struct {
	s      *Synthesizer
	occ    []model.Occupant
	rng    *random.Stream
	names  []string
	out    map[string][]float64
	events map[string]int
}

func newPass(s *Synthesizer, occupants []model.Occupant, rng *random.Stream) *pass {
	return &pass{
		s:      s,
		occ:    occupants,
		rng:    rng,
		out:    make(map[string][]float64),
		events: make(map[string]int),
	}
}

// series allocates a zeroed minute series for the whole year.
func (p *pass) series(name string) []float64 {
	v := make([]float64, p.s.cal.Minutes())
	p.names = append(p.names, name)
	p.out[name] = v
	p.events[name] = 0
	return v
}

type gateFunc func(occupants []model.Occupant, step int) bool

func notAsleepOrAway(occupants []model.Occupant, step int) bool {
	for _, o := range occupants {
		if s := o.At(step); s != model.StateSleeping && s != model.StateAbsent {
			return true
		}
	}
	return false
}

func inState(s model.State) gateFunc {
	return func(occupants []model.Occupant, step int) bool {
		return model.AnyIn(occupants, s, step)
	}
}

// gate evaluates fn at every 15-minute step.
func (p *pass) gate(fn gateFunc) []bool {
	g := make([]bool, p.s.cal.MarkovSteps())
	if len(p.occ) == 0 {
		return g
	}
	for t := range g {
		g[t] = fn(p.occ, t)
	}
	return g
}

// write adds flow for ceil(d) minutes starting at minute m, scaled so the
// volume matches d minutes. It returns the number of minutes covered.
func (p *pass) write(v []float64, m int, d, flow float64) int {
	n := int(math.Ceil(d))
	if n <= 0 {
		return 0
	}
	series.Add(v, m, n, flow*d/float64(n))
	return n
}

// event draws one duration from dist and writes it at minute m.
func (p *pass) event(v []float64, m int, dist *resources.EventDistribution, flow float64) int {
	// Draw: event duration.
	d := dist.DurationMinutes[p.rng.WeightedIndex(dist.DurationProbs)]
	return p.write(v, m, d, flow)
}

// dailyClusters returns the cluster count of day d so the yearly total is
// floor(rate*days) even when rate is below one per day.
func dailyClusters(rate float64, d int) int {
	return int(math.Floor(rate*float64(d+1))) - int(math.Floor(rate*float64(d)))
}

// cluster synthesizes a cluster-based water end use.
//
// Draw order: the building flow rate, then per day and per cluster the
// start minute, the cluster size and one duration per event.
func (p *pass) cluster(name string, dist *resources.EventDistribution, cp ClusterParams, gate []bool) {
	v := p.series(name)
	// Draw: building flow rate.
	flow := p.rng.Gaussian(cp.Flow.Mean, cp.Flow.Std, cp.Flow.Min)
	cal := p.s.cal
	rate := cp.ClustersPerYear * (cp.Scale*float64(len(p.occ)) + cp.Base) / float64(cal.Days())
	weights := make([]float64, model.MinutesPerDay)
	for day := 0; day < cal.Days(); day++ {
		count := dailyClusters(rate, day)
		if count == 0 {
			continue
		}
		base := day * model.MinutesPerDay
		for m := range weights {
			weights[m] = 0
			if gate[(base+m)/model.MarkovMinutes] {
				weights[m] = cp.Onset[m/60]
			}
		}
		for c := 0; c < count; c++ {
			total := floats.Sum(weights)
			if total <= 0 {
				break
			}
			// Draw: cluster start minute.
			start := p.rng.WeightedIndexTotal(weights, total)
			weights[start] = 0
			// Draw: cluster size.
			size := dist.ClusterSizes[p.rng.WeightedIndex(dist.ClusterProbs)]
			m := base + start
			for e := 0; e < size; e++ {
				m += p.event(v, m, dist, flow) + cp.GapMinutes
			}
			p.events[name] += size
		}
	}
}

// showerBath turns every Shower onset of every occupant into one event.
//
// Draw order: shower flow, bath flow, then per onset one draw choosing
// bath or shower followed by that event's duration draw.
func (p *pass) showerBath() {
	sp := p.s.params.Shower
	shower := p.series(SeriesShower)
	bath := p.series(SeriesBath)
	// Draw: shower flow rate, then bath flow rate.
	showerFlow := p.rng.Gaussian(sp.ShowerFlow.Mean, sp.ShowerFlow.Std, sp.ShowerFlow.Min)
	bathFlow := p.rng.Gaussian(sp.BathFlow.Mean, sp.BathFlow.Std, sp.BathFlow.Min)
	for _, o := range p.occ {
		for t := 0; t < o.Len(); t++ {
			if o.At(t) != model.StateShower || (t > 0 && o.At(t-1) == model.StateShower) {
				continue
			}
			start := t * model.MarkovMinutes
			// Draw: bath or shower.
			if p.rng.Float64() < sp.BathRatio {
				// Draw: bath duration.
				d := p.rng.Gaussian(sp.BathDuration.Mean, sp.BathDuration.Std, sp.BathDuration.Min)
				p.write(bath, start, d, bathFlow)
				p.events[SeriesBath]++
				continue
			}
			p.event(shower, start, p.s.shower, showerFlow)
			p.events[SeriesShower]++
		}
	}
}

// follower is an appliance cycle that runs after each primary cycle.
type follower struct {
	name string
	dist *resources.EventDistribution
	gap  int
}

// appliance walks the 15-minute slots and starts a power cycle whenever
// the gate opens after a closed slot. The walk skips the cycle length.
//
// Draw order: one joint sample per cycle, then the follower's sample.
func (p *pass) appliance(name string, dist *resources.EventDistribution, state model.State, f *follower) {
	v := p.series(name)
	var fv []float64
	if f != nil {
		fv = p.series(f.name)
	}
	steps := p.s.cal.MarkovSteps()
	last := 0
	for t := 0; t < steps; {
		if !model.AnyIn(p.occ, state, t) {
			last = 0
			t++
			continue
		}
		if last != 0 {
			t++
			continue
		}
		// Draw: appliance cycle.
		smp := dist.PowerSamples[p.rng.IntN(len(dist.PowerSamples))]
		start := t * model.MarkovMinutes
		length := smp.Steps * model.MarkovMinutes
		series.Add(v, start, length, smp.AveragePowerKW())
		p.events[name]++
		if f != nil {
			// Draw: follower cycle.
			fs := f.dist.PowerSamples[p.rng.IntN(len(f.dist.PowerSamples))]
			series.Add(fv, start+length+f.gap, fs.Steps*model.MarkovMinutes, fs.AveragePowerKW())
			p.events[f.name]++
		}
		last = 1
		t += smp.Steps
	}
}

// finish applies the random offset and monthly shift to each series in
// creation order.
func (p *pass) finish() map[string][]float64 {
	off := p.s.params.OffsetMinutes
	for _, name := range p.names {
		// Draw: random offset.
		shift := p.rng.UniformInt(-off, off)
		v := series.Rotate(p.out[name], shift)
		p.out[name] = series.ShiftMonthly(v, p.s.cal, p.s.shifts.Weekday, p.s.shifts.Weekend)
	}
	return p.out
}
