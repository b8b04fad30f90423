// Package activity reduces occupant state sequences to population fractions
// and turns them into occupancy-modulated end-use schedules.
package activity

import (
	"github.com/kilianp07/occsched/core/model"
)

// Fractions holds population shares per 15-minute step.
type Fractions struct {
	Sleep   []float64
	Away    []float64
	Idle    []float64
	Active  []float64
	Present []float64
}

// Len returns the number of 15-minute steps covered.
func (f Fractions) Len() int { return len(f.Sleep) }

// Aggregate computes the share of occupants sleeping, away and idle at each
// step. Active is 1-(Away+Sleep) and Present is 1-Away. With no occupants
// every fraction, Active and Present included, is zero.
func Aggregate(occupants []model.Occupant, steps int) Fractions {
	f := Fractions{
		Sleep:   make([]float64, steps),
		Away:    make([]float64, steps),
		Idle:    make([]float64, steps),
		Active:  make([]float64, steps),
		Present: make([]float64, steps),
	}
	if len(occupants) == 0 {
		return f
	}
	n := float64(len(occupants))
	for t := 0; t < steps; t++ {
		var sleep, away, idle int
		for _, o := range occupants {
			switch o.At(t) {
			case model.StateSleeping:
				sleep++
			case model.StateAbsent:
				away++
			case model.StateIdle:
				idle++
			}
		}
		f.Sleep[t] = float64(sleep) / n
		f.Away[t] = float64(away) / n
		f.Idle[t] = float64(idle) / n
		f.Active[t] = float64(len(occupants)-sleep-away) / n
		f.Present[t] = float64(len(occupants)-away) / n
	}
	return f
}

// mean averages v over the 15-minute steps overlapping target step t.
func mean(v []float64, cal model.Calendar, t int) float64 {
	start := t * cal.MinutesPerStep / model.MarkovMinutes
	n := cal.MinutesPerStep / model.MarkovMinutes
	if n <= 1 {
		return v[start]
	}
	var sum float64
	for i := start; i < start+n; i++ {
		sum += v[i]
	}
	return sum / float64(n)
}

// Resample maps a 15-minute fraction onto the calendar's step. Coarser
// steps average the covered quarters, finer steps repeat them.
func Resample(v []float64, cal model.Calendar) []float64 {
	out := make([]float64, cal.Steps())
	for t := range out {
		out[t] = mean(v, cal, t)
	}
	return out
}
