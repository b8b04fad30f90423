package model

import (
	"fmt"
	"sort"
)

// Schedule maps column names to one value per simulation step.
// It is built incrementally by the generator and frozen before it is
// returned; a frozen schedule rejects writes.
type Schedule struct {
	steps  int
	series map[string][]float64
	frozen bool
}

// NewSchedule returns an empty schedule whose series have the given length.
func NewSchedule(steps int) *Schedule {
	return &Schedule{steps: steps, series: make(map[string][]float64)}
}

// Steps returns the length of every series.
func (s *Schedule) Steps() int { return s.steps }

// Set stores a series under name.
func (s *Schedule) Set(name string, values []float64) error {
	if s.frozen {
		return fmt.Errorf("schedule is frozen")
	}
	if len(values) != s.steps {
		return fmt.Errorf("column %s has %d values, want %d", name, len(values), s.steps)
	}
	s.series[name] = values
	return nil
}

// Get returns the series stored under name. The slice must not be modified.
func (s *Schedule) Get(name string) ([]float64, bool) {
	v, ok := s.series[name]
	return v, ok
}

// Has reports whether a series is present.
func (s *Schedule) Has(name string) bool {
	_, ok := s.series[name]
	return ok
}

// Names returns the present columns, registered columns first in canonical
// order followed by any others sorted by name.
func (s *Schedule) Names() []string {
	names := make([]string, 0, len(s.series))
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c.Name] = true
		if _, ok := s.series[c.Name]; ok {
			names = append(names, c.Name)
		}
	}
	var extra []string
	for n := range s.series {
		if !known[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Freeze makes the schedule read-only.
func (s *Schedule) Freeze() { s.frozen = true }

// Frozen reports whether Freeze has been called.
func (s *Schedule) Frozen() bool { return s.frozen }
