package resources

import (
	"fmt"
	"strings"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/infra/logger"
)

// Store reads probability tables from a resource directory.
type Store struct {
	root string
	log  logger.Logger
}

// NewStore returns a store rooted at path.
func NewStore(path string) *Store {
	return &Store{root: path, log: logger.New("resources")}
}

// Root returns the resource directory.
func (s *Store) Root() string { return s.root }

// LoadMarkov loads the weekday and weekend tables and the activity-duration
// distributions of one occupancy-type cluster.
func (s *Store) LoadMarkov(cluster int) (*MarkovChainSpec, error) {
	spec := &MarkovChainSpec{Cluster: cluster}
	for _, dt := range model.DayTypes {
		day, err := loadDayChain(s.root, dt, cluster)
		if err != nil {
			return nil, err
		}
		spec.days[dt] = day
	}
	durations, err := loadDurations(s.root, cluster)
	if err != nil {
		return nil, err
	}
	spec.durations = durations
	return spec, nil
}

// LoadEventDistributions loads every event and appliance table keyed by
// activity name.
func (s *Store) LoadEventDistributions() (map[string]*EventDistribution, error) {
	return loadEventDistributions(s.root)
}

// LoadMonthlyShift returns the per-month minute shift of a region for one
// day type. An empty code means no shift.
func (s *Store) LoadMonthlyShift(dt model.DayType, code string) (MonthlyShift, error) {
	if code == "" {
		return MonthlyShift{}, nil
	}
	table, err := loadShiftTable(s.root, dt)
	if err != nil {
		return MonthlyShift{}, err
	}
	return lookupShift(table, shiftPath(s.root, dt), code)
}

// LoadTables loads everything a generation run needs for the given number
// of occupancy-type clusters.
func (s *Store) LoadTables(clusters int) (*Tables, error) {
	if clusters < 1 {
		return nil, &model.ConfigurationError{Field: "generation.cluster_probabilities", Reason: "at least one cluster is required"}
	}
	t := &Tables{root: s.root, markov: make(map[int]*MarkovChainSpec, clusters)}
	for c := 0; c < clusters; c++ {
		spec, err := s.LoadMarkov(c)
		if err != nil {
			return nil, err
		}
		t.markov[c] = spec
	}
	events, err := s.LoadEventDistributions()
	if err != nil {
		return nil, err
	}
	t.events = events
	for _, dt := range model.DayTypes {
		table, err := loadShiftTable(s.root, dt)
		if err != nil {
			return nil, err
		}
		t.shifts[dt] = table
	}
	s.log.Infof("loaded %d clusters, %d event tables from %s", clusters, len(events), s.root)
	return t, nil
}

// Tables is the complete, validated, read-only resource set of a run.
type Tables struct {
	root   string
	markov map[int]*MarkovChainSpec
	events map[string]*EventDistribution
	shifts [2]map[string]MonthlyShift
}

// Markov returns the tables of a cluster.
func (t *Tables) Markov(cluster int) (*MarkovChainSpec, bool) {
	m, ok := t.markov[cluster]
	return m, ok
}

// Clusters returns the number of loaded clusters.
func (t *Tables) Clusters() int { return len(t.markov) }

// Event returns the tables of an activity.
func (t *Tables) Event(activity string) (*EventDistribution, bool) {
	e, ok := t.events[activity]
	return e, ok
}

// MonthlyShift returns a region's shift for a day type; an empty code means
// no shift.
func (t *Tables) MonthlyShift(dt model.DayType, code string) (MonthlyShift, error) {
	if code == "" {
		return MonthlyShift{}, nil
	}
	return lookupShift(t.shifts[dt], shiftPath(t.root, dt), code)
}

func lookupShift(table map[string]MonthlyShift, path, code string) (MonthlyShift, error) {
	ms, ok := table[strings.ToUpper(code)]
	if !ok {
		return MonthlyShift{}, formatErr(path, "%s", fmt.Sprintf("no shift row for region %q", code))
	}
	return ms, nil
}
