// Package markov simulates per-occupant activity sequences for a full year
// using day-type dependent Markov chains with explicit dwell times.
package markov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/core/resources"
	"github.com/kilianp07/occsched/core/series"
	"github.com/kilianp07/occsched/infra/logger"
)

// DefaultClusterProbabilities is the share of each occupancy-type cluster
// in the surveyed population.
var DefaultClusterProbabilities = []float64{0.381, 0.297, 0.165, 0.157}

// dayStartOffset re-anchors sequences from the 4 AM survey day start to
// midnight: 4 hours of 15-minute steps.
const dayStartOffset = 4 * 60 / model.MarkovMinutes

// SpecSource resolves the tables of an occupancy-type cluster.
type SpecSource interface {
	Markov(cluster int) (*resources.MarkovChainSpec, bool)
}

// Simulator generates occupant state sequences.
type Simulator struct {
	cal          model.Calendar
	clusterProbs []float64
	log          logger.Logger
}

// NewSimulator validates the cluster probability table.
func NewSimulator(cal model.Calendar, clusterProbs []float64, log logger.Logger) (*Simulator, error) {
	if len(clusterProbs) == 0 {
		clusterProbs = DefaultClusterProbabilities
	}
	for _, p := range clusterProbs {
		if p < 0 {
			return nil, &model.ConfigurationError{Field: "generation.cluster_probabilities", Reason: "negative probability"}
		}
	}
	if sum := floats.Sum(clusterProbs); math.Abs(sum-1) > resources.Tolerance {
		return nil, &model.ConfigurationError{Field: "generation.cluster_probabilities", Reason: fmt.Sprintf("sums to %.6f, want 1", sum)}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	cp := make([]float64, len(clusterProbs))
	copy(cp, clusterProbs)
	return &Simulator{cal: cal, clusterProbs: cp, log: log}, nil
}

// Clusters returns the number of occupancy-type clusters.
func (s *Simulator) Clusters() int { return len(s.clusterProbs) }

// Simulate returns count occupants with full-year sequences.
//
// Draw order: for each occupant in turn, one draw selects its cluster, then
// its whole year is simulated before the next occupant's cluster draw.
func (s *Simulator) Simulate(count int, specs SpecSource, rng *random.Stream) ([]model.Occupant, error) {
	if count < 0 {
		return nil, &model.ConfigurationError{Field: "building.occupants", Reason: "must not be negative"}
	}
	occupants := make([]model.Occupant, 0, count)
	for i := 0; i < count; i++ {
		// Draw: occupancy-type cluster.
		cluster := rng.WeightedIndex(s.clusterProbs)
		spec, ok := specs.Markov(cluster)
		if !ok {
			return nil, &model.ConfigurationError{Field: "generation.cluster_probabilities", Reason: fmt.Sprintf("no Markov tables for cluster %d", cluster)}
		}
		states, err := s.simulateYear(spec, rng)
		if err != nil {
			return nil, fmt.Errorf("occupant %d: %w", i, err)
		}
		occupants = append(occupants, model.NewOccupant(cluster, states))
		s.log.Debugw("occupant simulated", map[string]any{"occupant": i, "cluster": cluster})
	}
	return occupants, nil
}

func (s *Simulator) simulateYear(spec *resources.MarkovChainSpec, rng *random.Stream) ([]model.State, error) {
	states := make([]model.State, s.cal.MarkovSteps())
	for day := 0; day < s.cal.Days(); day++ {
		out := states[day*model.MarkovStepsPerDay : (day+1)*model.MarkovStepsPerDay]
		if err := simulateDay(spec, s.cal.DayType(day), rng, out); err != nil {
			return nil, fmt.Errorf("day %d: %w", day, err)
		}
	}
	return series.RotateStates(states, dayStartOffset), nil
}

// cursor walks the steps of one Markov day, writing each dwell period.
type cursor struct {
	out  []model.State
	step int
}

func (c *cursor) done() bool { return c.step >= len(c.out) }

// dwell writes state for n steps, truncated at the end of the day.
func (c *cursor) dwell(state model.State, n int) {
	for i := 0; i < n && !c.done(); i++ {
		c.out[c.step] = state
		c.step++
	}
}

// simulateDay fills out, one Markov day anchored at 4 AM.
//
// Draw order per dwell period: one draw for the entered state (from the
// initial vector at day start, from the transition row afterwards), then
// one draw for the dwell length when the state carries a duration
// distribution.
func simulateDay(spec *resources.MarkovChainSpec, dt model.DayType, rng *random.Stream, out []model.State) error {
	chain := spec.Day(dt)
	probs := chain.Initial
	c := cursor{out: out}
	for !c.done() {
		// Draw: next active state.
		state := model.State(rng.WeightedIndex(probs))
		n, err := dwellSteps(spec, state, dt, c.step, rng)
		if err != nil {
			return err
		}
		c.dwell(state, n)
		if !c.done() {
			probs = chain.Row(c.step-1, state)
		}
	}
	return nil
}

// dwellSteps returns how many steps the occupant stays in state.
func dwellSteps(spec *resources.MarkovChainSpec, state model.State, dt model.DayType, step int, rng *random.Stream) (int, error) {
	if !state.HasDwell() {
		return 1, nil
	}
	tod := model.BucketForHour(step / 4)
	d, ok := spec.Duration(state, dt, tod)
	if !ok || d.Len() == 0 {
		return 0, &model.ResourceFormatError{
			Path:   fmt.Sprintf("%s/activity_duration/cluster_%d_%s_%s.csv", dt, spec.Cluster, state, tod),
			Reason: "activity duration distribution missing",
		}
	}
	// Draw: dwell length.
	n := int(d.Values[rng.WeightedIndex(d.Probs)])
	if n < 1 {
		n = 1
	}
	return n, nil
}
