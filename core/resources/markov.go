package resources

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/occsched/core/model"
)

// DayChain holds the Markov tables of one day type.
type DayChain struct {
	// Initial is the state distribution at the start of the Markov day.
	Initial []float64
	// blocks[k] is the 7x7 transition matrix evaluated after step k.
	blocks []*mat.Dense
}

// Row returns the transition probabilities out of state from after the
// given Markov step of the day. The slice aliases the table and must not be
// modified.
func (d *DayChain) Row(step int, from model.State) []float64 {
	return d.blocks[step].RawRowView(int(from))
}

// Steps returns the number of transition blocks.
func (d *DayChain) Steps() int { return len(d.blocks) }

// DurationKey identifies one activity-duration distribution of a cluster.
type DurationKey struct {
	Activity  model.State
	DayType   model.DayType
	TimeOfDay model.TimeOfDay
}

// MarkovChainSpec holds every table of one occupancy-type cluster.
type MarkovChainSpec struct {
	Cluster   int
	days      [2]DayChain
	durations map[DurationKey]Distribution
}

// Day returns the tables of the given day type.
func (m *MarkovChainSpec) Day(dt model.DayType) *DayChain { return &m.days[dt] }

// Duration returns the dwell distribution, in Markov steps, of an activity.
func (m *MarkovChainSpec) Duration(activity model.State, dt model.DayType, tod model.TimeOfDay) (Distribution, bool) {
	d, ok := m.durations[DurationKey{Activity: activity, DayType: dt, TimeOfDay: tod}]
	return d, ok
}

func initialPath(root string, dt model.DayType, cluster int) string {
	return filepath.Join(root, dt.String(), fmt.Sprintf("mkv_chain_initial_prob_cluster_%d.csv", cluster))
}

func transitionPath(root string, dt model.DayType, cluster int) string {
	return filepath.Join(root, dt.String(), fmt.Sprintf("mkv_chain_transition_prob_cluster_%d.csv", cluster))
}

func durationPath(root string, dt model.DayType, cluster int, activity model.State, tod model.TimeOfDay) string {
	return filepath.Join(root, dt.String(), "activity_duration",
		fmt.Sprintf("cluster_%d_%s_%s.csv", cluster, activity, tod))
}

func loadDayChain(root string, dt model.DayType, cluster int) (DayChain, error) {
	ipath := initialPath(root, dt, cluster)
	rows, err := readMatrix(ipath, 1)
	if err != nil {
		return DayChain{}, err
	}
	if len(rows) != model.NumStates {
		return DayChain{}, formatErr(ipath, "%d rows, want %d", len(rows), model.NumStates)
	}
	initial := make([]float64, model.NumStates)
	for i, r := range rows {
		initial[i] = r[0]
	}
	if err := checkProbabilities(ipath, "initial vector", initial); err != nil {
		return DayChain{}, err
	}

	tpath := transitionPath(root, dt, cluster)
	rows, err = readMatrix(tpath, model.NumStates)
	if err != nil {
		return DayChain{}, err
	}
	want := model.MarkovStepsPerDay * model.NumStates
	if len(rows) != want {
		return DayChain{}, formatErr(tpath, "%d rows, want %d (%d steps x %d states)", len(rows), want, model.MarkovStepsPerDay, model.NumStates)
	}
	blocks := make([]*mat.Dense, model.MarkovStepsPerDay)
	for k := range blocks {
		b := mat.NewDense(model.NumStates, model.NumStates, nil)
		for s := 0; s < model.NumStates; s++ {
			row := rows[k*model.NumStates+s]
			if err := checkProbabilities(tpath, fmt.Sprintf("row %d", k*model.NumStates+s+1), row); err != nil {
				return DayChain{}, err
			}
			b.SetRow(s, row)
		}
		blocks[k] = b
	}
	return DayChain{Initial: initial, blocks: blocks}, nil
}

func loadDurations(root string, cluster int) (map[DurationKey]Distribution, error) {
	out := make(map[DurationKey]Distribution, len(model.DwellStates)*len(model.DayTypes)*len(model.TimesOfDay))
	for _, dt := range model.DayTypes {
		for _, act := range model.DwellStates {
			for _, tod := range model.TimesOfDay {
				path := durationPath(root, dt, cluster, act, tod)
				d, err := readDistribution(path)
				if err != nil {
					return nil, err
				}
				for i, v := range d.Values {
					if v < 1 || v != float64(int(v)) {
						return nil, formatErr(path, "row %d: duration %g is not a positive whole number of steps", i+1, v)
					}
				}
				out[DurationKey{Activity: act, DayType: dt, TimeOfDay: tod}] = d
			}
		}
	}
	return out, nil
}

// NewDayChain validates in-memory tables. transitions holds 96 consecutive
// 7x7 blocks, one row per line, in the same layout as the CSV file.
func NewDayChain(initial []float64, transitions [][]float64) (DayChain, error) {
	const src = "<memory>"
	if len(initial) != model.NumStates {
		return DayChain{}, formatErr(src, "initial vector has %d entries, want %d", len(initial), model.NumStates)
	}
	if err := checkProbabilities(src, "initial vector", initial); err != nil {
		return DayChain{}, err
	}
	if len(transitions) != model.MarkovStepsPerDay*model.NumStates {
		return DayChain{}, formatErr(src, "%d transition rows, want %d", len(transitions), model.MarkovStepsPerDay*model.NumStates)
	}
	blocks := make([]*mat.Dense, model.MarkovStepsPerDay)
	for k := range blocks {
		b := mat.NewDense(model.NumStates, model.NumStates, nil)
		for s := 0; s < model.NumStates; s++ {
			row := transitions[k*model.NumStates+s]
			if len(row) != model.NumStates {
				return DayChain{}, formatErr(src, "transition row %d has %d entries", k*model.NumStates+s+1, len(row))
			}
			if err := checkProbabilities(src, fmt.Sprintf("transition row %d", k*model.NumStates+s+1), row); err != nil {
				return DayChain{}, err
			}
			b.SetRow(s, row)
		}
		blocks[k] = b
	}
	iv := make([]float64, len(initial))
	copy(iv, initial)
	return DayChain{Initial: iv, blocks: blocks}, nil
}

// NewMarkovChainSpec assembles a cluster spec from validated parts.
func NewMarkovChainSpec(cluster int, weekday, weekend DayChain, durations map[DurationKey]Distribution) *MarkovChainSpec {
	cp := make(map[DurationKey]Distribution, len(durations))
	for k, v := range durations {
		cp[k] = v
	}
	return &MarkovChainSpec{Cluster: cluster, days: [2]DayChain{weekday, weekend}, durations: cp}
}
