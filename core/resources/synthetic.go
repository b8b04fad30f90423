package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/occsched/core/model"
)

// SyntheticOptions parameterizes WriteSynthetic.
type SyntheticOptions struct {
	// Clusters is the number of occupancy-type clusters to write.
	Clusters int
	// Regions lists the region codes of the monthly shift tables.
	Regions []string
}

// WriteSynthetic writes a complete, valid resource tree to dir. The tables
// follow plausible daily rhythms but are not derived from survey data; they
// exist for tests, demos and smoke runs.
func WriteSynthetic(dir string, opts SyntheticOptions) error {
	if opts.Clusters <= 0 {
		opts.Clusters = 4
	}
	if len(opts.Regions) == 0 {
		opts.Regions = []string{"CO", "NY", "TX"}
	}
	w := &treeWriter{root: dir}
	for _, dt := range model.DayTypes {
		for c := 0; c < opts.Clusters; c++ {
			w.write(initialPath(dir, dt, c), column(syntheticInitial(c)))
			w.write(transitionPath(dir, dt, c), syntheticTransitions(dt, c))
			for _, act := range model.DwellStates {
				for _, tod := range model.TimesOfDay {
					w.write(durationPath(dir, dt, c, act, tod), pairs(syntheticDwell(act, tod)))
				}
			}
		}
		w.write(shiftPath(dir, dt), syntheticShift(dt, opts.Regions))
	}
	for name, d := range syntheticEventDurations {
		w.write(filepath.Join(dir, "events", name+durationSuffix), pairs(d))
	}
	for name, d := range syntheticClusterSizes {
		w.write(filepath.Join(dir, "events", name+clusterSizeSuffix), pairs(d))
	}
	for name, rows := range syntheticPowerSamples {
		var b strings.Builder
		b.WriteString("duration_steps,energy_kwh\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "%d,%s\n", r.Steps, num(r.EnergyKWh))
		}
		w.write(filepath.Join(dir, "appliances", name+powerSuffix), b.String())
	}
	return w.err
}

type treeWriter struct {
	root string
	err  error
}

func (w *treeWriter) write(path, content string) {
	if w.err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.err = err
		return
	}
	w.err = os.WriteFile(path, []byte(content), 0o644)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func column(v []float64) string {
	var b strings.Builder
	for _, x := range v {
		b.WriteString(num(x))
		b.WriteByte('\n')
	}
	return b.String()
}

func pairs(d Distribution) string {
	var b strings.Builder
	b.WriteString("value,probability\n")
	for i := range d.Values {
		fmt.Fprintf(&b, "%s,%s\n", num(d.Values[i]), num(d.Probs[i]))
	}
	return b.String()
}

// normalize scales weights to six-decimal probabilities summing to one.
func normalize(w []float64) []float64 {
	total := 0.0
	for _, x := range w {
		total += x
	}
	out := make([]float64, len(w))
	acc := 0.0
	for i := 0; i < len(w)-1; i++ {
		out[i] = float64(int(w[i]/total*1e6)) / 1e6
		acc += out[i]
	}
	out[len(w)-1] = float64(int((1-acc)*1e6+0.5)) / 1e6
	return out
}

// Markov day starts at 4 AM; clusters differ in how much time is spent away.
var clusterAway = []float64{3, 1.5, 0.8, 0.4}

func syntheticInitial(cluster int) []float64 {
	away := clusterAway[cluster%len(clusterAway)]
	return normalize([]float64{8, 0.05, 0.02, 0.02, 0.02, away * 0.2, 1})
}

func syntheticTransitions(dt model.DayType, cluster int) string {
	var b strings.Builder
	away := clusterAway[cluster%len(clusterAway)]
	if dt == model.Weekend {
		away *= 0.4
	}
	for k := 0; k < model.MarkovStepsPerDay; k++ {
		hour := (4 + k/4) % 24
		for from := 0; from < model.NumStates; from++ {
			w := hourWeights(hour, away)
			switch model.State(from) {
			case model.StateSleeping, model.StateAbsent, model.StateIdle:
				w[from] += 4
			}
			row := normalize(w)
			for j, p := range row {
				if j > 0 {
					b.WriteByte(',')
				}
				b.WriteString(num(p))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hourWeights(hour int, away float64) []float64 {
	w := make([]float64, model.NumStates)
	switch {
	case hour < 6:
		w[model.StateSleeping] = 8
	case hour < 8:
		w[model.StateSleeping] = 2
	case hour >= 22:
		w[model.StateSleeping] = 4
	default:
		w[model.StateSleeping] = 0.3
	}
	w[model.StateAbsent] = 0.8
	if hour >= 8 && hour < 17 {
		w[model.StateAbsent] = away
	}
	w[model.StateIdle] = 3
	w[model.StateShower] = 0.1
	if hour >= 6 && hour < 9 {
		w[model.StateShower] = 0.6
	}
	w[model.StateCooking] = 0.1
	if hour == 7 || hour == 12 || (hour >= 17 && hour < 19) {
		w[model.StateCooking] = 0.8
	}
	w[model.StateDishwashing] = 0.05
	if hour == 8 || hour == 13 || hour == 20 {
		w[model.StateDishwashing] = 0.3
	}
	w[model.StateLaundry] = 0.02
	if hour >= 9 && hour < 20 {
		w[model.StateLaundry] = 0.15
	}
	return w
}

func syntheticDwell(act model.State, tod model.TimeOfDay) Distribution {
	switch act {
	case model.StateShower:
		return Distribution{Values: []float64{1, 2, 3}, Probs: []float64{0.7, 0.25, 0.05}}
	case model.StateCooking:
		if tod == model.Evening {
			return Distribution{Values: []float64{1, 2, 3, 4}, Probs: []float64{0.3, 0.35, 0.25, 0.1}}
		}
		return Distribution{Values: []float64{1, 2, 3}, Probs: []float64{0.5, 0.35, 0.15}}
	default:
		return Distribution{Values: []float64{1, 2, 3, 4}, Probs: []float64{0.5, 0.3, 0.15, 0.05}}
	}
}

var syntheticEventDurations = map[string]Distribution{
	ActivitySink:          {Values: []float64{15, 30, 60, 120, 240}, Probs: []float64{0.35, 0.3, 0.2, 0.1, 0.05}},
	ActivityShower:        {Values: []float64{240, 420, 540, 660, 900}, Probs: []float64{0.15, 0.3, 0.3, 0.15, 0.1}},
	ActivityDishwasher:    {Values: []float64{60, 120, 180}, Probs: []float64{0.5, 0.3, 0.2}},
	ActivityClothesWasher: {Values: []float64{90, 150, 240}, Probs: []float64{0.4, 0.4, 0.2}},
}

var syntheticClusterSizes = map[string]Distribution{
	ActivitySink:          {Values: []float64{1, 2, 3, 4, 5}, Probs: []float64{0.4, 0.25, 0.15, 0.12, 0.08}},
	ActivityDishwasher:    {Values: []float64{3, 4, 5, 6}, Probs: []float64{0.25, 0.35, 0.25, 0.15}},
	ActivityClothesWasher: {Values: []float64{2, 3, 4}, Probs: []float64{0.3, 0.5, 0.2}},
}

var syntheticPowerSamples = map[string][]PowerSample{
	ActivityDishwasher:    {{Steps: 4, EnergyKWh: 1.0}, {Steps: 5, EnergyKWh: 1.2}, {Steps: 6, EnergyKWh: 1.5}},
	ActivityClothesWasher: {{Steps: 2, EnergyKWh: 0.3}, {Steps: 3, EnergyKWh: 0.45}, {Steps: 4, EnergyKWh: 0.5}},
	ActivityClothesDryer:  {{Steps: 3, EnergyKWh: 2.0}, {Steps: 4, EnergyKWh: 2.6}, {Steps: 5, EnergyKWh: 3.1}},
	ActivityCooking:       {{Steps: 1, EnergyKWh: 0.4}, {Steps: 2, EnergyKWh: 0.8}, {Steps: 3, EnergyKWh: 1.1}},
}

func syntheticShift(dt model.DayType, regions []string) string {
	var b strings.Builder
	b.WriteString("region,jan,feb,mar,apr,may,jun,jul,aug,sep,oct,nov,dec\n")
	for i, code := range regions {
		b.WriteString(strings.ToUpper(code))
		for m := 0; m < 12; m++ {
			// Later summer evenings push activity later; weekends a bit more.
			shift := 0
			if m >= 4 && m <= 8 {
				shift = 15 * (i % 3)
				if dt == model.Weekend {
					shift += 15
				}
			}
			fmt.Fprintf(&b, ",%d", shift)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
