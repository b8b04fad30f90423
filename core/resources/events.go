package resources

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Activity names of the event and appliance tables.
const (
	ActivitySink          = "sink"
	ActivityShower        = "shower"
	ActivityDishwasher    = "dishwasher"
	ActivityClothesWasher = "clothes_washer"
	ActivityClothesDryer  = "clothes_dryer"
	ActivityCooking       = "cooking"
)

const (
	durationSuffix    = "_duration_probability.csv"
	clusterSizeSuffix = "_cluster_size_probability.csv"
	powerSuffix       = "_power_duration.csv"
)

// PowerSample is one observed appliance cycle.
type PowerSample struct {
	// Steps is the cycle length in 15-minute steps.
	Steps     int
	EnergyKWh float64
}

// AveragePowerKW returns the mean draw over the cycle.
func (p PowerSample) AveragePowerKW() float64 {
	return p.EnergyKWh / (float64(p.Steps) * 0.25)
}

// EventDistribution groups the tables of one end-use activity. Any part may
// be empty when the activity does not use it.
type EventDistribution struct {
	Activity string
	// DurationMinutes are event durations converted from seconds.
	DurationMinutes []float64
	DurationProbs   []float64
	ClusterSizes    []int
	ClusterProbs    []float64
	PowerSamples    []PowerSample
}

// HasDurations reports whether an event-duration table was loaded.
func (e *EventDistribution) HasDurations() bool { return len(e.DurationMinutes) > 0 }

// HasClusterSizes reports whether a cluster-size table was loaded.
func (e *EventDistribution) HasClusterSizes() bool { return len(e.ClusterSizes) > 0 }

// HasPowerSamples reports whether an appliance sample table was loaded.
func (e *EventDistribution) HasPowerSamples() bool { return len(e.PowerSamples) > 0 }

func loadEventDistributions(root string) (map[string]*EventDistribution, error) {
	out := make(map[string]*EventDistribution)
	get := func(name string) *EventDistribution {
		d, ok := out[name]
		if !ok {
			d = &EventDistribution{Activity: name}
			out[name] = d
		}
		return d
	}

	eventsDir := filepath.Join(root, "events")
	for _, name := range listCSV(eventsDir) {
		path := filepath.Join(eventsDir, name)
		switch {
		case strings.HasSuffix(name, durationSuffix):
			d, err := readDistribution(path)
			if err != nil {
				return nil, err
			}
			ev := get(strings.TrimSuffix(name, durationSuffix))
			ev.DurationProbs = d.Probs
			ev.DurationMinutes = make([]float64, d.Len())
			for i, sec := range d.Values {
				if sec <= 0 {
					return nil, formatErr(path, "row %d: duration must be positive", i+1)
				}
				ev.DurationMinutes[i] = sec / 60
			}
		case strings.HasSuffix(name, clusterSizeSuffix):
			d, err := readDistribution(path)
			if err != nil {
				return nil, err
			}
			ev := get(strings.TrimSuffix(name, clusterSizeSuffix))
			ev.ClusterProbs = d.Probs
			ev.ClusterSizes = make([]int, d.Len())
			for i, v := range d.Values {
				if v < 1 || v != math.Trunc(v) {
					return nil, formatErr(path, "row %d: cluster size %g is not a positive integer", i+1, v)
				}
				ev.ClusterSizes[i] = int(v)
			}
		}
	}

	appDir := filepath.Join(root, "appliances")
	for _, name := range listCSV(appDir) {
		if !strings.HasSuffix(name, powerSuffix) {
			continue
		}
		path := filepath.Join(appDir, name)
		rows, err := readMatrix(path, 2)
		if err != nil {
			return nil, err
		}
		ev := get(strings.TrimSuffix(name, powerSuffix))
		ev.PowerSamples = make([]PowerSample, len(rows))
		for i, r := range rows {
			if r[0] < 1 || r[0] != math.Trunc(r[0]) {
				return nil, formatErr(path, "row %d: duration %g is not a positive whole number of steps", i+1, r[0])
			}
			if r[1] < 0 {
				return nil, formatErr(path, "row %d: negative energy", i+1)
			}
			ev.PowerSamples[i] = PowerSample{Steps: int(r[0]), EnergyKWh: r[1]}
		}
	}
	return out, nil
}

// listCSV returns the sorted CSV file names of dir; a missing dir yields none.
func listCSV(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
