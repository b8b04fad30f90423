package activity

import "github.com/kilianp07/occsched/core/model"

// Templates holds the shapes of every occupancy-modulated column.
type Templates map[string]Template

var flatMonthly = [12]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

// DefaultTemplates returns the built-in shapes keyed by column name.
func DefaultTemplates() Templates {
	return Templates{
		model.ColumnLightingInterior: {
			Weekday: [24]float64{0.124, 0.074, 0.050, 0.050, 0.053, 0.140, 0.330, 0.420, 0.430, 0.424, 0.411, 0.394, 0.382, 0.378, 0.378, 0.379, 0.386, 0.412, 0.484, 0.619, 0.783, 0.880, 0.597, 0.249},
			Weekend: [24]float64{0.124, 0.074, 0.050, 0.050, 0.053, 0.140, 0.330, 0.420, 0.430, 0.424, 0.411, 0.394, 0.382, 0.378, 0.378, 0.379, 0.386, 0.412, 0.484, 0.619, 0.783, 0.880, 0.597, 0.249},
			Monthly: [12]float64{1.19, 1.11, 1.02, 0.93, 0.84, 0.80, 0.82, 0.88, 0.98, 1.07, 1.16, 1.20},
		},
		model.ColumnPlugLoadsOther: {
			Weekday: [24]float64{0.035, 0.033, 0.032, 0.031, 0.032, 0.033, 0.037, 0.042, 0.043, 0.043, 0.043, 0.044, 0.045, 0.045, 0.044, 0.045, 0.047, 0.050, 0.052, 0.054, 0.053, 0.051, 0.047, 0.041},
			Weekend: [24]float64{0.035, 0.033, 0.032, 0.031, 0.032, 0.033, 0.037, 0.042, 0.043, 0.043, 0.043, 0.044, 0.045, 0.045, 0.044, 0.045, 0.047, 0.050, 0.052, 0.054, 0.053, 0.051, 0.047, 0.041},
			Monthly: [12]float64{1.248, 1.257, 0.993, 0.989, 0.993, 0.827, 0.821, 0.821, 0.827, 0.987, 0.991, 1.248},
		},
		model.ColumnPlugLoadsTV: {
			Weekday: [24]float64{0.037, 0.018, 0.009, 0.007, 0.011, 0.018, 0.029, 0.040, 0.049, 0.058, 0.065, 0.072, 0.076, 0.086, 0.091, 0.102, 0.144, 0.229, 0.255, 0.260, 0.247, 0.212, 0.144, 0.077},
			Weekend: [24]float64{0.044, 0.022, 0.012, 0.008, 0.011, 0.014, 0.024, 0.043, 0.071, 0.098, 0.113, 0.117, 0.117, 0.117, 0.118, 0.125, 0.147, 0.201, 0.231, 0.245, 0.240, 0.204, 0.145, 0.078},
			Monthly: [12]float64{1.137, 1.129, 0.961, 0.969, 0.961, 0.993, 0.996, 0.961, 0.993, 0.867, 0.86, 1.137},
		},
		model.ColumnCeilingFan: {
			Weekday: [24]float64{0.057, 0.057, 0.057, 0.057, 0.057, 0.057, 0.057, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.057, 0.057, 0.057, 0.057, 0.057, 0.057},
			Weekend: [24]float64{0.057, 0.057, 0.057, 0.057, 0.057, 0.057, 0.057, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.024, 0.057, 0.057, 0.057, 0.057, 0.057, 0.057},
			Monthly: flatMonthly,
		},
	}
}

// Merge returns defaults overridden by custom entries.
func (t Templates) Merge(custom Templates) Templates {
	out := make(Templates, len(t)+len(custom))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range custom {
		out[k] = v
	}
	return out
}

// Build modulates every template by the active fraction.
func (t Templates) Build(cal model.Calendar, active []float64) (map[string][]float64, error) {
	out := make(map[string][]float64, len(t))
	for name, tpl := range t {
		if _, ok := model.LookupColumn(name); !ok {
			return nil, &model.ConfigurationError{Field: "templates", Reason: "unknown column " + name}
		}
		if err := tpl.Validate(name); err != nil {
			return nil, err
		}
		out[name] = Modulate(tpl, cal, active)
	}
	return out, nil
}
