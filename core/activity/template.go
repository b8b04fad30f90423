package activity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/series"
)

// Template is a full-occupancy daily and monthly shape.
type Template struct {
	Weekday [24]float64 `json:"weekday" yaml:"weekday"`
	Weekend [24]float64 `json:"weekend" yaml:"weekend"`
	Monthly [12]float64 `json:"monthly" yaml:"monthly"`
}

// Validate rejects negative shape values.
func (t Template) Validate(name string) error {
	for h := 0; h < 24; h++ {
		if t.Weekday[h] < 0 || t.Weekend[h] < 0 {
			return &model.ConfigurationError{Field: "templates." + name, Reason: fmt.Sprintf("negative value at hour %d", h)}
		}
	}
	for m, v := range t.Monthly {
		if v < 0 {
			return &model.ConfigurationError{Field: "templates." + name, Reason: fmt.Sprintf("negative multiplier for month %d", m+1)}
		}
	}
	return nil
}

func (t *Template) shape(dt model.DayType) *[24]float64 {
	if dt == model.Weekend {
		return &t.Weekend
	}
	return &t.Weekday
}

// Modulate blends the template between its daily minimum and its
// full-occupancy value using the active fraction, then peak-normalizes:
//
//	value = day_min + (full - day_min) * active
//
// active is indexed at 15-minute resolution and resampled to the calendar
// step.
func Modulate(tpl Template, cal model.Calendar, active []float64) []float64 {
	out := make([]float64, cal.Steps())
	spd := cal.StepsPerDay()
	for day := 0; day < cal.Days(); day++ {
		var full [24]float64
		floats.ScaleTo(full[:], tpl.Monthly[cal.Month(day)], tpl.shape(cal.DayType(day))[:])
		dayMin := floats.Min(full[:])
		for s := 0; s < spd; s++ {
			t := day*spd + s
			v := full[s*cal.MinutesPerStep/60]
			out[t] = dayMin + (v-dayMin)*mean(active, cal, t)
		}
	}
	return series.Normalize(out)
}
