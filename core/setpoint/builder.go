// Package setpoint builds heating and cooling setpoint schedules and keeps
// the cooling setpoint from falling below the heating setpoint.
package setpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/random"
	"github.com/kilianp07/occsched/infra/logger"
)

// AutoShift requests a random shift drawn once per building.
const AutoShift = "auto"

// maxAutoShift bounds the automatic shift in hours.
const maxAutoShift = 5

// ModeConfig describes one of heating or cooling.
type ModeConfig struct {
	WeekdayBase     float64          `json:"weekday_base" yaml:"weekday_base"`
	WeekendBase     float64          `json:"weekend_base" yaml:"weekend_base"`
	Offset          float64          `json:"offset" yaml:"offset"`
	WeekdayStrategy string           `json:"weekday_strategy" yaml:"weekday_strategy"`
	WeekendStrategy string           `json:"weekend_strategy" yaml:"weekend_strategy"`
	Season          *model.DateRange `json:"season" yaml:"season"`
}

// Config is the HVAC control metadata of a building.
type Config struct {
	Heating ModeConfig `json:"heating" yaml:"heating"`
	Cooling ModeConfig `json:"cooling" yaml:"cooling"`
	// Shift is a whole number of hours or "auto".
	Shift string `json:"shift" yaml:"shift"`
}

type mode struct {
	cfg     ModeConfig
	weekday Shape
	weekend Shape
	season  model.DaySpan
}

// Builder produces the setpoint columns of one building.
type Builder struct {
	cal     model.Calendar
	heating mode
	cooling mode
	auto    bool
	shift   int
	log     logger.Logger
}

// NewBuilder validates cfg against the calendar: strategies must exist,
// the shift must parse and the two seasons must jointly cover every day.
func NewBuilder(cal model.Calendar, cfg Config, log logger.Logger) (*Builder, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	b := &Builder{cal: cal, log: log}
	var err error
	if b.heating, err = resolveMode(cal, Heating, cfg.Heating); err != nil {
		return nil, err
	}
	if b.cooling, err = resolveMode(cal, Cooling, cfg.Cooling); err != nil {
		return nil, err
	}
	switch s := strings.TrimSpace(strings.ToLower(cfg.Shift)); s {
	case AutoShift:
		b.auto = true
	case "":
	default:
		n, err := strconv.Atoi(s)
		if err != nil || n < -23 || n > 23 {
			return nil, &model.ConfigurationError{Field: "hvac.shift", Reason: fmt.Sprintf("%q is neither auto nor an hour count within [-23, 23]", cfg.Shift)}
		}
		b.shift = n
	}
	for d := 0; d < cal.Days(); d++ {
		if !b.heating.season.Contains(d) && !b.cooling.season.Contains(d) {
			return nil, &model.ConfigurationError{
				Field:  "hvac.seasons",
				Reason: fmt.Sprintf("%s is in neither the heating nor the cooling season", cal.Date(d).Format("01-02")),
			}
		}
	}
	return b, nil
}

func resolveMode(cal model.Calendar, m Mode, cfg ModeConfig) (mode, error) {
	field := "hvac." + string(m)
	out := mode{cfg: cfg}
	var ok bool
	if out.weekday, ok = Lookup(m, cfg.WeekdayStrategy); !ok {
		return mode{}, &model.ConfigurationError{Field: field + ".weekday_strategy", Reason: fmt.Sprintf("unknown %s strategy %q", m, cfg.WeekdayStrategy)}
	}
	if out.weekend, ok = Lookup(m, cfg.WeekendStrategy); !ok {
		return mode{}, &model.ConfigurationError{Field: field + ".weekend_strategy", Reason: fmt.Sprintf("unknown %s strategy %q", m, cfg.WeekendStrategy)}
	}
	if cfg.Offset < 0 {
		return mode{}, &model.ConfigurationError{Field: field + ".offset", Reason: "must not be negative"}
	}
	if cfg.Season == nil {
		return mode{}, &model.ConfigurationError{Field: field + ".season", Reason: "season is required"}
	}
	s, err := cfg.Season.Resolve(cal, field+".season")
	if err != nil {
		return mode{}, err
	}
	out.season = s
	return out, nil
}

// Result holds the built columns.
type Result struct {
	Heating []float64
	Cooling []float64
	// Shift is the applied shift in hours.
	Shift int
	// Adjusted counts the steps changed by the repair pass.
	Adjusted    int
	Diagnostics []model.Diagnostic
}

// Build returns the repaired setpoint series.
//
// Draw order: one uniform integer in [-5, 5] when the shift is auto;
// nothing otherwise.
func (b *Builder) Build(rng *random.Stream) (*Result, error) {
	shift := b.shift
	if b.auto {
		// Draw: automatic shift.
		shift = rng.UniformInt(-maxAutoShift, maxAutoShift)
	}
	res := &Result{
		Heating: b.series(b.heating, shift),
		Cooling: b.series(b.cooling, shift),
		Shift:   shift,
	}
	adjusted, err := b.repair(res.Heating, res.Cooling)
	if err != nil {
		return nil, err
	}
	res.Adjusted = adjusted
	if adjusted > 0 {
		d := model.Diagnostic{
			Severity: model.SeverityWarning,
			Code:     "setpoint_repaired",
			Message:  fmt.Sprintf("%d steps had a cooling setpoint below the heating setpoint", adjusted),
		}
		res.Diagnostics = append(res.Diagnostics, d)
		b.log.Warnf("%s", d.Message)
	}
	return res, nil
}

func (b *Builder) series(m mode, shift int) []float64 {
	weekday, weekend := m.weekday.Shift(shift), m.weekend.Shift(shift)
	spd := b.cal.StepsPerDay()
	out := make([]float64, b.cal.Steps())
	for d := 0; d < b.cal.Days(); d++ {
		base, shape := m.cfg.WeekdayBase, &weekday
		if b.cal.DayType(d) == model.Weekend {
			base, shape = m.cfg.WeekendBase, &weekend
		}
		for s := 0; s < spd; s++ {
			out[d*spd+s] = base + shape[s*b.cal.MinutesPerStep/60]*m.cfg.Offset
		}
	}
	return out
}

// repair resolves steps where cooling < heating according to the seasons
// the day belongs to. It returns the number of adjusted steps.
func (b *Builder) repair(heating, cooling []float64) (int, error) {
	spd := b.cal.StepsPerDay()
	adjusted := 0
	for d := 0; d < b.cal.Days(); d++ {
		inHeat, inCool := b.heating.season.Contains(d), b.cooling.season.Contains(d)
		for t := d * spd; t < (d+1)*spd; t++ {
			if cooling[t] >= heating[t] {
				continue
			}
			switch {
			case inHeat && inCool:
				avg := (heating[t] + cooling[t]) / 2
				heating[t], cooling[t] = avg, avg
			case inHeat:
				cooling[t] = heating[t]
			case inCool:
				heating[t] = cooling[t]
			default:
				return 0, &model.ConfigurationError{Field: "hvac.seasons", Reason: fmt.Sprintf("day %d is in no season", d)}
			}
			adjusted++
		}
	}
	return adjusted, nil
}

// DefaultConfig heats from October through April and cools from May
// through September with flat setpoints.
func DefaultConfig() Config {
	return Config{
		Heating: ModeConfig{WeekdayBase: 68, WeekendBase: 68, Season: &model.DateRange{Begin: "10-01", End: "04-30"}},
		Cooling: ModeConfig{WeekdayBase: 78, WeekendBase: 78, Season: &model.DateRange{Begin: "05-01", End: "09-30"}},
	}
}
