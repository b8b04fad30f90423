package setpoint

// Mode is heating or cooling.
type Mode string

const (
	Heating Mode = "heating"
	Cooling Mode = "cooling"
)

// Strategy names.
const (
	StrategyNone            = "none"
	StrategyNightSetback    = "night_setback"
	StrategyDaySetback      = "day_setback"
	StrategyDayNightSetback = "day_night_setback"
	StrategyNightSetup      = "night_setup"
	StrategyDaySetup        = "day_setup"
	StrategyDayNightSetup   = "day_night_setup"
)

// Shape is an hourly offset multiplier.
type Shape [24]float64

// night covers 22:00 to 06:00, day 09:00 to 17:00.
func night(v float64) Shape {
	var s Shape
	for h := 0; h < 24; h++ {
		if h >= 22 || h < 6 {
			s[h] = v
		}
	}
	return s
}

func day(v float64) Shape {
	var s Shape
	for h := 9; h < 17; h++ {
		s[h] = v
	}
	return s
}

func both(a, b Shape) Shape {
	var s Shape
	for h := range s {
		s[h] = a[h] + b[h]
	}
	return s
}

var strategies = map[Mode]map[string]Shape{
	Heating: {
		StrategyNone:            {},
		StrategyNightSetback:    night(-1),
		StrategyDaySetback:      day(-1),
		StrategyDayNightSetback: both(night(-1), day(-1)),
	},
	Cooling: {
		StrategyNone:          {},
		StrategyNightSetup:    night(1),
		StrategyDaySetup:      day(1),
		StrategyDayNightSetup: both(night(1), day(1)),
	},
}

// Lookup returns the shape of a strategy; an empty name means none.
func Lookup(mode Mode, name string) (Shape, bool) {
	if name == "" {
		name = StrategyNone
	}
	s, ok := strategies[mode][name]
	return s, ok
}

// Shift moves the shape later by hours, wrapping around midnight.
func (s Shape) Shift(hours int) Shape {
	var out Shape
	for h := range s {
		out[((h+hours)%24+24)%24] = s[h]
	}
	return out
}
