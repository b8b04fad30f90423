package model

// State is the activity an occupant is engaged in during one Markov step.
// The numeric values match the column order of the resource tables.
type State int

const (
	StateSleeping State = iota
	StateShower
	StateLaundry
	StateCooking
	StateDishwashing
	StateAbsent
	StateIdle
)

// NumStates is the dimension of every initial vector and transition row.
const NumStates = 7

// String returns the activity name used in resource file names.
func (s State) String() string {
	switch s {
	case StateSleeping:
		return "sleeping"
	case StateShower:
		return "shower"
	case StateLaundry:
		return "laundry"
	case StateCooking:
		return "cooking"
	case StateDishwashing:
		return "dishwashing"
	case StateAbsent:
		return "absent"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the seven known states.
func (s State) Valid() bool { return s >= StateSleeping && s <= StateIdle }

// HasDwell reports whether the state lasts for a sampled number of steps.
// All other states last exactly one step before the next transition.
func (s State) HasDwell() bool {
	switch s {
	case StateShower, StateLaundry, StateCooking, StateDishwashing:
		return true
	}
	return false
}

// DwellStates lists the states carrying an activity-duration distribution.
var DwellStates = []State{StateShower, StateLaundry, StateCooking, StateDishwashing}

// OneHot returns the indicator vector of s.
func (s State) OneHot() [NumStates]float64 {
	var v [NumStates]float64
	if s.Valid() {
		v[s] = 1
	}
	return v
}

// DayType selects the Markov tables of a calendar day.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

// DayTypes lists both day types in resource loading order.
var DayTypes = []DayType{Weekday, Weekend}

func (d DayType) String() string {
	if d == Weekend {
		return "weekend"
	}
	return "weekday"
}

// TimeOfDay buckets an hour for activity-duration lookups.
type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Midday
	Evening
)

// TimesOfDay lists the buckets in resource loading order.
var TimesOfDay = []TimeOfDay{Morning, Midday, Evening}

// BucketForHour maps an hour of the Markov day to its bucket:
// morning before 8, midday before 16, evening otherwise.
func BucketForHour(hour int) TimeOfDay {
	switch {
	case hour < 8:
		return Morning
	case hour < 16:
		return Midday
	default:
		return Evening
	}
}

func (t TimeOfDay) String() string {
	switch t {
	case Morning:
		return "morning"
	case Midday:
		return "midday"
	default:
		return "evening"
	}
}
