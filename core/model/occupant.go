package model

// Occupant is one simulated household member.
type Occupant struct {
	// Cluster is the occupancy-type cluster the Markov tables were taken from.
	Cluster int
	states  []State
}

// NewOccupant wraps a generated state sequence. The slice is owned by the
// occupant afterwards and must not be modified by the caller.
func NewOccupant(cluster int, states []State) Occupant {
	return Occupant{Cluster: cluster, states: states}
}

// Len returns the number of 15-minute steps in the sequence.
func (o Occupant) Len() int { return len(o.states) }

// At returns the state active at the given 15-minute step.
func (o Occupant) At(step int) State { return o.states[step] }

// OneHot returns the indicator vector for the given step.
func (o Occupant) OneHot(step int) [NumStates]float64 { return o.states[step].OneHot() }

// States returns a copy of the whole sequence.
func (o Occupant) States() []State {
	cp := make([]State, len(o.states))
	copy(cp, o.states)
	return cp
}

// AnyIn reports whether at least one occupant is in state s at step.
func AnyIn(occupants []Occupant, s State, step int) bool {
	for _, o := range occupants {
		if o.states[step] == s {
			return true
		}
	}
	return false
}

// CountIn returns how many occupants are in state s at step.
func CountIn(occupants []Occupant, s State, step int) int {
	n := 0
	for _, o := range occupants {
		if o.states[step] == s {
			n++
		}
	}
	return n
}
