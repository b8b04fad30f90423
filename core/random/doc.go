// Package random provides the single pseudo-random stream consumed by one
// building's schedule generation.
//
// Every component draws from the same Stream in a fixed order, so the order
// of calls is part of the reproducibility contract: the same seed and the
// same resource tables must yield bit-identical schedules. Never share a
// Stream between goroutines and never draw from it speculatively.
package random
