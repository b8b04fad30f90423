// Package series holds the minute- and step-level transformations applied
// to generated end-use series: rotation, monthly shifting, aggregation and
// peak normalization.
package series

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/resources"
)

// Normalize divides v by its maximum. A series whose maximum is not
// positive is returned unchanged (all-zero series stay all-zero).
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	if len(out) == 0 {
		return out
	}
	peak := floats.Max(out)
	if peak <= 0 {
		return out
	}
	for i := range out {
		out[i] /= peak
	}
	return out
}

// Rotate returns v shifted later in time by n positions, wrapping around
// the end. Negative n shifts earlier.
func Rotate(v []float64, n int) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	n %= len(v)
	if n < 0 {
		n += len(v)
	}
	copy(out[n:], v[:len(v)-n])
	copy(out[:n], v[len(v)-n:])
	return out
}

// RotateStates is Rotate for Markov state sequences.
func RotateStates(v []model.State, n int) []model.State {
	out := make([]model.State, len(v))
	if len(v) == 0 {
		return out
	}
	n %= len(v)
	if n < 0 {
		n += len(v)
	}
	copy(out[n:], v[:len(v)-n])
	copy(out[:n], v[len(v)-n:])
	return out
}

// ShiftMonthly rotates each day's 1440-minute window of a minute series by
// the region's shift for that day's month and day type. A positive shift
// moves activity later within the day.
func ShiftMonthly(minutes []float64, cal model.Calendar, weekday, weekend resources.MonthlyShift) []float64 {
	out := make([]float64, len(minutes))
	for day := 0; day < cal.Days(); day++ {
		lead := weekday[cal.Month(day)]
		if cal.DayType(day) == model.Weekend {
			lead = weekend[cal.Month(day)]
		}
		lo := day * model.MinutesPerDay
		hi := lo + model.MinutesPerDay
		if hi > len(minutes) {
			break
		}
		copy(out[lo:hi], Rotate(minutes[lo:hi], lead))
	}
	return out
}

// Aggregate sums consecutive blocks of width values. A trailing partial
// block is summed as well.
func Aggregate(v []float64, width int) []float64 {
	if width <= 1 {
		out := make([]float64, len(v))
		copy(out, v)
		return out
	}
	n := (len(v) + width - 1) / width
	out := make([]float64, n)
	for i := range out {
		lo := i * width
		hi := lo + width
		if hi > len(v) {
			hi = len(v)
		}
		out[i] = floats.Sum(v[lo:hi])
	}
	return out
}

// Sum returns the element-wise sum of equally long series.
func Sum(vs ...[]float64) []float64 {
	if len(vs) == 0 {
		return nil
	}
	out := make([]float64, len(vs[0]))
	for _, v := range vs {
		floats.Add(out, v)
	}
	return out
}

// Fill writes value into v[start:start+n], truncating at the end of v.
// It returns the number of positions written.
func Fill(v []float64, start, n int, value float64) int {
	if start < 0 || start >= len(v) || n <= 0 {
		return 0
	}
	end := start + n
	if end > len(v) {
		end = len(v)
	}
	for i := start; i < end; i++ {
		v[i] = value
	}
	return end - start
}

// Add adds value to v[start:start+n], truncating at the end of v. It
// returns the number of positions written.
func Add(v []float64, start, n int, value float64) int {
	if start < 0 || start >= len(v) || n <= 0 {
		return 0
	}
	end := min(start+n, len(v))
	for i := start; i < end; i++ {
		v[i] += value
	}
	return end - start
}
