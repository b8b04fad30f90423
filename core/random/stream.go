package random

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// pcgIncrement is the fixed second PCG word; only the seed varies per building.
const pcgIncrement = 0x9e3779b97f4a7c15

// Stream is a seeded, sequentially consumed random source.
type Stream struct {
	seed uint64
	src  *rand.PCG
	rng  *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed uint64) *Stream {
	src := rand.NewPCG(seed, pcgIncrement)
	return &Stream{seed: seed, src: src, rng: rand.New(src)}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() uint64 { return s.seed }

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 { return s.rng.Float64() }

// IntN returns a uniform integer in [0, n).
func (s *Stream) IntN(n int) int { return s.rng.IntN(n) }

// UniformInt returns a uniform integer in [lo, hi], consuming one Float64.
func (s *Stream) UniformInt(lo, hi int) int {
	span := hi - lo + 1
	v := lo + int(s.rng.Float64()*float64(span))
	if v > hi {
		v = hi
	}
	return v
}

// Gaussian draws from N(mean, std) and clamps the result to min.
// The normal variate is taken from the stream itself so it keeps its place
// in the draw order.
func (s *Stream) Gaussian(mean, std, min float64) float64 {
	d := distuv.Normal{Mu: mean, Sigma: std, Src: s.src}
	v := d.Rand()
	if v < min {
		v = min
	}
	return v
}

// WeightedIndex draws an index from a probability vector with a single
// uniform value compared against the running cumulative sum.
//
// When rounding leaves the cumulative sum short of the drawn value the last
// index is returned.
func (s *Stream) WeightedIndex(probs []float64) int {
	r := s.rng.Float64()
	return pick(probs, r, 1)
}

// WeightedIndexTotal draws an index proportionally to non-normalized
// weights whose sum is total. It is equivalent to renormalizing the
// weights and calling WeightedIndex.
func (s *Stream) WeightedIndexTotal(weights []float64, total float64) int {
	r := s.rng.Float64()
	return pick(weights, r, total)
}

func pick(weights []float64, r, total float64) int {
	target := r * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}
