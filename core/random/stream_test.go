package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIsReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.Gaussian(1, 0.5, 0), b.Gaussian(1, 0.5, 0))
		assert.Equal(t, a.IntN(10), b.IntN(10))
	}
	assert.NotEqual(t, New(1).Float64(), New(2).Float64())
}

func TestWeightedIndexDegenerate(t *testing.T) {
	s := New(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, 6, s.WeightedIndex([]float64{0, 0, 0, 0, 0, 0, 1}))
		assert.Equal(t, 0, s.WeightedIndex([]float64{1, 0, 0}))
	}
}

func TestWeightedIndexFallsBackToLast(t *testing.T) {
	// The vector only holds half the mass; draws above 0.5 land on the last index.
	assert.Equal(t, 2, pick([]float64{0.25, 0.25, 0}, 0.9, 1))
	assert.Equal(t, 1, pick([]float64{0.25, 0.25, 0}, 0.3, 1))
}

func TestWeightedIndexTotal(t *testing.T) {
	assert.Equal(t, 1, pick([]float64{0, 3, 1}, 0.7, 4))
	assert.Equal(t, 2, pick([]float64{0, 3, 1}, 0.8, 4))
}

func TestGaussianClamp(t *testing.T) {
	s := New(3)
	for i := 0; i < 200; i++ {
		assert.GreaterOrEqual(t, s.Gaussian(0, 5, 0.1), 0.1)
	}
}

func TestUniformIntBounds(t *testing.T) {
	s := New(11)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := s.UniformInt(-5, 5)
		assert.GreaterOrEqual(t, v, -5)
		assert.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 11)
}
