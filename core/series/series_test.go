package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/core/resources"
)

func TestNormalizeIdempotent(t *testing.T) {
	v := Normalize([]float64{0, 2, 4, 1})
	assert.Equal(t, []float64{0, 0.5, 1, 0.25}, v)
	assert.Equal(t, v, Normalize(v))
}

func TestNormalizeZeroSeriesStaysZero(t *testing.T) {
	v := Normalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, v)
	for _, x := range v {
		assert.False(t, x != x, "NaN in output")
	}
}

func TestRotate(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	assert.Equal(t, []float64{4, 1, 2, 3}, Rotate(v, 1))
	assert.Equal(t, []float64{2, 3, 4, 1}, Rotate(v, -1))
	assert.Equal(t, v, Rotate(v, 8))
	assert.Equal(t, []model.State{model.StateIdle, model.StateSleeping},
		RotateStates([]model.State{model.StateSleeping, model.StateIdle}, -1))
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, []float64{3, 7, 5}, Aggregate([]float64{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, []float64{1, 2}, Aggregate([]float64{1, 2}, 1))
}

func TestFillTruncates(t *testing.T) {
	v := make([]float64, 5)
	n := Fill(v, 3, 10, 2)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{0, 0, 0, 2, 2}, v)
	assert.Equal(t, 0, Fill(v, 5, 1, 1))
	assert.Equal(t, 0, Fill(v, -1, 1, 1))
}

func TestShiftMonthly(t *testing.T) {
	cal, err := model.NewCalendar(2007, 60)
	require.NoError(t, err)
	minutes := make([]float64, cal.Minutes())
	// Jan 1 2007 is a weekday, Jan 6 a Saturday.
	minutes[10] = 1
	minutes[5*model.MinutesPerDay+10] = 1
	var wd, we resources.MonthlyShift
	wd[0] = 30
	we[0] = -5
	out := ShiftMonthly(minutes, cal, wd, we)
	assert.Equal(t, 1.0, out[40])
	assert.Equal(t, 1.0, out[5*model.MinutesPerDay+5])
	assert.Equal(t, 2.0, floatsSum(out))
}

func TestSum(t *testing.T) {
	assert.Equal(t, []float64{4, 6}, Sum([]float64{1, 2}, []float64{3, 4}))
	assert.Nil(t, Sum())
}

func floatsSum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

func TestAddAccumulatesAndTruncates(t *testing.T) {
	v := []float64{1, 1, 1}
	assert.Equal(t, 2, Add(v, 1, 5, 0.5))
	assert.Equal(t, []float64{1, 1.5, 1.5}, v)
	assert.Zero(t, Add(v, 3, 1, 1))
}
