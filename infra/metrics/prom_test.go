package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/occsched/core/metrics"
)

func TestPromSinkRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{
		Duration:         time.Second,
		SetpointAdjusted: 3,
		Events:           map[string]int{"sink": 5, "shower": 2},
	}))
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Err: "boom"}))

	expected := `
# HELP occsched_runs_total Building generations by outcome
# TYPE occsched_runs_total counter
occsched_runs_total{success="false"} 1
occsched_runs_total{success="true"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.repairs))
	assert.Equal(t, 5.0, testutil.ToFloat64(sink.events.WithLabelValues("sink")))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.duration))
}

func TestPromSinkRecordStage(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, sink.RecordStage(coremetrics.StageEvent{Stage: "markov", Elapsed: 20 * time.Millisecond}))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.stages))
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, a.RecordRun(coremetrics.RunEvent{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.runs.WithLabelValues("true")))
}
