package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/occsched/core/metrics"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, string(data))
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSinkRecordRun(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(c.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.RunEvent{
		RunID:            "run-1",
		Building:         "b1",
		Seed:             42,
		Occupants:        3,
		Duration:         1500 * time.Millisecond,
		Events:           map[string]int{"sink": 10},
		SetpointAdjusted: 2,
		Diagnostics:      1,
		Time:             now,
	}
	require.NoError(t, sink.RecordRun(ev))

	p := write.NewPointWithMeasurement("generation_run").
		AddTag("building", "b1").
		AddTag("run_id", "run-1").
		AddTag("success", "true").
		AddField("seed", "42").
		AddField("occupants", 3).
		AddField("duration_ms", 1500.0).
		AddField("setpoint_adjusted", 2).
		AddField("diagnostics", 1).
		AddField("events_sink", 10).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	require.Len(t, c.bodies, 1)
	assert.Equal(t, expected, strings.TrimSpace(c.bodies[0]))
}

func TestInfluxSinkRecordScheduleBatches(t *testing.T) {
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(c.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	steps := scheduleBatch + 10
	cols := map[string][]float64{
		"occupants": make([]float64, steps),
		"vacancy":   make([]float64, steps),
	}
	start := time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordSchedule(coremetrics.ScheduleEvent{
		RunID: "r", Building: "b", Start: start, Step: time.Hour, Columns: cols,
	}))
	require.Len(t, c.bodies, 2)
	lines := strings.Split(strings.TrimSpace(c.bodies[1]), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[0], "occupants=0")
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	assert.IsType(t, coremetrics.NopSink{}, sink)
	assert.True(t, called)
}
