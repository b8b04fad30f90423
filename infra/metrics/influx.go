package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/occsched/core/metrics"
	"github.com/kilianp07/occsched/infra/logger"
)

// scheduleBatch bounds the number of points per write request.
const scheduleBatch = 2000

// InfluxSink writes run summaries and schedules to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings InfluxDB and returns a NopSink when the
// health check fails, so generation never depends on the database.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordRun writes one generation_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("generation_run").
		AddTag("building", ev.Building).
		AddTag("run_id", ev.RunID).
		AddTag("success", strconv.FormatBool(ev.Success())).
		AddField("seed", strconv.FormatUint(ev.Seed, 10)).
		AddField("occupants", ev.Occupants).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("setpoint_adjusted", ev.SetpointAdjusted).
		AddField("diagnostics", ev.Diagnostics)
	for _, name := range sortedKeys(ev.Events) {
		p = p.AddField("events_"+name, ev.Events[name])
	}
	if ev.Err != "" {
		p = p.AddField("error", ev.Err)
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordStage writes one generation_stage point.
func (s *InfluxSink) RecordStage(ev coremetrics.StageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("generation_stage").
		AddTag("building", ev.Building).
		AddTag("run_id", ev.RunID).
		AddTag("stage", ev.Stage).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule writes one schedule point per step with a field per
// column, batched.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	names := sortedKeys(ev.Columns)
	if len(names) == 0 {
		return nil
	}
	steps := len(ev.Columns[names[0]])
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	batch := make([]*write.Point, 0, scheduleBatch)
	for t := 0; t < steps; t++ {
		p := write.NewPointWithMeasurement("schedule").
			AddTag("building", ev.Building).
			AddTag("run_id", ev.RunID)
		for _, name := range names {
			p = p.AddField(name, ev.Columns[name][t])
		}
		batch = append(batch, p.SetTime(ev.Start.Add(time.Duration(t)*ev.Step)))
		if len(batch) == scheduleBatch {
			if err := s.writeAPI.WritePoint(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return s.writeAPI.WritePoint(ctx, batch...)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
