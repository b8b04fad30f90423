package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/occsched/core/metrics"
)

// PromSink exposes generation runs as Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	repairs  prometheus.Counter
	events   *prometheus.CounterVec
	stages   *prometheus.HistogramVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers the metrics on reg. A nil registerer
// defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occsched_runs_total",
		Help: "Building generations by outcome",
	}, []string{"success"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "occsched_run_duration_seconds",
		Help:    "Wall time of one building generation",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})); err != nil {
		return nil, err
	}
	if s.repairs, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "occsched_setpoint_repairs_total",
		Help: "Steps whose cooling setpoint was raised to the heating setpoint or averaged",
	})); err != nil {
		return nil, err
	}
	if s.events, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occsched_events_total",
		Help: "Synthesized fixture and appliance events",
	}, []string{"series"})); err != nil {
		return nil, err
	}
	if s.stages, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "occsched_stage_elapsed_seconds",
		Help:    "Time from run start to the end of each stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordRun updates the run counters.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(strconv.FormatBool(ev.Success())).Inc()
	if !ev.Success() {
		return nil
	}
	s.duration.Observe(ev.Duration.Seconds())
	s.repairs.Add(float64(ev.SetpointAdjusted))
	for name, n := range ev.Events {
		s.events.WithLabelValues(name).Add(float64(n))
	}
	return nil
}

// RecordStage observes the stage latency.
func (s *PromSink) RecordStage(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Observe(ev.Elapsed.Seconds())
	return nil
}
