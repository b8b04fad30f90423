// Package metrics defines the recorders a generation run reports to. A
// MetricsSink records run summaries; sinks may additionally implement
// StageRecorder or ScheduleRecorder. Sinks are built from configuration
// through a registry that infra/metrics populates, and several sinks are
// combined in a MultiSink.
package metrics
