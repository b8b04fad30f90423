package metrics

import (
	"time"
)

// RunEvent summarizes one finished or failed building generation.
type RunEvent struct {
	RunID     string
	Building  string
	Seed      uint64
	Occupants int
	Steps     int
	Columns   int
	// Events counts synthesized events per minute series.
	Events           map[string]int
	SetpointAdjusted int
	Diagnostics      int
	Duration         time.Duration
	// Err is empty on success.
	Err  string
	Time time.Time
}

// Success reports whether the run produced a schedule.
func (e RunEvent) Success() bool { return e.Err == "" }

// MetricsSink records run summaries.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// StageEvent marks the end of a generation stage.
type StageEvent struct {
	RunID    string
	Building string
	Stage    string
	Elapsed  time.Duration
	Time     time.Time
}

// StageRecorder records stage progress.
type StageRecorder interface {
	RecordStage(ev StageEvent) error
}

// ScheduleEvent carries a generated schedule.
type ScheduleEvent struct {
	RunID    string
	Building string
	// Start is the wall-clock time of the first step.
	Start   time.Time
	Step    time.Duration
	Columns map[string][]float64
}

// ScheduleRecorder persists full schedules, typically to a time-series
// database.
type ScheduleRecorder interface {
	RecordSchedule(ev ScheduleEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error           { return nil }
func (NopSink) RecordStage(StageEvent) error       { return nil }
func (NopSink) RecordSchedule(ScheduleEvent) error { return nil }
