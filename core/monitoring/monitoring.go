// Package monitoring reports fatal generation errors and panics to an
// error tracker. The process-wide monitor defaults to a no-op.
package monitoring

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/occsched/core/model"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// CapturePanic records a recovered panic value. Callers re-panic afterwards:
//
//	defer func() {
//		if r := recover(); r != nil {
//			monitoring.CapturePanic(r)
//			panic(r)
//		}
//	}()
func CapturePanic(v any) {
	current.CapturePanic(v)
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}

// Error kinds used as the "error_kind" tag.
const (
	KindResource      = "resource_format"
	KindConfiguration = "configuration"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// Kind classifies a generation error.
func Kind(err error) string {
	var rf *model.ResourceFormatError
	var ce *model.ConfigurationError
	switch {
	case errors.As(err, &rf):
		return KindResource
	case errors.As(err, &ce):
		return KindConfiguration
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindInternal
}

// CaptureRunError reports a failed building generation. Cancellations are
// not errors worth tracking and are skipped.
func CaptureRunError(err error, building, runID string) {
	if err == nil {
		return
	}
	kind := Kind(err)
	if kind == KindCanceled {
		return
	}
	tags := map[string]string{"error_kind": kind, "building": building}
	if runID != "" {
		tags["run_id"] = runID
	}
	CaptureException(err, tags)
}
