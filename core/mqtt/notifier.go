// Package mqtt defines the notifications published when schedules become
// available.
package mqtt

import (
	"context"
	"time"
)

// Ready announces a generated schedule.
type Ready struct {
	RunID       string    `json:"run_id"`
	Building    string    `json:"building"`
	Seed        uint64    `json:"seed"`
	Year        int       `json:"year"`
	Steps       int       `json:"steps"`
	Columns     []string  `json:"columns"`
	Output      string    `json:"output,omitempty"`
	Diagnostics int       `json:"diagnostics"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier publishes schedule notifications.
type Notifier interface {
	// NotifyReady publishes ev and returns once the broker accepted it or
	// every retry failed.
	NotifyReady(ctx context.Context, ev Ready) error
	Close()
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) NotifyReady(context.Context, Ready) error { return nil }
func (NopNotifier) Close()                                   {}
