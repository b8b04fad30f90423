// Package runlog keeps a ledger of generation runs so that a schedule can be
// traced back to its building, seed and outcome.
package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/occsched/core/model"
)

// Run outcomes.
const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// Record captures one building generation.
type Record struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Building  string    `json:"building" yaml:"building"`
	Seed      uint64    `json:"seed" yaml:"seed"`
	Occupants int       `json:"occupants" yaml:"occupants"`
	Year      int       `json:"year" yaml:"year"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Duration is stored in milliseconds.
	DurationMS  int64              `json:"duration_ms" yaml:"duration_ms"`
	Status      string             `json:"status" yaml:"status"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	Output      string             `json:"output,omitempty" yaml:"output,omitempty"`
	Events      map[string]int     `json:"events,omitempty" yaml:"events,omitempty"`
	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Query filters records. Zero values match everything; Limit keeps the most
// recent records.
type Query struct {
	Start    time.Time
	End      time.Time
	Building string
	Status   string
	Limit    int
}

func (q Query) match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Building != "" && r.Building != q.Building {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

func (q Query) limit(res []Record) []Record {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Backends.
const (
	BackendNone   = "none"
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects and tunes the ledger backend.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`
	Path       string `json:"path" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "runs.db"
		default:
			c.Path = "runs.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
}

// Validate checks the backend name and rotation bounds.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone, BackendJSONL, BackendSQLite:
	default:
		return &model.ConfigurationError{Field: "runlog.backend", Reason: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return &model.ConfigurationError{Field: "runlog", Reason: "rotation limits must not be negative"}
	}
	return nil
}

// Open returns the configured store.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendNone:
		return NopStore{}, nil
	case BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case BackendJSONL, "":
		return NewJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
	return nil, fmt.Errorf("unknown runlog backend %q", cfg.Backend)
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
