package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/kilianp07/occsched/core/generator"
	"github.com/kilianp07/occsched/core/markov"
	"github.com/kilianp07/occsched/core/model"
	"github.com/kilianp07/occsched/pkg/export"
)

// ResourcesConfig locates the probability tables.
type ResourcesConfig struct {
	Path string `json:"path"`
}

// GenerationConfig holds the settings shared by every building of a batch.
type GenerationConfig struct {
	Year           int `json:"year"`
	MinutesPerStep int `json:"minutes_per_step"`
	// Parallelism bounds the number of buildings generated at once.
	Parallelism          int       `json:"parallelism"`
	ClusterProbabilities []float64 `json:"cluster_probabilities"`
	Debug                bool      `json:"debug"`
}

// SetDefaults applies sane defaults.
func (c *GenerationConfig) SetDefaults() {
	if c.Year == 0 {
		c.Year = 2007
	}
	if c.MinutesPerStep == 0 {
		c.MinutesPerStep = 60
	}
	if c.Parallelism == 0 {
		c.Parallelism = runtime.NumCPU()
	}
	if len(c.ClusterProbabilities) == 0 {
		c.ClusterProbabilities = append([]float64(nil), markov.DefaultClusterProbabilities...)
	}
}

// Validate checks the calendar and the batch bounds.
func (c GenerationConfig) Validate() error {
	if _, err := model.NewCalendar(c.Year, c.MinutesPerStep); err != nil {
		return err
	}
	if c.Parallelism < 1 {
		return &model.ConfigurationError{Field: "generation.parallelism", Reason: "must be at least 1"}
	}
	return nil
}

// Options converts the section into generator options.
func (c GenerationConfig) Options() generator.Options {
	return generator.Options{
		Year:                 c.Year,
		MinutesPerStep:       c.MinutesPerStep,
		ClusterProbabilities: c.ClusterProbabilities,
		Debug:                c.Debug,
	}
}

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// OutputConfig controls where and how schedules are written.
type OutputConfig struct {
	Dir    string `json:"dir"`
	Format string `json:"format"`
	// Columns selects and orders the exported columns; empty exports all.
	Columns []string `json:"columns"`
	// Precision is the number of decimals in CSV files; 0 selects the default.
	Precision int `json:"precision"`
	// Append adds the columns to an existing CSV file of the building.
	Append bool `json:"append"`
	// File replaces the per-building path when a single building is
	// generated; "-" writes to stdout.
	File string `json:"file"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "schedules"
	}
	if c.Format == "" {
		c.Format = FormatCSV
	}
	if c.Precision == 0 {
		c.Precision = export.DefaultPrecision
	}
}

// Validate checks the format and precision.
func (c OutputConfig) Validate() error {
	switch c.Format {
	case FormatCSV, FormatJSON:
	default:
		return &model.ConfigurationError{Field: "output.format", Reason: fmt.Sprintf("unknown format %q", c.Format)}
	}
	if c.Precision < 0 || c.Precision > 15 {
		return &model.ConfigurationError{Field: "output.precision", Reason: "must be within [0, 15]"}
	}
	if c.Append && (c.Format != FormatCSV || c.File == "-") {
		return &model.ConfigurationError{Field: "output.append", Reason: "only supported for csv files"}
	}
	for _, n := range c.Columns {
		if _, ok := model.LookupColumn(n); !ok {
			return &model.ConfigurationError{Field: "output.columns", Reason: fmt.Sprintf("unknown column %q", n)}
		}
	}
	return nil
}

// Path returns the output file of a building.
func (c OutputConfig) Path(building string) string {
	if c.File != "" {
		return c.File
	}
	return filepath.Join(c.Dir, building+"."+c.Format)
}
