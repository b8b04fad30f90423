package model

import "fmt"

// ResourceFormatError reports a missing, malformed or unnormalized
// probability resource. It is always fatal for the run.
type ResourceFormatError struct {
	Path   string
	Reason string
}

func (e *ResourceFormatError) Error() string {
	return fmt.Sprintf("resource %s: %s", e.Path, e.Reason)
}

// ConfigurationError reports an invalid or contradictory building
// configuration value. It is always fatal for the run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

// Severity grades a non-fatal diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a non-fatal condition surfaced alongside a schedule.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}
