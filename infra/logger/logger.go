package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// Config controls the process-wide log output.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // json or console
}

var (
	mu     sync.RWMutex
	output io.Writer = os.Stderr
	format           = ""
)

// DefaultLevel applies when no level is configured.
const DefaultLevel = "info"

// Configure applies the log level and format to every logger created
// afterwards. Unknown levels are rejected.
func Configure(cfg Config) error {
	level := cfg.Level
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	mu.Lock()
	format = strings.ToLower(cfg.Format)
	mu.Unlock()
	return nil
}

// SetOutput redirects subsequently created loggers. Schedules may be written
// to stdout so logs default to stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// New returns a Logger for the given component. The environment is detected via
// the APP_ENV variable unless a format was configured.
func New(component string) Logger {
	return NewZerologLogger(component)
}
