package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/occsched/core/generator"
	"github.com/kilianp07/occsched/core/metrics"
	"github.com/kilianp07/occsched/core/runlog"
	"github.com/kilianp07/occsched/infra/logger"
	"github.com/kilianp07/occsched/infra/mqtt"
)

// EnvPrefix marks environment overrides, e.g. OCC_GENERATION__YEAR=2019.
const EnvPrefix = "OCC_"

type Config struct {
	Resources  ResourcesConfig      `json:"resources"`
	Generation GenerationConfig     `json:"generation"`
	Buildings  []generator.Building `json:"buildings"`
	// BuildingsFile is read after the main file and appended to Buildings.
	BuildingsFile string         `json:"buildings_file"`
	Output        OutputConfig   `json:"output"`
	RunLog        runlog.Config  `json:"runlog"`
	Metrics       metrics.Config `json:"metrics"`
	MQTT          mqtt.Config    `json:"mqtt"`
	Sentry        SentryConfig   `json:"sentry"`
	Logging       logger.Config  `json:"logging"`
}

// Load reads the optional file at path, applies environment overrides,
// defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if cfg.BuildingsFile != "" {
		p := cfg.BuildingsFile
		if !filepath.IsAbs(p) && path != "" {
			p = filepath.Join(filepath.Dir(path), p)
		}
		bs, err := LoadBuildings(p)
		if err != nil {
			return nil, err
		}
		cfg.Buildings = append(cfg.Buildings, bs...)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	if c.Resources.Path == "" {
		c.Resources.Path = "resources"
	}
	c.Generation.SetDefaults()
	c.Output.SetDefaults()
	c.RunLog.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section. Buildings may be empty; they can be
// supplied on the command line.
func (c *Config) Validate() error {
	checks := []func() error{
		c.Generation.Validate,
		c.Output.Validate,
		c.RunLog.Validate,
		c.MQTT.Validate,
		c.Sentry.Validate,
		func() error { return validateBuildings(c.Buildings) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
