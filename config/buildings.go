package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/occsched/core/generator"
	"github.com/kilianp07/occsched/core/model"
)

// LoadBuildings reads a YAML or JSON list of buildings.
func LoadBuildings(path string) ([]generator.Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []generator.Building
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&out)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&out)
	default:
		return nil, fmt.Errorf("unsupported buildings format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// validateBuildings checks ids and the calendar-independent fields.
func validateBuildings(bs []generator.Building) error {
	seen := make(map[string]bool, len(bs))
	for i, b := range bs {
		if b.ID == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("buildings[%d].id", i), Reason: "is required"}
		}
		if strings.ContainsAny(b.ID, `/\`) {
			return &model.ConfigurationError{Field: fmt.Sprintf("buildings[%d].id", i), Reason: "must not contain path separators"}
		}
		if seen[b.ID] {
			return &model.ConfigurationError{Field: fmt.Sprintf("buildings[%d].id", i), Reason: fmt.Sprintf("duplicate id %q", b.ID)}
		}
		seen[b.ID] = true
		if err := b.Validate(); err != nil {
			return fmt.Errorf("building %s: %w", b.ID, err)
		}
	}
	return nil
}
