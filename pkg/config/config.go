package config

import (
	"fmt"

	"foreman/pkg/model"
	"foreman/pkg/system"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a pipeline file.
func Load(filename string) (*model.Pipeline, error) {
	f, err := afero.ReadFile(system.AppFs, filename)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file %s: %w", filename, err)
	}

	var cfg model.Pipeline
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return nil, fmt.Errorf("parsing pipeline file %s: %w", filename, err)
	}

	cfg.ApplyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}

	cfg.Sort()

	return &cfg, nil
}
