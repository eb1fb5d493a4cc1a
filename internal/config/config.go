// Package config loads run configuration from a file on disk. The core
// never consults environment variables, so unlike some koanf-based
// loaders in the wild this one wires only the file provider.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RunConfig holds everything a simulation invocation needs beyond the
// scenario artifacts themselves. Command-line flags in cmd/whsim override
// whatever a loaded file supplies.
type RunConfig struct {
	Seed        int64  `json:"seed"`
	Robots      int    `json:"robots"`
	HorizonTick int    `json:"horizon_ticks"`
	Verbose     bool   `json:"verbose"`
	OutputFile  string `json:"output_file"`
}

// Defaults returns the configuration used when no file is supplied.
func Defaults() RunConfig {
	return RunConfig{
		Seed:        1,
		Robots:      1,
		HorizonTick: 1000,
		OutputFile:  "metrics.json",
	}
}

// Load reads path (YAML or JSON, selected by extension) into a RunConfig
// seeded with Defaults.
func Load(path string) (RunConfig, error) {
	cfg := Defaults()

	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", ext)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return cfg, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks structural sanity of the loaded configuration.
func (c RunConfig) Validate() error {
	if c.Robots < 1 {
		return fmt.Errorf("robots must be >= 1, got %d", c.Robots)
	}
	if c.HorizonTick < 1 {
		return fmt.Errorf("horizon_ticks must be >= 1, got %d", c.HorizonTick)
	}
	return nil
}
