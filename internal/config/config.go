// Package config loads the nodekit binary's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/nodekit/pkg/script"
)

// Config is the top-level configuration file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Script  ScriptConfig  `yaml:"script"`
	Text    TextConfig    `yaml:"text"`
	Metrics MetricsConfig `yaml:"metrics"`
	Lloyd   LloydConfig   `yaml:"lloyd"`
}

// LogConfig selects log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// ScriptConfig configures the Exec node's script engine.
type ScriptConfig struct {
	// Timeout is a Go duration string such as "5s".
	Timeout string `yaml:"timeout"`
	// Language is the default language for Exec nodes without one.
	Language string `yaml:"language"`
}

// TextConfig configures the text sink.
type TextConfig struct {
	// Dir is the directory Text Out dumps are written to.
	Dir string `yaml:"dir"`
}

// MetricsConfig toggles prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LloydConfig configures the surface relaxer.
type LloydConfig struct {
	// Enabled registers the Lloyd node backed by the sdfx relaxer.
	Enabled bool `yaml:"enabled"`
	// Cells is the marching cubes resolution used to sample surfaces.
	Cells int `yaml:"cells"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "console"},
		Script: ScriptConfig{Timeout: script.DefaultTimeout.String(), Language: string(script.Lisp)},
		Text:   TextConfig{Dir: "."},
		Lloyd:  LloydConfig{Enabled: true, Cells: 48},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q is not console or json", c.Log.Format)
	}
	if _, err := c.ScriptTimeout(); err != nil {
		return err
	}
	switch script.Language(c.Script.Language) {
	case script.Lisp, script.CEL:
	default:
		return fmt.Errorf("config: script.language %q is not lisp or cel", c.Script.Language)
	}
	if c.Text.Dir == "" {
		return fmt.Errorf("config: text.dir is empty")
	}
	if c.Lloyd.Cells < 0 {
		return fmt.Errorf("config: lloyd.cells %d is negative", c.Lloyd.Cells)
	}
	return nil
}

// ScriptTimeout parses Script.Timeout.
func (c *Config) ScriptTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Script.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: script.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: script.timeout %s must be positive", d)
	}
	return d, nil
}
