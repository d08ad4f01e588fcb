// Package config handles colorpaps configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level colorpaps configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	DBPath    string          `yaml:"db_path"`
	Generator GeneratorConfig `yaml:"generator"`
	Reveal    RevealConfig    `yaml:"reveal"`
	Retention RetentionConfig `yaml:"retention"`
}

// GeneratorConfig points at the Python composition scripts.
type GeneratorConfig struct {
	Python     string        `yaml:"python"`
	ScriptsDir string        `yaml:"scripts_dir"`
	OutputDir  string        `yaml:"output_dir"` // where scripts write /generated assets
	Timeout    time.Duration `yaml:"timeout"`
}

// RevealConfig sizes the server-side reveal sessions.
type RevealConfig struct {
	CanvasWidth   int           `yaml:"canvas_width"`
	CanvasHeight  int           `yaml:"canvas_height"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// RetentionConfig controls event log cleanup. Zero disables it.
type RetentionConfig struct {
	EventsDays int `yaml:"events_days"`
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration, for running without a file.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8090"
	}
	if c.DBPath == "" {
		c.DBPath = "colorpaps.db"
	}
	if c.Generator.Python == "" {
		c.Generator.Python = "python3"
	}
	if c.Generator.ScriptsDir == "" {
		c.Generator.ScriptsDir = "."
	}
	if c.Generator.OutputDir == "" {
		c.Generator.OutputDir = "public/generated"
	}
	if c.Generator.Timeout <= 0 {
		c.Generator.Timeout = 120 * time.Second
	}
	if c.Reveal.CanvasWidth <= 0 {
		c.Reveal.CanvasWidth = 800
	}
	if c.Reveal.CanvasHeight <= 0 {
		c.Reveal.CanvasHeight = 800
	}
	if c.Reveal.FrameInterval <= 0 {
		c.Reveal.FrameInterval = 16 * time.Millisecond
	}
}
