package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"rs-flow/domain/rs"
)

// Config represents the structure of config.yml used by the tool.
// Only the fields currently needed by commands are modeled.
type Config struct {
	Data struct {
		BasePath   string `yaml:"base_path"`
		OutputPath string `yaml:"output_path"`
	} `yaml:"data"`
	Years struct {
		Available  []int `yaml:"available"`
		Latest     int   `yaml:"latest"`
		UnitCutoff int   `yaml:"unit_cutoff"`
	} `yaml:"years"`
}

// Default returns the built-in configuration matching the published RS
// extracts: 2014-2024, with 2024 as the latest (base-unit) extract.
func Default() *Config {
	c := &Config{}
	c.Data.BasePath = "./data/rs_system"
	c.Data.OutputPath = "./public/data"
	for y := 2014; y <= 2024; y++ {
		c.Years.Available = append(c.Years.Available, y)
	}
	c.Years.Latest = 2024
	c.Years.UnitCutoff = 2023
	return c
}

// Load parses the YAML configuration file at path. Fields left empty in the
// file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	slog.Info(fmt.Sprintf("Loaded config: %s", path))
	return c, nil
}

// Resolve loads the file named by CONFIG_PATH (default ./config.yml) when it
// exists, otherwise returns the defaults.
func Resolve() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.yml"
	}
	if _, err := os.Stat(path); err != nil {
		return Default()
	}
	c, err := Load(path)
	if err != nil {
		slog.Warn("config.load.error", "path", path, "error", err)
		return Default()
	}
	return c
}

// Schema derives the year-dependent CSV layout from the configured years.
func (c *Config) Schema() rs.Schema {
	return rs.Schema{LatestYear: c.Years.Latest, UnitCutoff: c.Years.UnitCutoff}
}
