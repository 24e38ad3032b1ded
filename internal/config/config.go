// Package config loads the YAML configuration that wires together data
// file paths, the simulation horizon, the site's coordinates, and the
// storage and listen addresses used by the serve subcommand.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape.
type Config struct {
	Horizon HorizonConfig `yaml:"horizon"`
	Site    SiteConfig    `yaml:"site"`
	Input   InputConfig   `yaml:"input"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
}

// HorizonConfig bounds the simulated period and its step size.
type HorizonConfig struct {
	InitialDatetime string  `yaml:"initial_datetime"`
	FinalDatetime   string  `yaml:"final_datetime"`
	TimeLapseHours  float64 `yaml:"time_lapse_hours"`
}

// SiteConfig is the site's geographic coordinates, used by the daylight clamp.
type SiteConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// InputConfig points at the CSV/JSON files ingestion reads.
type InputConfig struct {
	TechnicalCharacteristics string `yaml:"technical_characteristics"`
	ContractedPower          string `yaml:"contracted_power"`
	Prices                   string `yaml:"prices"`
	Consumption              string `yaml:"consumption"`
	Meteo                    string `yaml:"meteo"`
	Drivers                  string `yaml:"drivers"`
}

// StoreConfig is the SQLite persistence backend location.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// ServerConfig controls the optional HTTP serve subcommand.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads a configuration file without validating it —
// useful for debugging or printing a partial config.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields every subcommand relies on being present.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Horizon.InitialDatetime == "" || c.Horizon.FinalDatetime == "" {
		return errors.New("horizon.initial_datetime and horizon.final_datetime are required")
	}
	if c.Horizon.TimeLapseHours <= 0 {
		return fmt.Errorf("horizon.time_lapse_hours must be positive, got %v", c.Horizon.TimeLapseHours)
	}
	if c.Input.TechnicalCharacteristics == "" {
		return errors.New("input.technical_characteristics is required")
	}
	return nil
}
