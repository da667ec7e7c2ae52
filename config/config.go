package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete simulator configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// AccountConfig contains portfolio seed parameters.
type AccountConfig struct {
	StartingBalance int64 `json:"starting_balance" yaml:"starting_balance"`
}

// MarketConfig names the instrument catalog. An empty list means the
// built-in registry.
type MarketConfig struct {
	Instruments []string `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

// SimulationConfig contains the timer periods.
type SimulationConfig struct {
	EvolveEvery string `json:"evolve_every" yaml:"evolve_every"` // e.g. "30s"
	TickEvery   string `json:"tick_every" yaml:"tick_every"`     // e.g. "1s"
}

// StoreConfig selects the snapshot backing.
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "file" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// JournalConfig selects the optional transaction mirror.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// EvolveInterval parses the evolution period.
func (c *Config) EvolveInterval() (time.Duration, error) {
	return time.ParseDuration(c.Simulation.EvolveEvery)
}

// TickInterval parses the countdown period.
func (c *Config) TickInterval() (time.Duration, error) {
	return time.ParseDuration(c.Simulation.TickEvery)
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content; YAML is tried first).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration (YAML for .yaml/.yml, JSON
// otherwise).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Account.StartingBalance <= 0 {
		return fmt.Errorf("account.starting_balance must be positive")
	}
	for _, name := range c.Market.Instruments {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market.instruments must not contain blank names")
		}
	}
	if d, err := c.EvolveInterval(); err != nil || d <= 0 {
		return fmt.Errorf("simulation.evolve_every must be a positive duration")
	}
	if d, err := c.TickInterval(); err != nil || d <= 0 {
		return fmt.Errorf("simulation.tick_every must be a positive duration")
	}
	if c.Store.Type != "file" && c.Store.Type != "sqlite" {
		return fmt.Errorf("store.type must be 'file' or 'sqlite'")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal.file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			StartingBalance: 100000,
		},
		Simulation: SimulationConfig{
			EvolveEvery: "30s",
			TickEvery:   "1s",
		},
		Store: StoreConfig{
			Type: "file",
			Path: "./stocksim.json",
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
