// Package config loads and validates backtest run configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a complete backtest run description.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Costs    CostsConfig    `json:"costs" yaml:"costs"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Verbose  bool           `json:"verbose" yaml:"verbose"`
}

// AccountConfig contains portfolio initialization parameters.
type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// CostsConfig contains the per-fill transaction cost terms.
type CostsConfig struct {
	Fixed        float64 `json:"fixed" yaml:"fixed"`
	Proportional float64 `json:"proportional" yaml:"proportional"`
}

// DataConfig points at the price series: a CSV path, the symbol column, and
// an optional inclusive date range ("2006-01-02" layout, empty = unbounded).
type DataConfig struct {
	Path   string `json:"path" yaml:"path"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Start  string `json:"start,omitempty" yaml:"start,omitempty"`
	End    string `json:"end,omitempty" yaml:"end,omitempty"`
}

// ParseRange converts the Start/End strings to times.
func (d DataConfig) ParseRange() (from, to time.Time, err error) {
	const layout = "2006-01-02"
	if d.Start != "" {
		if from, err = time.Parse(layout, d.Start); err != nil {
			return from, to, fmt.Errorf("data.start: %w", err)
		}
	}
	if d.End != "" {
		if to, err = time.Parse(layout, d.End); err != nil {
			return from, to, fmt.Errorf("data.end: %w", err)
		}
	}
	return from, to, nil
}

// StrategyConfig contains strategy selection and parameters. Fast/Slow apply
// to sma-cross, Window to momentum and meanrev, Threshold to meanrev.
type StrategyConfig struct {
	Name       string  `json:"name" yaml:"name"`
	Fast       int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow       int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	Window     int     `json:"window,omitempty" yaml:"window,omitempty"`
	Threshold  float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	AllowShort bool    `json:"allow_short" yaml:"allow_short"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	FillsFile string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	RunsFile  string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML first, JSON fallback).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
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

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration before a run is constructed from it.
func (c *Config) Validate() error {
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if c.Costs.Fixed < 0 {
		return fmt.Errorf("costs.fixed must be non-negative")
	}
	if c.Costs.Proportional < 0 || c.Costs.Proportional >= 1 {
		return fmt.Errorf("costs.proportional must be in [0,1)")
	}
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	if _, _, err := c.Data.ParseRange(); err != nil {
		return err
	}

	switch strings.ToLower(c.Strategy.Name) {
	case "sma", "sma-cross", "smacross":
		if c.Strategy.Fast <= 0 || c.Strategy.Slow <= 0 {
			return fmt.Errorf("strategy.fast and strategy.slow must be positive")
		}
	case "momentum", "mom", "meanrev", "mean-reversion", "meanreversion":
		if c.Strategy.Window <= 0 {
			return fmt.Errorf("strategy.window must be positive")
		}
	case "":
		return fmt.Errorf("strategy.name is required")
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy.Name)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal fills_file and runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
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
			InitialCapital: 10000,
		},
		Costs: CostsConfig{
			Fixed:        0,
			Proportional: 0,
		},
		Data: DataConfig{
			Path:   "./data/eod.csv",
			Symbol: "AAPL.O",
			Start:  "2010-01-01",
			End:    "2019-12-31",
		},
		Strategy: StrategyConfig{
			Name: "sma-cross",
			Fast: 42,
			Slow: 252,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtest.sqlite",
		},
		Verbose: true,
	}
}
