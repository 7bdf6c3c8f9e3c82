package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.yaml", `
account:
  initial_capital: 10000
costs:
  fixed: 1.5
  proportional: 0.005
data:
  path: ./data/eod.csv
  symbol: AAPL.O
  start: "2010-01-01"
  end: "2019-12-31"
strategy:
  name: sma-cross
  fast: 42
  slow: 252
journal:
  type: sqlite
  db_path: ./backtest.sqlite
verbose: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.Account.InitialCapital)
	assert.Equal(t, 1.5, cfg.Costs.Fixed)
	assert.Equal(t, "AAPL.O", cfg.Data.Symbol)
	assert.Equal(t, "sma-cross", cfg.Strategy.Name)
	assert.Equal(t, 42, cfg.Strategy.Fast)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.True(t, cfg.Verbose)

	from, to, err := cfg.Data.ParseRange()
	require.NoError(t, err)
	assert.Equal(t, 2010, from.Year())
	assert.Equal(t, 2019, to.Year())
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.json", `{
  "account": {"initial_capital": 5000},
  "data": {"path": "./data/eod.csv", "symbol": "EUR="},
  "strategy": {"name": "momentum", "window": 10, "allow_short": true}
}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5000.0, cfg.Account.InitialCapital)
	assert.Equal(t, "momentum", cfg.Strategy.Name)
	assert.Equal(t, 10, cfg.Strategy.Window)
	assert.True(t, cfg.Strategy.AllowShort)
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.yaml", `
account:
  initial_capital: -5
data:
  path: ./data/eod.csv
  symbol: AAPL.O
strategy:
  name: sma-cross
  fast: 42
  slow: 252
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := Default()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"zero capital", func(c *Config) { c.Account.InitialCapital = 0 }, true},
		{"negative fixed cost", func(c *Config) { c.Costs.Fixed = -1 }, true},
		{"proportional cost at 1", func(c *Config) { c.Costs.Proportional = 1 }, true},
		{"missing data path", func(c *Config) { c.Data.Path = "" }, true},
		{"missing symbol", func(c *Config) { c.Data.Symbol = "" }, true},
		{"bad date", func(c *Config) { c.Data.Start = "01/02/2010" }, true},
		{"missing strategy name", func(c *Config) { c.Strategy.Name = "" }, true},
		{"unknown strategy", func(c *Config) { c.Strategy.Name = "martingale" }, true},
		{"sma without windows", func(c *Config) { c.Strategy.Fast = 0 }, true},
		{"momentum without window", func(c *Config) {
			c.Strategy = StrategyConfig{Name: "momentum"}
		}, true},
		{"momentum with window", func(c *Config) {
			c.Strategy = StrategyConfig{Name: "momentum", Window: 3}
		}, false},
		{"csv journal without files", func(c *Config) {
			c.Journal = JournalConfig{Type: "csv"}
		}, true},
		{"csv journal with files", func(c *Config) {
			c.Journal = JournalConfig{Type: "csv", FillsFile: "f.csv", RunsFile: "r.csv"}
		}, false},
		{"sqlite journal without path", func(c *Config) {
			c.Journal = JournalConfig{Type: "sqlite"}
		}, true},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "kafka" }, true},
		{"no journal", func(c *Config) { c.Journal = JournalConfig{} }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndReloadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(dir, name)
		orig := Default()
		require.NoError(t, orig.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, orig, got, name)
	}
}
