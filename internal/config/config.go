// Package config loads the table configuration from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/ledger"
)

// DefaultPath is where the config file is looked for when none is given.
const DefaultPath = "blackjack.hcl"

// DefaultSQLitePath is the ledger database used when the sqlite backend is
// chosen without a path.
const DefaultSQLitePath = "blackjack.db"

// Config represents the complete configuration
type Config struct {
	Ledger    *LedgerSettings    `hcl:"ledger,block"`
	Log       *LogSettings       `hcl:"log,block"`
	Spectator *SpectatorSettings `hcl:"spectator,block"`
	Table     *TableSettings     `hcl:"table,block"`
}

// LedgerSettings selects where player records are kept
type LedgerSettings struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level   string `hcl:"level,optional"`
	File    string `hcl:"file,optional"`
	History string `hcl:"history,optional"` // JSON lines of settled rounds, empty disables
}

// SpectatorSettings configures the read-only websocket feed. An empty
// address disables it.
type SpectatorSettings struct {
	Addr string `hcl:"addr,optional"`
}

// TableSettings contains dealing settings
type TableSettings struct {
	Seed *int64 `hcl:"seed,optional"` // fixed shuffle seed, nil for time-based
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Ledger: &LedgerSettings{
			Backend: ledger.BackendCSV,
			Path:    ledger.DefaultCSVPath,
		},
		Log: &LogSettings{
			Level: "info",
			File:  "blackjack.log",
		},
		Spectator: &SpectatorSettings{},
		Table:     &TableSettings{},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; unset values are filled from them.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Ledger == nil {
		c.Ledger = defaults.Ledger
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = defaults.Ledger.Backend
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = DefaultLedgerPath(c.Ledger.Backend)
	}

	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}

	if c.Spectator == nil {
		c.Spectator = defaults.Spectator
	}
	if c.Table == nil {
		c.Table = defaults.Table
	}
}

// DefaultLedgerPath returns the file a backend uses when no path is set.
func DefaultLedgerPath(backend string) string {
	if backend == ledger.BackendSQLite {
		return DefaultSQLitePath
	}
	return ledger.DefaultCSVPath
}

// SetBackend switches the ledger backend. A path still at the old backend's
// default follows the switch, so a CSV file is never opened as a database.
func (c *Config) SetBackend(backend string) {
	if backend == c.Ledger.Backend {
		return
	}
	if c.Ledger.Path == DefaultLedgerPath(c.Ledger.Backend) {
		c.Ledger.Path = DefaultLedgerPath(backend)
	}
	c.Ledger.Backend = backend
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validBackends := map[string]bool{
		ledger.BackendCSV:    true,
		ledger.BackendSQLite: true,
		ledger.BackendMemory: true,
	}
	if !validBackends[c.Ledger.Backend] {
		return fmt.Errorf("invalid ledger backend: %s", c.Ledger.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	return nil
}
