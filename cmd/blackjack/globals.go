package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/ledger"
)

// Globals are flags shared by every command. Flags override the config file.
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"Path to HCL configuration file"`
	Backend  string `env:"BLACKJACK_LEDGER_BACKEND" help:"Ledger backend: csv, sqlite or memory (overrides config)"`
	Ledger   string `env:"BLACKJACK_LEDGER" help:"Ledger file path (overrides config)"`
	LogLevel string `short:"l" env:"BLACKJACK_LOG_LEVEL" help:"Log level (overrides config)"`
	NoColor  bool   `help:"Disable colored output"`
}

// load reads the config file and applies flag overrides.
func (g *Globals) load() (*config.Config, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if g.Backend != "" {
		cfg.SetBackend(g.Backend)
	}
	if g.Ledger != "" {
		cfg.Ledger.Path = g.Ledger
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openLedger(cfg *config.Config, logger *log.Logger) (*ledger.Ledger, error) {
	store, err := ledger.NewStore(cfg.Ledger.Backend, cfg.Ledger.Path)
	if err != nil {
		return nil, err
	}

	l, err := ledger.Open(store, ledger.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debug("Ledger ready", "backend", cfg.Ledger.Backend, "path", cfg.Ledger.Path)
	return l, nil
}

func closeQuietly(c io.Closer) { _ = c.Close() }
