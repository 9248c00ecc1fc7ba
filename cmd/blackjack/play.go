package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/spectator"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	Seed         *int64 `help:"Deterministic shuffle seed (overrides config)"`
	LogFile      string `env:"BLACKJACK_LOG_FILE" help:"Log file path (overrides config)"`
	History      string `env:"BLACKJACK_HISTORY" help:"Append settled rounds as JSON lines to this file"`
	SpectateAddr string `env:"BLACKJACK_SPECTATE_ADDR" help:"Serve a read-only websocket feed of rounds on this address"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		cfg.Log.File = c.LogFile
	}
	if c.History != "" {
		cfg.Log.History = c.History
	}
	if c.SpectateAddr != "" {
		cfg.Spectator.Addr = c.SpectateAddr
	}
	if c.Seed != nil {
		cfg.Table.Seed = c.Seed
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeQuietly(logFile)
	logger := shared.SetupLogger(logFile, cfg.Log.Level)

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(l)

	seed := randutil.Seed(cfg.Table.Seed)
	logger.Info("Starting table", "seed", seed, "ledger", cfg.Ledger.Path)

	bus := game.NewEventBus()
	bus.Subscribe(game.NewLogSubscriber(logger))

	ctx := shared.SetupSignalHandler(logger)

	if cfg.Spectator.Addr != "" {
		hub := spectator.NewHub(logger)
		bus.Subscribe(hub)
		go func() {
			if err := hub.Serve(ctx, cfg.Spectator.Addr); err != nil {
				logger.Error("Spectator feed stopped", "error", err)
			}
		}()
	}

	var historyFile *os.File
	if cfg.Log.History != "" {
		historyFile, err = shared.OpenLogFile(cfg.Log.History)
		if err != nil {
			return fmt.Errorf("failed to open history file: %w", err)
		}
		defer closeQuietly(historyFile)
	}

	model := tui.NewModel(l, logger,
		tui.WithSessionOptions(
			session.WithRNG(randutil.New(seed)),
			session.WithEventBus(bus),
			session.WithLogger(logger),
		),
		tui.WithLoginHook(func(s *session.Session) {
			if historyFile != nil {
				bus.Subscribe(history.NewRecorder(historyFile, s.Username()))
			}
		}),
	)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
