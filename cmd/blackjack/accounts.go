package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/tui"
)

// RegisterCmd creates a player without starting the table
type RegisterCmd struct {
	Username string `arg:"" help:"Username (at most 15 characters)"`
	Password string `required:"" env:"BLACKJACK_PASSWORD" help:"Password, stored as given"`
}

func (c *RegisterCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level)

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(l)

	s, err := session.Register(l, c.Username, c.Password, session.WithLogger(logger))
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s with %d chips\n", s.Username(), s.Balance())
	return nil
}

// RankingsCmd prints every player ordered by chips
type RankingsCmd struct{}

func (c *RankingsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level)

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(l)

	standings := l.Rankings()
	if len(standings) == 0 {
		fmt.Println("No players yet")
		return nil
	}
	fmt.Println(tui.RenderRankings(standings, ""))
	return nil
}

// StatsCmd prints a player's record after checking their password
type StatsCmd struct {
	Username string `arg:"" help:"Username"`
	Password string `required:"" env:"BLACKJACK_PASSWORD" help:"Password"`
}

func (c *StatsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.Log.Level)

	l, err := openLedger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(l)

	s, err := session.Login(l, c.Username, c.Password, session.WithLogger(logger))
	if err != nil {
		return err
	}
	stats, err := s.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Player:       %s\n", stats.Username)
	fmt.Printf("Chips:        %d\n", stats.Chips)
	fmt.Printf("Games played: %d\n", stats.GamesPlayed)
	fmt.Printf("Games won:    %d\n", stats.GamesWon)
	fmt.Printf("Win rate:     %.2f%%\n", stats.WinRate)
	return nil
}
