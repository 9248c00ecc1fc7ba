package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at the table (default)"`
	Register RegisterCmd      `cmd:"" help:"Create a player account"`
	Rankings RankingsCmd      `cmd:"" help:"Show players ranked by chips"`
	Stats    StatsCmd         `cmd:"" help:"Show a player's record"`
}

func main() {
	// A .env next to the ledger may carry BLACKJACK_* settings
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("warning: failed to load .env: " + err.Error() + "\n")
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-table blackjack with a persistent chip ledger"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
