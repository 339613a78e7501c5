package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play a game against computer players"`
	Watch    WatchCmd         `cmd:"" help:"Watch computer players solve a game"`
	Simulate SimulateCmd      `cmd:"" help:"Run many computer-only games and report statistics"`
	Deal     DealCmd          `cmd:"" help:"Print a seeded deal and its minimum moves"`
}

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("magicrabbit"),
		kong.Description("Put every rabbit and hat back on its own pile"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.applyColor()
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
