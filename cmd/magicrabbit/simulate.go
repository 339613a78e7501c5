package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/magicrabbit/internal/randutil"
	"github.com/lox/magicrabbit/internal/session"
	"github.com/lox/magicrabbit/internal/simulator"
)

// SimulateCmd runs batches of computer-only games.
type SimulateCmd struct {
	Games     int           `short:"n" default:"1000" help:"Number of games to play"`
	Agents    int           `short:"a" default:"2" help:"Computer players per game"`
	Players   int           `default:"1" help:"Player count deciding the doves"`
	Seed      int64         `help:"Base seed (0 picks one)"`
	TurnLimit int           `help:"Turns before a game is abandoned (defaults to the config file)"`
	Workers   int           `short:"w" help:"Parallel games (defaults to GOMAXPROCS)"`
	Timeout   time.Duration `default:"10s" help:"Wall-clock limit per game"`
	Records   bool          `help:"Write a record for every game to the record directory"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Players < 1 || c.Players > 4 {
		return fmt.Errorf("players must be between 1 and 4, got %d", c.Players)
	}
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	logger, err := globals.newLogger(os.Stderr)
	if err != nil {
		return err
	}

	turnLimit := c.TurnLimit
	if turnLimit == 0 {
		turnLimit = cfg.Game.TurnLimit
	}
	seed := randutil.Seed(c.Seed)
	_, agentCfg := cfg.Agent(0)

	simCfg := simulator.Config{
		Games:     c.Games,
		Agents:    c.Agents,
		Players:   c.Players,
		Seed:      seed,
		TurnLimit: turnLimit,
		Timeout:   c.Timeout,
		Workers:   c.Workers,
		Agent:     agentCfg,
		Logger:    logger,
	}
	if c.Records {
		simCfg.Records = session.FileRecordWriter{Dir: cfg.Record.Directory}
	}

	ctx, stop := signalContext()
	defer stop()

	logger.Info("Running simulation", "games", c.Games, "agents", c.Agents, "seed", seed)
	start := time.Now()
	stats, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats, c.Agents)
	fmt.Printf("\nCompleted in %s (seed %d)\n", time.Since(start).Round(time.Millisecond), seed)
	return nil
}
