package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
	"github.com/lox/magicrabbit/internal/session"
	"github.com/lox/magicrabbit/internal/tui"
)

const shutdownTimeout = 5 * time.Second

// WatchCmd plays a computer-only game and logs every turn.
type WatchCmd struct {
	Agents   int   `short:"a" default:"2" help:"Number of computer players"`
	Players  int   `help:"Player count deciding the doves (defaults to the config file)"`
	Seed     int64 `help:"Deal seed (0 picks one, overrides the config file)"`
	Fast     bool  `help:"Do not pause between turns"`
	Spectate bool  `help:"Serve the game to spectators over HTTP and keep serving until interrupted"`
}

func (c *WatchCmd) Run(globals *Globals) error {
	if c.Agents < 1 {
		return fmt.Errorf("need at least one agent, got %d", c.Agents)
	}
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	logger, err := globals.newLogger(os.Stderr)
	if err != nil {
		return err
	}

	players := c.Players
	if players == 0 {
		players = cfg.Game.Players
	}
	if players < 1 || players > 4 {
		return fmt.Errorf("players must be between 1 and 4, got %d", players)
	}
	seed := c.Seed
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	seed = randutil.Seed(seed)

	g := game.New(players, randutil.New(seed))
	fmt.Println(titleStyle.Render(fmt.Sprintf(" Game %s ", g.ID)))
	fmt.Println(tui.RenderBoard(g.Public(), nil))
	logger.Info("Starting game", "seed", seed, "agents", c.Agents, "doves", len(g.Doves()), "minimum_moves", g.MinimumMoves)

	bus := game.NewEventBus()
	bus.Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		if e, ok := event.(game.TurnEvent); ok {
			logger.Info(fmt.Sprintf("%s %s", e.ActorID, tui.Describe(e.Action)), "turn", e.Turn, "hats_placed", e.HatsPlaced)
		}
	}))

	opts := session.Options{
		Clock:     quartz.NewReal(),
		TimeLimit: cfg.TimeLimit(),
		TurnLimit: cfg.Game.TurnLimit,
		EventBus:  bus,
		Records:   session.FileRecordWriter{Dir: cfg.Record.Directory},
		Seed:      seed,
	}
	if !c.Fast {
		opts.Pacing = pacing(cfg)
	}
	sess, err := session.New(g, newAgents(cfg, c.Agents, seed, logger), opts, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if c.Spectate {
		shutdown := startSpectator(ctx, cfg.Spectator.Address, bus, logger)
		defer shutdown()
	}

	res, err := sess.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println(tui.RenderBoard(g.Public(), nil))
	printResult(res, seed)

	if c.Spectate && ctx.Err() == nil {
		logger.Info("Game over, spectator server still running; press Ctrl+C to stop", "addr", cfg.Spectator.Address)
		<-ctx.Done()
	}
	return nil
}
