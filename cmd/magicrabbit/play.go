package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/magicrabbit/internal/agent"
	"github.com/lox/magicrabbit/internal/config"
	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
	"github.com/lox/magicrabbit/internal/session"
	"github.com/lox/magicrabbit/internal/spectator"
	"github.com/lox/magicrabbit/internal/tui"
)

const humanID = "you"

// PlayCmd runs an interactive game in the terminal.
type PlayCmd struct {
	Agents   int    `short:"a" default:"1" help:"Computer players joining you (1-3)"`
	Seed     int64  `help:"Deal seed (0 picks one, overrides the config file)"`
	LogFile  string `default:"magicrabbit.log" help:"Where to write logs while the TUI owns the terminal"`
	Spectate bool   `help:"Serve the game to spectators over HTTP"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	if c.Agents < 1 || c.Agents > 3 {
		return fmt.Errorf("agents must be between 1 and 3, got %d", c.Agents)
	}
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()
	logger, err := globals.newLogger(logFile)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = cfg.Game.Seed
	}
	seed = randutil.Seed(seed)
	players := c.Agents + 1
	g := game.New(players, randutil.New(seed))
	logger.Info("Starting game", "game", g.ID, "seed", seed, "players", players)

	model := tui.NewModel(humanID, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	bridge := tui.NewBridge(program.Send)

	bus := game.NewEventBus()
	bus.Subscribe(bridge)

	actors := []session.Actor{&session.HumanActor{ID: humanID, Prompter: bridge}}
	actors = append(actors, newAgents(cfg, c.Agents, seed, logger)...)

	sess, err := session.New(g, actors, session.Options{
		Clock:     quartz.NewReal(),
		TimeLimit: cfg.TimeLimit(),
		Pacing:    pacing(cfg),
		EventBus:  bus,
		Records:   session.FileRecordWriter{Dir: cfg.Record.Directory},
		Seed:      seed,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if c.Spectate {
		shutdown := startSpectator(ctx, cfg.Spectator.Address, bus, logger)
		defer shutdown()
	}

	var result *session.Result
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		res, err := sess.Run(ctx)
		result = res
		if err != nil {
			program.Quit()
		}
		return err
	})

	_, tuiErr := program.Run()
	bridge.Close()
	stop()

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if tuiErr != nil {
		return fmt.Errorf("tui: %w", tuiErr)
	}

	printResult(result, seed)
	return nil
}

func newAgents(cfg *config.Config, n int, seed int64, logger *log.Logger) []session.Actor {
	actors := make([]session.Actor, 0, n)
	for i := range n {
		name, acfg := cfg.Agent(i)
		rng := randutil.New(randutil.Derive(seed, i+1))
		ag := agent.New(name, acfg, rng, logger)
		logger.Debug("Agent ready", "agent", ag.ID(), "history_window", ag.Config().HistoryWindow, "skip_solved_hats_after", ag.Config().SkipSolvedHatsAfter)
		actors = append(actors, &session.AgentActor{Agent: ag})
	}
	return actors
}

// startSpectator serves bus events in the background and returns a
// function that stops the server.
func startSpectator(ctx context.Context, addr string, bus game.EventBus, logger *log.Logger) func() {
	srv := spectator.NewServer(addr, logger)
	unsubscribe := bus.Subscribe(srv)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("Spectator server failed", "error", err)
		}
	}()
	return func() {
		unsubscribe()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Spectator shutdown", "error", err)
		}
	}
}

func printResult(res *session.Result, seed int64) {
	if res == nil {
		return
	}
	fmt.Println(titleStyle.Render(" Magic Rabbit "))
	switch res.Outcome {
	case session.OutcomeSolved:
		fmt.Printf("Solved in %d turns (minimum %d, ratio %.2f)\n", res.Turns, res.MinimumMoves, res.MoveRatio())
	case session.OutcomeTimeUp:
		fmt.Printf("Time ran out after %d turns\n", res.Turns)
	case session.OutcomeTurnLimit:
		fmt.Printf("Turn limit reached after %d turns\n", res.Turns)
	default:
		fmt.Printf("Game abandoned after %d turns\n", res.Turns)
	}
	fmt.Printf("Game %s, seed %d, %s\n", res.GameID, seed, res.Duration.Round(time.Millisecond))
}
