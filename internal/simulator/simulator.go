// Package simulator plays batches of computer-only games and collects
// statistics on how well the agents solve them.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/magicrabbit/internal/agent"
	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
	"github.com/lox/magicrabbit/internal/session"
	"github.com/lox/magicrabbit/internal/statistics"
)

// Config holds configuration for running simulations.
type Config struct {
	Games     int
	Agents    int
	Players   int // decides the dove count; computer-only games default to 1
	Seed      int64
	TurnLimit int
	Timeout   time.Duration // per game
	Workers   int
	Agent     agent.Config
	Records   session.RecordWriter
	Logger    *log.Logger
}

// Simulator runs computer-only games.
type Simulator struct {
	config Config
}

// New creates a simulator, filling unset fields with defaults.
func New(config Config) *Simulator {
	if config.Agents <= 0 {
		config.Agents = 2
	}
	if config.Players <= 0 {
		config.Players = 1
	}
	if config.TurnLimit <= 0 {
		config.TurnLimit = 500
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Agent == (agent.Config{}) {
		config.Agent = agent.DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays every game and returns the aggregated statistics. Game i is
// dealt from randutil.Derive(Seed, i), so results do not depend on the
// worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	results := make([]statistics.GameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := 0; i < s.config.Games; i++ {
		g.Go(func() error {
			r, err := s.playGame(ctx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

func (s *Simulator) playGame(ctx context.Context, n int) (statistics.GameResult, error) {
	seed := randutil.Derive(s.config.Seed, n)
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	g := game.New(s.config.Players, randutil.New(seed))
	actors := make([]session.Actor, s.config.Agents)
	for i := range actors {
		rng := randutil.New(randutil.Derive(seed, i+1))
		actors[i] = &session.AgentActor{
			Agent: agent.New(fmt.Sprintf("ai-%d", i+1), s.config.Agent, rng, s.config.Logger),
		}
	}

	sess, err := session.New(g, actors, session.Options{
		Clock:     quartz.NewReal(),
		TurnLimit: s.config.TurnLimit,
		Records:   s.config.Records,
		Seed:      seed,
	}, s.config.Logger)
	if err != nil {
		return statistics.GameResult{}, err
	}

	res, err := sess.Run(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return statistics.GameResult{}, fmt.Errorf("game %d timed out after %v (seed: %d)", n+1, s.config.Timeout, seed)
		}
		return statistics.GameResult{}, fmt.Errorf("game %d (seed: %d): %w", n+1, seed, err)
	}

	doveMoves := 0
	for _, e := range sess.History() {
		if e.Action.Kind == game.KindMoveDove {
			doveMoves++
		}
	}
	s.config.Logger.Debug("Game finished", "game", n+1, "seed", seed, "outcome", res.Outcome, "turns", res.Turns)

	return statistics.GameResult{
		Seed:         seed,
		Outcome:      string(res.Outcome),
		Solved:       res.Outcome == session.OutcomeSolved,
		Turns:        res.Turns,
		DoveMoves:    doveMoves,
		MinimumMoves: res.MinimumMoves,
	}, nil
}

// PrintSummary writes a human-readable report of stats to w.
func PrintSummary(w io.Writer, stats *statistics.Statistics, agents int) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS: %d agents ===\n", agents)
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)
	fmt.Fprintf(w, "Solved: %d (%.1f%%)\n", stats.Solved, stats.SolveRate()*100)

	outcomes := make([]string, 0, len(stats.Outcomes))
	for k := range stats.Outcomes {
		outcomes = append(outcomes, k)
	}
	slices.Sort(outcomes)
	for _, k := range outcomes {
		fmt.Fprintf(w, "  %-10s %d\n", k, stats.Outcomes[k])
	}

	if stats.Solved == 0 {
		return
	}
	fmt.Fprintf(w, "\n=== TURNS PER SOLVED GAME ===\n")
	fmt.Fprintf(w, "Mean: %.2f\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== EFFICIENCY ===\n")
	fmt.Fprintf(w, "Turns / minimum moves: %.2f mean, %.2f best\n", stats.MeanRatio(), stats.BestRatio)
	fmt.Fprintf(w, "Dove moves: %.2f per game\n", float64(stats.DoveMoves)/float64(stats.Games))
}
