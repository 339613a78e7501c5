package simulator

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/magicrabbit/internal/agent"
	"github.com/lox/magicrabbit/internal/session"
	"github.com/lox/magicrabbit/internal/statistics"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{Games: 3})
	assert.Equal(t, 2, s.config.Agents)
	assert.Equal(t, 1, s.config.Players)
	assert.Equal(t, 500, s.config.TurnLimit)
	assert.Equal(t, 10*time.Second, s.config.Timeout)
	assert.Positive(t, s.config.Workers)
	assert.Equal(t, agent.DefaultConfig(), s.config.Agent)
}

func TestRunCountsEveryGame(t *testing.T) {
	stats, err := New(Config{Games: 20, Agents: 2, Seed: 12345, Logger: testLogger()}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Games)
	total := 0
	for outcome, n := range stats.Outcomes {
		assert.Contains(t, []string{string(session.OutcomeSolved), string(session.OutcomeTurnLimit)}, outcome)
		total += n
	}
	assert.Equal(t, 20, total)
	assert.Positive(t, stats.Solved)
	assert.Positive(t, stats.MeanRatio())
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	run := func(workers int) *statistics.Statistics {
		stats, err := New(Config{Games: 12, Agents: 3, Seed: 99, Workers: workers, Logger: testLogger()}).Run(context.Background())
		require.NoError(t, err)
		return stats
	}
	serial, parallel := run(1), run(4)

	assert.Equal(t, serial.Games, parallel.Games)
	assert.Equal(t, serial.Solved, parallel.Solved)
	assert.Equal(t, serial.Values, parallel.Values)
	assert.Equal(t, serial.Outcomes, parallel.Outcomes)
	assert.Equal(t, serial.DoveMoves, parallel.DoveMoves)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Games: 4, Logger: testLogger()}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWritesRecords(t *testing.T) {
	dir := t.TempDir()
	_, err := New(Config{
		Games:   3,
		Seed:    1,
		Records: session.FileRecordWriter{Dir: dir},
		Logger:  testLogger(),
	}).Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPrintSummary(t *testing.T) {
	stats := &statistics.Statistics{}
	stats.Add(statistics.GameResult{Outcome: "solved", Solved: true, Turns: 30, MinimumMoves: 15, DoveMoves: 2})
	stats.Add(statistics.GameResult{Outcome: "turn_limit", Turns: 500, MinimumMoves: 20})

	var buf bytes.Buffer
	PrintSummary(&buf, stats, 2)
	out := buf.String()

	assert.Contains(t, out, "Games played: 2")
	assert.Contains(t, out, "Solved: 1 (50.0%)")
	assert.Contains(t, out, "turn_limit")
	assert.Contains(t, out, "Turns / minimum moves: 2.00 mean")

	buf.Reset()
	PrintSummary(&buf, &statistics.Statistics{Games: 1, Outcomes: map[string]int{"turn_limit": 1}}, 2)
	assert.NotContains(t, buf.String(), "TURNS PER SOLVED GAME")
}
