package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/magicrabbit/internal/game"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"peek 3", Command{Action: game.Peek(2)}},
		{"  PEEK   9 ", Command{Action: game.Peek(8)}},
		{"rabbit 1 2", Command{Action: game.SwapPile(0, 1)}},
		{"hat 4 5", Command{Action: game.SwapHat(3, 4)}},
		{"dove 6 7", Command{Action: game.MoveDove(5, 6)}},
		{"pass", Command{Action: game.Pass()}},
		{"skip", Command{Skip: true}},
		{"quit", Command{Quit: true}},
		{"q", Command{Quit: true}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{"", ErrEmptyCommand},
		{"   ", ErrEmptyCommand},
		{"jump 1", ErrUnknownCommand},
		{"peek", ErrUsage},
		{"peek 1 2", ErrUsage},
		{"rabbit 1", ErrUsage},
		{"pass now", ErrUsage},
		{"peek 0", ErrBadPosition},
		{"peek 10", ErrBadPosition},
		{"hat one two", ErrBadPosition},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCommand(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDescribeUsesPositions(t *testing.T) {
	assert.Equal(t, "peeks at pile 1", Describe(game.Peek(0)))
	assert.Equal(t, "swaps piles 2 and 3", Describe(game.SwapPile(1, 2)))
	assert.Equal(t, "swaps hats 8 and 9", Describe(game.SwapHat(7, 8)))
	assert.Equal(t, "moves a dove from 4 to 1", Describe(game.MoveDove(3, 0)))
	assert.Equal(t, "passes", Describe(game.Pass()))
}
