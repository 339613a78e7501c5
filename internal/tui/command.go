package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/magicrabbit/internal/game"
)

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrBadPosition    = errors.New("positions are 1 to 9")
)

var usage = map[string]string{
	"peek":   "peek N",
	"rabbit": "rabbit A B",
	"hat":    "hat A B",
	"dove":   "dove A B",
	"pass":   "pass",
	"skip":   "skip",
}

// Command is one parsed line of input. Positions are typed 1-9 and stored
// as pile indices.
type Command struct {
	Action game.Action
	Skip   bool // decline the dove move
	Quit   bool
}

// ParseCommand turns a line such as "rabbit 1 2" into a command.
func ParseCommand(input string) (Command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "quit", "exit", "q":
		return Command{Quit: true}, nil
	case "pass", "skip":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%w: %s", ErrUsage, usage[name])
		}
		if name == "skip" {
			return Command{Skip: true}, nil
		}
		return Command{Action: game.Pass()}, nil
	case "peek":
		p, err := positions(name, args, 1)
		if err != nil {
			return Command{}, err
		}
		return Command{Action: game.Peek(p[0])}, nil
	case "rabbit", "hat", "dove":
		p, err := positions(name, args, 2)
		if err != nil {
			return Command{}, err
		}
		switch name {
		case "rabbit":
			return Command{Action: game.SwapPile(p[0], p[1])}, nil
		case "hat":
			return Command{Action: game.SwapHat(p[0], p[1])}, nil
		default:
			return Command{Action: game.MoveDove(p[0], p[1])}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func positions(name string, args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s", ErrUsage, usage[name])
	}
	out := make([]int, n)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 || v > game.NumPiles {
			return nil, fmt.Errorf("%w: %q", ErrBadPosition, arg)
		}
		out[i] = v - 1
	}
	return out, nil
}

// Describe renders an action for the turn log using 1-based positions.
func Describe(a game.Action) string {
	switch a.Kind {
	case game.KindPass:
		return "passes"
	case game.KindPeek:
		return fmt.Sprintf("peeks at pile %d", a.A+1)
	case game.KindSwapPile:
		return fmt.Sprintf("swaps piles %d and %d", a.A+1, a.B+1)
	case game.KindSwapHat:
		return fmt.Sprintf("swaps hats %d and %d", a.A+1, a.B+1)
	case game.KindMoveDove:
		return fmt.Sprintf("moves a dove from %d to %d", a.A+1, a.B+1)
	}
	return a.String()
}
