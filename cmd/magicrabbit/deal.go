package main

import (
	"fmt"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
	"github.com/lox/magicrabbit/internal/tui"
)

// DealCmd prints a deal so it can be inspected or replayed.
type DealCmd struct {
	Seed     int64 `help:"Deal seed (0 picks one)"`
	Players  int   `short:"p" default:"2" help:"Player count deciding the doves"`
	Schedule bool  `help:"List a sequence of swaps reaching the minimum"`
}

func (c *DealCmd) Run(globals *Globals) error {
	if c.Players < 1 || c.Players > 4 {
		return fmt.Errorf("players must be between 1 and 4, got %d", c.Players)
	}
	seed := randutil.Seed(c.Seed)
	g := game.New(c.Players, randutil.New(seed))
	rabbits, hats := g.Permutations()

	fmt.Println(titleStyle.Render(fmt.Sprintf(" Deal %d ", seed)))
	fmt.Println(tui.RenderDeal(rabbits, hats, g.Doves()))

	doves := make([]int, 0, len(g.Doves()))
	for _, d := range g.Doves() {
		doves = append(doves, d+1)
	}
	fmt.Printf("Doves on piles %v\n", doves)
	fmt.Printf("Minimum moves: %d\n", g.MinimumMoves)

	if c.Schedule {
		for i, a := range game.MinimumSchedule(rabbits, hats) {
			fmt.Printf("%3d. %s\n", i+1, tui.Describe(a))
		}
	}
	return nil
}
