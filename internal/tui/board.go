package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/session"
)

// RenderBoard draws the public board. A reveal shows the rabbit under the
// peeked pile; every other rabbit stays hidden.
func RenderBoard(b game.Board, reveal *session.Reveal) string {
	piles := make([]string, 0, game.NumPiles)
	for i, p := range b {
		style := PileStyle
		hat := HatStyle.Render(fmt.Sprintf("hat %d", p.Hat))
		switch {
		case p.Dove:
			style = DovePileStyle
			hat = InfoStyle.Render("dove")
		case p.Hat == i+1:
			style = PlacedPileStyle
			hat = SuccessStyle.Render(fmt.Sprintf("hat %d", p.Hat))
		}

		rabbit := InfoStyle.Render("?")
		if reveal != nil && reveal.Index == i {
			rabbit = RabbitStyle.Render(fmt.Sprintf("rab %d", reveal.Rabbit))
		}

		piles = append(piles, style.Render(lipgloss.JoinVertical(lipgloss.Center,
			PositionStyle.Render(fmt.Sprintf("%d", i+1)), hat, rabbit)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, piles...)
}

// RenderDeal draws a full deal with every rabbit visible.
func RenderDeal(rabbits, hats [game.NumPiles]int, doves []int) string {
	covered := make(map[int]bool, len(doves))
	for _, d := range doves {
		covered[d] = true
	}

	piles := make([]string, 0, game.NumPiles)
	for i := range game.NumPiles {
		style := PileStyle
		switch {
		case covered[i]:
			style = DovePileStyle
		case rabbits[i] == i+1 && hats[i] == i+1:
			style = PlacedPileStyle
		}
		lines := []string{
			PositionStyle.Render(fmt.Sprintf("%d", i+1)),
			HatStyle.Render(fmt.Sprintf("hat %d", hats[i])),
			RabbitStyle.Render(fmt.Sprintf("rab %d", rabbits[i])),
		}
		if covered[i] {
			lines = append(lines, InfoStyle.Render("dove"))
		}
		piles = append(piles, style.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, piles...)
}
