package agent

import (
	"slices"

	"github.com/lox/magicrabbit/internal/game"
)

// DecideDoveMove runs after the agent's primary action and returns an
// optional dove move. In order of preference it clears a dove blocking the
// lead, uncovers piles while the lead's hat is hidden, and finally parks a
// dove on a pile the agent just solved so nobody can disturb it.
func (a *Agent) DecideDoveMove(g *game.Game, history []game.Entry) (game.Action, bool) {
	if len(g.Doves()) == 0 {
		return game.Action{}, false
	}

	if a.hasLead {
		if act, ok := a.clearLead(g); ok {
			return act, true
		}
	}

	last, ok := a.lastOwnAction(history)
	if !ok {
		return game.Action{}, false
	}
	target := lockTarget(last)
	if !game.InRange(target) {
		return game.Action{}, false
	}
	p := g.Piles[target]
	if p.Dove || !p.Solved() {
		return game.Action{}, false
	}
	from := a.pickDove(g)
	if from < 0 {
		return game.Action{}, false
	}
	a.logger.Debug("Locking solved pile", "from", from, "to", target)
	return game.MoveDove(from, target), true
}

func (a *Agent) clearLead(g *game.Game) (game.Action, bool) {
	value := a.lead.Value
	src := g.RabbitIndex(value)
	dest := a.lead.Destination()
	avoid := []int{src, dest}

	for _, blocked := range []int{src, dest} {
		if !game.InRange(blocked) || !g.Piles[blocked].Dove {
			continue
		}
		if to := retreat(g, blocked, avoid); to >= 0 {
			a.logger.Debug("Clearing dove from lead", "value", value, "from", blocked, "to", to)
			return game.MoveDove(blocked, to), true
		}
	}

	if g.VisibleHatIndex(value) >= 0 {
		return game.Action{}, false
	}
	from := a.pickDove(g)
	if from < 0 {
		return game.Action{}, false
	}
	if to := retreat(g, from, avoid); to >= 0 {
		a.logger.Debug("Hunting lead hat", "value", value, "from", from, "to", to)
		return game.MoveDove(from, to), true
	}
	return game.Action{}, false
}

// lockTarget is the pile whose rabbit the agent knows after action act: the
// destination of a lead move or the pile it just peeked.
func lockTarget(act game.Action) int {
	switch act.Kind {
	case game.KindSwapPile:
		return act.B
	case game.KindSwapHat, game.KindPeek:
		return act.A
	}
	return -1
}

// pickDove chooses which dove to move. A visible hat that is not home means
// its home pile wears some other hat, so a dove sitting on that home pile
// is covering an unsolved pile. Otherwise any dove, at random.
func (a *Agent) pickDove(g *game.Game) int {
	for _, p := range g.Piles {
		if p.Dove || p.HatPlaced() {
			continue
		}
		if home := p.Hat - 1; g.Piles[home].Dove {
			return home
		}
	}
	doves := g.Doves()
	if len(doves) == 0 {
		return -1
	}
	return doves[a.rng.IntN(len(doves))]
}

// retreat finds a landing pile for the dove at from, scanning backward. It
// prefers free piles whose hat is already placed, then any free pile, and
// never lands on avoid.
func retreat(g *game.Game, from int, avoid []int) int {
	free := func(i int) bool {
		return !g.Piles[i].Dove && !slices.Contains(avoid, i)
	}
	for off := 1; off < game.NumPiles; off++ {
		i := (from - off + game.NumPiles) % game.NumPiles
		if free(i) && g.Piles[i].HatPlaced() {
			return i
		}
	}
	for off := 1; off < game.NumPiles; off++ {
		i := (from - off + game.NumPiles) % game.NumPiles
		if free(i) {
			return i
		}
	}
	return -1
}
