package agent

import "github.com/lox/magicrabbit/internal/game"

// choosePeek picks a pile to look under and remembers what it finds.
func (a *Agent) choosePeek(g *game.Game, history []game.Entry) (game.Action, bool) {
	idx := -1
	if a.turns == 1 {
		idx = firstPlacedHat(g)
	}
	if idx < 0 {
		anchor := a.peekAnchor(history)
		skip := a.turns > a.cfg.SkipSolvedHatsAfter && hasMisplacedHat(g)
		idx = a.scan(g, anchor, skip)
		if idx < 0 && skip {
			idx = a.scan(g, anchor, false)
		}
	}
	if idx < 0 {
		return game.Action{}, false
	}

	rabbit, ok := g.Peek(idx)
	if !ok {
		return game.Action{}, false
	}
	a.remember(rabbit, idx)
	a.lastPeek = idx
	a.logger.Debug("Peek", "index", idx, "turn", a.turns)
	return game.Peek(idx), true
}

// peekAnchor is where the scan starts: the pile another actor most recently
// peeked within the history window, else the agent's own last peek, else 0.
// Following someone else's peek spreads the table's knowledge.
func (a *Agent) peekAnchor(history []game.Entry) int {
	window := game.Window(history, a.cfg.HistoryWindow)
	for i := len(window) - 1; i >= 0; i-- {
		e := window[i]
		if e.ActorID != a.id && e.Action.Kind == game.KindPeek && game.InRange(e.Action.A) {
			return e.Action.A
		}
	}
	if a.lastPeek >= 0 {
		return a.lastPeek
	}
	return 0
}

// scan walks offsets 1..9 from anchor and returns the first peekable pile.
func (a *Agent) scan(g *game.Game, anchor int, skipPlaced bool) int {
	for off := 1; off <= game.NumPiles; off++ {
		i := (anchor + off) % game.NumPiles
		p := g.Piles[i]
		if p.Dove {
			continue
		}
		if a.hasLead && i == a.lead.Index {
			continue
		}
		if skipPlaced && p.HatPlaced() {
			continue
		}
		return i
	}
	return -1
}

func firstPlacedHat(g *game.Game) int {
	for i, p := range g.Piles {
		if !p.Dove && p.HatPlaced() {
			return i
		}
	}
	return -1
}

func hasMisplacedHat(g *game.Game) bool {
	for _, p := range g.Piles {
		if !p.Dove && !p.HatPlaced() {
			return true
		}
	}
	return false
}
