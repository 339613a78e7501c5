package agent

import "github.com/lox/magicrabbit/internal/game"

// resumeLead moves the remembered rabbit one step closer to solved. Other
// players may have shuffled the board since the peek, so the pile is
// located again by value.
func (a *Agent) resumeLead(g *game.Game) (game.Action, bool) {
	if !a.hasLead {
		return game.Action{}, false
	}

	value := a.lead.Value
	dest := a.lead.Destination()
	idx := g.RabbitIndex(value)
	if idx < 0 {
		a.forget()
		return game.Action{}, false
	}
	a.lead.Index = idx

	pile := g.Piles[idx]
	if pile.Dove {
		a.logger.Debug("Lead frozen under dove", "value", value, "index", idx)
		return game.Action{}, false
	}
	if idx == dest && pile.HatPlaced() {
		a.logger.Debug("Lead already solved", "value", value)
		a.forget()
		return game.Action{}, false
	}

	if idx != dest {
		if g.Piles[dest].Dove {
			a.logger.Debug("Lead destination covered", "value", value, "destination", dest)
			return game.Action{}, false
		}
		a.lead.Index = dest
		if pile.Hat == value {
			a.forget()
		}
		a.logger.Debug("Moving lead home", "value", value, "from", idx, "to", dest)
		return game.SwapPile(idx, dest), true
	}

	hat := g.VisibleHatIndex(value)
	if hat < 0 || hat == dest {
		a.logger.Debug("Lead hat not visible", "value", value)
		return game.Action{}, false
	}
	a.forget()
	a.logger.Debug("Fetching lead hat", "value", value, "from", hat)
	return game.SwapHat(dest, hat), true
}
