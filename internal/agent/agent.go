// Package agent implements the computer player. An agent sees what a
// human sees: hats on dove-free piles, the action history, and rabbits it
// peeked itself. It keeps one remembered rabbit, the lead, and walks it
// home one swap at a time.
package agent

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/magicrabbit/internal/game"
)

// Config tunes the decision policy.
type Config struct {
	// HistoryWindow is how many recent turns are searched for another
	// actor's peek to anchor the scan on.
	HistoryWindow int
	// SkipSolvedHatsAfter is the turn after which piles already wearing
	// the right hat are no longer worth peeking.
	SkipSolvedHatsAfter int
}

// DefaultConfig returns the policy used by the original game.
func DefaultConfig() Config {
	return Config{
		HistoryWindow:       game.DefaultHistoryWindow,
		SkipSolvedHatsAfter: 3,
	}
}

// Lead is the rabbit an agent remembers: its value and where it last saw it.
type Lead struct {
	Value int // 1-9
	Index int // 0-8
}

// Destination is the pile the rabbit belongs on.
func (l Lead) Destination() int { return l.Value - 1 }

// Agent decides actions for one computer player. It is not safe for
// concurrent use.
type Agent struct {
	id     string
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger

	lead     Lead
	hasLead  bool
	lastPeek int // -1 before the first peek
	turns    int
	last     game.Action
	acted    bool
}

// New creates an agent. rng drives the random dove pick; pass a seeded one
// from randutil.New for reproducible games.
func New(id string, cfg Config, rng *rand.Rand, logger *log.Logger) *Agent {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = game.DefaultHistoryWindow
	}
	if cfg.SkipSolvedHatsAfter < 0 {
		cfg.SkipSolvedHatsAfter = 0
	}
	return &Agent{
		id:       id,
		cfg:      cfg,
		rng:      rng,
		logger:   logger.WithPrefix("agent").With("agent", id),
		lastPeek: -1,
	}
}

// ID returns the actor id the agent records its actions under.
func (a *Agent) ID() string { return a.id }

// Config returns the agent's policy settings.
func (a *Agent) Config() Config { return a.cfg }

// Memory returns the current lead, if any.
func (a *Agent) Memory() (Lead, bool) {
	return a.lead, a.hasLead
}

// Turns returns how many primary actions the agent has decided.
func (a *Agent) Turns() int { return a.turns }

// Reset forgets everything learned about the current game.
func (a *Agent) Reset() {
	a.lead = Lead{}
	a.hasLead = false
	a.lastPeek = -1
	a.turns = 0
	a.last = game.Action{}
	a.acted = false
}

// Decide picks the agent's primary action for this turn: continue moving
// the remembered rabbit home, otherwise peek somewhere new, otherwise pass.
// history holds the turns played so far, oldest first.
func (a *Agent) Decide(g *game.Game, history []game.Entry) game.Action {
	a.turns++

	act, ok := a.resumeLead(g)
	if !ok {
		act, ok = a.choosePeek(g, history)
	}
	if !ok {
		act = game.Pass()
		a.logger.Debug("Nothing to do", "turn", a.turns)
	}

	a.last = act
	a.acted = true
	return act
}

func (a *Agent) remember(value, index int) {
	a.lead = Lead{Value: value, Index: index}
	a.hasLead = true
}

func (a *Agent) forget() {
	a.lead = Lead{}
	a.hasLead = false
}

// lastOwnAction returns the agent's most recent primary action: the newest
// non-dove entry it made in history, or the action it decided last.
func (a *Agent) lastOwnAction(history []game.Entry) (game.Action, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		if e.ActorID != a.id {
			break
		}
		if e.Action.Kind != game.KindMoveDove {
			return e.Action, true
		}
	}
	return a.last, a.acted
}
