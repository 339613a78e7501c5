package session

import (
	"context"
	"time"

	"github.com/lox/magicrabbit/internal/agent"
	"github.com/lox/magicrabbit/internal/game"
)

// Actor is a participant taking turns. It is implemented only by
// *HumanActor and *AgentActor.
type Actor interface {
	ActorID() string
	actor()
}

// HumanActor is a person answering prompts.
type HumanActor struct {
	ID       string
	Prompter Prompter
}

func (h *HumanActor) ActorID() string { return h.ID }
func (*HumanActor) actor()            {}

// AgentActor is a computer player.
type AgentActor struct {
	Agent *agent.Agent
}

func (a *AgentActor) ActorID() string { return a.Agent.ID() }
func (*AgentActor) actor()            {}

// Prompter asks a human for input. Implementations block until the human
// answers or ctx is done.
type Prompter interface {
	// PromptAction asks for the primary action of a turn. Returning
	// ErrQuit ends the game.
	PromptAction(ctx context.Context, view View) (game.Action, error)
	// PromptDove offers the optional dove move after a primary action.
	// ok is false when the human declines.
	PromptDove(ctx context.Context, view View) (move game.Action, ok bool, err error)
}

// View is what a human is shown when prompted.
type View struct {
	GameID    string
	ActorID   string
	Turn      int
	Board     game.Board
	Recent    []game.Entry
	Remaining time.Duration // zero without a time limit
	Revealed  *Reveal       // set after the human's own peek
	Error     string        // why the previous input was refused
}

// Reveal is the private result of a peek.
type Reveal struct {
	Index  int
	Rabbit int
}
