package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/session"
)

// Bridge connects a session to the model. It implements session.Prompter
// and game.EventSubscriber by sending messages into the Bubble Tea program.
type Bridge struct {
	send      func(tea.Msg)
	done      chan struct{}
	closeOnce sync.Once
}

// NewBridge creates a bridge that delivers messages with send, usually
// (*tea.Program).Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{send: send, done: make(chan struct{})}
}

// Close unblocks pending prompts once the program has exited. They return
// session.ErrQuit.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// OnEvent forwards game events to the model.
func (b *Bridge) OnEvent(event game.GameEvent) {
	select {
	case <-b.done:
		return
	default:
	}
	b.send(eventMsg{event: event})
}

// PromptAction implements session.Prompter.
func (b *Bridge) PromptAction(ctx context.Context, view session.View) (game.Action, error) {
	cmd, err := b.ask(ctx, view, false)
	if err != nil {
		return game.Action{}, err
	}
	return cmd.Action, nil
}

// PromptDove implements session.Prompter.
func (b *Bridge) PromptDove(ctx context.Context, view session.View) (game.Action, bool, error) {
	cmd, err := b.ask(ctx, view, true)
	if err != nil {
		return game.Action{}, false, err
	}
	if cmd.Skip {
		return game.Action{}, false, nil
	}
	return cmd.Action, true, nil
}

func (b *Bridge) ask(ctx context.Context, view session.View, dove bool) (Command, error) {
	reply := make(chan Command, 1)
	b.send(promptMsg{view: view, dove: dove, reply: reply})

	select {
	case cmd := <-reply:
		if cmd.Quit {
			return Command{}, session.ErrQuit
		}
		return cmd, nil
	case <-ctx.Done():
		return Command{}, ctx.Err()
	case <-b.done:
		return Command{}, session.ErrQuit
	}
}
