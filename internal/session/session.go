// Package session runs one game: it asks actors for actions in turn order,
// applies them to the board, paces computer players and ends the game on a
// win, the clock or a turn limit.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/magicrabbit/internal/game"
)

// DefaultTimeLimit is the game clock used by interactive play.
const DefaultTimeLimit = 150 * time.Second

var (
	// ErrQuit is returned by a Prompter when the human leaves the game.
	ErrQuit = errors.New("player quit")
	// ErrNoActors means a session was created without participants.
	ErrNoActors = errors.New("session needs at least one actor")
	// ErrDuplicateActor means two actors share an id.
	ErrDuplicateActor = errors.New("duplicate actor id")
)

// Options configures a session. The zero value plays without time limit,
// turn limit or pacing, on the real clock.
type Options struct {
	Clock     quartz.Clock
	TimeLimit time.Duration
	TurnLimit int
	Pacing    Pacing
	EventBus  game.EventBus
	Records   RecordWriter
	Seed      int64 // recorded only
}

// Result summarises a finished game.
type Result struct {
	GameID       string
	Outcome      Outcome
	Turns        int
	MinimumMoves int
	Duration     time.Duration
	Record       *Record
}

// MoveRatio compares the turns taken with the minimum-moves estimate;
// 1.0 is optimal play.
func (r *Result) MoveRatio() float64 {
	if r.MinimumMoves == 0 {
		return 0
	}
	return float64(r.Turns) / float64(r.MinimumMoves)
}

// Session owns a game for the duration of Run. It is not safe for
// concurrent use.
type Session struct {
	game    *game.Game
	actors  []Actor
	history game.History
	state   State
	opts    Options
	logger  *log.Logger

	rabbits, hats [game.NumPiles]int
	doves         []int
}

// New prepares a session for g with actors taking turns in order.
func New(g *game.Game, actors []Actor, opts Options, logger *log.Logger) (*Session, error) {
	if len(actors) == 0 {
		return nil, ErrNoActors
	}
	seen := make(map[string]bool, len(actors))
	for _, a := range actors {
		id := a.ActorID()
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateActor, id)
		}
		seen[id] = true
		if h, ok := a.(*HumanActor); ok && h.Prompter == nil {
			return nil, fmt.Errorf("human %s has no prompter", id)
		}
	}

	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.EventBus == nil {
		opts.EventBus = game.NewEventBus()
	}
	if opts.Records == nil {
		opts.Records = NoOpRecordWriter{}
	}

	s := &Session{
		game:   g,
		actors: actors,
		opts:   opts,
		logger: logger.WithPrefix("session").With("game", g.ID),
		doves:  g.Doves(),
	}
	s.rabbits, s.hats = g.Permutations()
	return s, nil
}

// EventBus returns the bus turn and game-over events are published on.
func (s *Session) EventBus() game.EventBus { return s.opts.EventBus }

// Game returns the board. Do not touch it while Run is in progress.
func (s *Session) Game() *game.Game { return s.game }

// History returns a copy of every action applied so far.
func (s *Session) History() []game.Entry { return s.history.Entries() }

// State returns a snapshot of the orchestrator state.
func (s *Session) State() State { return s.state }

// Run plays the game to completion. The returned error is non-nil only
// when ctx was cancelled or a prompter failed; the Result is still
// returned in the first case.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	clock := s.opts.Clock
	s.state = State{StartedAt: clock.Now()}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timeUp atomic.Bool
	if s.opts.TimeLimit > 0 {
		s.state.Deadline = s.state.StartedAt.Add(s.opts.TimeLimit)
		t := clock.AfterFunc(s.opts.TimeLimit, func() {
			timeUp.Store(true)
			cancel()
		}, "session", "time-limit")
		defer t.Stop()
	}

	for _, a := range s.actors {
		if aa, ok := a.(*AgentActor); ok {
			aa.Agent.Reset()
		}
	}

	ids := make([]string, len(s.actors))
	for i, a := range s.actors {
		ids[i] = a.ActorID()
	}
	s.opts.EventBus.Publish(game.NewGameStartEvent(s.game, ids))
	s.logger.Info("Game started", "actors", ids, "doves", s.doves)

	var runErr error
	for {
		if s.game.CheckWin() {
			s.state.Outcome = OutcomeSolved
			break
		}
		if err := ctx.Err(); err != nil {
			s.state.Outcome = OutcomeAbandoned
			runErr = err
			break
		}
		if timeUp.Load() {
			s.state.Outcome = OutcomeTimeUp
			break
		}
		if s.opts.TurnLimit > 0 && s.state.Turns >= s.opts.TurnLimit {
			s.state.Outcome = OutcomeTurnLimit
			break
		}

		err := s.playTurn(runCtx, s.actors[s.state.Actor])
		if err != nil {
			switch {
			case timeUp.Load():
				s.state.Outcome = OutcomeTimeUp
			case errors.Is(err, ErrQuit):
				s.state.Outcome = OutcomeAbandoned
			case ctx.Err() != nil:
				s.state.Outcome = OutcomeAbandoned
				runErr = ctx.Err()
			default:
				return nil, fmt.Errorf("turn %d: %w", s.state.Turns+1, err)
			}
			break
		}
		s.state.Actor = (s.state.Actor + 1) % len(s.actors)
	}

	return s.finish(), runErr
}

func (s *Session) playTurn(ctx context.Context, a Actor) error {
	s.state.Phase = PhasePrimary
	defer func() { s.state.Phase = PhaseDone }()

	switch a := a.(type) {
	case *HumanActor:
		return s.humanTurn(ctx, a)
	case *AgentActor:
		return s.agentTurn(ctx, a)
	}
	return fmt.Errorf("unsupported actor %T", a)
}

func (s *Session) agentTurn(ctx context.Context, a *AgentActor) error {
	if err := s.pause(ctx, s.opts.Pacing.Delay(s.state)); err != nil {
		return err
	}

	// Agents read a copy; only apply changes the live board.
	act := a.Agent.Decide(s.game.Clone(), s.history.Entries())
	s.apply(a.ActorID(), act)
	if s.game.CheckWin() {
		return nil
	}

	s.state.Phase = PhaseDove
	if move, ok := a.Agent.DecideDoveMove(s.game.Clone(), s.history.Entries()); ok {
		s.apply(a.ActorID(), move)
	}
	return nil
}

func (s *Session) humanTurn(ctx context.Context, h *HumanActor) error {
	start := s.opts.Clock.Now()
	view := s.view(h.ID)

	var act game.Action
	for {
		a, err := h.Prompter.PromptAction(ctx, view)
		if err != nil {
			return err
		}
		if a.Kind == game.KindMoveDove {
			view.Error = "take an action before moving a dove"
			continue
		}
		if err := s.game.Validate(a); err != nil {
			view.Error = err.Error()
			continue
		}
		act = a
		break
	}
	s.state.recordThink(s.opts.Clock.Since(start))
	s.apply(h.ID, act)

	if act.Kind == game.KindPass || s.game.CheckWin() {
		return nil
	}

	s.state.Phase = PhaseDove
	view = s.view(h.ID)
	if act.Kind == game.KindPeek {
		rabbit, _ := s.game.Peek(act.A)
		view.Revealed = &Reveal{Index: act.A, Rabbit: rabbit}
	}
	for {
		move, ok, err := h.Prompter.PromptDove(ctx, view)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if move.Kind != game.KindMoveDove {
			view.Error = "only a dove move is allowed now"
			continue
		}
		if err := s.game.Validate(move); err != nil {
			view.Error = err.Error()
			continue
		}
		s.apply(h.ID, move)
		return nil
	}
}

// apply carries out a validated action, records it and tells observers.
func (s *Session) apply(actorID string, a game.Action) {
	applied := s.game.Apply(a)
	if !applied {
		s.logger.Warn("Action refused", "actor", actorID, "action", a.String())
		return
	}
	s.history.Append(actorID, a)
	if a.Kind != game.KindMoveDove {
		s.state.Turns++
	}

	s.logger.Debug("Action", "actor", actorID, "action", a.String(), "turn", s.state.Turns)
	s.opts.EventBus.Publish(game.NewTurnEvent(s.game, s.state.Turns, actorID, a, applied))
}

func (s *Session) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := s.opts.Clock.NewTimer(d, "session", "pacing")
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) view(actorID string) View {
	v := View{
		GameID:  s.game.ID,
		ActorID: actorID,
		Turn:    s.state.Turns + 1,
		Board:   s.game.Public(),
		Recent:  s.history.Recent(game.DefaultHistoryWindow),
	}
	if !s.state.Deadline.IsZero() {
		v.Remaining = max(s.state.Deadline.Sub(s.opts.Clock.Now()), 0)
	}
	return v
}

func (s *Session) finish() *Result {
	s.state.Phase = PhaseDone
	duration := s.opts.Clock.Since(s.state.StartedAt)

	ids := make([]string, len(s.actors))
	for i, a := range s.actors {
		ids[i] = a.ActorID()
	}
	rec := &Record{
		GameID:       s.game.ID,
		Seed:         s.opts.Seed,
		Players:      s.game.Players,
		Actors:       ids,
		Rabbits:      s.rabbits,
		Hats:         s.hats,
		Doves:        s.doves,
		Actions:      s.history.Entries(),
		Outcome:      s.state.Outcome,
		Turns:        s.state.Turns,
		MinimumMoves: s.game.MinimumMoves,
		StartedAt:    s.state.StartedAt,
		DurationMS:   duration.Milliseconds(),
	}
	if err := s.opts.Records.WriteRecord(rec); err != nil {
		s.logger.Error("Failed to write game record", "error", err)
	}

	s.opts.EventBus.Publish(game.NewGameOverEvent(s.game, string(s.state.Outcome), s.state.Turns))
	s.logger.Info("Game over",
		"outcome", s.state.Outcome,
		"turns", s.state.Turns,
		"minimumMoves", s.game.MinimumMoves,
		"duration", duration)

	return &Result{
		GameID:       s.game.ID,
		Outcome:      s.state.Outcome,
		Turns:        s.state.Turns,
		MinimumMoves: s.game.MinimumMoves,
		Duration:     duration,
		Record:       rec,
	}
}
