package game

import (
	"slices"
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeGameStart EventType = "game_start"
	EventTypeTurn      EventType = "turn"
	EventTypeGameOver  EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything observers may learn about a game. Events
// carry public information only: actions and hats, never peeked rabbits.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published once a game has been dealt. Anything derived
// from the deal, such as the minimum move count, waits for GameOverEvent.
type GameStartEvent struct {
	GameID    string
	Actors    []string
	Doves     []int
	Board     Board
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// NewGameStartEvent creates a game start event
func NewGameStartEvent(g *Game, actors []string) GameStartEvent {
	return GameStartEvent{
		GameID:    g.ID,
		Actors:    actors,
		Doves:     g.Doves(),
		Board:     g.Public(),
		timestamp: time.Now(),
	}
}

// TurnEvent is published after each applied action, including dove moves.
type TurnEvent struct {
	GameID     string
	Turn       int
	ActorID    string
	Action     Action
	Applied    bool
	HatsPlaced int // visible hats at home, see Board.HatsPlaced
	Board      Board
	timestamp  time.Time
}

func (e TurnEvent) EventType() EventType { return EventTypeTurn }
func (e TurnEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnEvent creates a turn event
func NewTurnEvent(g *Game, turn int, actorID string, a Action, applied bool) TurnEvent {
	board := g.Public()
	return TurnEvent{
		GameID:     g.ID,
		Turn:       turn,
		ActorID:    actorID,
		Action:     a,
		Applied:    applied,
		HatsPlaced: board.HatsPlaced(),
		Board:      board,
		timestamp:  time.Now(),
	}
}

// GameOverEvent is published when a game ends for any reason. The deal is
// revealed once play is over.
type GameOverEvent struct {
	GameID       string
	Outcome      string
	Turns        int
	MinimumMoves int
	Rabbits      [NumPiles]int
	Hats         [NumPiles]int
	timestamp    time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a game over event
func NewGameOverEvent(g *Game, outcome string, turns int) GameOverEvent {
	rabbits, hats := g.Permutations()
	return GameOverEvent{
		GameID:       g.ID,
		Outcome:      outcome,
		Turns:        turns,
		MinimumMoves: g.MinimumMoves,
		Rabbits:      rabbits,
		Hats:         hats,
		timestamp:    time.Now(),
	}
}

// EventSubscriber receives published events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(event GameEvent)

// OnEvent calls f.
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Subscribers run
// synchronously on the publishing goroutine and must not block.
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe adds a subscriber and returns a function removing it again.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.subscribers, id)
	}
}

// Publish sends an event to all subscribers in subscription order.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	ids := make([]int, 0, len(bus.subscribers))
	for id := range bus.subscribers {
		ids = append(ids, id)
	}
	subs := make([]EventSubscriber, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
