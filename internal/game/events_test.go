package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(SubscriberFunc(func(e GameEvent) { got = append(got, "a:"+e.EventType().String()) }))
	unsubscribe := bus.Subscribe(SubscriberFunc(func(e GameEvent) { got = append(got, "b:"+e.EventType().String()) }))

	g := mustDeal(t, sampleRabs, sampleHats, 0)
	bus.Publish(NewTurnEvent(g, 1, "ai-1", Peek(1), true))
	unsubscribe()
	bus.Publish(NewGameOverEvent(g, "solved", 1))

	assert.Equal(t, []string{"a:turn", "b:turn", "a:game_over"}, got)
}

func TestTurnEventCarriesPublicStateOnly(t *testing.T) {
	g := mustDeal(t, solvedDeal, solvedDeal, 0, 8)
	e := NewTurnEvent(g, 3, "human", Peek(4), true)

	assert.Equal(t, EventTypeTurn, e.EventType())
	assert.Equal(t, 7, e.HatsPlaced, "covered hats do not count")
	assert.Equal(t, "human", e.ActorID)
	assert.False(t, e.Timestamp().IsZero())

	assert.Equal(t, PublicPile{Position: 0, Dove: true}, e.Board[0], "covered hats stay hidden")
	assert.Equal(t, PublicPile{Position: 4, Hat: 5}, e.Board[4])

	start := NewGameStartEvent(g, []string{"human", "ai-1"})
	assert.Equal(t, []int{0, 8}, start.Doves)
}

func TestEventsIgnoreHiddenRabbits(t *testing.T) {
	hats := [NumPiles]int{2, 1, 3, 4, 5, 6, 7, 8, 9}
	a := mustDeal(t, [NumPiles]int{1, 3, 2, 4, 5, 6, 7, 8, 9}, hats, 8)
	b := mustDeal(t, [NumPiles]int{2, 3, 1, 4, 5, 6, 7, 8, 9}, hats, 8)
	b.ID = a.ID

	startA := NewGameStartEvent(a, []string{"human"})
	startB := NewGameStartEvent(b, []string{"human"})
	startA.timestamp, startB.timestamp = time.Time{}, time.Time{}
	assert.Equal(t, startA, startB)

	for _, g := range []*Game{a, b} {
		require.True(t, g.Apply(SwapHat(0, 1)))
	}
	require.NotEqual(t, a.SolvedCount(), b.SolvedCount())

	turnA := NewTurnEvent(a, 1, "human", SwapHat(0, 1), true)
	turnB := NewTurnEvent(b, 1, "human", SwapHat(0, 1), true)
	turnA.timestamp, turnB.timestamp = time.Time{}, time.Time{}
	assert.Equal(t, turnA, turnB)
	assert.Equal(t, 8, turnA.HatsPlaced)
}

func TestBoardHatsPlaced(t *testing.T) {
	assert.Equal(t, 0, Board{}.HatsPlaced())
	assert.Equal(t, NumPiles, mustDeal(t, sampleRabs, solvedDeal).Public().HatsPlaced())
	assert.Equal(t, 6, mustDeal(t, sampleRabs, sampleHats).Public().HatsPlaced())
}

func TestGameOverRevealsDeal(t *testing.T) {
	g := mustDeal(t, sampleRabs, sampleHats, 0)
	e := NewGameOverEvent(g, "time_up", 40)
	assert.Equal(t, sampleRabs, e.Rabbits)
	assert.Equal(t, sampleHats, e.Hats)
	assert.Equal(t, 40, e.Turns)
}

func TestPublicBoardJSON(t *testing.T) {
	g := mustDeal(t, sampleRabs, sampleHats, 0)
	board := g.Public()
	data, err := json.Marshal(board[:2])
	require.NoError(t, err)
	assert.JSONEq(t, `[{"position":0,"dove":true},{"position":1,"hat":1,"dove":false}]`, string(data))
}

func TestActionJSON(t *testing.T) {
	data, err := json.Marshal(MoveDove(0, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"move-dove","a":0,"b":3}`, string(data))

	var a Action
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"swap-hat","a":1,"b":2}`), &a))
	assert.Equal(t, SwapHat(1, 2), a)

	err = json.Unmarshal([]byte(`{"kind":"fold"}`), &a)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "pass", Pass().String())
	assert.Equal(t, "peek(4)", Peek(4).String())
	assert.Equal(t, "swap-pile(1,2)", SwapPile(1, 2).String())
	assert.Equal(t, "swap-hat(0,8)", SwapHat(0, 8).String())
	assert.Equal(t, "move-dove(2->5)", MoveDove(2, 5).String())
	assert.True(t, SwapHat(0, 1).IsSwap())
	assert.False(t, Peek(0).IsSwap())
}

func TestHistoryWindow(t *testing.T) {
	var h History
	for i := 0; i < 8; i++ {
		h.Append("ai-1", Peek(i))
	}
	recent := h.Recent(DefaultHistoryWindow)
	require.Len(t, recent, 5)
	assert.Equal(t, Peek(3), recent[0].Action)
	assert.Equal(t, Peek(7), recent[4].Action)

	recent[0].ActorID = "tampered"
	assert.Equal(t, "ai-1", h.Entries()[3].ActorID, "windows are copies")

	assert.Nil(t, h.Recent(0))
	assert.Len(t, Window(h.Entries()[:2], 5), 2)
	assert.Equal(t, 8, h.Len())
}
