package agent

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
)

var (
	solvedDeal  = [game.NumPiles]int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	rotatedHats = [game.NumPiles]int{2, 3, 4, 5, 6, 7, 8, 9, 1}
	sampleRabs  = [game.NumPiles]int{2, 3, 1, 4, 5, 6, 7, 8, 9}
	sampleHats  = [game.NumPiles]int{3, 1, 2, 4, 5, 6, 7, 8, 9}
)

func newTestAgent(id string, seed int64) *Agent {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	return New(id, DefaultConfig(), randutil.New(seed), logger)
}

func mustDeal(t *testing.T, rabbits, hats [game.NumPiles]int, doves ...int) *game.Game {
	t.Helper()
	g, err := game.NewFromDeal(rabbits, hats, doves)
	require.NoError(t, err)
	return g
}

// play applies a and records it, failing the test if the engine refuses it.
func play(t *testing.T, g *game.Game, h *game.History, actorID string, a game.Action) {
	t.Helper()
	require.True(t, g.Apply(a), "engine refused %s", a)
	h.Append(actorID, a)
}

func TestScenarioSolvesFirstPile(t *testing.T) {
	// Only piles 0-2 are uncovered; someone just peeked pile 2.
	g := mustDeal(t, sampleRabs, sampleHats, 3, 4, 5, 6, 7, 8)
	a := newTestAgent("ai-1", 1)
	var h game.History
	h.Append("human", game.Peek(2))

	act := a.Decide(g, h.Entries())
	assert.Equal(t, game.Peek(0), act)
	lead, ok := a.Memory()
	require.True(t, ok)
	assert.Equal(t, Lead{Value: 2, Index: 0}, lead)
	play(t, g, &h, "ai-1", act)

	_, ok = a.DecideDoveMove(g, h.Entries())
	assert.False(t, ok, "nothing to lock after peeking an unsolved pile")

	act = a.Decide(g, h.Entries())
	assert.Equal(t, game.SwapPile(0, 1), act)
	play(t, g, &h, "ai-1", act)
	lead, ok = a.Memory()
	require.True(t, ok, "hat 3 travelled with the rabbit, so the lead stays")
	assert.Equal(t, Lead{Value: 2, Index: 1}, lead)

	_, ok = a.DecideDoveMove(g, h.Entries())
	assert.False(t, ok)

	act = a.Decide(g, h.Entries())
	assert.Equal(t, game.SwapHat(1, 2), act)
	play(t, g, &h, "ai-1", act)
	assert.True(t, g.Piles[1].Solved())
	_, ok = a.Memory()
	assert.False(t, ok, "memory clears once the pile is solved")

	dove, ok := a.DecideDoveMove(g, h.Entries())
	require.True(t, ok, "a freshly solved pile gets locked")
	assert.Equal(t, game.KindMoveDove, dove.Kind)
	assert.Equal(t, 1, dove.B)
	assert.Contains(t, []int{3, 4, 5, 6, 7, 8}, dove.A)
	require.True(t, g.Apply(dove))
}

func TestMemoryClearsWhenHatTravelsHome(t *testing.T) {
	rabbits := [game.NumPiles]int{2, 1, 3, 4, 5, 6, 7, 8, 9}
	g := mustDeal(t, rabbits, rabbits, 2, 3, 4, 5, 6, 7, 8)
	a := newTestAgent("ai-1", 1)

	assert.Equal(t, game.Peek(1), a.Decide(g, nil))
	act := a.Decide(g, nil)
	assert.Equal(t, game.SwapPile(1, 0), act)
	_, ok := a.Memory()
	assert.False(t, ok)

	require.True(t, g.Apply(act))
	assert.True(t, g.CheckWin())
}

func TestDoveOnDestinationForbidsPileSwap(t *testing.T) {
	// Rabbit 1 sits on pile 2, but pile 0 is covered.
	g := mustDeal(t, sampleRabs, [game.NumPiles]int{2, 1, 3, 4, 5, 6, 7, 8, 9}, 0, 3, 4, 5, 6, 7, 8)
	a := newTestAgent("ai-1", 1)

	assert.Equal(t, game.Peek(2), a.Decide(g, nil), "first turn prefers a pile with its hat in place")
	lead, _ := a.Memory()
	assert.Equal(t, Lead{Value: 1, Index: 2}, lead)

	dove, ok := a.DecideDoveMove(g, nil)
	require.True(t, ok)
	assert.Equal(t, game.MoveDove(0, 1), dove, "the blocking dove retreats but never onto the lead")

	// Leave the dove where it is.
	act := a.Decide(g, nil)
	assert.NotEqual(t, game.KindSwapPile, act.Kind)
	assert.Equal(t, game.Peek(1), act)
}

func TestFirstTurnPrefersPlacedHat(t *testing.T) {
	hats := [game.NumPiles]int{2, 1, 3, 4, 5, 6, 7, 8, 9}

	a := newTestAgent("ai-1", 1)
	assert.Equal(t, game.Peek(2), a.Decide(mustDeal(t, solvedDeal, hats), nil))

	a = newTestAgent("ai-1", 1)
	assert.Equal(t, game.Peek(3), a.Decide(mustDeal(t, solvedDeal, hats, 2), nil))
}

func TestPeekAnchorFollowsOtherActors(t *testing.T) {
	g := mustDeal(t, solvedDeal, rotatedHats)

	a := newTestAgent("ai-1", 1)
	history := []game.Entry{{ActorID: "human", Action: game.Peek(4)}}
	assert.Equal(t, game.Peek(5), a.Decide(g, history))

	a = newTestAgent("ai-1", 1)
	history = []game.Entry{{ActorID: "ai-1", Action: game.Peek(4)}}
	assert.Equal(t, game.Peek(1), a.Decide(g, history), "own peeks in history are not anchors")

	a = newTestAgent("ai-1", 1)
	history = []game.Entry{{ActorID: "human", Action: game.Peek(4)}}
	for i := 0; i < DefaultConfig().HistoryWindow; i++ {
		history = append(history, game.Entry{ActorID: "ai-2", Action: game.Pass()})
	}
	assert.Equal(t, game.Peek(1), a.Decide(g, history), "peeks outside the window are ignored")
}

func TestPeekAnchorFallsBackToOwnLastPeek(t *testing.T) {
	g := mustDeal(t, solvedDeal, rotatedHats)
	a := newTestAgent("ai-1", 1)
	a.lastPeek = 6
	assert.Equal(t, 6, a.peekAnchor(nil))
	a.lastPeek = -1
	assert.Equal(t, 0, a.peekAnchor(nil))
	assert.Equal(t, game.Peek(1), a.Decide(g, nil))
}

func TestSkipsPlacedHatsLateInGame(t *testing.T) {
	hats := [game.NumPiles]int{1, 2, 3, 5, 4, 6, 7, 8, 9}
	g := mustDeal(t, solvedDeal, hats)

	early := newTestAgent("ai-1", 1)
	early.turns = 1
	early.lastPeek = 0
	assert.Equal(t, game.Peek(1), early.Decide(g, nil))

	late := newTestAgent("ai-1", 1)
	late.turns = 4
	late.lastPeek = 0
	assert.Equal(t, game.Peek(3), late.Decide(g, nil))
}

func TestSkipFallsBackWhenOnlyLeadIsUnplaced(t *testing.T) {
	hats := [game.NumPiles]int{1, 2, 3, 5, 4, 6, 7, 8, 9}
	g := mustDeal(t, solvedDeal, hats, 4)
	a := newTestAgent("ai-1", 1)
	a.turns = 4
	a.lastPeek = 0
	a.remember(4, 3)

	idx := a.scan(g, 0, true)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 1, a.scan(g, 0, false))
}

func TestFrozenLeadFallsThroughToPeek(t *testing.T) {
	g := mustDeal(t, solvedDeal, rotatedHats, 8)
	a := newTestAgent("ai-1", 1)

	assert.Equal(t, game.Peek(1), a.Decide(g, nil))
	g.MoveDove(8, 1)

	dove, ok := a.DecideDoveMove(g, nil)
	require.True(t, ok)
	assert.Equal(t, game.MoveDove(1, 0), dove, "the dove backs off the lead")

	assert.Equal(t, game.Peek(2), a.Decide(g, nil))
	lead, ok := a.Memory()
	require.True(t, ok)
	assert.Equal(t, Lead{Value: 3, Index: 2}, lead)
}

func TestCoveredLeadStaysFrozen(t *testing.T) {
	g := mustDeal(t, solvedDeal, rotatedHats, 8)
	a := newTestAgent("ai-1", 1)

	require.Equal(t, game.Peek(1), a.Decide(g, nil))
	g.SwapHats(0, 1)
	g.MoveDove(8, 1)
	require.True(t, g.Piles[1].HatPlaced())

	_, ok := a.resumeLead(g)
	assert.False(t, ok)
	lead, ok := a.Memory()
	require.True(t, ok, "a covered hat is not evidence the lead is solved")
	assert.Equal(t, Lead{Value: 2, Index: 1}, lead)

	g.MoveDove(1, 8)
	_, ok = a.resumeLead(g)
	assert.False(t, ok)
	_, ok = a.Memory()
	assert.False(t, ok, "forgotten once the placed hat is visible")
}

func TestHatHuntUncoversDove(t *testing.T) {
	// Rabbit 2 is home but hat 2 is under the dove on pile 5.
	hats := [game.NumPiles]int{1, 3, 4, 5, 6, 2, 7, 8, 9}
	g := mustDeal(t, solvedDeal, hats, 5)
	a := newTestAgent("ai-1", 3)
	a.turns = 1
	a.remember(2, 1)

	act := a.Decide(g, nil)
	assert.Equal(t, game.KindPeek, act.Kind, "hidden hat defers the lead")
	a.remember(2, 1)

	dove, ok := a.DecideDoveMove(g, nil)
	require.True(t, ok)
	assert.Equal(t, 5, dove.A)
	assert.NotEqual(t, 1, dove.B, "never onto the lead's destination")
	require.True(t, g.Apply(dove))
	assert.Equal(t, 5, g.VisibleHatIndex(2))
}

func TestPickDovePrefersHomeOfMisplacedHat(t *testing.T) {
	hats := [game.NumPiles]int{1, 3, 2, 4, 5, 6, 7, 8, 9}
	g := mustDeal(t, solvedDeal, hats, 2, 8)
	a := newTestAgent("ai-1", 1)
	for i := 0; i < 20; i++ {
		assert.Equal(t, 2, a.pickDove(g))
	}
}

func TestPickDoveIsSeededRandom(t *testing.T) {
	doves := []int{0, 2, 4, 6, 8}
	g := mustDeal(t, solvedDeal, solvedDeal, doves...)

	seen := map[int]bool{}
	for seed := int64(1); seed <= 50; seed++ {
		first := newTestAgent("ai-1", seed).pickDove(g)
		again := newTestAgent("ai-1", seed).pickDove(g)
		assert.Equal(t, first, again, "same seed, same pick")
		assert.Contains(t, doves, first)
		seen[first] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestPassWhenEverythingCovered(t *testing.T) {
	g := mustDeal(t, sampleRabs, sampleHats, 0, 1, 2, 3, 4, 5, 6, 7, 8)
	a := newTestAgent("ai-1", 1)
	assert.Equal(t, game.Pass(), a.Decide(g, nil))
	_, ok := a.DecideDoveMove(g, nil)
	assert.False(t, ok, "a pass locks nothing")
}

func TestLockTarget(t *testing.T) {
	tests := []struct {
		action game.Action
		want   int
	}{
		{game.SwapPile(0, 4), 4},
		{game.SwapHat(4, 7), 4},
		{game.Peek(6), 6},
		{game.Pass(), -1},
		{game.MoveDove(0, 1), -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lockTarget(tt.action), "%s", tt.action)
	}
}

func TestLastOwnActionSkipsDoveMoves(t *testing.T) {
	a := newTestAgent("ai-1", 1)
	history := []game.Entry{
		{ActorID: "human", Action: game.Peek(3)},
		{ActorID: "ai-1", Action: game.SwapHat(2, 5)},
		{ActorID: "ai-1", Action: game.MoveDove(0, 2)},
	}
	act, ok := a.lastOwnAction(history)
	require.True(t, ok)
	assert.Equal(t, game.SwapHat(2, 5), act)

	_, ok = a.lastOwnAction(history[:1])
	assert.False(t, ok, "no decision made yet")
}

func TestReset(t *testing.T) {
	g := mustDeal(t, solvedDeal, rotatedHats)
	a := newTestAgent("ai-1", 1)
	a.Decide(g, nil)
	_, ok := a.Memory()
	require.True(t, ok)

	a.Reset()
	_, ok = a.Memory()
	assert.False(t, ok)
	assert.Equal(t, 0, a.Turns())
	assert.Equal(t, -1, a.lastPeek)
}

func TestAgentsOnlyEmitLegalActions(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rng := randutil.New(seed)
		g := game.New(2, rng)
		agents := []*Agent{newTestAgent("ai-1", seed), newTestAgent("ai-2", seed+100)}
		var h game.History

		for turn := 0; turn < 300 && !g.CheckWin(); turn++ {
			ag := agents[turn%len(agents)]
			act := ag.Decide(g, h.Entries())
			require.NoError(t, g.Validate(act), "seed %d turn %d", seed, turn)
			play(t, g, &h, ag.ID(), act)

			if dove, ok := ag.DecideDoveMove(g, h.Entries()); ok {
				require.NoError(t, g.Validate(dove), "seed %d turn %d", seed, turn)
				play(t, g, &h, ag.ID(), dove)
			}
			require.NoError(t, g.Valid())
		}
	}
}
