package spectator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/magicrabbit/internal/game"
	"github.com/lox/magicrabbit/internal/randutil"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer("localhost:0", log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		ts.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHealth(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestStateHidesDealUntilGameOver(t *testing.T) {
	s, ts := testServer(t)
	g := game.New(2, randutil.New(7))

	s.OnEvent(game.NewGameStartEvent(g, []string{"human", "ai-1"}))

	get := func() Snapshot {
		resp, err := http.Get(ts.URL + "/state")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		var snap Snapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		return snap
	}

	snap := get()
	assert.Equal(t, g.ID, snap.GameID)
	assert.Equal(t, []string{"human", "ai-1"}, snap.Actors)
	assert.False(t, snap.Finished)
	assert.Nil(t, snap.Rabbits)
	assert.Nil(t, snap.Hats)
	assert.Zero(t, snap.MinimumMoves)

	s.OnEvent(game.NewGameOverEvent(g, "abandoned", 0))

	snap = get()
	assert.True(t, snap.Finished)
	assert.Equal(t, "abandoned", snap.Outcome)
	rabbits, hats := g.Permutations()
	require.NotNil(t, snap.Rabbits)
	require.NotNil(t, snap.Hats)
	assert.Equal(t, rabbits, *snap.Rabbits)
	assert.Equal(t, hats, *snap.Hats)
	assert.Equal(t, g.MinimumMoves, snap.MinimumMoves)
}

func TestSnapshotDependsOnPublicBoardOnly(t *testing.T) {
	hats := [game.NumPiles]int{2, 1, 3, 4, 5, 6, 7, 8, 9}
	deals := [][game.NumPiles]int{
		{1, 3, 2, 4, 5, 6, 7, 8, 9},
		{2, 3, 1, 4, 5, 6, 7, 8, 9},
	}

	var snaps []Snapshot
	var turns []json.RawMessage
	for _, rabbits := range deals {
		g, err := game.NewFromDeal(rabbits, hats, []int{8})
		require.NoError(t, err)
		g.ID = "game-1"

		s := NewServer("localhost:0", log.New(io.Discard))
		c := &client{send: make(chan *Message, 4), done: make(chan struct{})}
		s.clients[c] = true

		s.OnEvent(game.NewGameStartEvent(g, []string{"human", "ai-1"}))
		require.True(t, g.Apply(game.SwapHat(0, 1)))
		s.OnEvent(game.NewTurnEvent(g, 1, "human", game.SwapHat(0, 1), true))

		snaps = append(snaps, s.Snapshot())
		<-c.send
		turns = append(turns, (<-c.send).Data)
	}

	assert.Equal(t, snaps[0], snaps[1])
	assert.JSONEq(t, string(turns[0]), string(turns[1]))
	assert.Equal(t, 8, snaps[0].HatsPlaced)
	assert.Zero(t, snaps[0].MinimumMoves)
}

func TestWebSocketStreamsEvents(t *testing.T) {
	s, ts := testServer(t)
	g := game.New(1, randutil.New(3))
	s.OnEvent(game.NewGameStartEvent(g, []string{"ai-1"}))

	conn := dial(t, ts)

	first := readMessage(t, conn)
	require.Equal(t, MessageTypeState, first.Type)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(first.Data, &snap))
	assert.Equal(t, g.ID, snap.GameID)

	free := -1
	for i, p := range g.Public() {
		if !p.Dove {
			free = i
			break
		}
	}
	require.GreaterOrEqual(t, free, 0)
	action := game.Peek(free)
	require.True(t, g.Apply(action))
	s.OnEvent(game.NewTurnEvent(g, 1, "ai-1", action, true))

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeTurn, msg.Type)
	var turn TurnData
	require.NoError(t, json.Unmarshal(msg.Data, &turn))
	assert.Equal(t, 1, turn.Turn)
	assert.Equal(t, "ai-1", turn.Actor)
	assert.Equal(t, action, turn.Action)
	assert.NotContains(t, string(msg.Data), "rabbit\":")

	s.OnEvent(game.NewGameOverEvent(g, "turn_limit", 1))
	msg = readMessage(t, conn)
	require.Equal(t, MessageTypeGameOver, msg.Type)
	var over GameOverData
	require.NoError(t, json.Unmarshal(msg.Data, &over))
	assert.Equal(t, "turn_limit", over.Outcome)
	rabbits, _ := g.Permutations()
	assert.Equal(t, rabbits, over.Rabbits)
}

func TestEnqueueReportsFullBuffer(t *testing.T) {
	c := &client{send: make(chan *Message, 1), done: make(chan struct{})}
	msg, err := NewMessage(MessageTypeTurn, TurnData{Turn: 1})
	require.NoError(t, err)

	assert.True(t, c.enqueue(msg))
	assert.False(t, c.enqueue(msg), "second message should not fit")

	close(c.done)
	assert.True(t, c.enqueue(msg), "closed clients swallow messages")
}
