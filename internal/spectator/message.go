package spectator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/magicrabbit/internal/game"
)

// MessageType identifies a spectator message.
type MessageType string

const (
	MessageTypeState     MessageType = "state"
	MessageTypeGameStart MessageType = "game_start"
	MessageTypeTurn      MessageType = "turn"
	MessageTypeGameOver  MessageType = "game_over"
)

// Message is the envelope for everything sent over the websocket.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps data in an envelope.
func NewMessage(msgType MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", msgType, err)
	}
	return &Message{Type: msgType, Data: raw, Timestamp: time.Now()}, nil
}

// Snapshot is the public state of the game being watched. The deal and
// the minimum move count are only filled in once the game is over.
type Snapshot struct {
	GameID       string              `json:"game_id"`
	Actors       []string            `json:"actors"`
	Turn         int                 `json:"turn"`
	HatsPlaced   int                 `json:"hats_placed"`
	MinimumMoves int                 `json:"minimum_moves,omitempty"`
	Board        game.Board          `json:"board"`
	Finished     bool                `json:"finished"`
	Outcome      string              `json:"outcome,omitempty"`
	Rabbits      *[game.NumPiles]int `json:"rabbits,omitempty"`
	Hats         *[game.NumPiles]int `json:"hats,omitempty"`
}

// GameStartData announces a new deal.
type GameStartData struct {
	GameID string     `json:"game_id"`
	Actors []string   `json:"actors"`
	Board  game.Board `json:"board"`
}

// TurnData describes one applied action. It never carries what a peek
// revealed.
type TurnData struct {
	Turn       int         `json:"turn"`
	Actor      string      `json:"actor"`
	Action     game.Action `json:"action"`
	HatsPlaced int         `json:"hats_placed"`
	Board      game.Board  `json:"board"`
}

// GameOverData reveals the final deal.
type GameOverData struct {
	Outcome      string             `json:"outcome"`
	Turns        int                `json:"turns"`
	MinimumMoves int                `json:"minimum_moves"`
	Rabbits      [game.NumPiles]int `json:"rabbits"`
	Hats         [game.NumPiles]int `json:"hats"`
}
