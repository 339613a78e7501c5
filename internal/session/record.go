package session

import (
	"path/filepath"
	"time"

	"github.com/lox/magicrabbit/internal/fileutil"
	"github.com/lox/magicrabbit/internal/game"
)

// Record is the complete account of a finished game, deal included.
type Record struct {
	GameID       string             `json:"game_id"`
	Seed         int64              `json:"seed,omitempty"`
	Players      int                `json:"players"`
	Actors       []string           `json:"actors"`
	Rabbits      [game.NumPiles]int `json:"rabbits"`
	Hats         [game.NumPiles]int `json:"hats"`
	Doves        []int              `json:"doves"`
	Actions      []game.Entry       `json:"actions"`
	Outcome      Outcome            `json:"outcome"`
	Turns        int                `json:"turns"`
	MinimumMoves int                `json:"minimum_moves"`
	StartedAt    time.Time          `json:"started_at"`
	DurationMS   int64              `json:"duration_ms"`
}

// RecordWriter persists finished games.
type RecordWriter interface {
	WriteRecord(r *Record) error
}

// FileRecordWriter writes each record to <Dir>/<game id>.json.
type FileRecordWriter struct {
	Dir string
}

// WriteRecord implements RecordWriter.
func (w FileRecordWriter) WriteRecord(r *Record) error {
	return fileutil.WriteJSONAtomic(filepath.Join(w.Dir, r.GameID+".json"), r)
}

// NoOpRecordWriter discards records.
type NoOpRecordWriter struct{}

// WriteRecord implements RecordWriter.
func (NoOpRecordWriter) WriteRecord(*Record) error { return nil }
