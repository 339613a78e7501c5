// Package spectator serves a read-only view of a running game over HTTP and
// websockets.
package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lox/magicrabbit/internal/game"
)

// Server broadcasts game events to websocket clients. It implements
// game.EventSubscriber.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	http     *http.Server

	mu       sync.RWMutex
	snapshot Snapshot
	clients  map[*client]bool
}

// NewServer creates a spectator server listening on addr once started.
func NewServer(addr string, logger *log.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Spectating is read-only and unauthenticated.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:  logger.WithPrefix("spectator"),
		clients: make(map[*client]bool),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/state", s.handleState)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting spectator server", "addr", s.addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("spectator server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
	s.mu.Unlock()
	return err
}

// Snapshot returns the current public state.
func (s *Server) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// OnEvent updates the snapshot and forwards the event to every client.
// It never blocks the publisher.
func (s *Server) OnEvent(event game.GameEvent) {
	var (
		msg *Message
		err error
	)

	s.mu.Lock()
	switch e := event.(type) {
	case game.GameStartEvent:
		s.snapshot = Snapshot{
			GameID:     e.GameID,
			Actors:     e.Actors,
			Board:      e.Board,
			HatsPlaced: e.Board.HatsPlaced(),
		}
		msg, err = NewMessage(MessageTypeGameStart, GameStartData{
			GameID: e.GameID,
			Actors: e.Actors,
			Board:  e.Board,
		})
	case game.TurnEvent:
		s.snapshot.Turn = e.Turn
		s.snapshot.HatsPlaced = e.HatsPlaced
		s.snapshot.Board = e.Board
		msg, err = NewMessage(MessageTypeTurn, TurnData{
			Turn:       e.Turn,
			Actor:      e.ActorID,
			Action:     e.Action,
			HatsPlaced: e.HatsPlaced,
			Board:      e.Board,
		})
	case game.GameOverEvent:
		rabbits, hats := e.Rabbits, e.Hats
		s.snapshot.Finished = true
		s.snapshot.Outcome = e.Outcome
		s.snapshot.MinimumMoves = e.MinimumMoves
		s.snapshot.Rabbits = &rabbits
		s.snapshot.Hats = &hats
		msg, err = NewMessage(MessageTypeGameOver, GameOverData{
			Outcome:      e.Outcome,
			Turns:        e.Turns,
			MinimumMoves: e.MinimumMoves,
			Rabbits:      e.Rabbits,
			Hats:         e.Hats,
		})
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}
	if msg != nil {
		s.broadcast(msg)
	}
}

func (s *Server) broadcast(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if !c.enqueue(msg) {
			s.logger.Warn("Spectator too slow, disconnecting", "remote", c.remote)
			c.close()
			delete(s.clients, c)
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		s.logger.Info("Spectator disconnected", "remote", c.remote, "total", len(s.clients))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	c := newClient(conn, r.RemoteAddr)

	s.mu.Lock()
	msg, err := NewMessage(MessageTypeState, s.snapshot)
	if err == nil {
		c.enqueue(msg)
	}
	s.clients[c] = true
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("Spectator connected", "remote", c.remote, "total", total)
	go c.writePump()
	go func() {
		c.readPump()
		s.remove(c)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		s.logger.Error("Failed to write state", "error", err)
	}
}
