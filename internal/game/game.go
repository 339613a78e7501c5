package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/magicrabbit/internal/gameid"
	"github.com/lox/magicrabbit/internal/randutil"
)

// Game holds the nine piles of a single deal. It is not safe for concurrent
// use; one orchestrator owns it and applies actions in turn order.
type Game struct {
	ID           string
	Players      int
	Piles        [NumPiles]Pile
	MinimumMoves int // advisory scoring baseline, see MinimumMoves
}

// DovePositions returns the pile indices that start with a dove for the
// given number of players. Fewer players means more doves; zero or one
// player (including AI-only games) gets five.
func DovePositions(players int) []int {
	switch {
	case players >= 4:
		return []int{0, 8}
	case players == 3:
		return []int{0, 4, 8}
	case players == 2:
		return []int{0, 2, 6, 8}
	default:
		return []int{0, 2, 4, 6, 8}
	}
}

// New deals a game with random rabbit and hat permutations drawn from rng
// and places doves according to the player count.
func New(players int, rng *rand.Rand) *Game {
	var rabbits, hats [NumPiles]int
	for i, v := range rng.Perm(NumPiles) {
		rabbits[i] = v + 1
	}
	for i, v := range rng.Perm(NumPiles) {
		hats[i] = v + 1
	}

	g := newGame(rabbits, hats, DovePositions(players))
	g.Players = players
	if id, err := gameid.GenerateFrom(randutil.Reader(rng.Int64())); err == nil {
		g.ID = id
	} else {
		g.ID = gameid.Generate()
	}
	return g
}

// NewFromDeal builds a game from explicit permutations. Rabbits and hats are
// the 1-9 values at positions 0-8; doves lists the covered indices.
func NewFromDeal(rabbits, hats [NumPiles]int, doves []int) (*Game, error) {
	if !isPermutation(rabbits) {
		return nil, fmt.Errorf("rabbits %v: %w", rabbits, ErrNotPermutation)
	}
	if !isPermutation(hats) {
		return nil, fmt.Errorf("hats %v: %w", hats, ErrNotPermutation)
	}
	for _, d := range doves {
		if !InRange(d) {
			return nil, fmt.Errorf("dove at %d: %w", d, ErrOutOfRange)
		}
	}
	g := newGame(rabbits, hats, doves)
	g.ID = gameid.Generate()
	return g, nil
}

func newGame(rabbits, hats [NumPiles]int, doves []int) *Game {
	g := &Game{}
	for i := range g.Piles {
		g.Piles[i] = Pile{Position: i, Rabbit: rabbits[i], Hat: hats[i]}
	}
	for _, d := range doves {
		g.Piles[d].Dove = true
	}
	g.MinimumMoves = MinimumMoves(rabbits, hats)
	return g
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

// SwapPiles exchanges rabbit and hat between piles i and j. The dove flag
// stays with the position. It does nothing if either pile has a dove or
// either index is out of range.
func (g *Game) SwapPiles(i, j int) {
	if !g.movable(i, j) {
		return
	}
	a, b := &g.Piles[i], &g.Piles[j]
	a.Rabbit, b.Rabbit = b.Rabbit, a.Rabbit
	a.Hat, b.Hat = b.Hat, a.Hat
}

// SwapHats exchanges only the hats of piles i and j, with the same guard as
// SwapPiles.
func (g *Game) SwapHats(i, j int) {
	if !g.movable(i, j) {
		return
	}
	g.Piles[i].Hat, g.Piles[j].Hat = g.Piles[j].Hat, g.Piles[i].Hat
}

// MoveDove relocates the dove at from onto to. It does nothing unless from
// has a dove and to does not.
func (g *Game) MoveDove(from, to int) {
	if !InRange(from) || !InRange(to) {
		return
	}
	if !g.Piles[from].Dove || g.Piles[to].Dove {
		return
	}
	g.Piles[from].Dove = false
	g.Piles[to].Dove = true
}

// Peek returns the rabbit at i. ok is false when i is out of range or a
// dove covers the pile.
func (g *Game) Peek(i int) (rabbit int, ok bool) {
	if !InRange(i) || g.Piles[i].Dove {
		return 0, false
	}
	return g.Piles[i].Rabbit, true
}

func (g *Game) movable(i, j int) bool {
	if !InRange(i) || !InRange(j) || i == j {
		return false
	}
	return !g.Piles[i].Dove && !g.Piles[j].Dove
}

// CheckWin reports whether every pile holds the rabbit and hat matching its
// position. Doves do not matter.
func (g *Game) CheckWin() bool {
	return g.SolvedCount() == NumPiles
}

// SolvedCount returns how many piles are solved. It reads hidden rabbits,
// so it must never reach a player before the game is over.
func (g *Game) SolvedCount() int {
	n := 0
	for _, p := range g.Piles {
		if p.Solved() {
			n++
		}
	}
	return n
}

// Doves returns the indices currently covered by a dove, in order.
func (g *Game) Doves() []int {
	var out []int
	for i, p := range g.Piles {
		if p.Dove {
			out = append(out, i)
		}
	}
	return out
}

// RabbitIndex returns the index of the pile holding rabbit value, or -1.
func (g *Game) RabbitIndex(value int) int {
	for i, p := range g.Piles {
		if p.Rabbit == value {
			return i
		}
	}
	return -1
}

// VisibleHatIndex returns the first dove-free pile wearing hat value, or -1.
func (g *Game) VisibleHatIndex(value int) int {
	for i, p := range g.Piles {
		if p.Hat == value && !p.Dove {
			return i
		}
	}
	return -1
}

// Validate explains why an action would be refused, or returns nil when
// Apply would carry it out.
func (g *Game) Validate(a Action) error {
	switch a.Kind {
	case KindPass:
		return nil
	case KindPeek:
		if !InRange(a.A) {
			return fmt.Errorf("peek %d: %w", a.A, ErrOutOfRange)
		}
		if g.Piles[a.A].Dove {
			return fmt.Errorf("peek %d: %w", a.A, ErrDoveBlocked)
		}
		return nil
	case KindSwapPile, KindSwapHat:
		for _, i := range []int{a.A, a.B} {
			if !InRange(i) {
				return fmt.Errorf("%s %d: %w", a.Kind, i, ErrOutOfRange)
			}
		}
		if a.A == a.B {
			return fmt.Errorf("%s %d: %w", a.Kind, a.A, ErrSameIndex)
		}
		for _, i := range []int{a.A, a.B} {
			if g.Piles[i].Dove {
				return fmt.Errorf("%s %d: %w", a.Kind, i, ErrDoveBlocked)
			}
		}
		return nil
	case KindMoveDove:
		if !InRange(a.A) || !InRange(a.B) {
			return fmt.Errorf("move dove %d->%d: %w", a.A, a.B, ErrOutOfRange)
		}
		if !g.Piles[a.A].Dove {
			return fmt.Errorf("move dove from %d: %w", a.A, ErrNoDove)
		}
		if g.Piles[a.B].Dove {
			return fmt.Errorf("move dove to %d: %w", a.B, ErrDoveOccupied)
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Kind))
}

// Apply carries out an action through the primitives above. It reports
// whether the action was legal; illegal actions leave the game unchanged.
// Peek and Pass never change the piles.
func (g *Game) Apply(a Action) bool {
	if g.Validate(a) != nil {
		return false
	}
	switch a.Kind {
	case KindSwapPile:
		g.SwapPiles(a.A, a.B)
	case KindSwapHat:
		g.SwapHats(a.A, a.B)
	case KindMoveDove:
		g.MoveDove(a.A, a.B)
	}
	return true
}

// Permutations returns the rabbit and hat numbers by position.
func (g *Game) Permutations() (rabbits, hats [NumPiles]int) {
	for i, p := range g.Piles {
		rabbits[i] = p.Rabbit
		hats[i] = p.Hat
	}
	return rabbits, hats
}

// Valid checks the permutation invariant. A failure means a bug in this
// package, not bad input.
func (g *Game) Valid() error {
	rabbits, hats := g.Permutations()
	if !isPermutation(rabbits) {
		return fmt.Errorf("rabbits %v: %w", rabbits, ErrNotPermutation)
	}
	if !isPermutation(hats) {
		return fmt.Errorf("hats %v: %w", hats, ErrNotPermutation)
	}
	for i, p := range g.Piles {
		if p.Position != i {
			return fmt.Errorf("pile at %d reports position %d", i, p.Position)
		}
	}
	return nil
}

func isPermutation(values [NumPiles]int) bool {
	var seen [NumPiles + 1]bool
	for _, v := range values {
		if v < 1 || v > NumPiles || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
