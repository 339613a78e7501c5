// Package game implements the Magic Rabbit game state engine.
//
// A game is nine piles. Each pile hides a rabbit number and a hat number
// (1-9) and may be covered by a dove. Rabbits form a permutation of 1..9 and
// so do hats; the puzzle is solved when every pile at index i carries rabbit
// i+1 under hat i+1.
//
// # Basic Usage
//
// Deal a game for two players and apply actions:
//
//	rng := randutil.New(42)
//	g := game.New(2, rng)
//	g.Apply(game.SwapPile(1, 3))
//	g.Apply(game.MoveDove(0, 1))
//	if g.CheckWin() {
//	    // solved
//	}
//
// # Dove Blocking
//
// A pile with a dove can be neither peeked nor swapped. Mutating methods
// treat blocked or out-of-range requests as silent no-ops; callers that need
// to explain a refusal (a human prompt, for example) use Validate, which
// returns one of the sentinel errors in errors.go.
//
// The dove flag is bound to the position, not to the pile contents: swapping
// piles moves rabbit and hat only. Since swaps involving a dove are refused,
// the flag never has to travel.
//
// # Deterministic Deals
//
// New draws both permutations from the supplied *rand.Rand, so a seed fully
// determines a deal. NewFromDeal builds a game from explicit permutations for
// tests and replays.
package game
