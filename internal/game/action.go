package game

import (
	"fmt"
	"strings"
)

// Kind identifies the type of an action
type Kind int

const (
	KindPass Kind = iota
	KindPeek
	KindSwapPile
	KindSwapHat
	KindMoveDove
)

var kindNames = [...]string{"pass", "peek", "swap-pile", "swap-hat", "move-dove"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name for records and spectator messages.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Action is a single move. Peek uses A; swaps use A and B; MoveDove moves
// the dove from A to B; Pass uses neither.
type Action struct {
	Kind Kind `json:"kind"`
	A    int  `json:"a"`
	B    int  `json:"b"`
}

// Pass returns the no-op action.
func Pass() Action { return Action{Kind: KindPass} }

// Peek returns an action revealing the rabbit at i to the actor.
func Peek(i int) Action { return Action{Kind: KindPeek, A: i} }

// SwapPile returns an action exchanging rabbit and hat between i and j.
func SwapPile(i, j int) Action { return Action{Kind: KindSwapPile, A: i, B: j} }

// SwapHat returns an action exchanging the hats of i and j.
func SwapHat(i, j int) Action { return Action{Kind: KindSwapHat, A: i, B: j} }

// MoveDove returns an action relocating the dove at from to to.
func MoveDove(from, to int) Action { return Action{Kind: KindMoveDove, A: from, B: to} }

// IsSwap reports whether the action rearranges piles or hats.
func (a Action) IsSwap() bool {
	return a.Kind == KindSwapPile || a.Kind == KindSwapHat
}

func (a Action) String() string {
	switch a.Kind {
	case KindPass:
		return "pass"
	case KindPeek:
		return fmt.Sprintf("peek(%d)", a.A)
	case KindSwapPile, KindSwapHat:
		return fmt.Sprintf("%s(%d,%d)", a.Kind, a.A, a.B)
	case KindMoveDove:
		return fmt.Sprintf("move-dove(%d->%d)", a.A, a.B)
	}
	return a.Kind.String()
}
