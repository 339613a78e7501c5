package game

import "fmt"

// NumPiles is the number of piles on the board.
const NumPiles = 9

// Pile is one slot on the board.
type Pile struct {
	Position int // 0-8, fixed
	Rabbit   int // 1-9
	Hat      int // 1-9
	Dove     bool
}

// Solved reports whether both the rabbit and the hat belong at this position.
func (p Pile) Solved() bool {
	return p.Rabbit == p.Position+1 && p.Hat == p.Position+1
}

// HatPlaced reports whether the hat belongs at this position. The hat is
// public information unless a dove covers it.
func (p Pile) HatPlaced() bool {
	return p.Hat == p.Position+1
}

func (p Pile) String() string {
	dove := ""
	if p.Dove {
		dove = " dove"
	}
	return fmt.Sprintf("#%d[rabbit=%d hat=%d%s]", p.Position+1, p.Rabbit, p.Hat, dove)
}

// InRange reports whether i is a valid pile index.
func InRange(i int) bool {
	return i >= 0 && i < NumPiles
}
