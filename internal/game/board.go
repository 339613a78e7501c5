package game

// PublicPile is what every player can see of a pile: its hat, unless a
// dove covers it. Rabbits are never public.
type PublicPile struct {
	Position int  `json:"position"`
	Hat      int  `json:"hat,omitempty"` // 0 when covered
	Dove     bool `json:"dove"`
}

// Board is the public view of all nine piles.
type Board [NumPiles]PublicPile

// Public returns the board as any player sees it.
func (g *Game) Public() Board {
	var b Board
	for i, p := range g.Piles {
		b[i] = PublicPile{Position: i, Dove: p.Dove}
		if !p.Dove {
			b[i].Hat = p.Hat
		}
	}
	return b
}

// HatsPlaced counts the uncovered piles whose hat sits at home. It reads
// the public board only, so it says nothing about rabbits.
func (b Board) HatsPlaced() int {
	n := 0
	for i, p := range b {
		if !p.Dove && p.Hat == i+1 {
			n++
		}
	}
	return n
}
