package game

// MinimumMoves estimates how many actions optimal play needs to solve a
// deal. It walks the positions in order and charges one peek per position,
// one pile swap if the right rabbit is elsewhere (its hat travels with it)
// and one hat swap if the hat is then still wrong. The last rabbit can be
// inferred, so one peek is refunded. Dove moves are not counted.
//
// The value is only used for scoring; agents never read it.
func MinimumMoves(rabbits, hats [NumPiles]int) int {
	return len(MinimumSchedule(rabbits, hats)) - 1
}

// MinimumSchedule returns the action sequence MinimumMoves charges for,
// including the final peek that MinimumMoves refunds. Applying it to a
// dove-free copy of the deal solves the puzzle.
func MinimumSchedule(rabbits, hats [NumPiles]int) []Action {
	r, h := rabbits, hats
	var plan []Action
	for i := 0; i < NumPiles; i++ {
		plan = append(plan, Peek(i))
		if r[i] != i+1 {
			j := indexOf(r, i+1)
			if j >= 0 {
				r[i], r[j] = r[j], r[i]
				h[i], h[j] = h[j], h[i]
				plan = append(plan, SwapPile(i, j))
			}
		}
		if h[i] != i+1 {
			j := indexOf(h, i+1)
			if j >= 0 {
				h[i], h[j] = h[j], h[i]
				plan = append(plan, SwapHat(i, j))
			}
		}
	}
	return plan
}

func indexOf(values [NumPiles]int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
