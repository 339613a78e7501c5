// Package statistics aggregates the results of many simulated games.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed         int64  // deal seed, for replay
	Outcome      string // solved, turn_limit, time_up, abandoned
	Solved       bool
	Turns        int // primary actions taken
	DoveMoves    int
	MinimumMoves int
}

// Statistics tracks solve rate and speed over a batch of games. Turn
// figures only cover solved games.
type Statistics struct {
	Games  int
	Solved int

	SumTurns  float64
	SumTurns2 float64   // sum of squares for variance
	Values    []float64 // turns of every solved game, for median and percentiles
	SumRatio  float64   // turns / minimum moves, solved games
	BestRatio float64

	DoveMoves int
	Outcomes  map[string]int
}

// Add incorporates a game.
func (s *Statistics) Add(r GameResult) {
	s.Games++
	s.DoveMoves += r.DoveMoves
	if s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	s.Outcomes[r.Outcome]++

	if !r.Solved {
		return
	}
	turns := float64(r.Turns)
	s.Solved++
	s.SumTurns += turns
	s.SumTurns2 += turns * turns
	s.Values = append(s.Values, turns)

	if r.MinimumMoves > 0 {
		ratio := turns / float64(r.MinimumMoves)
		s.SumRatio += ratio
		if s.BestRatio == 0 || ratio < s.BestRatio {
			s.BestRatio = ratio
		}
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.Solved += other.Solved
	s.SumTurns += other.SumTurns
	s.SumTurns2 += other.SumTurns2
	s.Values = append(s.Values, other.Values...)
	s.SumRatio += other.SumRatio
	if other.BestRatio > 0 && (s.BestRatio == 0 || other.BestRatio < s.BestRatio) {
		s.BestRatio = other.BestRatio
	}
	s.DoveMoves += other.DoveMoves
	if len(other.Outcomes) > 0 && s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	for k, v := range other.Outcomes {
		s.Outcomes[k] += v
	}
}

// SolveRate returns the fraction of games solved.
func (s *Statistics) SolveRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Games)
}

// Mean returns the mean number of turns per solved game.
func (s *Statistics) Mean() float64 {
	if s.Solved == 0 {
		return 0
	}
	return s.SumTurns / float64(s.Solved)
}

// MeanRatio returns the mean of turns over minimum moves; 1.0 is optimal.
func (s *Statistics) MeanRatio() float64 {
	if s.Solved == 0 {
		return 0
	}
	return s.SumRatio / float64(s.Solved)
}

// Variance returns the sample variance of turns per solved game.
func (s *Statistics) Variance() float64 {
	if s.Solved < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumTurns2 - float64(s.Solved)*mean*mean) / float64(s.Solved-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Solved == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Solved))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median turns per solved game.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p (0.0 to 1.0).
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if s.Solved > s.Games {
		return fmt.Errorf("solved games (%d) exceed total games (%d)", s.Solved, s.Games)
	}
	if len(s.Values) != s.Solved {
		return fmt.Errorf("values array length (%d) does not match solved count (%d)", len(s.Values), s.Solved)
	}
	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Games {
		return fmt.Errorf("outcome total (%d) does not match games (%d)", total, s.Games)
	}
	return nil
}
