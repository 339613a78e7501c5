package session

import "time"

// Outcome is how a game ended.
type Outcome string

const (
	OutcomeSolved    Outcome = "solved"
	OutcomeTimeUp    Outcome = "time_up"
	OutcomeTurnLimit Outcome = "turn_limit"
	OutcomeAbandoned Outcome = "abandoned"
)

// Phase is where the current turn is.
type Phase int

const (
	PhasePrimary Phase = iota
	PhaseDove
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePrimary:
		return "primary"
	case PhaseDove:
		return "dove"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// State is the orchestrator's bookkeeping for one game.
type State struct {
	Actor      int // index of the actor whose turn it is
	Turns      int // primary actions taken
	Phase      Phase
	HumanTurns int
	HumanThink time.Duration
	StartedAt  time.Time
	Deadline   time.Time // zero without a time limit
	Outcome    Outcome
}

// AverageThink returns the mean time humans took per primary action.
func (s State) AverageThink() (time.Duration, bool) {
	if s.HumanTurns == 0 {
		return 0, false
	}
	return s.HumanThink / time.Duration(s.HumanTurns), true
}

func (s *State) recordThink(d time.Duration) {
	s.HumanTurns++
	s.HumanThink += d
}

// Pacing controls how long computer players wait before acting, so a
// human can follow along. The zero value never waits.
type Pacing struct {
	Min     time.Duration
	Max     time.Duration
	Default time.Duration // used before any human has played
}

// DefaultPacing matches the average human, within 400ms to 5s.
func DefaultPacing() Pacing {
	return Pacing{
		Min:     400 * time.Millisecond,
		Max:     5 * time.Second,
		Default: 800 * time.Millisecond,
	}
}

// Delay returns the wait before the next computer turn.
func (p Pacing) Delay(s State) time.Duration {
	if p == (Pacing{}) {
		return 0
	}
	d := p.Default
	if avg, ok := s.AverageThink(); ok {
		d = avg
	}
	if d < p.Min {
		d = p.Min
	}
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	return d
}
