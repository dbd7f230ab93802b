package battle

// Phase is the current step of a battle round.
type Phase int

const (
	// PhaseDeciding - waiting for both players to pick a move
	PhaseDeciding Phase = iota
	// PhaseAnimating - pause between the lock-in and the report
	PhaseAnimating
	// PhaseReporting - round resolved, waiting for acknowledgment
	PhaseReporting
	// PhaseOver - battle decided; absorbing
	PhaseOver
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDeciding:
		return "deciding"
	case PhaseAnimating:
		return "animating"
	case PhaseReporting:
		return "reporting"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Outcome is the battle result so far.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomePlayerOneWins
	OutcomePlayerTwoWins
	// OutcomeDraw - both players knocked out in the same round
	OutcomeDraw
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomePlayerOneWins:
		return "player_one_wins"
	case OutcomePlayerTwoWins:
		return "player_two_wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Decided reports whether the battle has a final result.
func (o Outcome) Decided() bool {
	return o != OutcomePending
}

// Winner returns the winning player index, or -1 for a draw or pending battle.
func (o Outcome) Winner() int {
	switch o {
	case OutcomePlayerOneWins:
		return 0
	case OutcomePlayerTwoWins:
		return 1
	default:
		return -1
	}
}
