package battle

import "github.com/samdwyer/duelband/internal/combat"

// Action is one player's resolved move within a round.
type Action struct {
	Player    int    // index of the mover
	Recipient int    // index of the player whose health the move changes
	Move      string // move name
	Result    combat.Outcome

	// Healed is the health a heal restored: the rolled amount capped by what
	// the recipient was missing when the round began.
	Healed int
}

// RoundReport describes the last resolved round.
type RoundReport struct {
	Round    int
	Actions  [2]Action
	HPBefore [2]int
	HPAfter  [2]int
}
