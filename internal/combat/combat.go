// Package combat provides move resolution for duelband battles.
package combat

import "errors"

// ErrInvalidMove is returned when a move is constructed with out-of-range parameters.
var ErrInvalidMove = errors.New("invalid move")

// Combatant is the view of a player that move resolution needs.
// entity.Player implements this interface.
type Combatant interface {
	GetName() string
	GetHP() int
	GetMaxHP() int

	// RecordDamageDealt overwrites the last-resolved damage scratch value.
	RecordDamageDealt(amount int)
}

// Roller is the random source used for accuracy, crit and variance rolls.
// A *rand.Rand satisfies it; one instance is owned by each battle.
type Roller interface {
	Float64() float64 // uniform in [0, 1)
	Intn(n int) int   // uniform in [0, n)
}

// TargetType is who receives a move's effect.
type TargetType string

const (
	TargetOpponent TargetType = "opponent"
	TargetSelf     TargetType = "self"
)

// Kind is how an outcome changes the recipient's health.
type Kind string

const (
	KindDamage Kind = "damage"
	KindHeal   Kind = "heal"
)

// Outcome is the result of activating a move. Amount is 0 on a miss.
type Outcome struct {
	Kind   Kind
	Hit    bool
	Crit   bool
	Amount int
}

// Move is a selectable battle action. Implementations are immutable once built
// and may be shared between rosters.
type Move interface {
	Name() string
	Accuracy() float64
	Target() TargetType

	// Activate rolls the move from user against target and returns the effect.
	// It never changes health; the caller applies Outcome.Amount.
	Activate(rng Roller, user, target Combatant) Outcome
}

// rollHit draws the accuracy roll. A draw in [0, 1) hits when strictly below
// accuracy, so accuracy 1 always hits and 0 always misses.
func rollHit(rng Roller, accuracy float64) bool {
	return rng.Float64() < accuracy
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
