// Package entity provides the duelists that take part in a battle.
package entity

import (
	"errors"
	"fmt"

	"github.com/samdwyer/duelband/internal/combat"
)

// NoMove is the Selected value of a player who has not picked a move.
const NoMove = -1

// ErrInvalidPlayer is returned when a player is built with bad stats or no moves.
var ErrInvalidPlayer = errors.New("invalid player")

// Player is a duelist's mutable battle state.
type Player struct {
	Name        string
	MaxHP       int
	HP          int
	Moves       []combat.Move // display and selection order
	Deciding    bool          // awaiting this player's selection
	Selected    int           // index into Moves, or NoMove
	Winner      bool          // set once, never cleared
	DamageDealt int           // damage from the last resolved action
}

// NewPlayer creates a player at full health, waiting to decide.
func NewPlayer(name string, maxHP int, moves []combat.Move) (*Player, error) {
	if maxHP <= 0 {
		return nil, fmt.Errorf("%w: %s max HP %d must be positive", ErrInvalidPlayer, name, maxHP)
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: %s has no moves", ErrInvalidPlayer, name)
	}
	for i, m := range moves {
		if m == nil {
			return nil, fmt.Errorf("%w: %s move %d is nil", ErrInvalidPlayer, name, i)
		}
	}
	return &Player{
		Name:     name,
		MaxHP:    maxHP,
		HP:       maxHP,
		Moves:    moves,
		Deciding: true,
		Selected: NoMove,
	}, nil
}

// Select records a move choice and closes this player's decision.
// Out-of-range indices are ignored and reported as false.
func (p *Player) Select(index int) bool {
	if index < 0 || index >= len(p.Moves) {
		return false
	}
	p.Selected = index
	p.Deciding = false
	return true
}

// SelectedMove returns the chosen move, or nil when none is selected.
func (p *Player) SelectedMove() combat.Move {
	if p.Selected < 0 || p.Selected >= len(p.Moves) {
		return nil
	}
	return p.Moves[p.Selected]
}

// HasDecided reports whether the player has locked in a valid selection.
func (p *Player) HasDecided() bool {
	return !p.Deciding && p.SelectedMove() != nil
}

// ReopenDecision clears the selection for a new round.
func (p *Player) ReopenDecision() {
	p.Selected = NoMove
	p.Deciding = true
}

// ApplyDelta changes HP by delta, clamped to [0, MaxHP], and returns the change applied.
func (p *Player) ApplyDelta(delta int) int {
	before := p.HP
	p.HP = min(max(p.HP+delta, 0), p.MaxHP)
	return p.HP - before
}

// MarkWinner sets the winner flag. It is never cleared.
func (p *Player) MarkWinner() {
	p.Winner = true
}

// IsKnockedOut returns true once HP reaches 0.
func (p *Player) IsKnockedOut() bool { return p.HP <= 0 }

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// GetHP returns current HP.
func (p *Player) GetHP() int { return p.HP }

// GetMaxHP returns maximum HP.
func (p *Player) GetMaxHP() int { return p.MaxHP }

// RecordDamageDealt overwrites the damage scratch value.
func (p *Player) RecordDamageDealt(amount int) { p.DamageDealt = amount }

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
