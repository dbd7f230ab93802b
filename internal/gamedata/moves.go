package gamedata

import (
	"fmt"

	"github.com/samdwyer/duelband/internal/combat"
)

// MoveKind selects the move variant.
type MoveKind string

const (
	KindAttack MoveKind = "attack"
	KindHeal   MoveKind = "heal"
)

// MoveDef defines a move loaded from data.
type MoveDef struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Kind        MoveKind `json:"kind" yaml:"kind"`
	Accuracy    float64  `json:"accuracy" yaml:"accuracy"`
	BaseDamage  int      `json:"baseDamage,omitempty" yaml:"baseDamage,omitempty"`
	CritChance  float64  `json:"critChance,omitempty" yaml:"critChance,omitempty"`
	Variance    *float64 `json:"variance,omitempty" yaml:"variance,omitempty"` // nil means combat.DefaultVarianceRange
	PercentHeal float64  `json:"percentHeal,omitempty" yaml:"percentHeal,omitempty"`
}

// Build constructs the immutable move described by the definition.
func (d *MoveDef) Build() (combat.Move, error) {
	switch d.Kind {
	case KindAttack:
		variance := combat.DefaultVarianceRange
		if d.Variance != nil {
			variance = *d.Variance
		}
		return combat.NewAttack(d.Name, d.Accuracy, d.BaseDamage, d.CritChance, variance)
	case KindHeal:
		return combat.NewHeal(d.Name, d.Accuracy, d.PercentHeal)
	default:
		return nil, fmt.Errorf("%w: move %s has unknown kind %q", combat.ErrInvalidMove, d.ID, d.Kind)
	}
}

// MovesFile represents the structure of moves.json.
type MovesFile struct {
	Moves []MoveDef `json:"moves"`
}

// LoadMoves loads move definitions from the embedded moves.json file.
func LoadMoves() ([]MoveDef, error) {
	file, err := Load[MovesFile]("moves.json")
	if err != nil {
		return nil, err
	}
	return file.Moves, nil
}
