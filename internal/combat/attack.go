package combat

import "fmt"

// DefaultVarianceRange is the damage spread used when a move definition omits one (±5%).
const DefaultVarianceRange = 0.05

// Attack deals damage to the opponent.
type Attack struct {
	name          string
	accuracy      float64
	baseDamage    int
	critChance    float64
	varianceRange float64
}

// NewAttack creates an attack move, rejecting out-of-range parameters.
func NewAttack(name string, accuracy float64, baseDamage int, critChance, varianceRange float64) (*Attack, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: attack has no name", ErrInvalidMove)
	case !isProbability(accuracy):
		return nil, fmt.Errorf("%w: %s accuracy %v outside [0,1]", ErrInvalidMove, name, accuracy)
	case baseDamage < 0:
		return nil, fmt.Errorf("%w: %s base damage %d is negative", ErrInvalidMove, name, baseDamage)
	case !isProbability(critChance):
		return nil, fmt.Errorf("%w: %s crit chance %v outside [0,1]", ErrInvalidMove, name, critChance)
	case !isProbability(varianceRange):
		return nil, fmt.Errorf("%w: %s variance %v outside [0,1]", ErrInvalidMove, name, varianceRange)
	}
	return &Attack{
		name:          name,
		accuracy:      accuracy,
		baseDamage:    baseDamage,
		critChance:    critChance,
		varianceRange: varianceRange,
	}, nil
}

func (a *Attack) Name() string           { return a.name }
func (a *Attack) Accuracy() float64      { return a.accuracy }
func (a *Attack) Target() TargetType     { return TargetOpponent }
func (a *Attack) BaseDamage() int        { return a.baseDamage }
func (a *Attack) CritChance() float64    { return a.critChance }
func (a *Attack) VarianceRange() float64 { return a.varianceRange }

// Activate resolves the attack. On a hit the damage is at least 1 and is
// recorded as the user's damage dealt; on a miss damage dealt is reset to 0.
func (a *Attack) Activate(rng Roller, user, target Combatant) Outcome {
	out := Outcome{Kind: KindDamage}
	if !rollHit(rng, a.accuracy) {
		user.RecordDamageDealt(0)
		return out
	}
	out.Hit = true

	damage := a.baseDamage
	// Strict like rollHit: a crit chance of 0 never crits
	if rng.Float64() < a.critChance {
		damage *= 2
		out.Crit = true
	}

	// Uniform integer offset in [-spread, spread]
	if spread := int(a.varianceRange * float64(damage)); spread > 0 {
		damage += rng.Intn(2*spread+1) - spread
	}

	out.Amount = max(1, damage)
	user.RecordDamageDealt(out.Amount)
	return out
}

var _ Move = (*Attack)(nil)
