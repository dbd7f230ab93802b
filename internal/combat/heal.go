package combat

import "fmt"

// Heal restores a fraction of the recipient's max health. Heals target the user.
type Heal struct {
	name        string
	accuracy    float64
	percentHeal float64
}

// NewHeal creates a heal move. percentHeal must be in (0, 1].
func NewHeal(name string, accuracy, percentHeal float64) (*Heal, error) {
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: heal has no name", ErrInvalidMove)
	case !isProbability(accuracy):
		return nil, fmt.Errorf("%w: %s accuracy %v outside [0,1]", ErrInvalidMove, name, accuracy)
	case percentHeal <= 0 || percentHeal > 1:
		return nil, fmt.Errorf("%w: %s heal percent %v outside (0,1]", ErrInvalidMove, name, percentHeal)
	}
	return &Heal{name: name, accuracy: accuracy, percentHeal: percentHeal}, nil
}

func (h *Heal) Name() string         { return h.name }
func (h *Heal) Accuracy() float64    { return h.accuracy }
func (h *Heal) Target() TargetType   { return TargetSelf }
func (h *Heal) PercentHeal() float64 { return h.percentHeal }

// Activate resolves the heal. Heals never crit, have no variance and leave
// damage dealt untouched.
func (h *Heal) Activate(rng Roller, user, target Combatant) Outcome {
	out := Outcome{Kind: KindHeal}
	if !rollHit(rng, h.accuracy) {
		return out
	}
	out.Hit = true
	out.Amount = max(1, int(h.percentHeal*float64(target.GetMaxHP())))
	return out
}

var _ Move = (*Heal)(nil)
