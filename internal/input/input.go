// Package input tracks logical button state between simulation ticks.
package input

import "math"

// Action is a logical button.
type Action int

const (
	ActionP1Move0 Action = iota
	ActionP1Move1
	ActionP1Move2
	ActionP1Move3
	ActionP2Move0
	ActionP2Move1
	ActionP2Move2
	ActionP2Move3
	ActionAcknowledge
	ActionQuit

	actionCount

	// ActionNone is bound to nothing. MoveAction returns it for a move with no button.
	ActionNone Action = -1
)

// MovesPerPlayer is the number of move buttons bound per player.
const MovesPerPlayer = 4

// String returns a human-readable action name.
func (a Action) String() string {
	switch {
	case a >= ActionP1Move0 && a <= ActionP1Move3:
		return "p1_move_" + string(rune('0'+int(a-ActionP1Move0)))
	case a >= ActionP2Move0 && a <= ActionP2Move3:
		return "p2_move_" + string(rune('0'+int(a-ActionP2Move0)))
	case a == ActionAcknowledge:
		return "acknowledge"
	case a == ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// MoveAction returns the action that selects move index for player (0 or 1),
// or ActionNone when index has no button.
func MoveAction(player, index int) Action {
	if index < 0 || index >= MovesPerPlayer {
		return ActionNone
	}
	if player == 0 {
		return ActionP1Move0 + Action(index)
	}
	return ActionP2Move0 + Action(index)
}

// Button holds edge and level state for one logical button.
// Downs counts key-down transitions this tick; Pressed is the held level.
type Button struct {
	Downs   uint8
	Pressed bool
}

// State is the button table for one simulation.
type State struct {
	buttons [actionCount]Button
}

// NewState returns a State with every button released.
func NewState() *State {
	return &State{}
}

// Press records a key-down transition.
func (s *State) Press(a Action) {
	b := s.button(a)
	if b == nil {
		return
	}
	if b.Downs < math.MaxUint8 {
		b.Downs++
	}
	b.Pressed = true
}

// Release records a key-up transition.
func (s *State) Release(a Action) {
	if b := s.button(a); b != nil {
		b.Pressed = false
	}
}

// Tap is a Press followed by a Release, for sources that have no key-up events.
func (s *State) Tap(a Action) {
	s.Press(a)
	s.Release(a)
}

// Downs returns the key-down count for this tick.
func (s *State) Downs(a Action) uint8 {
	if b := s.button(a); b != nil {
		return b.Downs
	}
	return 0
}

// held reports the level state of a button.
func (s *State) held(a Action) bool {
	if b := s.button(a); b != nil {
		return b.Pressed
	}
	return false
}

// WasPressed reports at least one key-down edge this tick.
func (s *State) WasPressed(a Action) bool {
	return s.Downs(a) > 0
}

// EndTick zeroes every edge counter. Held levels persist.
func (s *State) EndTick() {
	for i := range s.buttons {
		s.buttons[i].Downs = 0
	}
}

func (s *State) button(a Action) *Button {
	if a < 0 || a >= actionCount {
		return nil
	}
	return &s.buttons[a]
}

// Bindings maps terminal runes to actions.
type Bindings map[rune]Action

// DefaultBindings returns the hot-seat layout: player one on a s d f,
// player two on j k l ;, space to acknowledge and q to quit.
func DefaultBindings() Bindings {
	return Bindings{
		'a': ActionP1Move0, 's': ActionP1Move1, 'd': ActionP1Move2, 'f': ActionP1Move3,
		'j': ActionP2Move0, 'k': ActionP2Move1, 'l': ActionP2Move2, ';': ActionP2Move3,
		' ': ActionAcknowledge,
		'q': ActionQuit,
	}
}

// Action returns the action bound to r.
func (b Bindings) Action(r rune) (Action, bool) {
	a, ok := b[r]
	return a, ok
}

// KeyFor returns the lowest rune bound to a, or 0 when a is unbound.
func (b Bindings) KeyFor(a Action) rune {
	var key rune
	for r, bound := range b {
		if bound == a && (key == 0 || r < key) {
			key = r
		}
	}
	return key
}
