package gamedata

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// RosterDef defines a duelist and the moves they bring.
type RosterDef struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Symbol string   `json:"symbol" yaml:"symbol"` // single character drawn on the pedestal
	Color  string   `json:"color" yaml:"color"`   // hex colour for HUD text
	MaxHP  int      `json:"maxHp" yaml:"maxHp"`
	Moves  []string `json:"moves" yaml:"moves"` // move IDs in selection order
}

// SymbolRune returns the symbol as a rune for rendering.
func (r *RosterDef) SymbolRune() rune {
	ch, _ := utf8.DecodeRuneInString(r.Symbol)
	if ch == utf8.RuneError {
		return '?'
	}
	return ch
}

// TCellColor returns the roster colour, white when unset or malformed.
func (r *RosterDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(r.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// RostersFile represents the structure of rosters.json.
type RostersFile struct {
	Rosters []RosterDef `json:"rosters"`
}

// LoadRosters loads roster definitions from the embedded rosters.json file.
func LoadRosters() ([]RosterDef, error) {
	file, err := Load[RostersFile]("rosters.json")
	if err != nil {
		return nil, err
	}
	return file.Rosters, nil
}
