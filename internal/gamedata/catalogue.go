package gamedata

import (
	"errors"
	"fmt"

	"github.com/samdwyer/duelband/internal/combat"
	"github.com/samdwyer/duelband/internal/entity"
	"github.com/samdwyer/duelband/internal/input"
)

var (
	// ErrUnknownMove is returned when a roster names a move the catalogue lacks.
	ErrUnknownMove = errors.New("unknown move")
	// ErrUnknownRoster is returned when a roster ID is not in the catalogue.
	ErrUnknownRoster = errors.New("unknown roster")
	// ErrTooManyMoves is returned when a roster has more moves than a player has buttons.
	ErrTooManyMoves = errors.New("too many moves")
)

// CatalogueFile is the on-disk shape of a roster file: moves and rosters together.
type CatalogueFile struct {
	Moves   []MoveDef   `yaml:"moves"`
	Rosters []RosterDef `yaml:"rosters"`
}

// Catalogue holds built moves and roster definitions.
type Catalogue struct {
	moves   map[string]combat.Move
	defs    []MoveDef
	rosters []RosterDef
}

// NewCatalogue builds every move and checks that every roster's moves exist.
func NewCatalogue(moves []MoveDef, rosters []RosterDef) (*Catalogue, error) {
	if len(moves) == 0 {
		return nil, errors.New("catalogue has no moves")
	}
	if len(rosters) < 2 {
		return nil, fmt.Errorf("catalogue needs at least 2 rosters, has %d", len(rosters))
	}

	c := &Catalogue{
		moves:   make(map[string]combat.Move, len(moves)),
		defs:    moves,
		rosters: rosters,
	}
	for i := range moves {
		if _, dup := c.moves[moves[i].ID]; dup {
			return nil, fmt.Errorf("duplicate move id %q", moves[i].ID)
		}
		m, err := moves[i].Build()
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", moves[i].ID, err)
		}
		c.moves[moves[i].ID] = m
	}
	for _, r := range rosters {
		if len(r.Moves) > input.MovesPerPlayer {
			return nil, fmt.Errorf("roster %q: %w: %d, at most %d", r.ID, ErrTooManyMoves, len(r.Moves), input.MovesPerPlayer)
		}
		for _, id := range r.Moves {
			if _, ok := c.moves[id]; !ok {
				return nil, fmt.Errorf("roster %q: %w %q", r.ID, ErrUnknownMove, id)
			}
		}
	}
	return c, nil
}

// LoadCatalogue builds the catalogue from the embedded data files.
func LoadCatalogue() (*Catalogue, error) {
	moves, err := LoadMoves()
	if err != nil {
		return nil, err
	}
	rosters, err := LoadRosters()
	if err != nil {
		return nil, err
	}
	return NewCatalogue(moves, rosters)
}

// LoadCatalogueFile builds a catalogue from a YAML or JSON file on disk.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	file, err := LoadFile[CatalogueFile](path)
	if err != nil {
		return nil, err
	}
	return NewCatalogue(file.Moves, file.Rosters)
}

// Move returns the built move with the given ID, or nil if not found.
func (c *Catalogue) Move(id string) combat.Move {
	return c.moves[id]
}

// MoveDefs returns all move definitions in file order.
func (c *Catalogue) MoveDefs() []MoveDef {
	return c.defs
}

// Rosters returns all roster definitions in file order.
func (c *Catalogue) Rosters() []RosterDef {
	return c.rosters
}

// Roster returns the roster with the given ID, or nil if not found.
func (c *Catalogue) Roster(id string) *RosterDef {
	for i := range c.rosters {
		if c.rosters[i].ID == id {
			return &c.rosters[i]
		}
	}
	return nil
}

// NewPlayer builds a full-health player from a roster. An empty id picks the
// roster at fallback index.
func (c *Catalogue) NewPlayer(id string, fallback int) (*entity.Player, *RosterDef, error) {
	var def *RosterDef
	if id == "" {
		if fallback < 0 || fallback >= len(c.rosters) {
			return nil, nil, fmt.Errorf("%w: index %d", ErrUnknownRoster, fallback)
		}
		def = &c.rosters[fallback]
	} else if def = c.Roster(id); def == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownRoster, id)
	}

	moves := make([]combat.Move, 0, len(def.Moves))
	for _, mid := range def.Moves {
		moves = append(moves, c.moves[mid])
	}
	p, err := entity.NewPlayer(def.Name, def.MaxHP, moves)
	if err != nil {
		return nil, nil, fmt.Errorf("roster %q: %w", def.ID, err)
	}
	return p, def, nil
}
