// Package arena lays out the duel floor and places the duelists and camera.
package arena

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall represents an impassable wall tile.
	TileWall Tile = '#'
	// TileFloor represents open floor.
	TileFloor Tile = '.'
	// TilePedestal marks floor inside a duelist's pedestal.
	TilePedestal Tile = '_'
)

// IsPassable returns true if the tile can be stood on.
func (t Tile) IsPassable() bool {
	return t == TileFloor || t == TilePedestal
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
