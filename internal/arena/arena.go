package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/duelband/internal/telemetry"
)

const (
	// Default arena dimensions in tiles
	DefaultWidth  = 64
	DefaultHeight = 16

	minPedestal = 4
	maxPedestal = 8
	// Each half must fit a pedestal plus a wall border
	minHalf = minPedestal + 2
)

// ErrNoSpawn is returned when the arena is too small to place both duelists.
var ErrNoSpawn = errors.New("arena has no room for both duelists")

// Camera is the single viewpoint; the audio listener follows it.
type Camera struct {
	Position Point
	Height   int   // elevation above the floor, in tiles
	Right    Point // unit screen-right direction
}

// Arena is the duel floor.
type Arena struct {
	Width     int
	Height    int
	Tiles     [][]Tile
	Pedestals [2]Pedestal
	Camera    Camera
	rng       *rand.Rand
}

// New creates an arena filled with walls. rng drives the layout.
func New(width, height int, rng *rand.Rand) *Arena {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}
	return &Arena{
		Width:  width,
		Height: height,
		Tiles:  tiles,
		rng:    rng,
	}
}

// Generate splits the floor into two halves, raises a pedestal in each,
// joins them with a corridor and places the camera over the middle.
func (a *Arena) Generate(ctx context.Context) error {
	tracer := telemetry.Tracer("arena")
	_, span := tracer.Start(ctx, "arena.generate")
	defer span.End()

	inner := a.Width - 2
	if inner < minHalf*2 || a.Height-2 < minHalf {
		span.SetAttributes(attribute.Bool("failed", true))
		return fmt.Errorf("%w: %dx%d", ErrNoSpawn, a.Width, a.Height)
	}

	// Split position between the two halves, leaving each at least minHalf wide
	split := 1 + minHalf + a.rng.Intn(inner-minHalf*2+1)

	a.Pedestals[0] = a.placePedestal(1, split)
	a.Pedestals[1] = a.placePedestal(split, a.Width-1)

	// Open floor between the pedestals, then the corridor through it
	a.carveFloor()
	for _, p := range a.Pedestals {
		a.carvePedestal(p)
	}
	a.carveCorridor(a.Pedestals[0].Center(), a.Pedestals[1].Center())

	for i := range a.Pedestals {
		if s := a.Spawn(i); !a.IsPassable(s.X, s.Y) {
			span.SetAttributes(attribute.Bool("failed", true))
			return fmt.Errorf("%w: duelist %d would stand in a wall", ErrNoSpawn, i+1)
		}
	}

	c0, c1 := a.Pedestals[0].Center(), a.Pedestals[1].Center()
	a.Camera = Camera{
		Position: Point{X: (c0.X + c1.X) / 2, Y: a.Height - 1},
		Height:   a.Height / 2,
		Right:    Point{X: 1},
	}

	span.SetAttributes(
		attribute.Int("arena.width", a.Width),
		attribute.Int("arena.height", a.Height),
		attribute.Int("arena.split", split),
	)
	return nil
}

// Spawn returns the standing point of duelist i (0 or 1).
func (a *Arena) Spawn(i int) Point {
	return a.Pedestals[i].Center()
}

// IsPassable returns true if the given position can be stood on.
func (a *Arena) IsPassable(x, y int) bool {
	return a.GetTile(x, y).IsPassable()
}

// GetTile returns the tile at the given position.
func (a *Arena) GetTile(x, y int) Tile {
	if x < 0 || x >= a.Width || y < 0 || y >= a.Height {
		return TileWall
	}
	return a.Tiles[y][x]
}

// placePedestal sizes and positions a pedestal inside columns [x0, x1).
func (a *Arena) placePedestal(x0, x1 int) Pedestal {
	span := x1 - x0
	width := minPedestal + a.rng.Intn(min(maxPedestal, span-2)-minPedestal+1)
	height := minPedestal + a.rng.Intn(min(maxPedestal, a.Height-2-2)-minPedestal+1)

	// Ensure pedestal fits with a border
	if width > span-2 {
		width = span - 2
	}
	if height > a.Height-4 {
		height = a.Height - 4
	}

	return Pedestal{
		X:      x0 + 1 + a.rng.Intn(span-width-1),
		Y:      2 + a.rng.Intn(a.Height-height-3),
		Width:  width,
		Height: height,
	}
}

// carveFloor opens a band of floor along the bottom rows, the stage front.
func (a *Arena) carveFloor() {
	for y := a.Height - 3; y < a.Height-1; y++ {
		for x := 1; x < a.Width-1; x++ {
			a.Tiles[y][x] = TileFloor
		}
	}
}

// carvePedestal marks all tiles of the pedestal.
func (a *Arena) carvePedestal(p Pedestal) {
	for y := p.Y; y < p.Y+p.Height; y++ {
		for x := p.X; x < p.X+p.Width; x++ {
			if x > 0 && x < a.Width-1 && y > 0 && y < a.Height-1 {
				a.Tiles[y][x] = TilePedestal
			}
		}
	}
}

// carveCorridor joins two points horizontally then vertically, or the reverse.
func (a *Arena) carveCorridor(p1, p2 Point) {
	if a.rng.Intn(2) == 0 {
		a.carveHorizontal(p1.X, p2.X, p1.Y)
		a.carveVertical(p1.Y, p2.Y, p2.X)
	} else {
		a.carveVertical(p1.Y, p2.Y, p1.X)
		a.carveHorizontal(p1.X, p2.X, p2.Y)
	}
}

func (a *Arena) carveHorizontal(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		a.carve(x, y)
	}
}

func (a *Arena) carveVertical(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		a.carve(x, y)
	}
}

func (a *Arena) carve(x, y int) {
	if x > 0 && x < a.Width-1 && y > 0 && y < a.Height-1 && a.Tiles[y][x] == TileWall {
		a.Tiles[y][x] = TileFloor
	}
}
