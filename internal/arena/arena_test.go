package arena

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func generate(t *testing.T, seed int64) *Arena {
	t.Helper()
	a := New(DefaultWidth, DefaultHeight, rand.New(rand.NewSource(seed)))
	if err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return a
}

func TestArenaReproducibility(t *testing.T) {
	a1 := generate(t, 12345)
	a2 := generate(t, 12345)

	if a1.Pedestals != a2.Pedestals {
		t.Fatalf("Pedestal mismatch: %v != %v", a1.Pedestals, a2.Pedestals)
	}
	for y := 0; y < a1.Height; y++ {
		for x := 0; x < a1.Width; x++ {
			if a1.Tiles[y][x] != a2.Tiles[y][x] {
				t.Errorf("Tile mismatch at (%d,%d): %v != %v", x, y, a1.Tiles[y][x], a2.Tiles[y][x])
			}
		}
	}
}

func TestArenaLayoutInvariants(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		a := generate(t, seed)

		p0, p1 := a.Pedestals[0], a.Pedestals[1]
		if p0.Intersects(p1) {
			t.Fatalf("seed %d: pedestals overlap: %v %v", seed, p0, p1)
		}
		if p0.X+p0.Width > p1.X {
			t.Fatalf("seed %d: player one pedestal should be left of player two", seed)
		}
		for i := 0; i < 2; i++ {
			s := a.Spawn(i)
			if !a.Pedestals[i].Contains(s) {
				t.Fatalf("seed %d: spawn %d %v off its pedestal", seed, i, s)
			}
			if !a.IsPassable(s.X, s.Y) {
				t.Fatalf("seed %d: spawn %d %v not passable", seed, i, s)
			}
		}
		// Border stays solid
		for x := 0; x < a.Width; x++ {
			if a.GetTile(x, 0) != TileWall || a.GetTile(x, a.Height-1) != TileWall {
				t.Fatalf("seed %d: border broken at column %d", seed, x)
			}
		}
		if a.Camera.Position.X <= p0.Center().X || a.Camera.Position.X >= p1.Center().X {
			t.Fatalf("seed %d: camera %v not between spawns", seed, a.Camera.Position)
		}
	}
}

func TestArenaTooSmall(t *testing.T) {
	a := New(10, 5, rand.New(rand.NewSource(1)))
	if err := a.Generate(context.Background()); !errors.Is(err, ErrNoSpawn) {
		t.Errorf("Generate() error = %v, want ErrNoSpawn", err)
	}
}

func TestArenaMinimumSize(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		a := New(2*minHalf+2, minHalf+2, rand.New(rand.NewSource(seed)))
		if err := a.Generate(context.Background()); err != nil {
			t.Fatalf("seed %d: Generate() error = %v", seed, err)
		}
	}
}

func TestGetTileOutOfBounds(t *testing.T) {
	a := generate(t, 1)
	if a.GetTile(-1, 0) != TileWall || a.GetTile(0, a.Height) != TileWall {
		t.Error("out-of-bounds tiles should read as walls")
	}
}
