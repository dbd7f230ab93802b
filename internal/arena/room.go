package arena

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Pedestal is the rectangular platform a duelist stands on.
type Pedestal struct {
	X, Y          int // Top-left corner position
	Width, Height int
}

// Center returns the center tile of the pedestal.
func (p Pedestal) Center() Point {
	return Point{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

// Contains returns true if the given point is on the pedestal.
func (p Pedestal) Contains(pt Point) bool {
	return pt.X >= p.X && pt.X < p.X+p.Width && pt.Y >= p.Y && pt.Y < p.Y+p.Height
}

// Intersects returns true if this pedestal overlaps another.
func (p Pedestal) Intersects(other Pedestal) bool {
	return p.X < other.X+other.Width &&
		p.X+p.Width > other.X &&
		p.Y < other.Y+other.Height &&
		p.Y+p.Height > other.Y
}
