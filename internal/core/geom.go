// Package core holds the contract every game plays by: modes, descriptors,
// input events, the session interface and the character grid sessions draw
// into. It has no terminal or storage dependencies so game logic stays pure
// and testable.
package core

// Point is a cell coordinate on a grid. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is one of the four grid headings.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit step for the direction.
func (d Direction) Delta() Point {
	switch d {
	case DirUp:
		return Point{Y: -1}
	case DirDown:
		return Point{Y: 1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	}
	return Point{}
}

// Opposite reports whether d and other point in opposite directions.
func (d Direction) Opposite(other Direction) bool {
	switch d {
	case DirUp:
		return other == DirDown
	case DirDown:
		return other == DirUp
	case DirLeft:
		return other == DirRight
	case DirRight:
		return other == DirLeft
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DirectionOf maps a movement action to a heading. Non-movement actions
// return DirNone.
func DirectionOf(a Action) Direction {
	switch a {
	case ActionUp:
		return DirUp
	case ActionDown:
		return DirDown
	case ActionLeft:
		return DirLeft
	case ActionRight:
		return DirRight
	}
	return DirNone
}

// Rect is an axis-aligned box of cells, used for frames and overlays.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return max(lo, min(hi, val))
}
