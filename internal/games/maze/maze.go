package maze

import (
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Cell is one square of the maze grid.
type Cell uint8

const (
	Wall Cell = iota
	Open
	Visited
)

// Grid is a maze of odd width and height with a solid border. Open cells
// sit on odd coordinates and are joined through carved wall cells.
type Grid struct {
	W, H  int
	cells []Cell
}

// NewGrid returns a grid with every cell walled.
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, cells: make([]Cell, w*h)}
}

// At returns the cell at p. Out-of-range points read as walls.
func (g *Grid) At(p core.Point) Cell {
	if !g.In(p) {
		return Wall
	}
	return g.cells[p.Y*g.W+p.X]
}

// Set writes the cell at p; out-of-range writes are ignored.
func (g *Grid) Set(p core.Point, c Cell) {
	if g.In(p) {
		g.cells[p.Y*g.W+p.X] = c
	}
}

// In reports whether p lies on the grid.
func (g *Grid) In(p core.Point) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Passable reports whether a walker may stand on p.
func (g *Grid) Passable(p core.Point) bool {
	return g.At(p) != Wall
}

var carveDirs = []core.Direction{core.DirUp, core.DirDown, core.DirLeft, core.DirRight}

// Generate carves a perfect maze from (1,1) by randomized depth-first
// backtracking with an explicit stack.
func Generate(w, h int, rng *rand.Rand) *Grid {
	g := NewGrid(w, h)
	start := core.Point{X: 1, Y: 1}
	g.Set(start, Open)
	stack := []core.Point{start}

	dirs := make([]core.Direction, len(carveDirs))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		copy(dirs, carveDirs)
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

		advanced := false
		for _, d := range dirs {
			step := d.Delta()
			next := core.Point{X: cur.X + 2*step.X, Y: cur.Y + 2*step.Y}
			if next.X <= 0 || next.X >= w-1 || next.Y <= 0 || next.Y >= h-1 || g.At(next) != Wall {
				continue
			}
			g.Set(cur.Add(step), Open)
			g.Set(next, Open)
			stack = append(stack, next)
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return g
}

// Reachable returns every passable cell connected to from.
func (g *Grid) Reachable(from core.Point) map[core.Point]bool {
	seen := map[core.Point]bool{}
	if !g.Passable(from) {
		return seen
	}
	seen[from] = true
	queue := []core.Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range carveDirs {
			n := p.Add(d.Delta())
			if g.Passable(n) && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}
