package platformer

import (
	"math"
	"math/rand"
)

// Tile is one cell of a level.
type Tile byte

const (
	TileEmpty Tile = iota
	TileGround
	TileBrick
	TileQuestion
	TileUsed // a question block that was already bumped
	TilePipe
	TileCoin
	TileFlag
)

// Solid reports whether the player and enemies collide with t.
func (t Tile) Solid() bool {
	switch t {
	case TileGround, TileBrick, TileQuestion, TileUsed, TilePipe:
		return true
	}
	return false
}

const (
	LevelHeight = 20
	groundTop   = LevelHeight - 3
	platformRow = LevelHeight - 6
	flagTop     = LevelHeight - 11
	patrolRange = 3.0
	eps         = 1e-6
)

// Enemy is a walker that patrols around where it spawned.
type Enemy struct {
	X, Y   float64
	VX     float64
	Center float64
	Alive  bool
}

// Level is one generated stage.
type Level struct {
	W, H    int
	tiles   [][]Tile
	Enemies []Enemy
	FlagX   int
}

// LevelWidth returns the width of stage n.
func LevelWidth(n int) int {
	return 80 + n*20
}

// Generate builds stage n: solid ground with n+1 pits, 5+n brick platforms
// each holding a question block, scattered coins, up to eight walkers and
// a flag in front of the closing pipe.
func Generate(n int, rng *rand.Rand) *Level {
	w := LevelWidth(n)
	l := &Level{W: w, H: LevelHeight, FlagX: w - 6}
	l.tiles = make([][]Tile, l.H)
	for y := range l.tiles {
		l.tiles[y] = make([]Tile, w)
	}
	for y := groundTop; y < l.H; y++ {
		for x := 0; x < w; x++ {
			l.tiles[y][x] = TileGround
		}
	}

	for rep := 0; rep < n+1; rep++ {
		px := 20 + rng.Intn(w-45)
		for y := groundTop; y < l.H; y++ {
			l.tiles[y][px] = TileEmpty
			l.tiles[y][px+1] = TileEmpty
		}
	}

	for i := 0; i < 5+n; i++ {
		sx := 10 + i*15
		length := 3 + rng.Intn(4)
		if sx+length >= l.FlagX-4 {
			break
		}
		for x := sx; x < sx+length; x++ {
			l.tiles[platformRow][x] = TileBrick
		}
		l.tiles[platformRow][sx+length/2] = TileQuestion
	}

	for rep := 0; rep < 10+n*5; rep++ {
		x := 2 + rng.Intn(w-5)
		y := 5 + rng.Intn(groundTop-6)
		if l.tiles[y][x] == TileEmpty {
			l.tiles[y][x] = TileCoin
		}
	}

	for rep := 0; rep < min(n+2, 8); rep++ {
		x := 15 + rng.Intn(w-30)
		if !l.Solid(x, groundTop) || !l.Solid(x+1, groundTop) {
			continue
		}
		l.Enemies = append(l.Enemies, Enemy{
			X: float64(x), Y: groundTop - 1, VX: -1, Center: float64(x), Alive: true,
		})
	}

	for y := flagTop; y < groundTop; y++ {
		l.tiles[y][l.FlagX] = TileFlag
	}
	for y := platformRow; y < groundTop; y++ {
		l.tiles[y][w-3] = TilePipe
		l.tiles[y][w-2] = TilePipe
	}
	return l
}

// At returns the tile at column x, row y. The sides read as ground so
// nothing leaves the stage sideways; above and below are open.
func (l *Level) At(x, y int) Tile {
	if x < 0 || x >= l.W {
		return TileGround
	}
	if y < 0 || y >= l.H {
		return TileEmpty
	}
	return l.tiles[y][x]
}

// Solid reports whether the tile at x, y blocks movement.
func (l *Level) Solid(x, y int) bool {
	return l.At(x, y).Solid()
}

// cells calls fn for every tile a unit box at x, y overlaps.
func cells(x, y float64, fn func(cx, cy int)) {
	for cy := int(math.Floor(y)); cy <= int(math.Floor(y+1-eps)); cy++ {
		for cx := int(math.Floor(x)); cx <= int(math.Floor(x+1-eps)); cx++ {
			fn(cx, cy)
		}
	}
}

// Blocked reports whether a unit box at x, y overlaps a solid tile.
func (l *Level) Blocked(x, y float64) bool {
	hit := false
	cells(x, y, func(cx, cy int) {
		hit = hit || l.Solid(cx, cy)
	})
	return hit
}

// walk moves an enemy along its patrol, turning at the patrol edge, at
// walls and at ledges.
func (l *Level) walk(e *Enemy, dt float64) {
	nx := e.X + e.VX*dt
	front := int(math.Floor(nx))
	if e.VX > 0 {
		front = int(math.Floor(nx + 1 - eps))
	}
	row := int(math.Floor(e.Y))
	if math.Abs(nx-e.Center) > patrolRange || l.Solid(front, row) || !l.Solid(front, row+1) {
		e.VX = -e.VX
		return
	}
	e.X = nx
}
