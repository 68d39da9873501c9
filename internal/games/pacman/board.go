package pacman

import "github.com/vovakirdan/cli-games/internal/core"

// Tile is one cell of the board.
type Tile byte

const (
	TileEmpty Tile = iota
	TileWall
	TileDot
	TilePower
	TileDoor // ghost-house door, closed to Pac-Man
)

// layout is the board: # wall, . dot, o power pellet, - door, G ghost home,
// P Pac-Man start. Row 9 wraps around as a tunnel.
var layout = []string{
	"###################",
	"#o.......#.......o#",
	"#.##.###.#.###.##.#",
	"#.................#",
	"#.##.#.#####.#.##.#",
	"#....#...#...#....#",
	"####.### # ###.####",
	"   #.#   G   #.#   ",
	"####.# ##-## #.####",
	"    .  #GGG#  .    ",
	"####.# ##### #.####",
	"   #.#       #.#   ",
	"####.# ##### #.####",
	"#........#........#",
	"#.##.###.#.###.##.#",
	"#o.#.....P.....#.o#",
	"##.#.#.#####.#.#.##",
	"#....#...#...#....#",
	"#.######.#.######.#",
	"#.................#",
	"###################",
}

// Board holds the tiles and the fixed spawn points.
type Board struct {
	W, H  int
	tiles [][]Tile
	Start core.Point
	Homes []core.Point
	dots  int
}

// NewBoard parses the layout with every dot in place.
func NewBoard() *Board {
	b := &Board{W: len(layout[0]), H: len(layout)}
	b.tiles = make([][]Tile, b.H)
	for y, row := range layout {
		b.tiles[y] = make([]Tile, b.W)
		for x, ch := range row {
			p := core.Point{X: x, Y: y}
			switch ch {
			case '#':
				b.tiles[y][x] = TileWall
			case '.':
				b.tiles[y][x] = TileDot
				b.dots++
			case 'o':
				b.tiles[y][x] = TilePower
				b.dots++
			case '-':
				b.tiles[y][x] = TileDoor
			case 'G':
				b.Homes = append(b.Homes, p)
			case 'P':
				b.Start = p
			}
		}
	}
	return b
}

// At returns the tile at p. Rows outside the board read as walls.
func (b *Board) At(p core.Point) Tile {
	if p.Y < 0 || p.Y >= b.H || p.X < 0 || p.X >= b.W {
		return TileWall
	}
	return b.tiles[p.Y][p.X]
}

// Wrap folds a column that left the board through the tunnel.
func (b *Board) Wrap(p core.Point) core.Point {
	switch {
	case p.X < 0:
		p.X = b.W - 1
	case p.X >= b.W:
		p.X = 0
	}
	return p
}

// Open reports whether Pac-Man may enter p.
func (b *Board) Open(p core.Point) bool {
	t := b.At(b.Wrap(p))
	return t != TileWall && t != TileDoor
}

// GhostOpen reports whether a ghost may enter p.
func (b *Board) GhostOpen(p core.Point) bool {
	return b.At(b.Wrap(p)) != TileWall
}

// Eat clears a dot or pellet at p and returns what was there.
func (b *Board) Eat(p core.Point) Tile {
	t := b.At(p)
	if t != TileDot && t != TilePower {
		return TileEmpty
	}
	b.tiles[p.Y][p.X] = TileEmpty
	b.dots--
	return t
}

// Dots returns how many dots and pellets remain.
func (b *Board) Dots() int { return b.dots }
