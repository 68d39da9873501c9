package tetris

import "github.com/vovakirdan/cli-games/internal/core"

// Kind is one of the seven tetrominoes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
	kindCount
)

// Shape is a rotation of a tetromino: rows of filled flags.
type Shape [][]bool

var baseShapes = [kindCount][]string{
	KindI: {"####"},
	KindO: {"##", "##"},
	KindT: {".#.", "###"},
	KindS: {".##", "##."},
	KindZ: {"##.", ".##"},
	KindJ: {"#..", "###"},
	KindL: {"..#", "###"},
}

var kindColors = [kindCount]core.Color{
	KindI: core.ColorCyan,
	KindO: core.ColorYellow,
	KindT: core.ColorMagenta,
	KindS: core.ColorGreen,
	KindZ: core.ColorRed,
	KindJ: core.ColorBlue,
	KindL: core.ColorOrange,
}

// rotations holds the four clockwise rotations of every kind.
var rotations = buildRotations()

func buildRotations() [kindCount][4]Shape {
	var out [kindCount][4]Shape
	for k, rows := range baseShapes {
		s := make(Shape, len(rows))
		for y, row := range rows {
			s[y] = make([]bool, len(row))
			for x, ch := range row {
				s[y][x] = ch == '#'
			}
		}
		out[k][0] = s
		for r := 1; r < 4; r++ {
			out[k][r] = rotateCW(out[k][r-1])
		}
	}
	return out
}

func rotateCW(s Shape) Shape {
	h, w := len(s), len(s[0])
	out := make(Shape, w)
	for x := 0; x < w; x++ {
		out[x] = make([]bool, h)
		for y := 0; y < h; y++ {
			out[x][y] = s[h-1-y][x]
		}
	}
	return out
}

// Piece is a tetromino placed on the board.
type Piece struct {
	Kind Kind
	Rot  int
	X, Y int
}

// Shape returns the piece's current rotation.
func (p Piece) Shape() Shape {
	return rotations[p.Kind][p.Rot%4]
}

// Blocks returns the board cells the piece covers.
func (p Piece) Blocks() []core.Point {
	var out []core.Point
	for y, row := range p.Shape() {
		for x, filled := range row {
			if filled {
				out = append(out, core.Point{X: p.X + x, Y: p.Y + y})
			}
		}
	}
	return out
}

// Moved returns the piece shifted by dx, dy.
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated returns the piece turned clockwise.
func (p Piece) Rotated() Piece {
	p.Rot = (p.Rot + 1) % 4
	return p
}
