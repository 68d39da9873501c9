// Package glyphs maps names to small multi-line character drawings used by
// the games: banner digits for scoreboards and sprites.
package glyphs

import (
	"strconv"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Matrix is a rectangular drawing, one string per row. Spaces are
// transparent when drawn.
type Matrix []string

// Width returns the widest row in runes.
func (m Matrix) Width() int {
	w := 0
	for _, row := range m {
		w = max(w, len([]rune(row)))
	}
	return w
}

// Height returns the number of rows.
func (m Matrix) Height() int { return len(m) }

var digits = [10]Matrix{
	{"███", "█ █", "█ █", "█ █", "███"},
	{" █ ", "██ ", " █ ", " █ ", "███"},
	{"███", "  █", "███", "█  ", "███"},
	{"███", "  █", "███", "  █", "███"},
	{"█ █", "█ █", "███", "  █", "  █"},
	{"███", "█  ", "███", "  █", "███"},
	{"███", "█  ", "███", "█ █", "███"},
	{"███", "  █", "  █", "  █", "  █"},
	{"███", "█ █", "███", "█ █", "███"},
	{"███", "█ █", "███", "  █", "███"},
}

var sprites = map[string]Matrix{
	"invader_elite":  {"▄█▄", "▀▄▀"},
	"invader_medium": {"╔█╗", "╝ ╚"},
	"invader_basic":  {"▐█▌", "▘ ▝"},
	"player_ship":    {" ▲ ", "███"},
	"ghost":          {"▄█▄", "█▀█"},
	"flag":           {"|▶", "| ", "| "},
	"trophy":         {"\\█/", " █ ", "▀▀▀"},
}

// Lookup returns the sprite registered under name. Digit names "0".."9"
// resolve to banner digits.
func Lookup(name string) (Matrix, bool) {
	if len(name) == 1 && name[0] >= '0' && name[0] <= '9' {
		return digits[name[0]-'0'], true
	}
	m, ok := sprites[name]
	return m, ok
}

// Number renders n in banner digits with one column between digits.
func Number(n int) Matrix {
	s := strconv.Itoa(max(0, n))
	out := make(Matrix, 5)
	for i, ch := range s {
		d := digits[ch-'0']
		for row := range out {
			if i > 0 {
				out[row] += " "
			}
			out[row] += d[row]
		}
	}
	return out
}

// Draw paints m with its top-left corner at (row, col). Spaces are skipped
// so the background shows through.
func Draw(dst core.Canvas, row, col int, m Matrix, st core.Style) {
	for dy, line := range m {
		dx := 0
		for _, r := range line {
			if r != ' ' {
				dst.PutChar(row+dy, col+dx, r, st)
			}
			dx++
		}
	}
}

// DrawNamed draws the sprite called name and reports whether it exists.
func DrawNamed(dst core.Canvas, row, col int, name string, st core.Style) bool {
	m, ok := Lookup(name)
	if ok {
		Draw(dst, row, col, m, st)
	}
	return ok
}
