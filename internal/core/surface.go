package core

// Canvas is the drawing side of a surface. Sessions only ever see a Canvas
// in Render. Writes outside Dimensions are dropped silently.
type Canvas interface {
	Dimensions() (rows, cols int)
	Clear()
	PutChar(row, col int, glyph rune, style Style)
}

// Surface is a character grid with keyboard input. PollKey never blocks;
// it returns NoInput when nothing is pending.
type Surface interface {
	Canvas
	PollKey() InputEvent
	Present()
}

// DrawText writes text left to right starting at (row, col).
func DrawText(dst Canvas, row, col int, text string, st Style) {
	i := 0
	for _, r := range text {
		dst.PutChar(row, col+i, r, st)
		i++
	}
}

// DrawCentered writes text centered horizontally on row.
func DrawCentered(dst Canvas, row int, text string, st Style) {
	_, cols := dst.Dimensions()
	DrawText(dst, row, (cols-runeLen(text))/2, text, st)
}

// FillRect fills r with glyph.
func FillRect(dst Canvas, r Rect, glyph rune, st Style) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			dst.PutChar(y, x, glyph, st)
		}
	}
}

// DrawBox outlines r with box-drawing characters.
func DrawBox(dst Canvas, r Rect, st Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	dst.PutChar(r.Y, r.X, '┌', st)
	dst.PutChar(r.Y, r.Right()-1, '┐', st)
	dst.PutChar(r.Bottom()-1, r.X, '└', st)
	dst.PutChar(r.Bottom()-1, r.Right()-1, '┘', st)
	for x := r.X + 1; x < r.Right()-1; x++ {
		dst.PutChar(r.Y, x, '─', st)
		dst.PutChar(r.Bottom()-1, x, '─', st)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		dst.PutChar(y, r.X, '│', st)
		dst.PutChar(y, r.Right()-1, '│', st)
	}
}

// DrawHLine draws length glyphs to the right of (row, col).
func DrawHLine(dst Canvas, row, col, length int, glyph rune, st Style) {
	for i := 0; i < length; i++ {
		dst.PutChar(row, col+i, glyph, st)
	}
}

// DrawVLine draws length glyphs downward from (row, col).
func DrawVLine(dst Canvas, row, col, length int, glyph rune, st Style) {
	for i := 0; i < length; i++ {
		dst.PutChar(row+i, col, glyph, st)
	}
}

// DrawMessage draws a boxed two-line message in the middle of dst, used for
// pause and game-over overlays.
func DrawMessage(dst Canvas, title, subtitle string, st Style) {
	rows, cols := dst.Dimensions()
	w := max(runeLen(title), runeLen(subtitle)) + 4
	h := 5
	box := NewRect((cols-w)/2, (rows-h)/2, w, h)
	FillRect(dst, box, ' ', Plain)
	DrawBox(dst, box, st)
	DrawText(dst, box.Y+1, box.X+(w-runeLen(title))/2, title, st.Bolded())
	DrawText(dst, box.Y+3, box.X+(w-runeLen(subtitle))/2, subtitle, Plain)
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
