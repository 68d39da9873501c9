package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Style is the rendering hint attached to a cell. Surfaces that cannot show
// color or weight ignore it.
type Style struct {
	Fg   Color
	Bold bool
}

// Plain is the zero style.
var Plain = Style{}

// Fg returns a style with the given foreground color.
func Fg(c Color) Style {
	return Style{Fg: c}
}

// Bolded returns a copy of s with bold set.
func (s Style) Bolded() Style {
	s.Bold = true
	return s
}
