package core

import (
	"strings"
	"testing"
)

func picture(rows ...string) string {
	return strings.Join(rows, "\n")
}

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if rows, cols := s.Dimensions(); rows != 3 || cols != 6 || s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("Dimensions() = (%d, %d)", rows, cols)
	}
	if got, want := s.String(), picture("      ", "      ", "      "); got != want {
		t.Errorf("String() = %q, expected %q", got, want)
	}
	if NewScreen(-3, -1).String() != "" {
		t.Error("negative sizes should give an empty screen")
	}
}

func TestDrawing(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		draw func(s *Screen)
		want string
	}{
		{"text", 8, 2, func(s *Screen) { DrawText(s, 1, 2, "Hi", Plain) },
			picture("        ", "  Hi    ")},
		{"text clipped right", 5, 1, func(s *Screen) { DrawText(s, 0, 3, "Hello", Plain) },
			picture("   He")},
		{"text clipped left", 5, 1, func(s *Screen) { DrawText(s, 0, -2, "Hello", Plain) },
			picture("llo  ")},
		{"centered", 7, 1, func(s *Screen) { DrawCentered(s, 0, "abc", Plain) },
			picture("  abc  ")},
		{"fill rect", 5, 4, func(s *Screen) { FillRect(s, NewRect(1, 1, 3, 2), '#', Plain) },
			picture("     ", " ### ", " ### ", "     ")},
		{"box", 6, 4, func(s *Screen) { DrawBox(s, NewRect(0, 0, 5, 4), Plain) },
			picture("┌───┐ ", "│   │ ", "│   │ ", "└───┘ ")},
		{"box too small", 3, 3, func(s *Screen) { DrawBox(s, NewRect(0, 0, 1, 3), Plain) },
			picture("   ", "   ", "   ")},
		{"lines", 4, 4, func(s *Screen) {
			DrawHLine(s, 0, 1, 3, '-', Plain)
			DrawVLine(s, 1, 0, 3, '|', Plain)
		}, picture(" ---", "|   ", "|   ", "|   ")},
		{"clipped writes dropped", 3, 2, func(s *Screen) {
			s.PutChar(2, 0, 'X', Plain)
			s.PutChar(0, 3, 'X', Plain)
			s.PutChar(-1, -1, 'X', Plain)
			s.Set(1, 1, 'o')
		}, picture("   ", " o ")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScreen(tc.w, tc.h)
			tc.draw(s)
			if got := s.String(); got != tc.want {
				t.Errorf("got\n%s\nexpected\n%s", got, tc.want)
			}
		})
	}
}

func TestScreenCells(t *testing.T) {
	s := NewScreen(4, 3)
	s.PutChar(1, 2, '@', Fg(ColorRed).Bolded())

	if c := s.GetCell(2, 1); c.Rune != '@' || c.Style.Fg != ColorRed || !c.Style.Bold {
		t.Errorf("GetCell(2, 1) = %+v, expected bold red '@'", c)
	}
	if s.Get(-1, 0) != ' ' || s.Get(0, 9) != ' ' {
		t.Error("out-of-bounds Get should read as a space")
	}
	if got := s.Row(1); got != "  @ " {
		t.Errorf("Row(1) = %q", got)
	}
	if got := s.Row(7); got != "    " {
		t.Errorf("Row(7) = %q, expected blanks", got)
	}

	s.Fill('.')
	if s.String() != picture("....", "....", "....") {
		t.Errorf("Fill: %q", s.String())
	}
	s.Clear()
	if c := s.GetCell(2, 1); c.Rune != ' ' || c.Style != Plain {
		t.Errorf("Clear left %+v", c)
	}
}

func TestScreenResizeKeepsTopLeft(t *testing.T) {
	s := NewScreen(6, 3)
	DrawText(s, 0, 0, "abcdef", Plain)
	DrawText(s, 2, 0, "uvwxyz", Plain)

	s.Resize(4, 2)
	if got := s.String(); got != picture("abcd", "    ") {
		t.Errorf("shrunk to %q", got)
	}

	s.Resize(5, 3)
	if got := s.String(); got != picture("abcd ", "     ", "     ") {
		t.Errorf("grown to %q", got)
	}

	s.Resize(5, 3)
	if s.Width() != 5 || s.Height() != 3 {
		t.Error("same-size resize changed dimensions")
	}
}

func TestDrawMessageOnTinyCanvas(t *testing.T) {
	s := NewScreen(3, 2)
	DrawMessage(s, "GAME OVER", "press q", Fg(ColorYellow))
	if s.Width() != 3 || s.Height() != 2 {
		t.Error("drawing must not resize the screen")
	}
}

func TestDrawMessage(t *testing.T) {
	s := NewScreen(20, 7)
	DrawMessage(s, "PAUSED", "P to go", Plain)
	if !strings.Contains(s.Row(2), "PAUSED") || !strings.Contains(s.Row(4), "P to go") {
		t.Errorf("message not drawn:\n%s", s.String())
	}
	if !strings.Contains(s.Row(1), "┌") || !strings.Contains(s.Row(5), "┘") {
		t.Errorf("message box missing:\n%s", s.String())
	}
}
