package glyphs

import (
	"testing"

	"github.com/vovakirdan/cli-games/internal/core"
)

func TestNumberLayout(t *testing.T) {
	m := Number(42)
	if m.Height() != 5 || m.Width() != 7 {
		t.Fatalf("Number(42) is %dx%d, expected 7x5", m.Width(), m.Height())
	}
	if m[0] != "█ █ ███" {
		t.Errorf("top row = %q", m[0])
	}
	if Number(-3)[0] != digits[0][0] {
		t.Error("negative numbers should render as 0")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("7"); !ok {
		t.Error("digit lookup failed")
	}
	if m, ok := Lookup("ghost"); !ok || m.Height() != 2 {
		t.Errorf("Lookup(ghost) = %v, %v", m, ok)
	}
	if _, ok := Lookup("dragon"); ok {
		t.Error("unknown sprite should not resolve")
	}
}

func TestDrawIsTransparentAndClipped(t *testing.T) {
	s := core.NewScreen(4, 3)
	s.Fill('.')
	Draw(s, 1, 2, Matrix{"█ █", "███"}, core.Plain)

	if got := s.Row(1); got != "..█." {
		t.Errorf("row 1 = %q", got)
	}
	if got := s.Row(2); got != "..██" {
		t.Errorf("row 2 = %q", got)
	}
	if !DrawNamed(s, 0, 0, "flag", core.Plain) || DrawNamed(s, 0, 0, "nope", core.Plain) {
		t.Error("DrawNamed result mismatch")
	}
}
