package tetris

import (
	"errors"
	"testing"

	"github.com/vovakirdan/cli-games/internal/core"
)

func newGame(t *testing.T, mode core.Mode) *Game {
	t.Helper()
	g := New()
	if err := g.Initialize(mode, core.Options{Rows: 26, Cols: 60, Seed: 11}); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return g
}

// fillRows fills rows from..to inclusive, leaving the listed columns open.
func fillRows(g *Game, from, to int, open ...int) {
	for y := from; y <= to; y++ {
		for x := 0; x < BoardWidth; x++ {
			g.fill[y][x] = true
		}
		for _, x := range open {
			g.fill[y][x] = false
		}
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		kind  Kind
		rot   int
		wantW int
		wantH int
	}{
		{KindI, 1, 1, 4},
		{KindT, 1, 2, 3},
		{KindT, 2, 3, 2},
		{KindO, 1, 2, 2},
	}
	for _, tc := range tests {
		s := rotations[tc.kind][tc.rot]
		if len(s) != tc.wantH || len(s[0]) != tc.wantW {
			t.Errorf("kind %d rot %d: %dx%d, expected %dx%d", tc.kind, tc.rot, len(s[0]), len(s), tc.wantW, tc.wantH)
		}
	}
	// T pointing down after two turns.
	if got := rotations[KindT][2]; !got[0][0] || !got[0][2] || got[1][0] || !got[1][1] {
		t.Errorf("T rot 2 = %v", got)
	}
	if p := (Piece{Kind: KindL, Rot: 3}).Rotated(); p.Rot != 0 {
		t.Errorf("rotation did not wrap: %d", p.Rot)
	}
}

func TestWallsStopMovement(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.cur = Piece{Kind: KindO, X: 4}
	for rep := 0; rep < 10; rep++ {
		g.HandleInput(core.Press(core.ActionLeft))
	}
	if g.cur.X != 0 {
		t.Errorf("x = %d, expected 0", g.cur.X)
	}
	for rep := 0; rep < 10; rep++ {
		g.HandleInput(core.Press(core.ActionRight))
	}
	if g.cur.X != BoardWidth-2 {
		t.Errorf("x = %d, expected %d", g.cur.X, BoardWidth-2)
	}
}

func TestRotateKicksOffWall(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.cur = Piece{Kind: KindT, Rot: 1, X: 8, Y: 5}
	g.HandleInput(core.Press(core.ActionUp))
	if g.cur.Rot != 2 || g.cur.X != 7 {
		t.Errorf("piece = %+v, expected rot 2 kicked to x=7", g.cur)
	}
}

func TestRotateBlockedReverts(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.cur = Piece{Kind: KindI, Rot: 1, X: 4, Y: 10}
	fillRows(g, 10, 10, 4) // only the I's own column is open on row 10
	g.HandleInput(core.Press(core.ActionUp))
	if g.cur.Rot != 1 || g.cur.X != 4 {
		t.Errorf("piece = %+v, expected unchanged", g.cur)
	}
}

func TestSoftDrop(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	y := g.cur.Y
	g.HandleInput(core.Press(core.ActionDown))
	if g.cur.Y != y+1 || g.Score.Value() != softDropPoints {
		t.Errorf("y %d score %d", g.cur.Y, g.Score.Value())
	}
}

func TestHardDropTetris(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	fillRows(g, 16, 19, 0)
	g.cur = Piece{Kind: KindI, Rot: 1, X: 0, Y: 0}

	g.HandleInput(core.Press(core.ActionFire))

	if want := 16*hardDropPoints + 800; g.Score.Value() != want {
		t.Errorf("score = %d, expected %d", g.Score.Value(), want)
	}
	if g.lines != 4 || g.tetrises != 1 || g.pieces != 1 {
		t.Errorf("lines %d tetrises %d pieces %d", g.lines, g.tetrises, g.pieces)
	}
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if g.fill[y][x] {
				t.Fatalf("cell (%d,%d) still filled after clearing", x, y)
			}
		}
	}
}

func TestLevelUpScalesScore(t *testing.T) {
	g := newGame(t, core.ModeInfinite)
	g.lines = 9
	fillRows(g, 19, 19, 0)
	g.cur = Piece{Kind: KindI, Rot: 1, X: 0, Y: 0}
	before := g.gravity()

	g.HandleInput(core.Press(core.ActionFire))

	if g.level != 2 {
		t.Fatalf("level = %d, expected 2", g.level)
	}
	if want := 16*hardDropPoints + 100; g.Score.Value() != want {
		t.Errorf("score = %d, expected %d", g.Score.Value(), want)
	}
	if g.gravity() >= before {
		t.Errorf("gravity %v did not speed up from %v", g.gravity(), before)
	}

	// Lines clear at the new level's multiplier.
	fillRows(g, 19, 19, 1)
	g.cur = Piece{Kind: KindI, Rot: 1, X: 1, Y: 0}
	score := g.Score.Value()
	g.HandleInput(core.Press(core.ActionFire))
	if got := g.Score.Value() - score; got != 16*hardDropPoints+200 {
		t.Errorf("gain = %d, expected level-2 single", got)
	}
}

func TestGravity(t *testing.T) {
	tests := []struct {
		mode  core.Mode
		dt    float64
		steps int
		want  int
	}{
		{core.ModeNormal, 0.5, 2, 1},
		{core.ModeSpeedrun, 0.5, 2, 2},
		{core.ModeNormal, 0.25, 3, 0},
	}
	for _, tc := range tests {
		g := newGame(t, tc.mode)
		y := g.cur.Y
		for rep := 0; rep < tc.steps; rep++ {
			g.Update(tc.dt)
		}
		if got := g.cur.Y - y; got != tc.want {
			t.Errorf("%s: fell %d rows, expected %d", tc.mode, got, tc.want)
		}
	}
}

func TestTopOut(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	fillRows(g, 0, BoardHeight-1, 9)
	g.spawn()
	if g.Outcome() != core.OutcomeLoss {
		t.Errorf("outcome = %v, expected loss", g.Outcome())
	}

	p := newGame(t, core.ModePractice)
	fillRows(p, 0, BoardHeight-1, 9)
	p.spawn()
	if !p.Running() || p.boardResets != 1 || p.fill[19][0] {
		t.Errorf("practice top-out: running %v resets %d", p.Running(), p.boardResets)
	}
}

func TestSpeedrunSprintWins(t *testing.T) {
	g := newGame(t, core.ModeSpeedrun)
	g.lines = sprintLines - 1
	g.level = 4
	fillRows(g, 19, 19, 0)
	g.cur = Piece{Kind: KindI, Rot: 1, X: 0, Y: 0}
	g.HandleInput(core.Press(core.ActionFire))
	if g.Outcome() != core.OutcomeWin {
		t.Errorf("outcome = %v", g.Outcome())
	}
}

func TestUnsupportedMode(t *testing.T) {
	if err := New().Initialize(core.ModeMultiplayer, core.Options{}); !errors.Is(err, core.ErrUnsupportedMode) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderIsPure(t *testing.T) {
	g := newGame(t, core.ModeTimeAttack)
	g.Update(0.3)
	cur, score := g.cur, g.Score.Value()

	a, b := core.NewScreen(60, 26), core.NewScreen(60, 26)
	g.Render(a)
	g.Render(b)

	if a.String() != b.String() {
		t.Error("consecutive renders differ")
	}
	if g.cur != cur || g.Score.Value() != score {
		t.Error("Render changed game state")
	}
	g.Render(core.NewScreen(6, 4))
}
