package platformer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/cli-games/internal/core"
)

const frame = 1.0 / 60

// flatLevel is ground with a flag and nothing else.
func flatLevel(w int) *Level {
	l := &Level{W: w, H: LevelHeight, FlagX: w - 6}
	l.tiles = make([][]Tile, l.H)
	for y := range l.tiles {
		l.tiles[y] = make([]Tile, w)
		for x := 0; x < w; x++ {
			if y >= groundTop {
				l.tiles[y][x] = TileGround
			}
		}
	}
	for y := flagTop; y < groundTop; y++ {
		l.tiles[y][l.FlagX] = TileFlag
	}
	return l
}

func newGame(t *testing.T, mode core.Mode) *Game {
	t.Helper()
	g := New()
	if err := g.Initialize(mode, core.Options{Rows: 24, Cols: 60, Seed: 21}); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	g.level = flatLevel(60)
	return g
}

func TestGenerate(t *testing.T) {
	for n := 1; n <= 4; n++ {
		l := Generate(n, rand.New(rand.NewSource(int64(n))))
		if l.W != LevelWidth(n) {
			t.Errorf("stage %d: width %d", n, l.W)
		}
		if !l.Solid(2, groundTop) {
			t.Errorf("stage %d: no ground under the start", n)
		}
		if l.At(l.FlagX, groundTop-1) != TileFlag || l.At(l.W-3, groundTop-1) != TilePipe {
			t.Errorf("stage %d: missing flag or closing pipe", n)
		}
		if len(l.Enemies) > min(n+2, 8) {
			t.Errorf("stage %d: %d enemies", n, len(l.Enemies))
		}
		for _, e := range l.Enemies {
			if !l.Solid(int(e.X), groundTop) {
				t.Errorf("stage %d: enemy spawned over a pit at %v", n, e.X)
			}
		}
		pits, questions := 0, 0
		for x := 0; x < l.W; x++ {
			if !l.Solid(x, groundTop) {
				pits++
			}
			if l.At(x, platformRow) == TileQuestion {
				questions++
			}
		}
		if pits < 2 || pits > 2*(n+1) {
			t.Errorf("stage %d: %d pit columns", n, pits)
		}
		if questions == 0 {
			t.Errorf("stage %d: no question blocks", n)
		}
	}
}

func TestStandsOnGround(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.Update(0.5)
	if g.y != groundTop-1 || !g.onGround {
		t.Errorf("y %v onGround %v", g.y, g.onGround)
	}
}

func TestJumpHeight(t *testing.T) {
	tests := []struct {
		mode core.Mode
	}{
		{core.ModeNormal},
		{core.ModeSpeedrun},
	}
	rise := map[core.Mode]float64{}
	for _, tc := range tests {
		g := newGame(t, tc.mode)
		g.Update(frame)
		g.HandleInput(core.Press(core.ActionFire))
		start, top := g.y, g.y
		for rep := 0; rep < 120; rep++ {
			g.Update(frame)
			top = min(top, g.y)
		}
		rise[tc.mode] = start - top
		if rise[tc.mode] <= 3 || rise[tc.mode] >= 4.5 {
			t.Errorf("%s: jump rose %v cells", tc.mode, rise[tc.mode])
		}
		if g.y != start || !g.onGround {
			t.Errorf("%s: did not land: y %v", tc.mode, g.y)
		}
	}
	if rise[core.ModeSpeedrun] >= rise[core.ModeNormal] {
		t.Errorf("speedrun gravity should shorten jumps: %v", rise)
	}
}

func TestNoDoubleJump(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.Update(frame)
	g.HandleInput(core.Press(core.ActionFire))
	g.Update(frame)
	vy := g.vy
	g.HandleInput(core.Press(core.ActionFire))
	if g.vy != vy {
		t.Errorf("jumped in mid-air: vy %v -> %v", vy, g.vy)
	}
}

func TestRunStopsAfterHold(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.Update(frame)
	g.HandleInput(core.Press(core.ActionRight))
	g.Update(0.1)
	if g.x <= 2 {
		t.Fatalf("x = %v, expected movement", g.x)
	}
	g.Update(0.5)
	x := g.x
	g.Update(0.5)
	if g.x != x {
		t.Errorf("kept running: %v -> %v", x, g.x)
	}
	if want := 2 + RunSpeed*RunHold; x < want-0.2 || x > want+0.2 {
		t.Errorf("ran to %v, expected about %v", x, want)
	}
}

func TestWallStopsRunner(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.level.tiles[groundTop-1][5] = TilePipe
	for rep := 0; rep < 4; rep++ {
		g.HandleInput(core.Press(core.ActionRight))
		g.Update(0.15)
	}
	if g.x != 4 {
		t.Errorf("x = %v, expected flush against the wall at 4", g.x)
	}
}

func TestCoinPickup(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.level.tiles[groundTop-1][3] = TileCoin
	g.HandleInput(core.Press(core.ActionRight))
	g.Update(0.2)
	if g.Score.Value() != coinPoints || g.coins != 1 || g.level.At(3, groundTop-1) != TileEmpty {
		t.Errorf("score %d coins %d", g.Score.Value(), g.coins)
	}
}

func TestBumpQuestionBlock(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.level.tiles[platformRow][2] = TileQuestion
	g.Update(frame)
	g.HandleInput(core.Press(core.ActionFire))
	g.Update(0.5)

	if g.Score.Value() != blockPoints || g.level.At(2, platformRow) != TileUsed {
		t.Errorf("score %d tile %v", g.Score.Value(), g.level.At(2, platformRow))
	}
	if g.y < platformRow+1 {
		t.Errorf("head passed through the block: y = %v", g.y)
	}

	g.Update(1)
	g.HandleInput(core.Press(core.ActionFire))
	g.Update(0.5)
	if g.Score.Value() != blockPoints {
		t.Errorf("used block paid twice: %d", g.Score.Value())
	}
}

func TestStomp(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invuln = 0
	g.x, g.y = 5, 12
	g.level.Enemies = []Enemy{{X: 5, Y: groundTop - 1, Center: 5, Alive: true}}

	g.Update(1)

	if g.level.Enemies[0].Alive {
		t.Fatal("enemy survived the stomp")
	}
	if g.Score.Value() != stompPoints || g.lives != StartingLives {
		t.Errorf("score %d lives %d", g.Score.Value(), g.lives)
	}
}

func TestSideHitCostsLife(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invuln = 0
	g.level.Enemies = []Enemy{{X: 2.5, Y: groundTop - 1, Center: 2.5, Alive: true}}

	g.Update(frame)
	if g.lives != StartingLives-1 || g.invuln <= 0 {
		t.Fatalf("lives %d invuln %v", g.lives, g.invuln)
	}
	g.Update(0.5)
	if g.lives != StartingLives-1 {
		t.Errorf("hit again while invulnerable: lives %d", g.lives)
	}
}

func TestFallingIntoPit(t *testing.T) {
	tests := []struct {
		name        string
		lives       int
		wantLives   int
		wantOutcome core.Outcome
	}{
		{"respawns", 3, 2, core.OutcomeNone},
		{"last life", 1, 0, core.OutcomeLoss},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, core.ModeNormal)
			g.lives = tc.lives
			for y := groundTop; y < LevelHeight; y++ {
				g.level.tiles[y][2] = TileEmpty
				g.level.tiles[y][3] = TileEmpty
			}
			g.Update(1)
			if g.lives != tc.wantLives || g.falls != 1 || g.Outcome() != tc.wantOutcome {
				t.Errorf("lives %d falls %d outcome %v", g.lives, g.falls, g.Outcome())
			}
		})
	}
}

func TestFlagClearsStage(t *testing.T) {
	const want = flagBonus + timeBonusPar*timeBonusPer
	tests := []struct {
		mode        core.Mode
		wantOutcome core.Outcome
		wantStage   int
	}{
		{core.ModeNormal, core.OutcomeWin, 1},
		{core.ModeSpeedrun, core.OutcomeWin, 1},
		{core.ModeTimeAttack, core.OutcomeNone, 2},
		{core.ModeInfinite, core.OutcomeNone, 2},
	}
	for _, tc := range tests {
		g := newGame(t, tc.mode)
		g.Update(frame)
		g.x = float64(g.level.FlagX) - 1.5
		g.HandleInput(core.Press(core.ActionRight))
		g.Update(0.2)

		if g.Score.Value() != want || g.completed != 1 {
			t.Errorf("%s: score %d completed %d", tc.mode, g.Score.Value(), g.completed)
		}
		if g.Outcome() != tc.wantOutcome || g.stage != tc.wantStage {
			t.Errorf("%s: outcome %v stage %d", tc.mode, g.Outcome(), g.stage)
		}
		if tc.wantStage == 2 && (g.level.W != LevelWidth(2) || g.x != 2) {
			t.Errorf("%s: next stage width %d, player x %v", tc.mode, g.level.W, g.x)
		}
	}
}

func TestUnsupportedMode(t *testing.T) {
	for _, m := range []core.Mode{core.ModePractice, core.ModeMultiplayer} {
		if err := New().Initialize(m, core.Options{}); !errors.Is(err, core.ErrUnsupportedMode) {
			t.Errorf("%s: err = %v", m, err)
		}
	}
}

func TestRenderIsPure(t *testing.T) {
	g := New()
	if err := g.Initialize(core.ModeTimeAttack, core.Options{Rows: 24, Cols: 60, Seed: 6}); err != nil {
		t.Fatal(err)
	}
	g.Update(0.1)
	score, x, y := g.Score.Value(), g.x, g.y

	a, b := core.NewScreen(60, 24), core.NewScreen(60, 24)
	g.Render(a)
	g.Render(b)

	if a.String() != b.String() {
		t.Error("consecutive renders differ")
	}
	if g.Score.Value() != score || g.x != x || g.y != y {
		t.Error("Render changed game state")
	}
	if got := a.Get(int(x), 2+int(y)); got != 'M' {
		t.Errorf("player glyph = %q", got)
	}
	g.Render(core.NewScreen(4, 4))
}
