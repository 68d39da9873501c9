package invaders

import (
	"errors"
	"testing"

	"github.com/vovakirdan/cli-games/internal/core"
)

const frame = 1.0 / 60

// newGame returns a session whose invaders never shoot.
func newGame(t *testing.T, mode core.Mode) *Game {
	t.Helper()
	g := New()
	if err := g.Initialize(mode, core.Options{Rows: 30, Cols: 60, Seed: 4}); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	g.shotScale = 0
	return g
}

func TestWaveLayout(t *testing.T) {
	tests := []struct {
		wave int
		want int
	}{
		{1, 16},
		{2, 24},
		{4, 32},
		{6, 40},
		{12, 40},
	}
	for _, tc := range tests {
		g := newGame(t, core.ModeNormal)
		g.wave = tc.wave
		g.spawnWave()
		if len(g.invaders) != tc.want {
			t.Errorf("wave %d: %d invaders, expected %d", tc.wave, len(g.invaders), tc.want)
		}
	}

	g := newGame(t, core.ModeNormal)
	g.wave = 8
	g.spawnWave()
	if g.invaders[0].Kind != KindElite || g.invaders[perRow].Kind != KindMedium || g.invaders[len(g.invaders)-1].Kind != KindBasic {
		t.Errorf("unexpected row kinds")
	}
	if g.invaders[0].HP != 3 {
		t.Errorf("elite hp = %d", g.invaders[0].HP)
	}
}

func TestShipClampsToField(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	for rep := 0; rep < 30; rep++ {
		g.HandleInput(core.Press(core.ActionLeft))
	}
	if g.shipX != 1 {
		t.Errorf("shipX = %d, expected 1", g.shipX)
	}
	for rep := 0; rep < 60; rep++ {
		g.HandleInput(core.Press(core.ActionRight))
	}
	if g.shipX != FieldWidth-2 {
		t.Errorf("shipX = %d, expected %d", g.shipX, FieldWidth-2)
	}
}

func TestFireCooldown(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.HandleInput(core.Press(core.ActionFire))
	g.HandleInput(core.Press(core.ActionFire))
	if len(g.bullets) != 1 {
		t.Fatalf("bullets = %d, expected 1", len(g.bullets))
	}
	g.Update(0.35)
	g.HandleInput(core.Press(core.ActionFire))
	if len(g.bullets) != 2 || g.shotsFired != 2 {
		t.Errorf("bullets %d fired %d", len(g.bullets), g.shotsFired)
	}
}

func TestShootingClearsWave(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invaders = []Invader{{X: float64(g.shipX - 1), Y: 16, Kind: KindBasic, HP: 1}}

	g.HandleInput(core.Press(core.ActionFire))
	for rep := 0; rep < 20; rep++ {
		g.Update(frame)
	}

	if want := 10 + waveBonus; g.Score.Value() != want {
		t.Errorf("score = %d, expected %d", g.Score.Value(), want)
	}
	if g.clearTimer <= 0 || !g.Running() {
		t.Errorf("expected wave-clear pause, timer %v running %v", g.clearTimer, g.Running())
	}
	st := g.Status().Extra
	if st["invaders_destroyed"] != 1 || st["accuracy"] != 100 {
		t.Errorf("stats = %v", st)
	}
}

func TestInvaderHitPoints(t *testing.T) {
	tests := []struct {
		name      string
		shots     int
		wantLeft  int
		wantScore int
	}{
		{"wounded", 2, 1, 0},
		{"destroyed", 3, 0, 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, core.ModeNormal)
			g.invaders = []Invader{{X: 10, Y: 5, Kind: KindElite, HP: 3}}
			for rep := 0; rep < tc.shots; rep++ {
				g.bullets = append(g.bullets, Bullet{X: 11, Y: 6, VY: -BulletSpeed, Player: true})
			}
			g.collide()
			if len(g.invaders) != tc.wantLeft || g.Score.Value() != tc.wantScore {
				t.Errorf("left %d score %d", len(g.invaders), g.Score.Value())
			}
			if len(g.bullets) != 0 {
				t.Errorf("%d bullets survived a hit", len(g.bullets))
			}
		})
	}
}

func TestEnemyFireCostsLives(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	shot := Bullet{X: float64(g.shipX), Y: float64(g.shipY) - 0.5, VY: BulletSpeed}

	g.bullets = append(g.bullets, shot)
	g.Update(0.1)
	if g.lives != StartingLives-1 || !g.Running() {
		t.Fatalf("lives %d running %v", g.lives, g.Running())
	}

	g.lives = 1
	g.bullets = append(g.bullets, shot)
	g.Update(0.1)
	if g.Outcome() != core.OutcomeLoss {
		t.Errorf("outcome = %v, expected loss", g.Outcome())
	}
}

func TestFormationReversesAtWall(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invaders = []Invader{{X: FieldWidth - 1 - spriteW - 0.01, Y: 5, Kind: KindBasic, HP: 1}}
	g.Update(frame)

	inv := g.invaders[0]
	if g.dir != -1 || inv.Y != 6 {
		t.Errorf("dir %v y %v, expected reverse and drop", g.dir, inv.Y)
	}
	if inv.X+spriteW > FieldWidth-1+1e-9 {
		t.Errorf("invader left the field: x = %v", inv.X)
	}
}

func TestInvasionLoses(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invaders = []Invader{{X: FieldWidth - 1 - spriteW - 0.01, Y: float64(g.shipY - spriteH - 1), Kind: KindBasic, HP: 1}}
	g.Update(frame)
	if g.Outcome() != core.OutcomeLoss {
		t.Errorf("outcome = %v, expected loss", g.Outcome())
	}
}

func TestNextWaveAfterPause(t *testing.T) {
	g := newGame(t, core.ModeNormal)
	g.invaders = nil
	g.Update(frame)
	if g.Score.Value() != waveBonus || g.clearTimer != WaveClearPause {
		t.Fatalf("score %d timer %v", g.Score.Value(), g.clearTimer)
	}

	g.Update(2.1)
	if g.wave != 2 || len(g.invaders) != 24 {
		t.Errorf("wave %d invaders %d", g.wave, len(g.invaders))
	}
}

func TestWaveGoals(t *testing.T) {
	tests := []struct {
		name        string
		mode        core.Mode
		wave        int
		wantOutcome core.Outcome
		wantScore   int
		wantFinal   int
	}{
		{"normal wins after five", core.ModeNormal, 5, core.OutcomeWin, 5000, 5000},
		{"speedrun doubles and adds bonus", core.ModeSpeedrun, 3, core.OutcomeWin, 6000, 8000},
		{"time attack keeps going", core.ModeTimeAttack, 5, core.OutcomeNone, 5000, 5000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, tc.mode)
			g.wave = tc.wave
			g.wavesClear = tc.wave - 1
			g.invaders = nil
			g.Update(frame)

			if g.Outcome() != tc.wantOutcome {
				t.Errorf("outcome = %v, expected %v", g.Outcome(), tc.wantOutcome)
			}
			if g.Score.Value() != tc.wantScore {
				t.Errorf("score = %d, expected %d", g.Score.Value(), tc.wantScore)
			}
			if got := g.Finalize(); got != tc.wantFinal {
				t.Errorf("Finalize() = %d, expected %d", got, tc.wantFinal)
			}
		})
	}
}

func TestInfiniteMarchRamps(t *testing.T) {
	g := newGame(t, core.ModeInfinite)
	base := g.marchSpeed()
	g.Score.Add(10000)
	if got := g.marchSpeed(); got <= base {
		t.Errorf("march speed %v did not rise above %v", got, base)
	}

	n := newGame(t, core.ModeNormal)
	n.Score.Add(10000)
	if n.marchSpeed() != MarchSpeed {
		t.Errorf("normal march speed = %v", n.marchSpeed())
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	g := newGame(t, core.ModeTimeAttack)
	x := g.invaders[0].X
	g.HandleInput(core.Press(core.ActionPause))
	g.HandleInput(core.Press(core.ActionLeft))
	g.Update(1)

	if g.Elapsed() != 0 || g.invaders[0].X != x || g.shipX != FieldWidth/2 {
		t.Errorf("paused session moved: elapsed %v", g.Elapsed())
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
	g := newGame(t, core.ModeTimeAttack)
	g.HandleInput(core.Press(core.ActionFire))
	g.Update(0.2)
	score, bullets := g.Score.Value(), len(g.bullets)

	a, b := core.NewScreen(60, 30), core.NewScreen(60, 30)
	g.Render(a)
	g.Render(b)

	if a.String() != b.String() {
		t.Error("consecutive renders differ")
	}
	if g.Score.Value() != score || len(g.bullets) != bullets {
		t.Error("Render changed game state")
	}
	if got := a.Get(10+g.shipX, 3+g.shipY); got != '▲' {
		t.Errorf("ship glyph = %q", got)
	}
	g.Render(core.NewScreen(5, 3))
}
