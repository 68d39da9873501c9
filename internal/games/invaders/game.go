// Package invaders implements Space Invaders: a marching formation of
// aliens, a ship at the bottom and waves that get faster as they fall.
package invaders

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/glyphs"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Field size in cells.
const (
	FieldWidth  = 40
	FieldHeight = 24
)

// Speeds are in cells per second.
const (
	BulletSpeed     = 10.0
	MarchSpeed      = 3.0 // formation speed on wave 1
	MarchPerWave    = 0.6
	FireCooldown    = 0.3
	InvaderCooldown = 2.0
	ShotRate        = 0.06 // per invader per second on wave 1
	ShotRatePerWave = 0.012
	WaveClearPause  = 2.0
	StartingLives   = 3

	spriteW    = 3
	spriteH    = 2
	perRow     = 8
	colSpacing = 4
	rowSpacing = 3
	maxStep    = 1.0 / 30

	waveBonus     = 1000
	normalWaves   = 5
	speedrunWaves = 3
)

// infiniteRamp quickens the march as the score climbs.
var infiniteRamp = core.Ramp{Initial: 0, MaxAt: 20000, Progression: core.ProgressScore, SpeedScale: 1}

// Kind is an invader class.
type Kind int

const (
	KindBasic Kind = iota
	KindMedium
	KindElite
)

var kindStats = [...]struct {
	sprite string
	points int
	hp     int
	color  core.Color
}{
	KindBasic:  {"invader_basic", 10, 1, core.ColorGreen},
	KindMedium: {"invader_medium", 20, 2, core.ColorCyan},
	KindElite:  {"invader_elite", 30, 3, core.ColorMagenta},
}

// Invader is one alien. X, Y is the top-left of its sprite.
type Invader struct {
	X, Y     float64
	Kind     Kind
	HP       int
	cooldown float64
}

func (inv Invader) contains(x, y float64) bool {
	return x >= inv.X && x < inv.X+spriteW && y >= inv.Y && y < inv.Y+spriteH
}

// Bullet is a shot in flight. Player shots travel up.
type Bullet struct {
	X, Y   float64
	VY     float64
	Player bool
}

// Descriptor returns the static metadata for Space Invaders.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "space_invaders",
		Name:        "Space Invaders",
		Description: "Defend Earth from waves of alien invaders",
		Genre:       "Shooter",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Left/Right", Action: "Move ship"},
			{Key: "Space", Action: "Fire"},
			{Key: "P", Action: "Pause"},
			{Key: "Q/Esc", Action: "Quit"},
		},
		Modes:      []core.Mode{core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite, core.ModeSpeedrun},
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Plugin returns the registry entry for Space Invaders.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(60),
		New:        func() core.Session { return New() },
	}
}

// Game implements Space Invaders.
type Game struct {
	core.Base

	rng *rand.Rand

	shipX    int
	shipY    int
	lives    int
	cooldown float64

	invaders []Invader
	bullets  []Bullet
	dir      float64 // +1 marching right, -1 left

	wave        int
	waveMult    int
	shotScale   float64
	clearTimer  float64 // >0 while the wave-clear pause runs
	wavesClear  int
	destroyed   int
	shotsFired  int
	shotsLanded int
}

// New creates an uninitialized Space Invaders session.
func New() *Game {
	return &Game{}
}

// Initialize places the ship and spawns the first wave.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	scoring := core.Scoring{SpeedrunThreshold: 120, SpeedrunBonus: 2000}
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 300, 240), scoring); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.shipX = FieldWidth / 2
	g.shipY = FieldHeight - spriteH - 1
	g.lives = StartingLives
	g.cooldown = 0
	g.bullets = g.bullets[:0]
	g.wave = 1
	g.clearTimer = 0
	g.wavesClear, g.destroyed, g.shotsFired, g.shotsLanded = 0, 0, 0, 0

	g.waveMult = 1
	if mode == core.ModeSpeedrun {
		g.waveMult = 2
	}
	g.shotScale = 1
	if opts.Difficulty > 0 {
		g.shotScale = 1 + 0.25*float64(opts.Difficulty-2)
	}

	g.spawnWave()
	g.publishStats()
	return nil
}

// spawnWave lays out min(5, 2+wave/2) rows of eight. The top row is elite,
// the next two medium and the rest basic.
func (g *Game) spawnWave() {
	rows := min(5, 2+g.wave/2)
	g.invaders = g.invaders[:0]
	for row := 0; row < rows; row++ {
		kind := KindBasic
		switch {
		case row == 0:
			kind = KindElite
		case row <= 2:
			kind = KindMedium
		}
		for col := 0; col < perRow; col++ {
			g.invaders = append(g.invaders, Invader{
				X:    float64(4 + col*colSpacing),
				Y:    float64(2 + row*rowSpacing),
				Kind: kind,
				HP:   kindStats[kind].hp,
			})
		}
	}
	g.dir = 1
}

// marchSpeed returns how fast the formation moves sideways.
func (g *Game) marchSpeed() float64 {
	speed := MarchSpeed + MarchPerWave*float64(g.wave-1)
	if g.Rules().Ramp {
		speed = infiniteRamp.Speed(speed, g.Score.Value(), 0)
	}
	return speed
}

// shotRate returns each invader's chance per second of firing.
func (g *Game) shotRate() float64 {
	return (ShotRate + ShotRatePerWave*float64(g.wave-1)) * g.shotScale
}

// HandleInput steers the ship and fires.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	switch ev.Action {
	case core.ActionLeft:
		g.shipX = core.Clamp(g.shipX-1, 1, FieldWidth-2)
	case core.ActionRight:
		g.shipX = core.Clamp(g.shipX+1, 1, FieldWidth-2)
	case core.ActionFire, core.ActionConfirm:
		g.fire()
	}
}

func (g *Game) fire() {
	if g.cooldown > 0 {
		return
	}
	g.cooldown = FireCooldown
	g.shotsFired++
	g.bullets = append(g.bullets, Bullet{X: float64(g.shipX), Y: float64(g.shipY - 1), VY: -BulletSpeed, Player: true})
}

// Update advances the world in slices of at most maxStep so fast bullets
// never skip a sprite.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	for dt > 0 && g.Running() {
		step := min(dt, maxStep)
		g.step(step)
		dt -= step
	}
	g.publishStats()
}

func (g *Game) step(dt float64) {
	g.cooldown = max(0, g.cooldown-dt)

	if g.clearTimer > 0 {
		g.clearTimer -= dt
		if g.clearTimer <= 0 {
			g.clearTimer = 0
			g.wave++
			g.spawnWave()
		}
		return
	}

	g.march(dt)
	if !g.Running() {
		return
	}
	g.invaderFire(dt)
	g.moveBullets(dt)
	g.collide()
	if !g.Running() {
		return
	}

	if len(g.invaders) == 0 {
		g.waveCleared()
	}
}

// march slides the formation and drops it a row whenever it touches a wall.
func (g *Game) march(dt float64) {
	if len(g.invaders) == 0 {
		return
	}
	dx := g.dir * g.marchSpeed() * dt
	lo, hi := float64(FieldWidth), 0.0
	for i := range g.invaders {
		g.invaders[i].X += dx
		lo = min(lo, g.invaders[i].X)
		hi = max(hi, g.invaders[i].X+spriteW)
	}

	var shift float64
	switch {
	case lo < 1:
		shift = 1 - lo
	case hi > FieldWidth-1:
		shift = FieldWidth - 1 - hi
	default:
		return
	}
	g.dir = -g.dir
	for i := range g.invaders {
		g.invaders[i].X += shift
		g.invaders[i].Y++
		if g.invaders[i].Y+spriteH >= float64(g.shipY) {
			g.Complete(core.OutcomeLoss)
		}
	}
}

func (g *Game) invaderFire(dt float64) {
	rate := g.shotRate() * dt
	for i := range g.invaders {
		inv := &g.invaders[i]
		inv.cooldown = max(0, inv.cooldown-dt)
		if inv.cooldown > 0 || g.rng.Float64() >= rate {
			continue
		}
		inv.cooldown = InvaderCooldown
		g.bullets = append(g.bullets, Bullet{X: inv.X + 1, Y: inv.Y + spriteH, VY: BulletSpeed})
	}
}

func (g *Game) moveBullets(dt float64) {
	live := g.bullets[:0]
	for _, b := range g.bullets {
		b.Y += b.VY * dt
		if b.Y >= 0 && b.Y < FieldHeight {
			live = append(live, b)
		}
	}
	g.bullets = live
}

// collide resolves hits. A bullet is spent on its first hit.
func (g *Game) collide() {
	live := g.bullets[:0]
	for _, b := range g.bullets {
		if b.Player {
			if g.hitInvader(b) {
				continue
			}
		} else if g.hitsShip(b) {
			g.lives--
			if g.lives <= 0 {
				g.Complete(core.OutcomeLoss)
			}
			continue
		}
		live = append(live, b)
	}
	g.bullets = live
}

func (g *Game) hitInvader(b Bullet) bool {
	for i := range g.invaders {
		inv := &g.invaders[i]
		if !inv.contains(b.X, b.Y) {
			continue
		}
		g.shotsLanded++
		inv.HP--
		if inv.HP <= 0 {
			g.Score.Add(kindStats[inv.Kind].points)
			g.destroyed++
			g.invaders = append(g.invaders[:i], g.invaders[i+1:]...)
		}
		return true
	}
	return false
}

func (g *Game) hitsShip(b Bullet) bool {
	dx := int(b.X) - g.shipX
	return dx >= -1 && dx <= 1 && b.Y >= float64(g.shipY) && b.Y < float64(g.shipY+spriteH)
}

// waveCleared awards the wave bonus and either ends the run or starts the
// pause before the next wave.
func (g *Game) waveCleared() {
	g.Score.Add(waveBonus * g.wave * g.waveMult)
	g.wavesClear++
	g.bullets = g.bullets[:0]

	switch {
	case g.Mode() == core.ModeNormal && g.wavesClear >= normalWaves,
		g.Mode() == core.ModeSpeedrun && g.wavesClear >= speedrunWaves:
		g.Complete(core.OutcomeWin)
		return
	}
	g.clearTimer = WaveClearPause
}

func (g *Game) publishStats() {
	g.SetStat("wave", g.wave)
	g.SetStat("lives", g.lives)
	g.SetStat("waves_cleared", g.wavesClear)
	g.SetStat("invaders_destroyed", g.destroyed)
	g.SetStat("shots_fired", g.shotsFired)
	accuracy := 0
	if g.shotsFired > 0 {
		accuracy = g.shotsLanded * 100 / g.shotsFired
	}
	g.SetStat("accuracy", accuracy)
}

// Render draws the field centered on dst.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	ox := (cols - FieldWidth) / 2
	oy := max(2, (rows-FieldHeight)/2)

	core.DrawCentered(dst, 0, fmt.Sprintf("SPACE INVADERS - Wave %d", g.wave), core.Fg(core.ColorBrightWhite).Bolded())
	info := fmt.Sprintf("Score: %d  Lives: %d  Invaders: %d", g.Score.Value(), g.lives, len(g.invaders))
	if g.TimeLimit() > 0 {
		info += fmt.Sprintf("  Time: %.1fs", g.Remaining())
	}
	core.DrawCentered(dst, 1, info, core.Plain)

	core.DrawBox(dst, core.NewRect(ox-1, oy-1, FieldWidth+2, FieldHeight+2), core.Fg(core.ColorWhite))
	star := core.Fg(core.ColorGray)
	for i := 0; i < 20; i++ {
		dst.PutChar(oy+(i*3)%FieldHeight, ox+(i*7)%FieldWidth, '·', star)
	}

	for _, inv := range g.invaders {
		k := kindStats[inv.Kind]
		glyphs.DrawNamed(dst, oy+int(inv.Y), ox+int(inv.X), k.sprite, core.Fg(k.color))
	}
	for _, b := range g.bullets {
		if b.Player {
			dst.PutChar(oy+int(b.Y), ox+int(b.X), '|', core.Fg(core.ColorBrightYellow))
		} else {
			dst.PutChar(oy+int(b.Y), ox+int(b.X), '!', core.Fg(core.ColorRed))
		}
	}
	shipStyle := core.Fg(core.ColorBrightGreen).Bolded()
	if g.lives <= 1 {
		shipStyle = core.Fg(core.ColorRed).Bolded()
	}
	glyphs.DrawNamed(dst, oy+g.shipY, ox+g.shipX-1, "player_ship", shipStyle)

	core.DrawCentered(dst, rows-1, "←/→: move  Space: fire  P: pause  Q: quit", star)

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		msg := "GAME OVER"
		switch g.Outcome() {
		case core.OutcomeWin:
			msg = "EARTH IS SAFE!"
		case core.OutcomeTimeUp:
			msg = "TIME UP!"
		}
		core.DrawMessage(dst, msg, fmt.Sprintf("Score: %d  Waves: %d", g.Score.Value(), g.wavesClear), core.Fg(core.ColorBrightWhite))
	case g.clearTimer > 0:
		core.DrawCentered(dst, oy+FieldHeight/2, fmt.Sprintf("WAVE %d CLEARED", g.wave), core.Fg(core.ColorBrightYellow).Bolded())
	}
}
