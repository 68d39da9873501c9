// Package platformer implements a side-scrolling platformer: run right,
// jump the pits, stomp walkers, bump question blocks and reach the flag.
package platformer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/glyphs"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Physics in cells and seconds.
const (
	Gravity         = 20.0
	SpeedrunGravity = 25.0
	JumpSpeed       = 13.0
	RunSpeed        = 6.0
	RunHold         = 0.2 // a key press keeps the player running this long
	TerminalSpeed   = 30.0
	InvulnDuration  = 1.5
	StartingLives   = 3

	coinPoints   = 100
	blockPoints  = 200
	stompPoints  = 100
	flagBonus    = 1000
	timeBonusPar = 300
	timeBonusPer = 10
	maxStep      = 1.0 / 60
)

// Descriptor returns the static metadata for the platformer.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "platformer",
		Name:        "Mario Platformer",
		Description: "Jump through levels in this retro platformer",
		Genre:       "Platformer",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Left/Right", Action: "Run"},
			{Key: "Up/Space", Action: "Jump"},
			{Key: "Down", Action: "Stop"},
			{Key: "P", Action: "Pause"},
			{Key: "Q/Esc", Action: "Quit"},
		},
		Modes:      []core.Mode{core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite, core.ModeSpeedrun},
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Plugin returns the registry entry for the platformer.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(60),
		New:        func() core.Session { return New() },
	}
}

// Game implements the platformer.
type Game struct {
	core.Base

	rng     *rand.Rand
	level   *Level
	stage   int
	gravity float64

	x, y     float64
	vx, vy   float64
	onGround bool
	facing   int
	runTimer float64
	invuln   float64

	lives     int
	coins     int
	stomps    int
	blocks    int
	falls     int
	completed int
}

// New creates an uninitialized platformer session.
func New() *Game {
	return &Game{}
}

// Initialize generates stage one.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 180, 120), core.Scoring{}); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.gravity = Gravity
	if mode == core.ModeSpeedrun {
		g.gravity = SpeedrunGravity
	}
	g.lives = StartingLives
	g.coins, g.stomps, g.blocks, g.falls, g.completed = 0, 0, 0, 0, 0
	g.stage = 1
	g.level = Generate(g.stage, g.rng)
	g.respawn()
	g.invuln = 0
	g.publishStats()
	return nil
}

func (g *Game) respawn() {
	g.x, g.y = 2, groundTop-1
	g.vx, g.vy = 0, 0
	g.onGround = false
	g.facing = 1
	g.runTimer = 0
	g.invuln = InvulnDuration
}

// HandleInput runs, jumps and stops.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	switch ev.Action {
	case core.ActionLeft:
		g.vx, g.facing, g.runTimer = -RunSpeed, -1, RunHold
	case core.ActionRight:
		g.vx, g.facing, g.runTimer = RunSpeed, 1, RunHold
	case core.ActionDown:
		g.vx, g.runTimer = 0, 0
	case core.ActionUp, core.ActionFire:
		if g.onGround {
			g.vy = -JumpSpeed
			g.onGround = false
		}
	}
}

// Update integrates in slices of at most maxStep so nothing tunnels
// through a one-cell platform.
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
	g.invuln = max(0, g.invuln-dt)
	g.runTimer -= dt
	if g.runTimer <= 0 && g.onGround {
		g.vx = 0
	}

	g.moveX(dt)
	g.moveY(dt)
	g.collect()
	if !g.Running() {
		return
	}

	if g.y > float64(g.level.H+2) {
		g.falls++
		g.hurt()
		return
	}

	for i := range g.level.Enemies {
		e := &g.level.Enemies[i]
		if !e.Alive {
			continue
		}
		g.level.walk(e, dt)
		g.touch(e)
		if !g.Running() {
			return
		}
	}
}

func (g *Game) moveX(dt float64) {
	if g.vx == 0 {
		return
	}
	nx := g.x + g.vx*dt
	if g.level.Blocked(nx, g.y) {
		if g.vx > 0 {
			nx = math.Floor(nx+1-eps) - 1
		} else {
			nx = math.Floor(nx) + 1
		}
		g.vx = 0
	}
	g.x = nx
}

func (g *Game) moveY(dt float64) {
	g.vy = min(TerminalSpeed, g.vy+g.gravity*dt)
	ny := g.y + g.vy*dt
	g.onGround = false
	if g.level.Blocked(g.x, ny) {
		if g.vy > 0 {
			ny = math.Floor(ny+1-eps) - 1
			g.onGround = true
		} else {
			row := int(math.Floor(ny))
			ny = float64(row + 1)
			g.bump(row)
		}
		g.vy = 0
	}
	g.y = ny
}

// bump cashes in question blocks the player's head hit from below.
func (g *Game) bump(row int) {
	cells(g.x, float64(row), func(cx, cy int) {
		if g.level.At(cx, cy) == TileQuestion {
			g.level.tiles[cy][cx] = TileUsed
			g.blocks++
			g.Score.Add(blockPoints)
		}
	})
}

// collect picks up coins and checks the flag.
func (g *Game) collect() {
	flag := false
	cells(g.x, g.y, func(cx, cy int) {
		switch g.level.At(cx, cy) {
		case TileCoin:
			g.level.tiles[cy][cx] = TileEmpty
			g.coins++
			g.Score.Add(coinPoints)
		case TileFlag:
			flag = true
		}
	})
	if flag {
		g.stageClear()
	}
}

// touch resolves contact with a walker: landing on it stomps it, anything
// else hurts.
func (g *Game) touch(e *Enemy) {
	if g.x >= e.X+1 || e.X >= g.x+1 || g.y >= e.Y+1 || e.Y >= g.y+1 {
		return
	}
	if g.vy > 0 && g.y+1 <= e.Y+0.5 {
		e.Alive = false
		g.stomps++
		g.Score.Add(stompPoints)
		g.vy = -JumpSpeed / 2
		return
	}
	if g.invuln > 0 {
		return
	}
	g.hurt()
}

func (g *Game) hurt() {
	g.lives--
	if g.lives <= 0 {
		g.Complete(core.OutcomeLoss)
		return
	}
	g.respawn()
}

// stageClear pays the flag bonus, 1000 plus ten per second left under 300.
// Time Attack and Infinite go on to a longer stage.
func (g *Game) stageClear() {
	bonus := flagBonus + max(0, timeBonusPar-int(g.Elapsed()))*timeBonusPer
	g.completed++
	if g.Mode() == core.ModeTimeAttack || g.Rules().Regenerate {
		g.Score.Add(bonus)
		g.stage++
		g.level = Generate(g.stage, g.rng)
		g.respawn()
		return
	}
	g.Score.AwardCompletion(bonus)
	g.Complete(core.OutcomeWin)
}

func (g *Game) publishStats() {
	g.SetStat("level", g.stage)
	g.SetStat("lives", g.lives)
	g.SetStat("coins", g.coins)
	g.SetStat("enemies_stomped", g.stomps)
	g.SetStat("blocks_hit", g.blocks)
	g.SetStat("falls", g.falls)
	g.SetStat("levels_completed", g.completed)
}

var tileGlyphs = map[Tile]struct {
	r  rune
	st core.Style
}{
	TileGround:   {'▓', core.Fg(core.ColorOrange)},
	TileBrick:    {'▒', core.Fg(core.ColorOrange)},
	TileQuestion: {'?', core.Fg(core.ColorBrightYellow).Bolded()},
	TileUsed:     {'■', core.Fg(core.ColorGray)},
	TilePipe:     {'║', core.Fg(core.ColorGreen).Bolded()},
	TileCoin:     {'o', core.Fg(core.ColorYellow)},
	TileFlag:     {'|', core.Fg(core.ColorWhite)},
}

// Render draws the stage through a camera that follows the player.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	const oy = 2
	camX := core.Clamp(int(g.x)-cols/2, 0, max(0, g.level.W-cols))

	core.DrawCentered(dst, 0, fmt.Sprintf("PLATFORMER - Level %d", g.stage), core.Fg(core.ColorBrightWhite).Bolded())
	info := fmt.Sprintf("Score: %d  Lives: %d  Coins: %d", g.Score.Value(), g.lives, g.coins)
	if g.TimeLimit() > 0 {
		info += fmt.Sprintf("  Time: %.1fs", g.Remaining())
	}
	core.DrawCentered(dst, 1, info, core.Plain)

	for y := 0; y < g.level.H; y++ {
		for sx := 0; sx < cols; sx++ {
			if t, ok := tileGlyphs[g.level.At(camX+sx, y)]; ok && camX+sx < g.level.W {
				dst.PutChar(oy+y, sx, t.r, t.st)
			}
		}
	}
	glyphs.DrawNamed(dst, oy+flagTop, g.level.FlagX-camX, "flag", core.Fg(core.ColorBrightGreen).Bolded())

	for _, e := range g.level.Enemies {
		if e.Alive {
			dst.PutChar(oy+int(e.Y), int(e.X)-camX, 'Ω', core.Fg(core.ColorRed).Bolded())
		}
	}
	player := core.Fg(core.ColorBrightRed).Bolded()
	if g.invuln > 0 {
		player = core.Fg(core.ColorBrightMagenta)
	}
	dst.PutChar(oy+int(math.Floor(g.y)), int(math.Floor(g.x))-camX, 'M', player)

	core.DrawCentered(dst, rows-1, "←/→: run  ↑/Space: jump  ↓: stop  P: pause  Q: quit", core.Fg(core.ColorGray))

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		msg := "GAME OVER"
		switch g.Outcome() {
		case core.OutcomeWin:
			msg = "LEVEL COMPLETE!"
		case core.OutcomeTimeUp:
			msg = "TIME UP!"
		}
		core.DrawMessage(dst, msg, fmt.Sprintf("Score: %d  Coins: %d", g.Score.Value(), g.coins), core.Fg(core.ColorBrightWhite))
	}
}
