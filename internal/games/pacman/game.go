// Package pacman implements a small Pac-Man: eat every dot while four
// ghosts hunt you, and turn the tables with power pellets.
package pacman

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Speeds are in tiles per second.
const (
	PacSpeed        = 6.0
	GhostSpeed      = 5.0
	FrightenedScale = 0.5
	SpeedrunScale   = 1.5
	LevelScale      = 1.1
	PowerDuration   = 8.0
	RespawnDelay    = 5.0
	StartingLives   = 3

	dotPoints   = 10
	powerPoints = 50
	ghostPoints = 200
	levelBonus  = 500
)

// Personality decides how a ghost picks its target.
type Personality int

const (
	Chaser   Personality = iota // heads straight for Pac-Man
	Ambusher                    // aims three tiles ahead of Pac-Man
	Wanderer                    // turns at random
)

var ghostColors = [...]core.Color{core.ColorRed, core.ColorBrightMagenta, core.ColorCyan, core.ColorOrange}

var personalities = [...]Personality{Chaser, Ambusher, Wanderer, Wanderer}

// Ghost is one of the hunters.
type Ghost struct {
	Pos         core.Point
	Home        core.Point
	Dir         core.Direction
	Personality Personality
	Frightened  bool
	Eaten       bool
	respawn     float64
	clock       float64
}

// Descriptor returns the static metadata for Pac-Man.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "pacman",
		Name:        "Pac-Man Retro",
		Description: "Classic maze navigation with dots and ghosts",
		Genre:       "Arcade",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Arrows/WASD", Action: "Move"},
			{Key: "P", Action: "Pause"},
			{Key: "Q/Esc", Action: "Quit"},
		},
		Modes: []core.Mode{
			core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite,
			core.ModeSpeedrun, core.ModePractice,
		},
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Plugin returns the registry entry for Pac-Man.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(60),
		New:        func() core.Session { return New() },
	}
}

// Game implements Pac-Man.
type Game struct {
	core.Base

	rng   *rand.Rand
	board *Board

	pac     core.Point
	dir     core.Direction
	nextDir core.Direction
	clock   float64

	ghosts     []Ghost
	ghostScale float64
	power      float64

	lives         int
	level         int
	levelsCleared int
	ghostsEaten   int
	pellets       int
	deaths        int
}

// New creates an uninitialized Pac-Man session.
func New() *Game {
	return &Game{}
}

// Initialize lays out a fresh board.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 300, 240), core.Scoring{}); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.lives = StartingLives
	g.level = 1
	g.levelsCleared, g.ghostsEaten, g.pellets, g.deaths = 0, 0, 0, 0

	g.ghostScale = 1
	if mode == core.ModeSpeedrun {
		g.ghostScale = SpeedrunScale
	}
	if opts.Difficulty > 0 {
		g.ghostScale *= 1 + 0.1*float64(opts.Difficulty-2)
	}

	g.board = NewBoard()
	g.resetActors()
	g.publishStats()
	return nil
}

// resetActors returns Pac-Man and the ghosts to their starting tiles.
func (g *Game) resetActors() {
	g.pac = g.board.Start
	g.dir, g.nextDir = core.DirNone, core.DirNone
	g.clock = 0
	g.power = 0
	g.ghosts = g.ghosts[:0]
	for i, home := range g.board.Homes {
		g.ghosts = append(g.ghosts, Ghost{
			Pos:         home,
			Home:        home,
			Personality: personalities[i%len(personalities)],
		})
	}
}

// HandleInput buffers a turn. It is taken at the first tile where the new
// direction is open.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	if d := core.DirectionOf(ev.Action); d != core.DirNone {
		g.nextDir = d
	}
}

// Update moves Pac-Man and the ghosts on their own clocks.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	if g.power > 0 {
		g.power -= dt
		if g.power <= 0 {
			g.power = 0
			for i := range g.ghosts {
				g.ghosts[i].Frightened = false
			}
		}
	}

	interval := 1 / PacSpeed
	g.clock += dt
	for g.clock >= interval && g.Running() {
		g.clock -= interval
		g.stepPac()
	}
	if g.dir == core.DirNone {
		g.clock = 0
	}

	for i := range g.ghosts {
		if !g.Running() {
			break
		}
		g.updateGhost(&g.ghosts[i], dt)
	}
	g.publishStats()
}

func (g *Game) stepPac() {
	if g.nextDir != core.DirNone && g.board.Open(g.pac.Add(g.nextDir.Delta())) {
		g.dir = g.nextDir
		g.nextDir = core.DirNone
	}
	if g.dir == core.DirNone {
		return
	}
	next := g.pac.Add(g.dir.Delta())
	if !g.board.Open(next) {
		return
	}
	g.pac = g.board.Wrap(next)

	switch g.board.Eat(g.pac) {
	case TileDot:
		g.Score.Add(dotPoints)
	case TilePower:
		g.Score.Add(powerPoints)
		g.pellets++
		g.power = PowerDuration
		for i := range g.ghosts {
			if !g.ghosts[i].Eaten {
				g.ghosts[i].Frightened = true
			}
		}
	}
	g.checkContact()
	if g.Running() && g.board.Dots() == 0 {
		g.levelClear()
	}
}

func (g *Game) ghostSpeed(gh *Ghost) float64 {
	speed := GhostSpeed * g.ghostScale
	if gh.Frightened {
		speed *= FrightenedScale
	}
	return speed
}

func (g *Game) updateGhost(gh *Ghost, dt float64) {
	if gh.Eaten {
		gh.respawn -= dt
		if gh.respawn <= 0 {
			gh.Eaten = false
			gh.Frightened = false
			gh.Pos, gh.Dir, gh.clock = gh.Home, core.DirNone, 0
		}
		return
	}
	interval := 1 / g.ghostSpeed(gh)
	gh.clock += dt
	for gh.clock >= interval && g.Running() && !gh.Eaten {
		gh.clock -= interval
		g.stepGhost(gh)
		g.checkContact()
	}
}

var ghostDirs = [...]core.Direction{core.DirUp, core.DirLeft, core.DirDown, core.DirRight}

// stepGhost moves a ghost one tile. Ghosts never reverse unless cornered.
// Chasers and ambushers take the open direction closest to their target,
// frightened ghosts the one farthest from Pac-Man, wanderers a random one.
func (g *Game) stepGhost(gh *Ghost) {
	var options []core.Direction
	for _, d := range ghostDirs {
		if d.Opposite(gh.Dir) {
			continue
		}
		if g.board.GhostOpen(gh.Pos.Add(d.Delta())) {
			options = append(options, d)
		}
	}
	if len(options) == 0 {
		back := reverse(gh.Dir)
		if back == core.DirNone || !g.board.GhostOpen(gh.Pos.Add(back.Delta())) {
			return
		}
		options = append(options, back)
	}

	var pick core.Direction
	switch {
	case gh.Frightened:
		pick = g.pickByDistance(gh.Pos, options, g.pac, true)
	case gh.Personality == Wanderer:
		pick = options[g.rng.Intn(len(options))]
	case gh.Personality == Ambusher:
		target := g.pac
		for rep := 0; rep < 3; rep++ {
			target = target.Add(g.dir.Delta())
		}
		pick = g.pickByDistance(gh.Pos, options, target, false)
	default:
		pick = g.pickByDistance(gh.Pos, options, g.pac, false)
	}
	gh.Dir = pick
	gh.Pos = g.board.Wrap(gh.Pos.Add(pick.Delta()))
}

func (g *Game) pickByDistance(from core.Point, options []core.Direction, target core.Point, farthest bool) core.Direction {
	best := options[0]
	bestDist := distSq(from.Add(best.Delta()), target)
	for _, d := range options[1:] {
		dist := distSq(from.Add(d.Delta()), target)
		if (farthest && dist > bestDist) || (!farthest && dist < bestDist) {
			best, bestDist = d, dist
		}
	}
	return best
}

func distSq(a, b core.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func reverse(d core.Direction) core.Direction {
	for _, o := range ghostDirs {
		if d.Opposite(o) {
			return o
		}
	}
	return core.DirNone
}

// checkContact resolves Pac-Man sharing a tile with a ghost.
func (g *Game) checkContact() {
	for i := range g.ghosts {
		gh := &g.ghosts[i]
		if gh.Eaten || gh.Pos != g.pac {
			continue
		}
		if gh.Frightened {
			gh.Eaten = true
			gh.Frightened = false
			gh.respawn = RespawnDelay
			g.ghostsEaten++
			g.Score.Add(ghostPoints)
			continue
		}
		g.caught()
		return
	}
}

// caught costs a life, except in Practice where lives are never spent.
func (g *Game) caught() {
	g.deaths++
	if !g.Rules().Forgiving {
		g.lives--
		if g.lives <= 0 {
			g.Complete(core.OutcomeLoss)
			return
		}
	}
	g.resetActors()
}

// levelClear awards the bonus. Time Attack and Infinite refill the board
// with faster ghosts; other modes end with a win.
func (g *Game) levelClear() {
	g.Score.Add(levelBonus)
	g.levelsCleared++
	if g.Mode() != core.ModeTimeAttack && !g.Rules().Regenerate {
		g.Complete(core.OutcomeWin)
		return
	}
	g.level++
	g.ghostScale *= LevelScale
	g.board = NewBoard()
	g.resetActors()
}

func (g *Game) publishStats() {
	g.SetStat("level", g.level)
	g.SetStat("lives", g.lives)
	g.SetStat("dots_left", g.board.Dots())
	g.SetStat("levels_cleared", g.levelsCleared)
	g.SetStat("ghosts_eaten", g.ghostsEaten)
	g.SetStat("power_pellets", g.pellets)
	g.SetStat("deaths", g.deaths)
}

// Render draws the board centered on dst.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	ox := (cols - g.board.W) / 2
	oy := max(2, (rows-g.board.H)/2)

	core.DrawCentered(dst, 0, fmt.Sprintf("PAC-MAN - Level %d", g.level), core.Fg(core.ColorBrightYellow).Bolded())
	info := fmt.Sprintf("Score: %d  Lives: %s  Dots: %d", g.Score.Value(), strings.Repeat("♥", g.lives), g.board.Dots())
	if g.power > 0 {
		info += fmt.Sprintf("  Power: %.1fs", g.power)
	}
	if g.TimeLimit() > 0 {
		info += fmt.Sprintf("  Time: %.1fs", g.Remaining())
	}
	core.DrawCentered(dst, 1, info, core.Plain)

	wall := core.Fg(core.ColorBlue)
	for y := 0; y < g.board.H; y++ {
		for x := 0; x < g.board.W; x++ {
			switch g.board.tiles[y][x] {
			case TileWall:
				dst.PutChar(oy+y, ox+x, '█', wall)
			case TileDoor:
				dst.PutChar(oy+y, ox+x, '─', core.Fg(core.ColorMagenta))
			case TileDot:
				dst.PutChar(oy+y, ox+x, '·', core.Plain)
			case TilePower:
				dst.PutChar(oy+y, ox+x, '●', core.Plain.Bolded())
			}
		}
	}
	for i, gh := range g.ghosts {
		if gh.Eaten {
			continue
		}
		st := core.Fg(ghostColors[i%len(ghostColors)]).Bolded()
		if gh.Frightened {
			st = core.Fg(core.ColorBrightBlue)
		}
		dst.PutChar(oy+gh.Pos.Y, ox+gh.Pos.X, 'ᗣ', st)
	}
	dst.PutChar(oy+g.pac.Y, ox+g.pac.X, pacGlyph(g.dir), core.Fg(core.ColorBrightYellow).Bolded())

	core.DrawCentered(dst, rows-1, "Arrows/WASD: move  P: pause  Q: quit", core.Fg(core.ColorGray))

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		msg := "GAME OVER"
		switch g.Outcome() {
		case core.OutcomeWin:
			msg = "BOARD CLEARED!"
		case core.OutcomeTimeUp:
			msg = "TIME UP!"
		}
		core.DrawMessage(dst, msg, fmt.Sprintf("Score: %d  Ghosts: %d", g.Score.Value(), g.ghostsEaten), core.Fg(core.ColorBrightWhite))
	}
}

func pacGlyph(d core.Direction) rune {
	switch d {
	case core.DirLeft:
		return 'ᗤ'
	case core.DirUp:
		return 'ᗢ'
	case core.DirDown:
		return 'ᗜ'
	}
	return 'ᗧ'
}
