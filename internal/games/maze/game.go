// Package maze implements Maze Runner: walk from the top-left corner of a
// generated maze to the exit, collecting coins and avoiding enemies.
package maze

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

const (
	maxWidth  = 40
	maxHeight = 20
	minSide   = 7

	coinPoints     = 10
	enemyPenalty   = 100
	exitBonus      = 100
	moveBonusPar   = 100
	enemyTick      = 0.05 // seconds between enemy move rolls
	enemyMoveOdds  = 0.1
	maxPendingMove = 8
	maxDifficulty  = 4
)

// Descriptor returns the static metadata for the maze.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "maze",
		Name:        "Maze Runner",
		Description: "Navigate through procedurally generated mazes",
		Genre:       "Puzzle",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Arrows/WASD", Action: "Move"},
			{Key: "R", Action: "Regenerate maze"},
			{Key: "P", Action: "Pause"},
			{Key: "Q/Esc", Action: "Quit"},
		},
		Modes:      []core.Mode{core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite, core.ModeSpeedrun},
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Plugin returns the registry entry for the maze.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(20),
		New:        func() core.Session { return New() },
	}
}

// Game implements Maze Runner.
type Game struct {
	core.Base

	rng        *rand.Rand
	grid       *Grid
	width      int
	height     int
	difficulty int
	level      int

	player  core.Point
	exit    core.Point
	coins   map[core.Point]bool
	enemies []core.Point

	pending    []core.Direction
	regenerate bool
	enemyClock float64

	moves           int // moves on the current maze
	totalMoves      int
	levelsCompleted int
	regenerations   int
}

// New creates an uninitialized maze session.
func New() *Game {
	return &Game{}
}

// Initialize generates the first maze. Difficulty defaults to 1 and sets
// the time limits: Time Attack 120+30*(3-d) seconds, Speedrun 60+20*(3-d).
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	d := opts.Difficulty
	if d <= 0 {
		d = 1
	}
	d = core.Clamp(d, 1, maxDifficulty)

	ta := float64(120 + 30*(3-d))
	sr := float64(60 + 20*(3-d))
	scoring := core.Scoring{SpeedrunThreshold: 60, SpeedrunBonus: 500}
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, ta, sr), scoring); err != nil {
		return err
	}

	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.width = oddAtMost(max(minSide, min(opts.Cols-4, maxWidth)))
	g.height = oddAtMost(max(minSide, min(opts.Rows-6, maxHeight)))
	g.difficulty = d
	g.level = 1
	g.moves, g.totalMoves, g.levelsCompleted, g.regenerations = 0, 0, 0, 0
	g.pending = g.pending[:0]
	g.regenerate = false
	g.enemyClock = 0

	g.build()
	g.publishStats()
	return nil
}

func oddAtMost(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// build generates a maze for the current level and places the player,
// exit, coins and enemies.
func (g *Game) build() {
	g.grid = Generate(g.width, g.height, g.rng)
	g.player = core.Point{X: 1, Y: 1}
	g.grid.Set(g.player, Visited)

	g.exit = core.Point{X: g.width - 2, Y: g.height - 2}
	for g.grid.At(g.exit) == Wall && g.exit.X > 1 && g.exit.Y > 1 {
		g.exit = core.Point{X: g.exit.X - 2, Y: g.exit.Y - 2}
	}

	g.coins = make(map[core.Point]bool)
	for _, p := range g.scatter(5 + g.level*2) {
		g.coins[p] = true
	}
	g.enemies = g.enemies[:0]
	if g.difficulty > 1 {
		g.enemies = append(g.enemies, g.scatter(g.difficulty-1)...)
	}
	g.moves = 0
}

// scatter picks up to n distinct free cells, giving up after 10 tries per
// item.
func (g *Game) scatter(n int) []core.Point {
	var out []core.Point
	for attempts := 0; len(out) < n && attempts < n*10; attempts++ {
		p := core.Point{X: 1 + g.rng.Intn(g.width-2), Y: 1 + g.rng.Intn(g.height-2)}
		if g.grid.At(p) != Open || p == g.exit || g.coins[p] || g.enemyAt(p) {
			continue
		}
		dup := false
		for _, q := range out {
			dup = dup || q == p
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) enemyAt(p core.Point) bool {
	for _, e := range g.enemies {
		if e == p {
			return true
		}
	}
	return false
}

// HandleInput queues moves and regeneration for the next update.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	if ev.Action == core.ActionRegenerate {
		g.regenerate = true
		return
	}
	if d := core.DirectionOf(ev.Action); d != core.DirNone && len(g.pending) < maxPendingMove {
		g.pending = append(g.pending, d)
	}
}

// Update applies queued moves, then lets enemies wander.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	if g.regenerate {
		g.regenerate = false
		g.pending = g.pending[:0]
		g.regenerations++
		g.build()
	}

	for _, d := range g.pending {
		g.move(d)
		if !g.Running() {
			break
		}
	}
	g.pending = g.pending[:0]

	if g.Running() {
		g.enemyClock += dt
		for g.enemyClock >= enemyTick && g.Running() {
			g.enemyClock -= enemyTick
			g.moveEnemies()
		}
	}
	g.publishStats()
}

func (g *Game) move(d core.Direction) {
	next := g.player.Add(d.Delta())
	if !g.grid.Passable(next) {
		return
	}
	g.player = next
	g.grid.Set(next, Visited)
	g.moves++
	g.totalMoves++

	switch {
	case g.coins[next]:
		delete(g.coins, next)
		g.Score.Add(coinPoints)
	case g.enemyAt(next):
		g.caught()
	case next == g.exit:
		g.levelComplete()
	}
}

func (g *Game) moveEnemies() {
	for i, e := range g.enemies {
		if g.rng.Float64() >= enemyMoveOdds {
			continue
		}
		dirs := []core.Direction{core.DirDown, core.DirUp, core.DirRight, core.DirLeft}
		g.rng.Shuffle(len(dirs), func(a, b int) { dirs[a], dirs[b] = dirs[b], dirs[a] })
		for _, d := range dirs {
			n := e.Add(d.Delta())
			if g.grid.Passable(n) && n != g.exit && !g.coins[n] && !g.enemyAt(n) {
				g.enemies[i] = n
				break
			}
		}
	}
	if g.enemyAt(g.player) {
		g.caught()
	}
}

func (g *Game) caught() {
	g.Score.Penalize(enemyPenalty)
	g.Complete(core.OutcomeLoss)
}

// levelComplete scores the exit. Infinite mode moves on to a harder maze;
// every other mode ends with a win.
func (g *Game) levelComplete() {
	bonus := exitBonus + int(g.Remaining()*2) + max(0, moveBonusPar-g.moves)
	g.levelsCompleted++

	if g.Rules().Regenerate {
		g.Score.Add(bonus)
		g.level++
		g.difficulty = min(maxDifficulty, 1+g.level/3)
		g.build()
		return
	}
	g.Score.AwardCompletion(bonus)
	g.Complete(core.OutcomeWin)
}

func (g *Game) publishStats() {
	g.SetStat("level", g.level)
	g.SetStat("moves", g.totalMoves)
	g.SetStat("coins_left", len(g.coins))
	g.SetStat("levels_completed", g.levelsCompleted)
	g.SetStat("difficulty", g.difficulty)
	g.SetStat("regenerations", g.regenerations)
}

// Render draws the maze centered on dst.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	ox := (cols - g.width) / 2
	oy := (rows - g.height) / 2

	title := fmt.Sprintf("MAZE RUNNER - Level %d", g.level)
	core.DrawCentered(dst, 0, title, core.Fg(core.ColorBrightWhite).Bolded())
	info := fmt.Sprintf("Score: %d  Moves: %d  Coins: %d  Difficulty: %d", g.Score.Value(), g.moves, len(g.coins), g.difficulty)
	if g.TimeLimit() > 0 {
		info += fmt.Sprintf("  Time: %.1fs", g.Remaining())
	}
	core.DrawCentered(dst, 1, info, core.Plain)

	wall := core.Fg(core.ColorBlue)
	trail := core.Fg(core.ColorGray)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			switch g.grid.At(core.Point{X: x, Y: y}) {
			case Wall:
				dst.PutChar(oy+y, ox+x, '█', wall)
			case Visited:
				dst.PutChar(oy+y, ox+x, '·', trail)
			}
		}
	}
	for p := range g.coins {
		dst.PutChar(oy+p.Y, ox+p.X, '◉', core.Fg(core.ColorYellow))
	}
	dst.PutChar(oy+g.exit.Y, ox+g.exit.X, '⚑', core.Fg(core.ColorGreen).Bolded())
	for _, e := range g.enemies {
		dst.PutChar(oy+e.Y, ox+e.X, '♦', core.Fg(core.ColorRed))
	}
	dst.PutChar(oy+g.player.Y, ox+g.player.X, '@', core.Fg(core.ColorBrightCyan).Bolded())

	core.DrawCentered(dst, rows-1, "Arrows/WASD: move  R: regenerate  P: pause  Q: quit", trail)

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		msg := "GAME OVER"
		switch g.Outcome() {
		case core.OutcomeWin:
			msg = "MAZE COMPLETE!"
		case core.OutcomeTimeUp:
			msg = "TIME UP!"
		}
		core.DrawMessage(dst, msg, fmt.Sprintf("Score: %d  Moves: %d", g.Score.Value(), g.totalMoves), core.Fg(core.ColorBrightWhite))
	}
}
