package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

const (
	maxWidth  = 30
	maxHeight = 20
	minSide   = 5

	foodPoints     = 10
	specialPoints  = 50
	specialChance  = 0.10
	specialSteps   = 50
	foodPerLevel   = 5
	efficiencyBase = 20

	speedupStep = 10 * time.Millisecond
	minInterval = 50 * time.Millisecond
)

// Move interval per mode before any speed-ups.
var baseInterval = map[core.Mode]time.Duration{
	core.ModeNormal:     150 * time.Millisecond,
	core.ModeTimeAttack: 120 * time.Millisecond,
	core.ModeInfinite:   100 * time.Millisecond,
	core.ModeSpeedrun:   80 * time.Millisecond,
	core.ModePractice:   150 * time.Millisecond,
}

// Descriptor returns the static metadata for Snake.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "snake",
		Name:        "Snake Classic",
		Description: "Classic snake game - eat food and grow longer!",
		Genre:       "Arcade",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Arrows/WASD", Action: "Steer"},
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

// Plugin returns the registry entry for Snake.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.SteppedTiming(baseInterval[core.ModeNormal]),
		New:        func() core.Session { return New() },
	}
}

// Game implements the Snake game.
type Game struct {
	core.Base

	rng           *rand.Rand
	width, height int

	snake     []core.Point // head at index 0
	direction core.Direction
	nextDir   core.Direction // buffered for the next move

	food        core.Point // X < 0 when the board is full
	special     core.Point
	specialLeft int // moves until the special food vanishes; 0 when absent

	foodEaten int
	level     int
	moves     int
	crashes   int
	interval  time.Duration
}

// New creates an uninitialized Snake session.
func New() *Game {
	return &Game{}
}

// Initialize builds the board for mode.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 180, 120), core.Scoring{}); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.width = max(minSide, min(opts.Cols-4, maxWidth))
	g.height = max(minSide, min(opts.Rows-6, maxHeight))

	g.interval = baseInterval[mode]
	if opts.Difficulty > 0 {
		g.interval += time.Duration(2-opts.Difficulty) * 15 * time.Millisecond
	}
	g.interval = max(minInterval, g.interval)

	g.foodEaten, g.level, g.moves, g.crashes = 0, 1, 0, 0
	g.specialLeft = 0
	g.spawnSnake()
	g.spawnFood()
	g.publishStats()
	return nil
}

// StepInterval returns the current move interval; it shrinks as the snake
// levels up.
func (g *Game) StepInterval() time.Duration {
	return g.interval
}

// HandleInput buffers a direction change. Reversals are checked against
// the direction of the last move, so two presses between moves cannot
// turn the snake back on itself.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	d := core.DirectionOf(ev.Action)
	if d == core.DirNone || d.Opposite(g.direction) {
		return
	}
	g.nextDir = d
}

// Update moves the snake one cell. The loop calls it once per step.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	g.step()
	g.publishStats()
}

// spawnSnake places a length-3 snake in the middle of the board, heading
// right.
func (g *Game) spawnSnake() {
	c := core.Point{X: g.width / 2, Y: g.height / 2}
	g.snake = []core.Point{c, {X: c.X - 1, Y: c.Y}, {X: c.X - 2, Y: c.Y}}
	g.direction = core.DirRight
	g.nextDir = core.DirRight
}

// emptyCells lists cells not covered by the snake or the given points.
func (g *Game) emptyCells(taken ...core.Point) []core.Point {
	blocked := make(map[core.Point]bool, len(g.snake)+len(taken))
	for _, p := range g.snake {
		blocked[p] = true
	}
	for _, p := range taken {
		blocked[p] = true
	}
	cells := make([]core.Point, 0, max(0, g.width*g.height-len(blocked)))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if p := (core.Point{X: x, Y: y}); !blocked[p] {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

// spawnFood places food on a random empty cell and sometimes a special
// item next to it. It returns false when there is no room left.
func (g *Game) spawnFood() bool {
	var taken []core.Point
	if g.specialLeft > 0 {
		taken = append(taken, g.special)
	}
	cells := g.emptyCells(taken...)
	if len(cells) == 0 {
		g.food = core.Point{X: -1, Y: -1}
		return false
	}
	g.food = cells[g.rng.Intn(len(cells))]

	if g.specialLeft == 0 && g.rng.Float64() < specialChance {
		if rest := g.emptyCells(g.food); len(rest) > 0 {
			g.special = rest[g.rng.Intn(len(rest))]
			g.specialLeft = specialSteps
		}
	}
	return true
}

func (g *Game) isSnakeAt(p core.Point) bool {
	for _, seg := range g.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// collides reports whether the head moving to p hits a wall or the body.
// The tail is excluded unless the snake grows this move, since it moves
// out of the way.
func (g *Game) collides(p core.Point, growing bool) bool {
	if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.height {
		return true
	}
	n := len(g.snake)
	if !growing {
		n--
	}
	for i := 0; i < n; i++ {
		if g.snake[i] == p {
			return true
		}
	}
	return false
}

func (g *Game) step() {
	g.direction = g.nextDir
	head := g.snake[0].Add(g.direction.Delta())
	growing := head == g.food

	if g.collides(head, growing) {
		g.crash()
		return
	}

	g.snake = append([]core.Point{head}, g.snake...)
	g.moves++

	switch {
	case growing:
		g.eat()
	case g.specialLeft > 0 && head == g.special:
		g.Score.Add(specialPoints)
		g.specialLeft = 0
		g.snake = g.snake[:len(g.snake)-1]
	default:
		g.snake = g.snake[:len(g.snake)-1]
	}

	if g.specialLeft > 0 {
		g.specialLeft--
	}
}

func (g *Game) eat() {
	g.foodEaten++
	g.Score.Add(foodPoints)
	if g.Mode() == core.ModeSpeedrun {
		g.Score.Add(efficiencyBase - len(g.snake))
	}
	if g.foodEaten%foodPerLevel == 0 {
		g.level++
		g.interval = max(minInterval, g.interval-speedupStep)
	}
	if !g.spawnFood() {
		g.boardFull()
	}
}

// boardFull handles a snake that covers the whole board.
func (g *Game) boardFull() {
	if !g.Rules().Regenerate {
		g.Complete(core.OutcomeWin)
		return
	}
	g.level++
	g.specialLeft = 0
	g.spawnSnake()
	g.spawnFood()
}

func (g *Game) crash() {
	if !g.Rules().Forgiving {
		g.Complete(core.OutcomeLoss)
		return
	}
	g.crashes++
	g.spawnSnake()
	if g.food.X < 0 || g.isSnakeAt(g.food) {
		g.spawnFood()
	}
}

func (g *Game) publishStats() {
	g.SetStat("snake_length", len(g.snake))
	g.SetStat("food_eaten", g.foodEaten)
	g.SetStat("level", g.level)
	g.SetStat("moves", g.moves)
	if g.Rules().Forgiving {
		g.SetStat("crashes", g.crashes)
	}
}

var headGlyphs = map[core.Direction]rune{
	core.DirUp:    '▲',
	core.DirDown:  '▼',
	core.DirLeft:  '◄',
	core.DirRight: '►',
}

// Render draws the board centered on dst.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	ox := (cols - g.width) / 2
	oy := (rows - g.height) / 2

	g.renderHUD(dst, rows, cols)
	core.DrawBox(dst, core.NewRect(ox-1, oy-1, g.width+2, g.height+2), core.Fg(core.ColorWhite))

	if g.specialLeft > 0 {
		dst.PutChar(oy+g.special.Y, ox+g.special.X, '★', core.Fg(core.ColorYellow).Bolded())
	}
	if g.food.X >= 0 {
		dst.PutChar(oy+g.food.Y, ox+g.food.X, '●', core.Fg(core.ColorRed))
	}
	for i, seg := range g.snake {
		if i == 0 {
			dst.PutChar(oy+seg.Y, ox+seg.X, headGlyphs[g.direction], core.Fg(core.ColorBrightGreen).Bolded())
			continue
		}
		dst.PutChar(oy+seg.Y, ox+seg.X, '█', core.Fg(core.ColorGreen))
	}

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		core.DrawMessage(dst, overlayTitle(g.Outcome()), fmt.Sprintf("Score: %d", g.Score.Value()), core.Fg(core.ColorRed))
	}
}

func (g *Game) renderHUD(dst core.Canvas, rows, cols int) {
	hud := fmt.Sprintf(" Score: %d  Length: %d  Level: %d", g.Score.Value(), len(g.snake), g.level)
	if g.TimeLimit() > 0 {
		hud += fmt.Sprintf("  Time: %.0fs", g.Remaining())
	}
	if g.Rules().Forgiving {
		hud += fmt.Sprintf("  Crashes: %d", g.crashes)
	}
	core.DrawText(dst, 0, 0, hud, core.Fg(core.ColorBrightWhite).Bolded())
	title := g.Mode().Title()
	core.DrawText(dst, 0, cols-len(title)-1, title, core.Fg(core.ColorCyan))
	core.DrawCentered(dst, rows-1, "Arrows/WASD: steer  P: pause  Q: quit", core.Fg(core.ColorGray))
}

func overlayTitle(o core.Outcome) string {
	switch o {
	case core.OutcomeWin:
		return "YOU WIN!"
	case core.OutcomeTimeUp:
		return "TIME UP!"
	default:
		return "GAME OVER"
	}
}
