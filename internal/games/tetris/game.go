// Package tetris implements the classic block-stacking puzzle.
package tetris

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Board dimensions in cells.
const (
	BoardWidth  = 10
	BoardHeight = 20
)

const (
	linesPerLevel  = 10
	softDropPoints = 1
	hardDropPoints = 2
	minGravity     = 0.1 // seconds per row
	normalGoal     = 10  // level that wins a Normal game
	sprintLines    = 40  // lines that win a Speedrun
)

var lineScores = [5]int{0, 100, 300, 500, 800}

// infiniteRamp tightens gravity over ten minutes of endless play.
var infiniteRamp = core.Ramp{Initial: 0, MaxAt: 600, Progression: core.ProgressTime, SpeedScale: 1}

// Descriptor returns the static metadata for Tetris.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "tetris",
		Name:        "Tetris Classic",
		Description: "The classic block-stacking puzzle game",
		Genre:       "Puzzle",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "Left/Right", Action: "Move"},
			{Key: "Up/Enter", Action: "Rotate"},
			{Key: "Down", Action: "Soft drop"},
			{Key: "Space", Action: "Hard drop"},
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

// Plugin returns the registry entry for Tetris.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(60),
		New:        func() core.Session { return New() },
	}
}

// Game implements Tetris.
type Game struct {
	core.Base

	rng   *rand.Rand
	board [BoardHeight][BoardWidth]Kind // meaningful where filled is set
	fill  [BoardHeight][BoardWidth]bool

	cur  Piece
	next Kind

	level       int
	lines       int
	pieces      int
	tetrises    int
	boardResets int

	dropSpeed float64 // rows per second at level 1
	dropTimer float64
}

// New creates an uninitialized Tetris session.
func New() *Game {
	return &Game{}
}

// Initialize clears the well and spawns the first piece.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 300, 180), core.Scoring{}); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.board = [BoardHeight][BoardWidth]Kind{}
	g.fill = [BoardHeight][BoardWidth]bool{}
	g.level, g.lines, g.pieces, g.tetrises, g.boardResets = 1, 0, 0, 0, 0
	g.dropTimer = 0

	g.dropSpeed = 1.0
	if mode == core.ModeSpeedrun {
		g.dropSpeed = 2.0
	}
	if opts.Difficulty > 0 {
		g.dropSpeed *= 1 + 0.25*float64(opts.Difficulty-2)
	}

	g.next = Kind(g.rng.Intn(int(kindCount)))
	g.spawn()
	g.publishStats()
	return nil
}

// gravity returns the seconds between automatic drops.
func (g *Game) gravity() float64 {
	speed := g.dropSpeed * (1 + 0.15*float64(g.level-1))
	if g.Rules().Ramp {
		speed = infiniteRamp.Speed(speed, 0, g.Elapsed())
	}
	return max(minGravity, 1/speed)
}

func (g *Game) collides(p Piece) bool {
	for _, b := range p.Blocks() {
		if b.X < 0 || b.X >= BoardWidth || b.Y >= BoardHeight {
			return true
		}
		if b.Y >= 0 && g.fill[b.Y][b.X] {
			return true
		}
	}
	return false
}

// spawn brings the next piece in at the top. A blocked spawn tops out.
func (g *Game) spawn() {
	g.cur = Piece{Kind: g.next, X: BoardWidth/2 - 1}
	g.next = Kind(g.rng.Intn(int(kindCount)))
	g.dropTimer = 0
	if !g.collides(g.cur) {
		return
	}
	if g.Rules().Forgiving {
		g.boardResets++
		g.fill = [BoardHeight][BoardWidth]bool{}
		return
	}
	g.Complete(core.OutcomeLoss)
}

// HandleInput moves, rotates and drops the falling piece.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	switch ev.Action {
	case core.ActionLeft:
		g.shift(-1)
	case core.ActionRight:
		g.shift(1)
	case core.ActionDown:
		if next := g.cur.Moved(0, 1); !g.collides(next) {
			g.cur = next
			g.Score.Add(softDropPoints)
		}
	case core.ActionUp, core.ActionConfirm:
		g.rotate()
	case core.ActionFire:
		g.hardDrop()
	}
}

func (g *Game) shift(dx int) {
	if next := g.cur.Moved(dx, 0); !g.collides(next) {
		g.cur = next
	}
}

// rotate turns the piece clockwise, kicking one column off a wall or
// stack when the turn would overlap.
func (g *Game) rotate() {
	turned := g.cur.Rotated()
	for _, dx := range []int{0, -1, 1} {
		if p := turned.Moved(dx, 0); !g.collides(p) {
			g.cur = p
			return
		}
	}
}

func (g *Game) hardDrop() {
	dist := g.dropDistance(g.cur)
	g.cur = g.cur.Moved(0, dist)
	g.Score.Add(dist * hardDropPoints)
	g.lock()
}

// dropDistance returns how many rows p can fall.
func (g *Game) dropDistance(p Piece) int {
	n := 0
	for !g.collides(p.Moved(0, n+1)) {
		n++
	}
	return n
}

// Update applies gravity.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	g.dropTimer += dt
	for g.Running() {
		interval := g.gravity()
		if g.dropTimer < interval {
			break
		}
		g.dropTimer -= interval
		if next := g.cur.Moved(0, 1); !g.collides(next) {
			g.cur = next
		} else {
			g.lock()
		}
	}
	g.publishStats()
}

// lock writes the piece into the well, clears lines and spawns the next.
func (g *Game) lock() {
	for _, b := range g.cur.Blocks() {
		if b.Y >= 0 && b.Y < BoardHeight && b.X >= 0 && b.X < BoardWidth {
			g.fill[b.Y][b.X] = true
			g.board[b.Y][b.X] = g.cur.Kind
		}
	}
	g.pieces++
	g.award(g.clearLines())
	if !g.Running() {
		return
	}
	g.spawn()
}

// clearLines removes full rows and returns how many there were.
func (g *Game) clearLines() int {
	cleared := 0
	for y := BoardHeight - 1; y >= 0; {
		full := true
		for x := 0; x < BoardWidth; x++ {
			full = full && g.fill[y][x]
		}
		if !full {
			y--
			continue
		}
		for yy := y; yy > 0; yy-- {
			g.fill[yy] = g.fill[yy-1]
			g.board[yy] = g.board[yy-1]
		}
		g.fill[0] = [BoardWidth]bool{}
		cleared++
	}
	return cleared
}

func (g *Game) award(n int) {
	if n == 0 {
		return
	}
	g.lines += n
	g.Score.Add(lineScores[min(n, 4)] * g.level)
	if n >= 4 {
		g.tetrises++
	}
	for g.lines >= g.level*linesPerLevel {
		g.level++
	}

	switch {
	case g.Mode() == core.ModeNormal && g.level >= normalGoal:
		g.Complete(core.OutcomeWin)
	case g.Mode() == core.ModeSpeedrun && g.lines >= sprintLines:
		g.Complete(core.OutcomeWin)
	}
}

func (g *Game) publishStats() {
	g.SetStat("lines_cleared", g.lines)
	g.SetStat("level", g.level)
	g.SetStat("pieces", g.pieces)
	g.SetStat("tetrises", g.tetrises)
	if g.Rules().Forgiving {
		g.SetStat("board_resets", g.boardResets)
	}
}

// Render draws the well with two columns per cell and a side panel.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	wellW := BoardWidth*2 + 2
	panelW := 18
	ox := (cols - wellW - panelW) / 2
	oy := max(1, (rows-BoardHeight-2)/2)

	core.DrawCentered(dst, 0, fmt.Sprintf("TETRIS - Level %d", g.level), core.Fg(core.ColorBrightWhite).Bolded())
	core.DrawBox(dst, core.NewRect(ox, oy, wellW, BoardHeight+2), core.Fg(core.ColorWhite))

	cell := func(x, y int, glyph rune, st core.Style) {
		dst.PutChar(oy+1+y, ox+1+2*x, glyph, st)
		dst.PutChar(oy+1+y, ox+2+2*x, glyph, st)
	}
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			if g.fill[y][x] {
				cell(x, y, '█', core.Fg(kindColors[g.board[y][x]]))
			}
		}
	}
	if !g.Done() {
		ghost := g.cur.Moved(0, g.dropDistance(g.cur))
		for _, b := range ghost.Blocks() {
			if b.Y >= 0 {
				cell(b.X, b.Y, '░', core.Fg(core.ColorGray))
			}
		}
		for _, b := range g.cur.Blocks() {
			if b.Y >= 0 {
				cell(b.X, b.Y, '█', core.Fg(kindColors[g.cur.Kind]).Bolded())
			}
		}
	}

	px := ox + wellW + 2
	lines := []string{
		fmt.Sprintf("Score: %d", g.Score.Value()),
		fmt.Sprintf("Level: %d", g.level),
		fmt.Sprintf("Lines: %d", g.lines),
		fmt.Sprintf("Mode:  %s", g.Mode().Title()),
	}
	if g.TimeLimit() > 0 {
		lines = append(lines, fmt.Sprintf("Time:  %.1fs", g.Remaining()))
	}
	if g.Rules().Forgiving {
		lines = append(lines, fmt.Sprintf("Resets: %d", g.boardResets))
	}
	for i, l := range lines {
		core.DrawText(dst, oy+1+i, px, l, core.Plain)
	}
	ny := oy + len(lines) + 2
	core.DrawText(dst, ny, px, "Next:", core.Plain.Bolded())
	for y, row := range rotations[g.next][0] {
		for x, filled := range row {
			if filled {
				dst.PutChar(ny+2+y, px+2+2*x, '█', core.Fg(kindColors[g.next]))
				dst.PutChar(ny+2+y, px+3+2*x, '█', core.Fg(kindColors[g.next]))
			}
		}
	}

	core.DrawCentered(dst, rows-1, "←/→: move  ↑: rotate  ↓: soft drop  Space: drop  P: pause  Q: quit", core.Fg(core.ColorGray))

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to continue", core.Fg(core.ColorYellow))
	case g.Done():
		msg := "GAME OVER"
		switch g.Outcome() {
		case core.OutcomeWin:
			msg = "YOU WIN!"
		case core.OutcomeTimeUp:
			msg = "TIME UP!"
		}
		core.DrawMessage(dst, msg, fmt.Sprintf("Score: %d  Lines: %d", g.Score.Value(), g.lines), core.Fg(core.ColorBrightWhite))
	}
}
