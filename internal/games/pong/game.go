// Package pong implements Pong against a CPU paddle, or against a second
// player on the same keyboard in Multiplayer mode.
package pong

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/glyphs"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Default game settings. Speeds are in cells per second.
const (
	DefaultPaddleOffset = 2
	DefaultPaddleStep   = 1.0
	DefaultBallSpeed    = 30.0
	DefaultCPUSpeed     = 60.0
	DefaultWinScore     = 5
	SpeedrunWinScore    = 3
	DefaultServeDelay   = 1.0
	CPUSkillMax         = 0.85

	pointValue = 100
	rallyValue = 10
)

// infiniteRamp speeds up serves and sharpens the CPU over two minutes of
// endless play.
var infiniteRamp = core.Ramp{Initial: 0, MaxAt: 120, Progression: core.ProgressTime, SpeedScale: 0.5}

// Descriptor returns the static metadata for Pong.
func Descriptor() core.Descriptor {
	return core.Descriptor{
		ID:          "pong",
		Name:        "Pong Classic",
		Description: "The timeless two-player paddle game",
		Genre:       "Arcade",
		Author:      "CLI Games Team",
		Version:     "1.0.0",
		Controls: []core.Control{
			{Key: "W/S", Action: "Player 1 paddle"},
			{Key: "Up/Down", Action: "Player 2 paddle (multiplayer)"},
			{Key: "P", Action: "Pause"},
			{Key: "Q/Esc", Action: "Quit"},
		},
		Modes: []core.Mode{
			core.ModeNormal, core.ModeTimeAttack, core.ModeInfinite,
			core.ModeSpeedrun, core.ModeMultiplayer,
		},
		MinPlayers: 1,
		MaxPlayers: 2,
	}
}

// Plugin returns the registry entry for Pong.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Descriptor: Descriptor(),
		Timing:     core.FixedTiming(60),
		New:        func() core.Session { return New() },
	}
}

// Game implements the Pong game logic.
type Game struct {
	core.Base

	width, height int
	paddleHeight  int

	// Paddles, top row in field coordinates
	paddle1Y float64
	paddle2Y float64

	// Ball
	ballX  float64
	ballY  float64
	ballVX float64
	ballVY float64

	score1 int
	score2 int
	lead   int // highest score either side has reached
	winner int // 0 while playing, 1 or 2

	rally        int
	longestRally int

	serving    bool
	serveTimer float64

	winScore  int // 0 plays forever
	twoPlayer bool
	cpuSkill  float64
	rng       *rand.Rand
}

// New creates a new Pong game instance.
func New() *Game {
	return &Game{}
}

// Initialize sets up the court for mode.
func (g *Game) Initialize(mode core.Mode, opts core.Options) error {
	scoring := core.Scoring{SpeedrunThreshold: 60, SpeedrunBonus: 500}
	if err := g.Begin(Descriptor(), mode, core.LimitFor(mode, opts, 180, 120), scoring); err != nil {
		return err
	}
	g.rng = rand.New(rand.NewSource(opts.Seed))
	g.width = core.Clamp(opts.Cols-2, 20, 80)
	g.height = core.Clamp(opts.Rows-5, 8, 30)
	g.paddleHeight = core.Clamp(g.height/5, 3, 7)

	g.twoPlayer = mode == core.ModeMultiplayer
	switch mode {
	case core.ModeSpeedrun:
		g.winScore = SpeedrunWinScore
	case core.ModeInfinite:
		g.winScore = 0
	default:
		g.winScore = DefaultWinScore
	}

	difficulty := opts.Difficulty
	if difficulty <= 0 {
		difficulty = 2
	}
	g.cpuSkill = min(CPUSkillMax, 0.45+0.1*float64(difficulty))

	center := float64(g.height-g.paddleHeight) / 2
	g.paddle1Y, g.paddle2Y = center, center
	g.score1, g.score2, g.lead, g.winner = 0, 0, 0, 0
	g.rally, g.longestRally = 0, 0

	g.startServe(1)
	g.publishStats()
	return nil
}

// startServe centers the ball and aims it at player toward's side.
func (g *Game) startServe(toward int) {
	g.serving = true
	g.serveTimer = DefaultServeDelay
	g.ballX = float64(g.width) / 2
	g.ballY = float64(g.height) / 2

	speed := DefaultBallSpeed
	if g.Rules().Ramp {
		speed = infiniteRamp.Speed(speed, 0, g.Elapsed())
	}
	if toward == 1 {
		g.ballVX = -speed
	} else {
		g.ballVX = speed
	}
	g.ballVY = speed * (g.rng.Float64() - 0.5) * 0.6
}

// HandleInput moves paddles one step per key press. In Multiplayer the
// arrow keys (or events tagged Player2) drive the right paddle.
func (g *Game) HandleInput(ev core.InputEvent) {
	if g.Control(ev) {
		return
	}
	var dy float64
	switch ev.Action {
	case core.ActionUp:
		dy = -DefaultPaddleStep
	case core.ActionDown:
		dy = DefaultPaddleStep
	default:
		return
	}
	if g.twoPlayer && (ev.SeatOf() == core.Player2 || ev.Key == "up" || ev.Key == "down") {
		g.paddle2Y = g.clampPaddle(g.paddle2Y + dy)
		return
	}
	g.paddle1Y = g.clampPaddle(g.paddle1Y + dy)
}

func (g *Game) clampPaddle(y float64) float64 {
	return core.ClampF(y, 0, float64(g.height-g.paddleHeight))
}

// Update advances paddles and ball by dt seconds.
func (g *Game) Update(dt float64) {
	if !g.Advance(dt) {
		return
	}
	if !g.twoPlayer {
		g.updateCPU(dt)
	}
	if g.serving {
		g.serveTimer -= dt
		if g.serveTimer <= 0 {
			g.serving = false
		}
	} else {
		g.updateBall(dt)
	}
	g.publishStats()
}

// updateCPU tracks the ball while it approaches, at a skill-limited speed.
func (g *Game) updateCPU(dt float64) {
	if g.ballVX <= 0 {
		return
	}
	skill := g.cpuSkill
	if g.Rules().Ramp {
		skill = min(CPUSkillMax, skill+0.2*infiniteRamp.Level(0, g.Elapsed()))
	}
	target := g.ballY - float64(g.paddleHeight)/2
	diff := target - g.paddle2Y
	step := math.Min(DefaultCPUSpeed*skill*dt, math.Abs(diff))
	g.paddle2Y = g.clampPaddle(g.paddle2Y + math.Copysign(step, diff))
}

func (g *Game) leftFace() float64  { return float64(DefaultPaddleOffset + 1) }
func (g *Game) rightFace() float64 { return float64(g.width - DefaultPaddleOffset - 1) }

func (g *Game) onPaddle(top float64) bool {
	return g.ballY >= top-0.5 && g.ballY <= top+float64(g.paddleHeight)+0.5
}

// updateBall moves the ball, bouncing it off walls and paddles. Paddle
// contact is tested against the path travelled this frame so a fast ball
// cannot skip through a paddle.
func (g *Game) updateBall(dt float64) {
	prevX := g.ballX
	g.ballX += g.ballVX * dt
	g.ballY += g.ballVY * dt

	bottom := float64(g.height - 1)
	if g.ballY < 0 {
		g.ballY = -g.ballY
		g.ballVY = math.Abs(g.ballVY)
	}
	if g.ballY > bottom {
		g.ballY = 2*bottom - g.ballY
		g.ballVY = -math.Abs(g.ballVY)
	}
	g.ballY = core.ClampF(g.ballY, 0, bottom)

	if face := g.leftFace(); g.ballVX < 0 && prevX >= face && g.ballX < face && g.onPaddle(g.paddle1Y) {
		g.ballX = face
		g.hit(g.paddle1Y, 1)
	}
	if face := g.rightFace(); g.ballVX > 0 && prevX <= face && g.ballX > face && g.onPaddle(g.paddle2Y) {
		g.ballX = face
		g.hit(g.paddle2Y, -1)
	}

	switch {
	case g.ballX < 0:
		g.point(2)
	case g.ballX > float64(g.width-1):
		g.point(1)
	}
}

// hit returns the ball off a paddle, adding spin from the contact point.
func (g *Game) hit(top float64, dir float64) {
	g.ballVX = math.Copysign(math.Abs(g.ballVX)*1.02, dir)
	hitPos := (g.ballY - top) / float64(g.paddleHeight)
	g.ballVY += (hitPos - 0.5) * DefaultBallSpeed * 0.6

	maxSpeed := DefaultBallSpeed * 3
	if math.Abs(g.ballVX) > maxSpeed {
		g.ballVX = math.Copysign(maxSpeed, g.ballVX)
	}
	if math.Abs(g.ballVY) > maxSpeed/2 {
		g.ballVY = math.Copysign(maxSpeed/2, g.ballVY)
	}

	g.rally++
	if g.rally > g.longestRally {
		g.Score.Add(rallyValue * (g.rally - g.longestRally))
		g.longestRally = g.rally
	}
}

// point awards a point to player 1 or 2. The running score tracks the
// leading side's points and the longest rally.
func (g *Game) point(player int) {
	if player == 1 {
		g.score1++
	} else {
		g.score2++
	}
	if lead := max(g.score1, g.score2); lead > g.lead {
		g.Score.Add(pointValue * (lead - g.lead))
		g.lead = lead
	}
	g.rally = 0

	if g.winScore > 0 && (g.score1 >= g.winScore || g.score2 >= g.winScore) {
		g.winner = player
		switch {
		case g.twoPlayer, player == 1:
			g.Complete(core.OutcomeWin)
		default:
			g.Complete(core.OutcomeLoss)
		}
		g.publishStats()
		return
	}
	g.startServe(player)
}

func (g *Game) publishStats() {
	g.SetStat("player_score", g.score1)
	g.SetStat("opponent_score", g.score2)
	g.SetStat("longest_rally", g.longestRally)
	g.SetStat("winner", g.winner)
}

// Render draws the current game state.
func (g *Game) Render(dst core.Canvas) {
	rows, cols := dst.Dimensions()
	ox := (cols - g.width) / 2
	oy := 2

	title := fmt.Sprintf("PONG - %d vs %d", g.score1, g.score2)
	core.DrawCentered(dst, 0, title, core.Fg(core.ColorBrightWhite).Bolded())
	core.DrawText(dst, 0, 1, g.Mode().Title(), core.Fg(core.ColorCyan))
	core.DrawBox(dst, core.NewRect(ox-1, oy-1, g.width+2, g.height+2), core.Fg(core.ColorWhite))

	// Banner scores sit behind everything else.
	dim := core.Fg(core.ColorGray)
	left := glyphs.Number(g.score1)
	right := glyphs.Number(g.score2)
	glyphs.Draw(dst, oy+1, ox+g.width/4-left.Width()/2, left, dim)
	glyphs.Draw(dst, oy+1, ox+3*g.width/4-right.Width()/2, right, dim)

	for y := 0; y < g.height; y += 2 {
		dst.PutChar(oy+y, ox+g.width/2, NetChar, dim)
	}

	paddle := core.Fg(core.ColorBrightCyan).Bolded()
	for i := 0; i < g.paddleHeight; i++ {
		dst.PutChar(oy+int(g.paddle1Y)+i, ox+DefaultPaddleOffset, PaddleChar, paddle)
		dst.PutChar(oy+int(g.paddle2Y)+i, ox+g.width-DefaultPaddleOffset-1, PaddleChar, paddle)
	}

	// Blink during serve
	if !g.serving || int(g.serveTimer*6)%2 == 0 {
		dst.PutChar(oy+int(g.ballY), ox+int(g.ballX), BallChar, core.Fg(core.ColorBrightYellow).Bolded())
	}

	info := fmt.Sprintf("Rally: %d  Best: %d", g.rally, g.longestRally)
	if g.winScore > 0 {
		info = fmt.Sprintf("First to %d  ", g.winScore) + info
	}
	if g.TimeLimit() > 0 {
		info += fmt.Sprintf("  Time: %.0fs", g.Remaining())
	}
	core.DrawCentered(dst, oy+g.height+1, info, core.Plain)

	controls := "W/S: paddle  P: pause  Q: quit"
	if g.twoPlayer {
		controls = "P1: W/S  P2: Up/Down  P: pause  Q: quit"
	}
	core.DrawCentered(dst, rows-1, controls, dim)

	switch {
	case g.Paused():
		core.DrawMessage(dst, "PAUSED", "Press P to resume", core.Fg(core.ColorYellow))
	case g.Done():
		core.DrawMessage(dst, g.resultTitle(), fmt.Sprintf("%d - %d  |  Score: %d", g.score1, g.score2, g.Score.Value()), core.Fg(core.ColorBrightWhite))
	}
}

func (g *Game) resultTitle() string {
	switch {
	case g.Outcome() == core.OutcomeTimeUp:
		return "TIME UP!"
	case g.Outcome() == core.OutcomeQuit:
		return "GAME OVER"
	case g.twoPlayer:
		return fmt.Sprintf("PLAYER %d WINS!", g.winner)
	case g.winner == 1:
		return "YOU WIN!"
	default:
		return "CPU WINS!"
	}
}
