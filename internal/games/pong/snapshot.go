package pong

import "math"

// Snapshot contains the state of a Pong game with positions rounded to
// cells and velocities scaled by 1000, so snapshots compare exactly.
type Snapshot struct {
	BallX    int
	BallY    int
	BallVX   int
	BallVY   int
	Paddle1Y int
	Paddle2Y int
	Score1   int
	Score2   int
	Rally    int
	Longest  int
	Winner   int
	Serving  bool
	Points   int
}

// Snapshot returns the current game state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		BallX:    int(math.Round(g.ballX)),
		BallY:    int(math.Round(g.ballY)),
		BallVX:   int(g.ballVX * 1000),
		BallVY:   int(g.ballVY * 1000),
		Paddle1Y: int(g.paddle1Y),
		Paddle2Y: int(g.paddle2Y),
		Score1:   g.score1,
		Score2:   g.score2,
		Rally:    g.rally,
		Longest:  g.longestRally,
		Winner:   g.winner,
		Serving:  g.serving,
		Points:   g.Score.Value(),
	}
}
