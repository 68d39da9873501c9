package snake

import (
	"time"

	"github.com/vovakirdan/cli-games/internal/core"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Phase       core.Phase
	Outcome     core.Outcome
	Score       int
	Level       int
	FoodEaten   int
	Moves       int
	SnakeLen    int
	Head        core.Point
	Dir         core.Direction
	Food        core.Point
	Special     core.Point
	SpecialLeft int
	Interval    time.Duration
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	var head core.Point
	if len(g.snake) > 0 {
		head = g.snake[0]
	}
	return Snapshot{
		Phase:       g.Phase(),
		Outcome:     g.Outcome(),
		Score:       g.Score.Value(),
		Level:       g.level,
		FoodEaten:   g.foodEaten,
		Moves:       g.moves,
		SnakeLen:    len(g.snake),
		Head:        head,
		Dir:         g.direction,
		Food:        g.food,
		Special:     g.special,
		SpecialLeft: g.specialLeft,
		Interval:    g.interval,
	}
}
