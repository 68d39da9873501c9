// Package achievements holds the launcher's achievement rules. Rules are
// pure: they look at one score report and the player's totals including
// that report. Persisting unlocks is the storage layer's job.
package achievements

import (
	"github.com/vovakirdan/cli-games/internal/core"
)

// Achievement is a named milestone.
type Achievement struct {
	ID          string
	Name        string
	Description string
}

// PlayerStats are the player's totals after the report being evaluated.
type PlayerStats struct {
	GamesPlayed   int
	DistinctGames int
	ModesPlayed   map[core.Mode]bool
}

type rule struct {
	Achievement
	check func(r core.ScoreReport, st PlayerStats) bool
}

var rules = []rule{
	{Achievement{"first_game", "First Steps", "Complete your first game"},
		func(core.ScoreReport, PlayerStats) bool { return true }},
	{Achievement{"score_100", "Century", "Score 100 points in one game"},
		scoreAtLeast(100)},
	{Achievement{"score_500", "High Roller", "Score 500 points in one game"},
		scoreAtLeast(500)},
	{Achievement{"score_1000", "Thousandaire", "Score 1000 points in one game"},
		scoreAtLeast(1000)},
	{Achievement{"maze_master", "Maze Master", "Complete 5 maze levels in one run"},
		func(r core.ScoreReport, _ PlayerStats) bool {
			n, ok := r.IntExtra("levels_completed")
			return r.GameID == "maze" && ok && n >= 5
		}},
	{Achievement{"snake_expert", "Snake Expert", "Grow a snake to length 20"},
		func(r core.ScoreReport, _ PlayerStats) bool {
			n, ok := r.IntExtra("snake_length")
			return r.GameID == "snake" && ok && n >= 20
		}},
	{Achievement{"speedrunner", "Speedrunner", "Win a game in Speedrun mode"},
		func(r core.ScoreReport, _ PlayerStats) bool {
			return r.Mode == core.ModeSpeedrun && r.Outcome == core.OutcomeWin
		}},
	{Achievement{"perfectionist", "Perfectionist", "Win without losing a life"},
		func(r core.ScoreReport, _ PlayerStats) bool {
			n, ok := r.IntExtra("lives_lost")
			return r.Outcome == core.OutcomeWin && ok && n == 0
		}},
	{Achievement{"veteran", "Veteran", "Play 50 games"},
		func(_ core.ScoreReport, st PlayerStats) bool { return st.GamesPlayed >= 50 }},
	{Achievement{"collector", "Collector", "Play 10 different games"},
		func(_ core.ScoreReport, st PlayerStats) bool { return st.DistinctGames >= 10 }},
	{Achievement{"explorer", "Explorer", "Play every game mode at least once"},
		func(_ core.ScoreReport, st PlayerStats) bool {
			for _, m := range core.AllModes {
				if !st.ModesPlayed[m] {
					return false
				}
			}
			return true
		}},
}

func scoreAtLeast(n int) func(core.ScoreReport, PlayerStats) bool {
	return func(r core.ScoreReport, _ PlayerStats) bool { return r.Score >= n }
}

// All returns every achievement in display order.
func All() []Achievement {
	out := make([]Achievement, len(rules))
	for i, r := range rules {
		out[i] = r.Achievement
	}
	return out
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r.Achievement, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the ids of every achievement the report satisfies,
// whether or not the player already holds them.
func Evaluate(r core.ScoreReport, st PlayerStats) []string {
	var ids []string
	for _, rule := range rules {
		if rule.check(r, st) {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}
