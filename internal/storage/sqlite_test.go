package storage

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vovakirdan/cli-games/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func report(session, player, game string, mode core.Mode, score int) core.ScoreReport {
	return core.ScoreReport{
		SessionID: session,
		PlayerID:  player,
		GameID:    game,
		Mode:      mode,
		Score:     score,
		Outcome:   core.OutcomeLoss,
		Elapsed:   12.5,
		Timestamp: 1_700_000_000,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSubmitStoresReport(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	r := report("s-1", "alice", "snake", core.ModeTimeAttack, 150)
	r.Extra = map[string]any{"snake_length": 9, "food_eaten": 6}
	unlocked, err := store.Submit(ctx, r)
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if !slices.Contains(unlocked, "first_game") || !slices.Contains(unlocked, "score_100") {
		t.Errorf("unlocked = %v, expected first_game and score_100", unlocked)
	}

	scores, err := store.TopScores("snake", "", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score, got %d", len(scores))
	}
	e := scores[0]
	if e.SessionID != "s-1" || e.PlayerID != "alice" || e.Mode != core.ModeTimeAttack || e.Outcome != "loss" {
		t.Errorf("entry = %+v", e)
	}
	if e.Elapsed != 12.5 {
		t.Errorf("Elapsed = %v, expected 12.5", e.Elapsed)
	}
	if got, ok := e.Extra["snake_length"].(float64); !ok || got != 9 {
		t.Errorf("Extra = %v", e.Extra)
	}
	if e.CreatedAt.Unix() != 1_700_000_000 {
		t.Errorf("CreatedAt = %v", e.CreatedAt)
	}
}

func TestSubmitIsIdempotentPerSession(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	r := report("dup", "bob", "maze", core.ModeNormal, 500)
	first, err := store.Submit(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) == 0 {
		t.Fatal("first submit should unlock achievements")
	}

	again, err := store.Submit(ctx, r)
	if err != nil {
		t.Fatalf("second Submit() failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("retry unlocked %v", again)
	}
	all, _ := store.AllScores("maze")
	if len(all) != 1 {
		t.Errorf("Expected 1 stored report, got %d", len(all))
	}
}

func TestAchievementsUnlockOnce(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Submit(ctx, report("a", "carol", "pong", core.ModeNormal, 10)); err != nil {
		t.Fatal(err)
	}
	unlocked, err := store.Submit(ctx, report("b", "carol", "pong", core.ModeNormal, 20))
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(unlocked, "first_game") {
		t.Error("first_game unlocked twice")
	}

	held, err := store.Achievements("carol")
	if err != nil {
		t.Fatalf("Achievements() failed: %v", err)
	}
	if len(held) != 1 || held[0].ID != "first_game" || held[0].Name == "" || held[0].GameID != "pong" {
		t.Errorf("Achievements() = %+v", held)
	}
}

func TestExplorerNeedsEveryMode(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var last []string
	for i, m := range core.AllModes {
		var err error
		last, err = store.Submit(ctx, report(m.String(), "dave", "pong", m, i))
		if err != nil {
			t.Fatal(err)
		}
		if i < len(core.AllModes)-1 && slices.Contains(last, "explorer") {
			t.Fatalf("explorer unlocked after %d modes", i+1)
		}
	}
	if !slices.Contains(last, "explorer") {
		t.Errorf("explorer not unlocked: %v", last)
	}

	st, err := store.PlayerStats(ctx, "dave")
	if err != nil {
		t.Fatal(err)
	}
	if st.GamesPlayed != len(core.AllModes) || st.DistinctGames != 1 {
		t.Errorf("PlayerStats() = %+v", st)
	}
}

func TestStoreTopScoresByMode(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, score := range []int{100, 400, 300, 200, 500} {
		mode := core.ModeNormal
		if i%2 == 1 {
			mode = core.ModeSpeedrun
		}
		if _, err := store.Submit(ctx, report(string(rune('a'+i)), "eve", "tetris", mode, score)); err != nil {
			t.Fatal(err)
		}
	}

	top, err := store.TopScores("tetris", "", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 500 || top[1].Score != 400 || top[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", top)
	}

	speed, _ := store.TopScores("tetris", "speedrun", 10)
	if len(speed) != 2 || speed[0].Score != 400 || speed[1].Score != 200 {
		t.Errorf("speedrun scores = %v", speed)
	}
}

func TestStoreHighScores(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("maze")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("maze", 100)
	store.SaveScore("maze", 300)
	store.SaveScore("snake", 50)

	if high, _ := store.HighScore("maze"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
	all, err := store.HighScores()
	if err != nil {
		t.Fatal(err)
	}
	if all["maze"] != 300 || all["snake"] != 50 || len(all) != 2 {
		t.Errorf("HighScores() = %v", all)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Submit(ctx, report("x", "f", "invaders", core.ModeNormal, 100))
	store.Submit(ctx, report("y", "f", "invaders", core.ModeNormal, 300))

	st, err := store.GameStats("invaders")
	if err != nil {
		t.Fatal(err)
	}
	if st.Plays != 2 || st.Best != 300 || st.Average != 200 || st.TotalTime != 25 {
		t.Errorf("GameStats() = %+v", st)
	}

	empty, err := store.GameStats("platformer")
	if err != nil || empty.Plays != 0 || empty.Best != 0 {
		t.Errorf("empty GameStats() = %+v, %v", empty, err)
	}
}

func TestStoreRecentScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		store.Submit(ctx, report(string(rune('p'+i)), "gina", "pacman", core.ModeNormal, i*10))
	}
	recent, err := store.RecentScores("gina", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Score != 30 || recent[1].Score != 20 {
		t.Errorf("RecentScores() = %v", recent)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("maze", 100)
	store.SaveScore("maze", 200)
	store.SaveScore("pong", 300)

	if err := store.ClearScores("maze"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	mazeScores, _ := store.TopScores("maze", "", 10)
	if len(mazeScores) != 0 {
		t.Errorf("Expected 0 maze scores after clear, got %d", len(mazeScores))
	}

	pongScores, _ := store.TopScores("pong", "", 10)
	if len(pongScores) != 1 {
		t.Errorf("Pong scores should not be affected by clearing maze")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
