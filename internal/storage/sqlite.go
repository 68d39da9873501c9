// Package storage provides SQLite-based persistence for score reports and
// achievements. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies. *Store implements core.ScoreSink.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/cli-games/internal/achievements"
	"github.com/vovakirdan/cli-games/internal/core"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

var _ core.ScoreSink = (*Store)(nil)

// ScoreEntry is one stored score report.
type ScoreEntry struct {
	ID        int64
	SessionID string
	PlayerID  string
	GameID    string
	Mode      core.Mode
	Score     int
	Outcome   string
	Elapsed   float64
	Extra     map[string]any
	CreatedAt time.Time
}

// Unlock is an achievement a player holds.
type Unlock struct {
	achievements.Achievement
	PlayerID   string
	GameID     string // game whose report unlocked it
	UnlockedAt time.Time
}

// GameStats aggregates every stored report of one game.
type GameStats struct {
	GameID    string
	Plays     int
	Best      int
	Average   float64
	TotalTime float64 // seconds
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; keep the pool from racing itself.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT UNIQUE,
			player_id TEXT NOT NULL DEFAULT '',
			game_id TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'normal',
			score INTEGER NOT NULL,
			outcome TEXT NOT NULL DEFAULT '',
			elapsed REAL NOT NULL DEFAULT 0,
			extra TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, mode, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player_id);

		CREATE TABLE IF NOT EXISTS achievements (
			player_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			game_id TEXT NOT NULL DEFAULT '',
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (player_id, achievement_id)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Submit records a score report and any achievements it unlocks, in one
// transaction. Submitting the same session id twice stores nothing the
// second time and unlocks nothing.
func (s *Store) Submit(ctx context.Context, r core.ScoreReport) ([]string, error) {
	extra, err := json.Marshal(r.Extra)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot encode extra stats: %w", err)
	}
	if r.Extra == nil {
		extra = []byte("{}")
	}
	created := time.Now().UTC()
	if r.Timestamp > 0 {
		created = time.Unix(r.Timestamp, 0).UTC()
	}
	sessionID := sql.NullString{String: r.SessionID, Valid: r.SessionID != ""}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO scores
		 (session_id, player_id, game_id, mode, score, outcome, elapsed, extra, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, r.PlayerID, r.GameID, r.Mode.String(), r.Score,
		r.Outcome.String(), r.Elapsed, string(extra), created.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot save score: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("storage: cannot save score: %w", err)
	} else if n == 0 {
		return nil, nil
	}

	stats, err := playerStats(ctx, tx, r.PlayerID)
	if err != nil {
		return nil, err
	}

	var unlocked []string
	for _, id := range achievements.Evaluate(r, stats) {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO achievements (player_id, achievement_id, game_id, unlocked_at)
			 VALUES (?, ?, ?, ?)`,
			r.PlayerID, id, r.GameID, created.Format(timeLayout),
		)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot save achievement %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			unlocked = append(unlocked, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return unlocked, nil
}

// SaveScore records a bare score for gameID with no session or player.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const scoreColumns = `id, session_id, player_id, game_id, mode, score, outcome, elapsed, extra, created_at`

// TopScores retrieves the top N scores for the given game, optionally
// restricted to one mode (empty mode means all). Results are ordered by
// score descending.
func (s *Store) TopScores(gameID, mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE game_id = ? AND (? = '' OR mode = ?)
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// RecentScores returns the player's latest reports, newest first.
func (s *Store) RecentScores(playerID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE player_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// HighScores returns the best score of every game that has one.
func (s *Store) HighScores() (map[string]int, error) {
	rows, err := s.db.Query("SELECT game_id, MAX(score) FROM scores GROUP BY game_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query high scores: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			score int
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out[id] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// GameStats aggregates the stored reports of one game.
func (s *Store) GameStats(gameID string) (GameStats, error) {
	st := GameStats{GameID: gameID}
	var (
		best  sql.NullInt64
		avg   sql.NullFloat64
		total sql.NullFloat64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), AVG(score), SUM(elapsed) FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&st.Plays, &best, &avg, &total)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query game stats: %w", err)
	}
	st.Best = int(best.Int64)
	st.Average = avg.Float64
	st.TotalTime = total.Float64
	return st, nil
}

// PlayerStats returns the player's totals used by achievement rules.
func (s *Store) PlayerStats(ctx context.Context, playerID string) (achievements.PlayerStats, error) {
	return playerStats(ctx, s.db, playerID)
}

// Achievements lists the player's unlocks in the order they were earned.
func (s *Store) Achievements(playerID string) ([]Unlock, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id, game_id, unlocked_at
		 FROM achievements
		 WHERE player_id = ?
		 ORDER BY unlocked_at ASC, rowid ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	var out []Unlock
	for rows.Next() {
		var (
			id, gameID string
			at         any
		)
		if err := rows.Scan(&id, &gameID, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a, ok := achievements.Lookup(id)
		if !ok {
			a = achievements.Achievement{ID: id, Name: id}
		}
		out = append(out, Unlock{Achievement: a, PlayerID: playerID, GameID: gameID, UnlockedAt: parseTime(at)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func playerStats(ctx context.Context, q querier, playerID string) (achievements.PlayerStats, error) {
	st := achievements.PlayerStats{ModesPlayed: make(map[core.Mode]bool)}
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT game_id) FROM scores WHERE player_id = ?`,
		playerID,
	).Scan(&st.GamesPlayed, &st.DistinctGames)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query player stats: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT DISTINCT mode FROM scores WHERE player_id = ?`, playerID)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query player modes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return st, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if m, err := core.ParseMode(name); err == nil {
			st.ModesPlayed[m] = true
		}
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return st, nil
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var (
			e         ScoreEntry
			sessionID sql.NullString
			mode      string
			extra     string
			createdAt any
		)
		if err := rows.Scan(&e.ID, &sessionID, &e.PlayerID, &e.GameID, &mode,
			&e.Score, &e.Outcome, &e.Elapsed, &extra, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.SessionID = sessionID.String
		e.Mode, _ = core.ParseMode(mode)
		if extra != "" && extra != "{}" {
			//nolint:errcheck // a damaged blob only loses the extra stats
			json.Unmarshal([]byte(extra), &e.Extra)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles the datetime forms the driver may hand back.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	case int64:
		return time.Unix(v, 0).UTC()
	}
	return time.Time{}
}
