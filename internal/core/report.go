package core

import "context"

// ScoreReport is emitted exactly once for every session that completes
// without a fault.
type ScoreReport struct {
	SessionID string
	PlayerID  string
	GameID    string
	Mode      Mode
	Score     int
	Outcome   Outcome
	Elapsed   float64
	Timestamp int64 // epoch seconds
	Extra     map[string]any
}

// IntExtra reads a numeric extra stat, tolerating the types a stat may take
// after a round trip through JSON.
func (r ScoreReport) IntExtra(key string) (int, bool) {
	switch v := r.Extra[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// ScoreSink consumes score reports. It returns the ids of achievements the
// report unlocked.
type ScoreSink interface {
	Submit(ctx context.Context, report ScoreReport) ([]string, error)
}
