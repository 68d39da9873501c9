package core

import "testing"

func TestScorePolicy(t *testing.T) {
	var s Score
	s.Add(10)
	s.Add(-5) // ignored
	if s.Value() != 10 {
		t.Fatalf("Value() = %d, expected 10", s.Value())
	}

	s.Penalize(50)
	if s.Value() != 0 {
		t.Errorf("penalty should clamp at 0, got %d", s.Value())
	}

	if !s.AwardCompletion(100) {
		t.Error("first completion bonus should be awarded")
	}
	if s.AwardCompletion(100) {
		t.Error("second completion bonus should be refused")
	}
	if s.Value() != 100 {
		t.Errorf("Value() = %d, expected 100", s.Value())
	}

	s.Reset()
	if s.Value() != 0 || !s.AwardCompletion(1) {
		t.Error("Reset should clear value and completion flag")
	}
}

func TestSessionClock(t *testing.T) {
	var c SessionClock
	c.Start(5)
	if c.Advance(2) || c.Advance(2) {
		t.Fatal("clock expired early")
	}
	if !c.Advance(2) {
		t.Fatal("clock should expire once elapsed reaches the limit")
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining() = %v, expected 0", c.Remaining())
	}

	c.Start(0)
	if c.Advance(1e6) {
		t.Error("untimed clock must never expire")
	}
	c.Advance(-3)
	if c.Elapsed() != 1e6 {
		t.Error("negative dt must not move the clock")
	}
}

func TestRampLevel(t *testing.T) {
	r := Ramp{Initial: 0.2, MaxAt: 100, Progression: ProgressScore, SpeedScale: 1}

	tests := []struct {
		score    int
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := r.Level(tc.score, 0); got < tc.expected-1e-9 || got > tc.expected+1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tc.score, got, tc.expected)
		}
	}

	if got := r.Speed(10, 100, 0); got != 20 {
		t.Errorf("Speed at max = %v, expected 20", got)
	}

	timed := Ramp{MaxAt: 60, Progression: ProgressTime}
	if got := timed.Level(0, 30); got != 0.5 {
		t.Errorf("time ramp at 30s = %v, expected 0.5", got)
	}
	if got := (Ramp{Initial: 0.4, Progression: ProgressNone}).Level(999, 999); got != 0.4 {
		t.Errorf("fixed ramp = %v, expected 0.4", got)
	}
}
