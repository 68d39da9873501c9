package core

import (
	"fmt"
	"maps"
)

// Base carries the state every session shares: phase, outcome, score and
// clock. Games embed it and get Finalize and Status for free.
type Base struct {
	Score Score

	mode      Mode
	rules     Rules
	scoring   Scoring
	phase     Phase
	outcome   Outcome
	clock     SessionClock
	stats     map[string]any
	finalized bool
	final     int
}

// Begin validates the mode against d and resets the shared state for a new
// run. limit is in seconds; 0 means untimed.
func (b *Base) Begin(d Descriptor, mode Mode, limit float64, scoring Scoring) error {
	if !d.Supports(mode) {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedMode, d.ID, mode)
	}
	*b = Base{
		mode:    mode,
		rules:   RulesFor(mode),
		scoring: scoring,
		phase:   PhaseRunning,
		stats:   make(map[string]any),
	}
	b.clock.Start(limit)
	return nil
}

// Mode returns the active mode.
func (b *Base) Mode() Mode { return b.mode }

// Rules returns the active mode's rules.
func (b *Base) Rules() Rules { return b.rules }

// Phase returns the lifecycle phase.
func (b *Base) Phase() Phase { return b.phase }

// Running reports whether the world should advance.
func (b *Base) Running() bool { return b.phase == PhaseRunning }

// Done reports whether the session has completed.
func (b *Base) Done() bool { return b.phase == PhaseComplete }

// Paused reports whether the session is paused.
func (b *Base) Paused() bool { return b.phase == PhasePaused }

// Outcome returns how the session ended, OutcomeNone while playing.
func (b *Base) Outcome() Outcome { return b.outcome }

// Elapsed returns simulated seconds.
func (b *Base) Elapsed() float64 { return b.clock.Elapsed() }

// TimeLimit returns the limit in seconds, 0 when untimed.
func (b *Base) TimeLimit() float64 { return b.clock.Limit() }

// Remaining returns seconds left on the clock, clamped at zero.
func (b *Base) Remaining() float64 { return b.clock.Remaining() }

// Control handles the inputs that mean the same thing in every game. It
// returns true when the event is consumed and the game should not look at
// it: NoInput, Pause, Quit and anything arriving after completion.
func (b *Base) Control(ev InputEvent) bool {
	if b.phase == PhaseComplete || b.phase == PhaseInitializing {
		return true
	}
	switch ev.Action {
	case ActionNone:
		return true
	case ActionPause:
		if b.phase == PhaseRunning {
			b.phase = PhasePaused
		} else {
			b.phase = PhaseRunning
		}
		return true
	case ActionQuit:
		b.Complete(OutcomeQuit)
		return true
	}
	return b.phase == PhasePaused
}

// Advance moves the clock by dt when running. It returns false when the
// world must not advance: not running, dt <= 0, or the time limit was hit
// during this call (the session is then complete with OutcomeTimeUp).
func (b *Base) Advance(dt float64) bool {
	if b.phase != PhaseRunning || dt <= 0 {
		return false
	}
	if b.clock.Advance(dt) {
		b.Complete(OutcomeTimeUp)
		return false
	}
	return true
}

// Complete ends the session. The first outcome wins.
func (b *Base) Complete(o Outcome) {
	if b.phase == PhaseComplete {
		return
	}
	b.phase = PhaseComplete
	b.outcome = o
}

// SetStat records a game statistic reported with the score.
func (b *Base) SetStat(key string, value any) {
	if b.stats == nil {
		b.stats = make(map[string]any)
	}
	b.stats[key] = value
}

// Finalize computes the final score once and returns the cached value on
// later calls. A session that never completed is closed as quit.
func (b *Base) Finalize() int {
	if b.finalized {
		return b.final
	}
	b.Complete(OutcomeQuit)

	total := b.Score.Value()
	if b.mode == ModeSpeedrun && b.outcome == OutcomeWin &&
		b.scoring.SpeedrunThreshold > 0 && b.clock.Elapsed() < b.scoring.SpeedrunThreshold {
		total += b.scoring.SpeedrunBonus
	}
	if m := b.rules.ScoreMultiplier; m > 0 && m != 1 {
		total = int(float64(total) * m)
	}

	b.final = max(0, total)
	b.finalized = true
	return b.final
}

// Status returns a snapshot of the shared state.
func (b *Base) Status() Status {
	score := b.Score.Value()
	if b.finalized {
		score = b.final
	}
	return Status{
		Phase:     b.phase,
		Outcome:   b.outcome,
		Mode:      b.mode,
		Score:     score,
		Elapsed:   b.clock.Elapsed(),
		TimeLimit: b.clock.Limit(),
		Remaining: b.clock.Remaining(),
		Extra:     maps.Clone(b.stats),
	}
}
