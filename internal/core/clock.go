package core

// SessionClock tracks simulated time for one session. Elapsed only moves
// when Advance is called, so pausing the loop freezes it.
type SessionClock struct {
	elapsed float64
	limit   float64
}

// Start resets the clock with an optional limit in seconds (0 = none).
func (c *SessionClock) Start(limit float64) {
	c.elapsed = 0
	c.limit = max(0, limit)
}

// Advance adds dt seconds and reports whether the limit has been reached.
// Non-positive dt leaves the clock untouched.
func (c *SessionClock) Advance(dt float64) bool {
	if dt > 0 {
		c.elapsed += dt
	}
	return c.Expired()
}

// Expired reports whether a limit is set and has been reached.
func (c *SessionClock) Expired() bool {
	return c.limit > 0 && c.elapsed >= c.limit
}

// Elapsed returns simulated seconds since Start.
func (c *SessionClock) Elapsed() float64 {
	return c.elapsed
}

// Limit returns the limit in seconds, 0 when untimed.
func (c *SessionClock) Limit() float64 {
	return c.limit
}

// Remaining returns the seconds left, clamped at zero. Untimed clocks
// report zero.
func (c *SessionClock) Remaining() float64 {
	if c.limit <= 0 {
		return 0
	}
	return max(0, c.limit-c.elapsed)
}

// LimitFor picks the time limit for a session. Untimed modes get none; an
// explicit option overrides the game's per-mode defaults.
func LimitFor(mode Mode, opts Options, timeAttack, speedrun float64) float64 {
	if !RulesFor(mode).Timed {
		return 0
	}
	if opts.TimeLimit > 0 {
		return opts.TimeLimit
	}
	if mode == ModeSpeedrun {
		return speedrun
	}
	return timeAttack
}
