package core

// Score accumulates points under the launcher-wide policy: rewards add,
// penalties clamp at zero and the completion bonus lands once.
type Score struct {
	value     int
	completed bool
}

// Value returns the current points.
func (s *Score) Value() int {
	return s.value
}

// Add awards n points. Non-positive n is ignored.
func (s *Score) Add(n int) {
	if n > 0 {
		s.value += n
	}
}

// Penalize removes n points, never going below zero.
func (s *Score) Penalize(n int) {
	if n <= 0 {
		return
	}
	s.value = max(0, s.value-n)
}

// AwardCompletion adds the completion bonus. It returns false if a bonus
// was already awarded.
func (s *Score) AwardCompletion(n int) bool {
	if s.completed {
		return false
	}
	s.completed = true
	s.Add(n)
	return true
}

// Reset zeroes the score.
func (s *Score) Reset() {
	*s = Score{}
}

// Scoring holds the per-game Speedrun bonus.
type Scoring struct {
	SpeedrunThreshold float64 // seconds; 0 disables the bonus
	SpeedrunBonus     int
}
