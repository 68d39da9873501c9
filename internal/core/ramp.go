package core

// Progression selects what drives a difficulty ramp.
type Progression string

const (
	ProgressScore Progression = "score"
	ProgressTime  Progression = "time"
	ProgressNone  Progression = "none"
)

// Ramp interpolates difficulty from Initial to 1.0 as score or elapsed time
// approaches MaxAt.
type Ramp struct {
	Initial     float64 // 0.0 easy .. 1.0 hard
	MaxAt       float64 // score or seconds at which the ramp tops out
	Progression Progression
	SpeedScale  float64 // extra speed multiplier at level 1.0
}

// Level returns the current difficulty in [Initial, 1].
func (r Ramp) Level(score int, elapsed float64) float64 {
	initial := ClampF(r.Initial, 0, 1)
	var progress float64
	maxAt := r.MaxAt
	if maxAt <= 0 {
		maxAt = 1
	}
	switch r.Progression {
	case ProgressScore:
		progress = float64(score) / maxAt
	case ProgressTime:
		progress = elapsed / maxAt
	default:
		return initial
	}
	progress = ClampF(progress, 0, 1)
	return initial + progress*(1-initial)
}

// Speed scales base by the current level.
func (r Ramp) Speed(base float64, score int, elapsed float64) float64 {
	return base * (1 + r.Level(score, elapsed)*r.SpeedScale)
}
