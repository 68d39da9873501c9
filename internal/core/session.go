package core

import "time"

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseRunning
	PhasePaused
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Outcome says how a completed session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeTimeUp
	OutcomeQuit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeTimeUp:
		return "time_up"
	case OutcomeQuit:
		return "quit"
	default:
		return "none"
	}
}

// Options are passed to Initialize. Zero values mean "game default".
type Options struct {
	Rows, Cols int   // area the surface offers
	Seed       int64 // RNG seed for deterministic worlds
	Difficulty int   // 1 (easy) .. 4
	TimeLimit  float64
	Player     string
}

// Status is a read-only snapshot of a session.
type Status struct {
	Phase     Phase
	Outcome   Outcome
	Mode      Mode
	Score     int
	Elapsed   float64
	TimeLimit float64 // 0 when the session is untimed
	Remaining float64
	Extra     map[string]any
}

// Session is the contract every game implements. All methods are called
// from the loop goroutine only.
type Session interface {
	// Initialize builds the world for mode. It fails with ErrUnsupportedMode
	// when the game does not declare the mode.
	Initialize(mode Mode, opts Options) error
	// HandleInput applies one polled event. NoInput is a no-op.
	HandleInput(ev InputEvent)
	// Update advances the simulation by dt seconds while running.
	Update(dt float64)
	// Render draws the current state. It must not change state.
	Render(dst Canvas)
	// Finalize returns the final score with all bonuses applied.
	Finalize() int
	// Status returns a snapshot for the loop and UI.
	Status() Status
}

// Stepper is implemented by sessions whose update cadence changes while
// playing, such as a snake that speeds up.
type Stepper interface {
	StepInterval() time.Duration
}

// TimingKind selects the loop discipline.
type TimingKind int

const (
	TimingFixed TimingKind = iota
	TimingStepped
)

// Timing declares how the loop should drive a game.
type Timing struct {
	Kind  TimingKind
	Frame time.Duration // render/poll interval
	Step  time.Duration // stepped games: simulation interval
}

// DefaultPollInterval is the sleep between ticks of a stepped game.
const DefaultPollInterval = 10 * time.Millisecond

// FixedTiming returns a fixed-rate timing at fps frames per second.
func FixedTiming(fps int) Timing {
	if fps <= 0 {
		fps = 60
	}
	return Timing{Kind: TimingFixed, Frame: time.Second / time.Duration(fps)}
}

// SteppedTiming returns a stepped timing with the given simulation interval.
func SteppedTiming(step time.Duration) Timing {
	return Timing{Kind: TimingStepped, Frame: DefaultPollInterval, Step: step}
}
