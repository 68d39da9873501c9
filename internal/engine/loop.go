// Package engine drives a game session: it polls input, advances the
// simulation under a fixed or stepped timing discipline, renders each
// frame and produces the score report once the session completes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cli-games/internal/core"
)

// MaxFrameDelta caps the time fed into one update so a stalled terminal
// cannot make a game skip collision checks.
const MaxFrameDelta = 250 * time.Millisecond

// Observer receives loop lifecycle events. Implementations must be cheap;
// they run on the loop goroutine.
type Observer interface {
	SessionStarted(gameID string, mode core.Mode)
	FrameRendered(gameID string, took time.Duration)
	SessionEnded(report core.ScoreReport)
	SessionFaulted(gameID, stage string)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(string, core.Mode)     {}
func (nopObserver) FrameRendered(string, time.Duration) {}
func (nopObserver) SessionEnded(core.ScoreReport)       {}
func (nopObserver) SessionFaulted(string, string)       {}

// Config configures a Loop. Zero values select the defaults.
type Config struct {
	Clock    Clock
	Logger   *log.Logger
	Observer Observer
}

// Loop runs sessions. One Loop may run many sessions, one per goroutine.
type Loop struct {
	clock    Clock
	logger   *log.Logger
	observer Observer
}

// New creates a loop.
func New(cfg Config) *Loop {
	l := &Loop{clock: cfg.Clock, logger: cfg.Logger, observer: cfg.Observer}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	if l.observer == nil {
		l.observer = nopObserver{}
	}
	return l
}

// RunSpec describes one session run.
type RunSpec struct {
	GameID    string
	SessionID string
	PlayerID  string
	Session   core.Session
	Mode      core.Mode
	Options   core.Options
	Surface   core.Surface
	Timing    core.Timing
	Inbox     *Inbox // optional extra input source
}

// Result is what a run produced. Report is set whenever the session
// completed; it is nil only when Run returns an error.
type Result struct {
	Report  *core.ScoreReport
	Status  core.Status
	Frames  int
	Updates int
}

// Run drives spec.Session until it completes, a quit is requested or ctx
// is done. A cancelled ctx is delivered as a Quit event at the next tick
// boundary. A panic in game code is returned as *core.SessionFault and no
// report is produced.
func (l *Loop) Run(ctx context.Context, spec RunSpec) (res Result, err error) {
	if spec.Session == nil || spec.Surface == nil {
		return Result{}, errors.New("engine: run needs a session and a surface")
	}
	logger := l.logger.With("game", spec.GameID, "mode", spec.Mode)

	stage := "initialize"
	defer func() {
		if v := recover(); v != nil {
			fault := &core.SessionFault{GameID: spec.GameID, Stage: stage, Value: v, Stack: debug.Stack()}
			logger.Error("session fault", "stage", stage, "panic", v)
			l.observer.SessionFaulted(spec.GameID, stage)
			res, err = Result{}, fault
		}
	}()

	opts := spec.Options
	if opts.Rows <= 0 || opts.Cols <= 0 {
		opts.Rows, opts.Cols = spec.Surface.Dimensions()
	}
	if err := spec.Session.Initialize(spec.Mode, opts); err != nil {
		return Result{}, fmt.Errorf("engine: cannot initialize %s: %w", spec.GameID, err)
	}

	timing := spec.Timing
	if timing.Frame <= 0 {
		timing = core.FixedTiming(60)
	}
	stepper, _ := spec.Session.(core.Stepper)

	logger.Debug("session started", "timing", timing.Kind, "frame", timing.Frame)
	l.observer.SessionStarted(spec.GameID, spec.Mode)

	var (
		last        = l.clock.Now()
		accumulated time.Duration
		quit        bool
		cancelled   bool
	)

	for {
		frameStart := l.clock.Now()

		stage = "input"
		if !cancelled && ctx.Err() != nil {
			cancelled, quit = true, true
			spec.Session.HandleInput(core.Press(core.ActionQuit))
		}
		for _, ev := range spec.Inbox.Drain() {
			quit = quit || ev.Action == core.ActionQuit
			spec.Session.HandleInput(ev)
		}
		if ev := spec.Surface.PollKey(); !ev.IsNone() {
			quit = quit || ev.Action == core.ActionQuit
			spec.Session.HandleInput(ev)
		}

		stage = "update"
		now := l.clock.Now()
		if spec.Session.Status().Phase == core.PhaseRunning {
			delta := min(now.Sub(last), MaxFrameDelta)
			switch timing.Kind {
			case core.TimingStepped:
				step := timing.Step
				if stepper != nil {
					step = stepper.StepInterval()
				}
				accumulated += delta
				if accumulated >= step {
					spec.Session.Update(accumulated.Seconds())
					accumulated = 0
					res.Updates++
				}
			default:
				if delta > 0 {
					spec.Session.Update(delta.Seconds())
					res.Updates++
				}
			}
		}
		// Paused wall time never reaches the simulation.
		last = now

		stage = "render"
		spec.Surface.Clear()
		spec.Session.Render(spec.Surface)
		spec.Surface.Present()
		res.Frames++
		l.observer.FrameRendered(spec.GameID, l.clock.Now().Sub(frameStart))

		if quit || spec.Session.Status().Phase == core.PhaseComplete {
			break
		}

		if wait := timing.Frame - l.clock.Now().Sub(frameStart); wait > 0 {
			l.clock.Sleep(ctx, wait)
		}
	}

	stage = "finalize"
	score := spec.Session.Finalize()
	status := spec.Session.Status()

	report := core.ScoreReport{
		SessionID: spec.SessionID,
		PlayerID:  spec.PlayerID,
		GameID:    spec.GameID,
		Mode:      spec.Mode,
		Score:     score,
		Outcome:   status.Outcome,
		Elapsed:   status.Elapsed,
		Timestamp: l.clock.Now().Unix(),
		Extra:     status.Extra,
	}
	res.Report = &report
	res.Status = status

	logger.Debug("session ended", "outcome", status.Outcome, "score", score, "elapsed", status.Elapsed)
	l.observer.SessionEnded(report)
	return res, nil
}
