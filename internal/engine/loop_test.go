package engine

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cli-games/internal/core"
)

type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Sleep(_ context.Context, d time.Duration) {
	c.now = c.now.Add(d)
}

// scriptSurface replays keys by frame index. presentCost advances the
// clock on every Present to simulate a slow terminal.
type scriptSurface struct {
	*core.Screen
	clock       *manualClock
	keys        map[int]core.InputEvent
	polls       int
	presents    int
	presentCost time.Duration
}

func newScriptSurface(clock *manualClock, keys map[int]core.InputEvent) *scriptSurface {
	return &scriptSurface{Screen: core.NewScreen(40, 20), clock: clock, keys: keys}
}

func (s *scriptSurface) PollKey() core.InputEvent {
	ev, ok := s.keys[s.polls]
	s.polls++
	if !ok {
		return core.NoInput
	}
	return ev
}

func (s *scriptSurface) Present() {
	s.presents++
	s.clock.now = s.clock.now.Add(s.presentCost)
}

// scripted completes with a win after target updates and can panic at a
// chosen stage.
type scripted struct {
	core.Base
	desc      core.Descriptor
	target    int
	dts       []float64
	finalized int
	panicAt   string
	intervals []time.Duration
}

func newScripted(target int) *scripted {
	return &scripted{
		target: target,
		desc: core.Descriptor{
			ID: "scripted", Name: "Scripted", MinPlayers: 1, MaxPlayers: 1,
			Modes: []core.Mode{core.ModeNormal, core.ModeTimeAttack},
		},
	}
}

func (s *scripted) Initialize(mode core.Mode, opts core.Options) error {
	if s.panicAt == "initialize" {
		panic("boom")
	}
	return s.Begin(s.desc, mode, core.LimitFor(mode, opts, 60, 30), core.Scoring{})
}

func (s *scripted) HandleInput(ev core.InputEvent) {
	if s.Control(ev) {
		return
	}
	if ev.Action == core.ActionFire {
		s.Score.Add(5)
	}
}

func (s *scripted) Update(dt float64) {
	if s.panicAt == "update" {
		panic("update exploded")
	}
	if !s.Advance(dt) {
		return
	}
	s.dts = append(s.dts, dt)
	if len(s.dts) >= s.target {
		s.Score.AwardCompletion(100)
		s.Complete(core.OutcomeWin)
	}
}

func (s *scripted) Render(dst core.Canvas) {
	if s.panicAt == "render" {
		panic("render exploded")
	}
	core.DrawText(dst, 0, 0, "scripted", core.Plain)
}

func (s *scripted) Finalize() int {
	s.finalized++
	return s.Base.Finalize()
}

func (s *scripted) StepInterval() time.Duration {
	if len(s.intervals) == 0 {
		return 100 * time.Millisecond
	}
	return s.intervals[min(len(s.dts), len(s.intervals)-1)]
}

func newLoop(clock *manualClock, obs Observer) *Loop {
	return New(Config{Clock: clock, Logger: log.New(io.Discard), Observer: obs})
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRunCompletesAndReportsOnce(t *testing.T) {
	clock := newManualClock()
	surf := newScriptSurface(clock, map[int]core.InputEvent{1: core.Press(core.ActionFire)})
	sess := newScripted(3)
	obs := &countingObserver{}

	res, err := newLoop(clock, obs).Run(context.Background(), RunSpec{
		GameID: "scripted", SessionID: "sid-1", PlayerID: "alice",
		Session: sess, Mode: core.ModeNormal, Surface: surf,
		Timing: core.FixedTiming(50),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if sess.finalized != 1 {
		t.Errorf("Finalize called %d times, expected 1", sess.finalized)
	}
	if res.Report == nil {
		t.Fatal("expected a report")
	}
	r := res.Report
	if r.SessionID != "sid-1" || r.PlayerID != "alice" || r.GameID != "scripted" || r.Mode != core.ModeNormal {
		t.Errorf("report identity = %+v", r)
	}
	if r.Score != 105 || r.Outcome != core.OutcomeWin {
		t.Errorf("report score/outcome = %d/%v, expected 105/win", r.Score, r.Outcome)
	}
	if !near(r.Elapsed, 0.06) {
		t.Errorf("Elapsed = %v, expected 0.06", r.Elapsed)
	}
	if obs.started != 1 || obs.ended != 1 || obs.faulted != 0 {
		t.Errorf("observer = %+v", obs)
	}
	if res.Frames != surf.presents {
		t.Errorf("Frames = %d, presents = %d", res.Frames, surf.presents)
	}
}

func TestPauseFreezesElapsed(t *testing.T) {
	clock := newManualClock()
	surf := newScriptSurface(clock, map[int]core.InputEvent{
		1: core.Press(core.ActionPause),
		4: core.Press(core.ActionPause),
	})
	sess := newScripted(5)

	res, err := newLoop(clock, nil).Run(context.Background(), RunSpec{
		GameID: "scripted", Session: sess, Mode: core.ModeNormal, Surface: surf,
		Timing: core.FixedTiming(50),
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, dt := range sess.dts {
		if !near(dt, 0.02) {
			t.Errorf("update %d dt = %v, expected one frame (0.02)", i, dt)
		}
	}
	if !near(res.Status.Elapsed, 0.1) {
		t.Errorf("Elapsed = %v, expected 0.1 (paused frames excluded)", res.Status.Elapsed)
	}
	// frame 0 has no delta, frames 1..3 are paused
	if res.Frames != 9 {
		t.Errorf("Frames = %d, expected 9", res.Frames)
	}
}

func TestDeltaIsCapped(t *testing.T) {
	clock := newManualClock()
	surf := newScriptSurface(clock, nil)
	surf.presentCost = 2 * time.Second
	sess := newScripted(2)

	if _, err := newLoop(clock, nil).Run(context.Background(), RunSpec{
		GameID: "scripted", Session: sess, Mode: core.ModeNormal, Surface: surf,
		Timing: core.FixedTiming(60),
	}); err != nil {
		t.Fatal(err)
	}
	for _, dt := range sess.dts {
		if !near(dt, MaxFrameDelta.Seconds()) {
			t.Errorf("dt = %v, expected cap %v", dt, MaxFrameDelta.Seconds())
		}
	}
}

func TestSteppedTimingAccumulates(t *testing.T) {
	clock := newManualClock()
	surf := newScriptSurface(clock, nil)
	sess := newScripted(3)
	sess.intervals = []time.Duration{100 * time.Millisecond, 50 * time.Millisecond}

	res, err := newLoop(clock, nil).Run(context.Background(), RunSpec{
		GameID: "scripted", Session: sess, Mode: core.ModeNormal, Surface: surf,
		Timing: core.SteppedTiming(time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{0.1, 0.05, 0.05}
	if len(sess.dts) != len(expected) {
		t.Fatalf("updates = %v, expected %v", sess.dts, expected)
	}
	for i := range expected {
		if !near(sess.dts[i], expected[i]) {
			t.Errorf("update %d dt = %v, expected %v", i, sess.dts[i], expected[i])
		}
	}
	if res.Updates != 3 {
		t.Errorf("Updates = %d, expected 3", res.Updates)
	}
}

func TestCancelledContextQuits(t *testing.T) {
	clock := newManualClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := newScripted(100)

	res, err := newLoop(clock, nil).Run(ctx, RunSpec{
		GameID: "scripted", Session: sess, Mode: core.ModeNormal,
		Surface: newScriptSurface(clock, nil), Timing: core.FixedTiming(60),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Report == nil || res.Report.Outcome != core.OutcomeQuit {
		t.Fatalf("report = %+v, expected quit", res.Report)
	}
	if res.Frames != 1 || sess.finalized != 1 {
		t.Errorf("frames = %d finalized = %d", res.Frames, sess.finalized)
	}
}

func TestInboxEventsReachSession(t *testing.T) {
	clock := newManualClock()
	inbox := NewInbox(4)
	inbox.Send(core.Press(core.ActionFire))
	inbox.Send(core.InputEvent{Action: core.ActionQuit, Player: core.Player2})
	sess := newScripted(100)

	res, err := newLoop(clock, nil).Run(context.Background(), RunSpec{
		GameID: "scripted", Session: sess, Mode: core.ModeNormal,
		Surface: newScriptSurface(clock, nil), Timing: core.FixedTiming(60), Inbox: inbox,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.Score != 5 || res.Report.Outcome != core.OutcomeQuit {
		t.Errorf("report = %+v", res.Report)
	}
}

func TestFaultIsIsolated(t *testing.T) {
	for _, stage := range []string{"initialize", "update", "render"} {
		t.Run(stage, func(t *testing.T) {
			clock := newManualClock()
			sess := newScripted(3)
			sess.panicAt = stage
			obs := &countingObserver{}

			res, err := newLoop(clock, obs).Run(context.Background(), RunSpec{
				GameID: "scripted", Session: sess, Mode: core.ModeNormal,
				Surface: newScriptSurface(clock, nil), Timing: core.FixedTiming(50),
			})
			var fault *core.SessionFault
			if !errors.As(err, &fault) {
				t.Fatalf("err = %v, expected *core.SessionFault", err)
			}
			if fault.Stage != stage || fault.GameID != "scripted" || len(fault.Stack) == 0 {
				t.Errorf("fault = %+v", fault)
			}
			if res.Report != nil || sess.finalized != 0 {
				t.Error("a faulted session must not be finalized or reported")
			}
			if obs.faulted != 1 || obs.ended != 0 {
				t.Errorf("observer = %+v", obs)
			}
		})
	}
}

func TestInitializeErrorPropagates(t *testing.T) {
	clock := newManualClock()
	_, err := newLoop(clock, nil).Run(context.Background(), RunSpec{
		GameID: "scripted", Session: newScripted(1), Mode: core.ModeMultiplayer,
		Surface: newScriptSurface(clock, nil),
	})
	if !errors.Is(err, core.ErrUnsupportedMode) {
		t.Errorf("err = %v, expected ErrUnsupportedMode", err)
	}
}

func TestInboxDropsOldest(t *testing.T) {
	in := NewInbox(2)
	in.Send(core.Press(core.ActionUp))
	in.Send(core.Press(core.ActionDown))
	in.Send(core.Press(core.ActionLeft))

	got := in.Drain()
	if len(got) != 2 || got[0].Action != core.ActionDown || got[1].Action != core.ActionLeft {
		t.Errorf("Drain() = %v", got)
	}
	if len(in.Drain()) != 0 {
		t.Error("second Drain should be empty")
	}

	in.Close()
	in.Close()
	if in.Send(core.Press(core.ActionFire)) {
		t.Error("Send after Close should fail")
	}
	var nilInbox *Inbox
	if nilInbox.Drain() != nil {
		t.Error("nil inbox should drain nothing")
	}
}

type countingObserver struct {
	started, frames, ended, faulted int
}

func (o *countingObserver) SessionStarted(string, core.Mode)     { o.started++ }
func (o *countingObserver) FrameRendered(string, time.Duration) { o.frames++ }
func (o *countingObserver) SessionEnded(core.ScoreReport)       { o.ended++ }
func (o *countingObserver) SessionFaulted(string, string)       { o.faulted++ }
