// Package launcher ties the registry, the loop and the score sink
// together: it lists games, runs one session per surface and records the
// result.
package launcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/engine"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// submitTimeout bounds how long a finished session waits on the sink.
const submitTimeout = 5 * time.Second

// Releaser is implemented by surfaces that need resetting between
// sessions, such as dropping keys typed after the game ended.
type Releaser interface {
	Release()
}

// Config configures a Launcher.
type Config struct {
	Registry *registry.Registry
	Loop     *engine.Loop
	Sink     core.ScoreSink // optional
	Logger   *log.Logger
	Player   string // default player id
}

// Launcher runs sessions. Surfaces are used as map keys, so they must be
// comparable (pointer types are).
type Launcher struct {
	registry *registry.Registry
	loop     *engine.Loop
	sink     core.ScoreSink
	logger   *log.Logger
	player   string

	mu   sync.Mutex
	busy map[core.Surface]string
}

// New creates a launcher.
func New(cfg Config) *Launcher {
	l := &Launcher{
		registry: cfg.Registry,
		loop:     cfg.Loop,
		sink:     cfg.Sink,
		logger:   cfg.Logger,
		player:   cfg.Player,
		busy:     make(map[core.Surface]string),
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	if l.loop == nil {
		l.loop = engine.New(engine.Config{Logger: l.logger})
	}
	if l.player == "" {
		l.player = "player"
	}
	return l
}

// LaunchRequest names the game, mode and surface for one session.
type LaunchRequest struct {
	GameID   string
	Mode     core.Mode
	Surface  core.Surface
	Options  core.Options // non-zero fields override the plugin defaults
	PlayerID string
	Inbox    *engine.Inbox
}

// LaunchResult is the outcome of a completed session.
type LaunchResult struct {
	Report       core.ScoreReport
	Unlocked     []string
	Outcome      core.Outcome
	NewHighScore bool
}

// List returns the enabled games.
func (l *Launcher) List() []registry.Listing {
	return l.registry.List()
}

// Registry exposes the launcher's registry.
func (l *Launcher) Registry() *registry.Registry {
	return l.registry
}

// Launch runs one session to completion. Registry errors (unknown,
// disabled, unsupported mode) are returned before the surface is touched.
// A sink failure is logged and does not fail the launch.
func (l *Launcher) Launch(ctx context.Context, req LaunchRequest) (LaunchResult, error) {
	if req.Surface == nil {
		return LaunchResult{}, fmt.Errorf("launcher: no surface for %s", req.GameID)
	}
	session, plugin, err := l.registry.CreateSession(req.GameID, req.Mode)
	if err != nil {
		return LaunchResult{}, err
	}

	if err := l.acquire(req.Surface, req.GameID); err != nil {
		return LaunchResult{}, err
	}
	defer l.release(req.Surface)

	opts := mergeOptions(plugin.Defaults, req.Options)
	player := req.PlayerID
	if player == "" {
		player = opts.Player
	}
	if player == "" {
		player = l.player
	}
	opts.Player = player
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	sessionID := uuid.NewString()
	logger := l.logger.With("game", req.GameID, "mode", req.Mode, "session", sessionID)
	logger.Info("launching session", "player", player)

	res, err := l.loop.Run(ctx, engine.RunSpec{
		GameID:    req.GameID,
		SessionID: sessionID,
		PlayerID:  player,
		Session:   session,
		Mode:      req.Mode,
		Options:   opts,
		Surface:   req.Surface,
		Timing:    plugin.Timing,
		Inbox:     req.Inbox,
	})
	if err != nil {
		logger.Error("session failed", "err", err)
		return LaunchResult{}, err
	}

	report := *res.Report
	out := LaunchResult{
		Report:       report,
		Outcome:      report.Outcome,
		NewHighScore: l.registry.RecordHighScore(req.GameID, report.Score),
	}

	if l.sink != nil {
		// The caller's ctx may already be cancelled (that is how a quit
		// arrives), but a finished session is still worth recording.
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submitTimeout)
		unlocked, err := l.sink.Submit(sctx, report)
		cancel()
		if err != nil {
			logger.Error("cannot record score", "err", err)
		}
		out.Unlocked = unlocked
	}

	logger.Info("session complete", "outcome", report.Outcome, "score", report.Score, "unlocked", len(out.Unlocked))
	return out, nil
}

// Busy reports whether the surface hosts a running session.
func (l *Launcher) Busy(s core.Surface) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.busy[s]
	return ok
}

func (l *Launcher) acquire(s core.Surface, gameID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if running, ok := l.busy[s]; ok {
		return fmt.Errorf("launcher: %w: %s is running", core.ErrSurfaceBusy, running)
	}
	l.busy[s] = gameID
	return nil
}

func (l *Launcher) release(s core.Surface) {
	if r, ok := s.(Releaser); ok {
		r.Release()
	}
	l.mu.Lock()
	delete(l.busy, s)
	l.mu.Unlock()
}

// mergeOptions overlays the non-zero fields of o on defaults.
func mergeOptions(defaults, o core.Options) core.Options {
	out := defaults
	if o.Rows > 0 {
		out.Rows = o.Rows
	}
	if o.Cols > 0 {
		out.Cols = o.Cols
	}
	if o.Seed != 0 {
		out.Seed = o.Seed
	}
	if o.Difficulty > 0 {
		out.Difficulty = o.Difficulty
	}
	if o.TimeLimit > 0 {
		out.TimeLimit = o.TimeLimit
	}
	if o.Player != "" {
		out.Player = o.Player
	}
	return out
}
