package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/launcher"
)

// ConnectionObserver is told about SSH sessions coming and going.
type ConnectionObserver interface {
	ConnectionOpened()
	ConnectionClosed()
	ConnectionRejected()
}

type nopConnections struct{}

func (nopConnections) ConnectionOpened()   {}
func (nopConnections) ConnectionClosed()   {}
func (nopConnections) ConnectionRejected() {}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file. Wish generates one
	// there on first start.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxSessions caps concurrent players; 0 means unlimited.
	MaxSessions int

	FPS      int
	Launcher *launcher.Launcher
	Scores   ScoreSource
	Options  func(gameID string) core.Options
	Logger   *log.Logger
	Observer ConnectionObserver
}

// SSHServer wraps a Wish SSH server for the arcade. Every connection gets
// its own Model and Surface on the shared launcher, so players never share
// a session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
	active atomic.Int32
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Launcher == nil {
		return nil, errors.New("tui: ssh server needs a launcher")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopConnections{}
	}

	srv := &SSHServer{
		config: cfg,
		logger: cfg.Logger.WithPrefix("ssh"),
	}

	hostKeyDir := filepath.Dir(cfg.HostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	// Middleware runs last to first: capacity is checked before the PTY
	// check and the program start.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
			srv.capacityMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates an arcade model for each SSH session. The session's
// context bounds the games it plays, so a dropped connection quits them.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	model := NewModel(sess.Context(), AppConfig{
		Launcher: s.config.Launcher,
		Scores:   s.config.Scores,
		Player:   sess.User(),
		FPS:      s.config.FPS,
		Options:  s.config.Options,
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second))
	}
}

// capacityMiddleware turns players away once MaxSessions are connected.
func (s *SSHServer) capacityMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.active.Add(1)
		defer s.active.Add(-1)
		if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
			s.config.Observer.ConnectionRejected()
			s.logger.Warn("server full", "user", sess.User(), "limit", limit)
			wish.Fatalln(sess, "The arcade is full right now. Please try again later.")
			return
		}
		s.config.Observer.ConnectionOpened()
		defer s.config.Observer.ConnectionClosed()
		next(sess)
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Active returns the number of connected sessions.
func (s *SSHServer) Active() int {
	return int(s.active.Load())
}
