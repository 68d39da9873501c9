package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/config"
	"github.com/vovakirdan/cli-games/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxSessions int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own menu and game session. The SSH user name
is the player name, and all players share one scoreboard.

Host key handling:
  - Uses --host-key, or ssh.host_key from the settings file
  - Generates the key on first start if the file does not exist

Metrics:
  --metrics serves Prometheus metrics at http://<addr>/metrics

Examples:
  arcade serve                         # Listen on the configured address
  arcade serve --ssh :2222             # Listen on port 2222
  arcade serve --host-key ./host_key   # Use a specific host key
  arcade serve --metrics :9090         # Also expose metrics

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (host:port)")
	f.StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	f.DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Disconnect idle sessions after this long")
	f.IntVar(&flagMaxSessions, "max-sessions", -1, "Concurrent player limit (0 = unlimited)")
	f.StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(setup{needStore: true, runtimeMetrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	sshCfg := a.settings.SSH
	addr := sshCfg.Address()
	if flagSSHAddr != "" {
		addr = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = flagIdleTimeout
	}
	if flagMaxSessions >= 0 {
		sshCfg.MaxSessions = flagMaxSessions
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: config.ExpandHome(sshCfg.HostKeyPath),
		IdleTimeout: sshCfg.IdleTimeout,
		MaxSessions: sshCfg.MaxSessions,
		FPS:         a.settings.FPS,
		Launcher:    a.launcher,
		Scores:      a.scores(),
		Options:     a.options,
		Logger:      a.logger,
		Observer:    a.metrics,
	})
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsAddr := flagMetricsAddr
	if metricsAddr == "" && a.settings.Metrics.Enabled {
		metricsAddr = a.settings.Metrics.Addr
	}
	if metricsAddr != "" {
		stopMetrics := serveMetrics(ctx, a, metricsAddr)
		defer stopMetrics()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving the arcade on %s (Ctrl+C to stop)\n", addr)
	return server.ListenAndServe(ctx)
}

// serveMetrics exposes the collector over HTTP until the returned func
// is called.
func serveMetrics(ctx context.Context, a *app, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		a.logger.Info("serving metrics", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "err", err)
		}
	}()

	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}
}
