package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/cli-games/internal/config"
	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/engine"
	"github.com/vovakirdan/cli-games/internal/games/builtin"
	"github.com/vovakirdan/cli-games/internal/launcher"
	"github.com/vovakirdan/cli-games/internal/metrics"
	"github.com/vovakirdan/cli-games/internal/platform/tui"
	"github.com/vovakirdan/cli-games/internal/registry"
	"github.com/vovakirdan/cli-games/internal/storage"
)

// setup selects what a command needs from the app.
type setup struct {
	logToFile      bool // the TUI owns the terminal
	needStore      bool // fail instead of playing without scores
	runtimeMetrics bool
}

// app is everything a command runs on: settings, the plugin catalogue,
// the score store and a launcher wired to all of them.
type app struct {
	settings config.Settings
	logger   *log.Logger
	registry *registry.Registry
	store    *storage.Store
	metrics  *metrics.Collector
	launcher *launcher.Launcher
	closers  []io.Closer
}

// loadSettings reads the settings file and applies the global flags.
func loadSettings() (config.Settings, error) {
	s, err := config.Load(flagConfig)
	if err != nil {
		return s, err
	}
	overrides := []struct {
		key, value string
		set        bool
	}{
		{"db_path", flagDBPath, flagDBPath != ""},
		{"fps", strconv.Itoa(flagFPS), flagFPS != 0},
		{"player", flagPlayer, flagPlayer != ""},
		{"log_level", flagLogLevel, flagLogLevel != ""},
	}
	for _, o := range overrides {
		if !o.set {
			continue
		}
		if err := s.Set(o.key, o.value); err != nil {
			return s, err
		}
	}
	return s, nil
}

// settingsPath is where config changes are saved.
func settingsPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.UserPath()
}

func newApp(opts setup) (*app, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	a := &app{settings: settings}

	if err := a.openLogger(opts.logToFile); err != nil {
		return nil, err
	}

	a.registry = registry.New(a.logger, catalogue(settings)...)
	a.registry.LoadAll()
	a.registry.SetDisabled(settings.DisabledPlugins)

	store, err := storage.Open(settings.DBPath)
	switch {
	case err != nil && opts.needStore:
		a.Close()
		return nil, fmt.Errorf("cannot open scores database: %w", err)
	case err != nil:
		a.logger.Warn("playing without a scores database", "path", settings.DBPath, "err", err)
	default:
		a.store = store
		a.closers = append(a.closers, store)
		if best, err := store.HighScores(); err != nil {
			a.logger.Warn("cannot read high scores", "err", err)
		} else {
			a.registry.SeedHighScores(best)
		}
	}

	a.metrics = metrics.New(opts.runtimeMetrics)
	lc := launcher.Config{
		Registry: a.registry,
		Loop:     engine.New(engine.Config{Logger: a.logger, Observer: a.metrics}),
		Logger:   a.logger,
		Player:   settings.Player,
	}
	if a.store != nil {
		lc.Sink = a.store
	}
	a.launcher = launcher.New(lc)
	return a, nil
}

// catalogue lists the plugin sources: built-ins first, then one manifest
// directory per configured path.
func catalogue(s config.Settings) []registry.Source {
	sources := []registry.Source{builtin.Source()}
	for _, dir := range s.PluginDirs {
		sources = append(sources, registry.ManifestDir(dir, builtin.Lookup))
	}
	return sources
}

// openLogger logs to stderr, or to arcade.log next to the settings file
// while a TUI owns the terminal.
func (a *app) openLogger(toFile bool) error {
	var w io.Writer = os.Stderr
	if toFile {
		path := filepath.Join(filepath.Dir(config.UserPath()), "arcade.log")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		w = f
	}
	a.logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           a.settings.Level(),
	})
	return nil
}

// options returns the launch options for a game: settings first, then
// the --seed flag.
func (a *app) options(gameID string) core.Options {
	opts := a.settings.OptionsFor(gameID)
	opts.Seed = flagSeed
	return opts
}

// scores returns the store as a scoreboard source, or nil without one.
func (a *app) scores() tui.ScoreSource {
	if a.store == nil {
		return nil
	}
	return a.store
}

// appConfig builds the TUI configuration for the local terminal.
func (a *app) appConfig(start *tui.Selection) tui.AppConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return tui.AppConfig{
		Launcher: a.launcher,
		Scores:   a.scores(),
		Player:   a.settings.Player,
		FPS:      a.settings.FPS,
		Options:  a.options,
		Start:    start,
		Width:    width,
		Height:   height,
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}
