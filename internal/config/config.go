// Package config loads the arcade settings from YAML, applies .env and
// environment overrides and maps difficulty presets onto game options.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cli-games/internal/core"
)

// ErrUnknownKey is returned by Get and Set for keys that name no setting.
var ErrUnknownKey = errors.New("config: unknown key")

// Settings is the full arcade configuration.
type Settings struct {
	Player          string                  `yaml:"player"`
	FPS             int                     `yaml:"fps"`
	DBPath          string                  `yaml:"db_path"`
	LogLevel        string                  `yaml:"log_level"`
	Difficulty      DifficultyPreset        `yaml:"difficulty"`
	PluginDirs      []string                `yaml:"plugin_dirs"`
	DisabledPlugins []string                `yaml:"disabled_plugins,omitempty"`
	SSH             SSHConfig               `yaml:"ssh"`
	Metrics         MetricsConfig           `yaml:"metrics"`
	Games           map[string]GameSettings `yaml:"games,omitempty"`
}

// SSHConfig configures `arcade serve`.
type SSHConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSessions int           `yaml:"max_sessions"`
}

// Address returns host:port.
func (c SSHConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// GameSettings are per-game overrides.
type GameSettings struct {
	Difficulty DifficultyPreset `yaml:"difficulty,omitempty"`
	TimeLimit  float64          `yaml:"time_limit,omitempty"` // seconds
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if s.FPS < 1 || s.FPS > 240 {
		return fmt.Errorf("config: fps %d out of range 1..240", s.FPS)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("config: unknown difficulty %q", s.Difficulty)
	}
	if s.SSH.Port < 0 || s.SSH.Port > 65535 {
		return fmt.Errorf("config: ssh.port %d out of range", s.SSH.Port)
	}
	for id, g := range s.Games {
		if g.Difficulty != "" && !g.Difficulty.Valid() {
			return fmt.Errorf("config: games.%s: unknown difficulty %q", id, g.Difficulty)
		}
		if g.TimeLimit < 0 {
			return fmt.Errorf("config: games.%s: negative time_limit", id)
		}
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// OptionsFor returns the launch options the settings imply for a game.
// Per-game overrides win over the global difficulty.
func (s Settings) OptionsFor(gameID string) core.Options {
	preset := s.Difficulty
	opts := core.Options{Player: s.Player}
	if g, ok := s.Games[gameID]; ok {
		if g.Difficulty != "" {
			preset = g.Difficulty
		}
		opts.TimeLimit = g.TimeLimit
	}
	opts.Difficulty = preset.Level()
	return opts
}

// field binds a dotted key to a settings value.
type field struct {
	get func(*Settings) string
	set func(*Settings, string) error
}

var fields = map[string]field{
	"player": {
		get: func(s *Settings) string { return s.Player },
		set: func(s *Settings, v string) error { s.Player = v; return nil },
	},
	"fps": {
		get: func(s *Settings) string { return strconv.Itoa(s.FPS) },
		set: func(s *Settings, v string) error { return setInt(&s.FPS, v) },
	},
	"db_path": {
		get: func(s *Settings) string { return s.DBPath },
		set: func(s *Settings, v string) error { s.DBPath = v; return nil },
	},
	"log_level": {
		get: func(s *Settings) string { return s.LogLevel },
		set: func(s *Settings, v string) error { s.LogLevel = strings.ToLower(v); return nil },
	},
	"difficulty": {
		get: func(s *Settings) string { return string(s.Difficulty) },
		set: func(s *Settings, v string) error {
			p, err := ParsePreset(v)
			s.Difficulty = p
			return err
		},
	},
	"plugin_dirs": {
		get: func(s *Settings) string { return strings.Join(s.PluginDirs, ",") },
		set: func(s *Settings, v string) error { s.PluginDirs = splitList(v); return nil },
	},
	"disabled_plugins": {
		get: func(s *Settings) string { return strings.Join(s.DisabledPlugins, ",") },
		set: func(s *Settings, v string) error { s.DisabledPlugins = splitList(v); return nil },
	},
	"ssh.host": {
		get: func(s *Settings) string { return s.SSH.Host },
		set: func(s *Settings, v string) error { s.SSH.Host = v; return nil },
	},
	"ssh.port": {
		get: func(s *Settings) string { return strconv.Itoa(s.SSH.Port) },
		set: func(s *Settings, v string) error { return setInt(&s.SSH.Port, v) },
	},
	"ssh.host_key": {
		get: func(s *Settings) string { return s.SSH.HostKeyPath },
		set: func(s *Settings, v string) error { s.SSH.HostKeyPath = v; return nil },
	},
	"ssh.idle_timeout": {
		get: func(s *Settings) string { return s.SSH.IdleTimeout.String() },
		set: func(s *Settings, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: ssh.idle_timeout: %w", err)
			}
			s.SSH.IdleTimeout = d
			return nil
		},
	},
	"ssh.max_sessions": {
		get: func(s *Settings) string { return strconv.Itoa(s.SSH.MaxSessions) },
		set: func(s *Settings, v string) error { return setInt(&s.SSH.MaxSessions, v) },
	},
	"metrics.enabled": {
		get: func(s *Settings) string { return strconv.FormatBool(s.Metrics.Enabled) },
		set: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: metrics.enabled: %w", err)
			}
			s.Metrics.Enabled = b
			return nil
		},
	},
	"metrics.addr": {
		get: func(s *Settings) string { return s.Metrics.Addr },
		set: func(s *Settings, v string) error { s.Metrics.Addr = v; return nil },
	},
}

// Keys lists every settable key, including per-game keys already present.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(fields)+2*len(s.Games))
	for k := range fields {
		keys = append(keys, k)
	}
	for id := range s.Games {
		keys = append(keys, "games."+id+".difficulty", "games."+id+".time_limit")
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value at a dotted key such as "ssh.port" or
// "games.tetris.difficulty".
func (s *Settings) Get(key string) (string, error) {
	if f, ok := fields[key]; ok {
		return f.get(s), nil
	}
	id, name, ok := gameKey(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	g := s.Games[id]
	switch name {
	case "difficulty":
		return string(g.Difficulty), nil
	default:
		return strconv.FormatFloat(g.TimeLimit, 'f', -1, 64), nil
	}
}

// Set parses value into the setting at key and revalidates.
func (s *Settings) Set(key, value string) error {
	next := s.clone()
	if f, ok := fields[key]; ok {
		if err := f.set(&next, strings.TrimSpace(value)); err != nil {
			return err
		}
	} else if err := next.setGame(key, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

func (s *Settings) setGame(key, value string) error {
	id, name, ok := gameKey(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if s.Games == nil {
		s.Games = make(map[string]GameSettings)
	}
	g := s.Games[id]
	switch name {
	case "difficulty":
		p, err := ParsePreset(value)
		if err != nil {
			return err
		}
		g.Difficulty = p
	default:
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		g.TimeLimit = limit
	}
	s.Games[id] = g
	return nil
}

// clone copies s deeply enough that a failed Set leaves s untouched.
func (s *Settings) clone() Settings {
	out := *s
	out.PluginDirs = slices.Clone(s.PluginDirs)
	out.DisabledPlugins = slices.Clone(s.DisabledPlugins)
	if s.Games != nil {
		out.Games = make(map[string]GameSettings, len(s.Games))
		for k, v := range s.Games {
			out.Games[k] = v
		}
	}
	return out
}

func gameKey(key string) (id, name string, ok bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "games" || parts[1] == "" {
		return "", "", false
	}
	if parts[2] != "difficulty" && parts[2] != "time_limit" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %q is not a number", v)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
