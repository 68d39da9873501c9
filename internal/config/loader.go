package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envKeys maps environment variables onto settings keys.
var envKeys = map[string]string{
	"ARCADE_PLAYER":           "player",
	"ARCADE_FPS":              "fps",
	"ARCADE_DB":               "db_path",
	"ARCADE_LOG_LEVEL":        "log_level",
	"ARCADE_DIFFICULTY":       "difficulty",
	"ARCADE_PLUGIN_DIRS":      "plugin_dirs",
	"ARCADE_DISABLED_PLUGINS": "disabled_plugins",
	"ARCADE_SSH_HOST":         "ssh.host",
	"ARCADE_SSH_PORT":         "ssh.port",
	"ARCADE_SSH_HOST_KEY":     "ssh.host_key",
	"ARCADE_METRICS_ADDR":     "metrics.addr",
}

// Load reads the arcade settings.
// Search order: customPath -> ~/.arcade/config.yaml -> ./configs/arcade.yaml -> embedded default.
// A .env file in the working directory is read first; ARCADE_* variables
// then override whatever the file said.
func Load(customPath string) (Settings, error) {
	if err := LoadEnv(".env"); err != nil {
		return Settings{}, err
	}
	cfg, err := LoadFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads settings without consulting the environment. Keys missing
// from the file keep their defaults.
func LoadFile(customPath string) (Settings, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Default(), fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if path := UserPath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := decode(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "arcade.yaml")); err == nil {
		if err := decode(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := decode(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decode(data []byte, cfg *Settings) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// LoadEnv loads KEY=value files into the process environment. Missing
// files are skipped and variables already set are left alone.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: cannot load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from ARCADE_* variables. lookup is usually
// os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	for env, key := range envKeys {
		v, ok := lookup(env)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := s.Set(key, v); err != nil {
			return fmt.Errorf("config: %s: %w", env, err)
		}
	}
	return nil
}

// Save writes the settings as YAML, creating parent directories.
func (s Settings) Save(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: cannot encode settings: %w", err)
	}
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: cannot write %s: %w", path, err)
	}
	return nil
}

// UserPath returns ~/.arcade/config.yaml, or empty if home is unavailable.
func UserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
