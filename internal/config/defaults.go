package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/arcade.yaml
var defaultYAML []byte

// Default returns the hardcoded settings, identical to the embedded
// defaults/arcade.yaml.
func Default() Settings {
	return Settings{
		Player:     "player",
		FPS:        60,
		DBPath:     "~/.arcade/arcade.db",
		LogLevel:   "info",
		Difficulty: DifficultyNormal,
		PluginDirs: []string{"~/.arcade/plugins"},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        2222,
			HostKeyPath: "~/.arcade/ssh_host_key",
			IdleTimeout: 10 * time.Minute,
			MaxSessions: 32,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
	}
}
