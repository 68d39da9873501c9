package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change settings",
	Long: `Read and change the settings file.

Keys use dots for nesting: ssh.port, metrics.enabled,
games.tetris.difficulty. Lists are comma separated.

Examples:
  arcade config get
  arcade config get difficulty
  arcade config set difficulty hard
  arcade config set games.snake.time_limit 90
  arcade config set plugin_dirs ~/.arcade/plugins,./plugins`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			v, err := s.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
			return nil
		}
		for _, k := range s.Keys() {
			v, _ := s.Get(k)
			fmt.Fprintf(out, "%s = %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := saveSetting(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (saved to %s)\n", args[0], args[1], path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where settings are saved",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settingsPath())
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
}

// saveSetting changes one key in the settings file and writes it back.
// Flag and environment overrides are not persisted.
func saveSetting(key, value string) (string, error) {
	path := settingsPath()
	if path == "" {
		return "", errors.New("no settings path: pass --config")
	}
	s, err := config.LoadFile(flagConfig)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := s.Set(key, value); err != nil {
		return "", err
	}
	if err := s.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
