// arcade is a terminal game launcher with seven built-in retro games.
//
// Usage:
//
//	arcade list                 - List available games
//	arcade play <game>          - Play a game
//	arcade menu                 - Pick games interactively
//	arcade serve                - Serve the arcade over SSH
//	arcade scores [game]        - Show high scores
//	arcade achievements         - Show unlocked achievements
//	arcade plugins <command>    - Inspect, enable and disable games
//	arcade config <get|set>     - Read and change settings
//
// Global flags:
//
//	--config <path>    - Settings file (default: ~/.arcade/config.yaml)
//	--db <path>        - Scores database (default: ~/.arcade/arcade.db)
//	--fps <rate>       - Frame rate for fixed-timing games
//	--seed <value>     - RNG seed for reproducible worlds
//	--player <name>    - Player name recorded with scores
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDBPath   string
	flagFPS      int
	flagSeed     int64
	flagPlayer   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "CLI Games - Play retro games in your terminal",
	Long: `CLI Games is a terminal arcade: one launcher, seven classic games,
a shared scoreboard and achievements.

Available commands:
  list          - Show all available games
  play          - Play a specific game directly
  menu          - Interactive game picker menu
  serve         - Serve the arcade over SSH
  scores        - View high scores
  achievements  - View unlocked achievements
  plugins       - Manage the game catalogue
  config        - Read and change settings

Examples:
  arcade list
  arcade play tetris --mode speedrun
  arcade menu
  arcade serve --ssh :2222
  arcade scores snake`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to settings file")
	pf.StringVar(&flagDBPath, "db", "", "Path to scores database (overrides settings)")
	pf.IntVar(&flagFPS, "fps", 0, "Frame rate (overrides settings)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagPlayer, "player", "", "Player name (overrides settings)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (overrides settings)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(configCmd)
}
