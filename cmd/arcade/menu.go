package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Pick a game and a mode, play, and come back to the menu when the
session ends.

Controls:
  Up/Down/j/k   - Choose a game
  Left/Right    - Choose a mode
  Enter/Space   - Play
  Tab           - High scores
  Q             - Quit

Examples:
  arcade menu
  arcade menu --fps 30 --player ada`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := newApp(setup{logToFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = tui.Run(cmd.Context(), a.appConfig(nil))
	return err
}
