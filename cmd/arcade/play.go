package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/achievements"
	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/launcher"
	"github.com/vovakirdan/cli-games/internal/platform/tui"
)

var flagMode string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game in the given mode.

Controls (most games):
  Arrows/WASD  - Move
  Space        - Fire/Jump/Drop
  P            - Pause
  Q/Esc        - Quit

Modes:
  normal, time_attack, infinite, speedrun, practice, multiplayer
  Each game declares the modes it supports; see 'arcade plugins info <game>'.

Examples:
  arcade play snake
  arcade play tetris --mode speedrun
  arcade play pong --mode multiplayer
  arcade play maze --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagMode, "mode", "m", "normal", "Game mode")
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	mode, err := core.ParseMode(flagMode)
	if err != nil {
		return err
	}

	a, err := newApp(setup{logToFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// Fail before taking over the terminal.
	desc, err := a.registry.Descriptor(gameID)
	if err != nil {
		return fmt.Errorf("%w\nRun 'arcade list' to see available games", err)
	}
	if !a.registry.IsEnabled(gameID) {
		return fmt.Errorf("%s is disabled; run 'arcade plugins enable %s'", gameID, gameID)
	}
	if !desc.Supports(mode) {
		return fmt.Errorf("%s does not support %s mode (supported: %s)", desc.Name, mode, modeList(desc.Modes))
	}

	res, err := tui.Run(cmd.Context(), a.appConfig(&tui.Selection{GameID: gameID, Mode: mode}))
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), desc.Name, res)
	return nil
}

// printResult echoes the finished session after the alt screen closes.
func printResult(out io.Writer, name string, res launcher.LaunchResult) {
	if res.Report.SessionID == "" {
		return
	}
	r := res.Report
	fmt.Fprintf(out, "%s (%s): %s, score %d in %.1fs\n", name, r.Mode.Title(), r.Outcome, r.Score, r.Elapsed)
	if res.NewHighScore {
		fmt.Fprintln(out, "New high score!")
	}
	for _, id := range res.Unlocked {
		if ach, ok := achievements.Lookup(id); ok {
			fmt.Fprintf(out, "Achievement unlocked: %s - %s\n", ach.Name, ach.Description)
		}
	}
}
