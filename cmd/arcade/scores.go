package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/storage"
)

var (
	flagScoresMode   string
	flagScoresLimit  int
	flagScoresAll    bool
	flagScoresRecent bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Without a game, summarize every game: plays, best and average score.
With a game, list its top scores, optionally for one mode.

Examples:
  arcade scores
  arcade scores tetris
  arcade scores tetris --mode speedrun --limit 5
  arcade scores --recent --player ada
  arcade scores snake --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	f := scoresCmd.Flags()
	f.StringVarP(&flagScoresMode, "mode", "m", "", "Only show this mode")
	f.IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	f.BoolVar(&flagScoresAll, "all", false, "Show every stored score")
	f.BoolVar(&flagScoresRecent, "recent", false, "Show the player's most recent scores")
	f.BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the game")
}

func runScores(cmd *cobra.Command, args []string) error {
	a, err := newApp(setup{needStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	switch {
	case flagScoresRecent:
		scores, err := a.store.RecentScores(a.settings.Player, flagScoresLimit)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recent scores - %s\n\n", a.settings.Player)
		printScores(out, scores, true)
		return nil
	case len(args) == 0:
		return printSummary(out, a)
	}

	gameID := args[0]
	desc, err := a.registry.Descriptor(gameID)
	if err != nil {
		return fmt.Errorf("%w\nRun 'arcade list' to see available games", err)
	}

	if flagScoresClear {
		if err := a.store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared all scores for %s.\n", desc.Name)
		return nil
	}

	mode := ""
	if flagScoresMode != "" {
		m, err := core.ParseMode(flagScoresMode)
		if err != nil {
			return err
		}
		mode = m.String()
	}

	var scores []storage.ScoreEntry
	if flagScoresAll {
		scores, err = a.store.AllScores(gameID)
	} else {
		scores, err = a.store.TopScores(gameID, mode, flagScoresLimit)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", desc.Name)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}
	printScores(out, scores, false)

	if best, err := a.store.HighScore(gameID); err == nil {
		fmt.Fprintf(out, "\nBest: %d\n", best)
	}
	return nil
}

func printScores(out io.Writer, scores []storage.ScoreEntry, withGame bool) {
	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		return
	}
	who := func(e storage.ScoreEntry) string {
		if withGame {
			return fmt.Sprintf("%-11s", e.GameID)
		}
		return fmt.Sprintf("%-11s", e.PlayerID)
	}
	col := "Player"
	if withGame {
		col = "Game"
	}

	fmt.Fprintf(out, "  %-4s  %-11s  %-8s  %-12s  %-7s  %s\n", "Rank", col, "Score", "Mode", "Result", "Date")
	fmt.Fprintf(out, "  %-4s  %-11s  %-8s  %-12s  %-7s  %s\n", "----", "------", "-----", "----", "------", "----")
	for i, e := range scores {
		fmt.Fprintf(out, "  %-4d  %s  %-8d  %-12s  %-7s  %s\n",
			i+1, who(e), e.Score, e.Mode, e.Outcome, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printSummary(out io.Writer, a *app) error {
	fmt.Fprintln(out, "Scoreboard")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-11s  %5s  %8s  %8s  %9s\n", "Game", "Plays", "Best", "Average", "Time")
	fmt.Fprintf(out, "  %-11s  %5s  %8s  %8s  %9s\n", "----", "-----", "----", "-------", "----")
	for _, g := range a.registry.All() {
		st, err := a.store.GameStats(g.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-11s  %5d  %8d  %8.1f  %8.0fs\n", g.ID, st.Plays, st.Best, st.Average, st.TotalTime)
	}
	return nil
}
