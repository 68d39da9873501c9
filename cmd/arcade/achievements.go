package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/achievements"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show achievements",
	Long: `List every achievement and mark the ones the player has unlocked.

Examples:
  arcade achievements
  arcade achievements --player ada`,
	Args: cobra.NoArgs,
	RunE: runAchievements,
}

func runAchievements(cmd *cobra.Command, _ []string) error {
	a, err := newApp(setup{needStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	player := a.settings.Player
	unlocks, err := a.store.Achievements(player)
	if err != nil {
		return err
	}
	when := make(map[string]string, len(unlocks))
	for _, u := range unlocks {
		when[u.ID] = u.UnlockedAt.Format("2006-01-02") + " (" + u.GameID + ")"
	}

	out := cmd.OutOrStdout()
	all := achievements.All()
	fmt.Fprintf(out, "Achievements - %s (%d/%d)\n\n", player, len(when), len(all))
	for _, ach := range all {
		mark, note := "[ ]", ""
		if w, ok := when[ach.ID]; ok {
			mark, note = "[x]", "  "+w
		}
		fmt.Fprintf(out, "  %s %-14s %s%s\n", mark, ach.Name, ach.Description, note)
	}
	return nil
}
