package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

var (
	flagListAll   bool
	flagListGenre string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long: `Shows the games in the catalogue with their genre, modes and best score.

Examples:
  arcade list
  arcade list --genre Arcade
  arcade list --all`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListAll, "all", false, "Include disabled games")
	listCmd.Flags().StringVar(&flagListGenre, "genre", "", "Only show games of this genre")
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(setup{})
	if err != nil {
		return err
	}
	defer a.Close()

	var games []registry.Listing
	switch {
	case flagListGenre != "":
		games = a.registry.ByGenre(flagListGenre)
	case flagListAll:
		games = a.registry.All()
	default:
		games = a.registry.List()
	}

	out := cmd.OutOrStdout()
	if len(games) == 0 {
		fmt.Fprintln(out, "No games available.")
		return nil
	}

	fmt.Fprintln(out, "Available games:")
	fmt.Fprintln(out)
	printListings(out, games)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'arcade play <id>' to play a game.")
	return nil
}

func printListings(out io.Writer, games []registry.Listing) {
	idW, nameW := 2, 4
	for _, g := range games {
		idW = max(idW, len(g.ID)+1)
		nameW = max(nameW, len(g.Name))
	}

	fmt.Fprintf(out, "  %-*s  %-*s  %-11s  %6s  %s\n", idW, "ID", nameW, "Name", "Genre", "Best", "Modes")
	fmt.Fprintf(out, "  %-*s  %-*s  %-11s  %6s  %s\n", idW, "--", nameW, "----", "-----", "----", "-----")
	for _, g := range games {
		id := g.ID
		if !g.Enabled { // disabled games only show with --all
			id += "*"
		}
		fmt.Fprintf(out, "  %-*s  %-*s  %-11s  %6d  %s\n", idW, id, nameW, g.Name, g.Genre, g.HighScore, modeList(g.Modes))
	}
}

func modeList(modes []core.Mode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}
