package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cli-games/internal/core"
	"github.com/vovakirdan/cli-games/internal/registry"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Manage the game catalogue",
	Long: `Inspect the loaded games and turn them on or off.

Games come from the built-in catalogue and from YAML manifests in the
configured plugin directories. Disabled games are remembered in the
settings file.

Examples:
  arcade plugins list
  arcade plugins info tetris
  arcade plugins search space
  arcade plugins disable pong
  arcade plugins enable pong`,
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every loaded game, enabled or not",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(setup{})
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		printListings(out, a.registry.All())
		st := a.registry.Stats()
		fmt.Fprintf(out, "\n%d games, %d enabled, %d disabled (* = disabled)\n", st.Total, st.Enabled, st.Disabled)
		genres := make([]string, 0, len(st.Genres))
		for g, n := range st.Genres {
			genres = append(genres, fmt.Sprintf("%s %d", g, n))
		}
		slices.Sort(genres)
		fmt.Fprintf(out, "Genres: %s\n", strings.Join(genres, ", "))
		return nil
	},
}

var pluginsInfoCmd = &cobra.Command{
	Use:   "info <game>",
	Short: "Show a game's metadata, modes and controls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(setup{})
		if err != nil {
			return err
		}
		defer a.Close()

		p, ok := a.registry.Plugin(args[0])
		if !ok {
			return fmt.Errorf("unknown game %q", args[0])
		}
		printPlugin(cmd.OutOrStdout(), p, a.registry.IsEnabled(args[0]))
		return nil
	},
}

var pluginsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find games by name, description or genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(setup{})
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		found := a.registry.Search(args[0])
		if len(found) == 0 {
			fmt.Fprintf(out, "No games match %q.\n", args[0])
			return nil
		}
		printListings(out, found)
		return nil
	},
}

var pluginsEnableCmd = &cobra.Command{
	Use:   "enable <game>",
	Short: "Enable a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return togglePlugin(cmd.OutOrStdout(), args[0], true)
	},
}

var pluginsDisableCmd = &cobra.Command{
	Use:   "disable <game>",
	Short: "Disable a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return togglePlugin(cmd.OutOrStdout(), args[0], false)
	},
}

func init() {
	pluginsCmd.AddCommand(pluginsListCmd, pluginsInfoCmd, pluginsSearchCmd, pluginsEnableCmd, pluginsDisableCmd)
}

// togglePlugin flips a game on the registry and saves the disabled set.
// Only the settings file is rewritten; flags and environment overrides
// are not persisted.
func togglePlugin(out io.Writer, id string, enable bool) error {
	a, err := newApp(setup{})
	if err != nil {
		return err
	}
	defer a.Close()

	if enable {
		err = a.registry.Enable(id)
	} else {
		err = a.registry.Disable(id)
	}
	if err != nil {
		return err
	}

	path, err := saveSetting("disabled_plugins", strings.Join(a.registry.Disabled(), ","))
	if err != nil {
		return err
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	fmt.Fprintf(out, "%s %s (saved to %s)\n", id, state, path)
	return nil
}

func printPlugin(out io.Writer, p registry.Plugin, enabled bool) {
	d := p.Descriptor
	fmt.Fprintf(out, "%s (%s)\n", d.Name, d.ID)
	if d.Description != "" {
		fmt.Fprintf(out, "  %s\n", d.Description)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Genre:    %s\n", d.Genre)
	if d.Author != "" {
		fmt.Fprintf(out, "  Author:   %s %s\n", d.Author, d.Version)
	}
	fmt.Fprintf(out, "  Players:  %d-%d\n", d.MinPlayers, d.MaxPlayers)
	fmt.Fprintf(out, "  Source:   %s\n", p.Origin)
	fmt.Fprintf(out, "  Enabled:  %t\n", enabled)
	fmt.Fprintf(out, "  Best:     %d\n", d.HighScore)
	if p.Timing.Kind == core.TimingStepped {
		fmt.Fprintf(out, "  Timing:   stepped every %s\n", p.Timing.Step)
	} else {
		fmt.Fprintf(out, "  Timing:   %s per frame\n", p.Timing.Frame)
	}

	fmt.Fprintln(out, "\nModes:")
	for _, m := range d.Modes {
		fmt.Fprintf(out, "  %-12s %s\n", m, m.Blurb())
	}
	if len(d.Controls) > 0 {
		fmt.Fprintln(out, "\nControls:")
		for _, c := range d.Controls {
			fmt.Fprintf(out, "  %-12s %s\n", c.Key, c.Action)
		}
	}
}
