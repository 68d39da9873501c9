package core

import (
	"fmt"
	"slices"
)

// Control documents one key binding shown in menus and help.
type Control struct {
	Key    string
	Action string
}

// Descriptor is the static metadata of a game. It is known without creating
// a session.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Genre       string
	Author      string
	Version     string
	Controls    []Control
	Modes       []Mode // ordered, non-empty, no duplicates
	MinPlayers  int
	MaxPlayers  int
	HighScore   int
}

// Supports reports whether the game declares mode m.
func (d Descriptor) Supports(m Mode) bool {
	return slices.Contains(d.Modes, m)
}

// Validate checks the descriptor's structural invariants. Every violation
// wraps ErrInvalidPlugin.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPlugin)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: %s: empty name", ErrInvalidPlugin, d.ID)
	}
	if len(d.Modes) == 0 {
		return fmt.Errorf("%w: %s: no supported modes", ErrInvalidPlugin, d.ID)
	}
	seen := make(map[Mode]bool, len(d.Modes))
	for _, m := range d.Modes {
		if _, ok := modeNames[m]; !ok {
			return fmt.Errorf("%w: %s: unknown mode %d", ErrInvalidPlugin, d.ID, int(m))
		}
		if seen[m] {
			return fmt.Errorf("%w: %s: duplicate mode %s", ErrInvalidPlugin, d.ID, m)
		}
		seen[m] = true
	}
	if d.MinPlayers < 1 {
		return fmt.Errorf("%w: %s: min players %d < 1", ErrInvalidPlugin, d.ID, d.MinPlayers)
	}
	if d.MaxPlayers < d.MinPlayers {
		return fmt.Errorf("%w: %s: max players %d < min players %d", ErrInvalidPlugin, d.ID, d.MaxPlayers, d.MinPlayers)
	}
	if d.HighScore < 0 {
		return fmt.Errorf("%w: %s: negative high score", ErrInvalidPlugin, d.ID)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (d Descriptor) Clone() Descriptor {
	d.Controls = slices.Clone(d.Controls)
	d.Modes = slices.Clone(d.Modes)
	return d
}
