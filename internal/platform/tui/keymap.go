package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cli-games/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	game map[string]core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: map[string]core.Action{
		"up":     core.ActionUp,
		"w":      core.ActionUp,
		"down":   core.ActionDown,
		"s":      core.ActionDown,
		"left":   core.ActionLeft,
		"a":      core.ActionLeft,
		"right":  core.ActionRight,
		"d":      core.ActionRight,
		" ":      core.ActionFire,
		"enter":  core.ActionConfirm,
		"b":      core.ActionBack,
		"r":      core.ActionRegenerate,
		"p":      core.ActionPause,
		"q":      core.ActionQuit,
		"esc":    core.ActionQuit,
		"ctrl+c": core.ActionQuit,
	}}
}

// MapKey translates a key message to a Player1 input event. The raw key
// name travels along so local two-player games can tell W/S from the
// arrows. Unbound keys yield core.NoInput.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.InputEvent {
	key := msg.String()
	action, ok := km.game[key]
	if !ok {
		return core.NoInput
	}
	return core.InputEvent{Action: action, Key: key, Player: core.Player1}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionPrevMode
	MenuActionNextMode
	MenuActionSelect
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionPrevMode
	case "d", "right", "l":
		return MenuActionNextMode
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScoreboard
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
