package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow
	ActionDown              // S, Down arrow
	ActionLeft              // A, Left arrow
	ActionRight             // D, Right arrow
	ActionFire              // Space - shoot, jump, hard drop
	ActionConfirm           // Enter
	ActionBack              // B
	ActionRegenerate        // R - rebuild the level where supported
	ActionQuit              // Q, Esc, Ctrl+C
	ActionPause             // P
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRegenerate:
		return "Regenerate"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Player identifies which seat produced an input.
type Player int

const (
	Player1 Player = 1
	Player2 Player = 2
)

// InputEvent is a single keystroke polled during one loop tick.
type InputEvent struct {
	Action Action
	Key    string // raw key name as reported by the terminal, e.g. "up", "w"
	Player Player
}

// NoInput is the sentinel returned when no key was pressed this tick.
var NoInput = InputEvent{}

// IsNone reports whether ev carries no action.
func (ev InputEvent) IsNone() bool {
	return ev.Action == ActionNone
}

// Press builds a Player1 event for the given action.
func Press(a Action) InputEvent {
	return InputEvent{Action: a, Player: Player1}
}

// SeatOf returns the event's player, defaulting to Player1.
func (ev InputEvent) SeatOf() Player {
	if ev.Player == Player2 {
		return Player2
	}
	return Player1
}
