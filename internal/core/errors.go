package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlugin marks a candidate that does not satisfy the game contract.
	ErrInvalidPlugin = errors.New("invalid plugin")
	// ErrUnsupportedMode is returned when a game is asked to run a mode it does not declare.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrUnknownMode is returned when a mode name cannot be parsed.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUnknownGame is returned for ids the registry has never seen.
	ErrUnknownGame = errors.New("unknown game")
	// ErrGameDisabled is returned when launching a game the user disabled.
	ErrGameDisabled = errors.New("game disabled")
	// ErrSurfaceBusy is returned when a surface already hosts a running session.
	ErrSurfaceBusy = errors.New("surface busy")
)

// SessionFault is raised when game code panics inside the loop. The session
// is discarded without a score report.
type SessionFault struct {
	GameID string
	Stage  string // initialize, input, update or render
	Value  any
	Stack  []byte
}

func (f *SessionFault) Error() string {
	return fmt.Sprintf("session fault in %s during %s: %v", f.GameID, f.Stage, f.Value)
}
