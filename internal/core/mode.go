package core

import (
	"fmt"
	"strings"
)

// Mode is a play variant. The set of modes a game supports is declared in
// its Descriptor.
type Mode int

const (
	ModeNormal Mode = iota
	ModeTimeAttack
	ModeInfinite
	ModeSpeedrun
	ModePractice
	ModeMultiplayer
)

// AllModes lists every mode in display order.
var AllModes = []Mode{ModeNormal, ModeTimeAttack, ModeInfinite, ModeSpeedrun, ModePractice, ModeMultiplayer}

var modeNames = map[Mode]string{
	ModeNormal:      "normal",
	ModeTimeAttack:  "time_attack",
	ModeInfinite:    "infinite",
	ModeSpeedrun:    "speedrun",
	ModePractice:    "practice",
	ModeMultiplayer: "multiplayer",
}

var modeTitles = map[Mode]string{
	ModeNormal:      "Normal",
	ModeTimeAttack:  "Time Attack",
	ModeInfinite:    "Infinite",
	ModeSpeedrun:    "Speedrun",
	ModePractice:    "Practice",
	ModeMultiplayer: "Multiplayer",
}

var modeBlurbs = map[Mode]string{
	ModeNormal:      "Classic gameplay",
	ModeTimeAttack:  "Score as much as you can before the clock runs out",
	ModeInfinite:    "Endless play with increasing difficulty",
	ModeSpeedrun:    "Finish as fast as possible for a bonus",
	ModePractice:    "No pressure, half points",
	ModeMultiplayer: "Two players on one keyboard",
}

// String returns the stable identifier used in storage and on the CLI.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Title returns the display name.
func (m Mode) Title() string {
	if t, ok := modeTitles[m]; ok {
		return t
	}
	return m.String()
}

// Blurb returns a one-line description for menus.
func (m Mode) Blurb() string {
	return modeBlurbs[m]
}

// ParseMode accepts identifiers ("time_attack"), titles ("Time Attack") and
// dashed forms ("time-attack"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return ModeNormal, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be read
// from YAML manifests.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Rules are the mode-wide knobs every game reads. They depend on the mode
// alone; per-game numbers (time limits, bonuses) live with the game.
type Rules struct {
	Timed           bool    // session carries a time limit
	Ramp            bool    // difficulty escalates with progress
	Regenerate      bool    // clearing a stage builds the next one instead of ending
	ScoreMultiplier float64 // applied once at Finalize
	Forgiving       bool    // lives are not consumed
}

// RulesFor returns the rules for a mode.
func RulesFor(m Mode) Rules {
	switch m {
	case ModeTimeAttack, ModeSpeedrun:
		return Rules{Timed: true, ScoreMultiplier: 1}
	case ModeInfinite:
		return Rules{Ramp: true, Regenerate: true, ScoreMultiplier: 1}
	case ModePractice:
		return Rules{ScoreMultiplier: 0.5, Forgiving: true}
	default:
		return Rules{ScoreMultiplier: 1}
	}
}
