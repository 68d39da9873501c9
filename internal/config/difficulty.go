package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyExpert DifficultyPreset = "expert"
)

// Presets lists the presets from easiest to hardest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExpert}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(name)
	if !p.Valid() {
		return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or expert)", name)
	}
	return p, nil
}

// Valid reports whether p names a preset.
func (p DifficultyPreset) Valid() bool {
	return p.Level() > 0
}

// Level maps the preset onto core.Options.Difficulty (1..4).
func (p DifficultyPreset) Level() int {
	switch p {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 3
	case DifficultyExpert:
		return 4
	default:
		return 0
	}
}

// Next cycles to the following preset, wrapping after expert.
func (p DifficultyPreset) Next() DifficultyPreset {
	all := Presets()
	return all[p.Level()%len(all)]
}
