// Package builtin is the compile-time catalogue of games shipped with the
// arcade.
package builtin

import (
	"github.com/vovakirdan/cli-games/internal/games/invaders"
	"github.com/vovakirdan/cli-games/internal/games/maze"
	"github.com/vovakirdan/cli-games/internal/games/pacman"
	"github.com/vovakirdan/cli-games/internal/games/platformer"
	"github.com/vovakirdan/cli-games/internal/games/pong"
	"github.com/vovakirdan/cli-games/internal/games/snake"
	"github.com/vovakirdan/cli-games/internal/games/tetris"
	"github.com/vovakirdan/cli-games/internal/registry"
)

// Plugins returns every built-in game in menu order.
func Plugins() []registry.Plugin {
	return []registry.Plugin{
		maze.Plugin(),
		snake.Plugin(),
		tetris.Plugin(),
		pong.Plugin(),
		invaders.Plugin(),
		pacman.Plugin(),
		platformer.Plugin(),
	}
}

// Source exposes the catalogue to a registry.
func Source() registry.Source {
	return registry.Builtin(Plugins()...)
}

// Lookup finds a built-in game by id. Manifest directories use it to
// resolve the game a manifest re-skins.
func Lookup(id string) (registry.Plugin, bool) {
	for _, p := range Plugins() {
		if p.Descriptor.ID == id {
			return p, true
		}
	}
	return registry.Plugin{}, false
}
