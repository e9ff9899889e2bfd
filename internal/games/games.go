// Package games wires the built-in engines into a registry.
package games

import (
	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/games/dice"
	"github.com/bloops-games/boardgames/internal/games/gomoku"
	"github.com/bloops-games/boardgames/internal/games/point"
	"github.com/bloops-games/boardgames/internal/games/rps"
	"github.com/bloops-games/boardgames/internal/games/tictactoe"
)

// Registry returns every built-in engine drawing randomness from rnd.
func Registry(rnd engine.Rand) *engine.Registry {
	return engine.NewRegistry(
		tictactoe.New(rnd),
		gomoku.New(rnd),
		dice.New(rnd),
		point.New(rnd),
		rps.New(),
	)
}
