// Package engine defines the contract every game engine implements and the
// registry the lobby resolves engines from.
//
// Engines are pure: given a game, an input and the draws of their random
// source they always produce the same next game. They never perform I/O and
// assume the caller serializes calls for one game.
package engine

import (
	"fmt"
	"sort"

	"github.com/bloops-games/boardgames/internal/game"
)

// Descriptor is the static description of an engine used to validate joins
// and starts before calling into the engine.
type Descriptor struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Icon           string `json:"icon"`
	MinPlayerCount int    `json:"minPlayerCount"`
	MaxPlayerCount int    `json:"maxPlayerCount"`
	// AutoStart starts the game once MaxPlayerCount players have joined.
	AutoStart bool `json:"autoStart"`
}

type Engine interface {
	Descriptor() Descriptor

	// Create attaches engine defaults to a freshly created game. It must not
	// touch StateJSON.
	Create(g game.Game) (game.Game, error)

	// Start builds the initial state, picks the first mover and sets
	// StateJSON and StateMessage.
	Start(g game.Game) (game.Game, error)

	// Move applies exactly one rule transition or rejects the move with a
	// *game.RuleError. On error the input game stays authoritative.
	Move(g game.Game, m game.Move) (game.Game, error)

	// DecodeAction parses client input into this engine's action type.
	DecodeAction(data []byte) (game.Action, error)
}

// Registry is an immutable id to engine map built once at startup.
type Registry struct {
	engines map[string]Engine
}

// NewRegistry panics on an empty or duplicate engine id: both are programming errors.
func NewRegistry(engines ...Engine) *Registry {
	r := &Registry{engines: make(map[string]Engine, len(engines))}
	for _, e := range engines {
		d := e.Descriptor()
		if d.ID == "" {
			panic("engine: empty engine id")
		}
		if _, ok := r.engines[d.ID]; ok {
			panic(fmt.Sprintf("engine: duplicate engine id %q", d.ID))
		}
		if d.MinPlayerCount < 1 || d.MaxPlayerCount < d.MinPlayerCount {
			panic(fmt.Sprintf("engine: invalid player range for %q", d.ID))
		}
		r.engines[d.ID] = e
	}
	return r
}

func (r *Registry) Get(id string) (Engine, bool) {
	e, ok := r.engines[id]
	return e, ok
}

// Descriptors returns the descriptors of all engines ordered by id.
func (r *Registry) Descriptors() []Descriptor {
	ds := make([]Descriptor, 0, len(r.engines))
	for _, e := range r.engines {
		ds = append(ds, e.Descriptor())
	}
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].ID < ds[j].ID
	})
	return ds
}
