package game

import (
	"errors"
	"fmt"
	"time"
)

// Action is the engine-specific part of a move. Each engine defines its own
// action type and rejects actions of other engines.
type Action interface {
	EngineID() string
}

// Move is one player's action. PlayerIndex and Time are filled by the lobby
// from the caller's identity, never from client input.
type Move struct {
	PlayerIndex int
	Time        time.Time
	Action      Action
}

var errInvariant = errors.New("game invariant violated")

// Validate checks the aggregate invariants that hold independently of the engine.
func (g Game) Validate() error {
	if g.Stage != StageNew && len(g.Players) == 0 {
		return fmt.Errorf("%w: no players in stage %s", errInvariant, g.Stage)
	}

	if g.RoundCount != nil && g.RoundIndex > *g.RoundCount {
		return fmt.Errorf("%w: round index %d exceeds round count %d", errInvariant, g.RoundIndex, *g.RoundCount)
	}

	if g.RoundIndex < 0 {
		return fmt.Errorf("%w: negative round index", errInvariant)
	}

	prev := g.CreatedAt
	for _, ts := range []*time.Time{g.StartedAt, g.LastMoveAt, g.EndedAt} {
		if ts == nil {
			continue
		}
		if ts.Before(prev) {
			return fmt.Errorf("%w: timestamps out of order", errInvariant)
		}
		prev = *ts
	}

	return nil
}
