package enginetest

import (
	"reflect"
	"testing"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
)

// StateRoundTrip decodes the state of g as S, encodes it again and fails the
// test unless both the JSON and the decoded value survive unchanged. It
// returns the decoded state.
func StateRoundTrip[S any](t testing.TB, g game.Game) S {
	t.Helper()

	state, err := engine.DecodeState[S](g)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	raw, err := engine.EncodeState(state)
	if err != nil {
		t.Fatalf("encode state: %v", err)
	}
	if raw != g.StateJSON {
		t.Errorf("state json changed:\nexpected %s\ngot      %s", g.StateJSON, raw)
	}

	again, err := engine.DecodeState[S](game.Game{ID: g.ID, StateJSON: raw})
	if err != nil {
		t.Fatalf("decode encoded state: %v", err)
	}
	if !reflect.DeepEqual(state, again) {
		t.Errorf("state changed:\nexpected %#v\ngot      %#v", state, again)
	}

	return state
}
