package point

import (
	"errors"
	"strings"
	"testing"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/engine/enginetest"
	"github.com/bloops-games/boardgames/internal/game"
)

func card(rank string, value int) Card {
	return Card{Suit: Hearts, Rank: rank, Value: value}
}

func TestDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	if len(deck) != 36 {
		t.Fatalf("expected 36 cards got %d", len(deck))
	}
	if total := Total(deck); total != 4*(3+4+5+6+7+8+9+10+11) {
		t.Errorf("unexpected deck total %d", total)
	}
}

func TestSettle(t *testing.T) {
	t.Parallel()

	ace, ten, nine, six, king := card("A", 11), card("10", 10), card("9", 9), card("6", 6), card("K", 5)
	cases := []struct {
		name     string
		hand     []Card
		score    int64
		finished bool
	}{
		{name: "two aces", hand: []Card{ace, ace}, score: 32, finished: true},
		{name: "point", hand: []Card{ten, ace}, score: 26, finished: true},
		{name: "three card point", hand: []Card{ten, king, six}, score: 26, finished: true},
		{name: "twenty", hand: []Card{ten, ten}, score: 20, finished: true},
		{name: "nineteen", hand: []Card{ten, nine}, score: 19, finished: true},
		{name: "bust", hand: []Card{ten, nine, six}, score: 2, finished: true},
		{name: "three aces bust", hand: []Card{ace, ace, ace}, score: 2, finished: true},
		{name: "open", hand: []Card{ten, six}},
		{name: "single ace", hand: []Card{ace}},
	}

	for _, tc := range cases {
		score, finished := Settle(tc.hand)
		if score != tc.score || finished != tc.finished {
			t.Errorf("%s: expected (%d, %t) got (%d, %t)", tc.name, tc.score, tc.finished, score, finished)
		}
	}
}

func startWithDeck(t *testing.T, e *Engine, deck []Card, userIDs ...int64) game.Game {
	t.Helper()

	g, err := e.Create(enginetest.NewGame(t, ID, userIDs...))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g, err = e.Start(g)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	state, err := engine.DecodeState[State](g)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	state.Deck = deck
	raw, err := engine.EncodeState(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	g.StateJSON = raw
	return g
}

func move(t *testing.T, e *Engine, g game.Game, playerIndex int, skip bool) game.Game {
	t.Helper()
	next, err := e.Move(g, enginetest.Move(playerIndex, Action{Skip: skip}))
	if err != nil {
		t.Fatalf("player %d: %v", playerIndex, err)
	}
	return next
}

func TestNineteenAndBustFinishRound(t *testing.T) {
	t.Parallel()

	// Every draw takes the top of the deck.
	e := New(enginetest.NewSequence())
	deck := []Card{card("10", 10), card("10", 10), card("9", 9), card("6", 6), card("8", 8)}
	g := startWithDeck(t, e, deck, 1, 2)

	g = move(t, e, g, 0, false)
	g = move(t, e, g, 1, false)
	g = move(t, e, g, 0, false)

	state, _ := engine.DecodeState[State](g)
	if !state.Finished[0] || state.RoundScores[0] != 19 {
		t.Fatalf("expected player 0 finished with 19, got %v %v", state.Finished, state.RoundScores)
	}
	if state.Current != 1 {
		t.Fatalf("expected player 1 to move, got %d", state.Current)
	}
	if _, err := e.Move(g, enginetest.Move(0, Action{})); !errors.Is(err, game.ErrWrongTurn) {
		t.Errorf("expected ErrWrongTurn for a finished player got %v", err)
	}

	// Player 1 keeps the turn while the only one still drawing.
	g = move(t, e, g, 1, false)
	state, _ = engine.DecodeState[State](g)
	if state.Current != 1 || state.Finished[1] {
		t.Fatalf("expected player 1 to keep drawing, got current %d finished %v", state.Current, state.Finished)
	}

	g = move(t, e, g, 1, false)
	if g.RoundIndex != 1 || g.Stage != game.StagePlaying {
		t.Fatalf("expected round 1 in progress, got round %d stage %s", g.RoundIndex, g.Stage)
	}
	if g.Players[0].Score != 19 || g.Players[1].Score != 2 {
		t.Errorf("unexpected scores %#v", g.Players)
	}

	state, _ = engine.DecodeState[State](g)
	if len(state.Deck) != 36 || len(state.Hands[0]) != 0 || state.Finished[0] || state.Finished[1] {
		t.Errorf("expected a fresh deal, got %#v", state)
	}
	if !strings.Contains(g.StateMessage.Text, "Standings after round 1 of 5") {
		t.Errorf("expected current standings, got %q", g.StateMessage.Text)
	}
}

func TestSkipAndEmptyDeck(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence())
	g := startWithDeck(t, e, []Card{card("K", 5)}, 1, 2, 3)
	*g.RoundCount = 1

	g = move(t, e, g, 0, false)
	// The deck is empty now; a draw behaves as a skip.
	g = move(t, e, g, 1, false)
	g = move(t, e, g, 2, true)
	if g.Stage != game.StagePlaying {
		t.Fatal("round ended while user 1 was still drawing")
	}
	g = move(t, e, g, 0, true)

	if g.Stage != game.StageEnded {
		t.Fatalf("expected ended game, got %s", g.Stage)
	}
	if g.Players[0].Score != 5 || g.Players[1].Score != 0 || g.Players[2].Score != 0 {
		t.Errorf("unexpected scores %#v", g.Players)
	}
	if !strings.Contains(g.StateMessage.Text, "Final standings") {
		t.Errorf("expected final standings, got %q", g.StateMessage.Text)
	}
	if mentions := g.StateMessage.Mentions(); mentions[len(mentions)-3] != 1 {
		t.Errorf("expected user 1 to lead, got %q", g.StateMessage.Text)
	}
}

func TestRejections(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence(1))
	g := startWithDeck(t, e, NewDeck(), 1, 2)

	if _, err := e.Move(g, enginetest.Move(0, Action{})); !errors.Is(err, game.ErrWrongTurn) {
		t.Errorf("expected ErrWrongTurn got %v", err)
	}
	if _, err := e.Move(g, enginetest.Move(2, Action{})); !errors.Is(err, game.ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove got %v", err)
	}

	ended := g
	ended.Stage = game.StageEnded
	if _, err := e.Move(ended, enginetest.Move(1, Action{})); !errors.Is(err, game.ErrGameEnded) {
		t.Errorf("expected ErrGameEnded got %v", err)
	}
}

func TestManualStartDescriptor(t *testing.T) {
	t.Parallel()

	d := New(engine.NewSeededRand(7)).Descriptor()
	if d.AutoStart || d.MinPlayerCount != 2 || d.MaxPlayerCount != 9 {
		t.Errorf("unexpected descriptor %#v", d)
	}
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence())
	g, _ := e.Create(enginetest.NewGame(t, ID, 1, 2, 3))
	*g.RoundCount = 2
	g, _ = e.Start(g)

	state, _ := engine.DecodeState[State](g)
	state.Deck = []Card{card("10", 10), card("A", 11)}
	raw, _ := engine.EncodeState(state)
	g.StateJSON = raw

	g = move(t, e, g, 0, false)
	mid := enginetest.StateRoundTrip[State](t, g)
	if len(mid.Hands[0]) != 1 || mid.Hands[1] != nil || len(mid.Deck) != 1 {
		t.Errorf("unexpected mid round state %#v", mid)
	}

	g = move(t, e, g, 1, false)
	drained := enginetest.StateRoundTrip[State](t, g)
	if len(drained.Deck) != 0 || drained.Current != 2 {
		t.Errorf("expected an empty deck with player 2 to move, got %#v", drained)
	}

	g = move(t, e, g, 2, false)
	g = move(t, e, g, 0, true)
	g = move(t, e, g, 1, true)
	if g.RoundIndex != 1 || g.Stage != game.StagePlaying {
		t.Fatalf("expected round 1 in progress, got round %d stage %s", g.RoundIndex, g.Stage)
	}
	reset := enginetest.StateRoundTrip[State](t, g)
	if len(reset.Deck) != 36 || reset.Finished[0] || reset.RoundScores[0] != 0 {
		t.Errorf("unexpected state after a new deal %#v", reset)
	}
}
