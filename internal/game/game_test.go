package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func testGame() Game {
	g := New("g1", "tictactoe", 1, time.Date(2021, 2, 11, 3, 16, 29, 0, time.UTC))
	g = g.AddPlayer(2).AddPlayer(3)
	return g
}

func TestSetPlayerScoreCopyOnWrite(t *testing.T) {
	t.Parallel()

	g := testGame()
	next := SetPlayerScore(g, 1, 10)

	if next.Players[1].Score != 10 {
		t.Errorf("expected score 10 got %d", next.Players[1].Score)
	}
	if g.Players[1].Score != 0 {
		t.Errorf("original game mutated: %#v", g.Players)
	}
	for _, i := range []int{0, 2} {
		if next.Players[i] != g.Players[i] {
			t.Errorf("player %d changed: expected %#v got %#v", i, g.Players[i], next.Players[i])
		}
	}
}

func TestIncrementPlayerScore(t *testing.T) {
	t.Parallel()

	g := testGame()
	g = IncrementPlayerScore(g, 2, 3)
	g = IncrementPlayerScore(g, 2, -1)
	if g.Players[2].Score != 2 {
		t.Errorf("expected 2 got %d", g.Players[2].Score)
	}
}

func TestStandings(t *testing.T) {
	t.Parallel()

	g := testGame()
	g = SetPlayerScore(g, 0, 1)
	g = SetPlayerScore(g, 1, 5)
	g = SetPlayerScore(g, 2, 1)

	standings := Standings(g)
	expected := []int{1, 0, 2}
	for i, s := range standings {
		if s.Index != expected[i] {
			t.Errorf("position %d: expected player %d got %d", i, expected[i], s.Index)
		}
	}

	msg := FinalStandings(g)
	mentions := msg.Mentions()
	if len(mentions) != 3 || mentions[0] != 2 {
		t.Errorf("unexpected mentions %v", mentions)
	}
}

func TestAddRemovePlayer(t *testing.T) {
	t.Parallel()

	g := testGame()
	removed := g.RemovePlayer(2)
	if removed.HasPlayer(2) {
		t.Error("player 2 still present")
	}
	if !g.HasPlayer(2) || len(g.Players) != 3 {
		t.Errorf("original game mutated: %#v", g.Players)
	}
	if idx := removed.PlayerIndex(3); idx != 1 {
		t.Errorf("expected index 1 got %d", idx)
	}
}

func TestRounds(t *testing.T) {
	t.Parallel()

	g := testGame()
	if g.HasRounds() || g.IsRoundsExhausted() {
		t.Fatal("game without rounds reports rounds")
	}

	g = g.WithRoundCount(2)
	g.RoundIndex = 1
	if g.IsRoundsExhausted() {
		t.Error("round 1 of 2 is not exhausted")
	}
	g.RoundIndex = 2
	if !g.IsRoundsExhausted() {
		t.Error("round 2 of 2 is exhausted")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	g := testGame()
	if err := g.Validate(); err != nil {
		t.Fatalf("valid game: %v", err)
	}

	bad := g.WithRoundCount(1)
	bad.RoundIndex = 2
	if err := bad.Validate(); err == nil {
		t.Error("expected round index error")
	}

	early := g.CreatedAt.Add(-time.Minute)
	bad = g
	bad.StartedAt = &early
	if err := bad.Validate(); err == nil {
		t.Error("expected timestamp order error")
	}

	bad = g
	bad.Stage = StagePlaying
	bad.Players = nil
	if err := bad.Validate(); err == nil {
		t.Error("expected no players error")
	}
}

func TestGameJSON(t *testing.T) {
	t.Parallel()

	g := testGame().WithRoundCount(7)
	started := g.CreatedAt.Add(time.Second)
	g.StartedAt = &started
	g.Stage = StagePlaying
	g.StateJSON = `{"moveIndex":1}`

	b, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Game
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Stage != StagePlaying || out.StateJSON != g.StateJSON || *out.RoundCount != 7 {
		t.Errorf("expected %#v got %#v", g, out)
	}
	if !out.StartedAt.Equal(started) || len(out.Players) != 3 {
		t.Errorf("expected %#v got %#v", g, out)
	}
}

func TestRuleError(t *testing.T) {
	t.Parallel()

	err := Reject(ErrWrongTurn, "It's another player's turn.")
	if !errors.Is(err, ErrWrongTurn) {
		t.Error("expected errors.Is to match ErrWrongTurn")
	}
	if Reason(err) != "It's another player's turn." {
		t.Errorf("unexpected reason %q", Reason(err))
	}
}
