package gomoku

import (
	"errors"
	"strings"
	"testing"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/engine/enginetest"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/game/board"
)

func TestFiveInARowWins(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence(0))
	g, err := e.Start(enginetest.NewGame(t, ID, 1, 2))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// P0 fills row 9 columns 5..9, P1 answers on row 10.
	for i := 0; i < 5; i++ {
		g, err = e.Move(g, enginetest.Move(0, Action{Row: 9, Column: 5 + i}))
		if err != nil {
			t.Fatalf("p0 move %d: %v", i, err)
		}
		if i < 4 {
			if g.Stage != game.StagePlaying {
				t.Fatalf("game ended early after %d stones", i+1)
			}
			g, err = e.Move(g, enginetest.Move(1, Action{Row: 10, Column: 5 + i}))
			if err != nil {
				t.Fatalf("p1 move %d: %v", i, err)
			}
		}
	}

	if g.Stage != game.StageEnded {
		t.Fatalf("expected ended game, got %s", g.Stage)
	}
	if g.Players[0].Score != 1 || g.Players[1].Score != 0 {
		t.Errorf("unexpected scores %#v", g.Players)
	}
	if g.StateMessage.Text != "@user[1] won!" {
		t.Errorf("unexpected message %q", g.StateMessage.Text)
	}

	if _, err := e.Move(g, enginetest.Move(1, Action{Row: 0, Column: 0})); !errors.Is(err, game.ErrGameEnded) {
		t.Errorf("expected ErrGameEnded got %v", err)
	}
}

func TestTurnsAlternate(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence(1))
	g, _ := e.Start(enginetest.NewGame(t, ID, 1, 2))

	if _, err := e.Move(g, enginetest.Move(0, Action{Row: 0, Column: 0})); !errors.Is(err, game.ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn got %v", err)
	}

	expected := []int{1, 0, 1, 0}
	for i, p := range expected {
		next, err := e.Move(g, enginetest.Move(p, Action{Row: 0, Column: i}))
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		g = next
	}

	state, err := engine.DecodeState[State](g)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.PlayerIndex() != 1 {
		t.Errorf("expected player 1 to move, got %d", state.PlayerIndex())
	}
	if row := state.Board.Row(0); !strings.HasPrefix(row, "WBWB") {
		t.Errorf("unexpected first row %q", row)
	}
}

func TestRejectsBadCells(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence(0))
	g, _ := e.Start(enginetest.NewGame(t, ID, 1, 2))

	cases := []struct {
		name     string
		action   Action
		expected error
	}{
		{name: "negative", action: Action{Row: -1, Column: 0}, expected: game.ErrInvalidMove},
		{name: "beyond", action: Action{Row: 0, Column: BoardSize}, expected: game.ErrInvalidMove},
	}
	for _, tc := range cases {
		if _, err := e.Move(g, enginetest.Move(0, tc.action)); !errors.Is(err, tc.expected) {
			t.Errorf("%s: expected %v got %v", tc.name, tc.expected, err)
		}
	}

	g, _ = e.Move(g, enginetest.Move(0, Action{Row: 3, Column: 3}))
	if _, err := e.Move(g, enginetest.Move(1, Action{Row: 3, Column: 3})); !errors.Is(err, game.ErrCellOccupied) {
		t.Errorf("expected ErrCellOccupied got %v", err)
	}
}

func TestFullBoardIsDraw(t *testing.T) {
	t.Parallel()

	// A board one move from full where no line is longer than four: rows
	// repeat BBWW and every second row shifts the pattern by one column.
	e := New(enginetest.NewSequence(0))
	g, _ := e.Start(enginetest.NewGame(t, ID, 1, 2))

	cells := make([]byte, BoardSize*BoardSize)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cells[r*BoardSize+c] = 'W'
			if (c+r/2)%4 < 2 {
				cells[r*BoardSize+c] = 'B'
			}
		}
	}
	last := BoardSize*BoardSize - 1
	lastStone := cells[last]
	cells[last] = board.Blank

	// The missing stone belongs to the player to move.
	moveIndex := BoardSize*BoardSize - 1
	state := State{
		Board:     board.CharBoard{Size: BoardSize, Cells: string(cells)},
		MoveIndex: moveIndex,
	}
	if Stone(state.PlayerIndex()) != lastStone {
		state.FirstPlayerIndex = 1
	}
	raw, err := engine.EncodeState(state)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	g.StateJSON = raw

	g, err = e.Move(g, enginetest.Move(state.PlayerIndex(), Action{Row: BoardSize - 1, Column: BoardSize - 1}))
	if err != nil {
		t.Fatalf("last move: %v", err)
	}
	if g.Stage != game.StageEnded {
		t.Fatalf("expected ended game, got %s", g.Stage)
	}
	if g.StateMessage.Text != "It's a draw!" {
		t.Errorf("unexpected message %q", g.StateMessage.Text)
	}
	if g.Players[0].Score != 0 || g.Players[1].Score != 0 {
		t.Errorf("draw must not score, got %#v", g.Players)
	}
}

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	e := New(enginetest.NewSequence(0))
	g, _ := e.Start(enginetest.NewGame(t, ID, 1, 2))
	enginetest.StateRoundTrip[State](t, g)

	for i, mv := range [][3]int{{0, 9, 9}, {1, 9, 10}, {0, 10, 10}} {
		next, err := e.Move(g, enginetest.Move(mv[0], Action{Row: mv[1], Column: mv[2]}))
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		g = next
	}

	state := enginetest.StateRoundTrip[State](t, g)
	if state.MoveIndex != 3 || state.Board.Get(9, 10) != Stone(1) || len(state.Board.Cells) != BoardSize*BoardSize {
		t.Errorf("unexpected mid game state %#v", state)
	}
}
