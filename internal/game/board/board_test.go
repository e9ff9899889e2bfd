package board

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCharBoardSet(t *testing.T) {
	t.Parallel()

	b, err := NewCharBoard(3)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}

	next, err := b.Set(1, 2, 'X')
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	if got := next.Get(1, 2); got != 'X' {
		t.Errorf("expected X got %q", got)
	}
	if got := b.Get(1, 2); got != Blank {
		t.Errorf("original board mutated: %q", got)
	}
	if next.Row(1) != "  X" {
		t.Errorf("expected row %q got %q", "  X", next.Row(1))
	}
}

func TestCharBoardSetKeepsSizeForAnyByte(t *testing.T) {
	t.Parallel()

	b, _ := NewCharBoard(3)
	next, err := b.Set(0, 0, 0xC8)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(next.Cells) != 9 {
		t.Fatalf("expected 9 cells got %d", len(next.Cells))
	}
	if err := next.Check(); err != nil {
		t.Errorf("check: %v", err)
	}
	if got := next.Get(0, 0); got != 0xC8 {
		t.Errorf("expected 0xC8 got %#x", got)
	}
	if got := next.Get(0, 1); got != Blank {
		t.Errorf("neighbour shifted: %q", got)
	}
}

func TestCharBoardOutOfRange(t *testing.T) {
	t.Parallel()

	b, _ := NewCharBoard(3)
	for _, rc := range [][2]int{{-1, 0}, {0, 3}, {3, 3}} {
		if _, err := b.Set(rc[0], rc[1], 'X'); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("(%d,%d): expected ErrOutOfRange got %v", rc[0], rc[1], err)
		}
		if got := b.Get(rc[0], rc[1]); got != Blank {
			t.Errorf("(%d,%d): expected blank got %q", rc[0], rc[1], got)
		}
	}

	if _, err := NewCharBoard(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize got %v", err)
	}
}

func TestCharBoardLines(t *testing.T) {
	t.Parallel()

	b, _ := NewCharBoard(19)
	for c := 3; c <= 6; c++ {
		b, _ = b.Set(5, c, 'X')
	}

	if b.HasLine(5, 6, 'X', 5) {
		t.Fatal("four in a row is not a line of five")
	}

	b, _ = b.Set(5, 7, 'X')
	if got := b.LineLength(5, 5, 0, 1, 'X'); got != 5 {
		t.Errorf("expected 5 got %d", got)
	}
	if !b.HasLine(5, 7, 'X', 5) {
		t.Error("expected line of five")
	}

	d, _ := NewCharBoard(3)
	d, _ = d.Set(0, 2, 'O')
	d, _ = d.Set(1, 1, 'O')
	d, _ = d.Set(2, 0, 'O')
	if !d.HasLine(1, 1, 'O', 3) {
		t.Error("expected anti-diagonal line")
	}
}

func TestCharBoardIsFull(t *testing.T) {
	t.Parallel()

	b, _ := NewCharBoard(2)
	for i := 0; i < 4; i++ {
		if b.IsFull() {
			t.Fatalf("board full after %d marks", i)
		}
		b, _ = b.Set(i/2, i%2, 'X')
	}
	if !b.IsFull() {
		t.Error("expected full board")
	}
}

func TestCharBoardJSON(t *testing.T) {
	t.Parallel()

	b, _ := NewCharBoard(3)
	b, _ = b.Set(0, 0, 'X')
	b, _ = b.Set(2, 1, 'O')

	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out CharBoard
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != b {
		t.Errorf("expected %#v got %#v", b, out)
	}
	if err := out.Check(); err != nil {
		t.Errorf("check: %v", err)
	}
}

func TestDiceBoardSpecialCells(t *testing.T) {
	t.Parallel()

	b, err := NewDiceBoard(8)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}

	for _, i := range []int{10, 27, 44} {
		if b.Kind(i) != CellForward {
			t.Errorf("cell %d: expected forward", i)
		}
	}
	for _, i := range []int{20, 35, 54} {
		if b.Kind(i) != CellBackward {
			t.Errorf("cell %d: expected backward", i)
		}
	}
	if b.Kind(13) != CellPlain || b.LastIndex() != 63 {
		t.Errorf("unexpected board layout")
	}
}

func TestDiceBoardMark(t *testing.T) {
	t.Parallel()

	b, _ := NewDiceBoard(8)
	next, err := b.Mark(13, 0, MarkCurrent)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}

	if !next.Visited(13, 0) {
		t.Error("expected cell 13 visited by player 0")
	}
	if next.Visited(13, 1) {
		t.Error("cell 13 must not be visited by player 1")
	}
	if b.Visited(13, 0) {
		t.Error("original board mutated")
	}

	if _, err := b.Mark(64, 0, MarkCurrent); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange got %v", err)
	}
	if _, err := b.Mark(1, 4, MarkCurrent); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange got %v", err)
	}
}
