// Package board implements the immutable boards engines keep in their state.
// Every setter returns a new board; the receiver is never modified.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const Blank = ' '

var (
	ErrInvalidSize  = errors.New("invalid board size")
	ErrOutOfRange   = errors.New("cell out of range")
	ErrInvalidCells = errors.New("cells do not match board size")
)

// CharBoard is a square grid of single-byte marks stored row by row.
type CharBoard struct {
	Size  int    `json:"size"`
	Cells string `json:"cells"`
}

func NewCharBoard(size int) (CharBoard, error) {
	if size < 1 {
		return CharBoard{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return CharBoard{Size: size, Cells: strings.Repeat(string(Blank), size*size)}, nil
}

// Check verifies a board decoded from storage.
func (b CharBoard) Check() error {
	if b.Size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, b.Size)
	}
	if len(b.Cells) != b.Size*b.Size {
		return fmt.Errorf("%w: %d cells for size %d", ErrInvalidCells, len(b.Cells), b.Size)
	}
	return nil
}

func (b CharBoard) InRange(r, c int) bool {
	return r >= 0 && r < b.Size && c >= 0 && c < b.Size
}

func (b CharBoard) CellIndex(r, c int) int {
	return r*b.Size + c
}

// Get returns the mark at (r, c), Blank outside the board.
func (b CharBoard) Get(r, c int) byte {
	if !b.InRange(r, c) {
		return Blank
	}
	return b.Cells[b.CellIndex(r, c)]
}

// Row returns row r as a string, empty outside the board.
func (b CharBoard) Row(r int) string {
	if r < 0 || r >= b.Size {
		return ""
	}
	start := b.CellIndex(r, 0)
	return b.Cells[start : start+b.Size]
}

func (b CharBoard) Set(r, c int, value byte) (CharBoard, error) {
	if !b.InRange(r, c) {
		return CharBoard{}, fmt.Errorf("%w: (%d, %d) on %dx%d", ErrOutOfRange, r, c, b.Size, b.Size)
	}
	cells := []byte(b.Cells)
	cells[b.CellIndex(r, c)] = value
	return CharBoard{Size: b.Size, Cells: string(cells)}, nil
}

func (b CharBoard) IsFull() bool {
	return !strings.ContainsRune(b.Cells, Blank)
}

// LineLength counts consecutive marks through (r, c) along (dr, dc) in both
// directions, the cell itself counted once.
func (b CharBoard) LineLength(r, c, dr, dc int, mark byte) int {
	if b.Get(r, c) != mark {
		return 0
	}
	return b.ray(r, c, dr, dc, mark) + b.ray(r, c, -dr, -dc, mark) - 1
}

func (b CharBoard) ray(r, c, dr, dc int, mark byte) int {
	n := 0
	for b.InRange(r, c) && b.Get(r, c) == mark {
		n++
		r += dr
		c += dc
	}
	return n
}

var axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// HasLine reports whether the mark at (r, c) is part of at least n marks in a
// row along a row, a column or a diagonal.
func (b CharBoard) HasLine(r, c int, mark byte, n int) bool {
	for _, axis := range axes {
		if b.LineLength(r, c, axis[0], axis[1], mark) >= n {
			return true
		}
	}
	return false
}

func (b CharBoard) String() string {
	var sb strings.Builder
	for r := 0; r < b.Size; r++ {
		sb.WriteString("|")
		sb.WriteString(b.Row(r))
		sb.WriteString("|\n")
	}
	return sb.String()
}
