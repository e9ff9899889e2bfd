package board

import "fmt"

// MaxDicePlayers is the number of per-player mark slots of a dice cell.
const MaxDicePlayers = 4

// StepOffset is how far a forward or backward cell moves a player.
const StepOffset = 3

type CellKind uint8

const (
	CellPlain CellKind = iota
	CellForward
	CellBackward
)

type Mark uint8

const (
	MarkNone Mark = iota
	MarkPast
	MarkCurrent
)

var (
	forwardCells  = []int{10, 27, 44}
	backwardCells = []int{20, 35, 54}
)

type DiceCell struct {
	Kind  CellKind             `json:"kind"`
	Marks [MaxDicePlayers]Mark `json:"marks"`
}

// DiceBoard is the race track of the dice game: Size*Size cells walked in order.
type DiceBoard struct {
	Size  int        `json:"size"`
	Cells []DiceCell `json:"cells"`
}

func NewDiceBoard(size int) (DiceBoard, error) {
	if size < 1 {
		return DiceBoard{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	cells := make([]DiceCell, size*size)
	for _, i := range forwardCells {
		if i < len(cells) {
			cells[i].Kind = CellForward
		}
	}
	for _, i := range backwardCells {
		if i < len(cells) {
			cells[i].Kind = CellBackward
		}
	}

	return DiceBoard{Size: size, Cells: cells}, nil
}

func (b DiceBoard) Check() error {
	if b.Size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, b.Size)
	}
	if len(b.Cells) != b.Size*b.Size {
		return fmt.Errorf("%w: %d cells for size %d", ErrInvalidCells, len(b.Cells), b.Size)
	}
	return nil
}

// LastIndex is the finish cell.
func (b DiceBoard) LastIndex() int {
	return b.Size*b.Size - 1
}

// Kind returns the kind of the cell at index, CellPlain outside the board.
func (b DiceBoard) Kind(index int) CellKind {
	if index < 0 || index >= len(b.Cells) {
		return CellPlain
	}
	return b.Cells[index].Kind
}

// RowColumn converts a track index to grid coordinates.
func (b DiceBoard) RowColumn(index int) (int, int) {
	return index / b.Size, index % b.Size
}

// Mark returns a copy of the board with the player's mark at index replaced.
func (b DiceBoard) Mark(index, player int, mark Mark) (DiceBoard, error) {
	if index < 0 || index >= len(b.Cells) {
		return DiceBoard{}, fmt.Errorf("%w: cell %d of %d", ErrOutOfRange, index, len(b.Cells))
	}
	if player < 0 || player >= MaxDicePlayers {
		return DiceBoard{}, fmt.Errorf("%w: player %d", ErrOutOfRange, player)
	}

	cells := make([]DiceCell, len(b.Cells))
	copy(cells, b.Cells)
	cells[index].Marks[player] = mark

	return DiceBoard{Size: b.Size, Cells: cells}, nil
}

// Visited reports whether the player has stood on the cell.
func (b DiceBoard) Visited(index, player int) bool {
	if index < 0 || index >= len(b.Cells) || player < 0 || player >= MaxDicePlayers {
		return false
	}
	return b.Cells[index].Marks[player] != MarkNone
}
