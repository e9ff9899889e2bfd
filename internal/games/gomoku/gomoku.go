// Package gomoku implements five in a row on a 19x19 board.
package gomoku

import (
	"fmt"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/game/board"
	"github.com/bloops-games/boardgames/internal/message"
)

const (
	ID         = "gomoku"
	BoardSize  = 19
	LineLength = 5
)

type State struct {
	Board            board.CharBoard `json:"board"`
	MoveIndex        int             `json:"moveIndex"`
	FirstPlayerIndex int             `json:"firstPlayerIndex"`
}

func (s State) PlayerIndex() int {
	return engine.TurnIndex(s.MoveIndex, s.FirstPlayerIndex, 2)
}

type Action struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (Action) EngineID() string { return ID }

type Engine struct {
	rnd engine.Rand
}

func New(rnd engine.Rand) *Engine {
	return &Engine{rnd: rnd}
}

var _ engine.Engine = (*Engine)(nil)

func (e *Engine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		ID:             ID,
		Title:          "Gomoku (Five in a Row)",
		Icon:           "fa-border-all",
		MinPlayerCount: 2,
		MaxPlayerCount: 2,
		AutoStart:      true,
	}
}

func (e *Engine) Create(g game.Game) (game.Game, error) {
	return g, nil
}

func (e *Engine) Start(g game.Game) (game.Game, error) {
	if err := engine.CheckPlayerCount(g, e.Descriptor()); err != nil {
		return g, err
	}
	b, err := board.NewCharBoard(BoardSize)
	if err != nil {
		return g, err
	}
	state := State{Board: b, FirstPlayerIndex: e.rnd.Intn(2)}
	return withState(g, state, message.MoveTurn(g.Players[state.PlayerIndex()].UserID))
}

func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	return engine.DecodeAction[Action](data)
}

func (e *Engine) Move(g game.Game, m game.Move) (game.Game, error) {
	if err := engine.CheckPlaying(g); err != nil {
		return g, err
	}
	action, err := engine.ActionAs[Action](m)
	if err != nil {
		return g, err
	}
	state, err := engine.DecodeState[State](g)
	if err != nil {
		return g, err
	}
	if err := engine.CheckPlayerIndex(g, m); err != nil {
		return g, err
	}
	if m.PlayerIndex != state.PlayerIndex() {
		return g, engine.WrongTurn()
	}
	if !state.Board.InRange(action.Row, action.Column) {
		return g, game.Reject(game.ErrInvalidMove, "The cell is outside the board.")
	}
	if state.Board.Get(action.Row, action.Column) != board.Blank {
		return g, game.Reject(game.ErrCellOccupied, "The cell is already occupied.")
	}

	stone := Stone(m.PlayerIndex)
	nextBoard, err := state.Board.Set(action.Row, action.Column, stone)
	if err != nil {
		return g, fmt.Errorf("%w: %v", game.ErrInvalidState, err)
	}
	next := State{Board: nextBoard, MoveIndex: state.MoveIndex + 1, FirstPlayerIndex: state.FirstPlayerIndex}

	switch {
	case nextBoard.HasLine(action.Row, action.Column, stone, LineLength):
		g = game.IncrementPlayerScore(g, m.PlayerIndex, 1)
		g.Stage = game.StageEnded
		return withState(g, next, message.Win(g.Players[m.PlayerIndex].UserID))
	case nextBoard.IsFull():
		g.Stage = game.StageEnded
		return withState(g, next, message.Draw())
	default:
		return withState(g, next, message.MoveTurn(g.Players[next.PlayerIndex()].UserID))
	}
}

// Stone is the mark a player puts on the board: black for the first joiner.
func Stone(playerIndex int) byte {
	if playerIndex == 0 {
		return 'B'
	}
	return 'W'
}

func withState(g game.Game, state State, msg message.Message) (game.Game, error) {
	raw, err := engine.EncodeState(state)
	if err != nil {
		return g, err
	}
	g.StateJSON = raw
	g.StateMessage = msg
	return g, nil
}
