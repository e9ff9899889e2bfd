// Package dice implements a dice race over a square track. Players roll in
// turn and the first to land on the last cell wins.
package dice

import (
	"fmt"
	"strconv"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/game/board"
	"github.com/bloops-games/boardgames/internal/message"
)

const (
	ID        = "dice"
	BoardSize = 8
	DieSides  = 6
)

// Start is the position of a player that hasn't rolled yet.
const Start = -1

type State struct {
	Board            board.DiceBoard `json:"board"`
	Positions        []int           `json:"positions"`
	Steps            []int64         `json:"steps"`
	MoveIndex        int             `json:"moveIndex"`
	FirstPlayerIndex int             `json:"firstPlayerIndex"`
	LastRoll         int             `json:"lastRoll"`
}

func (s State) PlayerIndex() int {
	return engine.TurnIndex(s.MoveIndex, s.FirstPlayerIndex, len(s.Positions))
}

// Action is a roll. Zero lets the engine roll the die.
type Action struct {
	Value int `json:"value"`
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
		Title:          "Dice",
		Icon:           "fa-dice-five",
		MinPlayerCount: 2,
		MaxPlayerCount: board.MaxDicePlayers,
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
	b, err := board.NewDiceBoard(BoardSize)
	if err != nil {
		return g, err
	}

	n := len(g.Players)
	state := State{
		Board:            b,
		Positions:        make([]int, n),
		Steps:            make([]int64, n),
		FirstPlayerIndex: e.rnd.Intn(n),
	}
	for i := range state.Positions {
		state.Positions[i] = Start
	}

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
	if len(state.Positions) != len(g.Players) || len(state.Steps) != len(g.Players) {
		return g, fmt.Errorf("%w: %d positions for %d players", game.ErrInvalidState, len(state.Positions), len(g.Players))
	}
	if err := engine.CheckPlayerIndex(g, m); err != nil {
		return g, err
	}
	if m.PlayerIndex != state.PlayerIndex() {
		return g, engine.WrongTurn()
	}

	roll := action.Value
	switch {
	case roll == 0:
		roll = e.rnd.Intn(DieSides) + 1
	case roll < 1 || roll > DieSides:
		return g, game.Reject(game.ErrInvalidMove, "The die shows 1 to 6.")
	}

	p := m.PlayerIndex
	from := state.Positions[p]
	to := Advance(state.Board, from, roll)

	next := State{
		Board:            state.Board,
		Positions:        append([]int(nil), state.Positions...),
		Steps:            append([]int64(nil), state.Steps...),
		MoveIndex:        state.MoveIndex + 1,
		FirstPlayerIndex: state.FirstPlayerIndex,
		LastRoll:         roll,
	}
	next.Positions[p] = to
	next.Steps[p]++

	if from >= 0 {
		if next.Board, err = next.Board.Mark(from, p, board.MarkPast); err != nil {
			return g, fmt.Errorf("%w: %v", game.ErrInvalidState, err)
		}
	}
	if next.Board, err = next.Board.Mark(to, p, board.MarkCurrent); err != nil {
		return g, fmt.Errorf("%w: %v", game.ErrInvalidState, err)
	}

	userID := g.Players[p].UserID
	if to == next.Board.LastIndex() {
		g = game.IncrementPlayerScore(g, p, 1)
		g.Stage = game.StageEnded
		return withState(g, next, message.WinWithScore(userID, g.ID, next.Steps[p]))
	}

	rolled := message.New(message.User(userID), message.Text(" rolled "+strconv.Itoa(roll)+". "))
	turn := message.MoveTurn(g.Players[next.PlayerIndex()].UserID)
	return withState(g, next, message.Concat(rolled, turn))
}

// Advance moves a token from position by roll cells. Landing on a forward or
// backward cell shifts the token once more; the result never passes the
// last cell.
func Advance(b board.DiceBoard, position, roll int) int {
	last := b.LastIndex()
	to := position + roll
	if to > last {
		to = last
	}

	switch b.Kind(to) {
	case board.CellForward:
		to += board.StepOffset
	case board.CellBackward:
		to -= board.StepOffset
	}

	if to > last {
		to = last
	}
	if to < 0 {
		to = 0
	}
	return to
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
