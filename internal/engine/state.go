package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bloops-games/boardgames/internal/bytespool"
	"github.com/bloops-games/boardgames/internal/game"
)

// DecodeState deserializes the engine-private state of g.
func DecodeState[S any](g game.Game) (S, error) {
	var s S
	if g.StateJSON == "" {
		return s, fmt.Errorf("%w: game %s has no state", game.ErrInvalidState, g.ID)
	}
	if err := json.Unmarshal([]byte(g.StateJSON), &s); err != nil {
		return s, fmt.Errorf("%w: decode state of game %s: %v", game.ErrInvalidState, g.ID, err)
	}
	return s, nil
}

// EncodeState serializes an engine-private state for Game.StateJSON.
func EncodeState(s interface{}) (string, error) {
	buf := bytespool.Get()
	defer bytespool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("%w: encode state: %v", game.ErrInvalidState, err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// DecodeAction parses client JSON into the action type A. Malformed input is
// a rejected move.
func DecodeAction[A game.Action](data []byte) (game.Action, error) {
	var a A
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, game.Reject(game.ErrInvalidMove, "The move is malformed.")
	}
	return a, nil
}

// ActionAs extracts the engine's own action type from a move.
func ActionAs[A game.Action](m game.Move) (A, error) {
	a, ok := m.Action.(A)
	if !ok {
		var zero A
		return zero, game.Reject(game.ErrInvalidMove, "The move doesn't belong to this game.")
	}
	return a, nil
}

// CheckPlaying rejects moves for games that are not in StagePlaying.
func CheckPlaying(g game.Game) error {
	switch g.Stage {
	case game.StagePlaying:
		return nil
	case game.StageEnded:
		return game.Reject(game.ErrGameEnded, "Game is ended.")
	default:
		return game.Reject(game.ErrGameNotStarted, "Game hasn't started yet.")
	}
}

// WrongTurn is the rejection for a move by a player who may not move now.
func WrongTurn() error {
	return game.Reject(game.ErrWrongTurn, "It's another player's turn.")
}

// CheckPlayerIndex verifies that the mover is a participant of g.
func CheckPlayerIndex(g game.Game, m game.Move) error {
	if m.PlayerIndex < 0 || m.PlayerIndex >= len(g.Players) {
		return game.Reject(game.ErrInvalidMove, "You aren't a participant of this game.")
	}
	return nil
}

// TurnIndex is the player to move after moveIndex moves when firstPlayer moved first.
func TurnIndex(moveIndex, firstPlayer, playerCount int) int {
	return (moveIndex + firstPlayer) % playerCount
}

// NextActive finds the next player after current that has not finished,
// wrapping around. It returns -1 when everyone has finished.
func NextActive(current int, finished []bool) int {
	n := len(finished)
	for step := 1; step <= n; step++ {
		i := (current + step) % n
		if !finished[i] {
			return i
		}
	}
	return -1
}

// CheckPlayerCount verifies that g has a player count the engine can start with.
func CheckPlayerCount(g game.Game, d Descriptor) error {
	n := len(g.Players)
	if n < d.MinPlayerCount || n > d.MaxPlayerCount {
		return fmt.Errorf("%w: %s needs %d..%d players, got %d",
			game.ErrInvalidState, d.ID, d.MinPlayerCount, d.MaxPlayerCount, n)
	}
	return nil
}
