package lobby

import (
	"errors"

	"github.com/bloops-games/boardgames/internal/game"
)

var (
	ErrNotFound          = game.ErrNotFound
	ErrUnknownEngine     = errors.New("unknown engine")
	ErrAlreadyJoined     = errors.New("already joined")
	ErrNotJoined         = errors.New("not joined")
	ErrGameFull          = errors.New("game is full")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrTooManyPlayers    = errors.New("too many players")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrNotOwner          = errors.New("not the owner of the game")
	ErrOwnerCannotLeave  = errors.New("the owner cannot leave the game")
	ErrNotParticipant    = errors.New("not a participant of the game")
	ErrNoRounds          = errors.New("game has no rounds")
	ErrInvalidRoundCount = errors.New("invalid round count")
)
