// Package enginetest provides helpers for testing engines deterministically.
package enginetest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bloops-games/boardgames/internal/game"
)

// Sequence is a scripted random source. Each Intn call returns the next
// value modulo n; once exhausted it keeps returning zero.
type Sequence struct {
	mtx    sync.Mutex
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Intn(n int) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if n <= 0 {
		panic(fmt.Sprintf("enginetest: invalid argument to Intn: %d", n))
	}
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

// Push appends draws to the script.
func (s *Sequence) Push(values ...int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.values = append(s.values, values...)
}

var epoch = time.Date(2021, 2, 7, 0, 39, 4, 0, time.UTC)

// NewGame returns a game in StagePlaying with one player per user id, the
// way the lobby hands it to Engine.Start.
func NewGame(t testing.TB, engineID string, userIDs ...int64) game.Game {
	t.Helper()
	if len(userIDs) == 0 {
		t.Fatal("enginetest: at least one user is required")
	}

	g := game.New("game-"+engineID, engineID, userIDs[0], epoch)
	for _, id := range userIDs[1:] {
		g = g.AddPlayer(id)
	}
	started := epoch.Add(time.Minute)
	g.StartedAt = &started
	g.LastMoveAt = &started
	g.Stage = game.StagePlaying
	return g
}

// Move builds a move the way the lobby does.
func Move(playerIndex int, action game.Action) game.Move {
	return game.Move{PlayerIndex: playerIndex, Time: epoch.Add(time.Hour), Action: action}
}
