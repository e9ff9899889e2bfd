// Package game holds the engine-agnostic game aggregate. The engine owning a
// game is the only code that interprets StateJSON.
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloops-games/boardgames/internal/message"
)

type Stage uint8

const (
	StageNew Stage = iota + 1
	StagePlaying
	StageEnded
)

var stageNames = map[Stage]string{
	StageNew:     "new",
	StagePlaying: "playing",
	StageEnded:   "ended",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStage is the inverse of Stage.String.
func ParseStage(s string) (Stage, error) {
	for stage, name := range stageNames {
		if name == s {
			return stage, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageNames[s]; !ok {
		return nil, fmt.Errorf("unknown stage %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	stage, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

type Player struct {
	UserID int64 `json:"userID"`
	Score  int64 `json:"score"`
}

type Game struct {
	ID          string `json:"id"`
	EngineID    string `json:"engineID"`
	OwnerUserID int64  `json:"ownerUserID"`
	IsPublic    bool   `json:"isPublic"`
	Intro       string `json:"intro"`

	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	LastMoveAt *time.Time `json:"lastMoveAt,omitempty"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`

	RoundCount *int `json:"roundCount,omitempty"`
	RoundIndex int  `json:"roundIndex"`

	Stage        Stage           `json:"stage"`
	StateMessage message.Message `json:"stateMessage"`
	StateJSON    string          `json:"stateJSON"`
	Players      []Player        `json:"players"`
}

// New returns a game in StageNew with the owner as its only player.
func New(id, engineID string, ownerUserID int64, createdAt time.Time) Game {
	return Game{
		ID:          id,
		EngineID:    engineID,
		OwnerUserID: ownerUserID,
		CreatedAt:   createdAt,
		Stage:       StageNew,
		Players:     []Player{{UserID: ownerUserID}},
	}
}

func (g Game) HasRounds() bool {
	return g.RoundCount != nil
}

// IsRoundsExhausted reports whether a round-based game has played all its rounds.
func (g Game) IsRoundsExhausted() bool {
	return g.RoundCount != nil && g.RoundIndex >= *g.RoundCount
}

// WithRoundCount returns a copy of g with RoundCount set to n.
func (g Game) WithRoundCount(n int) Game {
	g.RoundCount = &n
	return g
}

// PlayerIndex returns the join-order index of the user or -1.
func (g Game) PlayerIndex(userID int64) int {
	for i, p := range g.Players {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

func (g Game) HasPlayer(userID int64) bool {
	return g.PlayerIndex(userID) >= 0
}

// AddPlayer returns a copy of g with the user appended to the player list.
func (g Game) AddPlayer(userID int64) Game {
	players := make([]Player, len(g.Players), len(g.Players)+1)
	copy(players, g.Players)
	g.Players = append(players, Player{UserID: userID})
	return g
}

// RemovePlayer returns a copy of g without the user.
func (g Game) RemovePlayer(userID int64) Game {
	players := make([]Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.UserID != userID {
			players = append(players, p)
		}
	}
	g.Players = players
	return g
}

// Clone returns a deep copy of g.
func (g Game) Clone() Game {
	g.Players = append([]Player(nil), g.Players...)
	g.StateMessage = message.New(g.StateMessage.Fragments...)
	g.StartedAt = cloneTime(g.StartedAt)
	g.LastMoveAt = cloneTime(g.LastMoveAt)
	g.EndedAt = cloneTime(g.EndedAt)
	if g.RoundCount != nil {
		n := *g.RoundCount
		g.RoundCount = &n
	}
	return g
}

func (g Game) MarshalBinary() ([]byte, error) {
	return json.Marshal(g)
}

func (g *Game) UnmarshalBinary(b []byte) error {
	return json.Unmarshal(b, g)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
