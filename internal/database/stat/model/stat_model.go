package model

import (
	"time"

	"github.com/google/uuid"
)

// NewStat returns a result row for one player of an ended game.
func NewStat(userID int64, gameID, engineID string, createdAt time.Time) Stat {
	return Stat{ID: uuid.New(), UserID: userID, GameID: gameID, EngineID: engineID, CreatedAt: createdAt}
}

type Stat struct {
	ID       uuid.UUID `json:"-"`
	UserID   int64     `json:"userID"`
	GameID   string    `json:"gameID"`
	EngineID string    `json:"engineID"`

	Score      int64 `json:"score"`
	Place      int   `json:"place"`
	Winner     bool  `json:"winner"`
	PlayersNum int   `json:"playersNum"`

	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

type EngineStat struct {
	Played int `json:"played"`
	Won    int `json:"won"`
}

type AggregationStat struct {
	Count       int
	Wins        int
	BestScore   int64
	WorstScore  int64
	AvgScore    int64
	AvgDuration time.Duration
	ByEngine    map[string]EngineStat
}
