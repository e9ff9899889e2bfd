package game

import (
	"sort"

	"github.com/bloops-games/boardgames/internal/message"
)

// SetPlayerScore returns a copy of g where only the indexed player's score is
// replaced. The receiver's player slice is left untouched.
func SetPlayerScore(g Game, playerIndex int, score int64) Game {
	players := make([]Player, len(g.Players))
	copy(players, g.Players)
	players[playerIndex].Score = score
	g.Players = players
	return g
}

// IncrementPlayerScore adds delta to the indexed player's score on a copy of g.
func IncrementPlayerScore(g Game, playerIndex int, delta int64) Game {
	return SetPlayerScore(g, playerIndex, g.Players[playerIndex].Score+delta)
}

// Standing is a player with its join-order index.
type Standing struct {
	Player
	Index int
}

// Standings returns players sorted by descending score; ties keep join order.
func Standings(g Game) []Standing {
	standings := make([]Standing, len(g.Players))
	for i, p := range g.Players {
		standings[i] = Standing{Player: p, Index: i}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	return standings
}

func standingEntries(g Game) []message.Entry {
	standings := Standings(g)
	entries := make([]message.Entry, len(standings))
	for i, s := range standings {
		entries[i] = message.Entry{UserID: s.UserID, Score: s.Score}
	}
	return entries
}

// FinalStandings narrates the final table of g.
func FinalStandings(g Game) message.Message {
	return message.FinalStandings(g.ID, standingEntries(g))
}

// CurrentStandings narrates the table of g after the last completed round.
func CurrentStandings(g Game) message.Message {
	var roundCount int
	if g.RoundCount != nil {
		roundCount = *g.RoundCount
	}
	return message.CurrentStandings(g.ID, g.RoundIndex, roundCount, standingEntries(g))
}
