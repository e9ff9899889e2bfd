// Package rps implements simultaneous Rock-Paper-Scissors for up to ten
// players. A round resolves once everybody has voted.
package rps

import (
	"fmt"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/message"
)

const (
	ID         = "rps"
	RoundCount = 10
)

type Vote uint8

const (
	None Vote = iota
	Rock
	Paper
	Scissors
)

// VoteKinds is the size of per-vote counters, None included.
const VoteKinds = 4

var voteNames = map[Vote]string{
	None:     "none",
	Rock:     "rock",
	Paper:    "paper",
	Scissors: "scissors",
}

func (v Vote) String() string {
	if name, ok := voteNames[v]; ok {
		return name
	}
	return "unknown"
}

func (v Vote) MarshalText() ([]byte, error) {
	if _, ok := voteNames[v]; !ok {
		return nil, fmt.Errorf("unknown vote %d", v)
	}
	return []byte(v.String()), nil
}

func (v *Vote) UnmarshalText(b []byte) error {
	for vote, name := range voteNames {
		if name == string(b) {
			*v = vote
			return nil
		}
	}
	return fmt.Errorf("unknown vote %q", b)
}

// Beats reports whether v wins over other.
func (v Vote) Beats(other Vote) bool {
	switch v {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	default:
		return false
	}
}

// Delta is the round score of a player who voted mine when the whole table
// voted votes, the player's own vote included: two points for every vote
// mine beats, one for every tie, minus one.
func Delta(mine Vote, votes []Vote) int64 {
	var points int64
	for _, other := range votes {
		switch {
		case mine.Beats(other):
			points += 2
		case mine == other:
			points++
		}
	}
	return points - 1
}

type State struct {
	Votes           []Vote           `json:"votes"`
	LastVotes       []Vote           `json:"lastVotes,omitempty"`
	LastVoteCounts  [VoteKinds]int64 `json:"lastVoteCounts"`
	TotalVoteCounts [VoteKinds]int64 `json:"totalVoteCounts"`
}

// Waiting returns the indices of players that haven't voted this round.
func (s State) Waiting() []int {
	var idx []int
	for i, v := range s.Votes {
		if v == None {
			idx = append(idx, i)
		}
	}
	return idx
}

type Action struct {
	Vote Vote `json:"vote"`
}

func (Action) EngineID() string { return ID }

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

var _ engine.Engine = (*Engine)(nil)

func (e *Engine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		ID:             ID,
		Title:          "Rock Paper Scissors",
		Icon:           "fa-hand-scissors",
		MinPlayerCount: 2,
		MaxPlayerCount: 10,
	}
}

func (e *Engine) Create(g game.Game) (game.Game, error) {
	return g.WithRoundCount(RoundCount), nil
}

func (e *Engine) Start(g game.Game) (game.Game, error) {
	if err := engine.CheckPlayerCount(g, e.Descriptor()); err != nil {
		return g, err
	}
	state := State{Votes: make([]Vote, len(g.Players))}
	return withState(g, state, waitingFor(g, state))
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
	if len(state.Votes) != len(g.Players) {
		return g, fmt.Errorf("%w: %d votes for %d players", game.ErrInvalidState, len(state.Votes), len(g.Players))
	}
	if err := engine.CheckPlayerIndex(g, m); err != nil {
		return g, err
	}
	if state.Votes[m.PlayerIndex] != None {
		return g, game.Reject(game.ErrWrongTurn, "You have already voted this round.")
	}
	if action.Vote == None || action.Vote > Scissors {
		return g, game.Reject(game.ErrInvalidMove, "Choose rock, paper or scissors.")
	}

	next := state
	next.Votes = append([]Vote(nil), state.Votes...)
	next.Votes[m.PlayerIndex] = action.Vote
	if len(next.Waiting()) > 0 {
		return withState(g, next, waitingFor(g, next))
	}

	var counts [VoteKinds]int64
	for i, v := range next.Votes {
		g = game.IncrementPlayerScore(g, i, Delta(v, next.Votes))
		counts[v]++
	}
	for i := range counts {
		next.TotalVoteCounts[i] += counts[i]
	}
	next.LastVoteCounts = counts
	next.LastVotes = next.Votes
	next.Votes = make([]Vote, len(g.Players))

	g.RoundIndex++
	if !g.HasRounds() || g.IsRoundsExhausted() {
		g.Stage = game.StageEnded
		return withState(g, next, game.FinalStandings(g))
	}

	msg := message.Concat(game.CurrentStandings(g), message.New(message.Text("\n")), message.MakeYourChoice())
	return withState(g, next, msg)
}

func waitingFor(g game.Game, s State) message.Message {
	waiting := s.Waiting()
	ids := make([]int64, len(waiting))
	for i, idx := range waiting {
		ids[i] = g.Players[idx].UserID
	}
	return message.MakeYourChoice(ids...)
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
