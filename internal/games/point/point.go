// Package point implements Point, a round-based variant of twenty-one played
// with a 36-card deck.
package point

import (
	"fmt"
	"strconv"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/message"
)

const (
	ID         = "point"
	RoundCount = 5
	Target     = 21
)

// Round scores awarded when a hand finishes on a draw.
const (
	ScoreGoldenPoint = 32
	ScorePoint       = 26
	ScoreBust        = 2
)

type Suit string

const (
	Diamonds Suit = "diamonds"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
	Clubs    Suit = "clubs"
)

var suits = []Suit{Diamonds, Hearts, Spades, Clubs}

type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

func (c Card) String() string {
	return c.Rank + " of " + string(c.Suit)
}

var ranks = []struct {
	name  string
	value int
}{
	{"J", 3}, {"Q", 4}, {"K", 5},
	{"6", 6}, {"7", 7}, {"8", 8}, {"9", 9}, {"10", 10},
	{"A", 11},
}

// NewDeck returns the full ordered deck.
func NewDeck() []Card {
	deck := make([]Card, 0, len(suits)*len(ranks))
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r.name, Value: r.value})
		}
	}
	return deck
}

// Total sums the card values of a hand.
func Total(hand []Card) int {
	var t int
	for _, c := range hand {
		t += c.Value
	}
	return t
}

// Settle decides whether a hand that has just taken a card is finished and
// with which round score.
func Settle(hand []Card) (int64, bool) {
	t := Total(hand)
	switch {
	case len(hand) == 2 && t == 2*11:
		return ScoreGoldenPoint, true
	case t == Target:
		return ScorePoint, true
	case t == 20 || t == 19:
		return int64(t), true
	case t > Target:
		return ScoreBust, true
	default:
		return 0, false
	}
}

type State struct {
	Deck             []Card   `json:"deck"`
	Hands            [][]Card `json:"hands"`
	Finished         []bool   `json:"finished"`
	RoundScores      []int64  `json:"roundScores"`
	Current          int      `json:"current"`
	FirstPlayerIndex int      `json:"firstPlayerIndex"`
}

func (s State) clone() State {
	next := State{
		Deck:             append([]Card(nil), s.Deck...),
		Hands:            make([][]Card, len(s.Hands)),
		Finished:         append([]bool(nil), s.Finished...),
		RoundScores:      append([]int64(nil), s.RoundScores...),
		Current:          s.Current,
		FirstPlayerIndex: s.FirstPlayerIndex,
	}
	for i, h := range s.Hands {
		next.Hands[i] = append([]Card(nil), h...)
	}
	return next
}

// Action draws a card, or stops drawing when Skip is set.
type Action struct {
	Skip bool `json:"skip"`
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
		Title:          "Point (21)",
		Icon:           "fa-file-powerpoint",
		MinPlayerCount: 2,
		MaxPlayerCount: 9,
	}
}

func (e *Engine) Create(g game.Game) (game.Game, error) {
	return g.WithRoundCount(RoundCount), nil
}

func (e *Engine) Start(g game.Game) (game.Game, error) {
	if err := engine.CheckPlayerCount(g, e.Descriptor()); err != nil {
		return g, err
	}
	state := e.deal(len(g.Players))
	return withState(g, state, message.MoveTurn(g.Players[state.Current].UserID))
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
	n := len(g.Players)
	if len(state.Hands) != n || len(state.Finished) != n || len(state.RoundScores) != n {
		return g, fmt.Errorf("%w: point state for %d players", game.ErrInvalidState, n)
	}
	if err := engine.CheckPlayerIndex(g, m); err != nil {
		return g, err
	}
	if m.PlayerIndex != state.Current || state.Finished[m.PlayerIndex] {
		return g, engine.WrongTurn()
	}

	p := m.PlayerIndex
	userID := g.Players[p].UserID
	next := state.clone()

	var told message.Message
	if action.Skip || len(next.Deck) == 0 {
		next.Finished[p] = true
		next.RoundScores[p] = int64(Total(next.Hands[p]))
		told = message.New(message.User(userID), message.Text(" stopped with "),
			message.Score(g.ID, next.RoundScores[p]), message.Text(". "))
	} else {
		i := e.rnd.Intn(len(next.Deck))
		card := next.Deck[i]
		next.Deck = append(next.Deck[:i], next.Deck[i+1:]...)
		next.Hands[p] = append(next.Hands[p], card)

		told = message.New(message.User(userID), message.Text(" drew "+card.String()+". "))
		if score, done := Settle(next.Hands[p]); done {
			next.Finished[p] = true
			next.RoundScores[p] = score
			told = message.Concat(told, message.New(
				message.Text("Total "+strconv.Itoa(Total(next.Hands[p]))+", round score "),
				message.Score(g.ID, score), message.Text(". ")))
		}
	}

	current := engine.NextActive(p, next.Finished)
	if current >= 0 {
		next.Current = current
		return withState(g, next, message.Concat(told, message.MoveTurn(g.Players[current].UserID)))
	}

	for i, s := range next.RoundScores {
		g = game.IncrementPlayerScore(g, i, s)
	}
	g.RoundIndex++
	if !g.HasRounds() || g.IsRoundsExhausted() {
		g.Stage = game.StageEnded
		return withState(g, next, message.Concat(told, game.FinalStandings(g)))
	}

	round := e.deal(n)
	msg := message.Concat(told, game.CurrentStandings(g), message.New(message.Text("\n")),
		message.MoveTurn(g.Players[round.Current].UserID))
	return withState(g, round, msg)
}

func (e *Engine) deal(n int) State {
	first := e.rnd.Intn(n)
	return State{
		Deck:             NewDeck(),
		Hands:            make([][]Card, n),
		Finished:         make([]bool, n),
		RoundScores:      make([]int64, n),
		Current:          first,
		FirstPlayerIndex: first,
	}
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
