package message

import (
	"strconv"

	"github.com/enescakir/emoji"
)

func Win(userID int64) Message {
	return New(User(userID), Text(" won!"))
}

// WinWithScore credits the winner with a score mention, e.g. steps taken.
func WinWithScore(userID int64, gameID string, score int64) Message {
	return New(User(userID), Text(" won with "), Score(gameID, score), Text("!"))
}

func MoveTurn(userID int64) Message {
	return New(User(userID), Text(", your turn!"))
}

func Draw() Message {
	return New(Text("It's a draw!"))
}

func RoundWin(userID int64, round int) Message {
	return New(User(userID), Text(" won round "+strconv.Itoa(round)+". "))
}

func RoundDraw(round int) Message {
	return New(Text("Round " + strconv.Itoa(round) + " is a draw. "))
}

// MakeYourChoice asks the listed users to vote; with no users it addresses everyone.
func MakeYourChoice(userIDs ...int64) Message {
	if len(userIDs) == 0 {
		return New(Text("Make your choice!"))
	}

	fs := make([]Fragment, 0, 2*len(userIDs)+1)
	for i, id := range userIDs {
		if i > 0 {
			fs = append(fs, Text(", "))
		}
		fs = append(fs, User(id))
	}
	fs = append(fs, Text(", make your choice!"))
	return New(fs...)
}

// Entry is one line of a standings table.
type Entry struct {
	UserID int64
	Score  int64
}

// CurrentStandings lists entries in the given order after a round.
func CurrentStandings(gameID string, round, roundCount int, entries []Entry) Message {
	title := emoji.ChequeredFlag.String() + " Standings after round " + strconv.Itoa(round) +
		" of " + strconv.Itoa(roundCount) + ":"
	return standings(title, gameID, entries)
}

// FinalStandings lists entries in the given order once the game is over.
func FinalStandings(gameID string, entries []Entry) Message {
	return standings(emoji.Trophy.String()+" Final standings:", gameID, entries)
}

func standings(title, gameID string, entries []Entry) Message {
	fs := make([]Fragment, 0, 4*len(entries)+1)
	fs = append(fs, Text(title))
	for i, e := range entries {
		fs = append(fs,
			Text("\n"+strconv.Itoa(i+1)+". "),
			User(e.UserID),
			Text(" - "),
			Score(gameID, e.Score),
		)
	}
	return New(fs...)
}
