// Package message builds the structured, mention-capable narration that
// engines attach to a game. The chat layer renders or re-parses it.
package message

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bloops-games/boardgames/internal/strpool"
)

type FragmentKind uint8

const (
	KindText FragmentKind = iota + 1
	KindUser
	KindScore
)

// Fragment is one piece of a message: plain text, a user mention or a score mention.
type Fragment struct {
	Kind   FragmentKind `json:"kind"`
	Text   string       `json:"text,omitempty"`
	UserID int64        `json:"userID,omitempty"`
	GameID string       `json:"gameID,omitempty"`
	Score  int64        `json:"score,omitempty"`
}

func Text(text string) Fragment {
	return Fragment{Kind: KindText, Text: text}
}

func User(userID int64) Fragment {
	return Fragment{Kind: KindUser, UserID: userID}
}

func Score(gameID string, score int64) Fragment {
	return Fragment{Kind: KindScore, GameID: gameID, Score: score}
}

// String renders the fragment in the markup understood by the chat parser.
func (f Fragment) String() string {
	switch f.Kind {
	case KindUser:
		return "@user[" + strconv.FormatInt(f.UserID, 10) + "]"
	case KindScore:
		return "@score[" + f.GameID + "," + strconv.FormatInt(f.Score, 10) + "]"
	default:
		return strings.ReplaceAll(f.Text, "@", "@@")
	}
}

// Message is an ordered list of fragments plus its rendered markup.
type Message struct {
	Fragments []Fragment `json:"fragments"`
	Text      string     `json:"text"`
}

func New(fragments ...Fragment) Message {
	if len(fragments) == 0 {
		return Message{}
	}
	fs := make([]Fragment, len(fragments))
	copy(fs, fragments)
	return Message{Fragments: fs, Text: format(fs)}
}

// Concat joins messages in order into a new one.
func Concat(msgs ...Message) Message {
	var fs []Fragment
	for _, m := range msgs {
		fs = append(fs, m.Fragments...)
	}
	return New(fs...)
}

func (m Message) IsEmpty() bool {
	return len(m.Fragments) == 0
}

func (m Message) String() string {
	return m.Text
}

// Mentions returns the ids of all mentioned users in order of appearance.
func (m Message) Mentions() []int64 {
	var ids []int64
	for _, f := range m.Fragments {
		if f.Kind == KindUser {
			ids = append(ids, f.UserID)
		}
	}
	return ids
}

func (m *Message) UnmarshalJSON(b []byte) error {
	type plain Message
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = Message(p)
	if m.Text == "" && len(m.Fragments) > 0 {
		m.Text = format(m.Fragments)
	}
	return nil
}

func format(fragments []Fragment) string {
	buf := strpool.Get()
	defer strpool.Put(buf)

	for _, f := range fragments {
		buf.WriteString(f.String())
	}
	return buf.String()
}
