package message

import (
	"strconv"

	"github.com/bloops-games/boardgames/internal/strpool"
)

// NameResolver maps a user id to a display name. ok is false for unknown users.
type NameResolver interface {
	DisplayName(userID int64) (name string, ok bool)
}

// NameResolverFunc adapts a function to NameResolver.
type NameResolverFunc func(userID int64) (string, bool)

func (fn NameResolverFunc) DisplayName(userID int64) (string, bool) {
	return fn(userID)
}

// Render turns a message into human readable text, replacing mentions with
// display names. A nil resolver renders every user as player#id.
func Render(m Message, names NameResolver) string {
	buf := strpool.Get()
	defer strpool.Put(buf)

	for _, f := range m.Fragments {
		switch f.Kind {
		case KindUser:
			buf.WriteString(displayName(names, f.UserID))
		case KindScore:
			buf.WriteString(strconv.FormatInt(f.Score, 10))
		default:
			buf.WriteString(f.Text)
		}
	}
	return buf.String()
}

func displayName(names NameResolver, userID int64) string {
	if names != nil {
		if name, ok := names.DisplayName(userID); ok && name != "" {
			return name
		}
	}
	return "player#" + strconv.FormatInt(userID, 10)
}
