// Package telegram delivers game state to players' private Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/logging"
	"github.com/bloops-games/boardgames/internal/message"
	"github.com/bloops-games/boardgames/internal/strpool"
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type Config struct {
	BotToken string `envconfig:"BOARDGAMES_TG_TOKEN"`
	Debug    bool   `envconfig:"BOARDGAMES_TG_DEBUG" default:"false"`
}

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Publisher struct {
	tg       Sender
	names    message.NameResolver
	registry *engine.Registry
}

func NewPublisher(tg Sender, names message.NameResolver, registry *engine.Registry) *Publisher {
	return &Publisher{tg: tg, names: names, registry: registry}
}

// Publish sends the rendered state message to every player. A player's chat
// id is their user id. Games without a state message are skipped.
func (p *Publisher) Publish(ctx context.Context, g game.Game) error {
	logger := logging.FromContext(ctx).Named("telegram.Publisher.Publish")

	if g.StateMessage.IsEmpty() {
		return nil
	}

	text := p.Render(g)
	var firstErr error
	for _, player := range g.Players {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(player.UserID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := p.tg.Send(msg); err != nil {
			logger.Errorf("send to %d: %v", player.UserID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("send game %s to %d: %w", g.ID, player.UserID, err)
			}
		}
	}

	return firstErr
}

// Render formats the game header and its state message as Telegram Markdown.
func (p *Publisher) Render(g game.Game) string {
	buf := strpool.Get()
	defer strpool.Put(buf)

	title := g.EngineID
	if p.registry != nil {
		if e, ok := p.registry.Get(g.EngineID); ok {
			title = e.Descriptor().Title
		}
	}

	if g.Stage == game.StageEnded {
		buf.WriteString(emoji.ChequeredFlag.String())
	} else {
		buf.WriteString(emoji.Joystick.String())
	}
	buf.WriteString(" *")
	buf.WriteString(escape(title))
	buf.WriteString("* `")
	buf.WriteString(g.ID)
	buf.WriteString("`\n")
	if g.Intro != "" {
		buf.WriteString("_")
		buf.WriteString(escape(g.Intro))
		buf.WriteString("_\n")
	}
	buf.WriteString("\n")
	buf.WriteString(escape(message.Render(g.StateMessage, p.names)))

	return buf.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
