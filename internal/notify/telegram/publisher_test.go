package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/games"
	"github.com/bloops-games/boardgames/internal/message"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	fail map[int64]bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	if f.fail[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

var names = message.NameResolverFunc(func(userID int64) (string, bool) {
	if userID == 1 {
		return "Ann_B", true
	}
	return "", false
})

func newGame() game.Game {
	g := game.New("g-1", "tictactoe", 1, time.Date(2021, 2, 7, 0, 0, 0, 0, time.UTC)).AddPlayer(2)
	g.Stage = game.StagePlaying
	g.StateMessage = message.MoveTurn(1)
	return g
}

func TestPublishSendsToEveryPlayer(t *testing.T) {
	t.Parallel()

	tg := &fakeSender{}
	p := NewPublisher(tg, names, games.Registry(engine.NewSeededRand(1)))

	if err := p.Publish(context.Background(), newGame()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(tg.sent) != 2 || tg.sent[0].ChatID != 1 || tg.sent[1].ChatID != 2 {
		t.Fatalf("unexpected sends %#v", tg.sent)
	}

	text := tg.sent[0].Text
	if tg.sent[0].ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("expected markdown, got %q", tg.sent[0].ParseMode)
	}
	if !strings.Contains(text, "*Tic Tac Toe*") || !strings.HasSuffix(text, "Ann\\_B, your turn!") {
		t.Errorf("unexpected text %q", text)
	}
}

func TestPublishSkipsEmptyMessage(t *testing.T) {
	t.Parallel()

	tg := &fakeSender{}
	g := newGame()
	g.StateMessage = message.Message{}

	if err := NewPublisher(tg, nil, nil).Publish(context.Background(), g); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(tg.sent) != 0 {
		t.Errorf("expected nothing sent, got %d", len(tg.sent))
	}
}

func TestPublishKeepsSendingAfterFailure(t *testing.T) {
	t.Parallel()

	tg := &fakeSender{fail: map[int64]bool{1: true}}
	err := NewPublisher(tg, nil, nil).Publish(context.Background(), newGame())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(tg.sent) != 1 || tg.sent[0].ChatID != 2 {
		t.Errorf("expected the second player to be notified, got %#v", tg.sent)
	}
	if !strings.Contains(tg.sent[0].Text, "player#1, your turn!") {
		t.Errorf("unexpected text %q", tg.sent[0].Text)
	}
}
