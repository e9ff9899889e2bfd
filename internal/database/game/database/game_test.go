package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloops-games/boardgames/internal/database/databasetest"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/message"
)

func TestStoreFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := New(databasetest.NewDB(t))

	if _, err := db.Fetch(ctx, "missing"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	created := time.Date(2021, 2, 7, 0, 0, 0, 0, time.UTC)
	g := game.New("g1", "rps", 7, created).AddPlayer(8).WithRoundCount(3)
	g.StateJSON = `{"votes":["none","none"]}`
	g.StateMessage = message.MakeYourChoice(7, 8)

	if err := db.Store(ctx, g); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := db.Fetch(ctx, "g1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.ID != g.ID || len(got.Players) != 2 || *got.RoundCount != 3 || got.StateJSON != g.StateJSON {
		t.Errorf("expected %#v got %#v", g, got)
	}
	if got.StateMessage.Text != g.StateMessage.Text || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected message or time %#v", got)
	}

	if err := db.Delete(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Fetch(ctx, "g1"); !errors.Is(err, game.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete got %v", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := New(databasetest.NewDB(t))

	if list, err := db.List(ctx, game.Filter{}); err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}

	base := time.Date(2021, 2, 7, 0, 0, 0, 0, time.UTC)
	for i, engineID := range []string{"dice", "point", "dice"} {
		g := game.New(string(rune('a'+i)), engineID, int64(i+1), base.Add(time.Duration(i)*time.Minute))
		if err := db.Store(ctx, g); err != nil {
			t.Fatalf("store: %v", err)
		}
	}

	list, err := db.List(ctx, game.Filter{EngineID: "dice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "a" {
		t.Errorf("unexpected list %#v", list)
	}
}
