package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bloops-games/boardgames/internal/buildinfo"
	"github.com/bloops-games/boardgames/internal/cache"
	"github.com/bloops-games/boardgames/internal/database"
	gameDb "github.com/bloops-games/boardgames/internal/database/game/database"
	"github.com/bloops-games/boardgames/internal/database/sqlite"
	statDb "github.com/bloops-games/boardgames/internal/database/stat/database"
	userdb "github.com/bloops-games/boardgames/internal/database/user/database"
	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/games"
	"github.com/bloops-games/boardgames/internal/lobby"
	"github.com/bloops-games/boardgames/internal/logging"
	"github.com/bloops-games/boardgames/internal/notify/telegram"
	"github.com/bloops-games/boardgames/internal/shutdown"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
)

var version string

type Config struct {
	// Logging of lobby operations at debug level
	Debug bool `envconfig:"BOARDGAMES_DEBUG" default:"false"`

	// Number of items in each cache
	CacheSize int `envconfig:"BOARDGAMES_CACHE_SIZE" default:"1024"`

	Db       database.Config
	SQLite   sqlite.Config
	Lobby    lobby.Config
	Telegram telegram.Config
}

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, buildinfo.GreetingCLI, buildinfo.ProjectName, version, buildinfo.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)
	if err := realMain(ctx, config, done); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config Config, done func()) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	userCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	statCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	gameCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	var store lobby.Store = gameDb.New(db)
	if config.SQLite.FilePath != "" {
		sqlStore, err := sqlite.Open(ctx, config.SQLite.FilePath)
		if err != nil {
			return fmt.Errorf("sqlite open: %w", err)
		}

		defer sqlStore.Close()

		logger.Infof("storing games in sqlite %s", config.SQLite.FilePath)
		store = sqlStore
	}

	users := userdb.New(db, userCache)
	stats := statDb.New(db, statCache)
	registry := games.Registry(engine.NewRand())

	opts := []lobby.Option{lobby.WithCache(gameCache), lobby.WithStats(stats)}
	if config.Telegram.BotToken != "" {
		tg, err := tgbotapi.NewBotAPI(config.Telegram.BotToken)
		if err != nil {
			return fmt.Errorf("bot api: %w", err)
		}

		tg.Debug = config.Telegram.Debug
		_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")

		opts = append(opts, lobby.WithPublisher(telegram.NewPublisher(tg, users, registry)))
	}

	sh := newShell(lobby.New(config.Lobby, registry, store, opts...), users, stats, os.Stdout)
	if err := sh.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	done()
	return nil
}
