package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	statDb "github.com/bloops-games/boardgames/internal/database/stat/database"
	userdb "github.com/bloops-games/boardgames/internal/database/user/database"
	"github.com/bloops-games/boardgames/internal/database/user/model"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/lobby"
	"github.com/bloops-games/boardgames/internal/logging"
	"github.com/bloops-games/boardgames/internal/message"
	"github.com/bloops-games/boardgames/internal/util"
)

var errQuit = errors.New("quit")

type command struct {
	usage string
	run   func(ctx context.Context, args []string, rest string) error
}

// shell drives the lobby from text commands on behalf of one user at a time.
type shell struct {
	svc   *lobby.Service
	users *userdb.DB
	stats *statDb.DB
	out   io.Writer

	userID   int64
	commands map[string]command
}

func newShell(svc *lobby.Service, users *userdb.DB, stats *statDb.DB, out io.Writer) *shell {
	sh := &shell{svc: svc, users: users, stats: stats, out: out}
	sh.commands = map[string]command{
		"as":      {usage: "as <user id> [first name]", run: sh.as},
		"engines": {usage: "engines", run: sh.engines},
		"create":  {usage: "create <engine>", run: sh.create},
		"join":    {usage: "join <game>", run: sh.gameOp(sh.svc.Join)},
		"leave":   {usage: "leave <game>", run: sh.gameOp(sh.svc.Leave)},
		"start":   {usage: "start <game>", run: sh.gameOp(sh.svc.Start)},
		"move":    {usage: "move <game> <json action>", run: sh.move},
		"edit":    {usage: "edit <game> public|private|rounds <n>|intro <text>", run: sh.edit},
		"show":    {usage: "show <game>", run: sh.show},
		"list":    {usage: "list [engine] [new|playing|ended]", run: sh.list},
		"mine":    {usage: "mine", run: sh.mine},
		"profile": {usage: "profile [user id]", run: sh.profile},
		"quit":    {usage: "quit", run: func(context.Context, []string, string) error { return errQuit }},
	}
	sh.commands["help"] = command{usage: "help", run: sh.help}

	return sh
}

// Run reads commands line by line until quit, EOF or cancellation.
func (sh *shell) Run(ctx context.Context, in io.Reader) error {
	logger := logging.FromContext(ctx).Named("main.shell.Run")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	sh.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			err := sh.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				logger.Debugf("command %q: %v", line, err)
				sh.printf("error: %s\n", game.Reason(err))
			}
			sh.prompt()
		}
	}
}

// Exec runs a single command line.
func (sh *shell) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	name, rest := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		name, rest = line[:i], strings.TrimSpace(line[i+1:])
	}
	cmd, ok := sh.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", name)
	}

	return cmd.run(ctx, strings.Fields(rest), rest)
}

func (sh *shell) prompt() {
	if sh.userID == 0 {
		sh.printf("> ")
		return
	}
	sh.printf("%s> ", sh.name(sh.userID))
}

func (sh *shell) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(sh.out, format, args...)
}

func (sh *shell) name(userID int64) string {
	return message.Render(message.New(message.User(userID)), sh.users)
}

func (sh *shell) currentUser() (int64, error) {
	if sh.userID == 0 {
		return 0, errors.New("no user, use as <user id> first")
	}
	return sh.userID, nil
}

func (sh *shell) help(_ context.Context, _ []string, _ string) error {
	names := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sh.printf("  %s\n", sh.commands[name].usage)
	}
	return nil
}

func (sh *shell) as(_ context.Context, args []string, _ string) error {
	if len(args) == 0 {
		return errors.New("usage: as <user id> [first name]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	if len(args) > 1 {
		u, err := sh.users.Fetch(id)
		if err != nil {
			if !errors.Is(err, userdb.ErrNotFound) {
				return fmt.Errorf("fetch user: %w", err)
			}
			u = model.User{ID: id, CreatedAt: time.Now().UTC()}
		}
		u.FirstName = strings.Join(args[1:], " ")
		if err := sh.users.Store(u); err != nil {
			return fmt.Errorf("store user: %w", err)
		}
	}

	sh.userID = id
	return nil
}

func (sh *shell) engines(_ context.Context, _ []string, _ string) error {
	for _, d := range sh.svc.Engines() {
		start := "manual start"
		if d.AutoStart {
			start = "starts when full"
		}
		sh.printf("  %-10s %-24s %d-%d players, %s\n", d.ID, d.Title, d.MinPlayerCount, d.MaxPlayerCount, start)
	}
	return nil
}

func (sh *shell) create(ctx context.Context, args []string, _ string) error {
	userID, err := sh.currentUser()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: create <engine>")
	}

	g, err := sh.svc.Create(ctx, userID, args[0])
	if err != nil {
		return err
	}
	sh.printGame(g)
	return nil
}

type gameFn func(ctx context.Context, userID int64, id string) (game.Game, error)

func (sh *shell) gameOp(fn gameFn) func(context.Context, []string, string) error {
	return func(ctx context.Context, args []string, _ string) error {
		userID, err := sh.currentUser()
		if err != nil {
			return err
		}
		if len(args) != 1 {
			return errors.New("a game id is required")
		}

		g, err := fn(ctx, userID, args[0])
		if err != nil {
			return err
		}
		sh.printGame(g)
		return nil
	}
}

func (sh *shell) move(ctx context.Context, args []string, rest string) error {
	userID, err := sh.currentUser()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: move <game> <json action>")
	}

	payload := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	g, err := sh.svc.Move(ctx, userID, args[0], []byte(payload))
	if err != nil {
		return err
	}
	sh.printGame(g)
	return nil
}

func (sh *shell) edit(ctx context.Context, args []string, rest string) error {
	userID, err := sh.currentUser()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: edit <game> public|private|rounds <n>|intro <text>")
	}

	var req lobby.EditRequest
	switch args[1] {
	case "public", "private":
		public := args[1] == "public"
		req.IsPublic = &public
	case "rounds":
		if len(args) != 3 {
			return errors.New("usage: edit <game> rounds <n>")
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid round count %q", args[2])
		}
		req.RoundCount = &n
	case "intro":
		intro := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(rest, args[0]), " intro"))
		req.Intro = &intro
	default:
		return fmt.Errorf("unknown field %q", args[1])
	}

	g, err := sh.svc.Edit(ctx, userID, args[0], req)
	if err != nil {
		return err
	}
	sh.printGame(g)
	return nil
}

func (sh *shell) show(ctx context.Context, args []string, _ string) error {
	if len(args) != 1 {
		return errors.New("usage: show <game>")
	}
	g, err := sh.svc.Get(ctx, args[0])
	if err != nil {
		return err
	}
	sh.printGame(g)
	sh.printf("  state: %s\n", g.StateJSON)
	return nil
}

func (sh *shell) list(ctx context.Context, args []string, _ string) error {
	var q lobby.Query
	for _, arg := range args {
		if stage, err := game.ParseStage(arg); err == nil {
			q.Stage = stage
			continue
		}
		q.EngineID = arg
	}

	games, err := sh.svc.List(ctx, q)
	if err != nil {
		return err
	}
	sh.printList(games)
	return nil
}

func (sh *shell) mine(ctx context.Context, _ []string, _ string) error {
	userID, err := sh.currentUser()
	if err != nil {
		return err
	}
	games, err := sh.svc.ListOwn(ctx, userID, lobby.Query{})
	if err != nil {
		return err
	}
	sh.printList(games)
	return nil
}

func (sh *shell) profile(_ context.Context, args []string, _ string) error {
	userID := sh.userID
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		userID = id
	}
	if userID == 0 {
		return errors.New("no user, use as <user id> first")
	}

	stat, err := sh.stats.FetchProfileStat(userID)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	sh.printf("%s: %s, %s\n", sh.name(userID), util.Count(stat.Count, "game", "games"), util.Count(stat.Wins, "win", "wins"))
	if stat.Count == 0 {
		return nil
	}
	sh.printf("  best %d, worst %d, average %d, average duration %s\n",
		stat.BestScore, stat.WorstScore, stat.AvgScore, stat.AvgDuration.Round(time.Second))

	engines := make([]string, 0, len(stat.ByEngine))
	for id := range stat.ByEngine {
		engines = append(engines, id)
	}
	sort.Strings(engines)
	for _, id := range engines {
		es := stat.ByEngine[id]
		sh.printf("  %-10s played %d, won %d\n", id, es.Played, es.Won)
	}
	return nil
}

func (sh *shell) printGame(g game.Game) {
	visibility := "private"
	if g.IsPublic {
		visibility = "public"
	}
	sh.printf("%s [%s] %s, %s, owner %s\n", g.ID, g.EngineID, g.Stage, visibility, sh.name(g.OwnerUserID))
	if g.Intro != "" {
		sh.printf("  %s\n", g.Intro)
	}
	if g.HasRounds() {
		sh.printf("  round %d of %d\n", g.RoundIndex+1, *g.RoundCount)
	}
	for _, p := range g.Players {
		sh.printf("  %-20s %d\n", sh.name(p.UserID), p.Score)
	}
	if !g.StateMessage.IsEmpty() {
		sh.printf("  %s\n", message.Render(g.StateMessage, sh.users))
	}
}

func (sh *shell) printList(games []game.Game) {
	if len(games) == 0 {
		sh.printf("no games\n")
		return
	}
	for _, g := range games {
		sh.printf("  %s [%s] %s, %s\n", g.ID, g.EngineID, g.Stage, util.Count(len(g.Players), "player", "players"))
	}
}
