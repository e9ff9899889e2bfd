// Package lobby orchestrates the life cycle of games: creation, joining,
// starting, moves and edits. It is the only writer of games and serializes
// all operations on one game.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloops-games/boardgames/internal/cache"
	"github.com/bloops-games/boardgames/internal/engine"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	MinRoundCount = 1
	MaxRoundCount = 100
)

type Config struct {
	ListLimit    int `envconfig:"BOARDGAMES_LIST_LIMIT" default:"50"`
	FetchWorkers int `envconfig:"BOARDGAMES_FETCH_WORKERS" default:"4"`
}

// Store persists games. Fetch returns an error wrapping game.ErrNotFound for
// unknown ids.
type Store interface {
	Fetch(ctx context.Context, id string) (game.Game, error)
	Store(ctx context.Context, g game.Game) error
	List(ctx context.Context, f game.Filter) ([]game.Game, error)
}

// Publisher delivers the state of a game to its players after each change.
type Publisher interface {
	Publish(ctx context.Context, g game.Game) error
}

// StatRecorder keeps per-player results of ended games.
type StatRecorder interface {
	RecordGame(ctx context.Context, g game.Game) error
}

type Option func(*Service)

func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithStats(r StatRecorder) Option {
	return func(s *Service) { s.stats = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

type Service struct {
	config   Config
	registry *engine.Registry
	store    Store

	cache     cache.Cache
	publisher Publisher
	stats     StatRecorder

	now   func() time.Time
	newID func() string
	locks *keyedMutex
}

func New(config Config, registry *engine.Registry, store Store, opts ...Option) *Service {
	s := &Service{
		config:   config,
		registry: registry,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.FetchWorkers < 1 {
		s.config.FetchWorkers = 1
	}
	return s
}

// Engines describes the registered engines ordered by id.
func (s *Service) Engines() []engine.Descriptor {
	return s.registry.Descriptors()
}

func (s *Service) Create(ctx context.Context, userID int64, engineID string) (game.Game, error) {
	logger := logging.FromContext(ctx).Named("lobby.Service.Create")

	e, ok := s.registry.Get(engineID)
	if !ok {
		return game.Game{}, fmt.Errorf("%w: %q", ErrUnknownEngine, engineID)
	}

	g, err := e.Create(game.New(s.newID(), engineID, userID, s.now()))
	if err != nil {
		return game.Game{}, fmt.Errorf("create %s game: %w", engineID, err)
	}

	if err := s.save(ctx, g); err != nil {
		return game.Game{}, err
	}

	logger.Infow("game created", "gameID", g.ID, "engineID", engineID, "userID", userID)
	return g.Clone(), nil
}

func (s *Service) Join(ctx context.Context, userID int64, id string) (game.Game, error) {
	logger := logging.FromContext(ctx).Named("lobby.Service.Join")

	unlock := s.locks.Lock(id)
	defer unlock()

	g, e, err := s.load(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if g.Stage != game.StageNew {
		return g, ErrAlreadyStarted
	}
	if g.HasPlayer(userID) {
		return g, ErrAlreadyJoined
	}

	d := e.Descriptor()
	if len(g.Players) >= d.MaxPlayerCount {
		return g, ErrGameFull
	}

	next := g.AddPlayer(userID)
	if d.AutoStart && len(next.Players) == d.MaxPlayerCount {
		if next, err = s.start(next, e); err != nil {
			return g, err
		}
		logger.Infow("game auto started", "gameID", id)
	}

	if err := s.save(ctx, next); err != nil {
		return g, err
	}

	logger.Debugw("player joined", "gameID", id, "userID", userID)
	return next.Clone(), nil
}

func (s *Service) Leave(ctx context.Context, userID int64, id string) (game.Game, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	g, _, err := s.load(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if g.Stage != game.StageNew {
		return g, ErrAlreadyStarted
	}
	if !g.HasPlayer(userID) {
		return g, ErrNotJoined
	}
	if g.OwnerUserID == userID {
		return g, ErrOwnerCannotLeave
	}

	next := g.RemovePlayer(userID)
	if err := s.save(ctx, next); err != nil {
		return g, err
	}

	return next.Clone(), nil
}

// Start begins a game. Only the owner may start a game that doesn't start on
// its own; any participant may start an auto-start game early.
func (s *Service) Start(ctx context.Context, userID int64, id string) (game.Game, error) {
	logger := logging.FromContext(ctx).Named("lobby.Service.Start")

	unlock := s.locks.Lock(id)
	defer unlock()

	g, e, err := s.load(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if g.Stage != game.StageNew {
		return g, ErrAlreadyStarted
	}

	d := e.Descriptor()
	if !g.HasPlayer(userID) {
		return g, ErrNotParticipant
	}
	if !d.AutoStart && g.OwnerUserID != userID {
		return g, ErrNotOwner
	}
	if len(g.Players) < d.MinPlayerCount {
		return g, ErrNotEnoughPlayers
	}
	if len(g.Players) > d.MaxPlayerCount {
		return g, ErrTooManyPlayers
	}

	next, err := s.start(g, e)
	if err != nil {
		return g, err
	}
	if err := s.save(ctx, next); err != nil {
		return g, err
	}

	logger.Infow("game started", "gameID", id, "players", len(next.Players))
	return next.Clone(), nil
}

func (s *Service) start(g game.Game, e engine.Engine) (game.Game, error) {
	now := s.now()
	g.Stage = game.StagePlaying
	g.StartedAt = &now
	g.LastMoveAt = &now
	g.RoundIndex = 0

	next, err := e.Start(g)
	if err != nil {
		return g, fmt.Errorf("start %s game %s: %w", g.EngineID, g.ID, err)
	}
	return next, nil
}

// Move decodes payload with the game's engine and applies it for the user.
// Rejected moves leave the stored game untouched.
func (s *Service) Move(ctx context.Context, userID int64, id string, payload []byte) (game.Game, error) {
	logger := logging.FromContext(ctx).Named("lobby.Service.Move")

	unlock := s.locks.Lock(id)
	defer unlock()

	g, e, err := s.load(ctx, id)
	if err != nil {
		return game.Game{}, err
	}

	idx := g.PlayerIndex(userID)
	if idx < 0 {
		return g, ErrNotParticipant
	}

	action, err := e.DecodeAction(payload)
	if err != nil {
		return g, err
	}

	now := s.now()
	next, err := e.Move(g.Clone(), game.Move{PlayerIndex: idx, Time: now, Action: action})
	if err != nil {
		logger.Debugw("move rejected", "gameID", id, "userID", userID, "reason", game.Reason(err))
		return g, err
	}

	next.LastMoveAt = &now
	if next.Stage == game.StageEnded {
		next.EndedAt = &now
	}

	if err := s.save(ctx, next); err != nil {
		return g, err
	}

	if next.Stage == game.StageEnded && s.stats != nil {
		if err := s.stats.RecordGame(ctx, next); err != nil {
			logger.Errorf("record stats of game %s: %v", id, err)
		}
		logger.Infow("game ended", "gameID", id)
	}

	return next.Clone(), nil
}

// EditRequest changes only the fields that are set.
type EditRequest struct {
	IsPublic   *bool
	Intro      *string
	RoundCount *int
}

func (s *Service) Edit(ctx context.Context, userID int64, id string, req EditRequest) (game.Game, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	g, _, err := s.load(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if g.OwnerUserID != userID {
		return g, ErrNotOwner
	}

	next := g.Clone()
	if req.RoundCount != nil {
		switch n := *req.RoundCount; {
		case !g.HasRounds():
			return g, ErrNoRounds
		case g.Stage != game.StageNew:
			return g, ErrAlreadyStarted
		case n < MinRoundCount || n > MaxRoundCount:
			return g, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidRoundCount, n, MinRoundCount, MaxRoundCount)
		default:
			next = next.WithRoundCount(n)
		}
	}
	if req.IsPublic != nil {
		next.IsPublic = *req.IsPublic
	}
	if req.Intro != nil {
		next.Intro = *req.Intro
	}

	if err := s.save(ctx, next); err != nil {
		return g, err
	}

	return next.Clone(), nil
}

func (s *Service) Get(ctx context.Context, id string) (game.Game, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(id); ok {
			return v.(game.Game).Clone(), nil
		}
	}

	g, err := s.store.Fetch(ctx, id)
	if err != nil {
		return game.Game{}, fmt.Errorf("fetch game %s: %w", id, err)
	}

	if s.cache != nil {
		s.cache.Add(id, g.Clone())
	}
	return g, nil
}

// GetMany fetches games concurrently, preserving the order of ids.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]game.Game, error) {
	games := make([]game.Game, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.FetchWorkers)
	for i, id := range ids {
		eg.Go(func() error {
			g, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			games[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return games, nil
}

// Query narrows listings. A zero Limit uses the configured default.
type Query struct {
	EngineID string
	Stage    game.Stage
	Limit    int
}

func (q Query) filter(defaultLimit int) game.Filter {
	limit := q.Limit
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}
	return game.Filter{EngineID: q.EngineID, Stage: q.Stage, Limit: limit}
}

// List returns public games.
func (s *Service) List(ctx context.Context, q Query) ([]game.Game, error) {
	f := q.filter(s.config.ListLimit)
	f.PublicOnly = true

	games, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// ListOwn returns the games the user takes part in.
func (s *Service) ListOwn(ctx context.Context, userID int64, q Query) ([]game.Game, error) {
	f := q.filter(s.config.ListLimit)
	f.UserID = userID

	games, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list games of user %d: %w", userID, err)
	}
	return games, nil
}

func (s *Service) load(ctx context.Context, id string) (game.Game, engine.Engine, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return game.Game{}, nil, err
	}

	e, ok := s.registry.Get(g.EngineID)
	if !ok {
		return game.Game{}, nil, fmt.Errorf("game %s: %w: %q", id, ErrUnknownEngine, g.EngineID)
	}
	return g, e, nil
}

// save validates, persists and publishes g. Publish failures are only logged.
func (s *Service) save(ctx context.Context, g game.Game) error {
	logger := logging.FromContext(ctx).Named("lobby.Service.save")

	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate game %s: %w", g.ID, err)
	}

	if err := s.store.Store(ctx, g); err != nil {
		if s.cache != nil {
			s.cache.Delete(g.ID)
		}
		return fmt.Errorf("store game %s: %w", g.ID, err)
	}

	if s.cache != nil {
		s.cache.Add(g.ID, g.Clone())
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, g.Clone()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnf("publish game %s: %v", g.ID, err)
		}
	}

	return nil
}
