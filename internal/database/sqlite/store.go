// Package sqlite provides a SQLite-backed game store. Games live in the games
// table and their players, in join order, in game_players.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bloops-games/boardgames/internal/database/sqlite/migrations"
	"github.com/bloops-games/boardgames/internal/game"
	"github.com/bloops-games/boardgames/internal/message"
	_ "modernc.org/sqlite"
)

type Config struct {
	FilePath string `envconfig:"BOARDGAMES_SQLITE_PATH"`
}

// Store persists games in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func timeFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// Open opens the database file at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Store inserts or replaces the game and its player list in one transaction.
func (s *Store) Store(ctx context.Context, g game.Game) error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}

	stage, err := g.Stage.MarshalText()
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	stateMessage, err := json.Marshal(g.StateMessage)
	if err != nil {
		return fmt.Errorf("marshal state message: %w", err)
	}
	var roundCount sql.NullInt64
	if g.RoundCount != nil {
		roundCount = sql.NullInt64{Int64: int64(*g.RoundCount), Valid: true}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	if _, err := tx.ExecContext(ctx, `
INSERT INTO games (
    id, engine_id, owner_user_id, is_public, intro,
    created_at, started_at, last_move_at, ended_at,
    round_count, round_index, stage, state_message, state_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    engine_id = excluded.engine_id,
    owner_user_id = excluded.owner_user_id,
    is_public = excluded.is_public,
    intro = excluded.intro,
    created_at = excluded.created_at,
    started_at = excluded.started_at,
    last_move_at = excluded.last_move_at,
    ended_at = excluded.ended_at,
    round_count = excluded.round_count,
    round_index = excluded.round_index,
    stage = excluded.stage,
    state_message = excluded.state_message,
    state_json = excluded.state_json`,
		g.ID, g.EngineID, g.OwnerUserID, g.IsPublic, g.Intro,
		toMillis(g.CreatedAt), nullMillis(g.StartedAt), nullMillis(g.LastMoveAt), nullMillis(g.EndedAt),
		roundCount, g.RoundIndex, string(stage), string(stateMessage), g.StateJSON,
	); err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clear players of %s: %w", g.ID, err)
	}
	for i, p := range g.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, position, user_id, score) VALUES (?, ?, ?, ?)`,
			g.ID, i, p.UserID, p.Score,
		); err != nil {
			return fmt.Errorf("insert player %d of %s: %w", p.UserID, g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const selectGame = `
SELECT id, engine_id, owner_user_id, is_public, intro,
       created_at, started_at, last_move_at, ended_at,
       round_count, round_index, stage, state_message, state_json
FROM games`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row scanner) (game.Game, error) {
	var (
		g                     game.Game
		createdAt             int64
		startedAt, lastMoveAt sql.NullInt64
		endedAt, roundCount   sql.NullInt64
		stage, stateMessage   string
	)
	if err := row.Scan(
		&g.ID, &g.EngineID, &g.OwnerUserID, &g.IsPublic, &g.Intro,
		&createdAt, &startedAt, &lastMoveAt, &endedAt,
		&roundCount, &g.RoundIndex, &stage, &stateMessage, &g.StateJSON,
	); err != nil {
		return g, err
	}

	g.CreatedAt = fromMillis(createdAt)
	g.StartedAt = timeFromNull(startedAt)
	g.LastMoveAt = timeFromNull(lastMoveAt)
	g.EndedAt = timeFromNull(endedAt)
	if roundCount.Valid {
		g = g.WithRoundCount(int(roundCount.Int64))
	}
	if err := g.Stage.UnmarshalText([]byte(stage)); err != nil {
		return g, fmt.Errorf("stage of %s: %w", g.ID, err)
	}
	var msg message.Message
	if err := json.Unmarshal([]byte(stateMessage), &msg); err != nil {
		return g, fmt.Errorf("state message of %s: %w", g.ID, err)
	}
	g.StateMessage = msg

	return g, nil
}

func (s *Store) Fetch(ctx context.Context, id string) (game.Game, error) {
	g, err := scanGame(s.sqlDB.QueryRowContext(ctx, selectGame+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("fetch %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return g, fmt.Errorf("fetch %s: %w", id, err)
	}

	if g.Players, err = s.players(ctx, id); err != nil {
		return g, err
	}
	return g, nil
}

// List translates f into SQL. Ordering matches game.Filter.Apply.
func (s *Store) List(ctx context.Context, f game.Filter) ([]game.Game, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.EngineID != "" {
		where = append(where, "engine_id = ?")
		args = append(args, f.EngineID)
	}
	if f.Stage != 0 {
		stage, err := f.Stage.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("stage: %w", err)
		}
		where = append(where, "stage = ?")
		args = append(args, string(stage))
	}
	if f.PublicOnly {
		where = append(where, "is_public = 1")
	}
	if f.UserID != 0 {
		where = append(where, "id IN (SELECT game_id FROM game_players WHERE user_id = ?)")
		args = append(args, f.UserID)
	}

	query := selectGame
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	orderBy := "created_at"
	switch f.Stage {
	case game.StagePlaying:
		orderBy = "COALESCE(started_at, created_at)"
	case game.StageEnded:
		orderBy = "COALESCE(ended_at, created_at)"
	}
	query += " ORDER BY " + orderBy + " DESC, id ASC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var list []game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	for i := range list {
		if list[i].Players, err = s.players(ctx, list[i].ID); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s: %w", id, game.ErrNotFound)
	}
	return nil
}

func (s *Store) players(ctx context.Context, id string) ([]game.Player, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT user_id, score FROM game_players WHERE game_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("players of %s: %w", id, err)
	}
	defer rows.Close()

	var players []game.Player
	for rows.Next() {
		var p game.Player
		if err := rows.Scan(&p.UserID, &p.Score); err != nil {
			return nil, fmt.Errorf("scan player of %s: %w", id, err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
