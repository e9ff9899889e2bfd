// Package database stores games as JSON documents in a bbolt bucket keyed by
// game id.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/bloops-games/boardgames/internal/database"
	"github.com/bloops-games/boardgames/internal/game"
	bolt "go.etcd.io/bbolt"
)

const bucket = "games"

var ErrBucketNotFound = errors.New("bucket not found")

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) Fetch(_ context.Context, id string) (game.Game, error) {
	var g game.Game
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return game.ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return game.ErrNotFound
		}
		if err := g.UnmarshalBinary(v); err != nil {
			return fmt.Errorf("unmarshal game %s: %w", id, err)
		}
		return nil
	}); err != nil {
		return g, fmt.Errorf("view transaction: %w", err)
	}

	return g, nil
}

func (db *DB) Store(_ context.Context, g game.Game) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() // nolint

	b, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	bytes, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put([]byte(g.ID), bytes); err != nil {
		return fmt.Errorf("put to bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// List scans the bucket and applies f in memory.
func (db *DB) List(_ context.Context, f game.Filter) ([]game.Game, error) {
	var list []game.Game

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var g game.Game
			if err := g.UnmarshalBinary(v); err != nil {
				return fmt.Errorf("unmarshal game %s: %w", k, err)
			}
			if f.Match(g) {
				list = append(list, g)
			}
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction: %w", err)
	}

	return f.Apply(list), nil
}

func (db *DB) Delete(_ context.Context, id string) error {
	return db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrBucketNotFound
		}
		if b.Get([]byte(id)) == nil {
			return game.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}
