// Package database owns the bbolt file shared by the key-value stores.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bloops-games/boardgames/internal/logging"
	bolt "go.etcd.io/bbolt"
)

type Config struct {
	FilePath string        `envconfig:"BOARDGAMES_DB_PATH" default:"boardgames.db"`
	Timeout  time.Duration `envconfig:"BOARDGAMES_DB_TIMEOUT" default:"5s"`
}

type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening bbolt database %s", config.FilePath)

	db, err := bolt.Open(config.FilePath, 0600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open bbolt %s: %w", config.FilePath, err)
	}

	return &DB{DB: db}, nil
}

// EnsureBuckets creates the named top-level buckets when missing.
func (db *DB) EnsureBuckets(names ...string) error {
	return db.DB.Update(func(tx *bolt.Tx) error {
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("closing bbolt database")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close bbolt: %w", err)
	}

	return nil
}
