package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bloops-games/boardgames/internal/byteutil"
	"github.com/bloops-games/boardgames/internal/cache"
	"github.com/bloops-games/boardgames/internal/database"
	"github.com/bloops-games/boardgames/internal/database/stat/model"
	"github.com/bloops-games/boardgames/internal/game"
	bolt "go.etcd.io/bbolt"
)

const prefix = "stat"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

// BytesBucket is the per-user bucket name.
func (db *DB) BytesBucket(userID int64) []byte {
	return byteutil.PrefixedKey(prefix, userID)
}

func (db *DB) SerialBucket(userID int64) string {
	return fmt.Sprintf("%s%d", prefix, userID)
}

func (db *DB) FetchProfileStat(userID int64) (model.AggregationStat, error) {
	aggregationStat := model.AggregationStat{ByEngine: map[string]model.EngineStat{}}
	var sumScore int64
	var sumDuration time.Duration

	stats, err := db.FetchByUserID(userID)
	if err != nil {
		return aggregationStat, fmt.Errorf("fetch by userID: %w", err)
	}
	for i, stat := range stats {
		if i == 0 || stat.Score > aggregationStat.BestScore {
			aggregationStat.BestScore = stat.Score
		}
		if i == 0 || stat.Score < aggregationStat.WorstScore {
			aggregationStat.WorstScore = stat.Score
		}

		sumScore += stat.Score
		sumDuration += stat.Duration

		es := aggregationStat.ByEngine[stat.EngineID]
		es.Played++
		if stat.Winner {
			es.Won++
			aggregationStat.Wins++
		}
		aggregationStat.ByEngine[stat.EngineID] = es
		aggregationStat.Count++
	}

	if aggregationStat.Count > 0 {
		aggregationStat.AvgScore = sumScore / int64(aggregationStat.Count)
		aggregationStat.AvgDuration = sumDuration / time.Duration(aggregationStat.Count)
	}

	return aggregationStat, nil
}

// FetchByUserID returns the user's results, oldest first.
func (db *DB) FetchByUserID(userID int64) ([]model.Stat, error) {
	var list []model.Stat
	sBucket := db.SerialBucket(userID)
	if db.cache != nil {
		v, ok := db.cache.Get(sBucket)
		if ok {
			return append([]model.Stat(nil), v.([]model.Stat)...), nil
		}
	}

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(db.BytesBucket(userID))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stat model.Stat
			if err := json.Unmarshal(v, &stat); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			if err := stat.ID.UnmarshalBinary(k); err != nil {
				return fmt.Errorf("stat id: %w", err)
			}
			list = append(list, stat)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	if db.cache != nil {
		db.cache.Add(sBucket, append([]model.Stat(nil), list...))
	}

	return list, nil
}

func (db *DB) Add(m model.Stat) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		return db.put(tx, m)
	}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(db.SerialBucket(m.UserID))
	}

	return nil
}

func (db *DB) put(tx *bolt.Tx, m model.Stat) error {
	b, err := tx.CreateBucketIfNotExists(db.BytesBucket(m.UserID))
	if err != nil {
		return fmt.Errorf("can not create bucket %d: %w", m.UserID, err)
	}

	binaryID, err := m.ID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("uuid binary: %w", err)
	}

	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(binaryID, bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	return nil
}

// RecordGame stores one result per player of an ended game in a single
// transaction. Equal scores share a place; players sharing the top score are
// all winners.
func (db *DB) RecordGame(_ context.Context, g game.Game) error {
	if g.Stage != game.StageEnded {
		return fmt.Errorf("record game %s in stage %s", g.ID, g.Stage)
	}

	createdAt := g.CreatedAt
	if g.EndedAt != nil {
		createdAt = *g.EndedAt
	}
	var duration time.Duration
	if g.StartedAt != nil && g.EndedAt != nil {
		duration = g.EndedAt.Sub(*g.StartedAt)
	}

	standings := game.Standings(g)
	stats := make([]model.Stat, len(standings))
	place := 0
	for i, s := range standings {
		if i == 0 || s.Score != standings[i-1].Score {
			place = i + 1
		}

		stat := model.NewStat(s.UserID, g.ID, g.EngineID, createdAt)
		stat.Score = s.Score
		stat.Place = place
		stat.Winner = place == 1 && s.Score > 0
		stat.PlayersNum = len(g.Players)
		stat.Duration = duration
		stats[i] = stat
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		for _, stat := range stats {
			if err := db.put(tx, stat); err != nil {
				return fmt.Errorf("add stat of user %d: %w", stat.UserID, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("record game %s: %w", g.ID, err)
	}

	if db.cache != nil {
		for _, stat := range stats {
			db.cache.Delete(db.SerialBucket(stat.UserID))
		}
	}

	return nil
}
