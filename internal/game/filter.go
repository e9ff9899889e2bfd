package game

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned by game stores for unknown ids.
var ErrNotFound = errors.New("game not found")

// Filter selects games for listings. Zero fields match everything.
type Filter struct {
	EngineID   string
	Stage      Stage
	UserID     int64
	PublicOnly bool
	Limit      int
}

func (f Filter) Match(g Game) bool {
	if f.EngineID != "" && g.EngineID != f.EngineID {
		return false
	}
	if f.Stage != 0 && g.Stage != f.Stage {
		return false
	}
	if f.PublicOnly && !g.IsPublic {
		return false
	}
	if f.UserID != 0 && !g.HasPlayer(f.UserID) {
		return false
	}
	return true
}

// SortTime is the timestamp listings order by: start time for playing games,
// end time for ended ones and creation time otherwise.
func (f Filter) SortTime(g Game) time.Time {
	switch {
	case f.Stage == StagePlaying && g.StartedAt != nil:
		return *g.StartedAt
	case f.Stage == StageEnded && g.EndedAt != nil:
		return *g.EndedAt
	default:
		return g.CreatedAt
	}
}

// Apply filters, orders newest first and truncates games to the limit.
func (f Filter) Apply(games []Game) []Game {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		if f.Match(g) {
			out = append(out, g)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := f.SortTime(out[i]), f.SortTime(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID < out[j].ID
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}
