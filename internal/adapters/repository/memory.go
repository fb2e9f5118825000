package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Rows are bucketed by (season, week) so concurrent workers ingesting
// different weeks never contend on the same shard. Reads copy out, so
// callers can hold results without synchronization.

const defaultShardCount = 16

type weekKey struct {
	season int
	week   int
}

type weekData struct {
	rows     []model.WeeklyRow
	matchups []model.MatchupRecord
}

type shard struct {
	mu    sync.RWMutex
	weeks map[weekKey]*weekData
}

// MemoryStore is the in-memory Store used by the service.
type MemoryStore struct {
	shards     []*shard
	shardCount int

	seasonMu sync.RWMutex
	seasons  map[int]SeasonInfo
}

// NewMemoryStore creates an empty sharded store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{weeks: make(map[weekKey]*weekData)}
	}
	s.seasons = make(map[int]SeasonInfo)
	metrics.UpdateRepositoryShards(s.shardCount)
	return s
}

func (s *MemoryStore) shardFor(k weekKey) *shard {
	h := fnv.New32a()
	h.Write([]byte{
		byte(k.season), byte(k.season >> 8),
		byte(k.week), byte(k.week >> 8),
	})
	return s.shards[int(h.Sum32())%s.shardCount]
}

func (s *MemoryStore) week(k weekKey, create bool) *weekData {
	sh := s.shardFor(k)
	if !create {
		sh.mu.RLock()
		defer sh.mu.RUnlock()
		return sh.weeks[k]
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	wd, ok := sh.weeks[k]
	if !ok {
		wd = &weekData{}
		sh.weeks[k] = wd
	}
	return wd
}

// PutRows replaces the rows stored for one (season, week).
func (s *MemoryStore) PutRows(ctx context.Context, season, week int, rows []model.WeeklyRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := weekKey{season: season, week: week}
	sh := s.shardFor(k)
	sh.mu.Lock()
	wd, ok := sh.weeks[k]
	if !ok {
		wd = &weekData{}
		sh.weeks[k] = wd
	}
	wd.rows = append([]model.WeeklyRow(nil), rows...)
	sh.mu.Unlock()
	metrics.UpdateRepositoryRecords(s.Count(ctx))
	return nil
}

// PutMatchups replaces the matchup records stored for one (season, week).
func (s *MemoryStore) PutMatchups(ctx context.Context, season, week int, records []model.MatchupRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := weekKey{season: season, week: week}
	sh := s.shardFor(k)
	sh.mu.Lock()
	wd, ok := sh.weeks[k]
	if !ok {
		wd = &weekData{}
		sh.weeks[k] = wd
	}
	wd.matchups = append([]model.MatchupRecord(nil), records...)
	sh.mu.Unlock()
	return nil
}

// PutSeason records a season summary.
func (s *MemoryStore) PutSeason(ctx context.Context, info SeasonInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.seasonMu.Lock()
	s.seasons[info.Season] = info
	s.seasonMu.Unlock()

	s.seasonMu.RLock()
	n := len(s.seasons)
	s.seasonMu.RUnlock()
	metrics.UpdateSeasonsLoaded(n)
	return nil
}

// Rows returns the rows for one (season, week).
func (s *MemoryStore) Rows(ctx context.Context, season, week int) ([]model.WeeklyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := weekKey{season: season, week: week}
	sh := s.shardFor(k)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	wd, ok := sh.weeks[k]
	if !ok || wd.rows == nil {
		return nil, ErrNotFound
	}
	return append([]model.WeeklyRow(nil), wd.rows...), nil
}

// SeasonRows returns every row of a season ordered by week.
func (s *MemoryStore) SeasonRows(ctx context.Context, season int) ([]model.WeeklyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.WeeklyRow
	s.scan(func(k weekKey, wd *weekData) {
		if k.season == season {
			out = append(out, wd.rows...)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].SourceOrder < out[j].SourceOrder
	})
	return out, nil
}

// PlayerRows returns every row linked to a canonical player id.
func (s *MemoryStore) PlayerRows(ctx context.Context, canonicalID string) ([]model.WeeklyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.WeeklyRow
	s.scan(func(_ weekKey, wd *weekData) {
		for _, r := range wd.rows {
			if r.CanLink && r.CanonicalPlayerID == canonicalID {
				out = append(out, r)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

// TopWAR returns the best single-week performances by wins above
// replacement. Only linked rows inside leaderboard weeks qualify. A zero
// season means all seasons.
func (s *MemoryStore) TopWAR(ctx context.Context, season, limit int, position string) ([]model.WeeklyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	var out []model.WeeklyRow
	s.scan(func(_ weekKey, wd *weekData) {
		for _, r := range wd.rows {
			if !r.CanLink || !r.HasMetrics || !r.InLeaderboardWeek() {
				continue
			}
			if season != 0 && r.Season != season {
				continue
			}
			if position != "" && r.Position != position {
				continue
			}
			out = append(out, r)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WARRep != out[j].WARRep {
			return out[i].WARRep > out[j].WARRep
		}
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Matchups returns every stored matchup record in chronological order.
func (s *MemoryStore) Matchups(ctx context.Context) ([]model.MatchupRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.MatchupRecord
	s.scan(func(_ weekKey, wd *weekData) {
		out = append(out, wd.matchups...)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

// Seasons returns the ingested season summaries ordered by season.
func (s *MemoryStore) Seasons(ctx context.Context) ([]SeasonInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.seasonMu.RLock()
	out := make([]SeasonInfo, 0, len(s.seasons))
	for _, info := range s.seasons {
		out = append(out, info)
	}
	s.seasonMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out, nil
}

// Count returns the number of stored weekly rows.
func (s *MemoryStore) Count(_ context.Context) int {
	n := 0
	s.scan(func(_ weekKey, wd *weekData) {
		n += len(wd.rows)
	})
	return n
}

// scan visits every stored week under the shard read locks.
func (s *MemoryStore) scan(visit func(weekKey, *weekData)) {
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k, wd := range sh.weeks {
			visit(k, wd)
		}
		sh.mu.RUnlock()
	}
}
