// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/mq/queue"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/mq/worker"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/repository"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/snapshots"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/aggregate"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/franchise"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/identity"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/roster"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/valuation"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

// Service wires the snapshot store, identity resolver, reconciler,
// valuation engine, and row repository into one queryable unit. Start runs
// the full ingest before the service accepts queries.
type Service struct {
	mu sync.RWMutex

	// Core components
	snaps      snapshots.Store
	rows       repository.Store
	resolver   *identity.Resolver
	owners     *franchise.Registry
	engine     *valuation.Engine
	reconciler *roster.Reconciler
	taskQueue  *queue.InMemoryQueue
	pool       *worker.Pool

	// Configuration
	dataDir             string
	workerCount         int
	queueSize           int
	shardCount          int
	maxLeaderboardLimit int
	sourceOrderSeason   func(season int) bool
	cutoffs             map[string]int
	boomThresholds      map[string]float64
	boomFallback        float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir points the service at the snapshot tree root.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithSnapshotStore injects a snapshot store, overriding the data dir.
func WithSnapshotStore(store snapshots.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.snaps = store
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithShardCount sets the number of row store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxLeaderboardLimit caps leaderboard query limits.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLeaderboardLimit = limit
		}
	}
}

// WithSourceOrderSeason installs the predicate deciding which seasons keep
// their export ordering on display.
func WithSourceOrderSeason(pred func(season int) bool) Option {
	return func(s *Service) {
		if pred != nil {
			s.sourceOrderSeason = pred
		}
	}
}

// WithReplacementCutoffs overrides the per-position replacement ranks.
func WithReplacementCutoffs(cutoffs map[string]int) Option {
	return func(s *Service) {
		if len(cutoffs) > 0 {
			s.cutoffs = cutoffs
		}
	}
}

// WithBoomThresholds overrides the per-position boom thresholds.
func WithBoomThresholds(thresholds map[string]float64, fallback float64) Option {
	return func(s *Service) {
		if len(thresholds) > 0 || fallback > 0 {
			s.boomThresholds = thresholds
			s.boomFallback = fallback
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:             "./data",
		workerCount:         runtime.NumCPU() * 2,
		queueSize:           4096,
		shardCount:          16,
		maxLeaderboardLimit: 100,
		sourceOrderSeason:   func(int) bool { return false },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and runs the full ingest: every (season,
// week) in the snapshot tree is reconciled, annotated, and stored before
// Start returns.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting league history service...")

	if s.snaps == nil {
		s.snaps = snapshots.NewFSStore(s.dataDir)
	}
	s.rows = repository.NewMemoryStore(repository.WithShardCount(s.shardCount))
	s.resolver = identity.New()
	s.owners = franchise.NewRegistry()

	var engineOpts []valuation.Option
	if len(s.cutoffs) > 0 {
		engineOpts = append(engineOpts, valuation.WithReplacementCutoffs(s.cutoffs))
	}
	if len(s.boomThresholds) > 0 || s.boomFallback > 0 {
		engineOpts = append(engineOpts, valuation.WithBoomThresholds(s.boomThresholds, s.boomFallback))
	}
	s.engine = valuation.NewEngine(engineOpts...)
	s.reconciler = roster.New(s.resolver, s.owners)

	if err := s.ingest(ctx); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	metrics.UpdateTotalPlayers(s.resolver.Count())
	metrics.UpdateTotalOwners(s.owners.Count())

	s.started = true
	s.logger.Info(ctx, "league history service started",
		logger.Int("workers", s.workerCount),
		logger.Int("players", s.resolver.Count()),
		logger.Int("owners", s.owners.Count()),
		logger.Int("rows", s.rows.Count(ctx)),
	)
	return nil
}

// ingest walks the snapshot tree, registers every season with the
// reconciler, then drains all (season, week) tasks through the worker
// pool. Season registration happens up front so franchise history is
// complete before any week is reconciled.
func (s *Service) ingest(ctx context.Context) error {
	seasons, err := s.snaps.Seasons(ctx)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}

	type seasonWeeks struct {
		season int
		weeks  []int
	}
	plan := make([]seasonWeeks, 0, len(seasons))

	for _, season := range seasons {
		info, err := s.snaps.SeasonInfo(ctx, season)
		if err != nil {
			s.logger.Warn(ctx, "season has no roster table",
				logger.Int("season", season),
				logger.Error(err),
			)
			info = snapshots.SeasonDescriptor{Season: season}
		}
		aux, err := s.snaps.AuxIndex(ctx, season)
		if err != nil {
			s.logger.Warn(ctx, "season stats export unreadable",
				logger.Int("season", season),
				logger.Error(err),
			)
		}
		s.reconciler.AddSeason(season, info.Teams, aux)

		weeks, err := s.snaps.Weeks(ctx, season)
		if err != nil {
			return fmt.Errorf("list weeks for %d: %w", season, err)
		}
		plan = append(plan, seasonWeeks{season: season, weeks: weeks})

		champion := ""
		if info.Champion != "" {
			if owner, ok := s.owners.Canonical(info.Champion); ok {
				champion = owner
			} else {
				champion = franchise.NormalizeLabel(info.Champion)
			}
		}
		if err := s.rows.PutSeason(ctx, repository.SeasonInfo{
			Season:   season,
			Weeks:    weeks,
			Teams:    len(info.Teams),
			Champion: champion,
		}); err != nil {
			return fmt.Errorf("store season %d: %w", season, err)
		}
	}

	s.taskQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.taskQueue, s.snaps, s.reconciler, s.engine, s.rows)
	s.pool.Start(ctx)

	for _, sw := range plan {
		for _, week := range sw.weeks {
			if !s.taskQueue.Enqueue(ctx, queue.Task{Season: sw.season, Week: week}) {
				return fmt.Errorf("enqueue season %d week %d: queue rejected task", sw.season, week)
			}
		}
	}
	if err := s.taskQueue.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	return s.pool.Wait(ctx)
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping league history service...")
	if s.taskQueue != nil {
		_ = s.taskQueue.Close()
	}
	s.started = false
	s.logger.Info(ctx, "league history service stopped")
}

// Seasons returns the ingested season summaries.
func (s *Service) Seasons(ctx context.Context) ([]repository.SeasonInfo, error) {
	return s.rows.Seasons(ctx)
}

// Rows returns one week's rows in display order.
func (s *Service) Rows(ctx context.Context, season, week int) ([]model.WeeklyRow, error) {
	rows, err := s.rows.Rows(ctx, season, week)
	if err != nil {
		return nil, err
	}
	return roster.OrderForDisplay(rows, s.sourceOrderSeason(season)), nil
}

// TopWAR returns the best single-week performances across the league. A
// zero season means all seasons. A non-positive limit selects the default
// page size; limits above the configured cap are clamped.
func (s *Service) TopWAR(ctx context.Context, season, limit int, position string) ([]model.WeeklyRow, error) {
	if limit <= 0 {
		limit = 25
	}
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	return s.rows.TopWAR(ctx, season, limit, position)
}

// Player resolves a player by canonical id, any namespace id, or name.
func (s *Service) Player(_ context.Context, key string) (model.PlayerIdentity, bool) {
	if ident, ok := s.resolver.ResolveCanonical(key); ok {
		return ident, true
	}
	for _, ns := range []model.Namespace{model.NamespaceSleeper, model.NamespaceGSIS, model.NamespaceESPN} {
		if ident, ok := s.resolver.Resolve(key, ns); ok {
			return ident, true
		}
	}
	return s.resolver.ResolveName(key)
}

// PlayerRows returns a player's weekly history.
func (s *Service) PlayerRows(ctx context.Context, canonicalID string) ([]model.WeeklyRow, error) {
	return s.rows.PlayerRows(ctx, canonicalID)
}

// BoomBust computes a player's weekly consistency profile, optionally
// restricted to one season.
func (s *Service) BoomBust(ctx context.Context, key string, season int) (model.PlayerIdentity, valuation.BoomBust, bool, error) {
	ident, ok := s.Player(ctx, key)
	if !ok {
		return model.PlayerIdentity{}, valuation.BoomBust{}, false, nil
	}
	rows, err := s.rows.PlayerRows(ctx, ident.CanonicalID)
	if err != nil {
		return model.PlayerIdentity{}, valuation.BoomBust{}, false, err
	}
	if season > 0 {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Season == season {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	profile, ok := s.engine.BoomBust(ident.Position, rows)
	return ident, profile, ok, nil
}

// Careers returns per-owner career totals across the whole history.
func (s *Service) Careers(ctx context.Context) ([]aggregate.CareerTotals, error) {
	matchups, err := s.rows.Matchups(ctx)
	if err != nil {
		return nil, err
	}
	seasons, err := s.rows.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	champions := make(map[int]string, len(seasons))
	for _, info := range seasons {
		if info.Champion != "" {
			champions[info.Season] = info.Champion
		}
	}
	return aggregate.Career(matchups, champions), nil
}

// HeadToHead computes the all-time record between two owners. Labels are
// resolved to canonical owners before comparison.
func (s *Service) HeadToHead(ctx context.Context, a, b string) (aggregate.HeadToHead, error) {
	matchups, err := s.rows.Matchups(ctx)
	if err != nil {
		return aggregate.HeadToHead{}, err
	}
	return aggregate.ComputeHeadToHead(s.canonicalOwner(a), s.canonicalOwner(b), matchups), nil
}

// Owners returns every canonical owner with their observed labels.
func (s *Service) Owners(_ context.Context) []model.OwnerIdentity {
	return s.owners.Owners()
}

func (s *Service) canonicalOwner(label string) string {
	if owner, ok := s.owners.Canonical(label); ok {
		return owner
	}
	return franchise.NormalizeLabel(label)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.rows != nil {
		stats["totalRows"] = s.rows.Count(ctx)
	}
	if s.resolver != nil {
		stats["totalPlayers"] = s.resolver.Count()
		stats["identityMerges"] = s.resolver.MergeCount()
	}
	if s.owners != nil {
		stats["totalOwners"] = s.owners.Count()
	}
	return stats
}
