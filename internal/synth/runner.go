package synth

import (
	"context"
	"fmt"
	"time"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/adapters/snapshots"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
)

// Run generates a complete synthetic league archive under cfg.DataDir.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting synthetic archive generation",
		logger.String("dataDir", cfg.DataDir),
		logger.Int("seasons", cfg.NumSeasons),
		logger.Int("teams", cfg.NumTeams),
		logger.Int("weeks", cfg.NumWeeks),
		logger.Int("workers", cfg.Workers))

	// Step 1: Build the cross-season player population.
	pool := buildPlayerPool()
	stats.PlayersInPool = len(pool)

	// Step 2: Generate and write seasons concurrently.
	if err := writeSeasons(ctx, cfg, pool, stats); err != nil {
		return fmt.Errorf("season generation failed: %w", err)
	}

	// Step 3: Read the tree back through the snapshot store.
	if err := verifyArchive(ctx, cfg, stats); err != nil {
		return fmt.Errorf("archive verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "archive generation completed successfully")
	return nil
}

// writeSeasons fans season generation out over a small worker pool. Each
// season is independent, so workers never share mutable state beyond the
// aggregated stats, which are merged after the pool drains.
func writeSeasons(ctx context.Context, cfg *Config, pool []playerProfile, stats *Stats) error {
	workerCount := cfg.Workers
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > cfg.NumSeasons {
		workerCount = cfg.NumSeasons
	}

	type result struct {
		season int
		stats  Stats
		err    error
	}

	seasonChan := make(chan int, cfg.NumSeasons)
	resultChan := make(chan result, cfg.NumSeasons)

	for w := 0; w < workerCount; w++ {
		go func() {
			for season := range seasonChan {
				var local Stats
				sd, err := generateSeason(ctx, cfg, season, pool)
				if err == nil {
					err = writeSeason(ctx, cfg, sd, &local)
				}
				resultChan <- result{season: season, stats: local, err: err}
			}
		}()
	}

	for s := 0; s < cfg.NumSeasons; s++ {
		seasonChan <- cfg.StartSeason + s
	}
	close(seasonChan)

	for s := 0; s < cfg.NumSeasons; s++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-resultChan:
			if r.err != nil {
				return fmt.Errorf("season %d: %w", r.season, r.err)
			}
			stats.SeasonsWritten += r.stats.SeasonsWritten
			stats.WeeksWritten += r.stats.WeeksWritten
			stats.RowsWritten += r.stats.RowsWritten
			stats.MatchupsWritten += r.stats.MatchupsWritten
		}
	}

	return nil
}

// verifyArchive loads the written tree through the same reader the service
// uses and checks that everything written is decodable.
func verifyArchive(ctx context.Context, cfg *Config, stats *Stats) error {
	logger.Get().Info(ctx, "verifying generated archive")

	store := snapshots.NewFSStore(cfg.DataDir)

	seasons, err := store.Seasons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seasons: %w", err)
	}
	if len(seasons) != stats.SeasonsWritten {
		return fmt.Errorf("expected %d seasons, found %d", stats.SeasonsWritten, len(seasons))
	}

	var weeks, rows int
	for _, season := range seasons {
		ws, err := store.Weeks(ctx, season)
		if err != nil {
			return fmt.Errorf("failed to list weeks for %d: %w", season, err)
		}
		weeks += len(ws)

		for _, week := range ws {
			payload, err := store.Week(ctx, season, week)
			if err != nil {
				return fmt.Errorf("failed to decode %d week %d: %w", season, week, err)
			}
			rows += len(payload.Lineups)
		}

		if _, err := store.SeasonInfo(ctx, season); err != nil {
			return fmt.Errorf("failed to read season %d descriptor: %w", season, err)
		}
		if _, err := store.AuxIndex(ctx, season); err != nil {
			return fmt.Errorf("failed to read season %d stats export: %w", season, err)
		}
	}

	if weeks != stats.WeeksWritten {
		return fmt.Errorf("expected %d weeks, found %d", stats.WeeksWritten, weeks)
	}
	if rows != stats.RowsWritten {
		return fmt.Errorf("expected %d rows, found %d", stats.RowsWritten, rows)
	}

	logger.Get().Info(ctx, "archive verified",
		logger.Int("seasons", len(seasons)),
		logger.Int("weeks", weeks),
		logger.Int("rows", rows))
	return nil
}

// displayFinalStats prints the final generation statistics.
func displayFinalStats(stats *Stats) {
	var rowsPerSecond float64
	if stats.Duration > 0 {
		rowsPerSecond = float64(stats.RowsWritten) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("seasonsWritten", stats.SeasonsWritten),
		logger.Int("weeksWritten", stats.WeeksWritten),
		logger.Int("rowsWritten", stats.RowsWritten),
		logger.Int("matchupsWritten", stats.MatchupsWritten),
		logger.Int("playersInPool", stats.PlayersInPool),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("rowsPerSecond", rowsPerSecond))
}
