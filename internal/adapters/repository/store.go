// Package repository defines the reconciled-history store interface and
// errors.
package repository

import (
	"context"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// SeasonInfo summarizes one ingested season.
type SeasonInfo struct {
	Season   int    `json:"season"`
	Weeks    []int  `json:"weeks"`
	Teams    int    `json:"teams"`
	Champion string `json:"champion,omitempty"`
}

// Store provides read/write access to reconciled weekly rows, matchup
// records, and season summaries.
type Store interface {
	// PutRows replaces the stored rows for one (season, week).
	PutRows(ctx context.Context, season, week int, rows []model.WeeklyRow) error
	// PutMatchups replaces the stored matchup records for one (season, week).
	PutMatchups(ctx context.Context, season, week int, records []model.MatchupRecord) error
	// PutSeason records a season summary.
	PutSeason(ctx context.Context, info SeasonInfo) error

	// Rows returns the rows for one (season, week).
	// Returns ErrNotFound when the week was never ingested.
	Rows(ctx context.Context, season, week int) ([]model.WeeklyRow, error)
	// SeasonRows returns every row of a season ordered by week.
	SeasonRows(ctx context.Context, season int) ([]model.WeeklyRow, error)
	// PlayerRows returns every row linked to a canonical player id,
	// ordered by season then week.
	PlayerRows(ctx context.Context, canonicalID string) ([]model.WeeklyRow, error)
	// TopWAR returns the best single-week performances by wins above
	// replacement, linked rows in leaderboard weeks only. position
	// filters when non-empty.
	TopWAR(ctx context.Context, season, limit int, position string) ([]model.WeeklyRow, error)

	// Matchups returns every matchup record in chronological order.
	Matchups(ctx context.Context) ([]model.MatchupRecord, error)
	// Seasons returns the ingested season summaries ordered by season.
	Seasons(ctx context.Context) ([]SeasonInfo, error)

	// Count returns the number of stored weekly rows.
	Count(ctx context.Context) int
}
