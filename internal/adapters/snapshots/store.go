// Package snapshots reads the pre-generated league snapshot tree from the
// filesystem and normalizes its three source generations into raw rows.
package snapshots

import (
	"context"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/roster"
)

// SeasonDescriptor is the parsed season.json for one season.
type SeasonDescriptor struct {
	Season   int
	Source   string
	Champion string
	Teams    []roster.Team
}

// WeekPayload is one week's worth of raw rows, normalized from whichever
// source generation produced the snapshot.
type WeekPayload struct {
	Season   int
	Week     int
	Source   string
	Lineups  []model.RawLineupRow
	Matchups []model.RawMatchup
}

// Store provides read-only access to the snapshot tree.
type Store interface {
	// Seasons lists the seasons present, ascending.
	Seasons(ctx context.Context) ([]int, error)
	// Weeks lists the weeks present for a season, ascending.
	// Returns ErrSeasonNotFound for unknown seasons.
	Weeks(ctx context.Context, season int) ([]int, error)
	// Week loads and normalizes one week's snapshot.
	Week(ctx context.Context, season, week int) (WeekPayload, error)
	// SeasonInfo loads a season's roster table and champion.
	SeasonInfo(ctx context.Context, season int) (SeasonDescriptor, error)
	// AuxIndex builds the auxiliary name index from the season's stats
	// export. Returns (nil, nil) when the season has no export.
	AuxIndex(ctx context.Context, season int) (roster.NameIndex, error)
}
