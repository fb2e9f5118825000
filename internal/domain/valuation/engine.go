// Package valuation computes replacement-level value, positional z-scores,
// and boom/bust statistics over reconciled weekly rows.
package valuation

import (
	"math"
	"sort"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

// Default league shape: 8 teams, 2QB/3RB/3WR/2TE. The cutoff rank per
// position marks the freely-available replacement level.
var defaultCutoffs = map[string]int{
	"QB":  16,
	"RB":  24,
	"WR":  24,
	"TE":  16,
	"K":   8,
	"DEF": 8,
}

// Position-specific boom thresholds in points.
var defaultBoomThresholds = map[string]float64{
	"QB":  20,
	"RB":  15,
	"WR":  15,
	"TE":  12,
	"K":   10,
	"DEF": 10,
}

const defaultBoomFallback = 15

// Engine derives per-cohort and per-player metrics. It is stateless apart
// from configuration; every computation is idempotent.
type Engine struct {
	cutoffs        map[string]int
	boomThresholds map[string]float64
	boomFallback   float64
}

// NewEngine creates an engine with the default league shape.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cutoffs:        defaultCutoffs,
		boomThresholds: defaultBoomThresholds,
		boomFallback:   defaultBoomFallback,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// cohortKey groups rows into positional cohorts.
type cohortKey struct {
	season   int
	week     int
	position string
}

// Annotate recomputes derived metrics for every positional cohort present in
// rows and returns a new slice; input rows are never mutated in place. Rows
// without a resolved position stay outside any cohort and keep HasMetrics
// unset (metrics absent, not zero-filled).
func (e *Engine) Annotate(rows []model.WeeklyRow) []model.WeeklyRow {
	out := make([]model.WeeklyRow, len(rows))
	copy(out, rows)

	cohorts := make(map[cohortKey][]int)
	for i := range out {
		r := &out[i]
		r.HasMetrics = false
		r.ReplacementBaseline = 0
		r.WARRep = 0
		r.DeltaToNext = 0
		r.PositionWeekZ = 0
		if r.Position == "" {
			continue
		}
		k := cohortKey{r.Season, r.Week, r.Position}
		cohorts[k] = append(cohorts[k], i)
	}

	for k, idx := range cohorts {
		e.annotateCohort(out, k.position, idx)
		metrics.RecordCohortAnnotated()
	}
	return out
}

// annotateCohort fills derived fields for one cohort, identified by the row
// indices idx into rows.
func (e *Engine) annotateCohort(rows []model.WeeklyRow, position string, idx []int) {
	// Sort descending by points; stable on source order for ties.
	sort.SliceStable(idx, func(a, b int) bool {
		return rows[idx[a]].Points > rows[idx[b]].Points
	})

	n := len(idx)
	baselineRank := e.cutoffs[position]
	if baselineRank <= 0 || baselineRank > n {
		baselineRank = n
	}
	baseline := rows[idx[baselineRank-1]].Points

	var sum float64
	for _, i := range idx {
		sum += rows[i].Points
	}
	mean := sum / float64(n)

	var variance float64
	for _, i := range idx {
		d := rows[i].Points - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	for rank, i := range idx {
		r := &rows[i]
		r.HasMetrics = true
		r.ReplacementBaseline = baseline
		r.WARRep = r.Points - baseline
		if rank+1 < n {
			r.DeltaToNext = r.Points - rows[idx[rank+1]].Points
		} else {
			r.DeltaToNext = r.Points - 0
		}
		if n == 1 || stddev == 0 {
			r.PositionWeekZ = 0
		} else {
			r.PositionWeekZ = (r.Points - mean) / stddev
		}
	}
}

// CohortCount returns how many positional cohorts the rows span. Useful for
// instrumentation around Annotate.
func (e *Engine) CohortCount(rows []model.WeeklyRow) int {
	cohorts := make(map[cohortKey]struct{})
	for _, r := range rows {
		if r.Position == "" {
			continue
		}
		cohorts[cohortKey{r.Season, r.Week, r.Position}] = struct{}{}
	}
	return len(cohorts)
}
