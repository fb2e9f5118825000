package valuation

import (
	"math"
	"sort"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// topBottomCount caps the listed best and worst weeks.
const topBottomCount = 5

// BoomBust summarizes the volatility of one player's weekly scores relative
// to the position-specific boom threshold.
type BoomBust struct {
	Weeks        int               `json:"weeks"`
	Mean         float64           `json:"mean"`
	StdDev       float64           `json:"std_dev"`
	Threshold    float64           `json:"threshold"`
	PercentAbove float64           `json:"percent_above"`
	TopWeeks     []model.WeeklyRow `json:"top_weeks"`
	BottomWeeks  []model.WeeklyRow `json:"bottom_weeks"`
}

// BoomBust computes boom/bust statistics for one player over the given
// weekly rows. The position selects the boom threshold. An empty week set
// returns ok=false: the summary is absent, never zero-filled.
func (e *Engine) BoomBust(position string, rows []model.WeeklyRow) (BoomBust, bool) {
	if len(rows) == 0 {
		return BoomBust{}, false
	}

	threshold, ok := e.boomThresholds[position]
	if !ok {
		threshold = e.boomFallback
	}

	var sum float64
	above := 0
	for _, r := range rows {
		sum += r.Points
		if r.Points >= threshold {
			above++
		}
	}
	n := float64(len(rows))
	mean := sum / n

	var variance float64
	for _, r := range rows {
		d := r.Points - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / n)

	// Rank by points with stable ties on source order.
	ranked := make([]model.WeeklyRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Points > ranked[j].Points })

	top := ranked[:min(topBottomCount, len(ranked))]

	bottom := make([]model.WeeklyRow, len(ranked))
	copy(bottom, ranked)
	sort.SliceStable(bottom, func(i, j int) bool { return bottom[i].Points < bottom[j].Points })
	bottom = bottom[:min(topBottomCount, len(bottom))]

	return BoomBust{
		Weeks:        len(rows),
		Mean:         mean,
		StdDev:       stddev,
		Threshold:    threshold,
		PercentAbove: float64(above) / n * 100,
		TopWeeks:     append([]model.WeeklyRow(nil), top...),
		BottomWeeks:  bottom,
	}, true
}
