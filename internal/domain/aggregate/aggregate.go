// Package aggregate rolls matchup records and reconciled rows into the
// career, season, and head-to-head summaries the presentation layer reads.
package aggregate

import (
	"sort"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// CareerTotals is one owner's record summed across seasons, keyed by
// canonical owner rather than team nickname.
type CareerTotals struct {
	Owner         string  `json:"owner"`
	Seasons       int     `json:"seasons"`
	Points        float64 `json:"points"`
	PointsAgainst float64 `json:"points_against"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	Championships int     `json:"championships"`
}

// Career sums points, win/loss records, and championships per canonical
// owner. champions maps season to the champion's canonical owner name.
func Career(matchups []model.MatchupRecord, champions map[int]string) []CareerTotals {
	byOwner := make(map[string]*CareerTotals)
	seasonsSeen := make(map[string]map[int]struct{})

	get := func(owner string) *CareerTotals {
		t, ok := byOwner[owner]
		if !ok {
			t = &CareerTotals{Owner: owner}
			byOwner[owner] = t
			seasonsSeen[owner] = make(map[int]struct{})
		}
		return t
	}

	for _, m := range matchups {
		a, b := get(m.OwnerA), get(m.OwnerB)
		seasonsSeen[m.OwnerA][m.Season] = struct{}{}
		seasonsSeen[m.OwnerB][m.Season] = struct{}{}

		a.Points += m.ScoreA
		a.PointsAgainst += m.ScoreB
		b.Points += m.ScoreB
		b.PointsAgainst += m.ScoreA

		switch {
		case m.Tied:
			a.Ties++
			b.Ties++
		case m.Winner == m.OwnerA:
			a.Wins++
			b.Losses++
		default:
			b.Wins++
			a.Losses++
		}
	}

	for season, owner := range champions {
		if owner == "" {
			continue
		}
		t := get(owner)
		seasonsSeen[owner][season] = struct{}{}
		t.Championships++
	}

	out := make([]CareerTotals, 0, len(byOwner))
	for owner, t := range byOwner {
		t.Seasons = len(seasonsSeen[owner])
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Owner < out[j].Owner
	})
	return out
}

// sortChronological orders matchups oldest to newest; week order within a
// season is the source order of play.
func sortChronological(matchups []model.MatchupRecord) []model.MatchupRecord {
	out := make([]model.MatchupRecord, len(matchups))
	copy(out, matchups)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Week < out[j].Week
	})
	return out
}
