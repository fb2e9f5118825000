package aggregate

import (
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// HeadToHead summarizes every meeting between two canonical owners. Ties
// appear in Games but are excluded from the win/loss counts.
type HeadToHead struct {
	OwnerA string `json:"owner_a"`
	OwnerB string `json:"owner_b"`

	WinsA int `json:"wins_a"`
	WinsB int `json:"wins_b"`
	Ties  int `json:"ties"`

	PointsA float64 `json:"points_a"`
	PointsB float64 `json:"points_b"`

	LongestStreakA int `json:"longest_streak_a"`
	LongestStreakB int `json:"longest_streak_b"`

	Games []model.MatchupRecord `json:"games"`
}

// ComputeHeadToHead filters matchups to meetings of exactly the (a, b) pair
// in either order and aggregates them. Scores are reported from a's
// perspective. Streaks run chronologically; a decisive result resets the
// loser, and a tie resets both sides (ties are streak-breaking, not
// streak-neutral).
func ComputeHeadToHead(a, b string, matchups []model.MatchupRecord) HeadToHead {
	h := HeadToHead{OwnerA: a, OwnerB: b}

	var curA, curB int
	for _, m := range sortChronological(matchups) {
		var scoreA, scoreB float64
		switch {
		case m.OwnerA == a && m.OwnerB == b:
			scoreA, scoreB = m.ScoreA, m.ScoreB
		case m.OwnerA == b && m.OwnerB == a:
			scoreA, scoreB = m.ScoreB, m.ScoreA
		default:
			continue
		}

		h.Games = append(h.Games, m)
		h.PointsA += scoreA
		h.PointsB += scoreB

		switch {
		case m.Tied:
			h.Ties++
			curA, curB = 0, 0
		case scoreA > scoreB:
			h.WinsA++
			curA++
			curB = 0
		default:
			h.WinsB++
			curB++
			curA = 0
		}
		if curA > h.LongestStreakA {
			h.LongestStreakA = curA
		}
		if curB > h.LongestStreakB {
			h.LongestStreakB = curB
		}
	}
	return h
}
