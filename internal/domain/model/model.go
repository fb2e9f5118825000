// Package model contains domain models passed between layers.
package model

import "strconv"

// Namespace identifies the platform an id belongs to.
type Namespace string

// Known id namespaces. Sleeper is the primary roster platform, GSIS the
// federated stats namespace, ESPN the secondary platform from legacy exports.
const (
	NamespaceSleeper Namespace = "sleeper"
	NamespaceGSIS    Namespace = "gsis"
	NamespaceESPN    Namespace = "espn"
)

// Regular-season week bounds. Weeks outside this range are artifacts of the
// source exports and are kept in rows but excluded from leaderboards.
const (
	MinLeaderboardWeek = 1
	MaxLeaderboardWeek = 18
)

// PlayerIdentity is the canonical record for one real-world player,
// regardless of how many source-specific ids refer to it.
type PlayerIdentity struct {
	CanonicalID  string               `json:"canonical_id"`
	AlternateIDs map[Namespace]string `json:"alternate_ids"`
	DisplayName  string               `json:"display_name"`
	Position     string               `json:"position"`
	NFLTeam      string               `json:"nfl_team"`
}

// RawLineupRow is the normalized shape every source adapter produces for one
// player's slot in one team's weekly lineup. Id fields are empty when the
// source did not carry them.
type RawLineupRow struct {
	SleeperID   string
	GSISID      string
	ESPNID      string
	PlayerName  string
	Team        string // raw team label as given by the source
	RosterID    int    // 0 when the source has no roster ids
	Slot        string // raw slot label, e.g. "QB", "FLEX", "W/R", "BN"
	Started     bool
	Points      float64
	SourceOrder int
}

// RawMatchupSide is one side of a raw matchup entry.
type RawMatchupSide struct {
	Team            string
	RosterID        int
	ParticipantName string
	Score           float64
}

// RawMatchup pairs two sides compared in one week.
type RawMatchup struct {
	SideA RawMatchupSide
	SideB RawMatchupSide
}

// WeeklyRow is one player's participation in one team's lineup in one week,
// after identity resolution and metric annotation.
type WeeklyRow struct {
	Season int    `json:"season"`
	Week   int    `json:"week"`
	Team   string `json:"team"` // normalized team label

	CanonicalPlayerID string `json:"canonical_player_id,omitempty"`
	PlayerName        string `json:"player_name"`
	Position          string `json:"position,omitempty"`

	Points      float64 `json:"points"`
	Started     bool    `json:"started"`
	Slot        string  `json:"slot,omitempty"`
	CanLink     bool    `json:"can_link"`
	SourceOrder int     `json:"-"`

	// Derived by the metrics engine; valid only when HasMetrics is set.
	HasMetrics          bool    `json:"has_metrics"`
	ReplacementBaseline float64 `json:"replacement_baseline,omitempty"`
	WARRep              float64 `json:"war_rep,omitempty"`
	DeltaToNext         float64 `json:"delta_to_next,omitempty"`
	PositionWeekZ       float64 `json:"position_week_z,omitempty"`
}

// InLeaderboardWeek reports whether the row's week is a regular
// leaderboard week.
func (r WeeklyRow) InLeaderboardWeek() bool {
	return r.Week >= MinLeaderboardWeek && r.Week <= MaxLeaderboardWeek
}

// MatchupRecord is the derived result of two rosters compared in one week.
// Winner and Loser hold canonical owner names; on a tie both are empty and
// Tied is set.
type MatchupRecord struct {
	Season int     `json:"season"`
	Week   int     `json:"week"`
	OwnerA string  `json:"owner_a"`
	OwnerB string  `json:"owner_b"`
	TeamA  string  `json:"team_a"`
	TeamB  string  `json:"team_b"`
	ScoreA float64 `json:"score_a"`
	ScoreB float64 `json:"score_b"`
	Winner string  `json:"winner,omitempty"`
	Loser  string  `json:"loser,omitempty"`
	Tied   bool    `json:"tied"`
	Margin float64 `json:"margin"`
}

// Derive fills Winner, Loser, Tied, and Margin from the scores.
func (m *MatchupRecord) Derive() {
	switch {
	case m.ScoreA > m.ScoreB:
		m.Winner, m.Loser, m.Tied = m.OwnerA, m.OwnerB, false
		m.Margin = m.ScoreA - m.ScoreB
	case m.ScoreB > m.ScoreA:
		m.Winner, m.Loser, m.Tied = m.OwnerB, m.OwnerA, false
		m.Margin = m.ScoreB - m.ScoreA
	default:
		m.Winner, m.Loser, m.Tied = "", "", true
		m.Margin = 0
	}
}

// OwnerIdentity is the canonical franchise owner, independent of team
// nicknames that change season to season.
type OwnerIdentity struct {
	CanonicalName string   `json:"canonical_name"`
	Labels        []string `json:"labels"`
}

// ParsePoints converts a raw numeric string to a float64, treating
// absent or malformed values as 0.
func ParsePoints(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
