package synth

import (
	"context"
	"fmt"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
)

// Scoring distribution cases, one switch arm per performance archetype.
const (
	caseTypicalWeek   = 0
	caseStrongWeek    = 1
	caseQuietWeek     = 2
	caseBoomWeek      = 3
	caseDudWeek       = 4
	caseSteadyWeek    = 5
	caseBelowParWeek  = 6
	caseAnythingGoes  = 7
	scoringCaseCount  = 8
	tieShare          = 0.04
	missingStatsShare = 0.5
)

// positionScoring holds the typical weekly range per position.
type positionScoring struct {
	Base  float64
	Range float64
	Boom  float64
}

var scoringByPosition = map[string]positionScoring{
	"QB":  {Base: 12.0, Range: 10.0, Boom: 34.0},
	"RB":  {Base: 5.0, Range: 10.0, Boom: 28.0},
	"WR":  {Base: 4.0, Range: 11.0, Boom: 30.0},
	"TE":  {Base: 3.0, Range: 8.0, Boom: 22.0},
	"K":   {Base: 5.0, Range: 7.0, Boom: 17.0},
	"DEF": {Base: 2.0, Range: 10.0, Boom: 24.0},
}

// rosterAssignment maps one team's slots to players for a season.
type rosterAssignment struct {
	Starters []playerProfile // parallel to rosterShape
	Bench    []playerProfile
}

// seasonData is the fully generated season before serialization.
type seasonData struct {
	Season   int
	Source   string
	EraIdx   int
	Owners   []ownerProfile
	Rosters  []rosterAssignment // parallel to Owners
	Weeks    []weekData
	Champion string
	// StatsPool lists players that appear in the season's stats export.
	StatsPool []playerProfile
}

type weekData struct {
	Week     int
	Rows     []rowData
	Matchups []matchupData
}

// rowData is one lineup row before it is shaped for the season's source.
type rowData struct {
	Player   playerProfile
	RosterID int
	Team     string
	Slot     string
	Started  bool
	Points   float64
}

type matchupData struct {
	RosterA, RosterB int
	TeamA, TeamB     string
	OwnerA, OwnerB   string
	ScoreA, ScoreB   float64
}

// eraForSeason buckets seasons into thirds: oldest third is the free-text
// archive, middle third the legacy platform, the rest the current platform.
func eraForSeason(cfg *Config, season int) (string, int) {
	offset := season - cfg.StartSeason
	third := cfg.NumSeasons / 3
	if third < 1 {
		third = 1
	}
	switch {
	case offset < third:
		return "historical", 0
	case offset < 2*third:
		return "legacy", 1
	default:
		return "sleeper", 2
	}
}

// pointsFor draws a weekly score from the position's archetype mix.
func pointsFor(position string) float64 {
	s, ok := scoringByPosition[position]
	if !ok {
		s = scoringByPosition["WR"]
	}

	switch getRandomInt(scoringCaseCount) {
	case caseTypicalWeek:
		return round1(s.Base + getRandomFloat()*s.Range)
	case caseStrongWeek:
		return round1(s.Base + s.Range*0.6 + getRandomFloat()*s.Range*0.6)
	case caseQuietWeek:
		return round1(getRandomFloat() * s.Base)
	case caseBoomWeek:
		return round1(s.Base + s.Range + getRandomFloat()*(s.Boom-s.Base-s.Range))
	case caseDudWeek:
		return round1(getRandomFloat() * 2.0)
	case caseSteadyWeek:
		return round1(s.Base + s.Range*0.3 + getRandomFloat()*s.Range*0.3)
	case caseBelowParWeek:
		return round1(s.Base * getRandomFloat())
	case caseAnythingGoes:
		return round1(getRandomFloat() * s.Boom)
	default:
		return round1(s.Base + getRandomFloat()*s.Range)
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// generateSeason builds one season's rosters, weekly lineups, and matchups.
func generateSeason(ctx context.Context, cfg *Config, season int, pool []playerProfile) (*seasonData, error) {
	source, eraIdx := eraForSeason(cfg, season)

	numTeams := cfg.NumTeams
	if numTeams%2 != 0 {
		numTeams++
	}
	if numTeams > len(ownerPool) {
		return nil, fmt.Errorf("team count %d exceeds owner pool size %d", numTeams, len(ownerPool))
	}

	owners := make([]ownerProfile, numTeams)
	copy(owners, ownerPool[:numTeams])

	groups := byPosition(pool)
	rosters := make([]rosterAssignment, numTeams)
	for t := 0; t < numTeams; t++ {
		rosters[t] = assignRoster(t, numTeams, groups)
	}

	sd := &seasonData{
		Season:  season,
		Source:  source,
		EraIdx:  eraIdx,
		Owners:  owners,
		Rosters: rosters,
	}

	wins := make([]int, numTeams)
	for week := 1; week <= cfg.NumWeeks; week++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		wd := generateWeek(sd, week, wins)
		sd.Weeks = append(sd.Weeks, wd)
	}

	// Champion is the team with the most regular-season wins.
	best := 0
	for t := range wins {
		if wins[t] > wins[best] {
			best = t
		}
	}
	sd.Champion = owners[best].TeamNames[eraIdx]

	sd.StatsPool = statsPoolFor(sd, pool)

	logger.Get().Debug(ctx, "generated season",
		logger.Int("season", season),
		logger.String("source", source),
		logger.Int("weeks", len(sd.Weeks)),
		logger.String("champion", sd.Champion))

	return sd, nil
}

// assignRoster deals players to team t round-robin within each position
// group so no two teams share a player in one season.
func assignRoster(t, numTeams int, groups map[string][]playerProfile) rosterAssignment {
	var ra rosterAssignment
	used := map[string]int{}

	pick := func(position string) playerProfile {
		group := groups[position]
		idx := (used[position]*numTeams + t) % len(group)
		used[position]++
		return group[idx]
	}

	for _, slot := range rosterShape {
		position := slot
		if slot == "FLEX" {
			position = flexEligible[getRandomInt(len(flexEligible))]
		}
		ra.Starters = append(ra.Starters, pick(position))
	}
	for i := 0; i < benchSize; i++ {
		position := flexEligible[getRandomInt(len(flexEligible))]
		ra.Bench = append(ra.Bench, pick(position))
	}

	return ra
}

// generateWeek scores every roster and pairs teams into matchups. The wins
// slice is updated in place for champion selection.
func generateWeek(sd *seasonData, week int, wins []int) weekData {
	wd := weekData{Week: week}
	teamScores := make([]float64, len(sd.Owners))

	for t, ra := range sd.Rosters {
		team := sd.Owners[t].TeamNames[sd.EraIdx]
		for i, p := range ra.Starters {
			points := pointsFor(p.Position)
			teamScores[t] += points
			wd.Rows = append(wd.Rows, rowData{
				Player:   p,
				RosterID: t + 1,
				Team:     team,
				Slot:     rosterShape[i],
				Started:  true,
				Points:   points,
			})
		}
		for _, p := range ra.Bench {
			wd.Rows = append(wd.Rows, rowData{
				Player:   p,
				RosterID: t + 1,
				Team:     team,
				Slot:     "BN",
				Points:   pointsFor(p.Position),
			})
		}
	}

	// Rotate pairings by week so every team eventually meets every other.
	for i := 0; i < len(sd.Owners); i += 2 {
		a := (i + week - 1) % len(sd.Owners)
		b := (i + week) % len(sd.Owners)
		if a == b {
			b = (b + 1) % len(sd.Owners)
		}

		scoreA, scoreB := teamScores[a], teamScores[b]
		if getRandomFloat() < tieShare {
			scoreB = scoreA
		}

		wd.Matchups = append(wd.Matchups, matchupData{
			RosterA: a + 1, RosterB: b + 1,
			TeamA:  sd.Owners[a].TeamNames[sd.EraIdx],
			TeamB:  sd.Owners[b].TeamNames[sd.EraIdx],
			OwnerA: sd.Owners[a].Username,
			OwnerB: sd.Owners[b].Username,
			ScoreA: round1(scoreA), ScoreB: round1(scoreB),
		})

		switch {
		case scoreA > scoreB:
			wins[a]++
		case scoreB > scoreA:
			wins[b]++
		}
	}

	return wd
}

// statsPoolFor selects which rostered players appear in the season's stats
// export. Placeholder players are dropped half the time so some legacy ids
// stay unresolvable, matching real archives.
func statsPoolFor(sd *seasonData, pool []playerProfile) []playerProfile {
	rostered := make(map[string]struct{})
	for _, ra := range sd.Rosters {
		for _, p := range ra.Starters {
			rostered[p.SleeperID] = struct{}{}
		}
		for _, p := range ra.Bench {
			rostered[p.SleeperID] = struct{}{}
		}
	}

	var out []playerProfile
	for _, p := range pool {
		if _, ok := rostered[p.SleeperID]; !ok {
			continue
		}
		if p.Placeholder && getRandomFloat() < missingStatsShare {
			continue
		}
		out = append(out, p)
	}
	return out
}
