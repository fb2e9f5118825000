package synth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// randomFloatDivisor scales crypto/rand integers into the unit interval.
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random integer in [0, max).
func getRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

var firstNames = []string{
	"Aaron", "Brandon", "Carlos", "Derek", "Elias", "Frank", "Gabriel",
	"Hakeem", "Isaiah", "Jamal", "Kyle", "Lamar", "Marcus", "Nolan",
	"Omar", "Preston", "Quentin", "Rashad", "Santiago", "Tyrell",
	"Uriel", "Victor", "Wendell", "Xavier", "Yusuf", "Zane",
}

var lastNames = []string{
	"Anderson", "Baxter", "Caldwell", "Dawson", "Ellington", "Fulton",
	"Granger", "Holloway", "Irving", "Jefferson", "Kowalski", "Langford",
	"Mercer", "Navarro", "Okafor", "Pressley", "Quintero", "Radcliffe",
	"Sampson", "Thibodeaux", "Upshaw", "Vargas", "Whitfield", "Yarbrough",
}

var nflTeams = []string{
	"ARI", "BAL", "BUF", "CHI", "DAL", "DEN", "GB", "KC",
	"MIA", "MIN", "NE", "NO", "PHI", "PIT", "SEA", "SF",
}

// ownerProfile is one league member. Team names change across eras so the
// generated archive exercises label reconciliation.
type ownerProfile struct {
	Username    string
	DisplayName string
	// TeamNames maps era index (0 oldest) to the label used that era.
	TeamNames []string
}

var ownerPool = []ownerProfile{
	{Username: "gridlock", DisplayName: "Gary", TeamNames: []string{"Gridlock Gang", "Gridlock Gang", "Gridlock Dynasty"}},
	{Username: "mvp_mia", DisplayName: "Mia", TeamNames: []string{"Mia's Marauders", "Marauders Reborn", "Marauders Reborn"}},
	{Username: "touchdown_tom", DisplayName: "Tommy", TeamNames: []string{"TD Machine", "TD Machine", "TD Machine"}},
	{Username: "blitzqueen", DisplayName: "Beatriz", TeamNames: []string{"Blitz Brigade", "Queen's Blitz", "Queen's Blitz"}},
	{Username: "hailmary_hank", DisplayName: "Hank", TeamNames: []string{"Hail Marys", "Hail Marys", "Last Second Heroes"}},
	{Username: "sackattack", DisplayName: "Sasha", TeamNames: []string{"Sack Attack", "Sack Attack", "Sack Attack"}},
	{Username: "endzone_ed", DisplayName: "Eddie", TeamNames: []string{"Endzone Elite", "Endzone Elite", "Endzone Empire"}},
	{Username: "pigskin_pat", DisplayName: "Patricia", TeamNames: []string{"Pigskin Pros", "Pigskin Pros", "Pigskin Pros"}},
	{Username: "fourthdown", DisplayName: "Felix", TeamNames: []string{"Fourth Down Gamblers", "Go For It", "Go For It"}},
	{Username: "redzone_rita", DisplayName: "Rita", TeamNames: []string{"Redzone Raiders", "Redzone Raiders", "Redzone Raiders"}},
	{Username: "clutchcarl", DisplayName: "Carl", TeamNames: []string{"Clutch City", "Clutch City", "Clutch Kingdom"}},
	{Username: "waiverwire", DisplayName: "Wanda", TeamNames: []string{"Waiver Wizards", "Waiver Wizards", "Waiver Wizards"}},
}

// playerProfile is one synthetic NFL player carried across every season so
// the same person appears under different id namespaces per era.
type playerProfile struct {
	Name      string
	Position  string
	NFLTeam   string
	SleeperID string
	GSISID    string
	ESPNID    string
	// Placeholder marks legacy exports that lost this player's name.
	Placeholder bool
}

// rosterShape lists the starting slots every team fills each week.
var rosterShape = []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "DEF", "K"}

// benchSize is the number of bench rows appended after starters.
const benchSize = 3

// flexEligible are positions a FLEX slot may carry.
var flexEligible = []string{"RB", "WR", "TE"}

// poolSizes maps position to how many players the pool carries. Sized so
// every team fills its roster with leftovers on waivers.
var poolSizes = map[string]int{
	"QB":  24,
	"RB":  48,
	"WR":  48,
	"TE":  24,
	"K":   16,
	"DEF": 16,
}

// placeholderShare is the fraction of legacy-era rows that arrive with a
// lost name, e.g. "ESPN Player 1234".
const placeholderShare = 0.08

// buildPlayerPool creates the full cross-season player population with ids
// in every namespace.
func buildPlayerPool() []playerProfile {
	var pool []playerProfile
	seen := make(map[string]struct{})

	nextSleeper := 1000
	nextGSIS := 100
	nextESPN := 5000

	for _, position := range []string{"QB", "RB", "WR", "TE", "K", "DEF"} {
		for i := 0; i < poolSizes[position]; i++ {
			var name string
			for {
				name = firstNames[getRandomInt(len(firstNames))] + " " + lastNames[getRandomInt(len(lastNames))]
				if _, dup := seen[name]; !dup {
					break
				}
			}
			seen[name] = struct{}{}

			if position == "DEF" {
				name = nflTeams[i%len(nflTeams)] + " Defense"
			}

			p := playerProfile{
				Name:        name,
				Position:    position,
				NFLTeam:     nflTeams[getRandomInt(len(nflTeams))],
				SleeperID:   fmt.Sprintf("%d", nextSleeper),
				ESPNID:      fmt.Sprintf("%d", nextESPN),
				Placeholder: getRandomFloat() < placeholderShare,
			}
			// Only a subset of the pool carries league-data ids.
			if getRandomFloat() < 0.4 {
				p.GSISID = fmt.Sprintf("00-%07d", nextGSIS)
				nextGSIS++
			}
			nextSleeper++
			nextESPN++

			pool = append(pool, p)
		}
	}

	return pool
}

// byPosition groups the pool for draft-style roster assembly.
func byPosition(pool []playerProfile) map[string][]playerProfile {
	out := make(map[string][]playerProfile)
	for _, p := range pool {
		out[p.Position] = append(out[p.Position], p)
	}
	return out
}
