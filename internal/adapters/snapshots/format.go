package snapshots

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// Source generations. Each season's files carry a source tag; the tag
// selects which lineup shape the week files use.
const (
	SourceSleeper    = "sleeper"
	SourceLegacy     = "legacy"
	SourceHistorical = "historical"
)

// looseFloat accepts JSON numbers, numeric strings, and null. Malformed
// values decode to 0 rather than failing the whole file.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*f = looseFloat(model.ParsePoints(strings.TrimSpace(raw)))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

type teamEntry struct {
	RosterID         int    `json:"roster_id"`
	TeamName         string `json:"team_name"`
	OwnerUsername    string `json:"owner_username"`
	OwnerDisplayName string `json:"owner_display_name"`
}

type seasonFile struct {
	Season   int         `json:"season"`
	Source   string      `json:"source"`
	Champion string      `json:"champion,omitempty"`
	Teams    []teamEntry `json:"teams"`
}

type matchupSide struct {
	RosterID    int        `json:"roster_id,omitempty"`
	Team        string     `json:"team,omitempty"`
	Participant string     `json:"participant,omitempty"`
	Score       looseFloat `json:"score"`
}

type matchupEntry struct {
	A matchupSide `json:"a"`
	B matchupSide `json:"b"`
}

type weekFile struct {
	Season   int             `json:"season"`
	Week     int             `json:"week"`
	Source   string          `json:"source"`
	Lineups  json.RawMessage `json:"lineups"`
	Matchups []matchupEntry  `json:"matchups"`
}

// sleeperLineup is one entry from the primary roster api generation.
// Ids are native, rows are keyed to roster ids, and bench status is
// derived from the slot label.
type sleeperLineup struct {
	PlayerID string     `json:"player_id"`
	GSISID   string     `json:"gsis_id,omitempty"`
	Name     string     `json:"name"`
	RosterID int        `json:"roster_id"`
	Slot     string     `json:"slot"`
	Points   looseFloat `json:"points"`
}

// legacyLineup is one entry from the legacy platform export. Names are
// often placeholders, ids are in the secondary namespace, and teams are
// labels rather than roster ids.
type legacyLineup struct {
	ESPNID  string     `json:"espn_id"`
	Name    string     `json:"player_name"`
	Team    string     `json:"team"`
	Slot    string     `json:"slot"`
	Started bool       `json:"started"`
	Points  looseFloat `json:"points"`
}

// historicalLineup is one entry from the free-text historical archive.
// No ids at all; points frequently arrive as strings.
type historicalLineup struct {
	Player  string     `json:"player"`
	Team    string     `json:"team"`
	Slot    string     `json:"slot,omitempty"`
	Started bool       `json:"started"`
	Points  looseFloat `json:"points"`
}

// statsEntry is one row of the full-season stats export behind the
// auxiliary name index.
type statsEntry struct {
	Name      string `json:"name"`
	SleeperID string `json:"sleeper_id,omitempty"`
	GSISID    string `json:"gsis_id,omitempty"`
	ESPNID    string `json:"espn_id,omitempty"`
	Position  string `json:"position,omitempty"`
	Team      string `json:"team,omitempty"`
}

// benchSlots are sleeper slot labels that mean "not started".
var benchSlots = map[string]struct{}{
	"BN":   {},
	"IR":   {},
	"TAXI": {},
}

func sleeperStarted(slot string) bool {
	_, bench := benchSlots[strings.ToUpper(strings.TrimSpace(slot))]
	return slot != "" && !bench
}

// normalizeLineups decodes the raw lineup array using the shape the source
// generation wrote, producing the one internal raw-row form.
func normalizeLineups(source string, raw json.RawMessage) ([]model.RawLineupRow, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch source {
	case SourceSleeper:
		var entries []sleeperLineup
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: sleeper lineups: %v", ErrMalformed, err)
		}
		rows := make([]model.RawLineupRow, 0, len(entries))
		for i, e := range entries {
			rows = append(rows, model.RawLineupRow{
				SleeperID:   e.PlayerID,
				GSISID:      e.GSISID,
				PlayerName:  e.Name,
				RosterID:    e.RosterID,
				Slot:        e.Slot,
				Started:     sleeperStarted(e.Slot),
				Points:      float64(e.Points),
				SourceOrder: i,
			})
		}
		return rows, nil

	case SourceLegacy:
		var entries []legacyLineup
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: legacy lineups: %v", ErrMalformed, err)
		}
		rows := make([]model.RawLineupRow, 0, len(entries))
		for i, e := range entries {
			rows = append(rows, model.RawLineupRow{
				ESPNID:      e.ESPNID,
				PlayerName:  e.Name,
				Team:        e.Team,
				Slot:        e.Slot,
				Started:     e.Started,
				Points:      float64(e.Points),
				SourceOrder: i,
			})
		}
		return rows, nil

	case SourceHistorical:
		var entries []historicalLineup
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: historical lineups: %v", ErrMalformed, err)
		}
		rows := make([]model.RawLineupRow, 0, len(entries))
		for i, e := range entries {
			rows = append(rows, model.RawLineupRow{
				PlayerName:  e.Player,
				Team:        e.Team,
				Slot:        e.Slot,
				Started:     e.Started,
				Points:      float64(e.Points),
				SourceOrder: i,
			})
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

func normalizeMatchups(entries []matchupEntry) []model.RawMatchup {
	out := make([]model.RawMatchup, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.RawMatchup{
			SideA: model.RawMatchupSide{
				Team:            e.A.Team,
				RosterID:        e.A.RosterID,
				ParticipantName: e.A.Participant,
				Score:           float64(e.A.Score),
			},
			SideB: model.RawMatchupSide{
				Team:            e.B.Team,
				RosterID:        e.B.RosterID,
				ParticipantName: e.B.Participant,
				Score:           float64(e.B.Score),
			},
		})
	}
	return out
}
