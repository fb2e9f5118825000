package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// stringPointsShare is the fraction of free-text archive rows whose points
// are written as quoted strings, the way scraped tables arrive.
const stringPointsShare = 0.3

type teamJSON struct {
	RosterID         int    `json:"roster_id,omitempty"`
	TeamName         string `json:"team_name"`
	OwnerUsername    string `json:"owner_username,omitempty"`
	OwnerDisplayName string `json:"owner_display_name,omitempty"`
}

type seasonJSON struct {
	Season   int        `json:"season"`
	Source   string     `json:"source"`
	Champion string     `json:"champion,omitempty"`
	Teams    []teamJSON `json:"teams"`
}

type matchupSideJSON struct {
	RosterID    int     `json:"roster_id,omitempty"`
	Team        string  `json:"team,omitempty"`
	Participant string  `json:"participant,omitempty"`
	Score       float64 `json:"score"`
}

type matchupJSON struct {
	A matchupSideJSON `json:"a"`
	B matchupSideJSON `json:"b"`
}

type weekJSON struct {
	Season   int           `json:"season"`
	Week     int           `json:"week"`
	Source   string        `json:"source"`
	Lineups  []any         `json:"lineups"`
	Matchups []matchupJSON `json:"matchups"`
}

type sleeperLineupJSON struct {
	PlayerID string  `json:"player_id"`
	GSISID   string  `json:"gsis_id,omitempty"`
	Name     string  `json:"name"`
	RosterID int     `json:"roster_id"`
	Slot     string  `json:"slot"`
	Points   float64 `json:"points"`
}

type legacyLineupJSON struct {
	ESPNID  string  `json:"espn_id"`
	Name    string  `json:"player_name"`
	Team    string  `json:"team"`
	Slot    string  `json:"slot"`
	Started bool    `json:"started"`
	Points  float64 `json:"points"`
}

type historicalLineupJSON struct {
	Player  string `json:"player"`
	Team    string `json:"team"`
	Slot    string `json:"slot,omitempty"`
	Started bool   `json:"started"`
	Points  any    `json:"points"`
}

type statsEntryJSON struct {
	Name      string `json:"name"`
	SleeperID string `json:"sleeper_id,omitempty"`
	GSISID    string `json:"gsis_id,omitempty"`
	ESPNID    string `json:"espn_id,omitempty"`
	Position  string `json:"position,omitempty"`
	Team      string `json:"team,omitempty"`
}

// writeSeason serializes one generated season into its snapshot directory.
func writeSeason(ctx context.Context, cfg *Config, sd *seasonData, stats *Stats) error {
	dir := filepath.Join(cfg.DataDir, fmt.Sprintf("%d", sd.Season))
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create season directory: %w", err)
	}

	if err := writeJSONFile(filepath.Join(dir, "season.json"), seasonDescriptor(sd)); err != nil {
		return err
	}

	for _, wd := range sd.Weeks {
		wf := weekJSON{
			Season:   sd.Season,
			Week:     wd.Week,
			Source:   sd.Source,
			Lineups:  shapeLineups(sd, wd.Rows),
			Matchups: shapeMatchups(sd, wd.Matchups),
		}
		name := fmt.Sprintf("week_%d.json", wd.Week)
		if err := writeJSONFile(filepath.Join(dir, name), wf); err != nil {
			return err
		}
		stats.WeeksWritten++
		stats.RowsWritten += len(wd.Rows)
		stats.MatchupsWritten += len(wd.Matchups)
	}

	if err := writeJSONFile(filepath.Join(dir, "stats.json"), shapeStats(sd)); err != nil {
		return err
	}

	stats.SeasonsWritten++
	logger.Get().Info(ctx, "wrote season snapshot",
		logger.String("dir", dir),
		logger.String("source", sd.Source),
		logger.Int("weeks", len(sd.Weeks)))
	return nil
}

// seasonDescriptor shapes the season header for the era. The free-text
// archive has no usernames or roster ids; the legacy export has labels and
// usernames but no roster ids.
func seasonDescriptor(sd *seasonData) seasonJSON {
	sf := seasonJSON{Season: sd.Season, Source: sd.Source, Champion: sd.Champion}
	for t, o := range sd.Owners {
		entry := teamJSON{TeamName: o.TeamNames[sd.EraIdx]}
		switch sd.Source {
		case "sleeper":
			entry.RosterID = t + 1
			entry.OwnerUsername = o.Username
			entry.OwnerDisplayName = o.DisplayName
		case "legacy":
			entry.OwnerUsername = o.Username
			entry.OwnerDisplayName = o.DisplayName
		default:
			entry.OwnerDisplayName = o.DisplayName
		}
		sf.Teams = append(sf.Teams, entry)
	}
	return sf
}

func shapeLineups(sd *seasonData, rows []rowData) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		switch sd.Source {
		case "sleeper":
			out = append(out, sleeperLineupJSON{
				PlayerID: r.Player.SleeperID,
				GSISID:   r.Player.GSISID,
				Name:     r.Player.Name,
				RosterID: r.RosterID,
				Slot:     r.Slot,
				Points:   r.Points,
			})
		case "legacy":
			name := r.Player.Name
			if r.Player.Placeholder {
				name = "ESPN Player " + r.Player.ESPNID
			}
			out = append(out, legacyLineupJSON{
				ESPNID:  r.Player.ESPNID,
				Name:    name,
				Team:    r.Team,
				Slot:    r.Slot,
				Started: r.Started,
				Points:  r.Points,
			})
		default:
			var points any = r.Points
			if getRandomFloat() < stringPointsShare {
				points = fmt.Sprintf("%.1f", r.Points)
			}
			out = append(out, historicalLineupJSON{
				Player:  r.Player.Name,
				Team:    r.Team,
				Slot:    r.Slot,
				Started: r.Started,
				Points:  points,
			})
		}
	}
	return out
}

func shapeMatchups(sd *seasonData, matchups []matchupData) []matchupJSON {
	out := make([]matchupJSON, 0, len(matchups))
	for _, m := range matchups {
		var entry matchupJSON
		switch sd.Source {
		case "sleeper":
			entry.A = matchupSideJSON{RosterID: m.RosterA, Score: m.ScoreA}
			entry.B = matchupSideJSON{RosterID: m.RosterB, Score: m.ScoreB}
		case "legacy":
			entry.A = matchupSideJSON{Team: m.TeamA, Score: m.ScoreA}
			entry.B = matchupSideJSON{Team: m.TeamB, Score: m.ScoreB}
		default:
			entry.A = matchupSideJSON{Participant: m.OwnerA, Team: m.TeamA, Score: m.ScoreA}
			entry.B = matchupSideJSON{Participant: m.OwnerB, Team: m.TeamB, Score: m.ScoreB}
		}
		out = append(out, entry)
	}
	return out
}

// shapeStats emits the season's auxiliary name index. Each era exposes the
// id namespaces it actually had.
func shapeStats(sd *seasonData) []statsEntryJSON {
	out := make([]statsEntryJSON, 0, len(sd.StatsPool))
	for _, p := range sd.StatsPool {
		entry := statsEntryJSON{Name: p.Name, Position: p.Position, Team: p.NFLTeam}
		switch sd.Source {
		case "sleeper":
			entry.SleeperID = p.SleeperID
			entry.GSISID = p.GSISID
		case "legacy":
			entry.ESPNID = p.ESPNID
		default:
			entry.SleeperID = p.SleeperID
		}
		out = append(out, entry)
	}
	return out
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
