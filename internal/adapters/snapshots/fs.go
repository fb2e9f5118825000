package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/namenorm"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/roster"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/logger"
)

const (
	seasonFileName = "season.json"
	statsFileName  = "stats.json"
)

var weekFilePattern = regexp.MustCompile(`^week_(\d+)\.json$`)

// FSStore reads the snapshot tree rooted at a data directory. Layout:
// <root>/<season>/season.json, week_<n>.json, and optionally stats.json.
type FSStore struct {
	root string
	log  logger.Logger
}

// NewFSStore creates a store over the given data directory.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root, log: logger.Named("snapshots")}
}

// Seasons lists seasons present in the tree, ascending.
func (s *FSStore) Seasons(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var seasons []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		season, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons, nil
}

// Weeks lists the weeks present for a season, ascending.
func (s *FSStore) Weeks(ctx context.Context, season int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := s.seasonDir(season)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("season %d: %w", season, ErrSeasonNotFound)
		}
		return nil, fmt.Errorf("read season dir: %w", err)
	}
	var weeks []int
	for _, e := range entries {
		m := weekFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		week, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)
	return weeks, nil
}

// Week loads and normalizes one week's snapshot.
func (s *FSStore) Week(ctx context.Context, season, week int) (WeekPayload, error) {
	if err := ctx.Err(); err != nil {
		return WeekPayload{}, err
	}
	path := filepath.Join(s.seasonDir(season), fmt.Sprintf("week_%d.json", week))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return WeekPayload{}, fmt.Errorf("season %d week %d: %w", season, week, ErrWeekNotFound)
		}
		return WeekPayload{}, fmt.Errorf("read week file: %w", err)
	}

	var wf weekFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return WeekPayload{}, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	source := wf.Source
	if source == "" {
		source = s.seasonSource(ctx, season)
	}
	lineups, err := normalizeLineups(source, wf.Lineups)
	if err != nil {
		return WeekPayload{}, fmt.Errorf("%s: %w", path, err)
	}

	s.log.Debug(ctx, "loaded week snapshot",
		logger.Int("season", season),
		logger.Int("week", week),
		logger.String("source", source),
		logger.Int("lineups", len(lineups)),
		logger.Int("matchups", len(wf.Matchups)),
	)
	return WeekPayload{
		Season:   season,
		Week:     week,
		Source:   source,
		Lineups:  lineups,
		Matchups: normalizeMatchups(wf.Matchups),
	}, nil
}

// SeasonInfo loads a season's roster table and champion label.
func (s *FSStore) SeasonInfo(ctx context.Context, season int) (SeasonDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return SeasonDescriptor{}, err
	}
	sf, err := s.readSeasonFile(season)
	if err != nil {
		return SeasonDescriptor{}, err
	}
	teams := make([]roster.Team, 0, len(sf.Teams))
	for _, t := range sf.Teams {
		teams = append(teams, roster.Team{
			RosterID:         t.RosterID,
			TeamName:         t.TeamName,
			OwnerUsername:    t.OwnerUsername,
			OwnerDisplayName: t.OwnerDisplayName,
		})
	}
	return SeasonDescriptor{
		Season:   season,
		Source:   sf.Source,
		Champion: sf.Champion,
		Teams:    teams,
	}, nil
}

// AuxIndex builds the auxiliary name index from the season's stats export.
// Placeholder names never enter the index; on a normalized-name collision
// the first entry wins.
func (s *FSStore) AuxIndex(ctx context.Context, season int) (roster.NameIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.seasonDir(season), statsFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stats file: %w", err)
	}
	var entries []statsEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	idx := make(auxIndex, len(entries))
	skipped := 0
	for _, e := range entries {
		norm := namenorm.Normalize(e.Name)
		if norm == "" || namenorm.IsPlaceholder(e.Name) {
			skipped++
			continue
		}
		if _, exists := idx[norm]; exists {
			continue
		}
		idx[norm] = roster.AuxEntry{
			SleeperID: e.SleeperID,
			GSISID:    e.GSISID,
			ESPNID:    e.ESPNID,
			Position:  e.Position,
			Team:      e.Team,
		}
	}
	s.log.Debug(ctx, "built auxiliary name index",
		logger.Int("season", season),
		logger.Int("entries", len(idx)),
		logger.Int("skipped", skipped),
	)
	return idx, nil
}

func (s *FSStore) seasonDir(season int) string {
	return filepath.Join(s.root, strconv.Itoa(season))
}

func (s *FSStore) readSeasonFile(season int) (seasonFile, error) {
	path := filepath.Join(s.seasonDir(season), seasonFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return seasonFile{}, fmt.Errorf("season %d: %w", season, ErrSeasonNotFound)
		}
		return seasonFile{}, fmt.Errorf("read season file: %w", err)
	}
	var sf seasonFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return seasonFile{}, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return sf, nil
}

// seasonSource reads the season-level source tag for week files that omit
// their own. Unknown seasons default to the primary generation.
func (s *FSStore) seasonSource(ctx context.Context, season int) string {
	sf, err := s.readSeasonFile(season)
	if err != nil || sf.Source == "" {
		return SourceSleeper
	}
	return sf.Source
}

// auxIndex is the map-backed NameIndex the fs store produces.
type auxIndex map[string]roster.AuxEntry

func (m auxIndex) ByName(normalized string) (roster.AuxEntry, bool) {
	e, ok := m[normalized]
	return e, ok
}

var _ Store = (*FSStore)(nil)
var _ roster.NameIndex = (auxIndex)(nil)
