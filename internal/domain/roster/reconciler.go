// Package roster applies identity resolution to raw weekly lineup and
// matchup rows, attaching canonical player ids, resolved positions, and
// normalized team labels.
package roster

import (
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/franchise"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/identity"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/namenorm"
)

// AuxEntry is one entry of the auxiliary name index built from a
// full-season stats export, used as a secondary lookup source for rows that
// are otherwise unresolvable.
type AuxEntry struct {
	SleeperID string
	GSISID    string
	ESPNID    string
	Position  string
	Team      string
}

// NameIndex looks up auxiliary entries by normalized player name.
type NameIndex interface {
	ByName(normalized string) (AuxEntry, bool)
}

// Team describes one franchise slot in a season's roster table.
type Team struct {
	RosterID         int
	TeamName         string
	OwnerUsername    string
	OwnerDisplayName string
}

// seasonContext carries the per-season lookup tables a reconcile needs.
type seasonContext struct {
	rosters map[int]Team
	aux     NameIndex
}

// Reconciler turns raw rows into reconciled weekly rows and matchup
// records. It is a pure transform over the shared resolver and owner
// registry; season contexts are registered up front and read-only after.
type Reconciler struct {
	resolver *identity.Resolver
	owners   *franchise.Registry
	seasons  map[int]seasonContext
}

// New creates a reconciler over the shared resolver and owner registry.
func New(resolver *identity.Resolver, owners *franchise.Registry) *Reconciler {
	return &Reconciler{
		resolver: resolver,
		owners:   owners,
		seasons:  make(map[int]seasonContext),
	}
}

// AddSeason registers a season's roster table and auxiliary name index, and
// observes every franchise label so owner history survives renames. aux may
// be nil for seasons without a stats export.
func (rc *Reconciler) AddSeason(season int, teams []Team, aux NameIndex) {
	rosters := make(map[int]Team, len(teams))
	for _, t := range teams {
		if t.RosterID != 0 {
			rosters[t.RosterID] = t
		}
		preferred := t.OwnerUsername
		if preferred == "" {
			preferred = t.OwnerDisplayName
		}
		rc.owners.Observe(t.TeamName, preferred)
		if t.OwnerDisplayName != "" {
			rc.owners.Observe(t.OwnerDisplayName, preferred)
		}
	}
	rc.seasons[season] = seasonContext{rosters: rosters, aux: aux}
}

// ReconcileWeek resolves one week's lineup rows and matchups. Rows that
// cannot be linked to a canonical identity are still emitted, flagged
// CanLink=false, so totals are never silently dropped.
func (rc *Reconciler) ReconcileWeek(season, week int, lineups []model.RawLineupRow, matchups []model.RawMatchup) ([]model.WeeklyRow, []model.MatchupRecord) {
	ctx := rc.seasons[season]

	rows := make([]model.WeeklyRow, 0, len(lineups))
	for i, raw := range lineups {
		rows = append(rows, rc.reconcileRow(ctx, season, week, i, raw))
	}

	records := make([]model.MatchupRecord, 0, len(matchups))
	for _, m := range matchups {
		records = append(records, rc.reconcileMatchup(ctx, season, week, m))
	}
	return rows, records
}

// reconcileRow attempts identity resolution in the fixed order: direct id,
// secondary-platform id plus auxiliary name lookup, auxiliary name alone,
// then unresolved.
func (rc *Reconciler) reconcileRow(ctx seasonContext, season, week, order int, raw model.RawLineupRow) model.WeeklyRow {
	norm := namenorm.Normalize(raw.PlayerName)
	nameUsable := norm != "" && !namenorm.IsPlaceholder(raw.PlayerName)

	keys := identity.RowKeys{
		SleeperID:  raw.SleeperID,
		GSISID:     raw.GSISID,
		ESPNID:     raw.ESPNID,
		PlayerName: raw.PlayerName,
		Position:   concretePosition(raw.Slot),
	}

	var aux AuxEntry
	var auxOK bool
	if nameUsable && ctx.aux != nil {
		aux, auxOK = ctx.aux.ByName(norm)
	}

	var ident model.PlayerIdentity
	resolved := false
	switch {
	case raw.SleeperID != "" || raw.GSISID != "":
		// Direct id against the primary or stats namespace.
		if auxOK {
			keys = fillFromAux(keys, aux)
		}
		ident = rc.resolver.Register(keys)
		resolved = true

	case raw.ESPNID != "":
		// A secondary-platform id resolves only through a prior
		// co-occurrence or an auxiliary name match.
		if _, known := rc.resolver.Resolve(raw.ESPNID, model.NamespaceESPN); known {
			ident = rc.resolver.Register(keys)
			resolved = true
		} else if auxOK {
			keys = fillFromAux(keys, aux)
			ident = rc.resolver.Register(keys)
			resolved = true
		} else if nameUsable {
			if _, known := rc.resolver.ResolveName(raw.PlayerName); known {
				ident = rc.resolver.Register(keys)
				resolved = true
			}
		}

	case nameUsable:
		if auxOK {
			keys = fillFromAux(keys, aux)
			ident = rc.resolver.Register(keys)
			resolved = true
		} else if _, known := rc.resolver.ResolveName(raw.PlayerName); known {
			ident = rc.resolver.Register(keys)
			resolved = true
		}
	}

	row := model.WeeklyRow{
		Season:      season,
		Week:        week,
		Team:        rc.teamLabel(ctx, raw),
		PlayerName:  raw.PlayerName,
		Points:      raw.Points,
		Started:     raw.Started,
		Slot:        raw.Slot,
		SourceOrder: order,
	}
	if resolved {
		row.CanLink = true
		row.CanonicalPlayerID = ident.CanonicalID
		if ident.DisplayName != "" {
			row.PlayerName = ident.DisplayName
		}
	}

	// Position precedence: resolved identity, then auxiliary entry, then a
	// concrete slot label from the row itself.
	switch {
	case resolved && ident.Position != "":
		row.Position = ident.Position
	case auxOK && aux.Position != "":
		row.Position = aux.Position
	default:
		row.Position = concretePosition(raw.Slot)
	}
	return row
}

// fillFromAux supplies ids and descriptive fields the row itself lacks.
// Fields present on the row win over the auxiliary index.
func fillFromAux(keys identity.RowKeys, aux AuxEntry) identity.RowKeys {
	if keys.SleeperID == "" {
		keys.SleeperID = aux.SleeperID
	}
	if keys.GSISID == "" {
		keys.GSISID = aux.GSISID
	}
	if keys.ESPNID == "" {
		keys.ESPNID = aux.ESPNID
	}
	if keys.Position == "" {
		keys.Position = aux.Position
	}
	if keys.NFLTeam == "" {
		keys.NFLTeam = aux.Team
	}
	return keys
}

// teamLabel maps a row to its canonical owner label, falling back to the
// normalized raw team label.
func (rc *Reconciler) teamLabel(ctx seasonContext, raw model.RawLineupRow) string {
	if t, ok := ctx.rosters[raw.RosterID]; ok {
		if owner, known := rc.owners.Canonical(t.TeamName); known {
			return owner
		}
	}
	if owner, known := rc.owners.Canonical(raw.Team); known {
		return owner
	}
	return franchise.NormalizeLabel(raw.Team)
}

// reconcileMatchup resolves both sides of a raw matchup to canonical owners
// and derives the result.
func (rc *Reconciler) reconcileMatchup(ctx seasonContext, season, week int, m model.RawMatchup) model.MatchupRecord {
	rec := model.MatchupRecord{
		Season: season,
		Week:   week,
		OwnerA: rc.sideOwner(ctx, m.SideA),
		OwnerB: rc.sideOwner(ctx, m.SideB),
		TeamA:  sideTeamName(ctx, m.SideA),
		TeamB:  sideTeamName(ctx, m.SideB),
		ScoreA: m.SideA.Score,
		ScoreB: m.SideB.Score,
	}
	rec.Derive()
	return rec
}

// sideOwner reconciles the three possible labels for one side of a matchup
// into one canonical owner. Different source generations used different
// labels for the same side, so every key is tried.
func (rc *Reconciler) sideOwner(ctx seasonContext, side model.RawMatchupSide) string {
	for key := range SideKeys(ctx.rosters, side) {
		if owner, ok := rc.owners.Canonical(key); ok {
			return owner
		}
	}
	return franchise.NormalizeLabel(side.Team)
}

func sideTeamName(ctx seasonContext, side model.RawMatchupSide) string {
	if t, ok := ctx.rosters[side.RosterID]; ok && t.TeamName != "" {
		return t.TeamName
	}
	return side.Team
}

// SideKeys unions every label that may identify one side of a matchup: the
// side's team label, the roster-id-mapped team and owner labels, and any
// participant display name. Keys are normalized.
func SideKeys(rosters map[int]Team, side model.RawMatchupSide) map[string]struct{} {
	keys := make(map[string]struct{})
	add := func(label string) {
		if n := franchise.NormalizeLabel(label); n != "" {
			keys[n] = struct{}{}
		}
	}

	add(side.Team)
	add(side.ParticipantName)
	if t, ok := rosters[side.RosterID]; ok {
		add(t.TeamName)
		add(t.OwnerUsername)
		add(t.OwnerDisplayName)
	}
	return keys
}
