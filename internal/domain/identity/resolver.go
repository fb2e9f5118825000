// Package identity maintains the multi-key index that maps any known
// platform id or normalized name to one canonical player identity.
package identity

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/namenorm"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

// nameIDSpace is the fixed uuid namespace for deriving canonical ids of
// name-only identities; SHA1 uuids keep them reproducible across runs.
var nameIDSpace = uuid.MustParse("7b0dcb7a-3a4e-4c21-9cb0-8a4f2d7d1f33")

// creationOrder fixes which namespace seeds the canonical id when a new
// identity is created from a row carrying several ids.
var creationOrder = []model.Namespace{
	model.NamespaceSleeper,
	model.NamespaceGSIS,
	model.NamespaceESPN,
}

// canonical id prefixes per namespace.
var nsPrefix = map[model.Namespace]string{
	model.NamespaceSleeper: "slp:",
	model.NamespaceGSIS:    "gsis:",
	model.NamespaceESPN:    "espn:",
}

// RowKeys exposes whatever identifying fields one source row carries.
// Empty fields mean the source did not have them.
type RowKeys struct {
	SleeperID  string
	GSISID     string
	ESPNID     string
	PlayerName string

	// Descriptive fields used to fill identity gaps; first resolution wins.
	Position string
	NFLTeam  string
}

// ids returns the present (namespace, id) pairs in creation priority order.
func (k RowKeys) ids() []idKey {
	var out []idKey
	if k.SleeperID != "" {
		out = append(out, idKey{model.NamespaceSleeper, k.SleeperID})
	}
	if k.GSISID != "" {
		out = append(out, idKey{model.NamespaceGSIS, k.GSISID})
	}
	if k.ESPNID != "" {
		out = append(out, idKey{model.NamespaceESPN, k.ESPNID})
	}
	return out
}

type idKey struct {
	ns model.Namespace
	id string
}

// record is one arena entry; seq preserves creation order so merges can keep
// the earlier canonical id.
type record struct {
	identity model.PlayerIdentity
	seq      int
	names    []string // normalized names indexed to this record
}

// Resolver is the session-wide identity index. Register is serialized by an
// internal mutex; Resolve runs under a read lock and returns value copies,
// so readers never observe a half-applied merge.
type Resolver struct {
	mu      sync.RWMutex
	byID    map[idKey]string
	byName  map[string]string
	records map[string]*record
	seq     int
	merges  int
}

// New creates an empty resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		byID:    make(map[idKey]string),
		byName:  make(map[string]string),
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register ensures a canonical identity exists covering every id present on
// the row, merging identities when the row's ids currently point at two
// different ones. It returns a copy of the covering identity.
func (r *Resolver) Register(keys RowKeys) model.PlayerIdentity {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := keys.ids()

	normName := namenorm.Normalize(keys.PlayerName)
	nameUsable := normName != "" && !namenorm.IsPlaceholder(keys.PlayerName)

	// Collect the distinct records the row's ids point at.
	var found []*record
	seen := map[string]struct{}{}
	for _, k := range ids {
		if cid, ok := r.byID[k]; ok {
			if _, dup := seen[cid]; !dup {
				seen[cid] = struct{}{}
				found = append(found, r.records[cid])
			}
		}
	}

	// Ids found nothing: a usable name may attach the row to an existing
	// identity. Names alone never trigger merges.
	if len(found) == 0 && nameUsable {
		if cid, ok := r.byName[normName]; ok {
			found = append(found, r.records[cid])
		}
	}

	var rec *record
	switch len(found) {
	case 0:
		rec = r.create(ids, normName, nameUsable)
	case 1:
		rec = found[0]
	default:
		rec = r.merge(found)
	}

	// Cover every id present on the row.
	for _, k := range ids {
		if cur, ok := rec.identity.AlternateIDs[k.ns]; !ok || cur == "" {
			rec.identity.AlternateIDs[k.ns] = k.id
		}
		r.byID[k] = rec.identity.CanonicalID
	}

	// Secondary name index: first registration of a name wins.
	if nameUsable {
		if _, ok := r.byName[normName]; !ok {
			r.byName[normName] = rec.identity.CanonicalID
			rec.names = append(rec.names, normName)
		}
	}

	r.fill(rec, keys, nameUsable)
	return rec.identity
}

// create builds a new identity. The canonical id comes from the first
// available id in creation priority order; name-only rows get a
// deterministic uuid of the normalized name.
func (r *Resolver) create(ids []idKey, normName string, nameUsable bool) *record {
	var cid string
	if len(ids) > 0 {
		cid = nsPrefix[ids[0].ns] + ids[0].id
	} else if nameUsable {
		cid = uuid.NewSHA1(nameIDSpace, []byte(normName)).String()
	} else {
		// Placeholder-only row with no ids; keyed by nothing, but a record
		// is still produced so callers get a total result.
		cid = uuid.NewSHA1(nameIDSpace, []byte("unkeyed:"+normName+":"+strconv.Itoa(r.seq+1))).String()
	}

	r.seq++
	rec := &record{
		identity: model.PlayerIdentity{
			CanonicalID:  cid,
			AlternateIDs: make(map[model.Namespace]string),
		},
		seq: r.seq,
	}
	r.records[cid] = rec
	metrics.RecordIdentityRegistered()
	return rec
}

// merge folds all records into the earliest-created one, unions alternate
// ids, and rewrites every index entry that pointed at a discarded record.
// Callers hold the write lock, so the rewrite is one atomic index update.
func (r *Resolver) merge(found []*record) *record {
	survivor := found[0]
	for _, rec := range found[1:] {
		if rec.seq < survivor.seq {
			survivor = rec
		}
	}

	for _, loser := range found {
		if loser == survivor {
			continue
		}
		r.merges++
		metrics.RecordIdentityMerge()

		for ns, id := range loser.identity.AlternateIDs {
			if _, ok := survivor.identity.AlternateIDs[ns]; !ok {
				survivor.identity.AlternateIDs[ns] = id
			}
			r.byID[idKey{ns, id}] = survivor.identity.CanonicalID
		}
		for _, n := range loser.names {
			r.byName[n] = survivor.identity.CanonicalID
			survivor.names = append(survivor.names, n)
		}

		// First resolution wins for descriptive fields; the survivor only
		// takes what it is missing.
		if survivor.identity.DisplayName == "" {
			survivor.identity.DisplayName = loser.identity.DisplayName
		}
		if survivor.identity.Position == "" {
			survivor.identity.Position = loser.identity.Position
		}
		if survivor.identity.NFLTeam == "" {
			survivor.identity.NFLTeam = loser.identity.NFLTeam
		}

		delete(r.records, loser.identity.CanonicalID)
	}
	return survivor
}

// fill supplies previously-missing descriptive fields from the row.
func (r *Resolver) fill(rec *record, keys RowKeys, nameUsable bool) {
	if rec.identity.DisplayName == "" && nameUsable {
		rec.identity.DisplayName = strings.TrimSpace(keys.PlayerName)
	}
	if rec.identity.Position == "" && keys.Position != "" {
		rec.identity.Position = keys.Position
	}
	if rec.identity.NFLTeam == "" && keys.NFLTeam != "" {
		rec.identity.NFLTeam = keys.NFLTeam
	}
}

// Resolve looks up an identity by a namespace id. The lookup is exact and
// never falls back to names. A miss returns ok=false, never an error.
func (r *Resolver) Resolve(id string, ns model.Namespace) (model.PlayerIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cid, ok := r.byID[idKey{ns, id}]
	if !ok {
		metrics.RecordResolveMiss()
		return model.PlayerIdentity{}, false
	}
	metrics.RecordResolveHit()
	return copyIdentity(r.records[cid].identity), true
}

// ResolveCanonical looks up an identity by its canonical id.
func (r *Resolver) ResolveCanonical(cid string) (model.PlayerIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[cid]
	if !ok {
		metrics.RecordResolveMiss()
		return model.PlayerIdentity{}, false
	}
	metrics.RecordResolveHit()
	return copyIdentity(rec.identity), true
}

// ResolveName looks up an identity by the normalized form of name.
// Placeholder names never match.
func (r *Resolver) ResolveName(name string) (model.PlayerIdentity, bool) {
	if namenorm.IsPlaceholder(name) {
		return model.PlayerIdentity{}, false
	}
	norm := namenorm.Normalize(name)
	if norm == "" {
		return model.PlayerIdentity{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cid, ok := r.byName[norm]
	if !ok {
		metrics.RecordResolveMiss()
		return model.PlayerIdentity{}, false
	}
	metrics.RecordResolveHit()
	return copyIdentity(r.records[cid].identity), true
}

// Lookup resolves a query with id precedence: any namespace id present is
// tried first (no namespace is privileged), and the normalized name is
// consulted only when no id matched.
func (r *Resolver) Lookup(keys RowKeys) (model.PlayerIdentity, bool) {
	for _, k := range keys.ids() {
		if ident, ok := r.Resolve(k.id, k.ns); ok {
			return ident, true
		}
	}
	if keys.PlayerName != "" {
		return r.ResolveName(keys.PlayerName)
	}
	return model.PlayerIdentity{}, false
}

// Count returns the number of canonical identities in the index.
func (r *Resolver) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// MergeCount returns how many merges co-occurring ids have triggered.
func (r *Resolver) MergeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.merges
}

func copyIdentity(id model.PlayerIdentity) model.PlayerIdentity {
	out := id
	out.AlternateIDs = make(map[model.Namespace]string, len(id.AlternateIDs))
	for ns, v := range id.AlternateIDs {
		out.AlternateIDs[ns] = v
	}
	return out
}
