// Package franchise canonicalizes owner and team labels across seasons so a
// franchise keeps one history through nickname changes.
package franchise

import (
	"sort"
	"strings"
	"sync"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/namenorm"
)

// NormalizeLabel canonicalizes a raw owner or team label. Same rules as
// player names but without generational suffix stripping. Pure: identical
// raw labels always normalize identically.
func NormalizeLabel(raw string) string {
	return namenorm.Fold(raw)
}

// owner is the internal mutable record behind a canonical owner.
type owner struct {
	canonical string
	labels    map[string]struct{}
}

// Registry maps raw franchise labels to canonical owners. Two different raw
// labels unify only when the source supplies the same preferred identity
// field (username or display name) for both; the registry performs no
// cross-record learning beyond that.
type Registry struct {
	mu          sync.RWMutex
	byLabel     map[string]*owner
	byPreferred map[string]*owner
}

// NewRegistry creates an empty owner registry.
func NewRegistry() *Registry {
	return &Registry{
		byLabel:     make(map[string]*owner),
		byPreferred: make(map[string]*owner),
	}
}

// Observe records a raw label, optionally tied to the source's preferred
// identity field for the franchise, and returns the canonical owner name.
func (g *Registry) Observe(label, preferred string) string {
	norm := NormalizeLabel(label)
	prefNorm := NormalizeLabel(preferred)

	g.mu.Lock()
	defer g.mu.Unlock()

	var o *owner
	switch {
	case prefNorm != "":
		var ok bool
		if o, ok = g.byPreferred[prefNorm]; !ok {
			// A label seen before without a preferred field may already
			// exist; adopt it rather than splitting the franchise.
			if existing, seen := g.byLabel[norm]; seen {
				o = existing
				o.canonical = strings.TrimSpace(preferred)
			} else {
				o = &owner{canonical: strings.TrimSpace(preferred), labels: make(map[string]struct{})}
			}
			g.byPreferred[prefNorm] = o
		}
	default:
		var ok bool
		if o, ok = g.byLabel[norm]; !ok {
			o = &owner{canonical: norm, labels: make(map[string]struct{})}
		}
	}

	if norm != "" {
		o.labels[label] = struct{}{}
		g.byLabel[norm] = o
	}
	if prefNorm != "" {
		o.labels[preferred] = struct{}{}
		g.byLabel[prefNorm] = o
	}
	return o.canonical
}

// Canonical returns the canonical owner name for a raw label.
func (g *Registry) Canonical(label string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	o, ok := g.byLabel[NormalizeLabel(label)]
	if !ok {
		return "", false
	}
	return o.canonical, true
}

// Owners lists every canonical owner with the raw labels observed for it,
// sorted by canonical name for stable output.
func (g *Registry) Owners() []model.OwnerIdentity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	uniq := make(map[*owner]struct{})
	for _, o := range g.byLabel {
		uniq[o] = struct{}{}
	}

	out := make([]model.OwnerIdentity, 0, len(uniq))
	for o := range uniq {
		labels := make([]string, 0, len(o.labels))
		for l := range o.labels {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		out = append(out, model.OwnerIdentity{CanonicalName: o.canonical, Labels: labels})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalName < out[j].CanonicalName })
	return out
}

// Count returns the number of canonical owners.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	uniq := make(map[*owner]struct{})
	for _, o := range g.byLabel {
		uniq[o] = struct{}{}
	}
	return len(uniq)
}
