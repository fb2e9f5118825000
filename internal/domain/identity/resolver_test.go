package identity_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/identity"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/pkg/metrics"
)

func TestRegisterAndResolve(t *testing.T) {
	Convey("Given an empty resolver", t, func() {
		r := identity.New()

		Convey("When two rows share a namespace id", func() {
			a := r.Register(identity.RowKeys{SleeperID: "100", PlayerName: "Jon Doe"})
			b := r.Register(identity.RowKeys{SleeperID: "100"})

			Convey("Then both resolve to the same canonical id", func() {
				So(b.CanonicalID, ShouldEqual, a.CanonicalID)
				got, ok := r.Resolve("100", model.NamespaceSleeper)
				So(ok, ShouldBeTrue)
				So(got.CanonicalID, ShouldEqual, a.CanonicalID)
				So(r.Count(), ShouldEqual, 1)
			})
		})

		Convey("When a row carries several ids", func() {
			ident := r.Register(identity.RowKeys{SleeperID: "100", GSISID: "00-123", ESPNID: "9"})

			Convey("Then the canonical id comes from the primary namespace", func() {
				So(ident.CanonicalID, ShouldEqual, "slp:100")
			})

			Convey("Then every id resolves to the same identity", func() {
				for _, q := range []struct {
					id string
					ns model.Namespace
				}{
					{"100", model.NamespaceSleeper},
					{"00-123", model.NamespaceGSIS},
					{"9", model.NamespaceESPN},
				} {
					got, ok := r.Resolve(q.id, q.ns)
					So(ok, ShouldBeTrue)
					So(got.CanonicalID, ShouldEqual, "slp:100")
				}
			})
		})

		Convey("When a gsis-only row is registered", func() {
			ident := r.Register(identity.RowKeys{GSISID: "00-99"})

			Convey("Then the canonical id falls back to the stats namespace", func() {
				So(ident.CanonicalID, ShouldEqual, "gsis:00-99")
			})
		})

		Convey("When an unknown id is resolved", func() {
			_, ok := r.Resolve("nope", model.NamespaceSleeper)

			Convey("Then it reports not-found without raising", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When resolving by canonical id", func() {
			got := r.Register(identity.RowKeys{SleeperID: "100", PlayerName: "Jon Doe"})

			Convey("Then the identity comes back by its own id", func() {
				ident, ok := r.ResolveCanonical(got.CanonicalID)
				So(ok, ShouldBeTrue)
				So(ident.DisplayName, ShouldEqual, "Jon Doe")

				_, ok = r.ResolveCanonical("slp:does-not-exist")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestTransitiveMerge(t *testing.T) {
	Convey("Given rows whose ids overlap pairwise", t, func() {
		r := identity.New()

		r.Register(identity.RowKeys{SleeperID: "S1", ESPNID: "E1"})
		r.Register(identity.RowKeys{GSISID: "G1"})
		So(r.Count(), ShouldEqual, 2)

		Convey("When a row links the two identities", func() {
			r.Register(identity.RowKeys{ESPNID: "E1", GSISID: "G1"})

			Convey("Then all three ids resolve to one identity", func() {
				s, okS := r.Resolve("S1", model.NamespaceSleeper)
				e, okE := r.Resolve("E1", model.NamespaceESPN)
				g, okG := r.Resolve("G1", model.NamespaceGSIS)
				So(okS, ShouldBeTrue)
				So(okE, ShouldBeTrue)
				So(okG, ShouldBeTrue)
				So(e.CanonicalID, ShouldEqual, s.CanonicalID)
				So(g.CanonicalID, ShouldEqual, s.CanonicalID)
			})

			Convey("Then the earlier canonical id survives the merge", func() {
				g, _ := r.Resolve("G1", model.NamespaceGSIS)
				So(g.CanonicalID, ShouldEqual, "slp:S1")
				So(r.Count(), ShouldEqual, 1)
				So(r.MergeCount(), ShouldEqual, 1)
			})

			Convey("Then the alternate ids are unioned", func() {
				s, _ := r.Resolve("S1", model.NamespaceSleeper)
				So(s.AlternateIDs[model.NamespaceSleeper], ShouldEqual, "S1")
				So(s.AlternateIDs[model.NamespaceESPN], ShouldEqual, "E1")
				So(s.AlternateIDs[model.NamespaceGSIS], ShouldEqual, "G1")
			})
		})
	})
}

func TestNameResolution(t *testing.T) {
	Convey("Given a resolver with a named identity", t, func() {
		r := identity.New()
		a := r.Register(identity.RowKeys{SleeperID: "100", PlayerName: "Jon Doe"})

		Convey("When resolving by a variant of the name", func() {
			got, ok := r.ResolveName("jon  doe")

			Convey("Then the normalized-name index matches", func() {
				So(ok, ShouldBeTrue)
				So(got.CanonicalID, ShouldEqual, a.CanonicalID)
			})
		})

		Convey("When a name-only row with the same name is registered", func() {
			b := r.Register(identity.RowKeys{PlayerName: "Jon Doe"})

			Convey("Then it attaches to the existing identity", func() {
				So(b.CanonicalID, ShouldEqual, a.CanonicalID)
				So(r.Count(), ShouldEqual, 1)
			})
		})

		Convey("When a placeholder name is looked up", func() {
			_, ok := r.ResolveName("Sleeper Player 100")

			Convey("Then it never matches", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a row carries an id and a placeholder name", func() {
			b := r.Register(identity.RowKeys{ESPNID: "9", PlayerName: "ESPN Player 9"})

			Convey("Then the placeholder does not link it to the named identity", func() {
				So(b.CanonicalID, ShouldNotEqual, a.CanonicalID)
				So(b.DisplayName, ShouldBeEmpty)
			})
		})
	})
}

func TestLookupPrecedence(t *testing.T) {
	Convey("Given two identities, one matching by id and one by name", t, func() {
		r := identity.New()
		byID := r.Register(identity.RowKeys{SleeperID: "1", PlayerName: "Alpha Man"})
		byName := r.Register(identity.RowKeys{PlayerName: "Beta Man"})

		Convey("When a query carries both an id and the other name", func() {
			got, ok := r.Lookup(identity.RowKeys{SleeperID: "1", PlayerName: "Beta Man"})

			Convey("Then the namespace id wins", func() {
				So(ok, ShouldBeTrue)
				So(got.CanonicalID, ShouldEqual, byID.CanonicalID)
			})
		})

		Convey("When the id misses", func() {
			got, ok := r.Lookup(identity.RowKeys{SleeperID: "404", PlayerName: "Beta Man"})

			Convey("Then the name is consulted as a fallback", func() {
				So(ok, ShouldBeTrue)
				So(got.CanonicalID, ShouldEqual, byName.CanonicalID)
			})
		})

		Convey("When nothing matches", func() {
			_, ok := r.Lookup(identity.RowKeys{ESPNID: "404"})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDescriptiveFields(t *testing.T) {
	Convey("Given an identity registered without a position", t, func() {
		r := identity.New()
		r.Register(identity.RowKeys{SleeperID: "7", PlayerName: "Carl Runner"})

		Convey("When a later record supplies the missing fields", func() {
			got := r.Register(identity.RowKeys{SleeperID: "7", Position: "RB", NFLTeam: "KC"})

			Convey("Then they are filled in", func() {
				So(got.Position, ShouldEqual, "RB")
				So(got.NFLTeam, ShouldEqual, "KC")
			})
		})

		Convey("When a later record conflicts with existing fields", func() {
			r.Register(identity.RowKeys{SleeperID: "7", Position: "RB"})
			got := r.Register(identity.RowKeys{SleeperID: "7", Position: "WR", PlayerName: "Carl B Runner"})

			Convey("Then the first successful resolution wins", func() {
				So(got.Position, ShouldEqual, "RB")
				So(got.DisplayName, ShouldEqual, "Carl Runner")
			})
		})
	})
}

func TestDeterministicNameOnlyIDs(t *testing.T) {
	Convey("Given two resolvers built from the same rows", t, func() {
		a := identity.New()
		b := identity.New(identity.WithCapacityHint(64))

		idA := a.Register(identity.RowKeys{PlayerName: "Historic Guy"})
		idB := b.Register(identity.RowKeys{PlayerName: "Historic  Guy"})

		Convey("Then name-only canonical ids are reproducible across runs", func() {
			So(idA.CanonicalID, ShouldEqual, idB.CanonicalID)
		})
	})
}

// counterValue reads a counter family from the shared metrics registry.
func counterValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range f.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}

func TestResolverInstrumentation(t *testing.T) {
	Convey("Given an empty resolver", t, func() {
		r := identity.New()

		Convey("When a new identity is registered", func() {
			before := counterValue("league_history_identities_registered_total")
			r.Register(identity.RowKeys{SleeperID: "700", PlayerName: "Counted Player"})

			Convey("Then the registration counter moves", func() {
				So(counterValue("league_history_identities_registered_total"), ShouldEqual, before+1)
			})
		})

		Convey("When co-occurring ids trigger a merge", func() {
			r.Register(identity.RowKeys{SleeperID: "701"})
			r.Register(identity.RowKeys{GSISID: "00-701"})
			before := counterValue("league_history_identity_merges_total")
			r.Register(identity.RowKeys{SleeperID: "701", GSISID: "00-701"})

			Convey("Then the merge counter moves once", func() {
				So(r.MergeCount(), ShouldEqual, 1)
				So(counterValue("league_history_identity_merges_total"), ShouldEqual, before+1)
			})
		})

		Convey("When lookups hit and miss", func() {
			r.Register(identity.RowKeys{SleeperID: "702"})
			hitsBefore := counterValue("league_history_resolve_hits_total")
			missesBefore := counterValue("league_history_resolve_misses_total")

			_, ok := r.Resolve("702", model.NamespaceSleeper)
			So(ok, ShouldBeTrue)
			_, ok = r.Resolve("missing", model.NamespaceSleeper)
			So(ok, ShouldBeFalse)

			Convey("Then hit and miss counters move", func() {
				So(counterValue("league_history_resolve_hits_total"), ShouldEqual, hitsBefore+1)
				So(counterValue("league_history_resolve_misses_total"), ShouldEqual, missesBefore+1)
			})
		})
	})
}
