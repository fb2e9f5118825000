package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/app"
	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

// writeTree builds a three-season snapshot tree covering every source
// generation: a free-text 2016 archive, a 2019 legacy export with
// placeholder names, and a 2021 primary-platform season.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(season int, name, content string) {
		dir := filepath.Join(root, strconv.Itoa(season))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write(2016, "season.json", `{
		"season": 2016, "source": "historical", "champion": "Old Guard",
		"teams": [
			{"team_name": "Old Guard", "owner_username": "alice_ff", "owner_display_name": "Alice"},
			{"team_name": "River Rats", "owner_username": "bob99"}
		]
	}`)
	write(2016, "stats.json", `[
		{"name": "Jon Doe", "sleeper_id": "100", "position": "WR", "team": "DAL"},
		{"name": "Sam Smith", "sleeper_id": "200", "position": "RB"}
	]`)
	write(2016, "week_1.json", `{
		"season": 2016, "week": 1,
		"lineups": [
			{"player": "Jon Doe", "team": "Old Guard", "slot": "WR", "started": true, "points": "17.25"},
			{"player": "Sam Smith", "team": "River Rats", "slot": "RB", "started": true, "points": "11"}
		],
		"matchups": [
			{"a": {"participant": "Alice", "score": "101.5"}, "b": {"participant": "bob99", "score": 95}}
		]
	}`)

	write(2019, "season.json", `{
		"season": 2019, "source": "legacy",
		"teams": [
			{"team_name": "Gridiron Geeks", "owner_username": "alice_ff"},
			{"team_name": "Bench Warmers", "owner_username": "bob99"}
		]
	}`)
	write(2019, "stats.json", `[
		{"name": "Jon Doe", "sleeper_id": "100", "espn_id": "9", "position": "WR"},
		{"name": "Sam Smith", "sleeper_id": "200", "position": "RB"}
	]`)
	write(2019, "week_3.json", `{
		"season": 2019, "week": 3, "source": "legacy",
		"lineups": [
			{"espn_id": "9", "player_name": "Jon Doe", "team": "Gridiron Geeks", "slot": "WR", "started": true, "points": "13.7"},
			{"espn_id": "77", "player_name": "ESPN Player 77", "team": "Bench Warmers", "slot": "RB", "started": true, "points": "8.2"}
		],
		"matchups": [
			{"a": {"team": "Gridiron Geeks", "score": 99.0}, "b": {"team": "Bench Warmers", "score": 99.0}}
		]
	}`)

	write(2021, "season.json", `{
		"season": 2021, "source": "sleeper", "champion": "Gridiron Geeks",
		"teams": [
			{"roster_id": 1, "team_name": "Gridiron Geeks", "owner_username": "alice_ff", "owner_display_name": "Alice"},
			{"roster_id": 2, "team_name": "Bench Warmers", "owner_username": "bob99", "owner_display_name": "Bob"}
		]
	}`)
	write(2021, "week_3.json", `{
		"season": 2021, "week": 3, "source": "sleeper",
		"lineups": [
			{"player_id": "100", "name": "Jon Doe", "roster_id": 1, "slot": "WR", "points": 21.5},
			{"player_id": "200", "name": "Sam Smith", "roster_id": 2, "slot": "RB", "points": 9.0},
			{"player_id": "300", "name": "Benchy", "roster_id": 1, "slot": "BN", "points": 3.0}
		],
		"matchups": [
			{"a": {"roster_id": 1, "score": 120.4}, "b": {"roster_id": 2, "score": 110.1}}
		]
	}`)

	return root
}

func startService(t *testing.T) (*service.Service, context.Context) {
	t.Helper()
	svc := service.New(
		service.WithDataDir(writeTree(t)),
		service.WithWorkerCount(2),
		service.WithQueueSize(64),
	)
	t.Cleanup(svc.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("service start: %v", err)
	}
	return svc, ctx
}

func TestServiceIntegration_Identity(t *testing.T) {
	svc, ctx := startService(t)

	Convey("Given the fully ingested history", t, func() {
		Convey("one player spans all three source generations", func() {
			ident, ok := svc.Player(ctx, "slp:100")
			So(ok, ShouldBeTrue)
			So(ident.DisplayName, ShouldEqual, "Jon Doe")
			So(ident.AlternateIDs[model.NamespaceESPN], ShouldEqual, "9")

			rows, err := svc.PlayerRows(ctx, ident.CanonicalID)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Season, ShouldEqual, 2016)
			So(rows[1].Season, ShouldEqual, 2019)
			So(rows[2].Season, ShouldEqual, 2021)
		})

		Convey("lookups by namespace id and by name land on the same identity", func() {
			byESPN, ok := svc.Player(ctx, "9")
			So(ok, ShouldBeTrue)

			byName, ok := svc.Player(ctx, "Jon Doe Jr.")
			So(ok, ShouldBeTrue)
			So(byName.CanonicalID, ShouldEqual, byESPN.CanonicalID)
			So(byName.CanonicalID, ShouldEqual, "slp:100")
		})

		Convey("placeholder-named rows without links stay visible but unlinked", func() {
			rows, err := svc.Rows(ctx, 2019, 3)
			So(err, ShouldBeNil)

			var orphan *model.WeeklyRow
			for i := range rows {
				if rows[i].PlayerName == "ESPN Player 77" {
					orphan = &rows[i]
				}
			}
			So(orphan, ShouldNotBeNil)
			So(orphan.CanLink, ShouldBeFalse)
			So(orphan.Points, ShouldEqual, 8.2)
		})
	})
}

func TestServiceIntegration_Queries(t *testing.T) {
	svc, ctx := startService(t)

	Convey("Given the fully ingested history", t, func() {
		Convey("seasons carry canonical champions", func() {
			seasons, err := svc.Seasons(ctx)
			So(err, ShouldBeNil)
			So(seasons, ShouldHaveLength, 3)
			So(seasons[0].Season, ShouldEqual, 2016)
			So(seasons[0].Champion, ShouldEqual, "alice_ff")
			So(seasons[2].Champion, ShouldEqual, "alice_ff")
		})

		Convey("weekly rows come back in display order", func() {
			rows, err := svc.Rows(ctx, 2021, 3)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].PlayerName, ShouldEqual, "Sam Smith") // RB group before WR
			So(rows[1].PlayerName, ShouldEqual, "Jon Doe")
			So(rows[2].PlayerName, ShouldEqual, "Benchy") // bench last
			So(rows[2].Started, ShouldBeFalse)
		})

		Convey("the leaderboard only holds linked regular-season rows", func() {
			entries, err := svc.TopWAR(ctx, 0, 10, "")
			So(err, ShouldBeNil)
			So(entries, ShouldNotBeEmpty)
			for _, e := range entries {
				So(e.CanLink, ShouldBeTrue)
				So(e.HasMetrics, ShouldBeTrue)
			}
		})

		Convey("career totals fold renamed teams into one owner", func() {
			careers, err := svc.Careers(ctx)
			So(err, ShouldBeNil)
			So(careers, ShouldHaveLength, 2)

			So(careers[0].Owner, ShouldEqual, "alice_ff")
			So(careers[0].Wins, ShouldEqual, 2)
			So(careers[0].Ties, ShouldEqual, 1)
			So(careers[0].Championships, ShouldEqual, 2)

			So(careers[1].Owner, ShouldEqual, "bob99")
			So(careers[1].Losses, ShouldEqual, 2)
		})

		Convey("head-to-head accepts any observed label for either owner", func() {
			h2h, err := svc.HeadToHead(ctx, "Alice", "Bob")
			So(err, ShouldBeNil)
			So(h2h.Games, ShouldHaveLength, 3)
			So(h2h.WinsA, ShouldEqual, 2)
			So(h2h.WinsB, ShouldEqual, 0)
			So(h2h.Ties, ShouldEqual, 1)
		})

		Convey("boom-bust profiles aggregate across sources", func() {
			ident, profile, ok, err := svc.BoomBust(ctx, "Jon Doe", 0)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(ident.Position, ShouldEqual, "WR")
			So(profile.Weeks, ShouldEqual, 3)
			So(profile.PercentAbove, ShouldAlmostEqual, 200.0/3.0, 1e-9)
		})

		Convey("owners expose their observed labels", func() {
			owners := svc.Owners(ctx)
			So(owners, ShouldHaveLength, 2)
			So(owners[0].CanonicalName, ShouldEqual, "alice_ff")
			So(owners[0].Labels, ShouldContain, "Gridiron Geeks")
			So(owners[0].Labels, ShouldContain, "Old Guard")
		})
	})
}
