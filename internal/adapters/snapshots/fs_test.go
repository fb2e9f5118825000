package snapshots

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeSnapshot(t *testing.T, root string, season int, name, content string) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(season))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSStoreTree(t *testing.T) {
	Convey("Given a snapshot tree with two seasons", t, func() {
		ctx := context.Background()
		root := t.TempDir()

		writeSnapshot(t, root, 2021, "season.json", `{
			"season": 2021, "source": "sleeper", "champion": "Gridiron Geeks",
			"teams": [
				{"roster_id": 1, "team_name": "Gridiron Geeks", "owner_username": "alice_ff", "owner_display_name": "Alice"},
				{"roster_id": 2, "team_name": "Bench Warmers", "owner_username": "bob99"}
			]
		}`)
		writeSnapshot(t, root, 2021, "week_1.json", `{"season": 2021, "week": 1, "source": "sleeper", "lineups": [], "matchups": []}`)
		writeSnapshot(t, root, 2021, "week_10.json", `{"season": 2021, "week": 10, "source": "sleeper", "lineups": [], "matchups": []}`)
		writeSnapshot(t, root, 2018, "season.json", `{"season": 2018, "source": "historical", "teams": []}`)
		writeSnapshot(t, root, 2018, "week_2.json", `{"season": 2018, "week": 2, "lineups": [], "matchups": []}`)

		s := NewFSStore(root)

		Convey("seasons list ascending", func() {
			seasons, err := s.Seasons(ctx)
			So(err, ShouldBeNil)
			So(seasons, ShouldResemble, []int{2018, 2021})
		})

		Convey("weeks list ascending and numerically", func() {
			weeks, err := s.Weeks(ctx, 2021)
			So(err, ShouldBeNil)
			So(weeks, ShouldResemble, []int{1, 10})
		})

		Convey("unknown seasons return ErrSeasonNotFound", func() {
			_, err := s.Weeks(ctx, 1999)
			So(errors.Is(err, ErrSeasonNotFound), ShouldBeTrue)

			_, err = s.SeasonInfo(ctx, 1999)
			So(errors.Is(err, ErrSeasonNotFound), ShouldBeTrue)
		})

		Convey("unknown weeks return ErrWeekNotFound", func() {
			_, err := s.Week(ctx, 2021, 7)
			So(errors.Is(err, ErrWeekNotFound), ShouldBeTrue)
		})

		Convey("season info carries the roster table and champion", func() {
			info, err := s.SeasonInfo(ctx, 2021)
			So(err, ShouldBeNil)
			So(info.Champion, ShouldEqual, "Gridiron Geeks")
			So(info.Teams, ShouldHaveLength, 2)
			So(info.Teams[0].OwnerUsername, ShouldEqual, "alice_ff")
		})

		Convey("week files without a source tag inherit the season source", func() {
			payload, err := s.Week(ctx, 2018, 2)
			So(err, ShouldBeNil)
			So(payload.Source, ShouldEqual, SourceHistorical)
		})
	})
}

func TestFSStoreSourceGenerations(t *testing.T) {
	Convey("Given week files from each source generation", t, func() {
		ctx := context.Background()
		root := t.TempDir()

		writeSnapshot(t, root, 2022, "week_1.json", `{
			"season": 2022, "week": 1, "source": "sleeper",
			"lineups": [
				{"player_id": "100", "name": "Jon Doe", "roster_id": 1, "slot": "WR", "points": 21.5},
				{"player_id": "200", "name": "Backup Guy", "roster_id": 1, "slot": "BN", "points": 4.0}
			],
			"matchups": [
				{"a": {"roster_id": 1, "score": 120.4}, "b": {"roster_id": 2, "score": 110.1}}
			]
		}`)
		writeSnapshot(t, root, 2019, "week_3.json", `{
			"season": 2019, "week": 3, "source": "legacy",
			"lineups": [
				{"espn_id": "9", "player_name": "ESPN Player 9", "team": "Bench Warmers", "slot": "WR", "started": true, "points": "13.7"}
			],
			"matchups": [
				{"a": {"team": "Bench Warmers", "score": 99.0}, "b": {"team": "Gridiron Geeks", "score": 99.0}}
			]
		}`)
		writeSnapshot(t, root, 2016, "week_4.json", `{
			"season": 2016, "week": 4, "source": "historical",
			"lineups": [
				{"player": "Jon Doe", "team": "Old Guard", "slot": "WR", "started": true, "points": "17.25"},
				{"player": "Broken Row", "team": "Old Guard", "slot": "RB", "started": true, "points": "n/a"}
			],
			"matchups": [
				{"a": {"participant": "Alice", "score": "88.5"}, "b": {"participant": "Bob", "score": 90}}
			]
		}`)

		s := NewFSStore(root)

		Convey("sleeper rows carry native ids and bench detection", func() {
			p, err := s.Week(ctx, 2022, 1)
			So(err, ShouldBeNil)
			So(p.Lineups, ShouldHaveLength, 2)
			So(p.Lineups[0].SleeperID, ShouldEqual, "100")
			So(p.Lineups[0].Started, ShouldBeTrue)
			So(p.Lineups[1].Started, ShouldBeFalse)
			So(p.Lineups[0].SourceOrder, ShouldEqual, 0)
			So(p.Matchups[0].SideA.RosterID, ShouldEqual, 1)
			So(p.Matchups[0].SideA.Score, ShouldEqual, 120.4)
		})

		Convey("legacy rows carry espn ids and string points", func() {
			p, err := s.Week(ctx, 2019, 3)
			So(err, ShouldBeNil)
			So(p.Lineups[0].ESPNID, ShouldEqual, "9")
			So(p.Lineups[0].Points, ShouldEqual, 13.7)
			So(p.Lineups[0].Team, ShouldEqual, "Bench Warmers")
		})

		Convey("historical rows have no ids and lenient points", func() {
			p, err := s.Week(ctx, 2016, 4)
			So(err, ShouldBeNil)
			So(p.Lineups[0].SleeperID, ShouldBeEmpty)
			So(p.Lineups[0].Points, ShouldEqual, 17.25)
			So(p.Lineups[1].Points, ShouldEqual, 0.0)
			So(p.Matchups[0].SideA.ParticipantName, ShouldEqual, "Alice")
			So(p.Matchups[0].SideA.Score, ShouldEqual, 88.5)
		})

		Convey("an unknown source tag is rejected", func() {
			writeSnapshot(t, root, 2022, "week_2.json", `{"season": 2022, "week": 2, "source": "mystery", "lineups": [{}]}`)
			_, err := s.Week(ctx, 2022, 2)
			So(errors.Is(err, ErrUnknownSource), ShouldBeTrue)
		})

		Convey("malformed json is reported as ErrMalformed", func() {
			writeSnapshot(t, root, 2022, "week_3.json", `{not json`)
			_, err := s.Week(ctx, 2022, 3)
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestFSStoreAuxIndex(t *testing.T) {
	Convey("Given a season stats export", t, func() {
		ctx := context.Background()
		root := t.TempDir()

		writeSnapshot(t, root, 2021, "stats.json", `[
			{"name": "Jon Doe", "sleeper_id": "100", "espn_id": "9", "position": "WR", "team": "DAL"},
			{"name": "Jón Doe Jr.", "sleeper_id": "999"},
			{"name": "Sleeper Player 123", "sleeper_id": "123"},
			{"name": "", "sleeper_id": "124"}
		]`)

		s := NewFSStore(root)

		Convey("entries are keyed by normalized name, first wins", func() {
			idx, err := s.AuxIndex(ctx, 2021)
			So(err, ShouldBeNil)
			So(idx, ShouldNotBeNil)

			e, ok := idx.ByName("jon doe")
			So(ok, ShouldBeTrue)
			So(e.SleeperID, ShouldEqual, "100")
			So(e.Position, ShouldEqual, "WR")
		})

		Convey("placeholder and empty names never enter the index", func() {
			idx, _ := s.AuxIndex(ctx, 2021)

			_, ok := idx.ByName("sleeper player 123")
			So(ok, ShouldBeFalse)
		})

		Convey("seasons without an export return a nil index without error", func() {
			idx, err := s.AuxIndex(ctx, 1999)
			So(err, ShouldBeNil)
			So(idx, ShouldBeNil)
		})
	})
}
