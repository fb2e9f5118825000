package repository

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/domain/model"
)

func metricRow(season, week int, id, pos string, war, points float64) model.WeeklyRow {
	return model.WeeklyRow{
		Season:            season,
		Week:              week,
		CanonicalPlayerID: id,
		Position:          pos,
		Points:            points,
		Started:           true,
		CanLink:           true,
		HasMetrics:        true,
		WARRep:            war,
	}
}

func TestMemoryStoreRows(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore(WithShardCount(4))

		Convey("reading an unknown week returns ErrNotFound", func() {
			_, err := s.Rows(ctx, 2021, 3)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("put then get round-trips rows", func() {
			in := []model.WeeklyRow{metricRow(2021, 3, "slp:1", "QB", 5, 20)}
			So(s.PutRows(ctx, 2021, 3, in), ShouldBeNil)

			got, err := s.Rows(ctx, 2021, 3)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, in)
			So(s.Count(ctx), ShouldEqual, 1)
		})

		Convey("put replaces previous rows for the same week", func() {
			So(s.PutRows(ctx, 2021, 3, []model.WeeklyRow{metricRow(2021, 3, "slp:1", "QB", 5, 20)}), ShouldBeNil)
			So(s.PutRows(ctx, 2021, 3, []model.WeeklyRow{
				metricRow(2021, 3, "slp:1", "QB", 5, 20),
				metricRow(2021, 3, "slp:2", "RB", 3, 15),
			}), ShouldBeNil)

			got, err := s.Rows(ctx, 2021, 3)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("returned slices are copies", func() {
			So(s.PutRows(ctx, 2021, 3, []model.WeeklyRow{metricRow(2021, 3, "slp:1", "QB", 5, 20)}), ShouldBeNil)

			got, _ := s.Rows(ctx, 2021, 3)
			got[0].Points = -1

			again, _ := s.Rows(ctx, 2021, 3)
			So(again[0].Points, ShouldEqual, 20.0)
		})

		Convey("season rows come back ordered by week", func() {
			So(s.PutRows(ctx, 2021, 5, []model.WeeklyRow{metricRow(2021, 5, "slp:1", "QB", 1, 10)}), ShouldBeNil)
			So(s.PutRows(ctx, 2021, 2, []model.WeeklyRow{metricRow(2021, 2, "slp:1", "QB", 2, 12)}), ShouldBeNil)
			So(s.PutRows(ctx, 2022, 1, []model.WeeklyRow{metricRow(2022, 1, "slp:1", "QB", 3, 14)}), ShouldBeNil)

			got, err := s.SeasonRows(ctx, 2021)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Week, ShouldEqual, 2)
			So(got[1].Week, ShouldEqual, 5)
		})

		Convey("player rows span seasons in chronological order", func() {
			So(s.PutRows(ctx, 2022, 1, []model.WeeklyRow{metricRow(2022, 1, "slp:1", "QB", 3, 14)}), ShouldBeNil)
			So(s.PutRows(ctx, 2021, 5, []model.WeeklyRow{
				metricRow(2021, 5, "slp:1", "QB", 1, 10),
				metricRow(2021, 5, "slp:2", "RB", 4, 16),
			}), ShouldBeNil)

			got, err := s.PlayerRows(ctx, "slp:1")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Season, ShouldEqual, 2021)
			So(got[1].Season, ShouldEqual, 2022)
		})
	})
}

func TestMemoryStoreTopWAR(t *testing.T) {
	Convey("Given a store with annotated rows", t, func() {
		ctx := context.Background()
		s := NewMemoryStore()

		So(s.PutRows(ctx, 2021, 3, []model.WeeklyRow{
			metricRow(2021, 3, "slp:1", "QB", 12, 30),
			metricRow(2021, 3, "slp:2", "RB", 8, 22),
			metricRow(2021, 3, "slp:3", "RB", 15, 28),
		}), ShouldBeNil)

		unlinked := model.WeeklyRow{Season: 2021, Week: 4, PlayerName: "ESPN Player 9", Points: 40, HasMetrics: true, WARRep: 40}
		playoffs := metricRow(2021, 19, "slp:4", "WR", 50, 55)
		So(s.PutRows(ctx, 2021, 4, []model.WeeklyRow{unlinked}), ShouldBeNil)
		So(s.PutRows(ctx, 2021, 19, []model.WeeklyRow{playoffs}), ShouldBeNil)

		Convey("entries come back ordered by WAR descending", func() {
			got, err := s.TopWAR(ctx, 0, 10, "")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 3)
			So(got[0].CanonicalPlayerID, ShouldEqual, "slp:3")
			So(got[1].CanonicalPlayerID, ShouldEqual, "slp:1")
			So(got[2].CanonicalPlayerID, ShouldEqual, "slp:2")
		})

		Convey("unlinked rows and weeks past the regular season are excluded", func() {
			got, _ := s.TopWAR(ctx, 0, 10, "")
			for _, r := range got {
				So(r.CanLink, ShouldBeTrue)
				So(r.Week, ShouldBeLessThanOrEqualTo, model.MaxLeaderboardWeek)
			}
		})

		Convey("position filter narrows the result", func() {
			got, err := s.TopWAR(ctx, 0, 10, "RB")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].CanonicalPlayerID, ShouldEqual, "slp:3")
		})

		Convey("season filter narrows the result", func() {
			So(s.PutRows(ctx, 2019, 3, []model.WeeklyRow{
				metricRow(2019, 3, "slp:5", "QB", 20, 33),
			}), ShouldBeNil)

			got, err := s.TopWAR(ctx, 2019, 10, "")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].CanonicalPlayerID, ShouldEqual, "slp:5")
		})

		Convey("limit truncates", func() {
			got, _ := s.TopWAR(ctx, 0, 1, "")
			So(got, ShouldHaveLength, 1)
		})

		Convey("a non-positive limit is rejected", func() {
			_, err := s.TopWAR(ctx, 0, 0, "")
			So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestMemoryStoreSeasonsAndMatchups(t *testing.T) {
	Convey("Given season summaries and matchups", t, func() {
		ctx := context.Background()
		s := NewMemoryStore()

		So(s.PutSeason(ctx, SeasonInfo{Season: 2022, Weeks: []int{1, 2}, Teams: 10}), ShouldBeNil)
		So(s.PutSeason(ctx, SeasonInfo{Season: 2021, Weeks: []int{1}, Teams: 10, Champion: "alice_ff"}), ShouldBeNil)

		So(s.PutMatchups(ctx, 2022, 1, []model.MatchupRecord{{Season: 2022, Week: 1, OwnerA: "a", OwnerB: "b"}}), ShouldBeNil)
		So(s.PutMatchups(ctx, 2021, 1, []model.MatchupRecord{{Season: 2021, Week: 1, OwnerA: "a", OwnerB: "b"}}), ShouldBeNil)

		Convey("seasons come back ordered", func() {
			got, err := s.Seasons(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Season, ShouldEqual, 2021)
			So(got[0].Champion, ShouldEqual, "alice_ff")
		})

		Convey("matchups come back chronological", func() {
			got, err := s.Matchups(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Season, ShouldEqual, 2021)
		})
	})
}

func TestMemoryStoreContextCancellation(t *testing.T) {
	Convey("A canceled context aborts store calls", t, func() {
		s := NewMemoryStore()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		So(s.PutRows(ctx, 2021, 1, nil), ShouldNotBeNil)
		_, err := s.Rows(ctx, 2021, 1)
		So(err, ShouldNotBeNil)
	})
}
