package config_test

import (
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/zmmnvt8yxv-dev/TatnallLegacy-sub001/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDir, convey.ShouldEqual, "./data")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 16)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SourceOrderSeason, convey.ShouldEqual, 2024)
		})
	})
}

func TestConfig_IsSourceOrderSeason(t *testing.T) {
	convey.Convey("Given a config with a source-order season", t, func() {
		cfg := config.New()
		cfg.SourceOrderSeason = 2024

		convey.Convey("Then only that season is source ordered", func() {
			convey.So(cfg.IsSourceOrderSeason(2024), convey.ShouldBeTrue)
			convey.So(cfg.IsSourceOrderSeason(2021), convey.ShouldBeFalse)
			convey.So(cfg.IsSourceOrderSeason(0), convey.ShouldBeFalse)
		})
	})
}
