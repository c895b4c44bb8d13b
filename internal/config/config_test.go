package config_test

import (
	"testing"

	"github.com/okian/gdax/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DatabasePath, convey.ShouldEqual, "gdax.db")
			convey.So(cfg.Timezone, convey.ShouldEqual, "Asia/Seoul")
			convey.So(cfg.NotifyQueueSize, convey.ShouldEqual, 1_000)
			convey.So(cfg.NotifyWorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxListLimit, convey.ShouldEqual, 500)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
