package main

import (
	"context"
	"testing"
	"time"

	"github.com/grcup/apexcoach/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the main application components", t, func() {
		convey.Convey("Configuration loads from the environment", func() {
			t.Setenv("APEX_ADDR", ":9090")
			t.Setenv("APEX_FOREST_TREES", "50")

			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.ForestTrees, convey.ShouldEqual, 50)
		})

		convey.Convey("The system metrics updater runs and honors cancellation", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop on context cancellation")
			}
		})

		convey.Convey("A metrics snapshot update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
