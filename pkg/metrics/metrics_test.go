package metrics_test

import (
	"testing"

	"github.com/grcup/apexcoach/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerConstruction(t *testing.T) {
	Convey("Given metrics manager options", t, func() {
		Convey("When constructing with a private registry", func() {
			reg := prometheus.NewRegistry()
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(reg),
				metrics.WithNamespace("testns"),
				metrics.WithSubsystem("testsub"),
				metrics.WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then it should register without panicking", func() {
				So(m, ShouldNotBeNil)
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When constructing a disabled manager", func() {
			reg := prometheus.NewRegistry()
			m := metrics.NewManager(
				metrics.WithPrometheusRegistry(reg),
				metrics.WithMetricsEnabled(false),
			)
			So(m, ShouldNotBeNil)
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("They should record without panicking", func() {
			So(func() {
				metrics.UpdateDatasetFootprint(4343, 28, 7)
				metrics.RecordSkippedRows(3)
				metrics.RecordSkippedRows(0)
				metrics.RecordTrainingDuration(120.5)
				metrics.RecordTrainingFailure()
				metrics.UpdateModelQuality(0.899, 0.12, 200)
				metrics.RecordPrediction(0.4)
				metrics.RecordSnapshotRebuild(500, 1700000000)
				metrics.RecordReload(true)
				metrics.RecordReload(false)
				metrics.RecordHTTPRequest("tracks", "GET", "200")
				metrics.RecordHTTPRequestDuration("tracks", "GET", "200", 1.5)
				metrics.RecordErrorByEndpoint("tracks", "GET", "client_error")
				metrics.UpdateSystemMemoryUsage(1 << 20)
				metrics.UpdateSystemGoroutineCount(12)
				metrics.RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("And the registry should expose the dataset gauges", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["apexcoach_analytics_dataset_rows"], ShouldBeTrue)
			So(names["apexcoach_analytics_model_r2"], ShouldBeTrue)
		})
	})
}
