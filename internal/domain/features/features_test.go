package features_test

import (
	"testing"

	"github.com/grcup/apexcoach/internal/domain/features"
	"github.com/grcup/apexcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(track, driver string, lap, corner, duration int, lapTime, brake, apexThrottle float64) model.CornerRecord {
	return model.CornerRecord{
		Track:           track,
		Driver:          driver,
		Lap:             lap,
		Corner:          corner,
		DurationSamples: duration,
		LapTime:         lapTime,
		MaxBrake:        brake,
		ApexThrottle:    apexThrottle,
	}
}

func sebringRecords() []model.CornerRecord {
	return []model.CornerRecord{
		// driver A: two laps, two corners; best lap 130.0
		rec("Sebring", "A", 1, 1, 100, 131.0, 60, 20),
		rec("Sebring", "A", 1, 2, 120, 131.0, 80, 10),
		rec("Sebring", "A", 2, 1, 96, 130.0, 62, 22),
		rec("Sebring", "A", 2, 2, 118, 130.0, 78, 12),
		// driver B: one lap, two corners; best lap 128.5
		rec("Sebring", "B", 1, 1, 90, 128.5, 50, 30),
		rec("Sebring", "B", 1, 2, 110, 128.5, 70, 18),
		// driver C: corners only on corner 1; best lap 133.0
		rec("Sebring", "C", 1, 1, 105, 133.0, 75, 8),
	}
}

func TestDriverAggregates(t *testing.T) {
	Convey("Given corner records for one track", t, func() {
		records := sebringRecords()

		Convey("When aggregating", func() {
			stats := features.DriverAggregates(records)

			Convey("Then drivers are ranked by best lap", func() {
				So(stats, ShouldHaveLength, 3)
				So(stats[0].Driver, ShouldEqual, "B")
				So(stats[0].Rank, ShouldEqual, 1)
				So(stats[0].GapToLeader, ShouldEqual, 0)
				So(stats[1].Driver, ShouldEqual, "A")
				So(stats[1].Rank, ShouldEqual, 2)
				So(stats[1].GapToLeader, ShouldAlmostEqual, 1.5, 1e-9)
				So(stats[2].Driver, ShouldEqual, "C")
				So(stats[2].Percentile, ShouldEqual, 0)
				So(stats[0].Percentile, ShouldEqual, 100)
			})

			Convey("And lap counts dedupe corner rows", func() {
				var a model.DriverStats
				for _, s := range stats {
					if s.Driver == "A" {
						a = s
					}
				}
				So(a.Laps, ShouldEqual, 2)
				So(a.Corners, ShouldEqual, 4)
				So(a.BestLap, ShouldEqual, 130.0)
				So(a.MeanLap, ShouldAlmostEqual, 130.5, 1e-9)
			})

			Convey("And aggregation is deterministic", func() {
				So(features.DriverAggregates(records), ShouldResemble, stats)
			})
		})
	})

	Convey("Given records across two tracks", t, func() {
		records := append(sebringRecords(),
			rec("Sonoma", "A", 1, 1, 80, 118.0, 55, 25),
			rec("Sonoma", "B", 1, 1, 85, 119.0, 52, 28),
		)

		Convey("Then tracks are ranked independently", func() {
			stats := features.DriverAggregates(records)
			So(stats, ShouldHaveLength, 5)

			byTrackDriver := make(map[[2]string]model.DriverStats)
			for _, s := range stats {
				byTrackDriver[[2]string{s.Track, s.Driver}] = s
			}
			So(byTrackDriver[[2]string{"Sonoma", "A"}].Rank, ShouldEqual, 1)
			So(byTrackDriver[[2]string{"Sebring", "A"}].Rank, ShouldEqual, 2)
		})
	})
}

func TestFastestDriver(t *testing.T) {
	Convey("Given aggregated stats", t, func() {
		stats := features.DriverAggregates(sebringRecords())

		Convey("The fastest driver on the track is found", func() {
			fastest, ok := features.FastestDriver(stats, "Sebring")
			So(ok, ShouldBeTrue)
			So(fastest, ShouldEqual, "B")
		})

		Convey("An unknown track yields nothing", func() {
			_, ok := features.FastestDriver(stats, "Monza")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given records for a driver and a benchmark", t, func() {
		records := sebringRecords()

		Convey("When comparing A against B", func() {
			cmp := features.Compare(records, "Sebring", "A", "B")

			Convey("Then both shared corners appear in order", func() {
				So(cmp, ShouldHaveLength, 2)
				So(cmp[0].Corner, ShouldEqual, 1)
				So(cmp[1].Corner, ShouldEqual, 2)
			})

			Convey("And time lost uses averaged durations", func() {
				// A corner 1 durations: (100+96)/2 = 98; B: 90
				So(cmp[0].TimeLost, ShouldAlmostEqual, (98-90)*features.SampleSeconds, 1e-9)
				// A brake avg (60+62)/2 = 61 vs B 50
				So(cmp[0].BrakeDelta, ShouldAlmostEqual, 11, 1e-9)
				So(cmp[0].ApexThrottleDelta, ShouldAlmostEqual, 21-30, 1e-9)
			})
		})

		Convey("When comparing C against B", func() {
			cmp := features.Compare(records, "Sebring", "C", "B")

			Convey("Then only the shared corner appears", func() {
				So(cmp, ShouldHaveLength, 1)
				So(cmp[0].Corner, ShouldEqual, 1)
			})
		})

		Convey("When comparing a driver against itself", func() {
			So(features.Compare(records, "Sebring", "A", "A"), ShouldBeEmpty)
		})
	})
}

func TestFilterAndRecoverable(t *testing.T) {
	Convey("Given a comparison list", t, func() {
		cmp := []model.CornerComparison{
			{Corner: 1, TimeLost: 0.4},
			{Corner: 2, TimeLost: -0.1},
			{Corner: 5, TimeLost: 0.2},
		}

		Convey("Corner-range filtering keeps the window", func() {
			out := features.FilterCornerRange(cmp, 2, 5)
			So(out, ShouldHaveLength, 2)
			So(out[0].Corner, ShouldEqual, 2)
			So(out[1].Corner, ShouldEqual, 5)
		})

		Convey("A zero upper bound means open-ended", func() {
			out := features.FilterCornerRange(cmp, 2, 0)
			So(out, ShouldHaveLength, 2)
		})

		Convey("Recoverable time sums only positive losses", func() {
			So(features.TotalRecoverable(cmp), ShouldAlmostEqual, 0.6, 1e-9)
		})
	})
}
