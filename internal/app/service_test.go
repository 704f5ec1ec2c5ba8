package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	service "github.com/grcup/apexcoach/internal/app"
	"github.com/grcup/apexcoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithDatasetPath(filepath.Join("testdata", "season.csv")),
		service.WithForestTrees(25),
		service.WithForestMaxDepth(8),
		service.WithForestWorkers(2),
		service.WithForestSeed(42),
		service.WithClusterK(3),
	}
	return service.New(append(base, opts...)...)
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service over the season fixture", t, func() {
		svc := newTestService()

		Convey("Queries before Start fail", func() {
			_, err := svc.Tracks(t.Context())
			So(err, ShouldEqual, service.ErrNotStarted)
		})

		Convey("When started", func() {
			So(svc.Start(t.Context()), ShouldBeNil)
			defer svc.Stop()

			Convey("Then track summaries cover the fixture", func() {
				tracks, err := svc.Tracks(t.Context())
				So(err, ShouldBeNil)
				So(tracks, ShouldHaveLength, 2)
				So(tracks[0].Track, ShouldEqual, "Sebring")
				So(tracks[0].Drivers, ShouldEqual, 4)
				So(tracks[0].Corners, ShouldEqual, 10)
				So(tracks[0].Records, ShouldEqual, 120)
			})

			Convey("And the model comes up trained", func() {
				mi, err := svc.ModelInfo(t.Context())
				So(err, ShouldBeNil)
				So(mi.Trained, ShouldBeTrue)
				So(mi.Trees, ShouldEqual, 25)
				So(mi.TrainRows+mi.TestRows, ShouldEqual, 60)
				So(mi.Importance, ShouldNotBeEmpty)
			})

			Convey("And drivers are ranked by best lap", func() {
				drivers, err := svc.Drivers(t.Context(), "Sebring")
				So(err, ShouldBeNil)
				So(drivers, ShouldHaveLength, 4)
				So(drivers[0].Driver, ShouldEqual, "GR86-22")
				So(drivers[0].Rank, ShouldEqual, 1)
				So(drivers[0].GapToLeader, ShouldEqual, 0)
				So(drivers[3].Driver, ShouldEqual, "GR86-31")
			})

			Convey("And an empty track lists the whole season", func() {
				drivers, err := svc.Drivers(t.Context(), "")
				So(err, ShouldBeNil)
				So(drivers, ShouldHaveLength, 8)
				So(drivers[0].Track, ShouldEqual, "Sebring")
				So(drivers[0].Rank, ShouldEqual, 1)
				So(drivers[4].Track, ShouldEqual, "Sonoma")
			})

			Convey("And a driver summary spans both tracks", func() {
				stats, err := svc.DriverSummary(t.Context(), "GR86-07")
				So(err, ShouldBeNil)
				So(stats, ShouldHaveLength, 2)
				So(stats[0].Track, ShouldEqual, "Sebring")
				So(stats[1].Track, ShouldEqual, "Sonoma")
			})

			Convey("And unknown keys return typed errors", func() {
				_, err := svc.Drivers(t.Context(), "Monza")
				So(errors.Is(err, service.ErrTrackNotFound), ShouldBeTrue)

				_, err = svc.DriverSummary(t.Context(), "GR86-99")
				So(errors.Is(err, service.ErrDriverNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestServiceOpportunities(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newTestService()
		So(svc.Start(t.Context()), ShouldBeNil)
		defer svc.Stop()

		Convey("Opportunities against the fastest driver", func() {
			report, err := svc.Opportunities(t.Context(), "Sebring", "GR86-31", "")

			Convey("Return at most three, sorted by predicted gain", func() {
				So(err, ShouldBeNil)
				So(report.Benchmark, ShouldEqual, "GR86-22")
				So(len(report.Opportunities), ShouldBeLessThanOrEqualTo, 3)
				So(report.Opportunities, ShouldNotBeEmpty)
				So(report.TotalRecoverable, ShouldBeGreaterThan, 0)

				for i := 1; i < len(report.Opportunities); i++ {
					So(report.Opportunities[i-1].PredictedGain,
						ShouldBeGreaterThanOrEqualTo,
						report.Opportunities[i].PredictedGain)
				}
				for _, opp := range report.Opportunities {
					So(opp.PredictedGain, ShouldBeGreaterThanOrEqualTo, 0)
					So(opp.Issue, ShouldNotBeBlank)
					So(opp.Advice, ShouldNotBeBlank)
				}
			})
		})

		Convey("The same query is deterministic across restarts", func() {
			first, err := svc.Opportunities(t.Context(), "Sonoma", "GR86-07", "")
			So(err, ShouldBeNil)

			other := newTestService()
			So(other.Start(t.Context()), ShouldBeNil)
			defer other.Stop()

			second, err := other.Opportunities(t.Context(), "Sonoma", "GR86-07", "")
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("An explicit benchmark is honored", func() {
			report, err := svc.Opportunities(t.Context(), "Sebring", "GR86-31", "GR86-13")
			So(err, ShouldBeNil)
			So(report.Benchmark, ShouldEqual, "GR86-13")
		})

		Convey("An unknown benchmark is rejected", func() {
			_, err := svc.Opportunities(t.Context(), "Sebring", "GR86-31", "GR86-99")
			So(errors.Is(err, service.ErrDriverNotFound), ShouldBeTrue)
		})

		Convey("Too few comparable corners yields a typed error", func() {
			strictSvc := newTestService(service.WithMinCornersForCoaching(20))
			So(strictSvc.Start(t.Context()), ShouldBeNil)
			defer strictSvc.Stop()

			_, err := strictSvc.Opportunities(t.Context(), "Sebring", "GR86-31", "")
			So(errors.Is(err, service.ErrInsufficientData), ShouldBeTrue)
		})
	})
}

func TestServiceComparisons(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newTestService()
		So(svc.Start(t.Context()), ShouldBeNil)
		defer svc.Stop()

		Convey("Comparison returns per-corner deltas", func() {
			comps, err := svc.Comparison(t.Context(), "Sebring", "GR86-31", "", 0, 0)
			So(err, ShouldBeNil)
			So(comps, ShouldHaveLength, 10)
			So(comps[0].Benchmark, ShouldEqual, "GR86-22")
			So(comps[0].TimeLost, ShouldBeGreaterThan, 0)
		})

		Convey("A corner range limits the answer", func() {
			comps, err := svc.Comparison(t.Context(), "Sebring", "GR86-31", "", 4, 6)
			So(err, ShouldBeNil)
			So(comps, ShouldHaveLength, 3)
			So(comps[0].Corner, ShouldEqual, 4)
			So(comps[2].Corner, ShouldEqual, 6)
		})

		Convey("CompareDrivers orders by total time lost", func() {
			res, err := svc.CompareDrivers(t.Context(), "Sebring", []string{"GR86-31", "GR86-07", "GR86-13"})
			So(err, ShouldBeNil)
			So(res.Benchmark, ShouldEqual, "GR86-22")
			So(res.Drivers, ShouldHaveLength, 3)
			So(res.Drivers[0].Driver, ShouldEqual, "GR86-13")
			So(res.Drivers[2].Driver, ShouldEqual, "GR86-31")
		})

		Convey("CompareDrivers enforces the driver cap", func() {
			svc2 := newTestService(service.WithMaxCompareDrivers(2))
			So(svc2.Start(t.Context()), ShouldBeNil)
			defer svc2.Stop()

			_, err := svc2.CompareDrivers(t.Context(), "Sebring", []string{"GR86-31", "GR86-07", "GR86-13"})
			So(errors.Is(err, service.ErrTooManyDrivers), ShouldBeTrue)
		})
	})
}

func TestServiceWhatIfAndClusters(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newTestService()
		So(svc.Start(t.Context()), ShouldBeNil)
		defer svc.Stop()

		Convey("WhatIf projects the best lap", func() {
			res, err := svc.WhatIf(t.Context(), "Sebring", "GR86-31", 10)
			So(err, ShouldBeNil)
			So(res.EstimatedGain, ShouldAlmostEqual, 1.2, 1e-9)
			So(res.ProjectedBest, ShouldAlmostEqual, res.CurrentBest-1.2, 1e-9)
		})

		Convey("WhatIf rejects out-of-range percentages", func() {
			_, err := svc.WhatIf(t.Context(), "Sebring", "GR86-31", 40)
			So(errors.Is(err, service.ErrBadImprovement), ShouldBeTrue)

			_, err = svc.WhatIf(t.Context(), "Sebring", "GR86-31", -1)
			So(errors.Is(err, service.ErrBadImprovement), ShouldBeTrue)
		})

		Convey("Every driver lands in a labeled cluster", func() {
			clusters, err := svc.Clusters(t.Context())
			So(err, ShouldBeNil)
			So(clusters, ShouldHaveLength, 4)
			for _, c := range clusters {
				So(c.Label, ShouldNotBeBlank)
				So(c.BestLap, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Cluster labels surface on driver stats", func() {
			drivers, err := svc.Drivers(t.Context(), "Sebring")
			So(err, ShouldBeNil)
			for _, d := range drivers {
				So(d.StyleLabel, ShouldNotBeBlank)
			}
		})

		Convey("GetStats reflects the snapshot", func() {
			stats, err := svc.GetStats(t.Context())
			So(err, ShouldBeNil)
			So(stats.Rows, ShouldEqual, 240)
			So(stats.Tracks, ShouldEqual, 2)
			So(stats.Drivers, ShouldEqual, 4)
			So(stats.Model.Trained, ShouldBeTrue)
		})
	})
}

func TestServiceReload(t *testing.T) {
	Convey("Given a service over a copy of the fixture", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "season.csv")
		data, err := os.ReadFile(filepath.Join("testdata", "season.csv"))
		So(err, ShouldBeNil)
		So(os.WriteFile(path, data, 0o600), ShouldBeNil)

		svc := newTestService(service.WithDatasetPath(path))
		So(svc.Start(t.Context()), ShouldBeNil)
		defer svc.Stop()

		Convey("Reload over an unchanged file succeeds", func() {
			So(svc.Reload(t.Context()), ShouldBeNil)

			tracks, err := svc.Tracks(t.Context())
			So(err, ShouldBeNil)
			So(tracks, ShouldHaveLength, 2)
		})

		Convey("When the file breaks, reload fails but the old snapshot keeps serving", func() {
			So(os.WriteFile(path, []byte("garbage"), 0o600), ShouldBeNil)
			So(svc.Reload(t.Context()), ShouldNotBeNil)

			tracks, err := svc.Tracks(t.Context())
			So(err, ShouldBeNil)
			So(tracks, ShouldHaveLength, 2)

			stats, err := svc.GetStats(t.Context())
			So(err, ShouldBeNil)
			So(stats.Rows, ShouldEqual, 240)
		})

		Convey("Reload before Start fails", func() {
			fresh := newTestService(service.WithDatasetPath(path))
			So(fresh.Reload(t.Context()), ShouldEqual, service.ErrNotStarted)
		})
	})
}
