package repository_test

import (
	"testing"

	"github.com/grcup/apexcoach/internal/adapters/repository"
	"github.com/grcup/apexcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func seasonSnapshot() *repository.Snapshot {
	records := []model.CornerRecord{
		{Track: "Sebring", Driver: "GR86-07", Lap: 1, Corner: 1, DurationSamples: 95, LapTime: 132.4},
		{Track: "Sebring", Driver: "GR86-22", Lap: 1, Corner: 1, DurationSamples: 88, LapTime: 130.1},
		{Track: "Sonoma", Driver: "GR86-07", Lap: 2, Corner: 1, DurationSamples: 104, LapTime: 101.9},
	}
	stats := []model.DriverStats{
		{Track: "Sebring", Driver: "GR86-22", BestLap: 130.1, Rank: 1},
		{Track: "Sebring", Driver: "GR86-07", BestLap: 132.4, Rank: 2},
		{Track: "Sonoma", Driver: "GR86-07", BestLap: 101.9, Rank: 1},
	}
	return repository.NewSnapshot(records, stats, model.ModelInfo{Trained: true}, nil, 3)
}

func TestMemStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore(repository.WithMetricsEnabled(false))

		Convey("Reading before the first publish fails", func() {
			_, err := store.Snapshot(t.Context())
			So(err, ShouldEqual, repository.ErrNoSnapshot)
		})

		Convey("Publishing nil is rejected", func() {
			So(store.Publish(t.Context(), nil), ShouldEqual, repository.ErrNilSnapshot)
		})

		Convey("When a snapshot is published", func() {
			snap := seasonSnapshot()
			So(store.Publish(t.Context(), snap), ShouldBeNil)

			Convey("Then readers see exactly that snapshot", func() {
				got, err := store.Snapshot(t.Context())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, snap)
			})

			Convey("And a second publish replaces it atomically", func() {
				next := seasonSnapshot()
				So(store.Publish(t.Context(), next), ShouldBeNil)

				got, err := store.Snapshot(t.Context())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, next)
			})
		})
	})
}

func TestSnapshotIndexes(t *testing.T) {
	Convey("Given a two-track snapshot", t, func() {
		snap := seasonSnapshot()

		Convey("Tracks are sorted", func() {
			So(snap.Tracks(), ShouldResemble, []string{"Sebring", "Sonoma"})
		})

		Convey("Drivers keep their rank order per track", func() {
			sebring := snap.Drivers("Sebring")
			So(sebring, ShouldHaveLength, 2)
			So(sebring[0].Driver, ShouldEqual, "GR86-22")
			So(sebring[1].Driver, ShouldEqual, "GR86-07")
			So(snap.DriverNames("Sebring"), ShouldResemble, []string{"GR86-22", "GR86-07"})
		})

		Convey("Per-driver lookups work across tracks", func() {
			st, ok := snap.StatsFor("Sebring", "GR86-07")
			So(ok, ShouldBeTrue)
			So(st.Rank, ShouldEqual, 2)

			all := snap.StatsForDriver("GR86-07")
			So(all, ShouldHaveLength, 2)
			So(all[0].Track, ShouldEqual, "Sebring")
			So(all[1].Track, ShouldEqual, "Sonoma")
		})

		Convey("Unknown keys come back empty", func() {
			_, ok := snap.StatsFor("Sebring", "GR86-99")
			So(ok, ShouldBeFalse)
			So(snap.Drivers("COTA"), ShouldBeEmpty)
			So(snap.TrackRecords("COTA"), ShouldBeEmpty)
		})

		Convey("FastestDriver follows the best lap", func() {
			fastest, ok := snap.FastestDriver("Sebring")
			So(ok, ShouldBeTrue)
			So(fastest, ShouldEqual, "GR86-22")

			_, ok = snap.FastestDriver("COTA")
			So(ok, ShouldBeFalse)
		})

		Convey("DriverCount counts distinct vehicles", func() {
			So(snap.DriverCount(), ShouldEqual, 2)
		})
	})
}
