package telemetry_test

import (
	"math"
	"testing"

	"github.com/grcup/apexcoach/internal/domain/telemetry"
	. "github.com/smartystreets/goconvey/convey"
)

// lapWithThrottle builds a single-channel lap from a throttle trace.
func lapWithThrottle(name string, throttle []float64) *telemetry.Lap {
	times := make([]float64, len(throttle))
	for i := range times {
		times[i] = float64(i) * 0.04
	}
	return &telemetry.Lap{
		Vehicle:  "GR-1",
		Lap:      1,
		Times:    times,
		Channels: map[string][]float64{name: throttle},
	}
}

func flatTrace(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestDetectCorners(t *testing.T) {
	Convey("Given a corner detector with defaults", t, func() {
		det := telemetry.NewDetector()

		Convey("When the lap is flat out the whole way", func() {
			lap := lapWithThrottle("ath", flatTrace(100, 100))
			So(det.Detect(lap), ShouldBeEmpty)
		})

		Convey("When the lap has one long throttle drop", func() {
			trace := flatTrace(100, 100)
			for i := 30; i < 55; i++ {
				trace[i] = 40
			}
			trace[42] = 5 // deepest lift

			corners := det.Detect(lap40(trace))

			Convey("Then one corner with the right apex is found", func() {
				So(corners, ShouldHaveLength, 1)
				So(corners[0].Start, ShouldEqual, 30)
				So(corners[0].End, ShouldEqual, 55)
				So(corners[0].Apex, ShouldEqual, 42)
			})
		})

		Convey("When a throttle drop is shorter than the minimum", func() {
			trace := flatTrace(100, 100)
			for i := 20; i < 25; i++ {
				trace[i] = 10
			}
			So(det.Detect(lap40(trace)), ShouldBeEmpty)
		})

		Convey("When the corner is still open at lap end", func() {
			trace := flatTrace(100, 100)
			for i := 80; i < 100; i++ {
				trace[i] = 10
			}
			So(det.Detect(lap40(trace)), ShouldBeEmpty)
		})

		Convey("When there is no throttle channel at all", func() {
			lap := lapWithThrottle("oil_temp", flatTrace(100, 50))
			So(det.Detect(lap), ShouldBeEmpty)
		})

		Convey("When throttle readings are missing", func() {
			trace := flatTrace(100, 100)
			for i := 10; i < 40; i++ {
				trace[i] = math.NaN()
			}
			Convey("Then gaps do not fake corners", func() {
				So(det.Detect(lap40(trace)), ShouldBeEmpty)
			})
		})

		Convey("When the channel uses an alias name", func() {
			trace := flatTrace(100, 100)
			for i := 30; i < 50; i++ {
				trace[i] = 20
			}
			lap := lapWithThrottle("TPS", trace)
			So(det.Detect(lap), ShouldHaveLength, 1)
		})
	})

	Convey("Given a detector with custom options", t, func() {
		det := telemetry.NewDetector(
			telemetry.WithThrottleThreshold(50),
			telemetry.WithMinCornerLength(5),
		)

		Convey("A mild lift below 80 but above 50 is not a corner", func() {
			trace := flatTrace(60, 100)
			for i := 20; i < 35; i++ {
				trace[i] = 60
			}
			So(det.Detect(lap40(trace)), ShouldBeEmpty)
		})

		Convey("A short sharp lift is a corner with the lower bar", func() {
			trace := flatTrace(60, 100)
			for i := 20; i < 27; i++ {
				trace[i] = 30
			}
			So(det.Detect(lap40(trace)), ShouldHaveLength, 1)
		})
	})
}

func lap40(throttle []float64) *telemetry.Lap {
	return lapWithThrottle("ath", throttle)
}

func TestExtractFeatures(t *testing.T) {
	Convey("Given a lap with full channel coverage", t, func() {
		n := 100
		throttle := flatTrace(n, 100)
		brake := flatTrace(n, 0)
		lateral := flatTrace(n, 0.1)
		steering := flatTrace(n, 0)

		// One corner: braking into it, lift to apex, throttle out.
		for i := 30; i < 55; i++ {
			throttle[i] = 30
		}
		throttle[40] = 5
		for i := 28; i < 44; i++ {
			brake[i] = 60
		}
		lateral[40] = -1.4
		for i := 30; i < 60; i++ {
			steering[i] = -20
		}
		for i := 48; i < 55; i++ {
			throttle[i] = 70
		}

		times := make([]float64, n)
		for i := range times {
			times[i] = float64(i) * 0.04
		}
		lap := &telemetry.Lap{
			Vehicle: "GR-7",
			Lap:     3,
			Times:   times,
			Channels: map[string][]float64{
				"ath":      throttle,
				"pbrake_f": brake,
				"accy_can": lateral,
				"steering": steering,
			},
		}

		corners := telemetry.NewDetector().Detect(lap)
		So(corners, ShouldHaveLength, 1)

		Convey("When extracting features", func() {
			feats := telemetry.ExtractFeatures(lap, corners)

			Convey("Then the corner is numbered and measured", func() {
				So(feats, ShouldHaveLength, 1)
				f := feats[0]
				So(f.Corner, ShouldEqual, 1)
				So(f.DurationSamples, ShouldEqual, corners[0].End-corners[0].Start)
				So(f.MinThrottle, ShouldEqual, 5)
				So(f.ApexThrottle, ShouldEqual, 5)
				So(f.MaxBrake, ShouldEqual, 60)
				So(f.BrakeDurationSamples, ShouldBeGreaterThan, 0)
				So(f.ApexLateralG, ShouldAlmostEqual, 1.4, 1e-9)
				So(f.AvgSteeringAngle, ShouldAlmostEqual, 20, 1e-9)
				So(f.ThrottleAppliedIdx, ShouldEqual, 48)
			})

			Convey("And extraction is deterministic", func() {
				again := telemetry.ExtractFeatures(lap, corners)
				So(again, ShouldResemble, feats)
			})
		})

		Convey("When the brake channel is missing", func() {
			delete(lap.Channels, "pbrake_f")
			feats := telemetry.ExtractFeatures(lap, corners)
			So(feats[0].MaxBrake, ShouldEqual, 0)
			So(feats[0].BrakeDurationSamples, ShouldEqual, 0)
		})
	})
}

func TestBuildLaps(t *testing.T) {
	Convey("Given long-format samples for two laps", t, func() {
		samples := []telemetry.RawSample{
			{Timestamp: 0.08, Vehicle: "GR-1", Lap: 1, Channel: "ath", Value: 90},
			{Timestamp: 0.04, Vehicle: "GR-1", Lap: 1, Channel: "ath", Value: 80},
			{Timestamp: 0.04, Vehicle: "GR-1", Lap: 1, Channel: "pbrake_f", Value: 10},
			{Timestamp: 0.04, Vehicle: "GR-1", Lap: 2, Channel: "ath", Value: 70},
			{Timestamp: 0.04, Vehicle: "GR-2", Lap: 1, Channel: "ath", Value: 60},
		}

		Convey("When building laps", func() {
			laps := telemetry.BuildLaps(samples)

			Convey("Then laps are grouped and ordered", func() {
				So(laps, ShouldHaveLength, 3)
				So(laps[0].Vehicle, ShouldEqual, "GR-1")
				So(laps[0].Lap, ShouldEqual, 1)
				So(laps[1].Lap, ShouldEqual, 2)
				So(laps[2].Vehicle, ShouldEqual, "GR-2")
			})

			Convey("And samples are sorted by timestamp within a lap", func() {
				first := laps[0]
				So(first.Times, ShouldResemble, []float64{0.04, 0.08})
				ath, ok := first.Throttle()
				So(ok, ShouldBeTrue)
				So(ath, ShouldResemble, []float64{80, 90})
			})

			Convey("And channels missing at a timestamp are NaN", func() {
				brake, ok := laps[0].Series([]string{"pbrake_f"})
				So(ok, ShouldBeTrue)
				So(brake[0], ShouldEqual, 10)
				So(math.IsNaN(brake[1]), ShouldBeTrue)
			})
		})
	})
}
