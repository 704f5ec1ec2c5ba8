// Package features derives per-driver aggregates and driver-vs-benchmark
// corner comparisons from corner records. Everything here is a pure,
// deterministic function of its input.
package features

import (
	"math"
	"sort"

	"github.com/grcup/apexcoach/internal/domain/model"
)

// SampleSeconds is the telemetry sample period: corner durations are counted
// in samples and converted to seconds with this factor.
const SampleSeconds = 0.04

// DriverAggregates computes per-track driver statistics. The result is
// sorted by track name, then rank (best lap ascending).
func DriverAggregates(records []model.CornerRecord) []model.DriverStats {
	type key struct {
		track  string
		driver string
	}
	type lapKey struct {
		track  string
		driver string
		lap    int
	}

	corners := make(map[key]int)
	lapTimes := make(map[key][]float64)
	seenLap := make(map[lapKey]bool)

	for _, r := range records {
		k := key{r.Track, r.Driver}
		corners[k]++
		lk := lapKey{r.Track, r.Driver, r.Lap}
		if !seenLap[lk] {
			seenLap[lk] = true
			lapTimes[k] = append(lapTimes[k], r.LapTime)
		}
	}

	byTrack := make(map[string][]model.DriverStats)
	for k, times := range lapTimes {
		sort.Float64s(times)
		stats := model.DriverStats{
			Track:     k.track,
			Driver:    k.driver,
			BestLap:   times[0],
			MeanLap:   mean(times),
			LapStdDev: stddev(times),
			Laps:      len(times),
			Corners:   corners[k],
		}
		byTrack[k.track] = append(byTrack[k.track], stats)
	}

	var out []model.DriverStats
	tracks := make([]string, 0, len(byTrack))
	for t := range byTrack {
		tracks = append(tracks, t)
	}
	sort.Strings(tracks)

	for _, t := range tracks {
		drivers := byTrack[t]
		sort.Slice(drivers, func(i, j int) bool {
			if drivers[i].BestLap != drivers[j].BestLap {
				return drivers[i].BestLap < drivers[j].BestLap
			}
			return drivers[i].Driver < drivers[j].Driver
		})
		leader := drivers[0].BestLap
		n := len(drivers)
		for i := range drivers {
			drivers[i].Rank = i + 1
			drivers[i].GapToLeader = drivers[i].BestLap - leader
			if n > 1 {
				drivers[i].Percentile = 100 * float64(n-1-i) / float64(n-1)
			} else {
				drivers[i].Percentile = 100
			}
		}
		out = append(out, drivers...)
	}
	return out
}

// FastestDriver returns the driver with the lowest best lap on a track.
func FastestDriver(stats []model.DriverStats, track string) (string, bool) {
	best := ""
	bestLap := math.Inf(1)
	for _, s := range stats {
		if s.Track == track && s.BestLap < bestLap {
			best = s.Driver
			bestLap = s.BestLap
		}
	}
	return best, best != ""
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func stddev(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	sum, sumSq := 0.0, 0.0
	for _, v := range x {
		sum += v
		sumSq += v * v
	}
	m := sum / n
	variance := (sumSq / n) - m*m
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
