package features

import (
	"sort"

	"github.com/grcup/apexcoach/internal/domain/model"
)

// cornerProfile is a driver's averaged traversal of one corner.
type cornerProfile struct {
	duration     float64
	maxBrake     float64
	apexThrottle float64
}

// cornerProfiles averages a driver's corner records per corner number.
// Averaging across laps removes single-lap noise before comparing drivers.
func cornerProfiles(records []model.CornerRecord, track, driver string) map[int]cornerProfile {
	sums := make(map[int]cornerProfile)
	counts := make(map[int]int)
	for _, r := range records {
		if r.Track != track || r.Driver != driver {
			continue
		}
		p := sums[r.Corner]
		p.duration += float64(r.DurationSamples)
		p.maxBrake += r.MaxBrake
		p.apexThrottle += r.ApexThrottle
		sums[r.Corner] = p
		counts[r.Corner]++
	}
	for c, p := range sums {
		n := float64(counts[c])
		sums[c] = cornerProfile{
			duration:     p.duration / n,
			maxBrake:     p.maxBrake / n,
			apexThrottle: p.apexThrottle / n,
		}
	}
	return sums
}

// Compare computes per-corner deltas between driver and benchmark on a track.
// Only corners traversed by both drivers appear; the result is sorted by
// corner number. Comparing a driver against itself yields nothing.
func Compare(records []model.CornerRecord, track, driver, benchmark string) []model.CornerComparison {
	if driver == benchmark {
		return nil
	}

	drv := cornerProfiles(records, track, driver)
	ref := cornerProfiles(records, track, benchmark)

	var out []model.CornerComparison
	for corner, d := range drv {
		b, ok := ref[corner]
		if !ok {
			continue
		}
		out = append(out, model.CornerComparison{
			Track:                 track,
			Corner:                corner,
			Driver:                driver,
			Benchmark:             benchmark,
			TimeLost:              (d.duration - b.duration) * SampleSeconds,
			BrakeDelta:            d.maxBrake - b.maxBrake,
			ApexThrottleDelta:     d.apexThrottle - b.apexThrottle,
			DriverBrake:           d.maxBrake,
			BenchmarkBrake:        b.maxBrake,
			DriverApexThrottle:    d.apexThrottle,
			BenchmarkApexThrottle: b.apexThrottle,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Corner < out[j].Corner })
	return out
}

// FilterCornerRange keeps comparisons whose corner number is within [from, to].
// A zero `to` means no upper bound.
func FilterCornerRange(comparisons []model.CornerComparison, from, to int) []model.CornerComparison {
	if from <= 0 && to <= 0 {
		return comparisons
	}
	out := make([]model.CornerComparison, 0, len(comparisons))
	for _, c := range comparisons {
		if c.Corner < from {
			continue
		}
		if to > 0 && c.Corner > to {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TotalRecoverable sums positive time lost across comparisons.
func TotalRecoverable(comparisons []model.CornerComparison) float64 {
	total := 0.0
	for _, c := range comparisons {
		if c.TimeLost > 0 {
			total += c.TimeLost
		}
	}
	return total
}
