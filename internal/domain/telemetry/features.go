package telemetry

import "math"

// Feature extraction thresholds.
const (
	brakingThreshold      = 10.0 // brake pressure above this counts as braking
	throttleAppliedThresh = 50.0 // throttle above this counts as back on power
)

// CornerFeatures holds the physics features of one corner traversal.
type CornerFeatures struct {
	Corner          int
	StartIdx        int
	ApexIdx         int
	EndIdx          int
	DurationSamples int

	EntryThrottle        float64
	ApexThrottle         float64
	MinThrottle          float64
	ExitThrottle         float64
	MaxBrake             float64
	BrakeDurationSamples int
	ApexLateralG         float64
	AvgSteeringAngle     float64
	ThrottleAppliedIdx   int
}

// ExtractFeatures computes per-corner features for a lap. Channels that are
// absent produce zero-valued features rather than failing the lap.
func ExtractFeatures(lap *Lap, corners []Corner) []CornerFeatures {
	throttle, hasThrottle := lap.Series(throttleAliases)
	brake, hasBrake := lap.Series(brakeAliases)
	lateral, hasLateral := lap.Series(lateralAliases)
	steering, hasSteering := lap.Series(steeringAliases)

	n := lap.Len()
	features := make([]CornerFeatures, 0, len(corners))
	for i, c := range corners {
		if c.Start >= n || c.End >= n {
			continue
		}

		f := CornerFeatures{
			Corner:          i + 1,
			StartIdx:        c.Start,
			ApexIdx:         c.Apex,
			EndIdx:          c.End,
			DurationSamples: c.End - c.Start,
		}

		if hasThrottle {
			f.EntryThrottle = valueOrZero(throttle, c.Start)
			f.ApexThrottle = valueOrZero(throttle, c.Apex)
			f.ExitThrottle = valueOrZero(throttle, c.End)
			f.MinThrottle = minRange(throttle, c.Start, c.End+1)
		}

		if hasBrake {
			f.MaxBrake = maxRange(brake, c.Start, c.End+1)
			f.BrakeDurationSamples = countAbove(brake, c.Start, c.End+1, brakingThreshold)
		}

		if hasLateral {
			f.ApexLateralG = math.Abs(valueOrZero(lateral, c.Apex))
		}

		if hasSteering {
			f.AvgSteeringAngle = meanAbsRange(steering, c.Start, c.End+1)
		}

		f.ThrottleAppliedIdx = c.End
		if hasThrottle {
			for j := c.Start; j <= c.End; j++ {
				if !math.IsNaN(throttle[j]) && throttle[j] > throttleAppliedThresh {
					f.ThrottleAppliedIdx = j
					break
				}
			}
		}

		features = append(features, f)
	}
	return features
}

func valueOrZero(x []float64, i int) float64 {
	if i < 0 || i >= len(x) || math.IsNaN(x[i]) {
		return 0
	}
	return x[i]
}

func minRange(x []float64, lo, hi int) float64 {
	best := math.Inf(1)
	for i := lo; i < hi && i < len(x); i++ {
		if !math.IsNaN(x[i]) && x[i] < best {
			best = x[i]
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func maxRange(x []float64, lo, hi int) float64 {
	best := math.Inf(-1)
	for i := lo; i < hi && i < len(x); i++ {
		if !math.IsNaN(x[i]) && x[i] > best {
			best = x[i]
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

func countAbove(x []float64, lo, hi int, threshold float64) int {
	count := 0
	for i := lo; i < hi && i < len(x); i++ {
		if !math.IsNaN(x[i]) && x[i] > threshold {
			count++
		}
	}
	return count
}

func meanAbsRange(x []float64, lo, hi int) float64 {
	sum, n := 0.0, 0
	for i := lo; i < hi && i < len(x); i++ {
		if !math.IsNaN(x[i]) {
			sum += math.Abs(x[i])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
