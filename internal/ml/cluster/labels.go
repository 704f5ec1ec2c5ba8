package cluster

import "math"

// Feature names recognized by LabelStyles. Columns are per-driver
// season aggregates.
const (
	FeatureMaxBrake     = "avg_max_brake"
	FeatureApexThrottle = "avg_apex_throttle"
	FeatureLapStdDev    = "lap_std_dev"
)

// Style labels surfaced on the dashboard.
const (
	StyleLateBraker    = "Late Braker"
	StyleEarlyBraker   = "Early Braker"
	StyleThrottleHeavy = "Throttle Aggressor"
	StyleCautious      = "Cautious on Throttle"
	StyleInconsistent  = "Inconsistent"
	StyleSmooth        = "Smooth Operator"
	StyleBalanced      = "Balanced"
)

// labelMinDeviation is the standardized deviation below which a
// centroid is considered unremarkable on every axis.
const labelMinDeviation = 0.25

// LabelStyles names each centroid after its most extreme feature
// relative to the other centroids. Unrecognized feature names and
// near-average centroids fall back to Balanced.
func LabelStyles(centroids [][]float64, featureNames []string) []string {
	labels := make([]string, len(centroids))
	if len(centroids) == 0 {
		return labels
	}
	p := len(centroids[0])

	means := make([]float64, p)
	for _, c := range centroids {
		for j, v := range c {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(len(centroids))
	}
	stddevs := make([]float64, p)
	for _, c := range centroids {
		for j, v := range c {
			d := v - means[j]
			stddevs[j] += d * d
		}
	}
	for j := range stddevs {
		stddevs[j] = math.Sqrt(stddevs[j] / float64(len(centroids)))
	}

	for i, c := range centroids {
		bestDim, bestDev := -1, 0.0
		for j, v := range c {
			if stddevs[j] == 0 {
				continue
			}
			if dev := (v - means[j]) / stddevs[j]; math.Abs(dev) > math.Abs(bestDev) {
				bestDev = dev
				bestDim = j
			}
		}
		if bestDim < 0 || math.Abs(bestDev) < labelMinDeviation || bestDim >= len(featureNames) {
			labels[i] = StyleBalanced
			continue
		}
		labels[i] = styleFor(featureNames[bestDim], bestDev > 0)
	}
	return labels
}

func styleFor(feature string, high bool) string {
	switch feature {
	case FeatureMaxBrake:
		if high {
			return StyleLateBraker
		}
		return StyleEarlyBraker
	case FeatureApexThrottle:
		if high {
			return StyleThrottleHeavy
		}
		return StyleCautious
	case FeatureLapStdDev:
		if high {
			return StyleInconsistent
		}
		return StyleSmooth
	default:
		return StyleBalanced
	}
}
