package telemetry

import "math"

// Detection defaults, tuned on championship data.
const (
	defaultThrottleThreshold = 80.0
	defaultMinCornerLength   = 10
)

// Corner marks one detected corner as sample indexes into a lap.
type Corner struct {
	Start int
	Apex  int
	End   int
}

// Detector finds corners in a lap by throttle-drop runs.
type Detector struct {
	throttleThreshold float64
	minCornerLength   int
}

// DetectorOption applies a configuration option to the Detector.
type DetectorOption func(*Detector)

// WithThrottleThreshold sets the throttle percentage below which the car is
// considered to be in a corner.
func WithThrottleThreshold(threshold float64) DetectorOption {
	return func(d *Detector) {
		if threshold > 0 {
			d.throttleThreshold = threshold
		}
	}
}

// WithMinCornerLength sets the minimum corner length in samples.
func WithMinCornerLength(n int) DetectorOption {
	return func(d *Detector) {
		if n > 0 {
			d.minCornerLength = n
		}
	}
}

// NewDetector creates a Detector with defaults.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		throttleThreshold: defaultThrottleThreshold,
		minCornerLength:   defaultMinCornerLength,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect finds corners in a lap. A corner is a run of samples with throttle
// below the threshold, at least minCornerLength samples long; the apex is the
// minimum-throttle sample within the run. Laps without a throttle channel
// yield no corners.
func (d *Detector) Detect(lap *Lap) []Corner {
	throttle, ok := lap.Throttle()
	if !ok {
		return nil
	}

	// Missing readings count as full throttle so gaps do not fake corners.
	filled := make([]float64, len(throttle))
	for i, v := range throttle {
		if math.IsNaN(v) {
			filled[i] = 100
		} else {
			filled[i] = v
		}
	}

	var corners []Corner
	start := -1
	for i, v := range filled {
		inCorner := v < d.throttleThreshold
		switch {
		case inCorner && start < 0:
			start = i
		case !inCorner && start >= 0:
			if i-start >= d.minCornerLength {
				corners = append(corners, Corner{
					Start: start,
					Apex:  argminRange(filled, start, i),
					End:   i,
				})
			}
			start = -1
		}
	}
	// A corner still open at lap end is dropped: its exit was not observed.
	return corners
}

// argminRange returns the index of the minimum of x[lo:hi].
func argminRange(x []float64, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if x[i] < x[best] {
			best = i
		}
	}
	return best
}
