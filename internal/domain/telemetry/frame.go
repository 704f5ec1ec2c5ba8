// Package telemetry converts raw telemetry samples into corner-level features.
package telemetry

import (
	"math"
	"sort"
)

// RawSample is one row of long-format telemetry: a single channel reading.
type RawSample struct {
	Timestamp float64
	Vehicle   string
	Lap       int
	Channel   string
	Value     float64
}

// Lap is a wide, per-sample view of one vehicle's lap. All channel series
// share the same sample index; missing readings are NaN.
type Lap struct {
	Vehicle  string
	Lap      int
	Times    []float64
	Channels map[string][]float64
}

// Len returns the number of samples in the lap.
func (l *Lap) Len() int { return len(l.Times) }

// Channel alias lists. Data exports from different loggers name the same
// physical channel differently.
var (
	throttleAliases = []string{"ath", "ATH", "throttle", "Throttle", "TPS", "tps", "aps", "APS"}
	brakeAliases    = []string{"pbrake_f", "brake_f", "Brake_F", "brake_front"}
	lateralAliases  = []string{"accy_can", "accy", "lateral_accel", "AccY"}
	steeringAliases = []string{"Steering_Angle", "steering", "Steering", "steer"}
)

// Series resolves the first channel present among the aliases.
func (l *Lap) Series(aliases []string) ([]float64, bool) {
	for _, name := range aliases {
		if s, ok := l.Channels[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Throttle returns the throttle series if any alias is present.
func (l *Lap) Throttle() ([]float64, bool) { return l.Series(throttleAliases) }

// BuildLaps pivots long-format samples into per-lap wide frames.
// Samples are grouped by (vehicle, lap) and ordered by timestamp; each
// distinct timestamp becomes one sample index.
func BuildLaps(samples []RawSample) []*Lap {
	type lapKey struct {
		vehicle string
		lap     int
	}

	grouped := make(map[lapKey][]RawSample)
	for _, s := range samples {
		k := lapKey{s.Vehicle, s.Lap}
		grouped[k] = append(grouped[k], s)
	}

	keys := make([]lapKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].vehicle != keys[j].vehicle {
			return keys[i].vehicle < keys[j].vehicle
		}
		return keys[i].lap < keys[j].lap
	})

	laps := make([]*Lap, 0, len(keys))
	for _, k := range keys {
		rows := grouped[k]

		// Collect distinct timestamps in order.
		tsSet := make(map[float64]struct{})
		for _, r := range rows {
			tsSet[r.Timestamp] = struct{}{}
		}
		times := make([]float64, 0, len(tsSet))
		for t := range tsSet {
			times = append(times, t)
		}
		sort.Float64s(times)

		index := make(map[float64]int, len(times))
		for i, t := range times {
			index[t] = i
		}

		lap := &Lap{
			Vehicle:  k.vehicle,
			Lap:      k.lap,
			Times:    times,
			Channels: make(map[string][]float64),
		}
		for _, r := range rows {
			series, ok := lap.Channels[r.Channel]
			if !ok {
				series = make([]float64, len(times))
				for i := range series {
					series[i] = math.NaN()
				}
				lap.Channels[r.Channel] = series
			}
			// First reading wins on duplicate timestamps.
			if i := index[r.Timestamp]; math.IsNaN(series[i]) {
				series[i] = r.Value
			}
		}
		laps = append(laps, lap)
	}
	return laps
}
