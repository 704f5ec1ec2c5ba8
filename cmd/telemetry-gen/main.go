// Command telemetry-gen writes a synthetic long-format telemetry CSV
// for local runs and load testing. Output rows follow the logger
// export shape: timestamp, vehicle_id, lap, channel, value.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/google/uuid"
)

const (
	sampleHz      = 25
	samplesPerLap = 2500 // 100 seconds of running at 25 Hz
)

// corner describes one synthetic corner on the lap.
type corner struct {
	center int
	width  int
	depth  float64 // how far throttle drops, 0..1
}

func main() {
	out := flag.String("out", "raw_telemetry.csv", "output CSV path")
	cars := flag.Int("cars", 6, "number of vehicles")
	laps := flag.Int("laps", 8, "laps per vehicle")
	corners := flag.Int("corners", 10, "corners per lap")
	seed := flag.Int64("seed", 42, "RNG seed")
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seed)) //nolint:gosec // synthetic data

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create output:", err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "vehicle_id", "lap", "channel", "value"}); err != nil {
		fmt.Fprintln(os.Stderr, "write header:", err)
		os.Exit(1)
	}

	layout := lapLayout(rnd, *corners)
	rows := 0
	for c := 0; c < *cars; c++ {
		vehicle := "GR86-" + uuid.NewString()[:8]
		// Slower cars brake harder and lift more.
		skill := rnd.Float64() * 0.5

		for lap := 1; lap <= *laps; lap++ {
			rows += writeLap(w, rnd, vehicle, lap, layout, skill)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintln(os.Stderr, "write rows:", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d rows for %d cars to %s\n", rows, *cars, *out)
}

// lapLayout spreads corners over the lap with randomized widths.
func lapLayout(rnd *rand.Rand, n int) []corner {
	spacing := samplesPerLap / (n + 1)
	out := make([]corner, n)
	for i := range out {
		out[i] = corner{
			center: (i + 1) * spacing,
			width:  30 + rnd.Intn(40),
			depth:  0.6 + rnd.Float64()*0.35,
		}
	}
	return out
}

// writeLap emits one lap's samples for every channel and returns the
// number of rows written.
func writeLap(w *csv.Writer, rnd *rand.Rand, vehicle string, lap int, layout []corner, skill float64) int {
	rows := 0
	lapStr := strconv.Itoa(lap)
	for i := 0; i < samplesPerLap; i++ {
		ts := float64(i) / sampleHz
		tsStr := strconv.FormatFloat(ts, 'f', 3, 64)

		throttle := 100.0
		brake := 0.0
		lateral := 0.05 * rnd.NormFloat64()
		steering := 2 * rnd.NormFloat64()

		for _, c := range layout {
			d := float64(i - c.center)
			half := float64(c.width) / 2

			// Throttle dip through the corner.
			if math.Abs(d) < half {
				lift := c.depth * (1 + skill*0.3) * math.Cos(d/half*math.Pi/2)
				throttle = math.Max(throttle-100*lift, 0)
				lateral += 1.3 * math.Cos(d/half*math.Pi/2)
				steering += 25 * math.Cos(d/half*math.Pi/2)
			}
			// Brake spike on entry.
			if d >= -half-20 && d < 0 {
				brake = math.Max(brake, (60+40*skill)*math.Exp(-math.Abs(d+half)/10))
			}
		}
		throttle = clamp(throttle+rnd.NormFloat64()*2, 0, 100)
		brake = clamp(brake+rnd.NormFloat64(), 0, 120)

		for _, rec := range [][2]string{
			{"ath", strconv.FormatFloat(throttle, 'f', 2, 64)},
			{"pbrake_f", strconv.FormatFloat(brake, 'f', 2, 64)},
			{"accy_can", strconv.FormatFloat(lateral, 'f', 3, 64)},
			{"Steering_Angle", strconv.FormatFloat(steering, 'f', 2, 64)},
		} {
			_ = w.Write([]string{tsStr, vehicle, lapStr, rec[0], rec[1]})
			rows++
		}
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
