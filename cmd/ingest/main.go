// Command ingest converts long-format raw telemetry CSVs into the
// corner-feature dataset the analytics service loads at startup.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/grcup/apexcoach/internal/domain/telemetry"
)

func main() {
	in := flag.String("in", "raw_telemetry.csv", "raw telemetry CSV path")
	out := flag.String("out", "master_corner_features.csv", "corner dataset output path")
	track := flag.String("track", "", "circuit name for every row (required)")
	flag.Parse()

	if *track == "" {
		fmt.Fprintln(os.Stderr, "missing -track")
		os.Exit(1)
	}

	samples, err := readSamples(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read telemetry:", err)
		os.Exit(1)
	}

	laps := telemetry.BuildLaps(samples)
	detector := telemetry.NewDetector()

	rows, skippedLaps := 0, 0
	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create output:", err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{
		"track", "vehicle_id", "lap", "corner_num", "corner_duration", "lap_time",
		"entry_throttle", "apex_throttle", "min_throttle", "exit_throttle",
		"max_brake", "brake_duration", "apex_lateral_g", "avg_steering_angle",
	}); err != nil {
		fmt.Fprintln(os.Stderr, "write header:", err)
		os.Exit(1)
	}

	for _, lap := range laps {
		corners := detector.Detect(lap)
		if len(corners) == 0 {
			skippedLaps++
			continue
		}
		lapTime := lap.Times[len(lap.Times)-1] - lap.Times[0]

		for _, cf := range telemetry.ExtractFeatures(lap, corners) {
			_ = w.Write([]string{
				*track,
				lap.Vehicle,
				strconv.Itoa(lap.Lap),
				strconv.Itoa(cf.Corner),
				strconv.Itoa(cf.DurationSamples),
				strconv.FormatFloat(lapTime, 'f', 2, 64),
				strconv.FormatFloat(cf.EntryThrottle, 'f', 2, 64),
				strconv.FormatFloat(cf.ApexThrottle, 'f', 2, 64),
				strconv.FormatFloat(cf.MinThrottle, 'f', 2, 64),
				strconv.FormatFloat(cf.ExitThrottle, 'f', 2, 64),
				strconv.FormatFloat(cf.MaxBrake, 'f', 2, 64),
				strconv.Itoa(cf.BrakeDurationSamples),
				strconv.FormatFloat(cf.ApexLateralG, 'f', 3, 64),
				strconv.FormatFloat(cf.AvgSteeringAngle, 'f', 2, 64),
			})
			rows++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintln(os.Stderr, "write rows:", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d corner rows from %d laps (%d skipped) to %s\n",
		rows, len(laps), skippedLaps, *out)
}

// readSamples parses the long-format export:
// timestamp, vehicle_id, lap, channel, value.
func readSamples(path string) ([]telemetry.RawSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, err
	}

	var samples []telemetry.RawSample
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}
		lap, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: lap: %w", line, err)
		}
		value, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: value: %w", line, err)
		}

		samples = append(samples, telemetry.RawSample{
			Timestamp: ts,
			Vehicle:   row[1],
			Lap:       lap,
			Channel:   row[3],
			Value:     value,
		})
	}
	return samples, nil
}
