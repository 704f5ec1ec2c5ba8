// Package dataset reads the season corner-feature CSV into memory.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grcup/apexcoach/internal/domain/model"
	"github.com/grcup/apexcoach/pkg/logger"
)

// Required CSV columns. Column order is free; the header decides.
var requiredColumns = []string{
	"track",
	"vehicle_id",
	"lap",
	"corner_num",
	"corner_duration",
	"lap_time",
	"entry_throttle",
	"apex_throttle",
	"min_throttle",
	"exit_throttle",
	"max_brake",
	"brake_duration",
	"apex_lateral_g",
	"avg_steering_angle",
}

// Result is the outcome of one load.
type Result struct {
	Records []model.CornerRecord
	// Skipped counts rows dropped in lenient mode: unknown tracks and
	// unparsable values.
	Skipped int
}

// Loader reads corner-feature CSVs and validates rows against the
// configured circuit set.
type Loader struct {
	tracks map[string]struct{}
	strict bool
	log    logger.Logger
}

// New creates a Loader. The allowed circuit list must be non-empty.
func New(opts ...Option) *Loader {
	l := &Loader{
		tracks: make(map[string]struct{}),
		log:    logger.Get().Named("dataset"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and validates the CSV at path. Rows for tracks outside the
// configured set are never returned: strict mode fails the load, lenient
// mode counts and skips them. Zero usable rows is an error either way.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenDataset, err)
	}
	defer f.Close()

	return l.read(ctx, f)
}

func (l *Loader) read(ctx context.Context, r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedDataset, err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedDataset, line, err)
		}

		rec, err := l.parseRow(row, cols)
		if err != nil {
			if l.strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			l.log.Debug(ctx, "skipping row", logger.Int("line", line), logger.Error(err))
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: %d rows skipped", ErrEmptyDataset, res.Skipped)
	}
	return res, nil
}

func (l *Loader) parseRow(row []string, cols map[string]int) (model.CornerRecord, error) {
	track := strings.TrimSpace(row[cols["track"]])
	if _, ok := l.tracks[track]; !ok {
		return model.CornerRecord{}, fmt.Errorf("%w: %q", ErrUnknownTrack, track)
	}
	driver := strings.TrimSpace(row[cols["vehicle_id"]])
	if driver == "" {
		return model.CornerRecord{}, fmt.Errorf("%w: empty vehicle_id", ErrBadRow)
	}

	ints := func(name string) (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(row[cols[name]]))
		if err != nil {
			return 0, fmt.Errorf("%w: column %s: %v", ErrBadRow, name, err)
		}
		return v, nil
	}
	floats := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[name]]), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: column %s: %v", ErrBadRow, name, err)
		}
		return v, nil
	}

	var rec model.CornerRecord
	var err error
	rec.Track = track
	rec.Driver = driver
	if rec.Lap, err = ints("lap"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.Corner, err = ints("corner_num"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.DurationSamples, err = ints("corner_duration"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.BrakeDurationSamples, err = ints("brake_duration"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.LapTime, err = floats("lap_time"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.EntryThrottle, err = floats("entry_throttle"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.ApexThrottle, err = floats("apex_throttle"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.MinThrottle, err = floats("min_throttle"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.ExitThrottle, err = floats("exit_throttle"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.MaxBrake, err = floats("max_brake"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.ApexLateralG, err = floats("apex_lateral_g"); err != nil {
		return model.CornerRecord{}, err
	}
	if rec.AvgSteeringAngle, err = floats("avg_steering_angle"); err != nil {
		return model.CornerRecord{}, err
	}

	if rec.Lap < 1 || rec.Corner < 1 || rec.LapTime <= 0 || rec.DurationSamples < 0 {
		return model.CornerRecord{}, fmt.Errorf("%w: out-of-range lap, corner, duration or lap_time", ErrBadRow)
	}
	return rec, nil
}

// columnIndex maps required column names to their positions.
func columnIndex(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedDataset, name)
		}
		cols[name] = i
	}
	return cols, nil
}
