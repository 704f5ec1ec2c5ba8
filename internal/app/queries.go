package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/grcup/apexcoach/internal/adapters/repository"
	"github.com/grcup/apexcoach/internal/domain/features"
	"github.com/grcup/apexcoach/internal/domain/model"
	"github.com/grcup/apexcoach/pkg/metrics"
)

// What-if simulator constants: each percent of throttle-management
// improvement is worth 0.12s of lap time, capped at 25 percent.
const (
	whatIfGainPerPct  = 0.12
	maxImprovementPct = 25
)

// CoachingReport is the top-opportunities answer for one driver.
type CoachingReport struct {
	Track            string              `json:"track"`
	Driver           string              `json:"driver"`
	Benchmark        string              `json:"benchmark"`
	TotalRecoverable float64             `json:"total_recoverable_sec"`
	Opportunities    []model.Opportunity `json:"opportunities"`
}

// DriverComparison is one driver's corner deltas in a multi-driver
// comparison.
type DriverComparison struct {
	Driver      string                   `json:"driver"`
	TotalLost   float64                  `json:"total_lost_sec"`
	Comparisons []model.CornerComparison `json:"comparisons"`
}

// CompareResult is the multi-driver comparison answer.
type CompareResult struct {
	Track     string             `json:"track"`
	Benchmark string             `json:"benchmark"`
	Drivers   []DriverComparison `json:"drivers"`
}

// WhatIfResult is the what-if simulator answer.
type WhatIfResult struct {
	Track          string  `json:"track"`
	Driver         string  `json:"driver"`
	ImprovementPct float64 `json:"improvement_pct"`
	EstimatedGain  float64 `json:"estimated_gain_sec"`
	CurrentBest    float64 `json:"current_best_lap"`
	ProjectedBest  float64 `json:"projected_best_lap"`
}

// Stats is the service status answer.
type Stats struct {
	UptimeSeconds   float64         `json:"uptime_seconds"`
	SnapshotAgeSecs float64         `json:"snapshot_age_seconds"`
	Rows            int             `json:"rows"`
	SkippedRows     int             `json:"skipped_rows"`
	Tracks          int             `json:"tracks"`
	Drivers         int             `json:"drivers"`
	Clusters        int             `json:"clusters"`
	Model           model.ModelInfo `json:"model"`
}

// Tracks returns per-circuit summaries of the active snapshot.
func (s *Service) Tracks(ctx context.Context) ([]model.TrackSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.TrackSummary, 0, len(snap.Tracks()))
	for _, track := range snap.Tracks() {
		records := snap.TrackRecords(track)
		corners := make(map[int]struct{})
		for _, r := range records {
			corners[r.Corner] = struct{}{}
		}
		out = append(out, model.TrackSummary{
			Track:   track,
			Records: len(records),
			Drivers: len(snap.Drivers(track)),
			Corners: len(corners),
		})
	}
	return out, nil
}

// Drivers returns driver stats at one track in rank order. An empty
// track means the whole season, sorted by track then rank.
func (s *Service) Drivers(ctx context.Context, track string) ([]model.DriverStats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if track == "" {
		stats := append([]model.DriverStats(nil), snap.Stats...)
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].Track != stats[j].Track {
				return stats[i].Track < stats[j].Track
			}
			return stats[i].Rank < stats[j].Rank
		})
		return stats, nil
	}

	stats := snap.Drivers(track)
	if len(stats) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, track)
	}
	return stats, nil
}

// DriverSummary returns one driver's stats across every track they ran.
func (s *Service) DriverSummary(ctx context.Context, driver string) ([]model.DriverStats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	stats := snap.StatsForDriver(driver)
	if len(stats) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, driver)
	}
	return stats, nil
}

// Opportunities ranks a driver's corners by predicted improvement
// against a benchmark and returns at most the configured top-N. An
// empty benchmark means the track's fastest driver.
func (s *Service) Opportunities(ctx context.Context, track, driver, benchmark string) (*CoachingReport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	bench, comps, err := s.comparisons(snap, track, driver, benchmark)
	if err != nil {
		return nil, err
	}
	if len(comps) < s.minCorners {
		return nil, fmt.Errorf("%w: %d comparable corners, need %d", ErrInsufficientData, len(comps), s.minCorners)
	}

	gains := s.predictGains(comps)
	return &CoachingReport{
		Track:            track,
		Driver:           driver,
		Benchmark:        bench,
		TotalRecoverable: features.TotalRecoverable(comps),
		Opportunities:    s.ranker.Rank(comps, gains),
	}, nil
}

// Comparison returns per-corner deltas for one driver against a
// benchmark, optionally limited to a corner range. Zero for from or to
// leaves that end open.
func (s *Service) Comparison(ctx context.Context, track, driver, benchmark string, from, to int) ([]model.CornerComparison, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	_, comps, err := s.comparisons(snap, track, driver, benchmark)
	if err != nil {
		return nil, err
	}
	return features.FilterCornerRange(comps, from, to), nil
}

// CompareDrivers compares up to maxCompareDrivers drivers against the
// track's fastest driver.
func (s *Service) CompareDrivers(ctx context.Context, track string, drivers []string) (*CompareResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if len(drivers) == 0 {
		return nil, fmt.Errorf("%w: no drivers given", ErrDriverNotFound)
	}
	if len(drivers) > s.maxCompareDrivers {
		return nil, fmt.Errorf("%w: %d drivers, limit %d", ErrTooManyDrivers, len(drivers), s.maxCompareDrivers)
	}

	bench, ok := snap.FastestDriver(track)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, track)
	}

	res := &CompareResult{Track: track, Benchmark: bench}
	for _, driver := range drivers {
		if _, ok := snap.StatsFor(track, driver); !ok {
			return nil, fmt.Errorf("%w: %q at %q", ErrDriverNotFound, driver, track)
		}
		comps := features.Compare(snap.TrackRecords(track), track, driver, bench)
		res.Drivers = append(res.Drivers, DriverComparison{
			Driver:      driver,
			TotalLost:   features.TotalRecoverable(comps),
			Comparisons: comps,
		})
	}

	sort.Slice(res.Drivers, func(i, j int) bool {
		if res.Drivers[i].TotalLost != res.Drivers[j].TotalLost {
			return res.Drivers[i].TotalLost < res.Drivers[j].TotalLost
		}
		return res.Drivers[i].Driver < res.Drivers[j].Driver
	})
	return res, nil
}

// ModelInfo returns the active model description.
func (s *Service) ModelInfo(ctx context.Context) (model.ModelInfo, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return model.ModelInfo{}, err
	}
	return snap.Model, nil
}

// WhatIf projects a driver's best lap under a throttle-management
// improvement percentage.
func (s *Service) WhatIf(ctx context.Context, track, driver string, improvementPct float64) (*WhatIfResult, error) {
	if improvementPct < 0 || improvementPct > maxImprovementPct {
		return nil, fmt.Errorf("%w: %.1f, allowed 0..%d", ErrBadImprovement, improvementPct, maxImprovementPct)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Drivers(track)) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, track)
	}
	st, ok := snap.StatsFor(track, driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q at %q", ErrDriverNotFound, driver, track)
	}

	gain := improvementPct * whatIfGainPerPct
	return &WhatIfResult{
		Track:          track,
		Driver:         driver,
		ImprovementPct: improvementPct,
		EstimatedGain:  gain,
		CurrentBest:    st.BestLap,
		ProjectedBest:  st.BestLap - gain,
	}, nil
}

// Clusters returns the driver style clusters.
func (s *Service) Clusters(ctx context.Context) ([]model.DriverCluster, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Clusters, nil
}

// GetStats returns service status for the stats endpoint.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	return &Stats{
		UptimeSeconds:   time.Since(startedAt).Seconds(),
		SnapshotAgeSecs: time.Since(snap.LoadedAt).Seconds(),
		Rows:            len(snap.Records),
		SkippedRows:     snap.Skipped,
		Tracks:          len(snap.Tracks()),
		Drivers:         snap.DriverCount(),
		Clusters:        len(snap.Clusters),
		Model:           snap.Model,
	}, nil
}

// comparisons resolves the benchmark and computes corner deltas for one
// driver. An empty benchmark means the track's fastest driver.
func (s *Service) comparisons(snap *repository.Snapshot, track, driver, benchmark string) (string, []model.CornerComparison, error) {
	if len(snap.Drivers(track)) == 0 {
		return "", nil, fmt.Errorf("%w: %q", ErrTrackNotFound, track)
	}
	if _, ok := snap.StatsFor(track, driver); !ok {
		return "", nil, fmt.Errorf("%w: %q at %q", ErrDriverNotFound, driver, track)
	}

	bench := benchmark
	if bench == "" {
		bench, _ = snap.FastestDriver(track)
	} else if _, ok := snap.StatsFor(track, bench); !ok {
		return "", nil, fmt.Errorf("%w: benchmark %q at %q", ErrDriverNotFound, bench, track)
	}

	return bench, features.Compare(snap.TrackRecords(track), track, driver, bench), nil
}

// predictGains runs the forest over each comparison. A missing or
// untrained model yields nil; the ranker then falls back to time lost.
func (s *Service) predictGains(comps []model.CornerComparison) map[int]float64 {
	s.mu.RLock()
	fr := s.model
	s.mu.RUnlock()

	if fr == nil || !fr.Trained() {
		return nil
	}

	gains := make(map[int]float64, len(comps))
	for _, c := range comps {
		start := time.Now()
		gain, err := fr.Predict(featureVector(c))
		if err != nil {
			return nil
		}
		metrics.RecordPrediction(float64(time.Since(start).Microseconds()) / 1000)
		gains[c.Corner] = gain
	}
	return gains
}

// snapshot returns the current season snapshot.
func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.RLock()
	started := s.started
	store := s.store
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	return store.Snapshot(ctx)
}
