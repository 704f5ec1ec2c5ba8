package repository

import (
	"sort"
	"time"

	"github.com/grcup/apexcoach/internal/domain/model"
)

type trackDriver struct {
	track  string
	driver string
}

// Snapshot is one immutable view of the season: raw corner records,
// derived driver stats, the trained model and style clusters. All
// lookup indexes are built once at construction; readers never mutate.
type Snapshot struct {
	LoadedAt time.Time
	Records  []model.CornerRecord
	Stats    []model.DriverStats
	Model    model.ModelInfo
	Clusters []model.DriverCluster
	Skipped  int

	tracks         []string
	recordsByTrack map[string][]model.CornerRecord
	statsByTrack   map[string][]model.DriverStats
	statsByKey     map[trackDriver]model.DriverStats
	statsByDriver  map[string][]model.DriverStats
}

// NewSnapshot builds a snapshot and its indexes.
func NewSnapshot(records []model.CornerRecord, stats []model.DriverStats, mi model.ModelInfo, clusters []model.DriverCluster, skipped int) *Snapshot {
	s := &Snapshot{
		LoadedAt: time.Now(),
		Records:  records,
		Stats:    stats,
		Model:    mi,
		Clusters: clusters,
		Skipped:  skipped,

		recordsByTrack: make(map[string][]model.CornerRecord),
		statsByTrack:   make(map[string][]model.DriverStats),
		statsByKey:     make(map[trackDriver]model.DriverStats),
		statsByDriver:  make(map[string][]model.DriverStats),
	}

	for _, r := range records {
		s.recordsByTrack[r.Track] = append(s.recordsByTrack[r.Track], r)
	}
	for _, st := range stats {
		s.statsByTrack[st.Track] = append(s.statsByTrack[st.Track], st)
		s.statsByKey[trackDriver{st.Track, st.Driver}] = st
		s.statsByDriver[st.Driver] = append(s.statsByDriver[st.Driver], st)
	}

	s.tracks = make([]string, 0, len(s.recordsByTrack))
	for t := range s.recordsByTrack {
		s.tracks = append(s.tracks, t)
	}
	sort.Strings(s.tracks)
	return s
}

// Tracks returns the circuits present in the snapshot, sorted.
func (s *Snapshot) Tracks() []string { return s.tracks }

// Drivers returns the drivers seen at a track, sorted by rank.
func (s *Snapshot) Drivers(track string) []model.DriverStats {
	return s.statsByTrack[track]
}

// DriverNames returns just the vehicle ids at a track, rank order.
func (s *Snapshot) DriverNames(track string) []string {
	stats := s.statsByTrack[track]
	names := make([]string, len(stats))
	for i, st := range stats {
		names[i] = st.Driver
	}
	return names
}

// StatsFor returns one driver's stats at one track.
func (s *Snapshot) StatsFor(track, driver string) (model.DriverStats, bool) {
	st, ok := s.statsByKey[trackDriver{track, driver}]
	return st, ok
}

// StatsForDriver returns a driver's stats across every track they ran,
// sorted by track name.
func (s *Snapshot) StatsForDriver(driver string) []model.DriverStats {
	stats := append([]model.DriverStats(nil), s.statsByDriver[driver]...)
	sort.Slice(stats, func(i, j int) bool { return stats[i].Track < stats[j].Track })
	return stats
}

// TrackRecords returns every corner record for one track.
func (s *Snapshot) TrackRecords(track string) []model.CornerRecord {
	return s.recordsByTrack[track]
}

// FastestDriver returns the driver with the best lap at a track.
func (s *Snapshot) FastestDriver(track string) (string, bool) {
	stats := s.statsByTrack[track]
	if len(stats) == 0 {
		return "", false
	}
	best := stats[0]
	for _, st := range stats[1:] {
		if st.BestLap < best.BestLap || (st.BestLap == best.BestLap && st.Driver < best.Driver) {
			best = st
		}
	}
	return best.Driver, true
}

// DriverCount returns the number of distinct drivers in the snapshot.
func (s *Snapshot) DriverCount() int { return len(s.statsByDriver) }
